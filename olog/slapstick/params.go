package slapstick

import (
	"github.com/dmarsters/slapstick-enhancer/errors"
	"github.com/dmarsters/slapstick-enhancer/olog"
)

// Parameters is the named view of a slapstick profile.
type Parameters struct {
	Exaggeration int `json:"exaggeration"`
	Timing       int `json:"timing"`
	Physical     int `json:"physical"`
	RuleOfThree  int `json:"ruleOfThree"`
	Readability  int `json:"readability"`
	Tension      int `json:"tension"`
}

// FromProfile reads p into named fields.
func FromProfile(p olog.Profile) (Parameters, error) {
	if p.Taxonomy() != Name {
		return Parameters{}, errors.Newf("profile belongs to taxonomy %q, not %s", p.Taxonomy(), Name)
	}
	m := p.Map()
	return Parameters{
		Exaggeration: m[Exaggeration],
		Timing:       m[Timing],
		Physical:     m[Physical],
		RuleOfThree:  m[RuleOfThree],
		Readability:  m[Readability],
		Tension:      m[Tension],
	}, nil
}

// Map returns the parameters keyed by dimension.
func (p Parameters) Map() map[olog.Dimension]int {
	return map[olog.Dimension]int{
		Exaggeration: p.Exaggeration,
		Timing:       p.Timing,
		Physical:     p.Physical,
		RuleOfThree:  p.RuleOfThree,
		Readability:  p.Readability,
		Tension:      p.Tension,
	}
}

// Profile validates the parameters against reg without clamping.
func (p Parameters) Profile(reg *olog.Registry) (olog.Profile, error) {
	return olog.Explicit(reg, p.Map())
}
