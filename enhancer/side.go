package enhancer

import (
	"github.com/dmarsters/slapstick-enhancer/olog"
)

// SideInput describes one half of a compatibility query. Exactly one of
// Intent, Parameters or ProfileCode supplies the profile. Context carries the
// categorical attributes; the intent's subject, tone and intensity are added
// to it automatically.
type SideInput struct {
	Taxonomy    string            `json:"taxonomy"`
	Intent      *olog.Intent      `json:"intent,omitempty"`
	Parameters  map[string]int    `json:"parameters,omitempty"`
	ProfileCode string            `json:"profile_code,omitempty"`
	Context     map[string]string `json:"context"`
}

// ScoreCompatibility resolves both sides and scores them under the named
// rule table ("" selects DefaultTable).
func (s *Service) ScoreCompatibility(table string, a, b SideInput) (olog.CompatibilityScore, error) {
	t, err := s.Table(table)
	if err != nil {
		return olog.CompatibilityScore{}, err
	}
	sideA, err := s.ResolveSide("side_a", a)
	if err != nil {
		return olog.CompatibilityScore{}, err
	}
	sideB, err := s.ResolveSide("side_b", b)
	if err != nil {
		return olog.CompatibilityScore{}, err
	}
	return olog.Score(t, sideA, sideB)
}

// ResolveSide turns a SideInput into an olog.Side. field prefixes error
// field names.
func (s *Service) ResolveSide(field string, in SideInput) (olog.Side, error) {
	if in.Taxonomy == "" {
		return olog.Side{}, &olog.ValidationError{Field: field + ".taxonomy", Reason: "missing taxonomy"}
	}
	reg, err := s.Registry(in.Taxonomy)
	if err != nil {
		return olog.Side{}, err
	}

	sources := 0
	for _, set := range []bool{in.Intent != nil, in.Parameters != nil, in.ProfileCode != ""} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return olog.Side{}, &olog.ValidationError{
			Field:  field,
			Reason: "exactly one of intent, parameters or profile_code is required",
		}
	}

	var p olog.Profile
	switch {
	case in.Intent != nil:
		p, err = olog.Build(reg, *in.Intent)
	case in.Parameters != nil:
		p, err = olog.ExplicitStrings(reg, in.Parameters)
	default:
		p, err = olog.DecodeProfile(reg, in.ProfileCode)
	}
	if err != nil {
		return olog.Side{}, err
	}

	ctx := olog.ContextFromStrings(in.Context)
	if in.Intent != nil {
		roles := reg.Roles()
		for _, attr := range []olog.Attribute{
			{Category: roles.Subject, Tag: in.Intent.Subject},
			{Category: roles.Tone, Tag: in.Intent.Tone},
			{Category: roles.Intensity, Tag: in.Intent.Intensity},
		} {
			cat, tag := attr.Category, attr.Tag
			if have, ok := ctx[cat]; ok && have != tag {
				return olog.Side{}, &olog.ValidationError{
					Field:  field + ".context." + string(cat),
					Reason: "conflicts with intent value " + string(tag),
				}
			}
			ctx[cat] = tag
		}
	}
	return olog.Side{Registry: reg, Profile: p, Context: ctx}, nil
}
