package pairing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarsters/slapstick-enhancer/errors"
	"github.com/dmarsters/slapstick-enhancer/olog"
)

type fixture struct {
	lens, art *olog.Registry
	table     *olog.RuleTable
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	lens, err := NewLensRegistry()
	require.NoError(t, err)
	art, err := NewArtRegistry()
	require.NoError(t, err)
	table, err := NewRuleTable(lens, art)
	require.NoError(t, err)
	return fixture{lens: lens, art: art, table: table}
}

func (f fixture) lensSide(t *testing.T, ctx olog.Context) olog.Side {
	t.Helper()
	p, err := olog.Build(f.lens, olog.Intent{Subject: "wide", Tone: "noir", Intensity: "strong"})
	require.NoError(t, err)
	return olog.Side{Registry: f.lens, Profile: p, Context: ctx}
}

func (f fixture) artSide(t *testing.T, ctx olog.Context) olog.Side {
	t.Helper()
	p, err := olog.Build(f.art, olog.Intent{Subject: "baroque", Tone: "bold", Intensity: "strong"})
	require.NoError(t, err)
	return olog.Side{Registry: f.art, Profile: p, Context: ctx}
}

func TestRegistriesAreComplete(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, LensName, f.lens.Name())
	assert.Equal(t, ArtName, f.art.Name())
	assert.Equal(t, []string{LensName, ArtName}, f.table.Taxonomies())
	assert.Equal(t, olog.DefaultCoherenceThreshold, f.table.CoherenceThreshold())
}

func TestBaroqueUnderChiaroscuro(t *testing.T) {
	f := newFixture(t)

	lens := f.lensSide(t, olog.Context{Lighting: "chiaroscuro", FocalLength: "normal", Era: "early_modern"})
	art := f.artSide(t, olog.Context{Movement: "baroque", Texture: "impasto", Composition: "symmetrical", Era: "early_modern"})

	s, err := olog.Score(f.table, lens, art)
	require.NoError(t, err)
	assert.Equal(t, 7, s.Technical)
	assert.Equal(t, 8, s.Aesthetic)
	assert.Equal(t, 5, s.CreativeTension)
	assert.Equal(t, olog.EraMatched, s.TemporalAlignment)
	assert.Equal(t, 8, s.OverallHarmony)
	assert.Equal(t,
		"a normal lens keeps symmetrical lines true; "+
			"chiaroscuro is native to baroque drama; "+
			"raking chiaroscuro catches impasto ridges; "+
			"both sides share the early_modern era",
		s.Rationale)
}

func TestNeonBaroqueIsUnusual(t *testing.T) {
	f := newFixture(t)

	lens := f.lensSide(t, olog.Context{Lighting: "neon", ColorGrade: "monochrome", Era: "futurist"})
	art := f.artSide(t, olog.Context{Movement: "baroque", Palette: "neon", Era: "classical"})

	s, err := olog.Score(f.table, lens, art)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Technical)
	assert.Equal(t, 7, s.Aesthetic)
	assert.Equal(t, 9, s.CreativeTension)
	assert.Equal(t, olog.CreativeAnachronism, s.TemporalAlignment)
	assert.Equal(t, 6, s.OverallHarmony)
}

func TestScoreIsSymmetric(t *testing.T) {
	f := newFixture(t)

	lens := f.lensSide(t, olog.Context{Lighting: "golden_hour", FocalLength: "short_tele", Era: "late_century"})
	art := f.artSide(t, olog.Context{Movement: "impressionism", Palette: "earth", Composition: "centered", Era: "midcentury"})

	ab, err := olog.Score(f.table, lens, art)
	require.NoError(t, err)
	ba, err := olog.Score(f.table, art, lens)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
	assert.Equal(t, olog.TemporalClash, ab.TemporalAlignment)
}

func TestScoreRequiresEra(t *testing.T) {
	f := newFixture(t)

	_, err := olog.Score(f.table,
		f.lensSide(t, olog.Context{Lighting: "neon"}),
		f.artSide(t, olog.Context{Era: "classical"}))
	assert.True(t, errors.IsValidationError(err))
}

func TestEveryRuleAttributeIsDeclared(t *testing.T) {
	f := newFixture(t)
	declared := func(attr olog.Attribute) bool {
		for _, reg := range []*olog.Registry{f.lens, f.art} {
			if c, ok := reg.Category(attr.Category); ok && c.Has(attr.Tag) {
				return true
			}
		}
		return false
	}
	for _, r := range f.table.Rules() {
		assert.True(t, declared(r.A), "%s", r.A)
		assert.True(t, declared(r.B), "%s", r.B)
	}
}
