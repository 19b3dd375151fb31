package enhancer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarsters/slapstick-enhancer/errors"
	"github.com/dmarsters/slapstick-enhancer/olog"
)

func newService(t *testing.T) *Service {
	t.Helper()
	s, err := NewDefault()
	require.NoError(t, err)
	return s
}

var tenseArchitecture = olog.Intent{
	Subject:    "architecture",
	Tone:       "tense",
	Priorities: olog.Tags("suspense", "physics"),
	Intensity:  "strong",
}

func TestNewDefault(t *testing.T) {
	s := newService(t)

	var names []string
	for _, info := range s.Taxonomies() {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"slapstick", "lens", "art"}, names)
	assert.Equal(t, []string{"lens×art"}, s.Tables())

	table, err := s.Table("lens-art")
	require.NoError(t, err)
	assert.Equal(t, "lens×art", table.Name())

	s2, err := NewDefault(WithCoherenceThreshold(5))
	require.NoError(t, err)
	table, err = s2.Table("")
	require.NoError(t, err)
	assert.Equal(t, 5, table.CoherenceThreshold())
}

func TestMapIntent(t *testing.T) {
	s := newService(t)

	p, err := s.MapIntent("", tenseArchitecture)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"exaggeration": 6, "timing": 3, "physical": 6,
		"ruleOfThree": 5, "readability": 5, "tension": 10,
	}, p.StringMap())
}

func TestUnknownTaxonomy(t *testing.T) {
	s := newService(t)

	_, err := s.MapIntent("haiku", tenseArchitecture)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidCategoryError(err))
	assert.Contains(t, err.Error(), `taxonomy: unknown value "haiku"`)
	assert.Contains(t, errors.FlattenHints(err), "slapstick, lens, art")

	_, err = s.Table("lens×haiku")
	assert.True(t, errors.IsInvalidCategoryError(err))
}

func TestBuildFromExplicitProfile(t *testing.T) {
	s := newService(t)

	_, err := s.BuildFromExplicitProfile("slapstick", map[string]int{
		"exaggeration": 11, "timing": 5, "physical": 5,
		"ruleOfThree": 5, "readability": 5, "tension": 5,
	})
	assert.True(t, errors.IsValidationError(err))

	p, err := s.BuildFromExplicitProfile("slapstick", map[string]int{
		"exaggeration": 10, "timing": 0, "physical": 5,
		"ruleOfThree": 5, "readability": 5, "tension": 5,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{10, 0, 5, 5, 5, 5}, p.Values())
}

func TestEnhance(t *testing.T) {
	s := newService(t)

	e, err := s.Enhance("slapstick", "A corporate office", tenseArchitecture)
	require.NoError(t, err)
	assert.Equal(t, "Applied strong tense treatment to architecture, emphasizing suspense, physics", e.Summary)
	assert.Contains(t, e.Enhanced, "A corporate office, obvious proportion exaggerations")
	assert.Contains(t, e.Negative, "peaceful, calm, balanced, serene")

	back, err := s.DecodeProfile("", e.ProfileCode)
	require.NoError(t, err)
	assert.True(t, back.Equal(e.Parameters))

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"parameters_used":{"exaggeration":6,"timing":3,"physical":6,"ruleOfThree":5,"readability":5,"tension":10}`)
}

func TestSummaryWithoutPriorities(t *testing.T) {
	got := Summary(olog.Intent{Subject: "portrait", Tone: "playful", Intensity: "subtle"})
	assert.Equal(t, "Applied subtle playful treatment to portrait, emphasizing none specified", got)
}

func TestDescribeAndList(t *testing.T) {
	s := newService(t)

	p, err := s.MapIntent("slapstick", tenseArchitecture)
	require.NoError(t, err)

	desc, err := s.DescribeProfile("", p)
	require.NoError(t, err)
	assert.Equal(t, "extreme precarious balance", desc["tension"])
	assert.Len(t, desc, 6)

	cats, err := s.ListCategories("slapstick")
	require.NoError(t, err)
	assert.Equal(t, []string{"subtle", "moderate", "strong", "extreme"}, cats["intensity"])
	assert.Len(t, cats["emotional_tone"], 9)

	_, err = s.RenderText("lens", "x", p)
	assert.True(t, errors.IsValidationError(err), "slapstick profile rendered as lens")
}

func TestScoreCompatibility(t *testing.T) {
	s := newService(t)

	lens := SideInput{
		Taxonomy: "lens",
		Intent:   &olog.Intent{Subject: "portrait", Tone: "noir", Intensity: "moderate"},
		Context:  map[string]string{"lighting": "chiaroscuro", "era": "early_modern"},
	}
	art := SideInput{
		Taxonomy: "art",
		Intent:   &olog.Intent{Subject: "baroque", Tone: "bold", Intensity: "strong"},
		Context:  map[string]string{"texture": "impasto", "era": "early_modern"},
	}

	ab, err := s.ScoreCompatibility("", lens, art)
	require.NoError(t, err)
	ba, err := s.ScoreCompatibility("", art, lens)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
	assert.Equal(t, 8, ab.Aesthetic, "movement from the intent joins the context")
	assert.Equal(t, olog.EraMatched, ab.TemporalAlignment)
}

func TestResolveSideErrors(t *testing.T) {
	s := newService(t)
	intent := &olog.Intent{Subject: "baroque", Tone: "bold", Intensity: "strong"}

	tests := []struct {
		name  string
		in    SideInput
		check func(error) bool
	}{
		{"missing taxonomy", SideInput{Intent: intent}, errors.IsValidationError},
		{"no profile source", SideInput{Taxonomy: "art"}, errors.IsValidationError},
		{"two profile sources", SideInput{Taxonomy: "art", Intent: intent, ProfileCode: "art:z1"}, errors.IsValidationError},
		{"context conflicts with intent", SideInput{Taxonomy: "art", Intent: intent, Context: map[string]string{"movement": "bauhaus"}}, errors.IsValidationError},
		{"unknown taxonomy", SideInput{Taxonomy: "film", Intent: intent}, errors.IsInvalidCategoryError},
		{"bad intent tag", SideInput{Taxonomy: "art", Intent: &olog.Intent{Subject: "rococo", Tone: "bold", Intensity: "strong"}}, errors.IsInvalidCategoryError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ResolveSide("side_a", tt.in)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
		})
	}
}
