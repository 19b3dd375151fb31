package olog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// toyDefinition is a minimal two-dimension taxonomy. extra categories are
// appended for use as scoring context.
func toyDefinition(name string, extra ...Category) Definition {
	cats := []Category{
		{Name: "subject", Members: Tags("s1", "s2")},
		{Name: "tone", Members: Tags("t1", "t2")},
		{Name: "priority", Members: Tags("p1", "p2", "p3")},
		{Name: "intensity", Members: Tags("low", "full")},
	}
	return Definition{
		Name:       name,
		Version:    "1.0.0",
		Dimensions: []Dimension{"a", "b"},
		Categories: append(cats, extra...),
		Roles:      Roles{Subject: "subject", Tone: "tone", Priority: "priority", Intensity: "intensity"},
		Presets: map[Tag]map[Dimension]int{
			"s1": {"a": 4, "b": 9},
			"s2": {"a": 0, "b": 10},
		},
		Scales: map[Tag]int{"low": 50, "full": 100},
		Deltas: map[Tag]map[Dimension]int{
			"t1": {"a": 3, "b": -2},
			"t2": {},
		},
		Boosts: map[Tag]Dimension{"p1": "a", "p2": "a", "p3": "b"},
		Templates: map[Dimension][]Bucket{
			"a": {
				{Min: 8, Max: 10, Summary: "much a", Fragment: "a high"},
				{Min: 0, Max: 3, Summary: "little a", Fragment: "a low"},
				{Min: 4, Max: 7, Summary: "some a", Fragment: "a mid"},
			},
			"b": {
				{Min: 0, Max: 5, Summary: "little b", Fragment: "b low"},
				{Min: 6, Max: 10, Summary: "much b", Fragment: "b high"},
			},
		},
		Negatives: map[Dimension]Negative{
			"a": {Threshold: 7, Fragment: "no a"},
			"b": {Threshold: 8, Fragment: "no b"},
		},
		BaseNegatives: []string{"blurry"},
	}
}

var (
	eraCategory = Category{Name: "era", Members: Tags("old", "new", "future")}
	lightCat    = Category{Name: "light", Members: Tags("warm_light", "cold_light")}
	paletteCat  = Category{Name: "palette", Members: Tags("warm", "cool")}
)

func toyRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(toyDefinition("toy"))
	require.NoError(t, err)
	return reg
}

func leftRight(t *testing.T) (*Registry, *Registry) {
	t.Helper()
	left, err := NewRegistry(toyDefinition("left", lightCat, eraCategory))
	require.NoError(t, err)
	right, err := NewRegistry(toyDefinition("right", paletteCat, eraCategory))
	require.NoError(t, err)
	return left, right
}

func mustBuild(t *testing.T, reg *Registry, intent Intent) Profile {
	t.Helper()
	p, err := Build(reg, intent)
	require.NoError(t, err)
	return p
}
