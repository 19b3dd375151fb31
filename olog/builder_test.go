package olog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarsters/slapstick-enhancer/errors"
)

func TestBuild(t *testing.T) {
	reg := toyRegistry(t)

	tests := []struct {
		name   string
		intent Intent
		want   []int
	}{
		{
			name:   "full intensity with tone and boost",
			intent: Intent{Subject: "s1", Tone: "t1", Priorities: Tags("p1"), Intensity: "full"},
			want:   []int{9, 7},
		},
		{
			name:   "two priorities on one dimension clamp at ten",
			intent: Intent{Subject: "s1", Tone: "t1", Priorities: Tags("p1", "p2"), Intensity: "full"},
			want:   []int{10, 7},
		},
		{
			name:   "half intensity rounds half up",
			intent: Intent{Subject: "s1", Tone: "t2", Intensity: "low"},
			want:   []int{2, 5},
		},
		{
			name:   "boost clamps at the ceiling",
			intent: Intent{Subject: "s2", Tone: "t1", Priorities: Tags("p3"), Intensity: "full"},
			want:   []int{3, 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Build(reg, tt.intent)
			require.NoError(t, err)
			assert.Equal(t, "toy", p.Taxonomy())
			assert.Equal(t, tt.want, p.Values())
		})
	}
}

func TestBuildRejectsUnknownTags(t *testing.T) {
	reg := toyRegistry(t)
	valid := Intent{Subject: "s1", Tone: "t1", Priorities: Tags("p1"), Intensity: "full"}

	tests := []struct {
		field  string
		mutate func(*Intent)
	}{
		{"subject", func(i *Intent) { i.Subject = "castle" }},
		{"tone", func(i *Intent) { i.Tone = "" }},
		{"priorities", func(i *Intent) { i.Priorities = Tags("p1", "nope") }},
		{"intensity", func(i *Intent) { i.Intensity = "max" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			intent := valid
			intent.Priorities = Tags("p1")
			tt.mutate(&intent)

			p, err := Build(reg, intent)
			require.Error(t, err)
			assert.True(t, p.IsZero(), "no partial profile on error")
			assert.True(t, errors.IsInvalidCategoryError(err))

			var catErr *InvalidCategoryError
			require.True(t, errors.As(err, &catErr))
			assert.Equal(t, tt.field, catErr.Field)
		})
	}
}

func TestBuildIsDeterministicAndBounded(t *testing.T) {
	reg := toyRegistry(t)
	prioritySets := [][]Tag{nil, Tags("p1"), Tags("p2", "p3"), Tags("p1", "p2", "p3")}

	for _, s := range Tags("s1", "s2") {
		for _, tone := range Tags("t1", "t2") {
			for _, level := range Tags("low", "full") {
				for _, prs := range prioritySets {
					intent := Intent{Subject: s, Tone: tone, Priorities: prs, Intensity: level}
					first := mustBuild(t, reg, intent)
					second := mustBuild(t, reg, intent)
					assert.True(t, first.Equal(second), "%+v not deterministic", intent)
					for _, v := range first.Values() {
						assert.GreaterOrEqual(t, v, MinValue)
						assert.LessOrEqual(t, v, MaxValue)
					}
				}
			}
		}
	}
}

func TestBuildPriorityOrderDoesNotMatter(t *testing.T) {
	reg := toyRegistry(t)
	base := Intent{Subject: "s1", Tone: "t2", Intensity: "low"}

	forward, backward, repeated, fewer := base, base, base, base
	forward.Priorities = Tags("p1", "p3")
	backward.Priorities = Tags("p3", "p1")
	repeated.Priorities = Tags("p3", "p1", "p3")
	fewer.Priorities = Tags("p3")

	want := mustBuild(t, reg, forward)
	assert.True(t, want.Equal(mustBuild(t, reg, backward)))
	assert.True(t, want.Equal(mustBuild(t, reg, repeated)), "a repeated tag boosts once")
	assert.False(t, want.Equal(mustBuild(t, reg, fewer)), "a different set changes the profile")
}

func TestTrace(t *testing.T) {
	reg := toyRegistry(t)
	intent := Intent{Subject: "s1", Tone: "t1", Priorities: Tags("p1", "p2"), Intensity: "full"}

	p, trace, err := Trace(reg, intent)
	require.NoError(t, err)

	assert.True(t, p.Equal(mustBuild(t, reg, intent)))
	assert.Equal(t, map[Dimension]int{"a": 4, "b": 9}, trace.Base)
	assert.Equal(t, 100, trace.Scale)
	assert.Equal(t, map[Dimension]int{"a": 7, "b": 7}, trace.Toned)
	assert.Equal(t, map[Dimension]int{"a": 11, "b": 7}, trace.Boosted, "boosted stage is unclamped")
	assert.Equal(t, []Boost{
		{Priority: "p1", Target: "a", Amount: 2},
		{Priority: "p2", Target: "a", Amount: 2},
	}, trace.Boosts)
}

func TestExplicit(t *testing.T) {
	reg := toyRegistry(t)

	p, err := Explicit(reg, map[Dimension]int{"a": 0, "b": 10})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 10}, p.Values())

	tests := []struct {
		name   string
		values map[Dimension]int
		field  string
	}{
		{"above range", map[Dimension]int{"a": 11, "b": 1}, "a"},
		{"below range", map[Dimension]int{"a": 1, "b": -1}, "b"},
		{"missing dimension", map[Dimension]int{"a": 1}, "b"},
		{"unknown dimension", map[Dimension]int{"a": 1, "b": 1, "c": 1}, "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Explicit(reg, tt.values)
			require.Error(t, err)
			assert.True(t, p.IsZero())
			assert.True(t, errors.IsValidationError(err))

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestProfileAccessors(t *testing.T) {
	reg := toyRegistry(t)
	p, err := ExplicitStrings(reg, map[string]int{"a": 3, "b": 8})
	require.NoError(t, err)

	v, ok := p.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 8, v)
	_, ok = p.Get("z")
	assert.False(t, ok)

	assert.Equal(t, map[string]int{"a": 3, "b": 8}, p.StringMap())
	assert.Equal(t, "{a:3, b:8}", p.String())

	data, err := p.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":8}`, string(data))
	assert.Equal(t, `{"a":3,"b":8}`, string(data), "keys keep canonical order")

	values := p.Values()
	values[0] = 99
	v, _ = p.Get("a")
	assert.Equal(t, 3, v, "Values returns a copy")
}

func TestProfileCode(t *testing.T) {
	reg := toyRegistry(t)
	p := mustBuild(t, reg, Intent{Subject: "s1", Tone: "t1", Priorities: Tags("p1"), Intensity: "full"})

	code := EncodeProfile(p)
	assert.Regexp(t, `^toy:z[1-9A-HJ-NP-Za-km-z]+$`, code)

	back, err := DecodeProfile(reg, code)
	require.NoError(t, err)
	assert.True(t, p.Equal(back))

	other, err := NewRegistry(toyDefinition("other"))
	require.NoError(t, err)

	for name, bad := range map[string]string{
		"wrong taxonomy": EncodeProfile(mustBuild(t, other, Intent{Subject: "s1", Tone: "t1", Intensity: "low"})),
		"no prefix":      "abc",
		"not base58":     "toy:z0OIl",
		"truncated":      code[:len(code)-2],
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeProfile(reg, bad)
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		})
	}
}
