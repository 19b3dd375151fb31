package olog

import "slices"

// Boost records one applied priority boost.
type Boost struct {
	Priority Tag       `json:"priority"`
	Target   Dimension `json:"target"`
	Amount   int       `json:"amount"`
}

// BuildTrace holds the vector after each stage of Build. Intermediate
// stages are unclamped and may lie outside [0,10].
type BuildTrace struct {
	Base    map[Dimension]int `json:"base"`
	Scale   int               `json:"scale_percent"`
	Scaled  map[Dimension]int `json:"scaled"`
	Toned   map[Dimension]int `json:"toned"`
	Boosts  []Boost           `json:"boosts"`
	Boosted map[Dimension]int `json:"boosted"`
}

// Build maps an intent to a profile:
//
//  1. base preset of the subject
//  2. scale every dimension by the intensity percent, rounding half up
//  3. add the tone's signed deltas
//  4. add BoostAmount to the target of each distinct priority
//  5. clamp to [0,10]
//
// The order is fixed; reordering the stages changes the result. An unknown
// tag fails with *InvalidCategoryError and no profile.
func Build(reg *Registry, intent Intent) (Profile, error) {
	p, _, err := build(reg, intent, false)
	return p, err
}

// Trace is Build that also returns the vector after every stage.
func Trace(reg *Registry, intent Intent) (Profile, BuildTrace, error) {
	return build(reg, intent, true)
}

func build(reg *Registry, intent Intent, trace bool) (Profile, BuildTrace, error) {
	var t BuildTrace

	base, err := reg.BasePreset(intent.Subject)
	if err != nil {
		return Profile{}, t, err
	}
	pct, err := reg.IntensityScale(intent.Intensity)
	if err != nil {
		return Profile{}, t, err
	}
	deltas, err := reg.ToneModifiers(intent.Tone)
	if err != nil {
		return Profile{}, t, err
	}
	priorities := distinct(intent.Priorities)
	targets := make([]Dimension, len(priorities))
	for i, pr := range priorities {
		if targets[i], err = reg.PriorityBoostTarget(pr); err != nil {
			return Profile{}, t, err
		}
	}

	dims := reg.def.Dimensions
	v := base.values
	if trace {
		t.Base = snapshot(dims, v)
		t.Scale = pct
	}

	for i := range v {
		v[i] = scale(v[i], pct)
	}
	if trace {
		t.Scaled = snapshot(dims, v)
	}

	for d, delta := range deltas {
		v[reg.dimIndex[d]] += delta
	}
	if trace {
		t.Toned = snapshot(dims, v)
	}

	amount := reg.def.BoostAmount
	for i, target := range targets {
		v[reg.dimIndex[target]] += amount
		if trace {
			t.Boosts = append(t.Boosts, Boost{Priority: priorities[i], Target: target, Amount: amount})
		}
	}
	if trace {
		t.Boosted = snapshot(dims, v)
	}

	for i := range v {
		v[i] = clamp(v[i])
	}
	return base, t, nil
}

// Explicit validates a caller-supplied profile. Every dimension of reg must be
// present, no unknown dimension may appear and every value must lie in
// [0,10]. Values are never clamped; violations fail with *ValidationError.
func Explicit(reg *Registry, values map[Dimension]int) (Profile, error) {
	for _, d := range sortedDimensions(values) {
		if !reg.HasDimension(d) {
			return Profile{}, &ValidationError{Field: string(d), Value: values[d], Reason: "unknown dimension for taxonomy " + reg.def.Name}
		}
	}
	out := make([]int, len(reg.def.Dimensions))
	for i, d := range reg.def.Dimensions {
		v, ok := values[d]
		if !ok {
			return Profile{}, &ValidationError{Field: string(d), Reason: "missing value"}
		}
		if v < MinValue || v > MaxValue {
			return Profile{}, outOfRange(string(d), v)
		}
		out[i] = v
	}
	return Profile{taxonomy: reg.def.Name, dims: reg.def.Dimensions, values: out}, nil
}

// ExplicitStrings is Explicit for plain string keys, as decoded from JSON.
func ExplicitStrings(reg *Registry, values map[string]int) (Profile, error) {
	m := make(map[Dimension]int, len(values))
	for k, v := range values {
		m[Dimension(k)] = v
	}
	return Explicit(reg, m)
}

// scale multiplies v by pct percent, rounding half away from zero. Integer
// arithmetic keeps results identical on every platform.
func scale(v, pct int) int {
	n := v * pct
	if n < 0 {
		return -((-n + 50) / 100)
	}
	return (n + 50) / 100
}

// distinct drops repeated priority tags, keeping first occurrences.
// Priorities form a set, so a repeated tag boosts once.
func distinct(tags []Tag) []Tag {
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

func snapshot(dims []Dimension, v []int) map[Dimension]int {
	m := make(map[Dimension]int, len(dims))
	for i, d := range dims {
		m[d] = v[i]
	}
	return m
}
