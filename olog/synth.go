package olog

import (
	"slices"
	"strings"
)

// Rendering is the text pair produced for one profile.
type Rendering struct {
	Enhanced string `json:"enhanced_prompt"`
	Negative string `json:"negative_prompt"`
}

// Synthesize appends, in canonical dimension order, the fragment of the
// bucket containing each value to basePrompt. An empty basePrompt yields the
// fragments alone.
func Synthesize(reg *Registry, basePrompt string, p Profile) (string, error) {
	if err := reg.checkProfile("profile", p); err != nil {
		return "", err
	}
	parts := make([]string, 0, len(p.dims)+1)
	if base := strings.TrimSpace(basePrompt); base != "" {
		parts = append(parts, base)
	}
	for i, d := range p.dims {
		b, err := reg.TemplateFragment(d, p.values[i])
		if err != nil {
			return "", err
		}
		parts = append(parts, b.Fragment)
	}
	return strings.Join(parts, reg.def.Connective), nil
}

// SynthesizeNegative lists the base negatives followed by the exclusion
// fragment of every dimension at or above its threshold. Raising one
// dimension over its threshold only ever adds its own fragment.
func SynthesizeNegative(reg *Registry, p Profile) (string, error) {
	if err := reg.checkProfile("profile", p); err != nil {
		return "", err
	}
	parts := slices.Clone(reg.def.BaseNegatives)
	for i, d := range p.dims {
		if n, ok := reg.def.Negatives[d]; ok && p.values[i] >= n.Threshold {
			parts = append(parts, n.Fragment)
		}
	}
	return strings.Join(parts, reg.def.Connective), nil
}

// Describe returns the bucket summary of every dimension.
func Describe(reg *Registry, p Profile) (map[Dimension]string, error) {
	if err := reg.checkProfile("profile", p); err != nil {
		return nil, err
	}
	out := make(map[Dimension]string, len(p.dims))
	for i, d := range p.dims {
		b, err := reg.TemplateFragment(d, p.values[i])
		if err != nil {
			return nil, err
		}
		out[d] = b.Summary
	}
	return out, nil
}

// Render runs Synthesize and SynthesizeNegative together.
func Render(reg *Registry, basePrompt string, p Profile) (Rendering, error) {
	enhanced, err := Synthesize(reg, basePrompt, p)
	if err != nil {
		return Rendering{}, err
	}
	negative, err := SynthesizeNegative(reg, p)
	if err != nil {
		return Rendering{}, err
	}
	return Rendering{Enhanced: enhanced, Negative: negative}, nil
}
