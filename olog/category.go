// Package olog implements the deterministic taxonomy rule engine.
//
// An olog is a closed categorical structure: named categories of string tags,
// lookup tables keyed by those tags, and pure morphisms between them:
//
//	Intent  ──Build──▶ Profile ──Synthesize──────────▶ enhanced text
//	                      │    ──SynthesizeNegative──▶ negative text
//	                      │    ──Describe────────────▶ per-dimension summaries
//	(Profile, Context) ×2 ──Score──▶ CompatibilityScore
//
// Every table is validated for completeness when the Registry is built, so no
// morphism ever meets a missing key at request time. A Registry is immutable
// after NewRegistry returns and may be shared across goroutines without locks.
// Nothing in this package performs I/O, logs, reads the clock or draws random
// numbers.
package olog

import (
	"slices"
	"sort"
	"strings"
)

// Parameter values are integers in this closed range at every observable point.
const (
	MinValue = 0
	MaxValue = 10
)

// Tag is a member of a closed category (e.g. "tense", "architecture").
type Tag string

// CategoryName names a closed set of tags (e.g. "emotional_tone").
type CategoryName string

// Dimension names one numeric axis of a Profile (e.g. "exaggeration").
type Dimension string

// Category is an exhaustively enumerated set of tags.
type Category struct {
	Name        CategoryName
	Description string
	Members     []Tag
}

// Has reports whether t is a member of the category.
func (c Category) Has(t Tag) bool {
	return slices.Contains(c.Members, t)
}

// Strings returns the members as plain strings, in declaration order.
func (c Category) Strings() []string {
	out := make([]string, len(c.Members))
	for i, m := range c.Members {
		out[i] = string(m)
	}
	return out
}

// Roles names the category that plays each part in intent mapping.
type Roles struct {
	Subject   CategoryName // keys the base preset
	Tone      CategoryName // keys the signed deltas
	Priority  CategoryName // keys the boost targets
	Intensity CategoryName // keys the scale
}

func (r Roles) names() []CategoryName {
	return []CategoryName{r.Subject, r.Tone, r.Priority, r.Intensity}
}

// Attribute is one categorical value: a tag qualified by its category.
type Attribute struct {
	Category CategoryName `json:"category"`
	Tag      Tag          `json:"tag"`
}

func (a Attribute) String() string {
	return string(a.Category) + ":" + string(a.Tag)
}

// Context carries the categorical attributes a profile was derived from.
// Compatibility rules key on these, never on numeric values.
type Context map[CategoryName]Tag

// Attributes returns the context as attributes sorted by category name.
func (c Context) Attributes() []Attribute {
	out := make([]Attribute, 0, len(c))
	for name, tag := range c {
		out = append(out, Attribute{Category: name, Tag: tag})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// ContextFromStrings converts a plain string map (as decoded from JSON, TOML or
// YAML) into a Context. Tags are trimmed; validation happens in the registry.
func ContextFromStrings(m map[string]string) Context {
	ctx := make(Context, len(m))
	for k, v := range m {
		ctx[CategoryName(strings.TrimSpace(k))] = Tag(strings.TrimSpace(v))
	}
	return ctx
}

// Intent is the categorical request: one subject, one tone, a set of
// priorities and one intensity level.
type Intent struct {
	Subject    Tag   `json:"subject"`
	Tone       Tag   `json:"tone"`
	Priorities []Tag `json:"priorities"`
	Intensity  Tag   `json:"intensity"`
}

// Tags converts plain strings into tags.
func Tags(ss ...string) []Tag {
	out := make([]Tag, len(ss))
	for i, s := range ss {
		out[i] = Tag(s)
	}
	return out
}
