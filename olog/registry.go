package olog

import (
	"fmt"
	"maps"
	"slices"
)

// DefaultConnective separates fragments in synthesized text.
const DefaultConnective = ", "

// DefaultBoostAmount is added to a priority's target dimension.
const DefaultBoostAmount = 2

// Bucket maps the closed range [Min,Max] of one dimension to text.
type Bucket struct {
	Min      int
	Max      int
	Summary  string // short description, used by Describe
	Fragment string // prompt fragment, used by Synthesize
}

// Contains reports whether v lies in [Min,Max].
func (b Bucket) Contains(v int) bool {
	return v >= b.Min && v <= b.Max
}

// Negative is the exclusion phrase emitted once a dimension reaches Threshold.
type Negative struct {
	Threshold int
	Fragment  string
}

// Definition is the raw, unvalidated content of a taxonomy.
// Pass it to NewRegistry; the registry keeps its own copy.
type Definition struct {
	Name       string
	Version    string // semver of the table content
	Dimensions []Dimension
	Categories []Category
	Roles      Roles

	Presets     map[Tag]map[Dimension]int // subject -> full dimension map
	Scales      map[Tag]int               // intensity -> percent in (0,100]
	Deltas      map[Tag]map[Dimension]int // tone -> signed deltas
	Boosts      map[Tag]Dimension         // priority -> target dimension
	BoostAmount int

	Templates     map[Dimension][]Bucket
	Negatives     map[Dimension]Negative
	BaseNegatives []string
	Connective    string
}

// Registry is a validated, read-only taxonomy.
type Registry struct {
	def        Definition
	categories map[CategoryName]Category
	dimIndex   map[Dimension]int
}

// NewRegistry validates def and returns an immutable Registry.
// Any missing table entry, partition gap or dangling reference fails with a
// *ConfigurationError listing every problem found.
func NewRegistry(def Definition) (*Registry, error) {
	def = cloneDefinition(def)
	if def.BoostAmount == 0 {
		def.BoostAmount = DefaultBoostAmount
	}
	if def.Connective == "" {
		def.Connective = DefaultConnective
	}

	r := &Registry{
		def:        def,
		categories: make(map[CategoryName]Category, len(def.Categories)),
		dimIndex:   make(map[Dimension]int, len(def.Dimensions)),
	}
	for i, d := range def.Dimensions {
		r.dimIndex[d] = i
	}
	for _, c := range def.Categories {
		r.categories[c.Name] = c
	}

	if problems := r.validate(); len(problems) > 0 {
		return nil, &ConfigurationError{Taxonomy: def.Name, Problems: problems}
	}
	return r, nil
}

// Name returns the taxonomy name.
func (r *Registry) Name() string { return r.def.Name }

// Version returns the semver of the taxonomy tables.
func (r *Registry) Version() string { return r.def.Version }

// Roles returns the role assignment of the intent categories.
func (r *Registry) Roles() Roles { return r.def.Roles }

// BoostAmount returns the constant added per priority.
func (r *Registry) BoostAmount() int { return r.def.BoostAmount }

// Connective returns the separator used by Synthesize.
func (r *Registry) Connective() string { return r.def.Connective }

// Dimensions returns the canonical dimension order.
func (r *Registry) Dimensions() []Dimension {
	return slices.Clone(r.def.Dimensions)
}

// HasDimension reports whether d belongs to this taxonomy.
func (r *Registry) HasDimension(d Dimension) bool {
	_, ok := r.dimIndex[d]
	return ok
}

// Categories returns every category in declaration order.
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.def.Categories))
	for i, c := range r.def.Categories {
		out[i] = Category{Name: c.Name, Description: c.Description, Members: slices.Clone(c.Members)}
	}
	return out
}

// Category returns the named category.
func (r *Registry) Category(name CategoryName) (Category, bool) {
	c, ok := r.categories[name]
	if !ok {
		return Category{}, false
	}
	return Category{Name: c.Name, Description: c.Description, Members: slices.Clone(c.Members)}, true
}

// CategoryMembers returns the ordered members of the named category.
func (r *Registry) CategoryMembers(name CategoryName) ([]Tag, error) {
	c, ok := r.categories[name]
	if !ok {
		return nil, &InvalidCategoryError{Field: "category", Tag: Tag(name)}
	}
	return slices.Clone(c.Members), nil
}

// ValidateTag checks that tag is a member of the named category.
// field is reported back in the error.
func (r *Registry) ValidateTag(field string, name CategoryName, tag Tag) error {
	c, ok := r.categories[name]
	if !ok {
		return &InvalidCategoryError{Field: field, Tag: Tag(name)}
	}
	if !c.Has(tag) {
		return invalidCategory(field, c, tag)
	}
	return nil
}

// BasePreset returns the full base profile for a subject tag.
func (r *Registry) BasePreset(subject Tag) (Profile, error) {
	if err := r.ValidateTag("subject", r.def.Roles.Subject, subject); err != nil {
		return Profile{}, err
	}
	return r.profileFromMap(r.def.Presets[subject]), nil
}

// ToneModifiers returns the signed per-dimension deltas of a tone.
func (r *Registry) ToneModifiers(tone Tag) (map[Dimension]int, error) {
	if err := r.ValidateTag("tone", r.def.Roles.Tone, tone); err != nil {
		return nil, err
	}
	return maps.Clone(r.def.Deltas[tone]), nil
}

// PriorityBoostTarget returns the dimension a priority boosts.
func (r *Registry) PriorityBoostTarget(priority Tag) (Dimension, error) {
	if err := r.ValidateTag("priorities", r.def.Roles.Priority, priority); err != nil {
		return "", err
	}
	return r.def.Boosts[priority], nil
}

// IntensityScale returns the percent scale of an intensity level.
func (r *Registry) IntensityScale(level Tag) (int, error) {
	if err := r.ValidateTag("intensity", r.def.Roles.Intensity, level); err != nil {
		return 0, err
	}
	return r.def.Scales[level], nil
}

// TemplateFragment returns the bucket of dimension d that contains value.
func (r *Registry) TemplateFragment(d Dimension, value int) (Bucket, error) {
	buckets, ok := r.def.Templates[d]
	if !ok {
		return Bucket{}, &ValidationError{Field: string(d), Value: value, Reason: "unknown dimension"}
	}
	if value < MinValue || value > MaxValue {
		return Bucket{}, outOfRange(string(d), value)
	}
	for _, b := range buckets {
		if b.Contains(value) {
			return b, nil
		}
	}
	// Unreachable: validate() proved the buckets partition [0,10].
	return Bucket{}, fmt.Errorf("dimension %s: no bucket for %d", d, value)
}

// Buckets returns the template buckets of d in ascending order.
func (r *Registry) Buckets(d Dimension) []Bucket {
	return slices.Clone(r.def.Templates[d])
}

// NegativeFor returns the negative rule of dimension d.
func (r *Registry) NegativeFor(d Dimension) (Negative, bool) {
	n, ok := r.def.Negatives[d]
	return n, ok
}

// BaseNegatives returns the phrases every negative text starts with.
func (r *Registry) BaseNegatives() []string {
	return slices.Clone(r.def.BaseNegatives)
}

func (r *Registry) profileFromMap(m map[Dimension]int) Profile {
	values := make([]int, len(r.def.Dimensions))
	for i, d := range r.def.Dimensions {
		values[i] = m[d]
	}
	return Profile{taxonomy: r.def.Name, dims: r.def.Dimensions, values: values}
}

func cloneDefinition(def Definition) Definition {
	out := def
	out.Dimensions = slices.Clone(def.Dimensions)
	out.Categories = make([]Category, len(def.Categories))
	for i, c := range def.Categories {
		out.Categories[i] = Category{Name: c.Name, Description: c.Description, Members: slices.Clone(c.Members)}
	}
	out.Presets = cloneNested(def.Presets)
	out.Deltas = cloneNested(def.Deltas)
	out.Scales = maps.Clone(def.Scales)
	out.Boosts = maps.Clone(def.Boosts)
	out.Templates = make(map[Dimension][]Bucket, len(def.Templates))
	for d, bs := range def.Templates {
		sorted := slices.Clone(bs)
		slices.SortStableFunc(sorted, func(a, b Bucket) int { return a.Min - b.Min })
		out.Templates[d] = sorted
	}
	out.Negatives = maps.Clone(def.Negatives)
	out.BaseNegatives = slices.Clone(def.BaseNegatives)
	return out
}

func cloneNested(m map[Tag]map[Dimension]int) map[Tag]map[Dimension]int {
	if m == nil {
		return nil
	}
	out := make(map[Tag]map[Dimension]int, len(m))
	for k, v := range m {
		out[k] = maps.Clone(v)
	}
	return out
}
