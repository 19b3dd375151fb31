package olog

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// RuleKind selects the sub-score a rule contributes to.
type RuleKind string

const (
	RuleTechnical RuleKind = "technical"
	RuleAesthetic RuleKind = "aesthetic"
	RuleUnusual   RuleKind = "unusual"
)

func (k RuleKind) rank() int {
	switch k {
	case RuleTechnical:
		return 0
	case RuleAesthetic:
		return 1
	case RuleUnusual:
		return 2
	}
	return -1
}

// TemporalAlignment classifies the era relationship of two contexts.
type TemporalAlignment string

const (
	EraMatched          TemporalAlignment = "era_matched"
	CreativeAnachronism TemporalAlignment = "creative_anachronism"
	TemporalClash       TemporalAlignment = "temporal_clash"
)

// Sub-score starting point and the default coherence threshold.
const (
	BaseScore                 = 5
	DefaultCoherenceThreshold = 7
)

// Rule is a bonus for one categorical pair. A and B are unordered: the rule
// fires whichever side carries which attribute.
type Rule struct {
	Kind   RuleKind  `json:"kind"`
	A      Attribute `json:"a"`
	B      Attribute `json:"b"`
	Bonus  int       `json:"bonus"`
	Clause string    `json:"clause"`
}

// RuleTableSpec is the raw content of a rule table.
type RuleTableSpec struct {
	Name               string
	EraCategory        CategoryName
	Rules              []Rule
	Anachronisms       [][2]Tag // intentional era mismatches, unordered
	CoherenceThreshold int      // 0 selects DefaultCoherenceThreshold
}

type pairKey struct {
	lo, hi Attribute
}

func keyOf(a, b Attribute) pairKey {
	if b.String() < a.String() {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

func (k pairKey) String() string {
	return k.lo.String() + "+" + k.hi.String()
}

type tagPair struct {
	lo, hi Tag
}

func tagPairOf(a, b Tag) tagPair {
	if b < a {
		a, b = b, a
	}
	return tagPair{lo: a, hi: b}
}

// RuleTable is a validated, immutable set of pairing rules between the
// categories of two or more registries.
type RuleTable struct {
	name         string
	era          CategoryName
	rules        []Rule
	index        map[pairKey][]int
	anachronisms map[tagPair]bool
	threshold    int
	taxonomies   []string
}

// NewRuleTable validates spec against the registries whose categories it
// pairs. Dangling attributes, non-positive bonuses, duplicate rules and
// unknown eras fail with *ConfigurationError.
func NewRuleTable(spec RuleTableSpec, registries ...*Registry) (*RuleTable, error) {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if spec.Name == "" {
		add("rule table name is empty")
	}
	if len(registries) == 0 {
		add("no registries given")
	}
	declared := func(a Attribute) bool {
		for _, r := range registries {
			if c, ok := r.categories[a.Category]; ok && c.Has(a.Tag) {
				return true
			}
		}
		return false
	}

	var eras Category
	for _, r := range registries {
		c, ok := r.categories[spec.EraCategory]
		if !ok {
			add("era category %q is not declared by taxonomy %s", spec.EraCategory, r.Name())
			continue
		}
		eras = c
	}

	t := &RuleTable{
		name:         spec.Name,
		era:          spec.EraCategory,
		rules:        slices.Clone(spec.Rules),
		index:        make(map[pairKey][]int, len(spec.Rules)),
		anachronisms: make(map[tagPair]bool, len(spec.Anachronisms)),
		threshold:    spec.CoherenceThreshold,
	}
	if t.threshold == 0 {
		t.threshold = DefaultCoherenceThreshold
	}
	for _, r := range registries {
		t.taxonomies = append(t.taxonomies, r.Name())
	}

	for i, rule := range t.rules {
		where := fmt.Sprintf("rules[%d] %s", i, keyOf(rule.A, rule.B))
		if rule.Kind.rank() < 0 {
			add("%s: unknown kind %q", where, rule.Kind)
		}
		if !declared(rule.A) {
			add("%s: attribute %s is not declared", where, rule.A)
		}
		if !declared(rule.B) {
			add("%s: attribute %s is not declared", where, rule.B)
		}
		if rule.A == rule.B {
			add("%s: pairs an attribute with itself", where)
		}
		if rule.Bonus <= 0 {
			add("%s: bonus %d must be positive", where, rule.Bonus)
		}
		if strings.TrimSpace(rule.Clause) == "" {
			add("%s: empty clause", where)
		}
		k := keyOf(rule.A, rule.B)
		for _, j := range t.index[k] {
			if t.rules[j].Kind == rule.Kind {
				add("%s: duplicates rules[%d]", where, j)
			}
		}
		t.index[k] = append(t.index[k], i)
	}

	for _, pair := range spec.Anachronisms {
		for _, era := range pair {
			if !eras.Has(era) {
				add("anachronism %s/%s: %q is not a member of %s", pair[0], pair[1], era, spec.EraCategory)
			}
		}
		if pair[0] == pair[1] {
			add("anachronism %s/%s: identical eras always match", pair[0], pair[1])
		}
		t.anachronisms[tagPairOf(pair[0], pair[1])] = true
	}

	if len(problems) > 0 {
		return nil, &ConfigurationError{Taxonomy: spec.Name, Problems: problems}
	}
	return t, nil
}

// Name returns the table name (e.g. "lens×art").
func (t *RuleTable) Name() string { return t.name }

// EraCategory returns the category both sides must carry.
func (t *RuleTable) EraCategory() CategoryName { return t.era }

// CoherenceThreshold returns the value both sub-scores must exceed for the
// era coherence bonus.
func (t *RuleTable) CoherenceThreshold() int { return t.threshold }

// Taxonomies returns the names of the registries the table was built against.
func (t *RuleTable) Taxonomies() []string { return slices.Clone(t.taxonomies) }

// Rules returns every rule in declaration order.
func (t *RuleTable) Rules() []Rule { return slices.Clone(t.rules) }

// WithCoherenceThreshold returns a copy of t using threshold n.
func (t *RuleTable) WithCoherenceThreshold(n int) *RuleTable {
	c := *t
	c.threshold = n
	return &c
}

// Lookup returns the rules for the unordered pair (a, b), technical first.
// Lookup(a, b) and Lookup(b, a) are identical.
func (t *RuleTable) Lookup(a, b Attribute) []Rule {
	idx := t.index[keyOf(a, b)]
	out := make([]Rule, 0, len(idx))
	for _, i := range idx {
		out = append(out, t.rules[i])
	}
	slices.SortFunc(out, func(x, y Rule) int { return x.Kind.rank() - y.Kind.rank() })
	return out
}

// IsAnachronism reports whether the era pair is whitelisted.
func (t *RuleTable) IsAnachronism(a, b Tag) bool {
	return t.anachronisms[tagPairOf(a, b)]
}

// Side is one half of a compatibility query.
type Side struct {
	Registry *Registry
	Profile  Profile
	Context  Context
}

// Contribution is a rule that fired during scoring.
type Contribution struct {
	Rule Rule `json:"rule"`
}

// CompatibilityScore is the result of Score. Every numeric field lies in
// [0,10].
type CompatibilityScore struct {
	Technical         int               `json:"technical_score"`
	Aesthetic         int               `json:"aesthetic_score"`
	CreativeTension   int               `json:"creative_tension"`
	OverallHarmony    int               `json:"overall_harmony"`
	TemporalAlignment TemporalAlignment `json:"temporal_alignment"`
	Rationale         string            `json:"rationale"`
	Contributions     []Contribution    `json:"contributions"`
}

// Score rates how well two sides pair under table t.
//
// Rules are keyed on unordered attribute pairs and fire at most once, so
// Score(t, a, b) equals Score(t, b, a). Both contexts must carry the era
// category; unknown categories or tags fail with *InvalidCategoryError.
func Score(t *RuleTable, a, b Side) (CompatibilityScore, error) {
	var s CompatibilityScore
	if err := t.checkSide("side_a", a); err != nil {
		return s, err
	}
	if err := t.checkSide("side_b", b); err != nil {
		return s, err
	}

	fired := make(map[int]bool)
	var contributions []int
	for _, x := range a.Context.Attributes() {
		for _, y := range b.Context.Attributes() {
			for _, i := range t.index[keyOf(x, y)] {
				if !fired[i] {
					fired[i] = true
					contributions = append(contributions, i)
				}
			}
		}
	}
	slices.SortFunc(contributions, func(i, j int) int {
		ri, rj := t.rules[i], t.rules[j]
		if d := ri.Kind.rank() - rj.Kind.rank(); d != 0 {
			return d
		}
		return strings.Compare(keyOf(ri.A, ri.B).String(), keyOf(rj.A, rj.B).String())
	})

	technical, aesthetic, tension := BaseScore, BaseScore, BaseScore
	clauses := make([]string, 0, len(contributions)+1)
	for _, i := range contributions {
		rule := t.rules[i]
		switch rule.Kind {
		case RuleTechnical:
			technical += rule.Bonus
		case RuleAesthetic:
			aesthetic += rule.Bonus
		case RuleUnusual:
			tension += rule.Bonus
		}
		clauses = append(clauses, rule.Clause)
		s.Contributions = append(s.Contributions, Contribution{Rule: rule})
	}
	s.Technical = clamp(technical)
	s.Aesthetic = clamp(aesthetic)
	s.CreativeTension = clamp(tension)

	eraA, eraB := a.Context[t.era], b.Context[t.era]
	pair := tagPairOf(eraA, eraB)
	switch {
	case eraA == eraB:
		s.TemporalAlignment = EraMatched
		clauses = append(clauses, fmt.Sprintf("both sides share the %s era", eraA))
	case t.anachronisms[pair]:
		s.TemporalAlignment = CreativeAnachronism
		clauses = append(clauses, fmt.Sprintf("intentional anachronism between %s and %s", pair.lo, pair.hi))
	default:
		s.TemporalAlignment = TemporalClash
		clauses = append(clauses, fmt.Sprintf("era clash between %s and %s", pair.lo, pair.hi))
	}

	harmony := (s.Technical + s.Aesthetic + 1) / 2
	if s.TemporalAlignment == EraMatched && s.Technical > t.threshold && s.Aesthetic > t.threshold {
		harmony++
	}
	s.OverallHarmony = clamp(harmony)
	s.Rationale = strings.Join(clauses, "; ")
	return s, nil
}

func (t *RuleTable) checkSide(field string, side Side) error {
	if side.Registry == nil {
		return &ValidationError{Field: field, Reason: "missing registry"}
	}
	if !slices.Contains(t.taxonomies, side.Registry.Name()) {
		return &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("taxonomy %s is not paired by %s", side.Registry.Name(), t.name),
		}
	}
	if err := side.Registry.checkProfile(field+".profile", side.Profile); err != nil {
		return err
	}
	for _, name := range slices.Sorted(maps.Keys(side.Context)) {
		tag := side.Context[name]
		if err := side.Registry.ValidateTag(field+".context."+string(name), name, tag); err != nil {
			return err
		}
	}
	if _, ok := side.Context[t.era]; !ok {
		return &ValidationError{Field: field + ".context." + string(t.era), Reason: "missing era"}
	}
	return nil
}
