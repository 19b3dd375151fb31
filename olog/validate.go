package olog

import (
	"fmt"
	"slices"
	"sort"
)

// validate runs the load-time completeness gate. Problems are reported in a
// stable order: structure first, then tables in role order.
func (r *Registry) validate() []string {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}
	def := r.def

	if def.Name == "" {
		add("taxonomy name is empty")
	}
	if len(def.Dimensions) == 0 {
		add("no dimensions declared")
	}
	if len(r.dimIndex) != len(def.Dimensions) {
		add("duplicate dimension names")
	}
	if len(r.categories) != len(def.Categories) {
		add("duplicate category names")
	}
	for _, c := range def.Categories {
		if len(c.Members) == 0 {
			add("category %s has no members", c.Name)
		}
		seen := make(map[Tag]bool, len(c.Members))
		for _, m := range c.Members {
			if m == "" {
				add("category %s has an empty tag", c.Name)
			}
			if seen[m] {
				add("category %s lists %q twice", c.Name, m)
			}
			seen[m] = true
		}
	}
	for _, name := range def.Roles.names() {
		if _, ok := r.categories[name]; !ok {
			add("role category %q is not declared", name)
		}
	}
	if len(problems) > 0 {
		// Table checks below depend on a sound structure.
		return problems
	}

	subjects := r.categories[def.Roles.Subject]
	for _, s := range subjects.Members {
		preset, ok := def.Presets[s]
		if !ok {
			add("presets: missing entry for %s %q", subjects.Name, s)
			continue
		}
		for _, d := range def.Dimensions {
			v, ok := preset[d]
			if !ok {
				add("presets[%s]: missing dimension %s", s, d)
				continue
			}
			if v < MinValue || v > MaxValue {
				add("presets[%s][%s]: value %d outside [%d,%d]", s, d, v, MinValue, MaxValue)
			}
		}
		problems = append(problems, r.unknownDimensions(fmt.Sprintf("presets[%s]", s), preset)...)
	}
	problems = append(problems, unknownKeys("presets", subjects, keysOf(def.Presets))...)

	levels := r.categories[def.Roles.Intensity]
	for _, l := range levels.Members {
		pct, ok := def.Scales[l]
		if !ok {
			add("scales: missing entry for %s %q", levels.Name, l)
			continue
		}
		if pct <= 0 || pct > 100 {
			add("scales[%s]: percent %d outside (0,100]", l, pct)
		}
	}
	problems = append(problems, unknownKeys("scales", levels, keysOf(def.Scales))...)

	tones := r.categories[def.Roles.Tone]
	for _, t := range tones.Members {
		deltas, ok := def.Deltas[t]
		if !ok {
			add("deltas: missing entry for %s %q", tones.Name, t)
			continue
		}
		problems = append(problems, r.unknownDimensions(fmt.Sprintf("deltas[%s]", t), deltas)...)
	}
	problems = append(problems, unknownKeys("deltas", tones, keysOf(def.Deltas))...)

	priorities := r.categories[def.Roles.Priority]
	for _, p := range priorities.Members {
		target, ok := def.Boosts[p]
		if !ok {
			add("boosts: missing entry for %s %q", priorities.Name, p)
			continue
		}
		if !r.HasDimension(target) {
			add("boosts[%s]: unknown target dimension %s", p, target)
		}
	}
	problems = append(problems, unknownKeys("boosts", priorities, keysOf(def.Boosts))...)
	if def.BoostAmount < 0 {
		add("boost amount %d is negative", def.BoostAmount)
	}

	for _, d := range def.Dimensions {
		buckets, ok := def.Templates[d]
		if !ok {
			add("templates: missing dimension %s", d)
			continue
		}
		problems = append(problems, partitionProblems(d, buckets)...)
	}
	for _, d := range sortedDimensions(def.Templates) {
		if !r.HasDimension(d) {
			add("templates: unknown dimension %s", d)
		}
	}

	for _, d := range def.Dimensions {
		n, ok := def.Negatives[d]
		if !ok {
			add("negatives: missing dimension %s", d)
			continue
		}
		if n.Threshold < MinValue || n.Threshold > MaxValue {
			add("negatives[%s]: threshold %d outside [%d,%d]", d, n.Threshold, MinValue, MaxValue)
		}
		if n.Fragment == "" {
			add("negatives[%s]: empty fragment", d)
		}
	}
	for _, d := range sortedDimensions(def.Negatives) {
		if !r.HasDimension(d) {
			add("negatives: unknown dimension %s", d)
		}
	}

	return problems
}

// partitionProblems checks that buckets (sorted by Min) cover [0,10] with no
// gap and no overlap.
func partitionProblems(d Dimension, buckets []Bucket) []string {
	var problems []string
	if len(buckets) == 0 {
		return []string{fmt.Sprintf("templates[%s]: no buckets", d)}
	}
	next := MinValue
	for _, b := range buckets {
		switch {
		case b.Min > b.Max:
			problems = append(problems, fmt.Sprintf("templates[%s]: bucket [%d,%d] is inverted", d, b.Min, b.Max))
		case b.Min < next:
			problems = append(problems, fmt.Sprintf("templates[%s]: bucket [%d,%d] overlaps below %d", d, b.Min, b.Max, next))
		case b.Min > next:
			problems = append(problems, fmt.Sprintf("templates[%s]: gap [%d,%d]", d, next, b.Min-1))
		}
		if b.Fragment == "" {
			problems = append(problems, fmt.Sprintf("templates[%s]: bucket [%d,%d] has an empty fragment", d, b.Min, b.Max))
		}
		if b.Max+1 > next {
			next = b.Max + 1
		}
	}
	if buckets[0].Min < MinValue {
		problems = append(problems, fmt.Sprintf("templates[%s]: starts below %d", d, MinValue))
	}
	if next-1 < MaxValue {
		problems = append(problems, fmt.Sprintf("templates[%s]: gap [%d,%d]", d, next, MaxValue))
	}
	if next-1 > MaxValue {
		problems = append(problems, fmt.Sprintf("templates[%s]: extends above %d", d, MaxValue))
	}
	return problems
}

func (r *Registry) unknownDimensions(table string, m map[Dimension]int) []string {
	var problems []string
	for _, d := range sortedDimensions(m) {
		if !r.HasDimension(d) {
			problems = append(problems, fmt.Sprintf("%s: unknown dimension %s", table, d))
		}
	}
	return problems
}

func unknownKeys(table string, c Category, keys []Tag) []string {
	var problems []string
	for _, k := range keys {
		if !c.Has(k) {
			problems = append(problems, fmt.Sprintf("%s: %q is not a member of %s", table, k, c.Name))
		}
	}
	return problems
}

func keysOf[V any](m map[Tag]V) []Tag {
	keys := make([]Tag, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func sortedDimensions[V any](m map[Dimension]V) []Dimension {
	keys := make([]Dimension, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
