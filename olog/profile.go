package olog

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"
)

// Profile is an immutable parameter vector: one integer in [0,10] per
// dimension of its taxonomy, stored in canonical dimension order.
//
// The zero Profile belongs to no taxonomy and has no dimensions.
type Profile struct {
	taxonomy string
	dims     []Dimension
	values   []int
}

// Taxonomy returns the name of the registry the profile was built from.
func (p Profile) Taxonomy() string { return p.taxonomy }

// IsZero reports whether p is the zero Profile.
func (p Profile) IsZero() bool { return p.taxonomy == "" && len(p.values) == 0 }

// Get returns the value of dimension d.
func (p Profile) Get(d Dimension) (int, bool) {
	i := slices.Index(p.dims, d)
	if i < 0 {
		return 0, false
	}
	return p.values[i], true
}

// Dimensions returns the canonical dimension order.
func (p Profile) Dimensions() []Dimension { return slices.Clone(p.dims) }

// Values returns a copy of the values in canonical dimension order.
func (p Profile) Values() []int { return slices.Clone(p.values) }

// Map returns the profile as a dimension -> value map.
func (p Profile) Map() map[Dimension]int {
	m := make(map[Dimension]int, len(p.dims))
	for i, d := range p.dims {
		m[d] = p.values[i]
	}
	return m
}

// StringMap returns the profile keyed by plain dimension names.
func (p Profile) StringMap() map[string]int {
	m := make(map[string]int, len(p.dims))
	for i, d := range p.dims {
		m[string(d)] = p.values[i]
	}
	return m
}

// Equal reports whether p and q belong to the same taxonomy and carry
// identical values.
func (p Profile) Equal(q Profile) bool {
	return p.taxonomy == q.taxonomy &&
		slices.Equal(p.dims, q.dims) &&
		slices.Equal(p.values, q.values)
}

// String renders the profile as {dim:value, ...} in canonical order.
func (p Profile) String() string {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, d := range p.dims {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(d))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(p.values[i]))
	}
	b.WriteByte('}')
	return b.String()
}

// MarshalJSON encodes the profile as a JSON object whose keys follow the
// canonical dimension order.
func (p Profile) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, d := range p.dims {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(string(d))
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(p.values[i]))
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// belongsTo reports whether p was produced by reg.
func (p Profile) belongsTo(reg *Registry) bool {
	return p.taxonomy == reg.def.Name && slices.Equal(p.dims, reg.def.Dimensions)
}

func (r *Registry) checkProfile(field string, p Profile) error {
	if !p.belongsTo(r) {
		return &ValidationError{
			Field:  field,
			Reason: "profile of taxonomy " + strconv.Quote(p.taxonomy) + " does not belong to " + r.def.Name,
		}
	}
	for i, v := range p.values {
		if v < MinValue || v > MaxValue {
			return outOfRange(string(p.dims[i]), v)
		}
	}
	return nil
}

func clamp(v int) int {
	return max(MinValue, min(MaxValue, v))
}
