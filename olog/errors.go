package olog

import (
	"fmt"
	"strings"

	"github.com/dmarsters/slapstick-enhancer/errors"
)

// ConfigurationError reports every completeness problem found while building a
// Registry or RuleTable. It is returned only at load time.
type ConfigurationError struct {
	Taxonomy string
	Problems []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("taxonomy %s: %s", e.Taxonomy, e.Problems[0])
	}
	return fmt.Sprintf("taxonomy %s: %d configuration problems: %s",
		e.Taxonomy, len(e.Problems), strings.Join(e.Problems, "; "))
}

// Is matches errors.ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == errors.ErrConfiguration
}

// InvalidCategoryError reports a tag that is not a member of its category.
type InvalidCategoryError struct {
	Field    string
	Category CategoryName
	Tag      Tag
	Allowed  []Tag
}

func (e *InvalidCategoryError) Error() string {
	if e.Category == "" {
		return fmt.Sprintf("%s: unknown value %q", e.Field, e.Tag)
	}
	return fmt.Sprintf("%s: %q is not a member of %s", e.Field, e.Tag, e.Category)
}

// Is matches errors.ErrInvalidCategory.
func (e *InvalidCategoryError) Is(target error) bool {
	return target == errors.ErrInvalidCategory
}

// ValidationError reports an explicit value out of range or a missing field.
type ValidationError struct {
	Field  string
	Value  int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is matches errors.ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == errors.ErrValidation
}

func invalidCategory(field string, cat Category, tag Tag) error {
	err := &InvalidCategoryError{Field: field, Category: cat.Name, Tag: tag, Allowed: cat.Members}
	return errors.WithHintf(err, "valid %s values: %s", cat.Name, strings.Join(cat.Strings(), ", "))
}

func outOfRange(field string, v int) error {
	return &ValidationError{
		Field:  field,
		Value:  v,
		Reason: fmt.Sprintf("value %d outside [%d,%d]", v, MinValue, MaxValue),
	}
}
