// Package errors provides error handling for the slapstick enhancer.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints (e.g. the allowed members of a category)
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := loadCatalog(); err != nil {
//	    return errors.Wrap(err, "failed to load catalog")
//	}
//
//	// Add hints for callers
//	return errors.WithHint(err, "valid tones: playful, tense, absurd")
//
//	// Check errors
//	if errors.IsValidationError(err) {
//	    // report the offending dimension
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New           = crdb.New
	Newf          = crdb.Newf
	Wrap          = crdb.Wrap
	Wrapf         = crdb.Wrapf
	WithStack     = crdb.WithStack
	WithMessage   = crdb.WithMessage
	WithMessagef  = crdb.WithMessagef
	Mark          = crdb.Mark
	CombineErrors = crdb.CombineErrors
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for the three failure kinds of the rule engine.
// Typed errors in package olog report Is() == true against these,
// so callers can branch with errors.Is without importing olog.
var (
	// ErrConfiguration indicates a registry or rule table failed its load-time
	// completeness check. Fatal; never surfaced per request.
	ErrConfiguration = New("configuration error")

	// ErrInvalidCategory indicates an unrecognized category tag in a request
	ErrInvalidCategory = New("invalid category")

	// ErrValidation indicates an explicit value out of range or a missing field
	ErrValidation = New("validation error")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")
)

// IsConfigurationError checks if an error is or wraps ErrConfiguration
func IsConfigurationError(err error) bool {
	return err != nil && Is(err, ErrConfiguration)
}

// IsInvalidCategoryError checks if an error is or wraps ErrInvalidCategory
func IsInvalidCategoryError(err error) bool {
	return err != nil && Is(err, ErrInvalidCategory)
}

// IsValidationError checks if an error is or wraps ErrValidation
func IsValidationError(err error) bool {
	return err != nil && Is(err, ErrValidation)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// Kind returns a short machine-readable name for the error's failure kind.
// Used by the transport layer to label tool errors and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsConfigurationError(err):
		return "configuration"
	case IsInvalidCategoryError(err):
		return "invalid_category"
	case IsValidationError(err):
		return "validation"
	case IsNotFoundError(err):
		return "not_found"
	default:
		return "internal"
	}
}
