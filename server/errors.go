package server

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dmarsters/slapstick-enhancer/errors"
)

// Sentinel errors raised by the transport itself.
var (
	// ErrInvalidRequest indicates a tool call with missing or malformed arguments
	ErrInvalidRequest = errors.New("invalid request")

	// ErrRateLimited indicates the token bucket was empty
	ErrRateLimited = errors.New("rate limited")

	// ErrCatalogDisabled indicates a catalog tool was called without a catalog
	ErrCatalogDisabled = errors.New("catalog disabled")
)

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return errors.Wrap(ErrInvalidRequest, errors.Newf(format, args...).Error())
}

// errorKind extends errors.Kind with the transport sentinels.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrCatalogDisabled):
		return "catalog_disabled"
	}
	return errors.Kind(err)
}

// toolError renders err as an MCP tool error: the kind on the first line,
// then the message, then any hints.
//
//	invalid_category: emotional_tone: unknown value "grumpy"
//	hint: valid emotional_tone values: playful, tense, ...
func toolError(err error) *mcp.CallToolResult {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %v", errorKind(err), err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(&b, "\nhint: %s", hint)
	}
	return mcp.NewToolResultError(b.String())
}
