package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for structured logging.
// Use these constants instead of raw strings to keep keys consistent.
const (
	// Identity
	FieldRequestID = "request_id"
	FieldComponent = "component"

	// Rule engine
	FieldTool       = "tool"
	FieldTaxonomy   = "taxonomy"
	FieldTable      = "table"
	FieldEntryID    = "entry_id"
	FieldGeneration = "generation"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError     = "error"
	FieldErrorType = "error_type"

	// Counts
	FieldCount   = "count"
	FieldEntries = "entries"

	// Files and network
	FieldFile    = "file"
	FieldSource  = "source"
	FieldAddress = "address"

	FieldSymbol = "symbol" // CLI glyph of the emitting component
)

// Context keys for propagating logging context
type contextKey string

const (
	requestIDKey contextKey = "logger_request_id"
	componentKey contextKey = "logger_component"
)

// WithRequestID adds a request ID to the context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request ID stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context as key-value pairs
// for Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}
	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		fields = append(fields, FieldRequestID, requestID)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}
	return fields
}

// LoggerFromContext returns the global logger with the context's fields.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for dependency injection:
//
//	store := catalog.NewStore(svc, catalog.WithLogger(logger.ComponentLogger("catalog")))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
