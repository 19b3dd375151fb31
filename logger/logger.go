// Package logger holds the process-wide zap logger.
//
// Console output goes to stderr: the stdio MCP transport owns stdout and a
// single stray log line there corrupts the protocol stream.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global logger instance
	Logger *zap.SugaredLogger
	// Flag to track if JSON output is enabled
	JSONOutput bool
)

func init() {
	// No-op until Initialize so packages can log before main sets things up
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger at info level.
func Initialize(jsonOutput bool) error {
	return InitializeWithLevel(jsonOutput, zapcore.InfoLevel)
}

// InitializeWithLevel sets up the global logger writing to stderr.
func InitializeWithLevel(jsonOutput bool, level zapcore.Level) error {
	if theme := os.Getenv("SLAPSTICK_LOG_THEME"); theme != "" {
		SetTheme(theme)
	}
	l, err := New(os.Stderr, jsonOutput, level)
	if err != nil {
		return err
	}
	JSONOutput = jsonOutput
	Logger = l
	return nil
}

// New builds a logger writing to w. JSON output uses zap's production
// encoder; console output uses the compact themed encoder.
func New(w io.Writer, jsonOutput bool, level zapcore.Level) (*zap.SugaredLogger, error) {
	var enc zapcore.Encoder
	if jsonOutput {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		enc = newMinimalEncoder()
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core).Sugar(), nil
}

// ParseLevel maps a config string (debug, info, warn, error) to a level.
// Unknown strings fall back to info.
func ParseLevel(s string) zapcore.Level {
	level, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// Cleanup flushes any buffered log entries
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Infow logs an info message with structured fields
func Infow(msg string, keysAndValues ...interface{}) {
	Logger.Infow(msg, keysAndValues...)
}

// Warnw logs a warning message with structured fields
func Warnw(msg string, keysAndValues ...interface{}) {
	Logger.Warnw(msg, keysAndValues...)
}

// Errorw logs an error message with structured fields
func Errorw(msg string, keysAndValues ...interface{}) {
	Logger.Errorw(msg, keysAndValues...)
}

// Debugw logs a debug message with structured fields
func Debugw(msg string, keysAndValues ...interface{}) {
	Logger.Debugw(msg, keysAndValues...)
}
