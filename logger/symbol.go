package logger

import (
	"github.com/dmarsters/slapstick-enhancer/sym"
	"go.uber.org/zap"
)

// Symbol-aware logging helpers.
// The glyph goes in a structured field so logs stay queryable by symbol
// and messages stay clean:
//
//	logger.ServeInfow("Listening", logger.FieldAddress, addr)

func glyphs() []string {
	return sym.All()
}

// ServeInfow logs an info message with the Serve symbol (꩜)
func ServeInfow(msg string, keysAndValues ...interface{}) {
	SymbolInfow(sym.Serve, msg, keysAndValues...)
}

// ServeOpenInfow logs startup with the ServeOpen symbol (✿)
func ServeOpenInfow(msg string, keysAndValues ...interface{}) {
	SymbolInfow(sym.ServeOpen, msg, keysAndValues...)
}

// ServeCloseInfow logs shutdown with the ServeClose symbol (❀)
func ServeCloseInfow(msg string, keysAndValues ...interface{}) {
	SymbolInfow(sym.ServeClose, msg, keysAndValues...)
}

// SymbolInfow logs with any symbol
func SymbolInfow(symbol, msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, symbol}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}

// WithSymbol wraps a logger with the given symbol field.
//
//	store := catalog.NewStore(svc, catalog.WithLogger(logger.WithSymbol(l, sym.Catalog)))
func WithSymbol(l *zap.SugaredLogger, symbol string) *zap.SugaredLogger {
	return l.With(FieldSymbol, symbol)
}
