package logger

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette is one console color theme.
type palette struct {
	fg        string
	time      string
	id        string
	number    string
	tool      string // tool calls and rule output
	lifecycle string // startup, shutdown, transport
	catalog   string // catalog loads and watches
	warn      string
	warnBg    string
	err       string
	errBg     string
	component []string
}

// Everforest Dark: natural greens
var everforest = palette{
	fg:        "\x1b[38;5;223m",
	time:      "\x1b[38;5;107m",
	id:        "\x1b[38;5;109m",
	number:    "\x1b[38;5;108m",
	tool:      "\x1b[38;5;108m",
	lifecycle: "\x1b[38;5;65m",
	catalog:   "\x1b[38;5;107m",
	warn:      "\x1b[38;5;179m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;52m",
	component: []string{"\x1b[38;5;108m", "\x1b[38;5;65m", "\x1b[38;5;208m"},
}

// Gruvbox Dark: warm, muted
var gruvbox = palette{
	fg:        "\x1b[38;5;223m",
	time:      "\x1b[38;5;108m",
	id:        "\x1b[38;5;109m",
	number:    "\x1b[38;5;175m",
	tool:      "\x1b[38;5;142m",
	lifecycle: "\x1b[38;5;208m",
	catalog:   "\x1b[38;5;109m",
	warn:      "\x1b[38;5;214m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;88m",
	component: []string{"\x1b[38;5;208m", "\x1b[38;5;214m"},
}

var themes = map[string]*palette{
	"everforest": &everforest,
	"gruvbox":    &gruvbox,
}

// Current active theme
var currentTheme = "everforest"

// SetTheme configures the color scheme for log output. Unknown names are
// ignored.
func SetTheme(theme string) {
	if _, ok := themes[theme]; ok {
		currentTheme = theme
	}
}

func colors() *palette {
	return themes[currentTheme]
}

func colorComponent(name string) string {
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	p := colors()
	return p.component[hash%len(p.component)]
}

var messageKeywords = []struct {
	words []string
	color func(*palette) string
}{
	{[]string{"tool", "enhance", "score", "rank", "profile"}, func(p *palette) string { return p.tool }},
	{[]string{"catalog", "reload", "fetch", "watch"}, func(p *palette) string { return p.catalog }},
	{[]string{"starting", "started", "listening", "shutdown", "stdio", "http", "config"}, func(p *palette) string { return p.lifecycle }},
}

func colorMessage(msg string) string {
	lower := strings.ToLower(msg)
	p := colors()
	for _, kw := range messageKeywords {
		for _, w := range kw.words {
			if strings.Contains(lower, w) {
				return kw.color(p)
			}
		}
	}
	return p.fg
}

var bracketPattern = regexp.MustCompile(`\[([^\]]+)\]`)

// colorizeMessage colors bracketed contexts like [slapstick] or
// [req:abc] and the registered glyphs in the message text.
func colorizeMessage(msg string) string {
	p := colors()
	base := colorMessage(msg)

	var out strings.Builder
	last := 0
	for _, m := range bracketPattern.FindAllStringSubmatchIndex(msg, -1) {
		if before := msg[last:m[0]]; before != "" {
			out.WriteString(base)
			out.WriteString(colorizeSymbols(before, p.tool, base))
			out.WriteString(colorReset)
		}
		color := p.lifecycle
		if strings.HasPrefix(msg[m[2]:m[3]], "req:") {
			color = p.id
		}
		out.WriteString(color)
		out.WriteString(msg[m[0]:m[1]])
		out.WriteString(colorReset)
		last = m[1]
	}
	if rest := msg[last:]; rest != "" {
		out.WriteString(base)
		out.WriteString(colorizeSymbols(rest, p.tool, base))
		out.WriteString(colorReset)
	}
	return out.String()
}

// colorizeSymbols highlights registered glyphs, restoring base afterwards.
func colorizeSymbols(text, symbolColor, base string) string {
	for _, glyph := range glyphs() {
		text = strings.ReplaceAll(text, glyph, symbolColor+glyph+colorReset+base)
	}
	return text
}

// minimalEncoder is a compact console encoder with theme support.
// Format: "13:04:35  catalog  Catalog loaded  gen 2 (5 entries)"
type minimalEncoder struct {
	zapcore.Encoder // base encoder for field serialization
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: enc.Encoder.Clone()}
}

var bufferPool = buffer.NewPool()

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	p := colors()
	final := bufferPool.Get()

	final.AppendString(p.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level only shows for non-info entries
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent(ent.LoggerName))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(colorizeMessage(ent.Message))

	if vals := extractFieldValues(fields); vals != "" {
		final.AppendString("  ")
		final.AppendString(vals)
	}

	final.AppendString("\n")
	return final, nil
}

func levelColorString(level zapcore.Level) string {
	p := colors()
	switch level {
	case zapcore.DebugLevel:
		return p.fg + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + p.warnBg + p.warn + "WARN" + colorReset
	case zapcore.InfoLevel:
		return ""
	default:
		return colorBold + p.errBg + p.err + level.CapitalString() + colorReset
	}
}

// abbreviateName shortens component names: catalog.watcher -> c.watcher
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

func getFieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", uint64(field.Integer))
	case zapcore.BoolType:
		if field.Integer == 1 {
			return "true"
		}
		return "false"
	case zapcore.Float64Type:
		return fmt.Sprintf("%g", math.Float64frombits(uint64(field.Integer)))
	case zapcore.DurationType:
		return time.Duration(field.Integer).String()
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
	}
	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}
	return ""
}

// extractFieldValues renders the fields worth a glance on a console:
//
//	{"tool": "rank_matches", "request_id": "3f2a", "duration_ms": 4}
//	-> "rank_matches 3f2a 4ms"
//
// Fields without a compact form render as key=value so nothing is dropped.
func extractFieldValues(fields []zapcore.Field) string {
	p := colors()
	var values []string
	var generation, entries string

	for _, field := range fields {
		if field.Type == zapcore.SkipType {
			continue
		}
		val := getFieldValue(field)
		if val == "" {
			val = `""`
		}
		switch field.Key {
		case FieldTool, FieldTaxonomy, FieldEntryID:
			values = append(values, p.tool+val+colorReset)
		case FieldRequestID:
			values = append(values, p.id+val+colorReset)
		case FieldFile, FieldAddress, FieldSource:
			values = append(values, p.fg+val+colorReset)
		case FieldDurationMS:
			values = append(values, p.number+val+colorReset+"ms")
		case FieldGeneration:
			generation = val
		case FieldEntries:
			entries = val
		case FieldError:
			values = append(values, p.err+val+colorReset)
		case FieldSymbol:
			values = append([]string{p.tool + val + colorReset}, values...)
		default:
			values = append(values, p.fg+field.Key+"="+val+colorReset)
		}
	}

	if generation != "" {
		s := p.fg + "gen " + p.number + generation + colorReset
		if entries != "" {
			s += p.fg + " (" + p.number + entries + colorReset + p.fg + " entries)" + colorReset
		}
		values = append(values, s)
	} else if entries != "" {
		values = append(values, p.number+entries+colorReset+p.fg+" entries"+colorReset)
	}

	return strings.Join(values, " ")
}
