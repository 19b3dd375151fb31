package logger

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(str string) string {
	return ansiRegex.ReplaceAllString(str, "")
}

func encode(t *testing.T, ent zapcore.Entry, fields ...zapcore.Field) string {
	t.Helper()
	if ent.Time.IsZero() {
		ent.Time = time.Date(2026, 3, 1, 13, 4, 35, 0, time.UTC)
	}
	buf, err := newMinimalEncoder().EncodeEntry(ent, fields)
	if err != nil {
		t.Fatalf("EncodeEntry() error = %v", err)
	}
	return stripANSI(buf.String())
}

func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	ent := zapcore.Entry{Level: zapcore.InfoLevel, LoggerName: "test", Message: "Testing field preservation"}

	tests := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String("mode", "intent"), "mode=intent"},
		{zap.Bool("clamped", true), "clamped=true"},
		{zap.Bool("era_matched", false), "era_matched=false"},
		{zap.Float64("ratio", 0.8), "ratio=0.8"},
		{zap.Int("count", 999), "count=999"},
		{zap.Int32("int32_field", 42), "int32_field=42"},
		{zap.Uint8("uint8_field", 200), "uint8_field=200"},
		{zap.Duration("debounce", 500*time.Millisecond), "debounce=500ms"},
		{zap.Strings("priorities", []string{"physics", "suspense"}), "priorities=[physics suspense]"},
		{zap.String("field.with.dots", "x"), "field.with.dots=x"},
		{zap.String("empty", ""), `empty=""`},
		{zap.Error(nil), ""},

		// Compact forms
		{zap.String(FieldTool, "score_compatibility"), "score_compatibility"},
		{zap.String(FieldRequestID, "3f2a"), "3f2a"},
		{zap.Int64(FieldDurationMS, 4), "4ms"},
		{zap.String(FieldError, "boom"), "boom"},
	}

	var fields []zapcore.Field
	for _, tt := range tests {
		fields = append(fields, tt.field)
	}
	out := encode(t, ent, fields...)

	for _, tt := range tests {
		if tt.mustFind != "" && !strings.Contains(out, tt.mustFind) {
			t.Errorf("field dropped from output: %q\noutput: %s", tt.mustFind, out)
		}
	}
}

func TestMinimalEncoderLayout(t *testing.T) {
	tests := []struct {
		name   string
		ent    zapcore.Entry
		fields []zapcore.Field
		want   string
	}{
		{
			name: "info omits level",
			ent:  zapcore.Entry{Level: zapcore.InfoLevel, LoggerName: "catalog", Message: "Catalog loaded"},
			fields: []zapcore.Field{
				zap.Uint64(FieldGeneration, 2),
				zap.Int(FieldEntries, 5),
			},
			want: "13:04:35  catalog  Catalog loaded  gen 2 (5 entries)\n",
		},
		{
			name: "warn shows level and abbreviates dotted names",
			ent:  zapcore.Entry{Level: zapcore.WarnLevel, LoggerName: "catalog.watcher", Message: "Reload failed"},
			want: "13:04:35  WARN  c.watcher  Reload failed\n",
		},
		{
			name:   "symbol leads the fields",
			ent:    zapcore.Entry{Level: zapcore.InfoLevel, Message: "Listening"},
			fields: []zapcore.Field{zap.String(FieldAddress, ":7070"), zap.String(FieldSymbol, "꩜")},
			want:   "13:04:35  Listening  ꩜ :7070\n",
		},
		{
			name:   "error field",
			ent:    zapcore.Entry{Level: zapcore.ErrorLevel, Message: "Fetch failed"},
			fields: []zapcore.Field{zap.Error(errors.New("no route"))},
			want:   "13:04:35  ERROR  Fetch failed  no route\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encode(t, tt.ent, tt.fields...); got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestColorizeMessageKeepsText(t *testing.T) {
	for _, msg := range []string{
		"[req:abc] Tool call failed",
		"⇝ Mapping intent [slapstick]",
		"plain",
	} {
		if got := stripANSI(colorizeMessage(msg)); got != msg {
			t.Errorf("colorizeMessage(%q) stripped = %q", msg, got)
		}
	}
}

func TestSetTheme(t *testing.T) {
	defer SetTheme("everforest")

	SetTheme("gruvbox")
	if colors() != &gruvbox {
		t.Error("SetTheme(gruvbox) had no effect")
	}
	SetTheme("solarized")
	if colors() != &gruvbox {
		t.Error("unknown theme should be ignored")
	}
}
