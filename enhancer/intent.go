package enhancer

import (
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/dmarsters/slapstick-enhancer/olog"
)

// IntentExpr is a parsed intent expression.
type IntentExpr struct {
	Taxonomy string
	Intent   olog.Intent
	Context  map[string]string
}

// Side converts the expression into a SideInput.
func (e IntentExpr) Side() SideInput {
	intent := e.Intent
	return SideInput{Taxonomy: e.Taxonomy, Intent: &intent, Context: e.Context}
}

// ParseIntent parses a key=value expression using shell quoting rules:
//
//	subject=architecture tone=tense priorities=suspense,physics intensity=strong
//
// priorities may be repeated or comma separated. The long names of the MCP
// tools (subject_type, emotional_tone, visual_priorities) are accepted too.
// taxonomy=<name> selects the registry; any other key becomes a context
// attribute (era=classical lighting=neon).
func ParseIntent(expr string) (IntentExpr, error) {
	args, err := shellquote.Split(expr)
	if err != nil {
		return IntentExpr{}, &olog.ValidationError{Field: "expr", Reason: err.Error()}
	}

	out := IntentExpr{Context: map[string]string{}}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" {
			return IntentExpr{}, &olog.ValidationError{Field: "expr", Reason: "expected key=value, got " + arg}
		}
		switch strings.ToLower(key) {
		case "taxonomy":
			out.Taxonomy = value
		case "subject", "subject_type", "shot", "movement":
			out.Intent.Subject = olog.Tag(value)
		case "tone", "emotional_tone", "mood", "temperament":
			out.Intent.Tone = olog.Tag(value)
		case "intensity", "intensity_level":
			out.Intent.Intensity = olog.Tag(value)
		case "priority", "priorities", "visual_priorities", "emphasis", "focus":
			for _, p := range strings.Split(value, ",") {
				if p = strings.TrimSpace(p); p != "" {
					out.Intent.Priorities = append(out.Intent.Priorities, olog.Tag(p))
				}
			}
		default:
			out.Context[key] = value
		}
	}
	return out, nil
}

// FormatIntent renders an expression that ParseIntent reads back.
func FormatIntent(e IntentExpr) string {
	var args []string
	if e.Taxonomy != "" {
		args = append(args, "taxonomy="+e.Taxonomy)
	}
	args = append(args,
		"subject="+string(e.Intent.Subject),
		"tone="+string(e.Intent.Tone),
	)
	if len(e.Intent.Priorities) > 0 {
		parts := make([]string, len(e.Intent.Priorities))
		for i, p := range e.Intent.Priorities {
			parts[i] = string(p)
		}
		args = append(args, "priorities="+strings.Join(parts, ","))
	}
	args = append(args, "intensity="+string(e.Intent.Intensity))

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, k+"="+e.Context[k])
	}
	return shellquote.Join(args...)
}
