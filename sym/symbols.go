// Package sym defines the glyphs that mark slapstick commands and
// lifecycle events in CLI output and logs.
package sym

// Command glyphs.
const (
	Map      = "⇝" // map: intent to profile
	Explicit = "⊞" // explicit: direct parameters
	Render   = "✎" // render: prompt text from a profile
	Describe = "▤" // describe: parameter descriptions
	Score    = "⋈" // score: cross-taxonomy compatibility
	Options  = "☰" // categories: available options
	Catalog  = "⊔" // catalog: stored profiles and rankings
	AM       = "≡" // am: configuration
)

// System glyphs.
const (
	Serve      = "꩜" // MCP server, rate limiting
	ServeOpen  = "✿" // server startup
	ServeClose = "❀" // server shutdown
)

// entry binds a glyph to its command and description.
type entry struct {
	glyph       string
	command     string
	label       string
	description string
}

// registry lists commands in palette order.
var registry = []entry{
	{Map, "map", "Map", "Map a creative intent onto a taxonomy profile"},
	{Explicit, "explicit", "Explicit", "Build a profile from explicit parameter values"},
	{Render, "render", "Render", "Render prompt text from a profile"},
	{Describe, "describe", "Describe", "Describe each parameter of a profile"},
	{Score, "score", "Score", "Score compatibility across taxonomies"},
	{Options, "categories", "Options", "List taxonomy categories and pairing tables"},
	{Catalog, "catalog", "Catalog", "List, rank and fetch catalog entries"},
	{AM, "am", "Configuration", "Show and validate configuration"},
	{Serve, "serve", "Serve", "Serve the tools over MCP"},
}

// system glyphs carry no command.
var system = []string{Serve, ServeOpen, ServeClose}

// PaletteOrder is the canonical ordering for help output.
var PaletteOrder []string

// SymbolToCommand maps glyph strings to their command names.
var SymbolToCommand map[string]string

// CommandToSymbol maps command names to their glyph strings.
var CommandToSymbol map[string]string

// CommandDescriptions holds one-line explanations keyed by command.
var CommandDescriptions map[string]string

func init() {
	SymbolToCommand = make(map[string]string, len(registry))
	CommandToSymbol = make(map[string]string, len(registry))
	CommandDescriptions = make(map[string]string, len(registry))
	for _, e := range registry {
		PaletteOrder = append(PaletteOrder, e.glyph)
		SymbolToCommand[e.glyph] = e.command
		CommandToSymbol[e.command] = e.glyph
		CommandDescriptions[e.command] = e.label + ": " + e.description
	}
}

// ForCommand returns the glyph for a command, or "" if it has none.
func ForCommand(cmd string) string {
	return CommandToSymbol[cmd]
}

// Prefix returns "glyph text", or text alone for unknown commands.
func Prefix(cmd, text string) string {
	if g := CommandToSymbol[cmd]; g != "" {
		return g + " " + text
	}
	return text
}

// All returns every glyph: commands in palette order, then system glyphs.
func All() []string {
	out := make([]string, 0, len(registry)+len(system))
	out = append(out, PaletteOrder...)
	for _, g := range system {
		if _, dup := SymbolToCommand[g]; !dup {
			out = append(out, g)
		}
	}
	return out
}
