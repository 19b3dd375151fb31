package sym

import (
	"testing"
	"unicode/utf8"
)

func TestSymbolToCommandAndCommandToSymbolAreBidirectional(t *testing.T) {
	for symbol, cmd := range SymbolToCommand {
		got, ok := CommandToSymbol[cmd]
		if !ok {
			t.Errorf("SymbolToCommand has %q → %q, but CommandToSymbol has no entry for %q", symbol, cmd, cmd)
			continue
		}
		if got != symbol {
			t.Errorf("mismatch: SymbolToCommand[%q] = %q, but CommandToSymbol[%q] = %q", symbol, cmd, cmd, got)
		}
	}
	if len(SymbolToCommand) != len(CommandToSymbol) {
		t.Errorf("map size mismatch: %d vs %d", len(SymbolToCommand), len(CommandToSymbol))
	}
}

func TestCommandDescriptionsCoversAllCommands(t *testing.T) {
	for cmd := range CommandToSymbol {
		if _, ok := CommandDescriptions[cmd]; !ok {
			t.Errorf("CommandDescriptions missing entry for command %q", cmd)
		}
	}
}

func TestPaletteOrderHasNoDuplicates(t *testing.T) {
	seen := make(map[string]int, len(PaletteOrder))
	for i, symbol := range PaletteOrder {
		if prev, ok := seen[symbol]; ok {
			t.Errorf("PaletteOrder has duplicate %q at indices %d and %d", symbol, prev, i)
		}
		seen[symbol] = i
	}
}

func TestAllGlyphsAreSingleRunes(t *testing.T) {
	for _, g := range All() {
		if !utf8.ValidString(g) || utf8.RuneCountInString(g) != 1 {
			t.Errorf("glyph %q is not a single valid rune", g)
		}
	}
}

func TestAllIncludesSystemGlyphsOnce(t *testing.T) {
	seen := map[string]bool{}
	for _, g := range All() {
		if seen[g] {
			t.Errorf("All returned %q twice", g)
		}
		seen[g] = true
	}
	for _, g := range []string{Serve, ServeOpen, ServeClose, Map, Catalog} {
		if !seen[g] {
			t.Errorf("All is missing %q", g)
		}
	}
}

func TestPrefix(t *testing.T) {
	if got := Prefix("score", "0.8"); got != Score+" 0.8" {
		t.Errorf("Prefix(score) = %q", got)
	}
	if got := Prefix("nope", "x"); got != "x" {
		t.Errorf("Prefix(nope) = %q", got)
	}
	if ForCommand("map") != Map {
		t.Errorf("ForCommand(map) = %q", ForCommand("map"))
	}
}
