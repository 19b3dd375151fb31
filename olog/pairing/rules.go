package pairing

import "github.com/dmarsters/slapstick-enhancer/olog"

// TableName is the name of the lens×art rule table.
const TableName = "lens×art"

func a(cat olog.CategoryName, tag olog.Tag) olog.Attribute {
	return olog.Attribute{Category: cat, Tag: tag}
}

func technical(x, y olog.Attribute, bonus int, clause string) olog.Rule {
	return olog.Rule{Kind: olog.RuleTechnical, A: x, B: y, Bonus: bonus, Clause: clause}
}

func aesthetic(x, y olog.Attribute, bonus int, clause string) olog.Rule {
	return olog.Rule{Kind: olog.RuleAesthetic, A: x, B: y, Bonus: bonus, Clause: clause}
}

func unusual(x, y olog.Attribute, bonus int, clause string) olog.Rule {
	return olog.Rule{Kind: olog.RuleUnusual, A: x, B: y, Bonus: bonus, Clause: clause}
}

// RuleSpec returns the lens×art pairing rules. Art attributes are listed
// first by convention; lookups ignore the order.
func RuleSpec() olog.RuleTableSpec {
	return olog.RuleTableSpec{
		Name:        TableName,
		EraCategory: Era,
		Rules: []olog.Rule{
			technical(a(Composition, "symmetrical"), a(FocalLength, "normal"), 2,
				"a normal lens keeps symmetrical lines true"),
			technical(a(Composition, "rule_of_thirds"), a(FocalLength, "short_tele"), 1,
				"short telephoto isolates the thirds intersections"),
			technical(a(Composition, "diagonal"), a(FocalLength, "ultra_wide"), 2,
				"ultra wide perspective stretches the diagonals"),
			technical(a(Composition, "layered"), a(FocalLength, "super_tele"), 2,
				"telephoto compression stacks the layered planes"),
			technical(a(Composition, "centered"), a(FocalLength, "short_tele"), 1,
				"short telephoto flatters a centred subject"),

			aesthetic(a(Palette, "neon"), a(Lighting, "neon"), 2,
				"neon light feeds a neon palette"),
			aesthetic(a(Palette, "earth"), a(Lighting, "golden_hour"), 2,
				"golden hour warms earth pigments"),
			aesthetic(a(Palette, "pastel"), a(ColorGrade, "pastel"), 2,
				"pastel grade echoes the pastel palette"),
			aesthetic(a(Palette, "monochrome"), a(ColorGrade, "monochrome"), 2,
				"monochrome grade matches a monochrome palette"),
			aesthetic(a(Palette, "jewel"), a(ColorGrade, "technicolor"), 2,
				"technicolor saturation makes jewel tones sing"),
			aesthetic(a(Texture, "impasto"), a(Lighting, "chiaroscuro"), 1,
				"raking chiaroscuro catches impasto ridges"),
			aesthetic(a(Texture, "metallic"), a(Lighting, "low_key"), 1,
				"low key light glints on metallic surfaces"),
			aesthetic(a(Texture, "grainy"), a(ColorGrade, "bleach_bypass"), 1,
				"bleach bypass grit suits a grainy surface"),
			aesthetic(a(Movement, "baroque"), a(Lighting, "chiaroscuro"), 2,
				"chiaroscuro is native to baroque drama"),
			aesthetic(a(Movement, "impressionism"), a(Lighting, "golden_hour"), 1,
				"golden hour recalls plein-air impressionism"),

			unusual(a(Palette, "pastel"), a(Lighting, "low_key"), 2,
				"pastel palette pushed into low key shadow"),
			unusual(a(Movement, "baroque"), a(Lighting, "neon"), 2,
				"baroque ornament under neon light"),
			unusual(a(Movement, "ukiyo_e"), a(FocalLength, "ultra_wide"), 1,
				"flat ukiyo-e planes bent by an ultra wide lens"),
			unusual(a(Palette, "neon"), a(ColorGrade, "monochrome"), 2,
				"a neon palette drained by a monochrome grade"),
			unusual(a(Texture, "impasto"), a(Shot, "macro"), 1,
				"macro turns impasto into landscape"),
		},
		Anachronisms: [][2]olog.Tag{
			{"classical", "futurist"},
			{"nineteenth_century", "contemporary"},
			{"early_modern", "futurist"},
		},
		CoherenceThreshold: olog.DefaultCoherenceThreshold,
	}
}

// NewRuleTable validates RuleSpec against the lens and art registries.
func NewRuleTable(lens, art *olog.Registry) (*olog.RuleTable, error) {
	return olog.NewRuleTable(RuleSpec(), lens, art)
}
