package pairing

import "github.com/dmarsters/slapstick-enhancer/olog"

// Art categories.
const (
	Movement    olog.CategoryName = "movement"
	Temperament olog.CategoryName = "temperament"
	Focus       olog.CategoryName = "focus"
	Composition olog.CategoryName = "composition"
	Palette     olog.CategoryName = "palette"
	Texture     olog.CategoryName = "texture"
)

// Art dimensions.
const (
	Ornament    olog.Dimension = "ornament"
	Geometry    olog.Dimension = "geometry"
	Saturation  olog.Dimension = "saturation"
	Brushwork   olog.Dimension = "brushwork"
	Abstraction olog.Dimension = "abstraction"
	Drama       olog.Dimension = "drama"
)

func art(ornament, geometry, saturation, brushwork, abstraction, drama int) map[olog.Dimension]int {
	return map[olog.Dimension]int{
		Ornament:    ornament,
		Geometry:    geometry,
		Saturation:  saturation,
		Brushwork:   brushwork,
		Abstraction: abstraction,
		Drama:       drama,
	}
}

// ArtDefinition returns the art-movement style taxonomy.
func ArtDefinition() olog.Definition {
	return olog.Definition{
		Name:       ArtName,
		Version:    Version,
		Dimensions: []olog.Dimension{Ornament, Geometry, Saturation, Brushwork, Abstraction, Drama},
		Categories: []olog.Category{
			{Name: Movement, Description: "art movement", Members: olog.Tags("baroque", "impressionism", "art_deco", "bauhaus", "pop_art", "ukiyo_e", "cyberpunk")},
			{Name: Temperament, Description: "emotional temperature", Members: olog.Tags("serene", "bold", "melancholic", "ecstatic")},
			{Name: Focus, Description: "quality to push", Members: olog.Tags("pattern", "structure", "color", "surface", "dream", "spectacle")},
			intensityCategory(),
			{Name: Composition, Description: "compositional scheme", Members: olog.Tags("symmetrical", "rule_of_thirds", "diagonal", "centered", "layered")},
			{Name: Palette, Description: "palette family", Members: olog.Tags("earth", "jewel", "neon", "pastel", "monochrome")},
			{Name: Texture, Description: "surface texture", Members: olog.Tags("impasto", "smooth", "grainy", "metallic")},
			eraCategory(),
		},
		Roles: olog.Roles{Subject: Movement, Tone: Temperament, Priority: Focus, Intensity: Intensity},
		Presets: map[olog.Tag]map[olog.Dimension]int{
			"baroque":       art(9, 4, 7, 7, 2, 9),
			"impressionism": art(3, 2, 6, 9, 5, 4),
			"art_deco":      art(8, 8, 6, 3, 4, 6),
			"bauhaus":       art(1, 10, 5, 2, 6, 3),
			"pop_art":       art(4, 6, 10, 2, 4, 6),
			"ukiyo_e":       art(6, 6, 5, 5, 4, 5),
			"cyberpunk":     art(6, 7, 9, 4, 5, 8),
		},
		Scales: levels,
		Deltas: map[olog.Tag]map[olog.Dimension]int{
			"serene":      {Drama: -3, Saturation: -1},
			"bold":        {Saturation: 2, Drama: 2},
			"melancholic": {Saturation: -3, Drama: 1, Abstraction: 1},
			"ecstatic":    {Saturation: 3, Brushwork: 2, Drama: 2},
		},
		Boosts: map[olog.Tag]olog.Dimension{
			"pattern":   Ornament,
			"structure": Geometry,
			"color":     Saturation,
			"surface":   Brushwork,
			"dream":     Abstraction,
			"spectacle": Drama,
		},
		Templates: map[olog.Dimension][]olog.Bucket{
			Ornament: tiers(
				tier{"unadorned", "unadorned surfaces"},
				tier{"restrained ornament", "restrained decorative accents"},
				tier{"rich ornament", "rich decorative ornament and patterned borders"},
				tier{"lavish ornament", "lavish gilded ornament covering every surface"},
			),
			Geometry: tiers(
				tier{"organic", "organic free-flowing forms"},
				tier{"loose structure", "loosely structured composition"},
				tier{"strong geometry", "strong geometric structure and clean lines"},
				tier{"pure geometry", "pure geometry of grids and primary shapes"},
			),
			Saturation: tiers(
				tier{"muted colour", "muted desaturated palette"},
				tier{"moderate colour", "moderate colour saturation"},
				tier{"vivid colour", "vivid saturated colour"},
				tier{"maximal colour", "maximal flat fields of fully saturated colour"},
			),
			Brushwork: tiers(
				tier{"invisible brushwork", "smooth surface with invisible brushwork"},
				tier{"soft brushwork", "soft visible brushwork"},
				tier{"expressive brushwork", "expressive textured brushstrokes"},
				tier{"impasto", "thick impasto with sculpted paint ridges"},
			),
			Abstraction: tiers(
				tier{"representational", "faithful representational rendering"},
				tier{"stylized", "stylized forms"},
				tier{"semi-abstract", "semi-abstract shapes that suggest more than they show"},
				tier{"abstract", "fully abstract non-objective composition"},
			),
			Drama: tiers(
				tier{"calm", "calm quiet staging"},
				tier{"gentle drama", "gentle narrative tension"},
				tier{"dramatic", "dramatic staging under strong light"},
				tier{"theatrical", "theatrical operatic spectacle at its peak"},
			),
		},
		Negatives: map[olog.Dimension]olog.Negative{
			Ornament:    {Threshold: 7, Fragment: "plain, bare surfaces"},
			Geometry:    {Threshold: 7, Fragment: "sloppy, crooked lines"},
			Saturation:  {Threshold: 7, Fragment: "dull, grey, desaturated"},
			Brushwork:   {Threshold: 7, Fragment: "smooth digital airbrush"},
			Abstraction: {Threshold: 7, Fragment: "photorealistic, literal"},
			Drama:       {Threshold: 7, Fragment: "bland, flat lighting, boring staging"},
		},
		BaseNegatives: []string{"low quality", "amateur", "watermark"},
	}
}

// NewArtRegistry validates ArtDefinition.
func NewArtRegistry() (*olog.Registry, error) {
	return olog.NewRegistry(ArtDefinition())
}
