// Package pairing holds the two taxonomies of the compatibility matcher: a
// photographic "lens" profile and an art-movement "art" profile, plus the
// lens×art rule table that scores how well they pair.
package pairing

import "github.com/dmarsters/slapstick-enhancer/olog"

// Registry names.
const (
	LensName = "lens"
	ArtName  = "art"
)

// Version of the lens and art tables.
const Version = "1.0.0"

// Shared categories.
const (
	Era       olog.CategoryName = "era"
	Intensity olog.CategoryName = "intensity"
)

var (
	eras   = olog.Tags("classical", "nineteenth_century", "early_modern", "midcentury", "late_century", "contemporary", "futurist")
	levels = map[olog.Tag]int{"subtle": 30, "moderate": 70, "strong": 85, "extreme": 100}
)

// Lens categories.
const (
	Shot        olog.CategoryName = "shot"
	Mood        olog.CategoryName = "mood"
	Emphasis    olog.CategoryName = "emphasis"
	FocalLength olog.CategoryName = "focal_length"
	Lighting    olog.CategoryName = "lighting"
	ColorGrade  olog.CategoryName = "color_grade"
)

// Lens dimensions.
const (
	Depth    olog.Dimension = "depth"
	Contrast olog.Dimension = "contrast"
	Warmth   olog.Dimension = "warmth"
	Grain    olog.Dimension = "grain"
	Motion   olog.Dimension = "motion"
	Intimacy olog.Dimension = "intimacy"
)

// tier is one (summary, fragment) pair; tiers fill [0,2] [3,5] [6,8] [9,10].
type tier [2]string

func tiers(t0, t1, t2, t3 tier) []olog.Bucket {
	return []olog.Bucket{
		{Min: 0, Max: 2, Summary: t0[0], Fragment: t0[1]},
		{Min: 3, Max: 5, Summary: t1[0], Fragment: t1[1]},
		{Min: 6, Max: 8, Summary: t2[0], Fragment: t2[1]},
		{Min: 9, Max: 10, Summary: t3[0], Fragment: t3[1]},
	}
}

func intensityCategory() olog.Category {
	return olog.Category{
		Name:        Intensity,
		Description: "overall strength of the treatment",
		Members:     olog.Tags("subtle", "moderate", "strong", "extreme"),
	}
}

func eraCategory() olog.Category {
	return olog.Category{Name: Era, Description: "period the work evokes", Members: eras}
}

// LensDefinition returns the photographic capture taxonomy.
func LensDefinition() olog.Definition {
	return olog.Definition{
		Name:       LensName,
		Version:    Version,
		Dimensions: []olog.Dimension{Depth, Contrast, Warmth, Grain, Motion, Intimacy},
		Categories: []olog.Category{
			{Name: Shot, Description: "framing of the capture", Members: olog.Tags("close_up", "portrait", "medium", "wide", "aerial", "macro")},
			{Name: Mood, Description: "photographic mood", Members: olog.Tags("noir", "vibrant", "muted", "dreamy", "documentary")},
			{Name: Emphasis, Description: "quality to push", Members: olog.Tags("separation", "punch", "glow", "texture", "energy", "closeness")},
			intensityCategory(),
			{Name: FocalLength, Description: "lens class", Members: olog.Tags("ultra_wide", "wide_angle", "normal", "short_tele", "super_tele")},
			{Name: Lighting, Description: "lighting setup", Members: olog.Tags("high_key", "low_key", "golden_hour", "neon", "overcast", "chiaroscuro")},
			{Name: ColorGrade, Description: "colour grade", Members: olog.Tags("teal_orange", "monochrome", "pastel", "bleach_bypass", "technicolor")},
			eraCategory(),
		},
		Roles: olog.Roles{Subject: Shot, Tone: Mood, Priority: Emphasis, Intensity: Intensity},
		Presets: map[olog.Tag]map[olog.Dimension]int{
			"close_up": {Depth: 3, Contrast: 6, Warmth: 5, Grain: 3, Motion: 2, Intimacy: 9},
			"portrait": {Depth: 4, Contrast: 5, Warmth: 6, Grain: 3, Motion: 2, Intimacy: 8},
			"medium":   {Depth: 5, Contrast: 5, Warmth: 5, Grain: 4, Motion: 4, Intimacy: 6},
			"wide":     {Depth: 8, Contrast: 5, Warmth: 5, Grain: 4, Motion: 5, Intimacy: 3},
			"aerial":   {Depth: 9, Contrast: 4, Warmth: 4, Grain: 3, Motion: 6, Intimacy: 1},
			"macro":    {Depth: 2, Contrast: 7, Warmth: 5, Grain: 6, Motion: 1, Intimacy: 9},
		},
		Scales: levels,
		Deltas: map[olog.Tag]map[olog.Dimension]int{
			"noir":        {Contrast: 3, Warmth: -3, Grain: 2},
			"vibrant":     {Contrast: 2, Warmth: 2, Grain: -1},
			"muted":       {Contrast: -2, Warmth: -1},
			"dreamy":      {Contrast: -2, Depth: -1, Grain: 1, Intimacy: 1},
			"documentary": {Grain: 2, Motion: 1},
		},
		Boosts: map[olog.Tag]olog.Dimension{
			"separation": Depth,
			"punch":      Contrast,
			"glow":       Warmth,
			"texture":    Grain,
			"energy":     Motion,
			"closeness":  Intimacy,
		},
		Templates: map[olog.Dimension][]olog.Bucket{
			Depth: tiers(
				tier{"flat", "flat, compressed space with no depth cues"},
				tier{"shallow depth", "shallow depth of field with soft background falloff"},
				tier{"layered depth", "layered foreground, midground and background with clear separation"},
				tier{"deep focus", "deep focus from foreground to horizon, every plane tack sharp"},
			),
			Contrast: tiers(
				tier{"low contrast", "soft low-contrast tonality with lifted shadows"},
				tier{"balanced contrast", "balanced contrast with a full tonal range"},
				tier{"punchy contrast", "punchy contrast with rich blacks and bright highlights"},
				tier{"extreme contrast", "hard graphic contrast, crushed blacks and blown highlights"},
			),
			Warmth: tiers(
				tier{"cold", "cold blue cast"},
				tier{"neutral", "neutral white balance"},
				tier{"warm", "warm amber tones"},
				tier{"hot", "saturated golden warmth bathing the scene"},
			),
			Grain: tiers(
				tier{"clean", "clean noiseless digital capture"},
				tier{"fine grain", "fine film grain"},
				tier{"visible grain", "visible 35mm film grain and texture"},
				tier{"heavy grain", "heavy pushed-film grain with gritty halation"},
			),
			Motion: tiers(
				tier{"frozen", "frozen instant, perfectly still"},
				tier{"gentle motion", "slight motion at the edges of the frame"},
				tier{"dynamic", "dynamic motion blur and panning streaks"},
				tier{"kinetic", "kinetic long-exposure trails, the frame vibrating with movement"},
			),
			Intimacy: tiers(
				tier{"distant", "distant observational vantage"},
				tier{"reserved", "respectful middle distance"},
				tier{"close", "close personal framing"},
				tier{"immersive", "immersive proximity, as if breathing the subject's air"},
			),
		},
		Negatives: map[olog.Dimension]olog.Negative{
			Depth:    {Threshold: 7, Fragment: "flat space, cramped background"},
			Contrast: {Threshold: 7, Fragment: "washed out, hazy, low contrast"},
			Warmth:   {Threshold: 7, Fragment: "cold cast, blue tint"},
			Grain:    {Threshold: 7, Fragment: "plastic skin, over-denoised"},
			Motion:   {Threshold: 7, Fragment: "static, stiff pose"},
			Intimacy: {Threshold: 8, Fragment: "detached, empty framing"},
		},
		BaseNegatives: []string{"out of focus", "low quality", "jpeg artifacts"},
	}
}

// NewLensRegistry validates LensDefinition.
func NewLensRegistry() (*olog.Registry, error) {
	return olog.NewRegistry(LensDefinition())
}
