// Package slapstick is the design-intent taxonomy: it maps subject, tone,
// visual priorities and intensity onto six slapstick comedy parameters and
// phrases them for an image prompt.
package slapstick

import (
	"github.com/dmarsters/slapstick-enhancer/olog"
)

// Name is the registry name of this taxonomy.
const Name = "slapstick"

// Version of the tables below. Bump the minor version when adding tags and the
// major version when a preset or template changes meaning.
const Version = "1.2.0"

// Dimensions in canonical order.
const (
	Exaggeration olog.Dimension = "exaggeration"
	Timing       olog.Dimension = "timing"
	Physical     olog.Dimension = "physical"
	RuleOfThree  olog.Dimension = "ruleOfThree"
	Readability  olog.Dimension = "readability"
	Tension      olog.Dimension = "tension"
)

// Category names.
const (
	SubjectType    olog.CategoryName = "subject_type"
	EmotionalTone  olog.CategoryName = "emotional_tone"
	VisualPriority olog.CategoryName = "visual_priority"
	Intensity      olog.CategoryName = "intensity"
)

var dimensions = []olog.Dimension{Exaggeration, Timing, Physical, RuleOfThree, Readability, Tension}

// Definition returns the raw tables. Each call returns fresh maps.
func Definition() olog.Definition {
	return olog.Definition{
		Name:       Name,
		Version:    Version,
		Dimensions: dimensions,
		Categories: []olog.Category{
			{
				Name:        SubjectType,
				Description: "category of subject matter",
				Members:     olog.Tags("architecture", "portrait", "still_life", "landscape", "abstract", "product", "scene"),
			},
			{
				Name:        EmotionalTone,
				Description: "emotional quality to convey",
				Members:     olog.Tags("playful", "tense", "absurd", "whimsical", "surreal", "dramatic", "chaotic", "elegant", "ominous"),
			},
			{
				Name:        VisualPriority,
				Description: "slapstick qualities to emphasize",
				Members:     olog.Tags("scale", "physics", "repetition", "clarity", "suspense", "rhythm", "distortion", "balance", "flow", "impact"),
			},
			{
				Name:        Intensity,
				Description: "overall strength of the slapstick effect",
				Members:     olog.Tags("subtle", "moderate", "strong", "extreme"),
			},
		},
		Roles: olog.Roles{
			Subject:   SubjectType,
			Tone:      EmotionalTone,
			Priority:  VisualPriority,
			Intensity: Intensity,
		},
		Presets:       presets(),
		Scales:        map[olog.Tag]int{"subtle": 30, "moderate": 70, "strong": 85, "extreme": 100},
		Deltas:        deltas(),
		Boosts:        boosts(),
		BoostAmount:   2,
		Templates:     templates(),
		Negatives:     negatives(),
		BaseNegatives: []string{"blurry", "low quality", "distorted", "ugly"},
		Connective:    ", ",
	}
}

// NewRegistry validates Definition.
func NewRegistry() (*olog.Registry, error) {
	return olog.NewRegistry(Definition())
}

func preset(exaggeration, timing, physical, ruleOfThree, readability, tension int) map[olog.Dimension]int {
	return map[olog.Dimension]int{
		Exaggeration: exaggeration,
		Timing:       timing,
		Physical:     physical,
		RuleOfThree:  ruleOfThree,
		Readability:  readability,
		Tension:      tension,
	}
}

func presets() map[olog.Tag]map[olog.Dimension]int {
	return map[olog.Tag]map[olog.Dimension]int{
		"architecture": preset(7, 4, 6, 6, 5, 8),
		"portrait":     preset(6, 5, 4, 5, 8, 4),
		"still_life":   preset(8, 6, 7, 8, 7, 6),
		"landscape":    preset(7, 7, 8, 6, 5, 7),
		"abstract":     preset(9, 8, 9, 7, 4, 8),
		"product":      preset(8, 5, 6, 7, 9, 5),
		"scene":        preset(6, 7, 7, 6, 6, 7),
	}
}

func deltas() map[olog.Tag]map[olog.Dimension]int {
	return map[olog.Tag]map[olog.Dimension]int{
		"playful":   {Timing: 2, Physical: 2, RuleOfThree: 1},
		"tense":     {Tension: 3, Physical: -1, Readability: 1},
		"absurd":    {Exaggeration: 3, Physical: 2, Readability: -2},
		"whimsical": {Timing: 2, RuleOfThree: 2, Exaggeration: 1},
		"surreal":   {Exaggeration: 3, Physical: 3, Readability: -1},
		"dramatic":  {Tension: 3, Readability: 2, Timing: 1},
		"chaotic":   {Exaggeration: 2, Physical: 3, Timing: 2, Readability: -2},
		"elegant":   {Readability: 3, RuleOfThree: 2, Timing: 1, Physical: -1},
		"ominous":   {Tension: 4, Timing: -1, Readability: 1},
	}
}

func boosts() map[olog.Tag]olog.Dimension {
	return map[olog.Tag]olog.Dimension{
		"scale":      Exaggeration,
		"distortion": Exaggeration,
		"physics":    Physical,
		"impact":     Physical,
		"repetition": RuleOfThree,
		"clarity":    Readability,
		"suspense":   Tension,
		"balance":    Tension,
		"rhythm":     Timing,
		"flow":       Timing,
	}
}

// quartet builds the four template buckets shared by every dimension:
// [0,2], [3,5], [6,8] and [9,10].
func quartet(summaries, fragments [4]string) []olog.Bucket {
	bounds := [4][2]int{{0, 2}, {3, 5}, {6, 8}, {9, 10}}
	out := make([]olog.Bucket, 4)
	for i, b := range bounds {
		out[i] = olog.Bucket{Min: b[0], Max: b[1], Summary: summaries[i], Fragment: fragments[i]}
	}
	return out
}

func templates() map[olog.Dimension][]olog.Bucket {
	return map[olog.Dimension][]olog.Bucket{
		Exaggeration: quartet(
			[4]string{
				"minimal exaggeration",
				"subtle scale variations",
				"obvious proportion exaggerations",
				"extreme distortions with impossible scales",
			},
			[4]string{
				"realistic proportions and natural color",
				"subtle scale variations and slightly heightened color saturation",
				"obvious proportion exaggerations, oversaturated colors and heightened contrast, forced perspective",
				"extreme distortions with impossible scales showing 3-5x size variations, surreal color intensity, warped perspective that shouldn't work but does",
			}),
		Timing: quartet(
			[4]string{
				"static composition",
				"gentle repetition",
				"strong rhythmic composition",
				"staccato visual interruptions",
			},
			[4]string{
				"static composition without temporal elements",
				"gentle repetition of visual elements creating compositional rhythm",
				"strong rhythmic composition with repeating elements, anticipation spaces and visual pauses between key elements",
				"staccato visual interruptions, dramatic motion blur on static objects, speed lines suggesting imminent action",
			}),
		Physical: quartet(
			[4]string{
				"realistic physics",
				"subtle material flexibility",
				"squash and stretch principles",
				"extreme elasticity and squash-stretch",
			},
			[4]string{
				"realistic physics and rigid materials",
				"subtle material flexibility, slight impossibilities in physics",
				"squash and stretch principles applied to forms, gravity-defying elements, objects mid-fall or impossibly suspended",
				"extreme elasticity and squash-stretch distortion, mid-collision freeze-frame moment, materials stretched or compressed cartoonishly, complete defiance of physics",
			}),
		RuleOfThree: quartet(
			[4]string{
				"no triplet emphasis",
				"subtle triplet hints",
				"clear triplet groupings",
				"complex triplet patterns",
			},
			[4]string{
				"no emphasis on triplet groupings",
				"subtle hints of grouping in threes, occasional triplet arrangement",
				"clear triplet groupings, establish one element then systematically repeat-with-variation twice more, visual pattern of three",
				"complex establish-repeat-subvert patterns, three-part visual jokes in composition, triple visual callbacks, all using rule of thirds positioning",
			}),
		Readability: quartet(
			[4]string{
				"complex visual details",
				"subtle graphic emphasis",
				"strong silhouette clarity",
				"crystal clear graphic simplification",
			},
			[4]string{
				"complex visual details without simplification",
				"subtle graphic emphasis with readable forms",
				"strong silhouette clarity and graphic simplification, clear contrast between subject and environment",
				"crystal clear graphic simplification and silhouette clarity, high contrast separating subject from background, visual clarity even from distance",
			}),
		Tension: quartet(
			[4]string{
				"peaceful balance",
				"subtle tension",
				"strong suspenseful moment",
				"extreme precarious balance",
			},
			[4]string{
				"peaceful balanced composition",
				"subtle underlying tension and unease",
				"strong suspenseful moment with clear tension, objects at unstable angles, sense of impending action",
				"extreme precarious balance suggesting imminent collapse, maximum suspense and about-to-happen energy, frozen moment of chaos",
			}),
	}
}

// negatives fire at 6 except readability, whose exclusion only matters once
// the silhouette dominates the image.
func negatives() map[olog.Dimension]olog.Negative {
	return map[olog.Dimension]olog.Negative{
		Exaggeration: {Threshold: 6, Fragment: "realistic proportions, natural colors, subtle"},
		Timing:       {Threshold: 6, Fragment: "static composition, no motion, no rhythm"},
		Physical:     {Threshold: 6, Fragment: "realistic physics, rigid materials, no distortion"},
		RuleOfThree:  {Threshold: 6, Fragment: "no pattern, no rhythm, random composition"},
		Readability:  {Threshold: 8, Fragment: "cluttered, confusing, unclear silhouette"},
		Tension:      {Threshold: 6, Fragment: "peaceful, calm, balanced, serene"},
	}
}
