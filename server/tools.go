package server

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dmarsters/slapstick-enhancer/catalog"
	"github.com/dmarsters/slapstick-enhancer/enhancer"
	"github.com/dmarsters/slapstick-enhancer/errors"
	"github.com/dmarsters/slapstick-enhancer/olog"
)

// DefaultRankLimit is the number of matches rank_matches returns by default.
const DefaultRankLimit = 5

func (s *Server) tools() []tool {
	taxonomyArg := mcp.WithString("taxonomy",
		mcp.Description("Taxonomy name: slapstick (default), lens or art"),
	)
	profileArgs := []mcp.ToolOption{
		mcp.WithObject("parameters",
			mcp.Description("Explicit value per dimension, each an integer 0-10; every dimension of the taxonomy is required"),
		),
		mcp.WithString("profile_code",
			mcp.Description("A profile_code returned by an earlier call, instead of parameters"),
		),
	}

	return []tool{
		{
			def: mcp.NewTool("enhance_with_intent",
				mcp.WithDescription("Enhance an image prompt by mapping design intent tags to parameters. "+
					"Returns parameters_used, enhanced_prompt, negative_prompt, design_intent_summary and profile_code."),
				mcp.WithString("base_prompt", mcp.Required(),
					mcp.Description("The original image description, e.g. \"A corporate office\""),
				),
				mcp.WithString("subject_type", mcp.Required(),
					mcp.Description("Subject tag (slapstick: architecture, portrait, still_life, landscape, abstract, product, scene)"),
				),
				mcp.WithString("emotional_tone", mcp.Required(),
					mcp.Description("Tone tag (slapstick: playful, tense, absurd, whimsical, surreal, dramatic, chaotic, elegant, ominous)"),
				),
				mcp.WithArray("visual_priorities", mcp.WithStringItems(),
					mcp.Description("Priority tags to emphasize, 1-3 recommended (slapstick: scale, physics, repetition, clarity, suspense, rhythm, distortion, balance, flow, impact)"),
				),
				mcp.WithString("intensity", mcp.Required(),
					mcp.Description("Intensity tag: subtle, moderate, strong, extreme"),
				),
				taxonomyArg,
			),
			handle: s.handleEnhanceWithIntent,
		},
		{
			def: mcp.NewTool("enhance_with_parameters", append([]mcp.ToolOption{
				mcp.WithDescription("Enhance an image prompt with explicit parameter values. " +
					"Out-of-range values are rejected, never clamped."),
				mcp.WithString("base_prompt", mcp.Required(),
					mcp.Description("The original image description"),
				),
				taxonomyArg,
			}, profileArgs...)...),
			handle: s.handleEnhanceWithParameters,
		},
		{
			def: mcp.NewTool("describe_parameters", append([]mcp.ToolOption{
				mcp.WithDescription("Describe in words what each parameter value does to the image."),
				taxonomyArg,
			}, profileArgs...)...),
			handle: s.handleDescribeParameters,
		},
		{
			def: mcp.NewTool("get_available_options",
				mcp.WithDescription("List every category of a taxonomy with its valid tags, plus the known taxonomies."),
				taxonomyArg,
			),
			handle: s.handleGetAvailableOptions,
		},
		{
			def: mcp.NewTool("score_compatibility",
				mcp.WithDescription("Score how well two sides (for example a lens setup and an art style) pair under a rule table. "+
					"Each side is {taxonomy, intent | parameters | profile_code, context}; context must include era."),
				mcp.WithString("table",
					mcp.Description("Rule table name, default lens×art (lens-art also accepted)"),
				),
				mcp.WithObject("side_a", mcp.Required(),
					mcp.Description("First side: {\"taxonomy\": \"lens\", \"intent\": {...}, \"context\": {\"lighting\": \"neon\", \"era\": \"futurist\"}}"),
				),
				mcp.WithObject("side_b", mcp.Required(),
					mcp.Description("Second side, same shape as side_a"),
				),
			),
			handle: s.handleScoreCompatibility,
		},
		{
			def: mcp.NewTool("list_catalog",
				mcp.WithDescription("List the loaded catalog entries, optionally of one taxonomy."),
				mcp.WithString("taxonomy", mcp.Description("Only entries of this taxonomy")),
			),
			handle: s.handleListCatalog,
		},
		{
			def: mcp.NewTool("rank_matches",
				mcp.WithDescription("Rank catalog entries of the other taxonomy by compatibility with one entry."),
				mcp.WithString("entry_id", mcp.Required(), mcp.Description("Catalog entry to match")),
				mcp.WithString("target_taxonomy", mcp.Description("Taxonomy of the candidates; defaults to the table's other taxonomy")),
				mcp.WithString("table", mcp.Description("Rule table name, default lens×art")),
				mcp.WithNumber("limit", mcp.Description("Maximum number of matches, default 5; 0 returns all")),
			),
			handle: s.handleRankMatches,
		},
	}
}

func requireString(req mcp.CallToolRequest, key string) (string, error) {
	v, err := req.RequireString(key)
	if err != nil {
		return "", NewInvalidRequestError("%s", err.Error())
	}
	return v, nil
}

func (s *Server) handleEnhanceWithIntent(_ context.Context, req mcp.CallToolRequest) (any, error) {
	base, err := requireString(req, "base_prompt")
	if err != nil {
		return nil, err
	}
	var intent olog.Intent
	for _, arg := range []struct {
		key string
		dst *olog.Tag
	}{
		{"subject_type", &intent.Subject},
		{"emotional_tone", &intent.Tone},
		{"intensity", &intent.Intensity},
	} {
		v, err := requireString(req, arg.key)
		if err != nil {
			return nil, err
		}
		*arg.dst = olog.Tag(v)
	}
	intent.Priorities = olog.Tags(req.GetStringSlice("visual_priorities", nil)...)

	return s.svc.Enhance(req.GetString("taxonomy", ""), base, intent)
}

func (s *Server) handleEnhanceWithParameters(_ context.Context, req mcp.CallToolRequest) (any, error) {
	base, err := requireString(req, "base_prompt")
	if err != nil {
		return nil, err
	}
	p, err := s.profileArg(req)
	if err != nil {
		return nil, err
	}
	return s.svc.EnhanceProfile(req.GetString("taxonomy", ""), base, p)
}

type description struct {
	Taxonomy     string            `json:"taxonomy"`
	Parameters   olog.Profile      `json:"parameters"`
	Descriptions map[string]string `json:"descriptions"`
	ProfileCode  string            `json:"profile_code"`
}

func (s *Server) handleDescribeParameters(_ context.Context, req mcp.CallToolRequest) (any, error) {
	p, err := s.profileArg(req)
	if err != nil {
		return nil, err
	}
	desc, err := s.svc.DescribeProfile(req.GetString("taxonomy", ""), p)
	if err != nil {
		return nil, err
	}
	return description{
		Taxonomy:     p.Taxonomy(),
		Parameters:   p,
		Descriptions: desc,
		ProfileCode:  olog.EncodeProfile(p),
	}, nil
}

type options struct {
	Taxonomy   string                  `json:"taxonomy"`
	Version    string                  `json:"version"`
	Options    map[string][]string     `json:"options"`
	Taxonomies []enhancer.TaxonomyInfo `json:"taxonomies"`
	Tables     []string                `json:"tables"`
}

func (s *Server) handleGetAvailableOptions(_ context.Context, req mcp.CallToolRequest) (any, error) {
	reg, err := s.svc.Registry(req.GetString("taxonomy", ""))
	if err != nil {
		return nil, err
	}
	cats, err := s.svc.ListCategories(reg.Name())
	if err != nil {
		return nil, err
	}
	return options{
		Taxonomy:   reg.Name(),
		Version:    reg.Version(),
		Options:    cats,
		Taxonomies: s.svc.Taxonomies(),
		Tables:     s.svc.Tables(),
	}, nil
}

func (s *Server) handleScoreCompatibility(_ context.Context, req mcp.CallToolRequest) (any, error) {
	args := req.GetArguments()
	a, err := sideArg(args, "side_a")
	if err != nil {
		return nil, err
	}
	b, err := sideArg(args, "side_b")
	if err != nil {
		return nil, err
	}
	return s.svc.ScoreCompatibility(req.GetString("table", ""), a, b)
}

type listing struct {
	Generation uint64          `json:"generation"`
	Entries    []catalog.Entry `json:"entries"`
}

func (s *Server) handleListCatalog(_ context.Context, req mcp.CallToolRequest) (any, error) {
	if s.store == nil {
		return nil, errors.WithHint(ErrCatalogDisabled, "set catalog.paths in am.toml")
	}
	snap := s.store.Snapshot()
	entries := snap.Entries(req.GetString("taxonomy", ""))
	if entries == nil {
		entries = []catalog.Entry{}
	}
	return listing{Generation: snap.Generation, Entries: entries}, nil
}

func (s *Server) handleRankMatches(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	if s.store == nil {
		return nil, errors.WithHint(ErrCatalogDisabled, "set catalog.paths in am.toml")
	}
	id, err := requireString(req, "entry_id")
	if err != nil {
		return nil, err
	}
	limit := req.GetInt("limit", DefaultRankLimit)
	if limit < 0 {
		return nil, NewInvalidRequestError("limit must not be negative, got %d", limit)
	}
	matches, err := s.store.Rank(ctx, id, req.GetString("target_taxonomy", ""), req.GetString("table", ""), limit)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []catalog.Match{}
	}
	return matches, nil
}

// profileArg reads exactly one of parameters or profile_code.
func (s *Server) profileArg(req mcp.CallToolRequest) (olog.Profile, error) {
	args := req.GetArguments()
	taxonomy := req.GetString("taxonomy", "")
	code := req.GetString("profile_code", "")
	raw, hasParams := args["parameters"]

	switch {
	case hasParams && code != "":
		return olog.Profile{}, NewInvalidRequestError("pass parameters or profile_code, not both")
	case code != "":
		return s.svc.DecodeProfile(taxonomy, code)
	case hasParams:
		values, err := intMap("parameters", raw)
		if err != nil {
			return olog.Profile{}, err
		}
		return s.svc.BuildFromExplicitProfile(taxonomy, values)
	}
	return olog.Profile{}, NewInvalidRequestError("one of parameters or profile_code is required")
}

// intMap converts a decoded JSON object of numbers into dimension values.
// Fractional numbers are rejected rather than truncated.
func intMap(field string, raw any) (map[string]int, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, NewInvalidRequestError("%s must be an object", field)
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]int, len(obj))
	for _, k := range keys {
		var f float64
		switch v := obj[k].(type) {
		case float64:
			f = v
		case int:
			f = float64(v)
		case json.Number:
			n, err := v.Float64()
			if err != nil {
				return nil, &olog.ValidationError{Field: k, Reason: "not a number"}
			}
			f = n
		default:
			return nil, &olog.ValidationError{Field: k, Reason: "not a number"}
		}
		if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return nil, &olog.ValidationError{Field: k, Reason: "must be an integer"}
		}
		out[k] = int(f)
	}
	return out, nil
}

// sideArg decodes one side of score_compatibility. Unknown keys are
// rejected so a misspelt "contxt" does not silently drop the era.
func sideArg(args map[string]any, key string) (enhancer.SideInput, error) {
	raw, ok := args[key]
	if !ok {
		return enhancer.SideInput{}, NewInvalidRequestError("required argument %q not found", key)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return enhancer.SideInput{}, NewInvalidRequestError("%s: %v", key, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var in enhancer.SideInput
	if err := dec.Decode(&in); err != nil {
		return enhancer.SideInput{}, NewInvalidRequestError("%s: %v", key, err)
	}
	return in, nil
}
