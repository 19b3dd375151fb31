package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarsters/slapstick-enhancer/catalog"
	"github.com/dmarsters/slapstick-enhancer/enhancer"
)

const lensCatalog = `
taxonomy = "lens"

[[entries]]
id = "noir_normal"
name = "Noir portrait on a normal lens"
intent = { subject = "portrait", tone = "noir", intensity = "moderate" }
context = { lighting = "chiaroscuro", focal_length = "normal", era = "early_modern" }
`

const artCatalog = `
taxonomy: art
entries:
  - id: caravaggio
    intent: {subject: baroque, tone: bold, intensity: strong}
    context: {texture: impasto, composition: symmetrical, era: early_modern}
  - id: monet
    intent: {subject: impressionism, tone: serene, intensity: moderate}
    context: {palette: earth, era: nineteenth_century}
`

func newTestServer(t *testing.T, cfg Config, withCatalog bool) *Server {
	t.Helper()
	svc, err := enhancer.NewDefault()
	require.NoError(t, err)

	var store *catalog.Store
	if withCatalog {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "lens.toml"), []byte(lensCatalog), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "art.yaml"), []byte(artCatalog), 0o644))
		store = catalog.NewStore(svc)
		require.NoError(t, store.Load(dir))
	}
	return New(cfg, svc, store, nil)
}

// call invokes a tool through the same wrapper the MCP server uses.
func call(t *testing.T, s *Server, name string, args map[string]any) (string, bool) {
	t.Helper()
	for _, tl := range s.tools() {
		if tl.def.Name != name {
			continue
		}
		req := mcp.CallToolRequest{}
		req.Params.Name = name
		req.Params.Arguments = args
		res, err := s.wrap(name, tl.handle)(context.Background(), req)
		require.NoError(t, err, "tool failures are results, not protocol errors")
		require.Len(t, res.Content, 1)
		text, ok := res.Content[0].(mcp.TextContent)
		require.True(t, ok)
		return text.Text, res.IsError
	}
	t.Fatalf("no tool named %s", name)
	return "", false
}

func decode(t *testing.T, text string, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(text), v), text)
}

func TestToolsAreRegistered(t *testing.T) {
	s := newTestServer(t, Config{}, false)
	var names []string
	for _, tl := range s.tools() {
		names = append(names, tl.def.Name)
	}
	assert.Equal(t, []string{
		"enhance_with_intent", "enhance_with_parameters", "describe_parameters",
		"get_available_options", "score_compatibility", "list_catalog", "rank_matches",
	}, names)
	assert.NotNil(t, s.MCP())
}

func TestEnhanceWithIntent(t *testing.T) {
	s := newTestServer(t, Config{}, false)

	text, isErr := call(t, s, "enhance_with_intent", map[string]any{
		"base_prompt":       "A corporate office",
		"subject_type":      "architecture",
		"emotional_tone":    "tense",
		"visual_priorities": []any{"suspense", "physics"},
		"intensity":         "strong",
	})
	require.False(t, isErr, text)

	var got struct {
		Parameters  map[string]int `json:"parameters_used"`
		Enhanced    string         `json:"enhanced_prompt"`
		Negative    string         `json:"negative_prompt"`
		Summary     string         `json:"design_intent_summary"`
		ProfileCode string         `json:"profile_code"`
	}
	decode(t, text, &got)
	assert.Equal(t, map[string]int{
		"exaggeration": 6, "timing": 3, "physical": 6,
		"ruleOfThree": 5, "readability": 5, "tension": 10,
	}, got.Parameters)
	assert.True(t, strings.HasPrefix(got.Enhanced, "A corporate office, "))
	assert.Equal(t, "Applied strong tense treatment to architecture, emphasizing suspense, physics", got.Summary)
	assert.True(t, strings.HasPrefix(got.ProfileCode, "slapstick:z"))

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Calls.WithLabelValues("enhance_with_intent", "ok")))
}

func TestToolErrors(t *testing.T) {
	s := newTestServer(t, Config{}, false)

	tests := []struct {
		name   string
		tool   string
		args   map[string]any
		prefix string
		hint   string
	}{
		{
			name: "unknown tone",
			tool: "enhance_with_intent",
			args: map[string]any{
				"base_prompt": "x", "subject_type": "architecture",
				"emotional_tone": "grumpy", "intensity": "strong",
			},
			prefix: "invalid_category: ",
			hint:   "hint: valid emotional_tone values: playful, tense",
		},
		{
			name:   "missing argument",
			tool:   "enhance_with_intent",
			args:   map[string]any{"base_prompt": "x"},
			prefix: "invalid_request: ",
		},
		{
			name: "out of range is rejected",
			tool: "enhance_with_parameters",
			args: map[string]any{"base_prompt": "x", "parameters": map[string]any{
				"exaggeration": 11.0, "timing": 5.0, "physical": 5.0,
				"ruleOfThree": 5.0, "readability": 5.0, "tension": 5.0,
			}},
			prefix: "validation: exaggeration: value 11 outside [0,10]",
		},
		{
			name: "fractional value",
			tool: "describe_parameters",
			args: map[string]any{"parameters": map[string]any{
				"exaggeration": 2.5, "timing": 5.0, "physical": 5.0,
				"ruleOfThree": 5.0, "readability": 5.0, "tension": 5.0,
			}},
			prefix: "validation: exaggeration: must be an integer",
		},
		{
			name:   "no profile source",
			tool:   "describe_parameters",
			args:   map[string]any{},
			prefix: "invalid_request: ",
		},
		{
			name:   "unknown taxonomy",
			tool:   "get_available_options",
			args:   map[string]any{"taxonomy": "haiku"},
			prefix: "invalid_category: ",
			hint:   "hint: known taxonomy names: slapstick, lens, art",
		},
		{
			name:   "catalog disabled",
			tool:   "list_catalog",
			args:   map[string]any{},
			prefix: "catalog_disabled: ",
		},
		{
			name: "misspelt side key",
			tool: "score_compatibility",
			args: map[string]any{
				"side_a": map[string]any{"taxonomy": "lens", "contxt": map[string]any{}},
				"side_b": map[string]any{"taxonomy": "art"},
			},
			prefix: "invalid_request: ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := call(t, s, tt.tool, tt.args)
			require.True(t, isErr, text)
			assert.True(t, strings.HasPrefix(text, tt.prefix), text)
			if tt.hint != "" {
				assert.Contains(t, text, tt.hint)
			}
		})
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Calls.WithLabelValues("get_available_options", "invalid_category")))
}

func TestEnhanceWithParametersDoesNotClamp(t *testing.T) {
	s := newTestServer(t, Config{}, false)

	text, isErr := call(t, s, "enhance_with_parameters", map[string]any{
		"base_prompt": "A teapot",
		"parameters": map[string]any{
			"exaggeration": 10.0, "timing": 0.0, "physical": 5.0,
			"ruleOfThree": 5.0, "readability": 5.0, "tension": 5.0,
		},
	})
	require.False(t, isErr, text)

	var got struct {
		Parameters  map[string]int `json:"parameters_used"`
		ProfileCode string         `json:"profile_code"`
	}
	decode(t, text, &got)
	assert.Equal(t, 10, got.Parameters["exaggeration"])
	assert.Equal(t, 0, got.Parameters["timing"])

	text, isErr = call(t, s, "describe_parameters", map[string]any{"profile_code": got.ProfileCode})
	require.False(t, isErr, text)
	var desc struct {
		Taxonomy     string            `json:"taxonomy"`
		Descriptions map[string]string `json:"descriptions"`
	}
	decode(t, text, &desc)
	assert.Equal(t, "slapstick", desc.Taxonomy)
	assert.Len(t, desc.Descriptions, 6)
}

func TestGetAvailableOptions(t *testing.T) {
	s := newTestServer(t, Config{}, false)

	text, isErr := call(t, s, "get_available_options", map[string]any{"taxonomy": "art"})
	require.False(t, isErr, text)

	var got options
	decode(t, text, &got)
	assert.Equal(t, "art", got.Taxonomy)
	assert.Contains(t, got.Options["movement"], "baroque")
	assert.Equal(t, []string{"lens×art"}, got.Tables)
	assert.Len(t, got.Taxonomies, 3)
}

func TestScoreCompatibilityTool(t *testing.T) {
	s := newTestServer(t, Config{}, false)

	lens := map[string]any{
		"taxonomy": "lens",
		"intent":   map[string]any{"subject": "portrait", "tone": "noir", "intensity": "moderate"},
		"context":  map[string]any{"lighting": "chiaroscuro", "focal_length": "normal", "era": "early_modern"},
	}
	art := map[string]any{
		"taxonomy": "art",
		"intent":   map[string]any{"subject": "baroque", "tone": "bold", "intensity": "strong"},
		"context":  map[string]any{"texture": "impasto", "composition": "symmetrical", "era": "early_modern"},
	}

	ab, isErr := call(t, s, "score_compatibility", map[string]any{"side_a": lens, "side_b": art})
	require.False(t, isErr, ab)
	ba, isErr := call(t, s, "score_compatibility", map[string]any{"side_a": art, "side_b": lens, "table": "lens-art"})
	require.False(t, isErr, ba)
	assert.JSONEq(t, ab, ba)

	var got struct {
		Technical int    `json:"technical_score"`
		Aesthetic int    `json:"aesthetic_score"`
		Harmony   int    `json:"overall_harmony"`
		Temporal  string `json:"temporal_alignment"`
	}
	decode(t, ab, &got)
	assert.Equal(t, 7, got.Technical)
	assert.Equal(t, 8, got.Aesthetic)
	assert.Equal(t, 8, got.Harmony)
	assert.Equal(t, "era_matched", got.Temporal)
}

func TestCatalogTools(t *testing.T) {
	s := newTestServer(t, Config{}, true)

	text, isErr := call(t, s, "list_catalog", map[string]any{"taxonomy": "art"})
	require.False(t, isErr, text)
	var list struct {
		Generation uint64 `json:"generation"`
		Entries    []struct {
			ID string `json:"id"`
		} `json:"entries"`
	}
	decode(t, text, &list)
	assert.Equal(t, uint64(1), list.Generation)
	require.Len(t, list.Entries, 2)
	assert.Equal(t, "caravaggio", list.Entries[0].ID)

	text, isErr = call(t, s, "rank_matches", map[string]any{"entry_id": "noir_normal", "limit": 1.0})
	require.False(t, isErr, text)
	var matches []catalog.Match
	decode(t, text, &matches)
	require.Len(t, matches, 1)
	assert.Equal(t, "caravaggio", matches[0].EntryID)

	text, isErr = call(t, s, "rank_matches", map[string]any{"entry_id": "turner"})
	assert.True(t, isErr)
	assert.True(t, strings.HasPrefix(text, "not_found: "), text)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Config{RatePerSecond: 0.001, Burst: 1}, false)

	_, isErr := call(t, s, "get_available_options", map[string]any{})
	require.False(t, isErr)

	text, isErr := call(t, s, "get_available_options", map[string]any{})
	require.True(t, isErr)
	assert.True(t, strings.HasPrefix(text, "rate_limited: "), text)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Limited))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, Config{Metrics: true}, false)
	call(t, s, "get_available_options", map[string]any{})

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + MetricsPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `slapstick_tool_calls_total{outcome="ok",tool="get_available_options"} 1`)

	off := newTestServer(t, Config{}, false)
	rec := httptest.NewRecorder()
	off.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, MetricsPath, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeStopsOnCancel(t *testing.T) {
	s := newTestServer(t, Config{}, false)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, ln) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
