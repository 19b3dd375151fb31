// Package enhancer is the call surface the transports use: it owns the
// shipped registries and rule tables and exposes the rule engine by taxonomy
// name.
package enhancer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dmarsters/slapstick-enhancer/errors"
	"github.com/dmarsters/slapstick-enhancer/olog"
	"github.com/dmarsters/slapstick-enhancer/olog/pairing"
	"github.com/dmarsters/slapstick-enhancer/olog/slapstick"
)

// DefaultTaxonomy is used when a request names no taxonomy.
const DefaultTaxonomy = slapstick.Name

// DefaultTable is used when a request names no rule table.
const DefaultTable = pairing.TableName

// Service resolves taxonomy and table names and runs the rule engine.
// It is immutable after construction and safe for concurrent use.
type Service struct {
	registries map[string]*olog.Registry
	order      []string
	tables     map[string]*olog.RuleTable
	tableOrder []string
}

// Option configures NewDefault.
type Option func(*options)

type options struct {
	coherenceThreshold int
}

// WithCoherenceThreshold overrides the harmony coherence threshold of every
// shipped rule table.
func WithCoherenceThreshold(n int) Option {
	return func(o *options) { o.coherenceThreshold = n }
}

// NewDefault builds the shipped slapstick, lens and art registries and the
// lens×art rule table. A failure here is a *olog.ConfigurationError and means
// the binary must not start.
func NewDefault(opts ...Option) (*Service, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	slap, err := slapstick.NewRegistry()
	if err != nil {
		return nil, errors.Wrap(err, "slapstick registry")
	}
	lens, err := pairing.NewLensRegistry()
	if err != nil {
		return nil, errors.Wrap(err, "lens registry")
	}
	art, err := pairing.NewArtRegistry()
	if err != nil {
		return nil, errors.Wrap(err, "art registry")
	}
	table, err := pairing.NewRuleTable(lens, art)
	if err != nil {
		return nil, errors.Wrap(err, "lens×art rule table")
	}
	if o.coherenceThreshold > 0 {
		table = table.WithCoherenceThreshold(o.coherenceThreshold)
	}
	return New([]*olog.Registry{slap, lens, art}, []*olog.RuleTable{table}), nil
}

// New assembles a Service from already validated registries and tables.
func New(registries []*olog.Registry, tables []*olog.RuleTable) *Service {
	s := &Service{
		registries: make(map[string]*olog.Registry, len(registries)),
		tables:     make(map[string]*olog.RuleTable, len(tables)),
	}
	for _, r := range registries {
		s.registries[r.Name()] = r
		s.order = append(s.order, r.Name())
	}
	for _, t := range tables {
		s.tables[t.Name()] = t
		s.tableOrder = append(s.tableOrder, t.Name())
	}
	return s
}

// TaxonomyInfo summarises one registry for discovery.
type TaxonomyInfo struct {
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	Dimensions []string `json:"dimensions"`
}

// Taxonomies lists the registries in registration order.
func (s *Service) Taxonomies() []TaxonomyInfo {
	out := make([]TaxonomyInfo, 0, len(s.order))
	for _, name := range s.order {
		r := s.registries[name]
		dims := make([]string, 0, len(r.Dimensions()))
		for _, d := range r.Dimensions() {
			dims = append(dims, string(d))
		}
		out = append(out, TaxonomyInfo{Name: name, Version: r.Version(), Dimensions: dims})
	}
	return out
}

// Tables lists the rule table names in registration order.
func (s *Service) Tables() []string { return slices.Clone(s.tableOrder) }

// Registry resolves a taxonomy name; "" selects DefaultTaxonomy.
func (s *Service) Registry(name string) (*olog.Registry, error) {
	if name == "" {
		name = DefaultTaxonomy
	}
	if r, ok := s.registries[name]; ok {
		return r, nil
	}
	return nil, unknownName("taxonomy", name, s.order)
}

// Table resolves a rule table name; "" selects DefaultTable. An ASCII
// hyphen may stand in for the multiplication sign ("lens-art").
func (s *Service) Table(name string) (*olog.RuleTable, error) {
	if name == "" {
		name = DefaultTable
	}
	if t, ok := s.tables[name]; ok {
		return t, nil
	}
	if t, ok := s.tables[strings.ReplaceAll(name, "-", "×")]; ok {
		return t, nil
	}
	return nil, unknownName("table", name, s.tableOrder)
}

func unknownName(field, name string, known []string) error {
	err := &olog.InvalidCategoryError{Field: field, Tag: olog.Tag(name), Allowed: olog.Tags(known...)}
	return errors.WithHintf(err, "known %s names: %s", field, strings.Join(known, ", "))
}

// MapIntent builds a profile from categorical tags.
func (s *Service) MapIntent(taxonomy string, intent olog.Intent) (olog.Profile, error) {
	reg, err := s.Registry(taxonomy)
	if err != nil {
		return olog.Profile{}, err
	}
	return olog.Build(reg, intent)
}

// Trace is MapIntent that also returns every intermediate stage.
func (s *Service) Trace(taxonomy string, intent olog.Intent) (olog.Profile, olog.BuildTrace, error) {
	reg, err := s.Registry(taxonomy)
	if err != nil {
		return olog.Profile{}, olog.BuildTrace{}, err
	}
	return olog.Trace(reg, intent)
}

// BuildFromExplicitProfile validates caller-supplied values without clamping.
func (s *Service) BuildFromExplicitProfile(taxonomy string, values map[string]int) (olog.Profile, error) {
	reg, err := s.Registry(taxonomy)
	if err != nil {
		return olog.Profile{}, err
	}
	return olog.ExplicitStrings(reg, values)
}

// DecodeProfile parses a profile code. The taxonomy is taken from the code
// when taxonomy is "".
func (s *Service) DecodeProfile(taxonomy, code string) (olog.Profile, error) {
	if taxonomy == "" {
		if prefix, _, ok := strings.Cut(code, ":"); ok {
			taxonomy = prefix
		}
	}
	reg, err := s.Registry(taxonomy)
	if err != nil {
		return olog.Profile{}, err
	}
	return olog.DecodeProfile(reg, code)
}

// profileRegistry resolves the registry a profile is rendered with; ""
// selects the profile's own taxonomy.
func (s *Service) profileRegistry(taxonomy string, p olog.Profile) (*olog.Registry, error) {
	if taxonomy == "" {
		taxonomy = p.Taxonomy()
	}
	return s.Registry(taxonomy)
}

// RenderText returns the enhanced and negative prompts for p.
func (s *Service) RenderText(taxonomy, basePrompt string, p olog.Profile) (olog.Rendering, error) {
	reg, err := s.profileRegistry(taxonomy, p)
	if err != nil {
		return olog.Rendering{}, err
	}
	return olog.Render(reg, basePrompt, p)
}

// DescribeProfile returns the per-dimension summaries of p.
func (s *Service) DescribeProfile(taxonomy string, p olog.Profile) (map[string]string, error) {
	reg, err := s.profileRegistry(taxonomy, p)
	if err != nil {
		return nil, err
	}
	desc, err := olog.Describe(reg, p)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(desc))
	for d, text := range desc {
		out[string(d)] = text
	}
	return out, nil
}

// ListCategories returns every category of the taxonomy with its ordered
// members.
func (s *Service) ListCategories(taxonomy string) (map[string][]string, error) {
	reg, err := s.Registry(taxonomy)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	for _, c := range reg.Categories() {
		out[string(c.Name)] = c.Strings()
	}
	return out, nil
}

// Enhancement is the full result of an enhance call.
type Enhancement struct {
	Taxonomy    string       `json:"taxonomy"`
	Parameters  olog.Profile `json:"parameters_used"`
	Enhanced    string       `json:"enhanced_prompt"`
	Negative    string       `json:"negative_prompt"`
	Summary     string       `json:"design_intent_summary,omitempty"`
	ProfileCode string       `json:"profile_code"`
}

// Enhance maps intent and renders the prompts around basePrompt.
func (s *Service) Enhance(taxonomy, basePrompt string, intent olog.Intent) (Enhancement, error) {
	reg, err := s.Registry(taxonomy)
	if err != nil {
		return Enhancement{}, err
	}
	p, err := olog.Build(reg, intent)
	if err != nil {
		return Enhancement{}, err
	}
	e, err := s.enhancement(reg, basePrompt, p)
	if err != nil {
		return Enhancement{}, err
	}
	e.Summary = Summary(intent)
	return e, nil
}

// EnhanceProfile renders an already built or explicit profile.
func (s *Service) EnhanceProfile(taxonomy, basePrompt string, p olog.Profile) (Enhancement, error) {
	reg, err := s.profileRegistry(taxonomy, p)
	if err != nil {
		return Enhancement{}, err
	}
	return s.enhancement(reg, basePrompt, p)
}

func (s *Service) enhancement(reg *olog.Registry, basePrompt string, p olog.Profile) (Enhancement, error) {
	r, err := olog.Render(reg, basePrompt, p)
	if err != nil {
		return Enhancement{}, err
	}
	return Enhancement{
		Taxonomy:    reg.Name(),
		Parameters:  p,
		Enhanced:    r.Enhanced,
		Negative:    r.Negative,
		ProfileCode: olog.EncodeProfile(p),
	}, nil
}

// Summary phrases an intent for humans, e.g. "Applied strong tense treatment
// to architecture, emphasizing suspense, physics".
func Summary(intent olog.Intent) string {
	emphasis := "none specified"
	if len(intent.Priorities) > 0 {
		parts := make([]string, len(intent.Priorities))
		for i, p := range intent.Priorities {
			parts[i] = string(p)
		}
		emphasis = strings.Join(parts, ", ")
	}
	return fmt.Sprintf("Applied %s %s treatment to %s, emphasizing %s",
		intent.Intensity, intent.Tone, intent.Subject, emphasis)
}
