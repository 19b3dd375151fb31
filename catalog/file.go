// Package catalog loads named entries (a camera setup, a painting, a
// product shot) from TOML or YAML files, resolves each into a profile and a
// context, and ranks entries of one taxonomy against another.
package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/dmarsters/slapstick-enhancer/enhancer"
	"github.com/dmarsters/slapstick-enhancer/errors"
	"github.com/dmarsters/slapstick-enhancer/olog"
)

// File is the on-disk shape of one catalog file. A file holds entries of a
// single taxonomy.
type File struct {
	Taxonomy        string   `toml:"taxonomy" yaml:"taxonomy"`
	TaxonomyVersion string   `toml:"taxonomy_version" yaml:"taxonomy_version"`
	Entries         []Record `toml:"entries" yaml:"entries"`
}

// Record is one entry as written by hand. Exactly one of Intent, Parameters
// or ProfileCode supplies its profile.
type Record struct {
	ID          string            `toml:"id" yaml:"id"`
	Name        string            `toml:"name" yaml:"name"`
	Description string            `toml:"description" yaml:"description"`
	Intent      *IntentRecord     `toml:"intent" yaml:"intent"`
	Parameters  map[string]int    `toml:"parameters" yaml:"parameters"`
	ProfileCode string            `toml:"profile_code" yaml:"profile_code"`
	Context     map[string]string `toml:"context" yaml:"context"`
}

// IntentRecord is the file form of olog.Intent.
type IntentRecord struct {
	Subject    string   `toml:"subject" yaml:"subject"`
	Tone       string   `toml:"tone" yaml:"tone"`
	Priorities []string `toml:"priorities" yaml:"priorities"`
	Intensity  string   `toml:"intensity" yaml:"intensity"`
}

func (r *IntentRecord) intent() *olog.Intent {
	if r == nil {
		return nil
	}
	return &olog.Intent{
		Subject:    olog.Tag(r.Subject),
		Tone:       olog.Tag(r.Tone),
		Priorities: olog.Tags(r.Priorities...),
		Intensity:  olog.Tag(r.Intensity),
	}
}

// Entry is a resolved record.
type Entry struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Taxonomy    string       `json:"taxonomy"`
	Source      string       `json:"source"`
	Profile     olog.Profile `json:"profile"`
	Context     olog.Context `json:"context"`

	side olog.Side
}

// Side returns the entry as one half of a compatibility query.
func (e Entry) Side() olog.Side { return e.side }

// Resolver turns side inputs into scored sides. *enhancer.Service is the
// production implementation.
type Resolver interface {
	Registry(name string) (*olog.Registry, error)
	Table(name string) (*olog.RuleTable, error)
	ResolveSide(field string, in enhancer.SideInput) (olog.Side, error)
}

// IsCatalogFile reports whether path has a catalog file extension.
func IsCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml":
		return true
	}
	return false
}

// ReadFile decodes a catalog file. Unknown keys are rejected in both
// formats.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, errors.Wrapf(err, "read catalog %s", path)
	}
	return Decode(path, data)
}

// Decode parses data in the format implied by name's extension.
func Decode(name string, data []byte) (File, error) {
	var f File
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return File{}, invalid(errors.Wrapf(err, "parse %s", name))
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return File{}, invalid(errors.Newf("%s: unknown keys %s", name, strings.Join(keys, ", ")))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return File{}, invalid(errors.Wrapf(err, "parse %s", name))
		}
	default:
		return File{}, invalid(errors.Newf("%s: unsupported catalog format %q", name, filepath.Ext(name)))
	}
	return f, nil
}

// Resolve checks the file against its registry and resolves every record.
// source names the file in errors and in the resulting entries.
func Resolve(res Resolver, source string, f File) ([]Entry, error) {
	if f.Taxonomy == "" {
		return nil, invalid(errors.Newf("%s: missing taxonomy", source))
	}
	reg, err := res.Registry(f.Taxonomy)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", source)
	}
	if err := checkVersion(reg, f.TaxonomyVersion); err != nil {
		return nil, errors.Wrapf(err, "%s", source)
	}

	entries := make([]Entry, 0, len(f.Entries))
	seen := make(map[string]int, len(f.Entries))
	for i, rec := range f.Entries {
		field := fmt.Sprintf("entries[%d]", i)
		if rec.ID == "" {
			return nil, invalid(errors.Newf("%s: %s: missing id", source, field))
		}
		if j, dup := seen[rec.ID]; dup {
			return nil, invalid(errors.Newf("%s: %s: id %q duplicates entries[%d]", source, field, rec.ID, j))
		}
		seen[rec.ID] = i

		side, err := res.ResolveSide(field, enhancer.SideInput{
			Taxonomy:    f.Taxonomy,
			Intent:      rec.Intent.intent(),
			Parameters:  rec.Parameters,
			ProfileCode: rec.ProfileCode,
			Context:     rec.Context,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "%s: entry %s", source, rec.ID)
		}

		name := rec.Name
		if name == "" {
			name = rec.ID
		}
		entries = append(entries, Entry{
			ID:          rec.ID,
			Name:        name,
			Description: rec.Description,
			Taxonomy:    reg.Name(),
			Source:      source,
			Profile:     side.Profile,
			Context:     side.Context,
			side:        side,
		})
	}
	return entries, nil
}

// checkVersion enforces a taxonomy_version constraint such as "^1.2".
func checkVersion(reg *olog.Registry, constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return invalid(errors.Wrapf(err, "taxonomy_version %q", constraint))
	}
	v, err := semver.NewVersion(reg.Version())
	if err != nil {
		return errors.Wrapf(err, "taxonomy %s has an unparseable version %q", reg.Name(), reg.Version())
	}
	if !c.Check(v) {
		return invalid(errors.Newf("taxonomy %s version %s does not satisfy %s", reg.Name(), v, constraint))
	}
	return nil
}

func invalid(err error) error {
	return errors.Mark(err, errors.ErrValidation)
}
