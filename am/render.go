package am

import (
	"bytes"
	"encoding/json"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dmarsters/slapstick-enhancer/errors"
)

// Output formats for Render
const (
	FormatTOML = "toml"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Settings returns the effective configuration as a nested map.
func Settings() (map[string]interface{}, error) {
	v, err := GetViper()
	if err != nil {
		return nil, err
	}
	return v.AllSettings(), nil
}

// Render encodes settings as TOML, JSON or YAML.
func Render(settings map[string]interface{}, format string) ([]byte, error) {
	switch format {
	case FormatTOML, "":
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(settings); err != nil {
			return nil, errors.Wrap(err, "failed to encode toml")
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode json")
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(settings); err != nil {
			return nil, errors.Wrap(err, "failed to encode yaml")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "failed to encode yaml")
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.Mark(
			errors.Newf("unknown format %q (want toml, json or yaml)", format),
			errors.ErrValidation)
	}
}
