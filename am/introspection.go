package am

import (
	"os"
	"sort"
	"strings"

	"github.com/dmarsters/slapstick-enhancer/errors"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/slapstick/am.toml
	SourceUser        ConfigSource = "user"        // ~/.slapstick/am.toml
	SourceProject     ConfigSource = "project"     // nearest am.toml upward from cwd
	SourceEnvironment ConfigSource = "environment" // SLAPSTICK_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // File path or environment variable name
}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"`
}

// ConfigIntrospection lists every effective setting with its origin
type ConfigIntrospection struct {
	Files    []ConfigFile  `json:"files"`
	Settings []SettingInfo `json:"settings"`
}

// GetConfigIntrospection reports the effective value and origin of every
// known key, using the sources tracked during loading.
func GetConfigIntrospection() (*ConfigIntrospection, error) {
	v, err := GetViper()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config for introspection")
	}

	mu.Lock()
	sources := ConfigSources
	mu.Unlock()

	keys := KnownKeys()
	sort.Strings(keys)

	intro := &ConfigIntrospection{Files: Where()}
	for _, key := range keys {
		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := sources[key]; ok {
			info = si
		}
		if env := EnvKey(key); os.Getenv(env) != "" {
			info = SourceInfo{Source: SourceEnvironment, Path: env}
		}
		intro.Settings = append(intro.Settings, SettingInfo{
			Key:        key,
			Value:      v.Get(key),
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
	return intro, nil
}

// EnvKey returns the environment variable that overrides key.
func EnvKey(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// GetConfigSummary counts settings per source
func GetConfigSummary() (map[ConfigSource]int, error) {
	intro, err := GetConfigIntrospection()
	if err != nil {
		return nil, err
	}
	counts := map[ConfigSource]int{}
	for _, s := range intro.Settings {
		counts[s.Source]++
	}
	return counts, nil
}
