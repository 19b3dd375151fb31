package am

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/dmarsters/slapstick-enhancer/errors"
)

// SystemConfigPath is the lowest-precedence config file
var SystemConfigPath = "/etc/slapstick/" + ConfigFileName

var (
	mu            sync.Mutex
	globalConfig  *Config
	viperInstance *viper.Viper

	// ConfigSources records which file set each key during the last load
	ConfigSources = map[string]SourceInfo{}
)

// Load reads the configuration once and caches it until Reset.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()
	if globalConfig != nil {
		return globalConfig, nil
	}

	v, err := initViper()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	globalConfig = cfg
	return globalConfig, nil
}

// GetViper returns the Viper instance behind Load.
func GetViper() (*viper.Viper, error) {
	mu.Lock()
	defer mu.Unlock()
	return initViper()
}

// LoadWithViper unmarshals configuration from a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to unmarshal config"), errors.ErrConfiguration)
	}
	return &config, nil
}

// LoadFromFile loads defaults plus one specific file, ignoring the cascade
// and the environment.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	if err := mergeFile(v, configPath); err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

// initViper builds the cascade. Callers hold mu.
func initViper() (*viper.Viper, error) {
	if viperInstance != nil {
		return viperInstance, nil
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	sources := map[string]SourceInfo{}
	for _, f := range configFiles() {
		if _, err := os.Stat(f.Path); err != nil {
			continue
		}
		if err := mergeFile(v, f.Path); err != nil {
			return nil, err
		}
		settings, _ := readFile(f.Path)
		for _, key := range flattenKeys(settings, "") {
			sources[key] = SourceInfo{Source: f.Source, Path: f.Path}
		}
	}

	ConfigSources = sources
	viperInstance = v
	return v, nil
}

// ConfigFile is one file of the cascade.
type ConfigFile struct {
	Path   string       `json:"path"`
	Source ConfigSource `json:"source"`
	Exists bool         `json:"exists"`
}

// Where lists the cascade in precedence order, lowest first.
func Where() []ConfigFile {
	files := configFiles()
	for i := range files {
		_, err := os.Stat(files[i].Path)
		files[i].Exists = err == nil
	}
	return files
}

func configFiles() []ConfigFile {
	files := []ConfigFile{{Path: SystemConfigPath, Source: SourceSystem}}
	if dir := UserDir(); dir != "" {
		files = append(files, ConfigFile{Path: filepath.Join(dir, ConfigFileName), Source: SourceUser})
	}
	if project := findProjectConfig(); project != "" {
		files = append(files, ConfigFile{Path: project, Source: SourceProject})
	}
	return files
}

// findProjectConfig walks up from the working directory to the first
// am.toml. The user file is skipped so it is not counted twice.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	userFile := ""
	if ud := UserDir(); ud != "" {
		userFile = filepath.Join(ud, ConfigFileName)
	}

	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil && path != userFile {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func readFile(path string) (map[string]interface{}, error) {
	tmp := viper.New()
	tmp.SetConfigFile(path)
	tmp.SetConfigType("toml")
	if err := tmp.ReadInConfig(); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to read config file %s", path), errors.ErrConfiguration)
	}
	return tmp.AllSettings(), nil
}

// mergeFile merges path into v's config layer, which sits below the
// environment in viper's lookup order.
func mergeFile(v *viper.Viper, path string) error {
	settings, err := readFile(path)
	if err != nil {
		return err
	}
	if err := v.MergeConfigMap(settings); err != nil {
		return errors.Wrapf(err, "failed to merge config file %s", path)
	}
	return nil
}

func flattenKeys(settings map[string]interface{}, prefix string) []string {
	var keys []string
	for k, val := range settings {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		if nested, ok := val.(map[string]interface{}); ok {
			keys = append(keys, flattenKeys(nested, full)...)
			continue
		}
		keys = append(keys, full)
	}
	return keys
}

// Get returns the effective value of a known key.
func Get(key string) (interface{}, error) {
	v, err := GetViper()
	if err != nil {
		return nil, err
	}
	if !isKnownKey(key) {
		return nil, unknownKey(key)
	}
	return v.Get(key), nil
}

func isKnownKey(key string) bool {
	for _, k := range KnownKeys() {
		if k == key {
			return true
		}
	}
	return false
}

func unknownKey(key string) error {
	return errors.WithHint(errors.NewNotFoundError("config key %q", key),
		"known keys: "+strings.Join(KnownKeys(), ", "))
}
