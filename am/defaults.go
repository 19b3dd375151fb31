package am

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options.
// Every known key has a default; Set and Get reject keys that do not.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.name", DefaultServerName)
	v.SetDefault("server.transport", TransportStdio)
	v.SetDefault("server.http_addr", DefaultHTTPAddr)
	v.SetDefault("server.rate_limit_per_second", DefaultRatePerSec)
	v.SetDefault("server.rate_burst", DefaultRateBurst)
	v.SetDefault("server.metrics", true)

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.theme", "everforest")

	v.SetDefault("scoring.coherence_threshold", 7)

	v.SetDefault("catalog.paths", []string{})
	v.SetDefault("catalog.watch", false)
	v.SetDefault("catalog.sources", []string{})
	v.SetDefault("catalog.cache_dir", "")
	v.SetDefault("catalog.allow_private_sources", false)
	v.SetDefault("catalog.rank_workers", DefaultRankWorkers)
}

// KnownKeys returns every configuration key in sorted order.
func KnownKeys() []string {
	v := viper.New()
	SetDefaults(v)
	return v.AllKeys()
}

// UserDir returns ~/.slapstick, or "" when there is no home directory.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".slapstick")
}

// CatalogCacheDir returns where remote catalog sources are fetched to:
// catalog.cache_dir, or ~/.slapstick/catalogs when unset.
func (c *Config) CatalogCacheDir() string {
	if c.Catalog.CacheDir != "" {
		return c.Catalog.CacheDir
	}
	if dir := UserDir(); dir != "" {
		return filepath.Join(dir, "catalogs")
	}
	return ""
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Server: {Name: %s, Transport: %s}, Catalog: {Paths: %d, Sources: %d}}",
		c.Server.Name, c.Server.Transport, len(c.Catalog.Paths), len(c.Catalog.Sources))
}

// defaultValue returns the built-in default for key.
func defaultValue(key string) interface{} {
	v := viper.New()
	SetDefaults(v)
	return v.Get(key)
}
