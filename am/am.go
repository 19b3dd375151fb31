// Package am holds the slapstick configuration: what the server is and how
// it behaves. Values cascade from built-in defaults through the system, user
// and project am.toml files to SLAPSTICK_* environment variables.
package am

// Config represents the slapstick configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Scoring ScoringConfig `mapstructure:"scoring"`
	Catalog CatalogConfig `mapstructure:"catalog"`
}

// ServerConfig configures the MCP server
type ServerConfig struct {
	Name               string  `mapstructure:"name"`
	Transport          string  `mapstructure:"transport"` // stdio or http
	HTTPAddr           string  `mapstructure:"http_addr"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second"` // 0 disables limiting
	RateBurst          int     `mapstructure:"rate_burst"`
	Metrics            bool    `mapstructure:"metrics"` // serve /metrics next to /mcp
}

// LogConfig configures the process logger
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"` // debug, info, warn, error
	Theme string `mapstructure:"theme"` // Console theme: everforest, gruvbox
}

// ScoringConfig tunes compatibility scoring
type ScoringConfig struct {
	// Both sub-scores must exceed this for the harmony bonus (1-10)
	CoherenceThreshold int `mapstructure:"coherence_threshold"`
}

// CatalogConfig configures the profile catalog
type CatalogConfig struct {
	Paths       []string `mapstructure:"paths"`        // Files or directories of catalog files
	Watch       bool     `mapstructure:"watch"`        // Reload when catalog files change
	Sources     []string `mapstructure:"sources"`      // Remote sources fetched before loading
	CacheDir    string   `mapstructure:"cache_dir"`    // Where sources are fetched to
	RankWorkers int      `mapstructure:"rank_workers"` // Parallel scorers per ranking

	AllowPrivateSources bool `mapstructure:"allow_private_sources"` // Fetch http sources on private networks
}

// Transports
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

const (
	DefaultServerName  = "slapstick-enhancer"
	DefaultHTTPAddr    = "127.0.0.1:7070"
	DefaultRatePerSec  = 20.0
	DefaultRateBurst   = 40
	DefaultRankWorkers = 8
)

// File permissions
const (
	DefaultFilePermissions = 0644
	DefaultDirPermissions  = 0755
)

// ConfigFileName is the name of every config file in the cascade
const ConfigFileName = "am.toml"

// EnvPrefix prefixes environment overrides: SLAPSTICK_SERVER_TRANSPORT
const EnvPrefix = "SLAPSTICK"
