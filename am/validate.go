package am

import (
	"net"

	"go.uber.org/zap/zapcore"

	"github.com/dmarsters/slapstick-enhancer/errors"
)

// Validate checks that the configuration is usable. Errors are marked as
// configuration errors.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return errors.Mark(err, errors.ErrConfiguration)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Server.Name == "" {
		return errors.New("server.name cannot be empty")
	}

	switch c.Server.Transport {
	case TransportStdio:
	case TransportHTTP:
		if _, _, err := net.SplitHostPort(c.Server.HTTPAddr); err != nil {
			return errors.Wrapf(err, "server.http_addr %q is not host:port", c.Server.HTTPAddr)
		}
	default:
		return errors.WithHint(
			errors.Newf("server.transport must be %s or %s, got %q", TransportStdio, TransportHTTP, c.Server.Transport),
			"stdio serves one client on stdin/stdout; http serves /mcp")
	}

	// 0 disables rate limiting
	if c.Server.RateLimitPerSecond < 0 {
		return errors.Newf("server.rate_limit_per_second must be >= 0, got %g", c.Server.RateLimitPerSecond)
	}
	if c.Server.RateLimitPerSecond > 0 && c.Server.RateBurst < 1 {
		return errors.Newf("server.rate_burst must be >= 1 when rate limiting, got %d", c.Server.RateBurst)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Newf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Theme {
	case "", "everforest", "gruvbox":
	default:
		return errors.Newf("log.theme must be everforest or gruvbox, got %q", c.Log.Theme)
	}

	if t := c.Scoring.CoherenceThreshold; t < 1 || t > 10 {
		return errors.Newf("scoring.coherence_threshold must be in [1,10], got %d", t)
	}

	if c.Catalog.RankWorkers < 1 {
		return errors.Newf("catalog.rank_workers must be >= 1, got %d", c.Catalog.RankWorkers)
	}
	if len(c.Catalog.Sources) > 0 && c.CatalogCacheDir() == "" {
		return errors.New("catalog.cache_dir is required for catalog.sources when there is no home directory")
	}
	if c.Catalog.Watch && len(c.Catalog.Paths) == 0 && len(c.Catalog.Sources) == 0 {
		return errors.New("catalog.watch needs catalog.paths or catalog.sources")
	}

	return nil
}
