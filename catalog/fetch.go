package catalog

import (
	"context"
	"crypto/sha256"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-getter"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"github.com/dmarsters/slapstick-enhancer/errors"
	"github.com/dmarsters/slapstick-enhancer/internal/httpclient"
)

// FetchTimeout bounds a single http download.
const FetchTimeout = 2 * time.Minute

// FetchOption configures Fetch.
type FetchOption func(*httpclient.Options)

// WithPrivateNetworks lets http sources point at loopback and private
// addresses.
func WithPrivateNetworks(allow bool) FetchOption {
	return func(o *httpclient.Options) { o.AllowPrivate = allow }
}

// Fetch materialises a catalog source under cacheDir and returns the local
// directory to load. Sources use go-getter syntax: local paths, git URLs,
// github.com/user/repo shorthand, http archives, s3 buckets and so on.
// Local paths are returned as is without copying.
func Fetch(ctx context.Context, src, cacheDir string, log *zap.SugaredLogger, opts ...FetchOption) (string, error) {
	var guard httpclient.Options
	for _, opt := range opts {
		opt(&guard)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	detected, err := getter.Detect(src, pwd, getter.Detectors)
	if err != nil {
		return "", errors.Wrapf(err, "detect catalog source %q", src)
	}
	log.Debugw("go-getter detected catalog source", "source", src, "detected", detected)

	u, err := url.Parse(detected)
	if err != nil {
		return "", errors.Wrapf(err, "parse detected source %q", detected)
	}
	if u.Scheme == "" || u.Scheme == "file" {
		local := src
		if u.Scheme == "file" {
			local = u.Path
		}
		if !filepath.IsAbs(local) {
			local = filepath.Join(pwd, local)
		}
		if _, err := os.Stat(local); err != nil {
			return "", errors.Wrapf(err, "catalog source %s", local)
		}
		return local, nil
	}

	if u.Scheme == "http" || u.Scheme == "https" {
		if err := httpclient.CheckURL(u, guard); err != nil {
			return "", errors.Wrapf(err, "catalog source %s", src)
		}
	}

	if cacheDir == "" {
		return "", errors.Mark(errors.New("catalog.cache_dir is required for remote sources"), errors.ErrValidation)
	}
	dst := filepath.Join(cacheDir, SourceDir(src))
	if err := os.RemoveAll(dst); err != nil {
		return "", errors.Wrapf(err, "clear %s", dst)
	}

	client := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     dst,
		Mode:    getter.ClientModeDir,
		Getters: getters(guard),
	}
	log.Infow("Fetching catalog", "source", src, "destination", dst)
	if err := client.Get(); err != nil {
		os.RemoveAll(dst)
		return "", errors.Wrapf(err, "fetch catalog %s", src)
	}
	log.Infow("Catalog fetched", "destination", dst)
	return dst, nil
}

// getters is the default go-getter set with http downloads routed through
// the guarded client.
func getters(guard httpclient.Options) map[string]getter.Getter {
	out := make(map[string]getter.Getter, len(getter.Getters))
	for k, g := range getter.Getters {
		out[k] = g
	}
	httpGetter := &getter.HttpGetter{
		Client: httpclient.New(FetchTimeout, guard),
		Netrc:  true,
	}
	out["http"] = httpGetter
	out["https"] = httpGetter
	return out
}

// SourceDir names the cache directory of a source: a readable stem plus a
// short digest of the full source string.
func SourceDir(src string) string {
	stem := src
	if i := strings.IndexAny(stem, "?#"); i >= 0 {
		stem = stem[:i]
	}
	stem = strings.TrimSuffix(strings.TrimRight(stem, "/"), ".git")
	stem = filepath.Base(stem)
	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, stem)

	sum := sha256.Sum256([]byte(src))
	return stem + "-" + base58.Encode(sum[:8])
}
