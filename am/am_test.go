package am

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarsters/slapstick-enhancer/errors"
)

type fixture struct {
	root    string
	system  string
	user    string
	project string
}

// setup isolates the cascade: system file under a temp root, HOME pointed
// at a temp dir and the working directory inside a temp project.
func setup(t *testing.T) fixture {
	t.Helper()
	Reset()
	t.Cleanup(Reset)

	root := t.TempDir()
	f := fixture{
		root:    root,
		system:  filepath.Join(root, "etc", ConfigFileName),
		user:    filepath.Join(root, "home", ".slapstick", ConfigFileName),
		project: filepath.Join(root, "project", ConfigFileName),
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "project"), DefaultDirPermissions))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "home"), DefaultDirPermissions))

	t.Setenv("HOME", filepath.Join(root, "home"))
	prev := SystemConfigPath
	SystemConfigPath = f.system
	t.Cleanup(func() { SystemConfigPath = prev })
	t.Chdir(filepath.Join(root, "project"))
	return f
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), DefaultDirPermissions))
	require.NoError(t, os.WriteFile(path, []byte(content), DefaultFilePermissions))
}

func TestLoadDefaults(t *testing.T) {
	setup(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultServerName, cfg.Server.Name)
	assert.Equal(t, TransportStdio, cfg.Server.Transport)
	assert.Equal(t, DefaultHTTPAddr, cfg.Server.HTTPAddr)
	assert.Equal(t, DefaultRatePerSec, cfg.Server.RateLimitPerSecond)
	assert.True(t, cfg.Server.Metrics)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 7, cfg.Scoring.CoherenceThreshold)
	assert.Empty(t, cfg.Catalog.Paths)
	assert.Equal(t, DefaultRankWorkers, cfg.Catalog.RankWorkers)
	assert.False(t, cfg.Catalog.AllowPrivateSources)
	assert.NoError(t, cfg.Validate())
	assert.Empty(t, ConfigSources)

	again, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, again, "Load caches until Reset")
}

func TestLoadCascade(t *testing.T) {
	f := setup(t)
	write(t, f.system, "[server]\nname = \"system\"\nrate_burst = 10\n")
	write(t, f.user, "[server]\nname = \"user\"\n\n[catalog]\npaths = [\"/srv/catalogs\"]\n")
	write(t, f.project, "[server]\ntransport = \"http\"\n")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "user", cfg.Server.Name)
	assert.Equal(t, 10, cfg.Server.RateBurst)
	assert.Equal(t, TransportHTTP, cfg.Server.Transport)
	assert.Equal(t, []string{"/srv/catalogs"}, cfg.Catalog.Paths)

	assert.Equal(t, SourceUser, ConfigSources["server.name"].Source)
	assert.Equal(t, f.user, ConfigSources["server.name"].Path)
	assert.Equal(t, SourceSystem, ConfigSources["server.rate_burst"].Source)
	assert.Equal(t, SourceProject, ConfigSources["server.transport"].Source)
	_, tracked := ConfigSources["server.http_addr"]
	assert.False(t, tracked, "defaults are not file sources")
}

func TestEnvironmentBeatsFiles(t *testing.T) {
	f := setup(t)
	write(t, f.project, "[server]\nname = \"project\"\n")
	t.Setenv("SLAPSTICK_SERVER_NAME", "env")
	t.Setenv("SLAPSTICK_CATALOG_PATHS", "a.toml,b.yaml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env", cfg.Server.Name)
	assert.Equal(t, []string{"a.toml", "b.yaml"}, cfg.Catalog.Paths)

	intro, err := GetConfigIntrospection()
	require.NoError(t, err)
	var found bool
	for _, s := range intro.Settings {
		if s.Key == "server.name" {
			found = true
			assert.Equal(t, SourceEnvironment, s.Source)
			assert.Equal(t, "SLAPSTICK_SERVER_NAME", s.SourcePath)
		}
	}
	assert.True(t, found)
}

func TestProjectConfigUpwardSearch(t *testing.T) {
	f := setup(t)
	write(t, f.project, "[log]\nlevel = \"debug\"\n")
	deep := filepath.Join(filepath.Dir(f.project), "a", "b")
	require.NoError(t, os.MkdirAll(deep, DefaultDirPermissions))
	t.Chdir(deep)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)

	files := Where()
	require.Len(t, files, 3)
	assert.Equal(t, SourceSystem, files[0].Source)
	assert.False(t, files[0].Exists)
	assert.Equal(t, SourceUser, files[1].Source)
	assert.False(t, files[1].Exists)
	assert.Equal(t, SourceProject, files[2].Source)
	assert.True(t, files[2].Exists)
}

func TestLoadMalformedFile(t *testing.T) {
	f := setup(t)
	write(t, f.project, "[server\nname = ")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.Contains(t, err.Error(), f.project)
}

func TestLoadFromFile(t *testing.T) {
	f := setup(t)
	path := filepath.Join(f.root, "custom.toml")
	write(t, path, "[scoring]\ncoherence_threshold = 6\n")
	t.Setenv("SLAPSTICK_SCORING_COHERENCE_THRESHOLD", "9")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Scoring.CoherenceThreshold, "LoadFromFile ignores the environment")
	assert.Equal(t, DefaultServerName, cfg.Server.Name)
}

func TestGet(t *testing.T) {
	f := setup(t)
	write(t, f.project, "[catalog]\nwatch = true\n")

	val, err := Get("catalog.watch")
	require.NoError(t, err)
	assert.Equal(t, true, val)

	_, err = Get("catalog.nope")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
	assert.Contains(t, strings.Join(errors.GetAllHints(err), "\n"), "catalog.paths")
}

func TestSet(t *testing.T) {
	f := setup(t)

	path, err := Set("server.rate_burst", "12")
	require.NoError(t, err)
	assert.Equal(t, f.user, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Server.RateBurst)

	_, err = Set("catalog.paths", "one.toml, two.yaml,")
	require.NoError(t, err)
	_, err = Set("server.metrics", "false")
	require.NoError(t, err)
	_, err = Set("server.name", "kept")
	require.NoError(t, err)

	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Server.RateBurst, "earlier keys survive later writes")
	assert.Equal(t, []string{"one.toml", "two.yaml"}, cfg.Catalog.Paths)
	assert.False(t, cfg.Server.Metrics)
	assert.Equal(t, "kept", cfg.Server.Name)

	for i := 1; i <= backupCount; i++ {
		assert.FileExists(t, f.user+".back"+string(rune('0'+i)))
	}
	assert.NoFileExists(t, f.user+".back4")
}

func TestSetRejects(t *testing.T) {
	setup(t)

	tests := []struct {
		key, value string
		check      func(error) bool
	}{
		{"server.port", "80", errors.IsNotFoundError},
		{"server.metrics", "maybe", errors.IsValidationError},
		{"server.rate_burst", "1.5", errors.IsValidationError},
		{"server.rate_limit_per_second", "fast", errors.IsValidationError},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, err := Set(tt.key, tt.value)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
		})
	}
}
