package catalog

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarsters/slapstick-enhancer/errors"
)

func TestFetchLocalPath(t *testing.T) {
	dir := copyTestdata(t, "art.yaml")

	got, err := Fetch(context.Background(), dir, "", nil)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	_, err = Fetch(context.Background(), filepath.Join(dir, "missing"), "", nil)
	assert.Error(t, err)
}

func TestFetchRemoteNeedsCacheDir(t *testing.T) {
	_, err := Fetch(context.Background(), "https://example.com/catalog.tar.gz", "", nil)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestFetchBlocksPrivateHTTP(t *testing.T) {
	cache := t.TempDir()

	_, err := Fetch(context.Background(), "http://127.0.0.1:1/catalog.tar.gz", cache, nil)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "private address 127.0.0.1")

	_, err = Fetch(context.Background(), "http://localhost:1/catalog.tar.gz", "", nil, WithPrivateNetworks(true))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog.cache_dir is required")
}

func TestSourceDir(t *testing.T) {
	tests := []struct {
		src    string
		prefix string
	}{
		{"github.com/dmarsters/catalogs", "catalogs-"},
		{"git::https://github.com/dmarsters/catalogs.git?ref=v1", "catalogs-"},
		{"https://example.com/art%20packs/set.tar.gz", "set.tar.gz-"},
		{"s3::https://s3.amazonaws.com/bucket/lens/", "lens-"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := SourceDir(tt.src)
			assert.True(t, strings.HasPrefix(got, tt.prefix), got)
			assert.Equal(t, got, SourceDir(tt.src), "stable")
			assert.NotContains(t, got, "/")
		})
	}
	assert.NotEqual(t, SourceDir("github.com/a/catalogs"), SourceDir("github.com/b/catalogs"))
}
