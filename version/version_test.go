package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
		},
	}

	info := Info{CommitHash: "dev", BuildTime: "unknown", Version: "dev"}
	fillFromBuildInfo(&info, bi)
	assert.Equal(t, "v0.3.1", info.Version)
	assert.Equal(t, "0123456", info.Short())
	assert.Equal(t, "slapstick v0.3.1 (commit 0123456, built 2026-10-01T12:00:00Z)", info.String())

	pinned := Info{CommitHash: "feedbee", BuildTime: "yesterday", Version: "v1.0.0"}
	fillFromBuildInfo(&pinned, bi)
	assert.Equal(t, "v1.0.0", pinned.Version, "ldflags win over build info")
	assert.Equal(t, "feedbee", pinned.CommitHash)

	devel := Info{Version: "dev"}
	fillFromBuildInfo(&devel, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	assert.Equal(t, "dev", devel.Version)
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		version    string
		constraint string
		want       bool
		wantErr    bool
	}{
		{"v0.3.1", ">= 0.3", true, false},
		{"v0.2.9", ">= 0.3", false, false},
		{"dev", ">= 9", true, false},
		{"v0.3.1", "not a constraint", false, true},
		{"nightly", ">= 0.1", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.version+" "+tt.constraint, func(t *testing.T) {
			got, err := Info{Version: tt.version}.Satisfies(tt.constraint)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
