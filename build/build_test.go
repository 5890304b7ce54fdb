package build

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	info, ok := Parse(`{
		"version": "v1.4.0",
		"git_commit": "0123456789abcdef",
		"go_version": "go1.25.0",
		"dependencies": {"golang.org/x/text": "v0.32.0"}
	}`)
	require.True(t, ok)
	assert.Equal(t, "v1.4.0", info.Version)
	assert.Equal(t, "0123456789abcdef", info.GitCommit)
	assert.Equal(t, "v0.32.0", info.Dependencies["golang.org/x/text"])

	for _, input := range []string{"", "{}", "{not json"} {
		info, ok := Parse(input)
		assert.False(t, ok, input)
		assert.Nil(t, info, input)
	}
}

func TestCurrent_PrefersInjected(t *testing.T) {
	t.Parallel()

	info := Current(`{"version": "v9.9.9"}`)
	assert.Equal(t, "v9.9.9", info.Version)

	// Test binaries always carry toolchain build info.
	fallback := Current("")
	assert.NotEmpty(t, fallback.GoVersion)
}

func TestFromBuildInfo(t *testing.T) {
	t.Parallel()

	info := fromBuildInfo(&debug.BuildInfo{
		GoVersion: "go1.25.0",
		Main:      debug.Module{Path: "github.com/amp-labs/propsort", Version: "v0.3.1"},
		Deps: []*debug.Module{
			{Path: "gopkg.in/yaml.v3", Version: "v3.0.1"},
			{Path: "facette.io/natsort", Version: "v0.0.0-20181210072756-2cd4dd1e2dcb"},
		},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "fedcba9876543210"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	})

	assert.Equal(t, "v0.3.1", info.Version)
	assert.Equal(t, "fedcba9876543210", info.GitCommit)
	assert.Equal(t, "2026-01-02T03:04:05Z", info.GitDate)
	assert.Equal(t, "v0.3.1 (fedcba9, go1.25.0)", info.String())
	assert.Equal(t, []string{
		"facette.io/natsort v0.0.0-20181210072756-2cd4dd1e2dcb",
		"gopkg.in/yaml.v3 v3.0.1",
	}, info.DependencyList())
}

func TestInfoString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "(devel)", Info{}.String())
	assert.Equal(t, "v1.0.0", Info{Version: "v1.0.0"}.String())
	assert.Equal(t, "(devel) (abc)", Info{GitCommit: "abc"}.String())
}
