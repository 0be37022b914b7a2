package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func restore(t *testing.T) {
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestFromModule(t *testing.T) {
	restore(t)
	Version, Commit, Date = unset, "none", "unknown"

	fromModule(&debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
		},
	})
	assert.Equal(t, "v0.3.1", Version)
	assert.Equal(t, "abc123", Commit)
	assert.Equal(t, "2026-10-01T12:00:00Z", Date)
}

func TestFromModuleKeepsLdflags(t *testing.T) {
	restore(t)
	Version, Commit, Date = "v1.0.0", "deadbeef", "2026-01-01"

	fromModule(&debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	})
	assert.Equal(t, "v1.0.0", Version)
	assert.Equal(t, "deadbeef", Commit)
}

func TestFromModuleDevelBuild(t *testing.T) {
	restore(t)
	Version = unset

	fromModule(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	assert.Equal(t, unset, Version)
}

func TestTemplate(t *testing.T) {
	restore(t)
	Version, Commit, Date = "v1.0.0", "abc", "today"
	assert.True(t, strings.HasPrefix(Template(), "{{.Name}} v1.0.0"))
	assert.Contains(t, String(), "commit: abc")
}
