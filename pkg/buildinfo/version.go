// Package buildinfo provides build-time version information.
//
// Release builds set the variables through ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/yamlviz/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/yamlviz/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/yamlviz/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries built with plain `go install` fall back to the module version and
// VCS stamp recorded by the Go toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

const unset = "dev"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = unset

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

func init() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	fromModule(bi)
}

// fromModule fills the variables that ldflags left at their defaults.
func fromModule(bi *debug.BuildInfo) {
	if Version == unset && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == "none":
			Commit = s.Value
		case s.Key == "vcs.time" && Date == "unknown":
			Date = s.Value
		}
	}
}

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}
