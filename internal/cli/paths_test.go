package cli

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/yamlviz/pkg/errors"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,pdf,dot", []string{"svg", "pdf", "dot"}},
		{"normalized", " SVG , Json ,", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "config.yaml", "config"},
		{"", "dir/app.yml", "dir/app"},
		{"", "-", "document"},
		{"out.svg", "config.yaml", "out"},
		{"out.dot", "config.yaml", "out"},
		{"out.v2", "config.yaml", "out.v2"},
		{"build/out", "config.yaml", "build/out"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestArtifactPath(t *testing.T) {
	if got := artifactPath("config", 0, 1, "svg"); got != "config.svg" {
		t.Errorf("single document: got %q", got)
	}
	if got := artifactPath("config", 2, 3, "png"); got != "config-2.png" {
		t.Errorf("multiple documents: got %q", got)
	}
}

func TestReadInputStdin(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.stdin = strings.NewReader("a: 1\n")

	got, err := c.readInput(stdinName)
	if err != nil {
		t.Fatalf("readInput: %v", err)
	}
	if got != "a: 1\n" {
		t.Errorf("readInput = %q", got)
	}

	_, err = c.readInput(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("missing file: got %v, want INVALID_PATH", err)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.cfg.Cache.Dir = "/srv/yamlviz-cache"
	c.loaded = true

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if dir != "/srv/yamlviz-cache" {
		t.Errorf("cacheDir = %q", dir)
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	c := New(io.Discard, log.InfoLevel)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}
