package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/yamlviz/pkg/buildinfo"
	"github.com/matzehuels/yamlviz/pkg/cache"
	"github.com/matzehuels/yamlviz/pkg/config"
	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/graph"
)

const threeDocs = "a: 1\n---\na: b: c\n---\nc: 3\n"

// captureOutput isolates config and cache directories and redirects the
// human-readable output into a buffer.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(config.EnvCacheBackend, cache.BackendFile)
	t.Setenv(config.EnvFixAPIKey, "")
	t.Setenv(config.EnvAnthropicAPIKey, "")

	var buf bytes.Buffer
	prev := out
	out = &buf
	t.Cleanup(func() { out = prev })
	return &buf
}

func writeInput(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(args ...string) error {
	return run(context.Background(), args, io.Discard)
}

func TestVersion(t *testing.T) {
	buf := captureOutput(t)
	if err := execute("--version"); err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(buf.String(), buildinfo.Version) {
		t.Errorf("version output %q does not contain %q", buf.String(), buildinfo.Version)
	}
}

func TestExplicitConfigMustExist(t *testing.T) {
	captureOutput(t)
	err := execute("--config", filepath.Join(t.TempDir(), "missing.toml"), "cache", "path")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("got %v, want INVALID_CONFIG", err)
	}
}

func TestVisualizeWritesArtifacts(t *testing.T) {
	buf := captureOutput(t)
	input := writeInput(t, "config.yaml", "a: 1\nb:\n  c: 2\n")

	if err := execute("visualize", "-f", "dot,json", input); err != nil {
		t.Fatalf("visualize: %v", err)
	}

	base := strings.TrimSuffix(input, ".yaml")
	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !bytes.HasPrefix(dot, []byte("digraph")) {
		t.Errorf("dot output starts with %q", dot[:min(len(dot), 20)])
	}
	if _, err := os.Stat(base + ".json"); err != nil {
		t.Errorf("json artifact missing: %v", err)
	}
	if !strings.Contains(buf.String(), "6 nodes") {
		t.Errorf("stats missing from output:\n%s", buf.String())
	}
}

func TestVisualizeMultipleDocuments(t *testing.T) {
	buf := captureOutput(t)
	input := writeInput(t, "multi.yaml", threeDocs)
	base := filepath.Join(t.TempDir(), "out")

	if err := execute("visualize", "-f", "json", "-o", base+".json", input); err != nil {
		t.Fatalf("visualize: %v", err)
	}
	for _, name := range []string{"out-0.json", "out-2.json"} {
		if _, err := os.Stat(filepath.Join(filepath.Dir(base), name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
	if _, err := os.Stat(base + "-1.json"); !os.IsNotExist(err) {
		t.Errorf("failed document was exported: %v", err)
	}

	got := buf.String()
	for _, want := range []string{"document 1 (line 3)", invalidPrefix, "a: b: c"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestVisualizeStrict(t *testing.T) {
	captureOutput(t)
	input := writeInput(t, "multi.yaml", threeDocs)
	t.Chdir(t.TempDir())

	err := execute("visualize", "--strict", "-f", "json", input, "-o", "out")
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("got %v, want PARSE_ERROR", err)
	}
}

func TestVisualizeJSON(t *testing.T) {
	buf := captureOutput(t)
	input := writeInput(t, "multi.yaml", threeDocs)

	if err := execute("visualize", "--json", "--direction", "lr", input); err != nil {
		t.Fatalf("visualize --json: %v", err)
	}
	v, err := graph.UnmarshalVisualization(buf.Bytes())
	if err != nil {
		t.Fatalf("output is not a visualization: %v\n%s", err, buf.String())
	}
	if v.Len() != 3 || len(v.Failed()) != 1 {
		t.Errorf("got %d documents, %d failed", v.Len(), len(v.Failed()))
	}
	if v.Direction != "LR" {
		t.Errorf("direction = %q, want LR", v.Direction)
	}
}

func TestVisualizeRejectsBadFlags(t *testing.T) {
	captureOutput(t)
	input := writeInput(t, "a.yaml", "a: 1\n")

	if err := execute("visualize", "-f", "gif", input); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("format: got %v, want INVALID_FORMAT", err)
	}
	if err := execute("visualize", "--direction", "diagonal", input); !errors.Is(err, errors.ErrCodeInvalidDirection) {
		t.Errorf("direction: got %v, want INVALID_DIRECTION", err)
	}
	if err := execute("visualize", filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("missing input: got %v, want INVALID_PATH", err)
	}
}

func TestRenderToStdout(t *testing.T) {
	buf := captureOutput(t)
	input := writeInput(t, "multi.yaml", threeDocs)

	if err := execute("render", "-d", "2", "-f", "dot", "-o", "-", input); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "digraph") {
		t.Errorf("stdout starts with %q", buf.String()[:min(buf.Len(), 20)])
	}
}

func TestRenderFailedDocument(t *testing.T) {
	captureOutput(t)
	input := writeInput(t, "multi.yaml", threeDocs)

	err := execute("render", "-d", "1", "-f", "dot", "-o", "-", input)
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("got %v, want PARSE_ERROR", err)
	}
}

func TestCheck(t *testing.T) {
	buf := captureOutput(t)

	if err := execute("check", writeInput(t, "ok.yaml", "a: 1\n---\nb: 2\n")); err != nil {
		t.Fatalf("check valid: %v", err)
	}
	if !strings.Contains(buf.String(), "2 valid document(s)") {
		t.Errorf("output: %s", buf.String())
	}

	buf.Reset()
	err := execute("check", writeInput(t, "bad.yaml", threeDocs))
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("got %v, want PARSE_ERROR", err)
	}
	if !strings.Contains(buf.String(), invalidPrefix) {
		t.Errorf("output missing %q: %s", invalidPrefix, buf.String())
	}
}

func TestFixLocal(t *testing.T) {
	buf := captureOutput(t)
	input := writeInput(t, "dup.yaml", "a: 1\na: 2\n")

	if err := execute("fix", "--local", input); err != nil {
		t.Fatalf("fix: %v", err)
	}
	if !strings.Contains(buf.String(), "Suggested local fix") {
		t.Errorf("output: %s", buf.String())
	}

	if err := execute("fix", "--local", "--write", input); err != nil {
		t.Fatalf("fix --write: %v", err)
	}
	data, err := os.ReadFile(input)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a: 1\n" {
		t.Errorf("written fix = %q, want %q", data, "a: 1\n")
	}

	buf.Reset()
	if err := execute("fix", "--local", input); err != nil {
		t.Fatalf("fix valid file: %v", err)
	}
	if !strings.Contains(buf.String(), "nothing to fix") {
		t.Errorf("output: %s", buf.String())
	}
}

func TestFixWriteNeedsFile(t *testing.T) {
	captureOutput(t)
	if err := execute("fix", "--write", "-"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("got %v, want INVALID_INPUT", err)
	}
}

func TestCacheCommands(t *testing.T) {
	buf := captureOutput(t)

	if err := execute("cache", "path"); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	dir := strings.TrimSpace(buf.String())
	if filepath.Base(dir) != appName {
		t.Errorf("cache dir = %q, want a %s directory", dir, appName)
	}

	input := writeInput(t, "a.yaml", "a: 1\n")
	if err := execute("visualize", "-f", "json", input); err != nil {
		t.Fatalf("visualize: %v", err)
	}

	buf.Reset()
	if err := execute("cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(buf.String(), "Cleared") {
		t.Errorf("output: %s", buf.String())
	}

	buf.Reset()
	if err := execute("cache", "clear"); err != nil {
		t.Fatalf("second cache clear: %v", err)
	}
	if !strings.Contains(buf.String(), "Cache is empty") {
		t.Errorf("output: %s", buf.String())
	}
}

func TestCompletion(t *testing.T) {
	buf := captureOutput(t)
	if err := execute("completion", "bash"); err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(buf.String(), appName) {
		t.Error("bash completion does not mention the command")
	}
}
