package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/yamlviz/pkg/document"
	"github.com/matzehuels/yamlviz/pkg/graph"
	"github.com/matzehuels/yamlviz/pkg/layout"
	"github.com/matzehuels/yamlviz/pkg/tree"
)

func laidOut(t *testing.T, src string) graph.DocumentGraph {
	t.Helper()
	docs := document.ParseAll(src)
	if len(docs) != 1 || docs[0].Err != nil {
		t.Fatalf("parse %q: %+v", src, docs)
	}
	res, err := layout.Graph(context.Background(), tree.BuildDocument(docs[0].Value, 0))
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	return graph.DocumentGraph{Index: 0, Result: res}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(laidOut(t, "a: 1\nb:\n  c: 2"), Options{})

	for _, want := range []string{
		"digraph G",
		"layout=neato",
		`"root0" [label="YAML"`,
		`"root0" -> "root0-0-a-0";`,
		`"root0-0-a-0" -> "root0-0-a-0-1-value";`,
		`bb="0,0,370,310"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
}

func TestToDOT_PinnedPositions(t *testing.T) {
	dot := ToDOT(laidOut(t, "a: 1\nb:\n  c: 2"), Options{})

	// root center (185, 20) flipped against height 310
	if !strings.Contains(dot, `pos="185,290!"`) {
		t.Errorf("root should be pinned at 185,290:\n%s", dot)
	}
	if !strings.Contains(dot, "width=2.2222222222222223") {
		t.Error("box width should be 160pt in inches")
	}
}

func TestToDOT_Styles(t *testing.T) {
	dot := ToDOT(laidOut(t, "a: 1\nb: {}"), Options{})

	lines := map[string]string{}
	for _, l := range strings.Split(dot, "\n") {
		if i := strings.Index(l, " ["); i > 0 {
			lines[strings.TrimSpace(l[:i])] = l
		}
	}
	checks := map[string]string{
		`"root0"`:               RootFill,
		`"root0-0-a-0"`:         KeyFill,
		`"root0-0-a-0-1-value"`: ValueFill,
		`"root0-0-b-1"`:         KeyFill,
	}
	for id, fill := range checks {
		if !strings.Contains(lines[id], `fillcolor="`+fill+`"`) {
			t.Errorf("%s should be filled %s: %s", id, fill, lines[id])
		}
	}
}

func TestToDOT_Labels(t *testing.T) {
	d := laidOut(t, `say: "she said \"hi\"\\n"`)
	dot := ToDOT(d, Options{MaxLabel: -1})
	if !strings.Contains(dot, `label="she said \"hi\"\\n"`) {
		t.Errorf("label not escaped:\n%s", dot)
	}

	d = laidOut(t, "k: "+strings.Repeat("x", 40))
	dot = ToDOT(d, Options{})
	if !strings.Contains(dot, strings.Repeat("x", DefaultMaxLabel-1)+"…") {
		t.Error("long labels should be shortened")
	}

	dot = ToDOT(d, Options{Detailed: true})
	if !strings.Contains(dot, `label="YAML\nroot0"`) {
		t.Error("detailed labels should include the node id")
	}
}

func TestShorten(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"longer than ten", 10, "longer th…"},
		{"ünïcödé-ünïcödé", 5, "ünïc…"},
		{"anything", -1, "anything"},
		{"ab", 1, "a…"},
	}
	for _, tt := range tests {
		if got := shorten(tt.in, tt.limit); got != tt.want {
			t.Errorf("shorten(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg></svg>")); string(got) != "<svg></svg>" {
		t.Error("svg without viewBox should be unchanged")
	}
}
