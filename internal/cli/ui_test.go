package cli

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/matzehuels/yamlviz/pkg/graph"
)

func TestPrintDocumentError(t *testing.T) {
	var buf bytes.Buffer
	prev := out
	out = &buf
	defer func() { out = prev }()

	printDocumentError(&graph.ErrorRecord{
		DocumentIndex: 1,
		Message:       "mapping values are not allowed in this context",
		Line:          intPtr(2),
		Column:        intPtr(3),
		SourceLine:    "a: b: c",
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "document 1 (line 3): invalid YAML: mapping values") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "a: b: c") {
		t.Errorf("source line = %q", lines[1])
	}
	source := utf8.RuneCountInString(lines[1][:strings.Index(lines[1], "b: c")])
	caret := utf8.RuneCountInString(lines[2][:strings.Index(lines[2], "^")])
	if caret != source {
		t.Errorf("caret not under column 3:\n%s\n%s", lines[1], lines[2])
	}
}

func TestPrintDocumentErrorWithoutLine(t *testing.T) {
	var buf bytes.Buffer
	prev := out
	out = &buf
	defer func() { out = prev }()

	printDocumentError(&graph.ErrorRecord{DocumentIndex: 0, Message: "document is empty"})
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("got %d lines, want 1:\n%s", got, buf.String())
	}
}
