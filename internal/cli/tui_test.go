package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/yamlviz/pkg/graph"
	"github.com/matzehuels/yamlviz/pkg/pipeline"
)

func intPtr(i int) *int { return &i }

func testErrors() []*graph.ErrorRecord {
	return []*graph.ErrorRecord{
		{DocumentIndex: 1, Message: "mapping values are not allowed in this context", Line: intPtr(2), SourceLine: "a: b: c"},
		{DocumentIndex: 3, Message: "document is empty"},
	}
}

func press(m errorModel, key string) (errorModel, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(errorModel), cmd
}

func TestErrorModelNavigation(t *testing.T) {
	m := newErrorModel(testErrors(), nil)

	m, _ = press(m, "up")
	if m.Cursor != 0 {
		t.Errorf("cursor moved above the first error: %d", m.Cursor)
	}
	m, _ = press(m, "j")
	if m.Cursor != 1 {
		t.Errorf("cursor = %d after j, want 1", m.Cursor)
	}
	m, _ = press(m, "down")
	if m.Cursor != 1 {
		t.Errorf("cursor moved past the last error: %d", m.Cursor)
	}
	m, _ = press(m, "k")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d after k, want 0", m.Cursor)
	}
}

func TestErrorModelFix(t *testing.T) {
	m := newErrorModel(testErrors(), nil)
	m, _ = press(m, "j")
	m, cmd := press(m, "f")

	if cmd == nil {
		t.Fatal("f should quit the modal")
	}
	if m.Fix == nil || m.Fix.DocumentIndex != 3 {
		t.Errorf("Fix = %+v, want document 3", m.Fix)
	}
}

func TestErrorModelQuit(t *testing.T) {
	for _, key := range []string{"q", "esc"} {
		m, cmd := press(newErrorModel(testErrors(), nil), key)
		if cmd == nil {
			t.Errorf("%s should quit", key)
		}
		if m.Fix != nil {
			t.Errorf("%s should not request a fix", key)
		}
	}
}

func TestErrorModelView(t *testing.T) {
	m := newErrorModel(testErrors(), pipeline.SplitLines(threeDocs))
	view := m.View()

	for _, want := range []string{"2 invalid documents", "line 3", "a: b: c", "---", "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m, _ = press(m, "j")
	if view := m.View(); !strings.Contains(view, "document is empty") {
		t.Errorf("view of an error without line:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Errorf("truncate long = %q", got)
	}
}
