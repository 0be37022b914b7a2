package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/yamlviz/pkg/graph"
)

// contextLines is how many source lines are shown on each side of an error.
const contextLines = 2

// Modal styles
var (
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorRed).
			Padding(0, 1)
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// errorModel - Interactive error browser
// =============================================================================

// errorModel is the bubbletea model of the error modal. It lists the failed
// documents and shows the source around the selected error. Pressing f
// selects the error for fixing and closes the modal.
type errorModel struct {
	Errors []*graph.ErrorRecord
	Lines  []string
	Cursor int

	// Fix is set when the user asked for a fix of the selected error.
	Fix *graph.ErrorRecord
}

func newErrorModel(errs []*graph.ErrorRecord, lines []string) errorModel {
	return errorModel{Errors: errs, Lines: lines}
}

func (m errorModel) Init() tea.Cmd {
	return nil
}

func (m errorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Errors)-1 {
			m.Cursor++
		}
	case "f":
		if len(m.Errors) > 0 {
			m.Fix = m.Errors[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m errorModel) View() string {
	var b strings.Builder

	title := "1 invalid document"
	if len(m.Errors) != 1 {
		title = fmt.Sprintf("%d invalid documents", len(m.Errors))
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  f fix  q quit"))
	b.WriteString("\n\n")

	if len(m.Errors) == 0 {
		return b.String()
	}

	rows := make([][]string, 0, len(m.Errors))
	for i, rec := range m.Errors {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		loc := rec.Location()
		if loc == "" {
			loc = "—"
		}
		rows = append(rows, []string{cursor, fmt.Sprintf("%d", rec.DocumentIndex), loc, truncate(rec.Message, 60)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Doc", "Location", "Message").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == m.Cursor:
				return listSelectedStyle
			}
			return listNormalStyle
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	if snippet := m.snippet(m.Errors[m.Cursor]); snippet != "" {
		b.WriteString(modalStyle.Render(snippet))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Errors))))
	return b.String()
}

// snippet renders the source lines around rec, highlighting the offending one.
func (m errorModel) snippet(rec *graph.ErrorRecord) string {
	if rec.Line == nil || *rec.Line < 0 || *rec.Line >= len(m.Lines) {
		return StyleError.Render(rec.Message)
	}
	line := *rec.Line
	from, to := max(0, line-contextLines), min(len(m.Lines)-1, line+contextLines)

	var b strings.Builder
	b.WriteString(StyleError.Render(rec.Message))
	b.WriteString("\n\n")
	for i := from; i <= to; i++ {
		gutter := styleGutter.Render(fmt.Sprintf("%4d │ ", i+1))
		if i == line {
			b.WriteString(gutter + StyleError.Render(m.Lines[i]))
		} else {
			b.WriteString(gutter + listDimStyle.Render(m.Lines[i]))
		}
		if i < to {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
