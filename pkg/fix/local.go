package fix

import (
	"context"
	"strings"

	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/locate"
)

// Local fixes the mistakes that have a mechanical correction:
//
//   - tabs in indentation: every leading tab becomes two spaces
//   - duplicated mapping keys: the line the message points at is removed
//
// Anything else yields FIX_UNAVAILABLE.
type Local struct{}

// Fix implements Fixer.
func (Local) Fix(ctx context.Context, req Request) (Result, error) {
	return observe(ctx, SourceLocal, func() (Result, error) {
		text, ok := localFix(req.DocumentText, req.ErrorMessage)
		if !ok {
			return Result{}, errors.New(errors.ErrCodeFixUnavailable, "no local fix for: %s", req.ErrorMessage)
		}
		return Result{Text: text, Source: SourceLocal, Parses: parses(text)}, nil
	})
}

func localFix(text, msg string) (string, bool) {
	switch {
	case strings.Contains(msg, "found character that cannot start any token"),
		strings.Contains(msg, "found a tab character"):
		return detab(text)
	case strings.Contains(msg, "duplicated mapping key"), strings.Contains(msg, "already defined"):
		return deleteLine(text, msg)
	}
	return "", false
}

// detab replaces the tabs of each line's indentation with two spaces. It
// reports false when no line is indented with tabs.
func detab(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	changed := false
	for i, line := range lines {
		rest := strings.TrimLeft(line, " \t")
		indent := line[:len(line)-len(rest)]
		if !strings.Contains(indent, "\t") {
			continue
		}
		lines[i] = strings.ReplaceAll(indent, "\t", "  ") + rest
		changed = true
	}
	if !changed {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

// deleteLine removes the line named by msg. The "(N:M)" position is
// preferred over other phrasings because the quoted key is part of msg.
func deleteLine(text, msg string) (string, bool) {
	line, ok := locate.Chain(locate.Position, locate.Default).Locate(msg)
	if !ok {
		return "", false
	}
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return "", false
	}
	lines = append(lines[:line], lines[line+1:]...)
	return strings.Join(lines, "\n"), true
}
