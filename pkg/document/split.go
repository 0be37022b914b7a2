package document

import "strings"

// chunk is the raw text of one document and the 0-based line it starts on.
type chunk struct {
	text  string
	start int
}

// splitDocuments cuts text at YAML document boundaries. A "---" marker at
// column 0 starts a new document and a "..." marker ends the current one.
// Leading comments, blank lines and % directives are attached to the
// document that follows them; a trailing run of such lines with no marker
// is dropped, so comment-only input yields no chunks.
func splitDocuments(text string) []chunk {
	var (
		chunks     []chunk
		buf        strings.Builder
		start      int
		hasMarker  bool
		hasContent bool
	)

	flush := func(next int) {
		if hasMarker || hasContent {
			chunks = append(chunks, chunk{text: buf.String(), start: start})
		}
		buf.Reset()
		start = next
		hasMarker, hasContent = false, false
	}

	lines := strings.SplitAfter(text, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		bare := strings.TrimRight(line, "\r\n")

		if rest, ok := cutMarker(bare, "---"); ok {
			if hasMarker || hasContent {
				flush(i)
			} else if buf.Len() == 0 {
				start = i
			}
			buf.WriteString(line)
			hasMarker = true
			if isContent(rest) {
				hasContent = true
			}
			continue
		}

		if _, ok := cutMarker(bare, "..."); ok {
			buf.WriteString(line)
			flush(i + 1)
			continue
		}

		if buf.Len() == 0 {
			start = i
		}
		buf.WriteString(line)
		if !hasMarker && strings.HasPrefix(bare, "%") {
			continue
		}
		if isContent(bare) {
			hasContent = true
		}
	}
	flush(len(lines))
	return chunks
}

// cutMarker reports whether line is the given document marker, returning
// whatever follows it on the same line.
func cutMarker(line, marker string) (string, bool) {
	if !strings.HasPrefix(line, marker) {
		return "", false
	}
	rest := line[len(marker):]
	if rest == "" {
		return "", true
	}
	if rest[0] == ' ' || rest[0] == '\t' {
		return rest, true
	}
	return "", false
}

func isContent(line string) bool {
	t := strings.TrimSpace(line)
	return t != "" && !strings.HasPrefix(t, "#")
}
