// Package locate extracts source positions from parser error messages.
//
// Parsers report positions in prose, and each parser phrases it differently.
// A [Locator] turns such a message into a 0-based line index so the caller
// can highlight the offending line. Locating is best effort: when no pattern
// matches, callers still show the raw message without a highlight.
//
// [Default] recognises, in order:
//
//  1. "at line N"        (case-insensitive)
//  2. "(N:M)"            line and column in parentheses
//  3. "yaml: line N:"    the phrasing used by gopkg.in/yaml.v3
//
// The first matching pattern wins and N is converted from 1-based to 0-based.
package locate

import (
	"regexp"
	"strconv"
)

// Locator finds the line a parser message refers to.
type Locator interface {
	// Locate returns the 0-based line index referenced by message, or
	// false when the message carries no recognisable position.
	Locate(message string) (int, bool)
}

// Func adapts a plain function to the Locator interface.
type Func func(message string) (int, bool)

// Locate calls f(message).
func (f Func) Locate(message string) (int, bool) { return f(message) }

// Patterns is a Locator that tries each regular expression in order.
// The first capture group of each pattern must hold the 1-based line number.
type Patterns []*regexp.Regexp

// Locate implements Locator.
func (p Patterns) Locate(message string) (int, bool) {
	for _, re := range p {
		m := re.FindStringSubmatch(message)
		if len(m) < 2 {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			continue
		}
		return n - 1, true
	}
	return 0, false
}

var (
	atLineRe     = regexp.MustCompile(`(?i)at line (\d+)`)
	lineColRe    = regexp.MustCompile(`\((\d+):(\d+)\)`)
	yamlV3LineRe = regexp.MustCompile(`^yaml: line (\d+):`)
)

// Default is the locator used throughout yamlviz.
var Default Locator = Patterns{atLineRe, lineColRe, yamlV3LineRe}

// Position recognises only the "(N:M)" form. Messages built around a
// quoted key should prefer it, since the key text may itself read "at line N".
var Position Locator = Patterns{lineColRe}

// Locate runs the Default locator.
func Locate(message string) (int, bool) {
	return Default.Locate(message)
}

// Column returns the 0-based column from a "(N:M)" position, if present.
func Column(message string) (int, bool) {
	m := lineColRe.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

// Chain returns a Locator that asks each locator in turn.
func Chain(locators ...Locator) Locator {
	return Func(func(message string) (int, bool) {
		for _, l := range locators {
			if line, ok := l.Locate(message); ok {
				return line, true
			}
		}
		return 0, false
	})
}
