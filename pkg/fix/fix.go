// Package fix suggests corrections for YAML documents that fail to parse.
//
// A [Fixer] receives the full input text and the parser's message and
// returns a corrected text. Fixers never modify their input: the caller
// decides whether to apply a suggestion.
//
// Implementations:
//
//   - [Local]: offline heuristics for common mistakes
//   - [Remote]: a language-model Messages API
//   - [Chain]: tries fixers in order until one has a suggestion that parses
//   - [Cached]: memoizes suggestions in a [cache.Cache]
//   - [Guard]: rejects a request while another one is still running
//
// [cache.Cache]: github.com/matzehuels/yamlviz/pkg/cache.Cache
package fix

import (
	"context"
	"time"

	"github.com/matzehuels/yamlviz/pkg/document"
	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/observability"
)

// Fix sources, reported in Result.Source and to the fix hooks.
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// Request is the text to fix and the error it produced.
type Request struct {
	DocumentText string `json:"yaml_text" validate:"required"`
	ErrorMessage string `json:"error_message" validate:"required"`
}

// Result is a suggested correction.
type Result struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Parses bool   `json:"parses"` // whether Text decodes without errors
}

// Fixer suggests a corrected document.
type Fixer interface {
	Fix(ctx context.Context, req Request) (Result, error)
}

// ErrFixInProgress is returned by Guard while a fix is outstanding.
var ErrFixInProgress = errors.New(errors.ErrCodeFixInProgress, "a fix is already in progress")

// Func adapts a function to the Fixer interface.
type Func func(ctx context.Context, req Request) (Result, error)

// Fix implements Fixer.
func (f Func) Fix(ctx context.Context, req Request) (Result, error) { return f(ctx, req) }

// Chain tries each fixer in order. A fixer that has no suggestion
// (FIX_UNAVAILABLE) passes the request on, and so does a suggestion that
// still does not parse; the latest such suggestion is returned when no later
// fixer produces valid YAML. Any other error stops the chain.
func Chain(fixers ...Fixer) Fixer {
	return Func(func(ctx context.Context, req Request) (Result, error) {
		var (
			last     error = errors.New(errors.ErrCodeFixUnavailable, "no fixer configured")
			fallback *Result
		)
		for _, f := range fixers {
			res, err := f.Fix(ctx, req)
			if err == nil {
				if res.Parses {
					return res, nil
				}
				fallback = &res
				continue
			}
			if !errors.Is(err, errors.ErrCodeFixUnavailable) {
				return Result{}, err
			}
			last = err
		}
		if fallback != nil {
			return *fallback, nil
		}
		return Result{}, last
	})
}

// parses reports whether every document of text decodes.
func parses(text string) bool {
	for _, d := range document.ParseAll(text) {
		if !d.OK() {
			return false
		}
	}
	return true
}

// observe reports a fix attempt to the registered hooks.
func observe(ctx context.Context, source string, fn func() (Result, error)) (Result, error) {
	hooks := observability.Fix()
	hooks.OnFixStart(ctx, source)
	start := time.Now()
	res, err := fn()
	hooks.OnFixComplete(ctx, source, time.Since(start), err)
	return res, err
}
