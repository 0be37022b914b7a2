// Package document splits YAML text into documents and decodes each one into
// an ordered, immutable [Value] tree.
//
// # Independence
//
// Every document in a multi-document stream is decoded on its own. A syntax
// error in the second document produces a [ParseFailure] at index 1 while the
// first and third documents still decode normally:
//
//	docs := document.ParseAll("a: 1\n---\nb: [\n---\nc: 3\n")
//	docs[0].Value // mapping {a: 1}
//	docs[1].Err   // yaml: line 3: did not find expected node content
//	docs[2].Value // mapping {c: 3}
//
// Line numbers in failure messages are absolute positions in the full input,
// not positions within the failing document.
//
// # Values
//
// Mapping entries keep their source order. Aliases are resolved to copies of
// the anchored value and merge keys (<<) are expanded in place. Scalars keep
// their resolved YAML type alongside a display string ([Value.String]) that
// renders numbers in shortest form and special floats as Infinity and NaN.
//
// # Empty Documents
//
// Empty or whitespace-only input yields no documents at all. A document that
// is present but holds no value (an explicit "---" with nothing after it, or a
// top-level null) yields a failure with code EMPTY_DOCUMENT so callers can
// tell "absent" from "present but empty".
package document
