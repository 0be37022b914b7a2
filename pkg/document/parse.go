package document

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	yerrors "github.com/matzehuels/yamlviz/pkg/errors"
)

// DefaultMaxNodes bounds the number of values a single document may expand to
// once aliases are resolved.
const DefaultMaxNodes = 100_000

// Document is the outcome of decoding one document of a stream.
// Exactly one of Value and Err is set.
type Document struct {
	Index     int           // Position in the stream, starting at 0
	StartLine int           // 0-based line of the document's first line
	Text      string        // Raw text of the document, including its marker
	Value     *Value        // Decoded value on success
	Err       *ParseFailure // Failure details otherwise
}

// OK reports whether the document decoded successfully.
func (d Document) OK() bool { return d.Err == nil }

// ParseFailure describes why a document could not be decoded.
// Line and Column are 0-based positions in the full input when known.
type ParseFailure struct {
	Code    yerrors.Code
	Message string
	Line    *int
	Column  *int
}

// Error implements the error interface.
func (f *ParseFailure) Error() string { return f.Message }

// Unwrap exposes the failure as a coded error so that errors.Is from
// pkg/errors recognises PARSE_ERROR and EMPTY_DOCUMENT.
func (f *ParseFailure) Unwrap() error { return &yerrors.Error{Code: f.Code, Message: f.Message} }

// Option configures ParseAll.
type Option func(*options)

type options struct {
	allowDuplicateKeys bool
	maxNodes           int
}

// WithDuplicateKeys keeps repeated mapping keys instead of reporting them.
func WithDuplicateKeys(allow bool) Option {
	return func(o *options) { o.allowDuplicateKeys = allow }
}

// WithMaxNodes overrides DefaultMaxNodes. Values <= 0 are ignored.
func WithMaxNodes(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxNodes = n
		}
	}
}

// ParseAll decodes every document in text. Empty or whitespace-only input
// yields a nil slice. The returned documents are index-aligned with their
// order in the stream; a failure in one document never affects another.
func ParseAll(text string, opts ...Option) []Document {
	o := options{maxNodes: DefaultMaxNodes}
	for _, opt := range opts {
		opt(&o)
	}

	if strings.TrimSpace(text) == "" {
		return nil
	}

	chunks := splitDocuments(text)
	docs := make([]Document, len(chunks))
	for i, c := range chunks {
		docs[i] = Document{Index: i, StartLine: c.start, Text: c.text}
		v, err := decode(c, o)
		if err != nil {
			docs[i].Err = err
			continue
		}
		docs[i].Value = v
	}
	return docs
}

// Parse decodes text as a single document. Input holding more than one
// document is rejected; use ParseAll for streams.
func Parse(text string, opts ...Option) (*Value, error) {
	docs := ParseAll(text, opts...)
	switch len(docs) {
	case 0:
		return nil, emptyFailure(0)
	case 1:
		if docs[0].Err != nil {
			return nil, docs[0].Err
		}
		return docs[0].Value, nil
	}
	line := docs[1].StartLine
	return nil, &ParseFailure{
		Code:    yerrors.ErrCodeParse,
		Message: fmt.Sprintf("expected a single document, found %d (line %d)", len(docs), line+1),
		Line:    &line,
	}
}

func decode(c chunk, o options) (*Value, *ParseFailure) {
	var root yaml.Node
	dec := yaml.NewDecoder(strings.NewReader(c.text))
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, emptyFailure(c.start)
		}
		return nil, syntaxFailure(err, c)
	}

	conv := &converter{opts: o, offset: c.start, active: make(map[*yaml.Node]bool)}
	v, err := conv.convert(&root)
	if err != nil {
		var pf *ParseFailure
		if errors.As(err, &pf) {
			return nil, pf
		}
		return nil, &ParseFailure{Code: yerrors.ErrCodeParse, Message: err.Error()}
	}
	if v.IsNull() {
		return nil, emptyFailure(c.start)
	}
	return v, nil
}

func emptyFailure(line int) *ParseFailure {
	return &ParseFailure{Code: yerrors.ErrCodeEmptyDocument, Message: "empty document", Line: &line}
}

var yamlLineRe = regexp.MustCompile(`(?s)^yaml: line (\d+): (.*)$`)

// parserProblems are the messages yaml.v3 raises from its parser rather than
// its scanner. For these the reported line is the 0-based line of the
// enclosing construct, and it is omitted entirely when that line is 0.
// Scanner messages count lines from 1.
var parserProblems = []string{
	"did not find expected <stream-start>",
	"did not find expected <document start>",
	"did not find expected node content",
	"did not find expected key",
	"did not find expected '-' indicator",
	"did not find expected ',' or ']'",
	"did not find expected ',' or '}'",
	"found undefined tag handle",
	"found duplicate %YAML directive",
	"found duplicate %TAG directive",
	"found incompatible YAML document",
}

func isParserProblem(problem string) bool {
	for _, p := range parserProblems {
		if problem == p {
			return true
		}
	}
	return false
}

// syntaxFailure rewrites the line in a yaml.v3 error into the absolute
// 1-based line of the whole input and records it 0-based in Line.
func syntaxFailure(err error, c chunk) *ParseFailure {
	msg := err.Error()
	f := &ParseFailure{Code: yerrors.ErrCodeParse, Message: msg}
	rel, problem, ok := errorLine(msg)
	if !ok {
		return f
	}
	line := c.start + min(rel, lastLine(c.text))
	f.Message = "yaml: line " + strconv.Itoa(line+1) + ": " + problem
	f.Line = &line
	return f
}

// errorLine returns the 0-based line within the document that a yaml.v3
// message refers to, and the message without its "yaml: line N: " prefix.
func errorLine(msg string) (int, string, bool) {
	if m := yamlLineRe.FindStringSubmatch(msg); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, "", false
		}
		if !isParserProblem(m[2]) {
			n--
		}
		return max(n, 0), m[2], true
	}
	if problem, ok := strings.CutPrefix(msg, "yaml: "); ok && isParserProblem(problem) {
		return 0, problem, true
	}
	return 0, "", false
}

// lastLine is the 0-based index of the last line of text.
func lastLine(text string) int {
	return strings.Count(strings.TrimSuffix(text, "\n"), "\n")
}

type converter struct {
	opts   options
	offset int
	count  int
	active map[*yaml.Node]bool
}

// failAt builds a failure positioned at n. The message carries the 1-based
// position as "(line:column)".
func (c *converter) failAt(n *yaml.Node, format string, args ...any) *ParseFailure {
	line := n.Line + c.offset - 1
	col := n.Column - 1
	msg := fmt.Sprintf(format, args...)
	return &ParseFailure{
		Code:    yerrors.ErrCodeParse,
		Message: fmt.Sprintf("%s (%d:%d)", msg, line+1, col+1),
		Line:    &line,
		Column:  &col,
	}
}

func (c *converter) convert(n *yaml.Node) (*Value, error) {
	c.count++
	if c.count > c.opts.maxNodes {
		return nil, c.failAt(n, "document expands to more than %d values", c.opts.maxNodes)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return c.convert(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, c.failAt(n, "unknown anchor %q referenced", n.Value)
		}
		if c.active[n.Alias] {
			return nil, c.failAt(n, "anchor %q value contains itself", n.Value)
		}
		return c.convert(n.Alias)
	case yaml.MappingNode:
		return c.mapping(n)
	case yaml.SequenceNode:
		c.active[n] = true
		defer delete(c.active, n)
		items := make([]*Value, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := c.convert(child)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return &Value{Kind: Sequence, Items: items}, nil
	case yaml.ScalarNode:
		return scalarValue(n), nil
	}
	return nil, c.failAt(n, "unsupported node kind %d", n.Kind)
}

func (c *converter) mapping(n *yaml.Node) (*Value, error) {
	c.active[n] = true
	defer delete(c.active, n)

	explicit := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if isMergeKey(k) {
			continue
		}
		key, err := c.key(k)
		if err != nil {
			return nil, err
		}
		if explicit[key] && !c.opts.allowDuplicateKeys {
			return nil, c.failAt(k, "duplicated mapping key %q", key)
		}
		explicit[key] = true
	}

	v := &Value{Kind: Mapping, Entries: make([]Entry, 0, len(n.Content)/2)}
	merged := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, val := n.Content[i], n.Content[i+1]
		if isMergeKey(k) {
			sources, err := c.mergeSources(val)
			if err != nil {
				return nil, err
			}
			for _, src := range sources {
				for _, e := range src.Entries {
					if explicit[e.Key] || merged[e.Key] {
						continue
					}
					merged[e.Key] = true
					v.Entries = append(v.Entries, e)
				}
			}
			continue
		}
		key, err := c.key(k)
		if err != nil {
			return nil, err
		}
		child, err := c.convert(val)
		if err != nil {
			return nil, err
		}
		v.Entries = append(v.Entries, Entry{Key: key, Value: child})
	}
	return v, nil
}

func (c *converter) mergeSources(n *yaml.Node) ([]*Value, error) {
	target := n
	if target.Kind == yaml.AliasNode && target.Alias != nil {
		target = target.Alias
	}
	switch target.Kind {
	case yaml.MappingNode:
		v, err := c.convert(n)
		if err != nil {
			return nil, err
		}
		return []*Value{v}, nil
	case yaml.SequenceNode:
		out := make([]*Value, 0, len(target.Content))
		for _, item := range target.Content {
			resolved := item
			if resolved.Kind == yaml.AliasNode && resolved.Alias != nil {
				resolved = resolved.Alias
			}
			if resolved.Kind != yaml.MappingNode {
				return nil, c.failAt(item, "map merge requires map or sequence of maps as the value")
			}
			v, err := c.convert(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	return nil, c.failAt(n, "map merge requires map or sequence of maps as the value")
}

// key renders a mapping key as a string. Scalar keys use their display text;
// complex keys are rendered in YAML flow style.
func (c *converter) key(k *yaml.Node) (string, error) {
	if k.Kind == yaml.AliasNode && k.Alias != nil {
		k = k.Alias
	}
	if k.Kind == yaml.ScalarNode {
		return scalarValue(k).Text, nil
	}
	flow := *k
	flow.Style = yaml.FlowStyle
	out, err := yaml.Marshal(&flow)
	if err != nil {
		return "", c.failAt(k, "unsupported mapping key: %v", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func isMergeKey(k *yaml.Node) bool {
	return k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge"
}

func scalarValue(n *yaml.Node) *Value {
	v := &Value{Kind: Scalar, Type: TypeString, Text: n.Value}
	switch n.ShortTag() {
	case "!!null":
		v.Type, v.Text = TypeNull, "null"
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			v.Type, v.Text = TypeBool, strconv.FormatBool(b)
		}
	case "!!int":
		var x any
		if err := n.Decode(&x); err == nil {
			switch i := x.(type) {
			case int:
				v.Type, v.Text = TypeInt, strconv.Itoa(i)
			case int64:
				v.Type, v.Text = TypeInt, strconv.FormatInt(i, 10)
			case uint64:
				v.Type, v.Text = TypeInt, strconv.FormatUint(i, 10)
			case float64:
				v.Type, v.Text = TypeFloat, formatFloat(i)
			}
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			v.Type, v.Text = TypeFloat, formatFloat(f)
		}
	case "!!timestamp":
		v.Type = TypeTimestamp
	case "!!binary":
		v.Type = TypeBinary
	}
	return v
}
