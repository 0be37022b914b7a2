package document

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/yamlviz/pkg/errors"
)

func TestParseAllEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n\t\n", "# just a comment\n", "%YAML 1.2\n# header\n"} {
		t.Run(strings.TrimSpace(input), func(t *testing.T) {
			assert.Empty(t, ParseAll(input))
		})
	}
}

func TestParseAllMappingOrder(t *testing.T) {
	docs := ParseAll("zeta: 1\nalpha: 2\nmid:\n  b: x\n  a: y\n")
	require.Len(t, docs, 1)
	require.True(t, docs[0].OK())

	v := docs[0].Value
	require.Equal(t, Mapping, v.Kind)
	require.Len(t, v.Entries, 3)
	assert.Equal(t, "zeta", v.Entries[0].Key)
	assert.Equal(t, "alpha", v.Entries[1].Key)
	assert.Equal(t, "mid", v.Entries[2].Key)

	mid := v.Entries[2].Value
	assert.Equal(t, []string{"b", "a"}, []string{mid.Entries[0].Key, mid.Entries[1].Key})
}

func TestParseAllIndependentDocuments(t *testing.T) {
	input := "x: 1\n---\na: b\n  c: d\n---\ny: 2\n"
	docs := ParseAll(input)
	require.Len(t, docs, 3)

	assert.True(t, docs[0].OK())
	assert.True(t, docs[2].OK())
	require.NotNil(t, docs[1].Err)

	f := docs[1].Err
	assert.Equal(t, errors.ErrCodeParse, f.Code)
	assert.True(t, errors.Is(f, errors.ErrCodeParse))
	assert.Contains(t, f.Message, "mapping values are not allowed")
	assert.True(t, strings.HasPrefix(f.Message, "yaml: line 4:"), f.Message)
	require.NotNil(t, f.Line)
	assert.Equal(t, 3, *f.Line)

	assert.Equal(t, 0, docs[0].StartLine)
	assert.Equal(t, 1, docs[1].StartLine)
	assert.Equal(t, 4, docs[2].StartLine)

	y, ok := docs[2].Value.Get("y")
	require.True(t, ok)
	assert.Equal(t, "2", y.String())
}

func TestParseAllUnclosedFlowCollections(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		doc     int
		line    int
		message string
	}{
		{"flow sequence", "x: 1\ny: 2\nb: [1, 2\n", 0, 2, "yaml: line 3: did not find expected ',' or ']'"},
		{"flow sequence on first line", "b: [1, 2\n", 0, 0, "yaml: line 1: did not find expected ',' or ']'"},
		{"flow sequence after marker", "a: 1\n---\nb: [1, 2\n", 1, 2, "yaml: line 3: did not find expected ',' or ']'"},
		{"flow mapping", "x: 1\nm: {a: 1\n", 0, 1, "yaml: line 2: did not find expected ',' or '}'"},
		{"flow mapping after marker", "a: 1\n---\nm: {a: 1\n", 1, 2, "yaml: line 3: did not find expected ',' or '}'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := ParseAll(tt.input)
			require.Len(t, docs, tt.doc+1)
			f := docs[tt.doc].Err
			require.NotNil(t, f)
			assert.Equal(t, tt.message, f.Message)
			require.NotNil(t, f.Line)
			assert.Equal(t, tt.line, *f.Line)
		})
	}
}

func TestErrorLine(t *testing.T) {
	tests := []struct {
		msg     string
		line    int
		problem string
		ok      bool
	}{
		{"yaml: line 3: mapping values are not allowed in this context", 2, "mapping values are not allowed in this context", true},
		{"yaml: line 2: did not find expected key", 2, "did not find expected key", true},
		{"yaml: line 4: did not find expected '-' indicator", 4, "did not find expected '-' indicator", true},
		{"yaml: did not find expected ',' or ']'", 0, "did not find expected ',' or ']'", true},
		{"yaml: unknown anchor 'x' referenced", 0, "", false},
		{"something else", 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			line, problem, ok := errorLine(tt.msg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.line, line)
			assert.Equal(t, tt.problem, problem)
		})
	}
}

func TestParseAllDuplicateKeys(t *testing.T) {
	input := "a: 1\nb: 2\na: 3\n"

	docs := ParseAll(input)
	require.Len(t, docs, 1)
	f := docs[0].Err
	require.NotNil(t, f)
	assert.Equal(t, `duplicated mapping key "a" (3:1)`, f.Message)
	require.NotNil(t, f.Line)
	require.NotNil(t, f.Column)
	assert.Equal(t, 2, *f.Line)
	assert.Equal(t, 0, *f.Column)

	docs = ParseAll(input, WithDuplicateKeys(true))
	require.True(t, docs[0].OK())
	assert.Equal(t, 3, docs[0].Value.Len())
}

func TestParseAllEmptyDocuments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []bool // OK per document
	}{
		{"explicit empty then content", "---\n---\na: 1\n", []bool{false, true}},
		{"trailing marker", "a: 1\n---\n", []bool{true, false}},
		{"top-level null", "~\n", []bool{false}},
		{"zero is a value", "0\n", []bool{true}},
		{"false is a value", "false\n", []bool{true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := ParseAll(tt.input)
			require.Len(t, docs, len(tt.want))
			for i, ok := range tt.want {
				assert.Equal(t, ok, docs[i].OK(), "document %d", i)
				if !ok {
					assert.Equal(t, errors.ErrCodeEmptyDocument, docs[i].Err.Code)
				}
			}
		})
	}
}

func TestParseAllMarkers(t *testing.T) {
	docs := ParseAll("# header\n%YAML 1.2\n---\na: 1\n")
	require.Len(t, docs, 1)
	assert.True(t, docs[0].OK())
	assert.Equal(t, 0, docs[0].StartLine)

	docs = ParseAll("a: 1\n...\nb: 2\n")
	require.Len(t, docs, 2)
	assert.True(t, docs[0].OK())
	assert.True(t, docs[1].OK())
	assert.Equal(t, 2, docs[1].StartLine)

	docs = ParseAll("--- [1, 2]\n--- {k: v}\n")
	require.Len(t, docs, 2)
	assert.Equal(t, Sequence, docs[0].Value.Kind)
	assert.Equal(t, Mapping, docs[1].Value.Kind)
}

func TestParseAllMergeKeys(t *testing.T) {
	input := "base: &b\n  x: 1\n  y: 2\nderived:\n  <<: *b\n  y: 3\n"
	docs := ParseAll(input)
	require.True(t, docs[0].OK())

	derived, ok := docs[0].Value.Get("derived")
	require.True(t, ok)
	require.Len(t, derived.Entries, 2)
	assert.Equal(t, "x", derived.Entries[0].Key)
	assert.Equal(t, "1", derived.Entries[0].Value.String())
	assert.Equal(t, "y", derived.Entries[1].Key)
	assert.Equal(t, "3", derived.Entries[1].Value.String())
}

func TestParseAllAliases(t *testing.T) {
	docs := ParseAll("a: &x [1, 2]\nb: *x\n")
	require.True(t, docs[0].OK())
	b, _ := docs[0].Value.Get("b")
	assert.Equal(t, Sequence, b.Kind)
	assert.Equal(t, 2, b.Len())

	docs = ParseAll("a: &x\n  b: *x\n")
	require.NotNil(t, docs[0].Err)
	assert.Contains(t, docs[0].Err.Message, "contains itself")
}

func TestParseAllMaxNodes(t *testing.T) {
	input := "a: &a [x, x, x, x]\nb: &b [*a, *a, *a, *a]\nc: [*b, *b, *b, *b]\n"
	docs := ParseAll(input, WithMaxNodes(20))
	require.NotNil(t, docs[0].Err)
	assert.Contains(t, docs[0].Err.Message, "more than 20 values")

	docs = ParseAll(input)
	require.True(t, docs[0].OK())
}

func TestScalarText(t *testing.T) {
	input := strings.Join([]string{
		"f: 1.0",
		"g: .inf",
		"h: -.inf",
		"n: ~",
		"t: true",
		"hex: 0x1F",
		"s: \"1\"",
		"big: 1.5e-7",
		"when: 2024-01-02",
	}, "\n")
	docs := ParseAll(input)
	require.True(t, docs[0].OK())

	want := map[string]struct {
		text string
		typ  ScalarType
	}{
		"f":    {"1", TypeFloat},
		"g":    {"Infinity", TypeFloat},
		"h":    {"-Infinity", TypeFloat},
		"n":    {"null", TypeNull},
		"t":    {"true", TypeBool},
		"hex":  {"31", TypeInt},
		"s":    {"1", TypeString},
		"big":  {"1.5e-7", TypeFloat},
		"when": {"2024-01-02", TypeTimestamp},
	}
	for key, w := range want {
		v, ok := docs[0].Value.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, w.text, v.String(), key)
		assert.Equal(t, w.typ, v.Type, key)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{-2.5, "-2.5"},
		{0.1, "0.1"},
		{1e21, "1e+21"},
		{123456789012, "123456789012"},
		{1.5e-7, "1.5e-7"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitDocuments(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		starts []int
	}{
		{"single bare", "a: 1\n", []int{0}},
		{"bare then marker", "a: 1\n---\nb: 2\n", []int{0, 1}},
		{"leading marker", "---\na: 1\n", []int{0}},
		{"comment preamble", "# c\n\n---\na: 1\n", []int{0}},
		{"document end", "a: 1\n...\nb: 2\n", []int{0, 2}},
		{"marker lookalike", "a: ---x\n----\n", []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := splitDocuments(tt.input)
			starts := make([]int, len(chunks))
			for i, c := range chunks {
				starts[i] = c.start
			}
			assert.Equal(t, tt.starts, starts)
		})
	}
}

func TestParse(t *testing.T) {
	v, err := Parse("name: web\nport: 8080\n")
	require.NoError(t, err)
	assert.Equal(t, 2, v.Len())

	_, err = Parse("a: 1\n---\nb: 2\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeParse))
	assert.Contains(t, err.Error(), "found 2")

	_, err = Parse("")
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyDocument))

	_, err = Parse("a: [1, 2")
	assert.True(t, errors.Is(err, errors.ErrCodeParse))
}

func TestValueInterface(t *testing.T) {
	v, err := Parse("n: 3\nf: 1.5\nok: true\nnone: ~\ns: text\nlist: [a, 2]\ninf: .inf\n")
	require.NoError(t, err)

	got, ok := v.Interface().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(3), got["n"])
	assert.Equal(t, 1.5, got["f"])
	assert.Equal(t, true, got["ok"])
	assert.Nil(t, got["none"])
	assert.Equal(t, "text", got["s"])
	assert.Equal(t, []any{"a", int64(2)}, got["list"])
	assert.True(t, math.IsInf(got["inf"].(float64), 1))

	assert.Nil(t, (*Value)(nil).Interface())
}
