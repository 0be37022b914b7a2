package document

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the shape of a [Value].
type Kind int

const (
	// Scalar is a leaf value: string, number, boolean, null or timestamp.
	Scalar Kind = iota
	// Mapping is an ordered list of key/value entries.
	Mapping
	// Sequence is an ordered list of values.
	Sequence
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case Mapping:
		return "mapping"
	case Sequence:
		return "sequence"
	default:
		return "scalar"
	}
}

// ScalarType is the resolved YAML type of a scalar.
type ScalarType int

const (
	TypeString ScalarType = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeNull
	TypeTimestamp
	TypeBinary
)

// Entry is one key/value pair of a mapping.
type Entry struct {
	Key   string
	Value *Value
}

// Value is a decoded YAML node. Exactly one of Entries, Items or the scalar
// fields is meaningful, depending on Kind. Values are never modified after
// decoding and may be shared between callers.
type Value struct {
	Kind    Kind
	Entries []Entry  // Mapping
	Items   []*Value // Sequence

	Type ScalarType // Scalar
	Text string     // Scalar display text, see String
}

// NewScalar returns a string scalar. It is mostly useful in tests.
func NewScalar(s string) *Value {
	return &Value{Kind: Scalar, Type: TypeString, Text: s}
}

// NewMapping returns a mapping with the given entries.
func NewMapping(entries ...Entry) *Value {
	return &Value{Kind: Mapping, Entries: entries}
}

// NewSequence returns a sequence with the given items.
func NewSequence(items ...*Value) *Value {
	return &Value{Kind: Sequence, Items: items}
}

// IsContainer reports whether v is a mapping or a sequence.
func (v *Value) IsContainer() bool {
	return v != nil && v.Kind != Scalar
}

// IsNull reports whether v is absent or a null scalar.
func (v *Value) IsNull() bool {
	return v == nil || (v.Kind == Scalar && v.Type == TypeNull)
}

// Len returns the number of direct children of a container, or 0 for scalars.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.Kind {
	case Mapping:
		return len(v.Entries)
	case Sequence:
		return len(v.Items)
	}
	return 0
}

// Get returns the value stored under key in a mapping.
// When duplicate keys were kept, the first occurrence wins.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Kind != Mapping {
		return nil, false
	}
	for _, e := range v.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// String returns the display text of a scalar. Containers render as a short
// summary such as "mapping(3)".
func (v *Value) String() string {
	if v == nil {
		return "null"
	}
	if v.Kind == Scalar {
		return v.Text
	}
	return v.Kind.String() + "(" + strconv.Itoa(v.Len()) + ")"
}

// Count returns the total number of values in the tree rooted at v,
// including v itself.
func (v *Value) Count() int {
	if v == nil {
		return 0
	}
	n := 1
	for _, e := range v.Entries {
		n += e.Value.Count()
	}
	for _, it := range v.Items {
		n += it.Count()
	}
	return n
}

// formatFloat renders f the way a JavaScript runtime prints numbers: integral
// values lose their fraction, very large and very small magnitudes switch to
// exponent form, and the special values print as Infinity and NaN.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Interface converts v to plain Go values: map[string]any for mappings,
// []any for sequences, and int64, float64, bool, nil or string for scalars.
// Mapping order is lost. Numbers that do not fit their Go type, timestamps
// and binary scalars stay strings.
func (v *Value) Interface() any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case Mapping:
		m := make(map[string]any, len(v.Entries))
		for _, e := range v.Entries {
			if _, dup := m[e.Key]; !dup {
				m[e.Key] = e.Value.Interface()
			}
		}
		return m
	case Sequence:
		items := make([]any, len(v.Items))
		for i, it := range v.Items {
			items[i] = it.Interface()
		}
		return items
	}
	switch v.Type {
	case TypeNull:
		return nil
	case TypeBool:
		return v.Text == "true"
	case TypeInt:
		if i, err := strconv.ParseInt(v.Text, 10, 64); err == nil {
			return i
		}
	case TypeFloat:
		switch v.Text {
		case "Infinity":
			return math.Inf(1)
		case "-Infinity":
			return math.Inf(-1)
		case "NaN":
			return math.NaN()
		}
		if f, err := strconv.ParseFloat(v.Text, 64); err == nil {
			return f
		}
	}
	return v.Text
}
