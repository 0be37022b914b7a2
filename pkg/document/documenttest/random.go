// Package documenttest generates document values for tests.
package documenttest

import (
	"math/rand"
	"strconv"

	"github.com/matzehuels/yamlviz/pkg/document"
)

var keys = []string{"name", "version", "items", "spec", "env", "a", "b", "a", "port", "tags"}

// Random returns a pseudo-random value tree derived from seed. Trees are at
// most maxDepth levels deep and containers hold at most maxWidth children.
// Mappings may contain duplicate keys, as decoding with duplicates allowed
// would produce. The same seed always yields the same tree.
func Random(seed int64, maxDepth, maxWidth int) *document.Value {
	r := rand.New(rand.NewSource(seed))
	return random(r, maxDepth, maxWidth)
}

func random(r *rand.Rand, depth, width int) *document.Value {
	if depth <= 0 {
		return scalar(r)
	}
	switch r.Intn(3) {
	case 0:
		n := r.Intn(width + 1)
		entries := make([]document.Entry, n)
		for i := range entries {
			entries[i] = document.Entry{Key: keys[r.Intn(len(keys))], Value: random(r, depth-1, width)}
		}
		return document.NewMapping(entries...)
	case 1:
		n := r.Intn(width + 1)
		items := make([]*document.Value, n)
		for i := range items {
			items[i] = random(r, depth-1, width)
		}
		return document.NewSequence(items...)
	default:
		return scalar(r)
	}
}

func scalar(r *rand.Rand) *document.Value {
	switch r.Intn(4) {
	case 0:
		return &document.Value{Kind: document.Scalar, Type: document.TypeInt, Text: strconv.Itoa(r.Intn(1000))}
	case 1:
		return &document.Value{Kind: document.Scalar, Type: document.TypeBool, Text: strconv.FormatBool(r.Intn(2) == 0)}
	case 2:
		return &document.Value{Kind: document.Scalar, Type: document.TypeNull, Text: "null"}
	default:
		return document.NewScalar("v" + strconv.Itoa(r.Intn(100)))
	}
}
