package dag

import (
	"errors"
	"testing"
)

func build(t *testing.T, ids []string, edges [][2]string) *DAG {
	t.Helper()
	g := New()
	for _, id := range ids {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%q): %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%v): %v", e, err)
		}
	}
	return g
}

func TestAddNodeErrors(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty ID: got %v", err)
	}
	_ = g.AddNode(Node{ID: "a"})
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate ID: got %v", err)
	}
	if err := g.AddEdge(Edge{From: "x", To: "a"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("unknown source: got %v", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("unknown target: got %v", err)
	}
}

func TestInsertionOrder(t *testing.T) {
	ids := []string{"r", "z", "y", "x", "w"}
	g := build(t, ids, [][2]string{{"r", "z"}, {"r", "y"}, {"r", "x"}, {"r", "w"}})
	g.SetRows(map[string]int{"r": 0, "z": 1, "y": 1, "x": 1, "w": 1})

	for i := 0; i < 5; i++ {
		got := NodeIDs(g.NodesInRow(1))
		want := []string{"z", "y", "x", "w"}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("NodesInRow(1) = %v, want %v", got, want)
			}
		}
	}
	if got := NodeIDs(g.Nodes()); got[0] != "r" || got[4] != "w" {
		t.Errorf("Nodes() = %v", got)
	}
}

func TestValidateTree(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		edges [][2]string
		want  error
	}{
		{"empty", nil, nil, nil},
		{"single root", []string{"r"}, nil, nil},
		{"chain", []string{"r", "a", "b"}, [][2]string{{"r", "a"}, {"a", "b"}}, nil},
		{"two roots", []string{"r", "s"}, nil, ErrMultipleRoots},
		{"diamond", []string{"r", "a", "b", "c"}, [][2]string{{"r", "a"}, {"r", "b"}, {"a", "c"}, {"b", "c"}}, ErrMultipleParents},
		{"cycle only", []string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}}, ErrNoRoot},
		{"detached cycle", []string{"r", "a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}}, ErrGraphHasCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.ids, tt.edges)
			if err := g.ValidateTree(); !errors.Is(err, tt.want) {
				t.Errorf("ValidateTree() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	g := build(t, []string{"r", "a"}, [][2]string{{"r", "a"}})
	if err := g.Validate(); !errors.Is(err, ErrNonConsecutiveRows) {
		t.Errorf("unassigned rows: got %v", err)
	}
	g.SetRows(map[string]int{"a": 1})
	if err := g.Validate(); err != nil {
		t.Errorf("assigned rows: got %v", err)
	}
}

func TestCountCrossings(t *testing.T) {
	g := build(t,
		[]string{"r", "a", "b", "a1", "a2", "b1"},
		[][2]string{{"r", "a"}, {"r", "b"}, {"a", "a1"}, {"a", "a2"}, {"b", "b1"}},
	)

	tests := []struct {
		name   string
		orders map[int][]string
		want   int
	}{
		{"aligned", map[int][]string{0: {"r"}, 1: {"a", "b"}, 2: {"a1", "a2", "b1"}}, 0},
		{"one swap", map[int][]string{0: {"r"}, 1: {"a", "b"}, 2: {"a1", "b1", "a2"}}, 1},
		{"reversed", map[int][]string{0: {"r"}, 1: {"a", "b"}, 2: {"b1", "a2", "a1"}}, 2},
		{"single row", map[int][]string{0: {"r"}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountCrossings(g, tt.orders); got != tt.want {
				t.Errorf("CountCrossings() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountPairCrossingsWithPos(t *testing.T) {
	g := build(t,
		[]string{"a", "b", "a1", "b1"},
		[][2]string{{"a", "a1"}, {"b", "b1"}},
	)
	pos := PosMap([]string{"b1", "a1"})
	if got := CountPairCrossingsWithPos(g, "a", "b", pos, false); got != 1 {
		t.Errorf("a|b over b1,a1 = %d, want 1", got)
	}
	if got := CountPairCrossingsWithPos(g, "b", "a", pos, false); got != 0 {
		t.Errorf("b|a over b1,a1 = %d, want 0", got)
	}
	upper := PosMap([]string{"a", "b"})
	if got := CountPairCrossingsWithPos(g, "b1", "a1", upper, true); got != 1 {
		t.Errorf("b1|a1 under a,b = %d, want 1", got)
	}
}
