package locate

import (
	"fmt"
	"regexp"
	"testing"
)

func TestLocate(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    int
		wantOK  bool
	}{
		{"line and column", "bad indentation of a mapping entry (3:5)", 2, true},
		{"at line", "unexpected end of the stream at line 7, column 1", 6, true},
		{"at line uppercase", "Error At Line 12", 11, true},
		{"at line wins over parens", "duplicated key at line 4 (9:1)", 3, true},
		{"yaml.v3 phrasing", "yaml: line 5: mapping values are not allowed in this context", 4, true},
		{"duplicated key", `duplicated mapping key "a" (3:1)`, 2, true},
		{"no position", "yaml: did not find expected node content", 0, false},
		{"empty", "", 0, false},
		{"line zero", "(0:3)", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Locate(tt.message)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Locate(%q) = (%d, %v), want (%d, %v)", tt.message, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestColumn(t *testing.T) {
	if got, ok := Column("bad indentation (3:5)"); !ok || got != 4 {
		t.Errorf("Column() = (%d, %v), want (4, true)", got, ok)
	}
	if _, ok := Column("at line 3"); ok {
		t.Error("Column() found a column in a message without one")
	}
}

func TestChain(t *testing.T) {
	custom := Patterns{regexp.MustCompile(`row=(\d+)`)}
	l := Chain(custom, Default)

	if got, ok := l.Locate("failed at row=10"); !ok || got != 9 {
		t.Errorf("custom pattern: got (%d, %v)", got, ok)
	}
	if got, ok := l.Locate("bad indentation (3:5)"); !ok || got != 2 {
		t.Errorf("fallback: got (%d, %v)", got, ok)
	}
	if _, ok := l.Locate("nothing here"); ok {
		t.Error("expected no match")
	}
}

func TestPosition(t *testing.T) {
	msg := `duplicated mapping key "at line 5" (2:1)`
	if got, ok := Locate(msg); !ok || got != 4 {
		t.Errorf("default: got (%d, %v), want (4, true)", got, ok)
	}
	if got, ok := Position.Locate(msg); !ok || got != 1 {
		t.Errorf("position: got (%d, %v), want (1, true)", got, ok)
	}
	if _, ok := Position.Locate("error at line 3"); ok {
		t.Error("position must ignore \"at line N\"")
	}
}

func ExampleLocate() {
	line, ok := Locate("bad indentation (3:5)")
	fmt.Println(line, ok)

	_, ok = Locate("something went wrong")
	fmt.Println(ok)
	// Output:
	// 2 true
	// false
}
