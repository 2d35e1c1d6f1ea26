package primitive

import (
	"math"
	"testing"
)

func TestLookup(t *testing.T) {
	cases := map[string]Primitive{
		"def":    Define,
		"module": Module,
		"+":      Add,
		"-":      Sub,
		"*":      Mul,
	}
	for name, expected := range cases {
		p, ok := Lookup(name)
		if !ok || p != expected {
			t.Errorf("Lookup(%q): expected %v, got %v (%v)", name, expected, p, ok)
		}
		if p.String() != name {
			t.Errorf("expected %v to print as %q", p, name)
		}
	}
	for _, name := range []string{"add", "/", "", "define", "main"} {
		if p, ok := Lookup(name); ok {
			t.Errorf("Lookup(%q) should fail, got %v", name, p)
		}
	}
}

func TestApply(t *testing.T) {
	if v := Add.Apply(1, 2); v != 3 {
		t.Errorf("expected 3, got %d", v)
	}
	if v := Sub.Apply(10, 4); v != 6 {
		t.Errorf("expected 6, got %d", v)
	}
	if v := Mul.Apply(6, 2); v != 12 {
		t.Errorf("expected 12, got %d", v)
	}
	if v := Add.Apply(math.MaxInt32, 1); v != math.MinInt32 {
		t.Errorf("expected wrap around, got %d", v)
	}
}

func TestApplyPanicsOnNonArithmetic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Define.Apply(1, 2)
}
