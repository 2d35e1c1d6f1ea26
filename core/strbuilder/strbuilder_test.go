package strbuilder

import "testing"

func TestEmit(t *testing.T) {
	b := &Builder{}
	b.Emit(0, "main:")
	b.Emit(1, "mov rax, 42")
	b.Emit(2, "ret")
	expected := "main:\n\tmov rax, 42\n\t\tret\n"
	if b.String() != expected {
		t.Fatalf("expected %q, got %q", expected, b.String())
	}
	if b.Len() != len(expected) {
		t.Fatalf("expected length %d, got %d", len(expected), b.Len())
	}
}

func TestEmptyBuilder(t *testing.T) {
	b := &Builder{}
	if b.String() != "" {
		t.Fatalf("expected empty string, got %q", b.String())
	}
}

func TestPlaceKeepsOrder(t *testing.T) {
	b := &Builder{}
	for _, s := range []string{"a", "bc", "", "def"} {
		b.Place(s)
	}
	if b.String() != "abcdef" {
		t.Fatalf("expected abcdef, got %q", b.String())
	}
}
