package parser

import (
	"testing"

	et "github.com/jolisper/ulisp/core/errorkind"
	T "github.com/jolisper/ulisp/core/module/lexkind"
)

func TestParseModule(t *testing.T) {
	n, err := Parse("add.ul", "(module (def add (a b) (+ a b)) (def main () (add 3 4)))")
	if err != nil {
		t.Fatal(err.String())
	}
	head, ok := n.Head()
	if !ok || head != "module" {
		t.Fatalf("expected a module form, got %q", head)
	}
	if len(n.Args()) != 2 {
		t.Fatalf("expected two definitions, got %d", len(n.Args()))
	}
	add := n.Args()[0]
	params := add.Leaves[2]
	if params.Lex != T.LIST || len(params.Leaves) != 2 {
		t.Fatalf("expected a parameter list of two, got %v", params)
	}
	body := add.Leaves[3]
	if op, _ := body.Head(); op != "+" {
		t.Fatalf("expected body (+ a b), got %v", body)
	}
	if n.Range == nil || n.Range.Begin.Column != 0 || n.Range.End.Column != 56 {
		t.Fatalf("unexpected module range %v", n.Range)
	}
}

func TestEmptyList(t *testing.T) {
	n, err := Parse("", "()")
	if err != nil {
		t.Fatal(err.String())
	}
	if n.Lex != T.LIST || len(n.Leaves) != 0 {
		t.Fatalf("expected an empty list, got %v", n)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		source string
		code   et.ErrorKind
	}{
		{"", et.UnexpectedEOF},
		{"(module (def main () 42)", et.UnexpectedEOF},
		{")", et.UnexpectedParen},
		{"(module) (module)", et.ExpectedEOF},
		{"(+ 1 2))", et.ExpectedEOF},
		{"(+ 99999999999 1)", et.IntegerOutOfRange},
	}
	for _, c := range cases {
		_, err := Parse("", c.source)
		if err == nil {
			t.Errorf("%q: expected %v, got nothing", c.source, c.code)
			continue
		}
		if err.Code != c.code {
			t.Errorf("%q: expected %v, got %v (%v)", c.source, c.code, err.Code, err.Message)
		}
	}
}

func TestIsIncomplete(t *testing.T) {
	_, err := Parse("", "(module\n(def main ()")
	if !IsIncomplete(err) {
		t.Fatalf("expected incomplete input, got %v", err)
	}
	_, err = Parse("", "(module))")
	if IsIncomplete(err) {
		t.Fatal("extra parenthesis is not incomplete input")
	}
	if IsIncomplete(nil) {
		t.Fatal("nil is not incomplete")
	}
}
