package lexer

import (
	"testing"

	et "github.com/jolisper/ulisp/core/errorkind"
	T "github.com/jolisper/ulisp/core/module/lexkind"
)

func TestReadAll(t *testing.T) {
	l := NewLexer("test.ul", "(module\n  (def main () (+ 1 -2))) ; trailing comment")
	words, err := l.ReadAll()
	if err != nil {
		t.Fatal(err.String())
	}
	expected := []struct {
		lex  T.LexKind
		text string
	}{
		{T.LEFTPAREN, "("},
		{T.SYMBOL, "module"},
		{T.LEFTPAREN, "("},
		{T.SYMBOL, "def"},
		{T.SYMBOL, "main"},
		{T.LEFTPAREN, "("},
		{T.RIGHTPAREN, ")"},
		{T.LEFTPAREN, "("},
		{T.SYMBOL, "+"},
		{T.INT_LIT, "1"},
		{T.INT_LIT, "-2"},
		{T.RIGHTPAREN, ")"},
		{T.RIGHTPAREN, ")"},
		{T.RIGHTPAREN, ")"},
	}
	if len(words) != len(expected) {
		t.Fatalf("expected %d words, got %d", len(expected), len(words))
	}
	for i, e := range expected {
		if words[i].Lex != e.lex || words[i].Text != e.text {
			t.Errorf("word %d: expected %v %q, got %v %q", i, e.lex, e.text, words[i].Lex, words[i].Text)
		}
	}
	if words[10].Value != -2 {
		t.Errorf("expected value -2, got %d", words[10].Value)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		text string
		lex  T.LexKind
	}{
		{"42", T.INT_LIT},
		{"+7", T.INT_LIT},
		{"-", T.SYMBOL},
		{"+", T.SYMBOL},
		{"*", T.SYMBOL},
		{"3.14", T.FLOAT_LIT},
		{".5", T.FLOAT_LIT},
		{"1e10", T.FLOAT_LIT},
		{"true", T.BOOL_LIT},
		{"false", T.BOOL_LIT},
		{"truer", T.SYMBOL},
		{"missing-name", T.SYMBOL},
		{"1st", T.SYMBOL},
	}
	for _, c := range cases {
		l := NewLexer("", c.text)
		err := l.Next()
		if err != nil {
			t.Errorf("%q: %v", c.text, err.String())
			continue
		}
		if l.Word.Lex != c.lex {
			t.Errorf("%q: expected %v, got %v", c.text, c.lex, l.Word.Lex)
		}
	}
}

func TestIntegerOutOfRange(t *testing.T) {
	l := NewLexer("", "3000000000")
	err := l.Next()
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Code != et.IntegerOutOfRange {
		t.Fatalf("expected %v, got %v", et.IntegerOutOfRange, err.Code)
	}
}

func TestPositions(t *testing.T) {
	l := NewLexer("", "(a\n  bc)")
	words, err := l.ReadAll()
	if err != nil {
		t.Fatal(err.String())
	}
	bc := words[2]
	if bc.Range.Begin.Line != 1 || bc.Range.Begin.Column != 2 {
		t.Fatalf("expected bc to begin at 1:2 (zero based), got %v", bc.Range.Begin)
	}
	if bc.Range.End.Column != 4 {
		t.Fatalf("expected bc to end at column 4, got %v", bc.Range.End.Column)
	}
}

func TestEmptyInput(t *testing.T) {
	l := NewLexer("", "  ; only a comment\n")
	err := l.Next()
	if err != nil {
		t.Fatal(err.String())
	}
	if l.Word.Lex != T.EOF {
		t.Fatalf("expected EOF, got %v", l.Word.Lex)
	}
}

func TestPeek(t *testing.T) {
	l := NewLexer("", "a b")
	if err := l.Next(); err != nil {
		t.Fatal(err.String())
	}
	p, err := l.Peek()
	if err != nil {
		t.Fatal(err.String())
	}
	if p.Text != "b" {
		t.Fatalf("expected to peek b, got %q", p.Text)
	}
	if err := l.Next(); err != nil {
		t.Fatal(err.String())
	}
	if l.Word != p {
		t.Fatal("Next should return the peeked word")
	}
}
