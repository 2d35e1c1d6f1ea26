package parser

import (
	. "github.com/jolisper/ulisp/core"
	et "github.com/jolisper/ulisp/core/errorkind"
	mod "github.com/jolisper/ulisp/core/module"
	T "github.com/jolisper/ulisp/core/module/lexkind"
	sv "github.com/jolisper/ulisp/core/severity"
	. "github.com/jolisper/ulisp/lexer"
)

// Parse reads a single expression, the program, and fails if anything
// but whitespace or comments follows it.
func Parse(filename string, s string) (*mod.Node, *Error) {
	st := NewLexer(filename, s)
	err := st.Next()
	if err != nil {
		return nil, err
	}
	n, err := expr(st)
	if err != nil {
		return nil, err
	}
	if st.Word.Lex != T.EOF {
		return nil, ExpectedEOF(st)
	}
	return n, nil
}

// IsIncomplete reports whether the error only means the input ended
// too soon, so more lines may complete it.
func IsIncomplete(err *Error) bool {
	return err != nil && err.Code == et.UnexpectedEOF
}

// Expr := Atom | '(' {Expr} ')'.
func expr(s *Lexer) (*mod.Node, *Error) {
	Track(s, "expr")
	switch s.Word.Lex {
	case T.LEFTPAREN:
		return list(s)
	case T.RIGHTPAREN:
		return nil, newError(s, et.UnexpectedParen, "unexpected ')'")
	case T.EOF:
		return nil, newError(s, et.UnexpectedEOF, "unexpected end of input")
	}
	atom := s.Word
	err := s.Next()
	if err != nil {
		return nil, err
	}
	return atom, nil
}

func list(s *Lexer) (*mod.Node, *Error) {
	open, err := Expect(s, T.LEFTPAREN)
	if err != nil {
		return nil, err
	}
	n := &mod.Node{Lex: T.LIST, Leaves: []*mod.Node{}}
	for s.Word.Lex != T.RIGHTPAREN {
		if s.Word.Lex == T.EOF {
			return nil, newError(s, et.UnexpectedEOF, "unexpected end of input, missing ')'")
		}
		leaf, err := expr(s)
		if err != nil {
			return nil, err
		}
		n.AddLeaf(leaf)
	}
	end, err := Expect(s, T.RIGHTPAREN)
	if err != nil {
		return nil, err
	}
	n.Range = &Range{Begin: open.Range.Begin, End: end.Range.End}
	return n, nil
}

func Expect(s *Lexer, tp T.LexKind) (*mod.Node, *Error) {
	if s.Word.Lex != tp {
		return nil, newError(s, et.ExpectedEOF, "expected "+tp.String()+", found "+s.Word.Lex.String())
	}
	n := s.Word
	err := s.Next()
	if err != nil {
		return nil, err
	}
	return n, nil
}

func ExpectedEOF(s *Lexer) *Error {
	return newError(s, et.ExpectedEOF, "expected end of input, found '"+s.Word.Text+"'")
}

// errors point at the word that caused them
func newError(s *Lexer, t et.ErrorKind, message string) *Error {
	return &Error{
		Code:     t,
		Severity: sv.Error,
		Location: &Location{File: s.File, Range: s.Word.Range},
		Message:  message,
	}
}
