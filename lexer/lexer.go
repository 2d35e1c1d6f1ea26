package lexer

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	. "github.com/jolisper/ulisp/core"
	et "github.com/jolisper/ulisp/core/errorkind"
	ir "github.com/jolisper/ulisp/core/module"
	T "github.com/jolisper/ulisp/core/module/lexkind"
	sv "github.com/jolisper/ulisp/core/severity"
)

const IsTracking bool = false

func Track(st *Lexer, s string) {
	if IsTracking {
		fmt.Printf("%v: %v\n", s, st.Word.String())
	}
}

func NewLexerError(st *Lexer, t et.ErrorKind, message string) *Error {
	loc := st.GetSourceLocation()
	return &Error{
		Code:     t,
		Severity: sv.Error,
		Location: loc,
		Message:  message,
	}
}

type Lexer struct {
	Word *ir.Node

	File                string
	BeginLine, BeginCol int
	EndLine, EndCol     int

	Start, End   int
	LastRuneSize int
	Input        string

	Peeked *ir.Node
}

func NewLexer(filename string, s string) *Lexer {
	st := &Lexer{
		File:  filename,
		Input: s,
	}
	return st
}

func (this *Lexer) GetSourceLocation() *Location {
	return &Location{
		File:  this.File,
		Range: this.Range(),
	}
}

func (this *Lexer) Next() *Error {
	if this.Peeked != nil {
		p := this.Peeked
		this.Peeked = nil
		this.Word = p
		return nil
	}
	symbol, err := any(this)
	if err != nil {
		return err
	}
	this.Start = this.End
	this.BeginLine = this.EndLine
	this.BeginCol = this.EndCol
	this.Word = symbol
	return nil
}

func (this *Lexer) Peek() (*ir.Node, *Error) {
	if this.Peeked != nil {
		return this.Peeked, nil
	}
	symbol, err := any(this)
	if err != nil {
		return nil, err
	}
	this.Start = this.End
	this.BeginLine = this.EndLine
	this.BeginCol = this.EndCol
	this.Peeked = symbol
	return symbol, nil
}

func (this *Lexer) ReadAll() ([]*ir.Node, *Error) {
	e := this.Next()
	if e != nil {
		return nil, e
	}
	output := []*ir.Node{}
	for this.Word.Lex != T.EOF {
		output = append(output, this.Word)
		e = this.Next()
		if e != nil {
			return nil, e
		}
	}
	return output, nil
}

func (this *Lexer) Selected() string {
	return this.Input[this.Start:this.End]
}

func (this *Lexer) Range() *Range {
	return &Range{
		Begin: Position{
			Line:   this.BeginLine,
			Column: this.BeginCol,
		},
		End: Position{
			Line:   this.EndLine,
			Column: this.EndCol,
		},
	}
}

func genNode(l *Lexer, tp T.LexKind) *ir.Node {
	return &ir.Node{
		Lex:   tp,
		Text:  l.Selected(),
		Range: l.Range(),
	}
}

func nextRune(l *Lexer) rune {
	r, size := utf8.DecodeRuneInString(l.Input[l.End:])
	l.End += size
	l.LastRuneSize = size

	if r == '\n' {
		l.EndLine++
		l.EndCol = 0
	} else {
		l.EndCol++
	}

	return r
}

func peekRune(l *Lexer) rune {
	r, _ := utf8.DecodeRuneInString(l.Input[l.End:])
	return r
}

func atEOF(l *Lexer) bool {
	return l.End >= len(l.Input)
}

/*ignore ignores the text previously read*/
func ignore(l *Lexer) {
	l.Start = l.End
	l.BeginLine = l.EndLine
	l.BeginCol = l.EndCol
	l.LastRuneSize = 0
}

func isDelimiter(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '(', ')', ';':
		return true
	}
	return false
}

func ignoreWhitespace(st *Lexer) {
loop:
	for !atEOF(st) {
		switch peekRune(st) {
		case ' ', '\t', '\n', '\r':
			nextRune(st)
		case ';':
			comment(st)
		default:
			break loop
		}
	}
	ignore(st)
}

func comment(st *Lexer) {
	for !atEOF(st) && peekRune(st) != '\n' {
		nextRune(st)
	}
}

func any(st *Lexer) (*ir.Node, *Error) {
	ignoreWhitespace(st)
	if atEOF(st) {
		return genNode(st, T.EOF), nil
	}

	r := peekRune(st)
	switch r {
	case '(':
		nextRune(st)
		return genNode(st, T.LEFTPAREN), nil
	case ')':
		nextRune(st)
		return genNode(st, T.RIGHTPAREN), nil
	}
	return atom(st)
}

func atom(st *Lexer) (*ir.Node, *Error) {
	for !atEOF(st) && !isDelimiter(peekRune(st)) {
		r := nextRune(st)
		if r == utf8.RuneError && st.LastRuneSize == 1 {
			return nil, NewLexerError(st, et.InvalidSymbol, "invalid UTF-8 in symbol")
		}
	}
	return classify(st)
}

var (
	boolLit  = regexp2.MustCompile(`^(?:true|false)$`, regexp2.None)
	intLit   = regexp2.MustCompile(`^[+-]?[0-9]+$`, regexp2.None)
	floatLit = regexp2.MustCompile(`^[+-]?(?:[0-9]+\.[0-9]*|\.[0-9]+|[0-9]+)(?:[eE][+-]?[0-9]+)?$`, regexp2.None)
)

func matches(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	return ok && err == nil
}

// classify decides the kind of the selected atom, integers first,
// then floats, then booleans, and everything else is a symbol.
func classify(st *Lexer) (*ir.Node, *Error) {
	text := st.Selected()
	switch {
	case matches(intLit, text):
		value, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, NewLexerError(st, et.IntegerOutOfRange, "integer literal out of 32 bit range: "+text)
		}
		n := genNode(st, T.INT_LIT)
		n.Value = int32(value)
		return n, nil
	case matches(floatLit, text):
		return genNode(st, T.FLOAT_LIT), nil
	case matches(boolLit, text):
		return genNode(st, T.BOOL_LIT), nil
	}
	return genNode(st, T.SYMBOL), nil
}
