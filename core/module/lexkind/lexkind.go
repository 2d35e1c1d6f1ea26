package lexkind

type LexKind int

const (
	UNDEFINED LexKind = iota

	SYMBOL
	INT_LIT
	FLOAT_LIT
	BOOL_LIT

	LEFTPAREN
	RIGHTPAREN

	LIST

	EOF
)

func FmtLexKind(l LexKind) string {
	switch l {
	case SYMBOL:
		return "symbol"
	case INT_LIT:
		return "int literal"
	case FLOAT_LIT:
		return "float literal"
	case BOOL_LIT:
		return "bool literal"
	case LEFTPAREN:
		return "("
	case RIGHTPAREN:
		return ")"
	case LIST:
		return "list"
	case EOF:
		return "EOF"
	}
	return "undefined"
}

func (this LexKind) String() string {
	return FmtLexKind(this)
}

// IsAtom reports whether nodes of this kind have no leaves.
func (this LexKind) IsAtom() bool {
	switch this {
	case SYMBOL, INT_LIT, FLOAT_LIT, BOOL_LIT:
		return true
	}
	return false
}
