package errorclass

// Class groups error kinds by the stage that can produce them.
type Class int

func (this Class) String() string {
	switch this {
	case Internal:
		return "internal"
	case Syntax:
		return "syntax"
	case Configuration:
		return "configuration"
	case Structural:
		return "structural"
	case UndefinedReference:
		return "undefined reference"
	case UnsupportedLiteral:
		return "unsupported literal"
	case Toolchain:
		return "toolchain"
	}
	panic("invalid error class")
}

const (
	InvalidClass Class = iota
	Internal
	Syntax
	Configuration
	Structural
	UndefinedReference
	UnsupportedLiteral
	Toolchain
)
