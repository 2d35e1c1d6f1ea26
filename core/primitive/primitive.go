// Package primitive enumerates the operators that are expanded by the
// compiler instead of being called.
package primitive

type Primitive int

const (
	Invalid Primitive = iota
	Define
	Module
	Add
	Sub
	Mul
)

// Lookup resolves an operator name. Primitives receive their arguments
// unevaluated.
func Lookup(name string) (Primitive, bool) {
	switch name {
	case "def":
		return Define, true
	case "module":
		return Module, true
	case "+":
		return Add, true
	case "-":
		return Sub, true
	case "*":
		return Mul, true
	}
	return Invalid, false
}

func (this Primitive) String() string {
	switch this {
	case Define:
		return "def"
	case Module:
		return "module"
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	}
	return "invalid"
}

func (this Primitive) IsArithmetic() bool {
	return this == Add || this == Sub || this == Mul
}

// Apply computes the arithmetic primitives with 32 bit wrap around,
// the same way the generated code does.
func (this Primitive) Apply(a, b int32) int32 {
	switch this {
	case Add:
		return a + b
	case Sub:
		return a - b
	case Mul:
		return a * b
	}
	panic("not an arithmetic primitive: " + this.String())
}
