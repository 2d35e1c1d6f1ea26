// Package constexpr evaluates a program at compile time. The result
// predicts the exit status of the compiled executable and is what the
// test runner checks every backend against.
package constexpr

import (
	"github.com/jolisper/ulisp/backends/lowering"
	. "github.com/jolisper/ulisp/core"
	mod "github.com/jolisper/ulisp/core/module"
	lk "github.com/jolisper/ulisp/core/module/lexkind"
	"github.com/jolisper/ulisp/core/primitive"
	"github.com/jolisper/ulisp/core/scope"
	msg "github.com/jolisper/ulisp/messages"
)

// MaxCallDepth bounds recursion, there are no conditionals so any
// recursive program never terminates.
const MaxCallDepth = 10000

type function struct {
	def    *lowering.Definition
	scope  *scope.Scope
	params []string // target names of the parameters
}

// Evaluator is a lowering target that emits nothing, it only keeps
// each definition and its scope around for Eval.
type Evaluator struct {
	lowerer   *lowering.Lowerer
	functions map[string]*function
	depth     int
}

func New() *Evaluator {
	e := &Evaluator{functions: map[string]*function{}}
	e.lowerer = lowering.New(e)
	return e
}

// Eval checks the program the same way the backends do and returns
// the value main computes.
func Eval(root *mod.Node) (int32, *Error) {
	return New().Eval(root)
}

func (this *Evaluator) Eval(root *mod.Node) (int32, *Error) {
	entry, err := this.lowerer.Module(root, scope.New())
	if err != nil {
		return 0, err
	}
	main, ok := this.functions[entry]
	if !ok {
		return 0, msg.ErrorInternal("entry point was not recorded: " + entry)
	}
	return this.call(main, nil)
}

// ExitStatus is what a process returning v from main reports.
func ExitStatus(v int32) int {
	return int(uint8(v))
}

func (this *Evaluator) MaxArgs() int {
	return 0
}

func (this *Evaluator) Integer(n *mod.Node, dest string) {}

func (this *Evaluator) Reference(location string, dest string) {}

func (this *Evaluator) Arithmetic(l *lowering.Lowerer, op primitive.Primitive, lhs, rhs *mod.Node, dest string, sc *scope.Scope) *Error {
	err := l.Lower(lhs, dest, sc)
	if err != nil {
		return err
	}
	return l.Lower(rhs, dest, sc)
}

func (this *Evaluator) Call(l *lowering.Lowerer, c *lowering.Call, dest string, sc *scope.Scope) *Error {
	for _, arg := range c.Args {
		err := l.Lower(arg, dest, sc)
		if err != nil {
			return err
		}
	}
	return nil
}

func (this *Evaluator) Define(l *lowering.Lowerer, def *lowering.Definition, child *scope.Scope) *Error {
	f := &function{
		def:    def,
		scope:  child,
		params: make([]string, len(def.Params)),
	}
	for i, param := range def.Params {
		f.params[i] = child.Register(param.Text)
	}
	this.functions[def.Label] = f
	return l.Lower(def.Body, "value", child)
}

func (this *Evaluator) call(f *function, args []int32) (int32, *Error) {
	this.depth++
	defer func() { this.depth-- }()
	if this.depth > MaxCallDepth {
		return 0, msg.ErrorCallsTooDeep(f.def.Node, MaxCallDepth)
	}
	env := make(map[string]int32, len(args))
	for i, v := range args {
		env[f.params[i]] = v
	}
	return this.eval(f, f.def.Body, env)
}

// eval only sees programs the lowerer accepted, so names resolve and
// arities match.
func (this *Evaluator) eval(f *function, n *mod.Node, env map[string]int32) (int32, *Error) {
	switch n.Lex {
	case lk.INT_LIT:
		return n.Value, nil
	case lk.SYMBOL:
		target, _ := f.scope.Get(n.Text)
		v, ok := env[target]
		if !ok {
			return 0, msg.ErrorNameNotDefined(n)
		}
		return v, nil
	case lk.LIST:
		op, _ := n.Head()
		args := n.Args()
		if p, ok := primitive.Lookup(op); ok && p.IsArithmetic() {
			a, err := this.eval(f, args[0], env)
			if err != nil {
				return 0, err
			}
			b, err := this.eval(f, args[1], env)
			if err != nil {
				return 0, err
			}
			return p.Apply(a, b), nil
		}
		label, _ := f.scope.Get(op)
		callee, ok := this.functions[label]
		if !ok {
			return 0, msg.ErrorProcNotDefined(n, op)
		}
		values := make([]int32, len(args))
		for i, arg := range args {
			v, err := this.eval(f, arg, env)
			if err != nil {
				return 0, err
			}
			values[i] = v
		}
		return this.call(callee, values)
	}
	return 0, msg.ErrorInternal("can't evaluate " + n.Lex.String())
}
