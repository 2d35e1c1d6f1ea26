// Package lowering holds the destination passing algorithm shared by
// every target: expressions are walked recursively and each one is told
// where its value has to end up.
package lowering

import (
	. "github.com/jolisper/ulisp/core"
	mod "github.com/jolisper/ulisp/core/module"
	lk "github.com/jolisper/ulisp/core/module/lexkind"
	"github.com/jolisper/ulisp/core/primitive"
	"github.com/jolisper/ulisp/core/scope"
	msg "github.com/jolisper/ulisp/messages"
)

// MaxDepth bounds expression nesting, deeper programs are rejected
// instead of exhausting the stack.
const MaxDepth = 10000

const (
	// Entry is the source name of the function the program starts at.
	Entry = "main"
	// EntryBase is the target name Entry is registered under, the
	// process entry symbol belongs to the generated scaffold.
	EntryBase = "program_main"
)

// Target is the part of code generation that differs between backends.
// An empty dest means the value is discarded.
type Target interface {
	Integer(n *mod.Node, dest string)
	Reference(location string, dest string)
	Arithmetic(l *Lowerer, op primitive.Primitive, lhs, rhs *mod.Node, dest string, sc *scope.Scope) *Error
	Call(l *Lowerer, c *Call, dest string, sc *scope.Scope) *Error
	// Define receives the already forked scope of the function body.
	Define(l *Lowerer, def *Definition, child *scope.Scope) *Error
	// MaxArgs is the maximum number of parameters, 0 if unbounded.
	MaxArgs() int
}

type Call struct {
	Node  *mod.Node
	Name  string
	Label string
	Args  []*mod.Node
}

type Definition struct {
	Node   *mod.Node
	Name   string
	Label  string
	Params []*mod.Node
	Body   *mod.Node
}

type Lowerer struct {
	Target Target

	functions map[string]int // label -> number of parameters
	depth     int
	inProc    bool
	inModule  bool
}

func New(t Target) *Lowerer {
	return &Lowerer{
		Target:    t,
		functions: map[string]int{},
	}
}

// Module lowers a whole program and returns the label of its entry
// function.
func (l *Lowerer) Module(root *mod.Node, sc *scope.Scope) (string, *Error) {
	op, ok := root.Head()
	if !ok || op != "module" {
		return "", msg.ErrorExpectedModule(root)
	}
	err := l.Lower(root, "", sc)
	if err != nil {
		return "", err
	}
	label, ok := sc.Get(Entry)
	if !ok || !l.IsFunction(label) {
		return "", msg.ErrorNoEntryPoint()
	}
	if arity := l.functions[label]; arity != 0 {
		return "", msg.ErrorInvalidMain(arity)
	}
	return label, nil
}

func (l *Lowerer) IsFunction(label string) bool {
	_, ok := l.functions[label]
	return ok
}

// Lower emits the code that leaves the value of n in dest.
func (l *Lowerer) Lower(n *mod.Node, dest string, sc *scope.Scope) *Error {
	l.depth++
	defer func() { l.depth-- }()
	if l.depth > MaxDepth {
		return msg.ErrorNestingTooDeep(n, MaxDepth)
	}

	switch n.Lex {
	case lk.INT_LIT:
		l.Target.Integer(n, dest)
		return nil
	case lk.SYMBOL:
		location, ok := sc.Get(n.Text)
		if !ok {
			return msg.ErrorNameNotDefined(n)
		}
		if l.IsFunction(location) {
			return msg.ErrorProcAsValue(n)
		}
		l.Target.Reference(location, dest)
		return nil
	case lk.FLOAT_LIT, lk.BOOL_LIT:
		return msg.ErrorUnsupportedLiteral(n)
	case lk.LIST:
		return l.dispatch(n, dest, sc)
	}
	return msg.ErrorInternal("invalid node kind: " + n.Lex.String())
}

func (l *Lowerer) dispatch(n *mod.Node, dest string, sc *scope.Scope) *Error {
	if len(n.Leaves) == 0 {
		return msg.ErrorEmptyList(n)
	}
	op, ok := n.Head()
	if !ok {
		return msg.ErrorExpectedOperator(n.Leaves[0])
	}
	args := n.Args()

	if p, ok := primitive.Lookup(op); ok {
		return l.primitive(p, n, args, dest, sc)
	}

	label, ok := sc.Get(op)
	if !ok {
		return msg.ErrorProcNotDefined(n.Leaves[0], op)
	}
	arity, ok := l.functions[label]
	if !ok {
		return msg.ErrorNotAProcedure(n.Leaves[0], op)
	}
	if arity != len(args) {
		return msg.ErrorInvalidNumberOfArgs(n, op, arity, len(args))
	}
	c := &Call{
		Node:  n,
		Name:  op,
		Label: label,
		Args:  args,
	}
	return l.Target.Call(l, c, dest, sc)
}

func (l *Lowerer) primitive(p primitive.Primitive, n *mod.Node, args []*mod.Node, dest string, sc *scope.Scope) *Error {
	switch p {
	case primitive.Module:
		return l.module(n, args, sc)
	case primitive.Define:
		return l.define(n, args, sc)
	case primitive.Add, primitive.Sub, primitive.Mul:
		if len(args) != 2 {
			return msg.ErrorInvalidNumberOfArgs(n, p.String(), 2, len(args))
		}
		return l.Target.Arithmetic(l, p, args[0], args[1], dest, sc)
	}
	return msg.ErrorInternal("unhandled primitive: " + p.String())
}

// module lowers every top level form on its own, none of them produce
// a value. Anything that would emit instructions outside of a function
// is refused.
func (l *Lowerer) module(n *mod.Node, args []*mod.Node, sc *scope.Scope) *Error {
	if l.inModule || l.inProc {
		return msg.ErrorNestedModule(n)
	}
	l.inModule = true
	defer func() { l.inModule = false }()

	for _, arg := range args {
		if op, ok := arg.Head(); ok {
			p, isPrim := primitive.Lookup(op)
			if !isPrim || p.IsArithmetic() {
				return msg.ErrorExpressionOutsideProc(arg)
			}
		}
		err := l.Lower(arg, "", sc)
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *Lowerer) define(n *mod.Node, args []*mod.Node, sc *scope.Scope) *Error {
	if l.inProc || !l.inModule {
		return msg.ErrorNestedDefinition(n)
	}
	def, err := splitDefinition(n, args)
	if err != nil {
		return err
	}
	max := l.Target.MaxArgs()
	if max > 0 && len(def.Params) > max {
		return msg.ErrorTooManyArgs(args[1], max)
	}

	// registered before the body, so the function can call itself
	if def.Name == Entry {
		def.Label = sc.RegisterAs(def.Name, EntryBase)
	} else {
		def.Label = sc.Register(def.Name)
	}
	l.functions[def.Label] = len(def.Params)

	child := sc.Copy()
	l.inProc = true
	defer func() { l.inProc = false }()
	return l.Target.Define(l, def, child)
}

// (def NAME (PARAM...) BODY)
func splitDefinition(n *mod.Node, args []*mod.Node) (*Definition, *Error) {
	if len(args) != 3 {
		return nil, msg.ErrorMalformedDefinition(n, len(args))
	}
	name := args[0]
	if name.Lex != lk.SYMBOL {
		return nil, msg.ErrorExpectedName(name)
	}
	params := args[1]
	if params.Lex != lk.LIST {
		return nil, msg.ErrorExpectedParamList(params)
	}
	for _, param := range params.Leaves {
		if param.Lex != lk.SYMBOL {
			return nil, msg.ErrorExpectedParam(param)
		}
	}
	return &Definition{
		Node:   n,
		Name:   name.Text,
		Params: params.Leaves,
		Body:   args[2],
	}, nil
}
