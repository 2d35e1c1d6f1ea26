// Package llvm generates textual LLVM IR. Every intermediate value is
// an instruction named after a fresh symbol from the scope, all values
// are i32.
package llvm

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/jolisper/ulisp/backends/lowering"
	"github.com/jolisper/ulisp/backends/toolchain"
	. "github.com/jolisper/ulisp/core"
	et "github.com/jolisper/ulisp/core/errorkind"
	mod "github.com/jolisper/ulisp/core/module"
	"github.com/jolisper/ulisp/core/primitive"
	"github.com/jolisper/ulisp/core/scope"
	msg "github.com/jolisper/ulisp/messages"
)

// names only the generated scaffold may define
var reserved = []string{"main"}

var zero = constant.NewInt(types.I32, 0)

type Backend struct {
	module  *ir.Module
	lowerer *lowering.Lowerer
	tools   *toolchain.Toolchain

	functions map[string]*ir.Func    // label -> function
	values    map[string]value.Value // names visible in the current function
	block     *ir.Block

	compiler string
	linker   string
}

func New(cfg *toolchain.Config) *Backend {
	b := &Backend{
		module:    ir.NewModule(),
		tools:     cfg.Toolchain(),
		functions: map[string]*ir.Func{},
		compiler:  cfg.AssemblerOr("llc"),
		linker:    cfg.LinkerOr("gcc"),
	}
	b.lowerer = lowering.New(b)
	return b
}

func (this *Backend) Compile(root *mod.Node) (string, *Error) {
	entry, err := this.lowerer.Module(root, scope.New(reserved...))
	if err != nil {
		return "", err
	}
	this.genEntry(entry)
	return this.module.String(), nil
}

// Build compiles input.ll into input.s with llc and links it into output.
func (this *Backend) Build(text string, input string, output string) *Error {
	source := input + ".ll"
	asm := input + ".s"
	steps := []toolchain.Step{
		{Kind: et.AssemblerFailed, Command: []string{this.compiler, "-o", asm, source}},
		{Kind: et.LinkerFailed, Command: []string{this.linker, "-o", output, asm}},
	}
	return this.tools.Build(text, source, steps, asm)
}

// the C runtime calls @main, its result becomes the exit status
func (this *Backend) genEntry(label string) {
	main := this.module.NewFunc("main", types.I32)
	block := main.NewBlock("entry")
	exit := block.NewCall(this.functions[label])
	exit.SetName("exit")
	block.NewRet(exit)
}

func (this *Backend) MaxArgs() int {
	return 0
}

func (this *Backend) Integer(n *mod.Node, dest string) {
	if dest == "" {
		return
	}
	this.assign(dest, this.block.NewAdd(constant.NewInt(types.I32, int64(n.Value)), zero))
}

// SSA values can't be copied, adding zero gives the value a new name.
func (this *Backend) Reference(location string, dest string) {
	if dest == "" {
		return
	}
	this.assign(dest, this.block.NewAdd(this.values[location], zero))
}

func (this *Backend) Arithmetic(l *lowering.Lowerer, op primitive.Primitive, lhs, rhs *mod.Node, dest string, sc *scope.Scope) *Error {
	a := sc.Symbol("")
	err := l.Lower(lhs, a, sc)
	if err != nil {
		return err
	}
	b := sc.Symbol("")
	err = l.Lower(rhs, b, sc)
	if err != nil {
		return err
	}
	if dest == "" {
		dest = sc.Symbol("")
	}
	x, y := this.values[a], this.values[b]
	switch op {
	case primitive.Add:
		this.assign(dest, this.block.NewAdd(x, y))
	case primitive.Sub:
		this.assign(dest, this.block.NewSub(x, y))
	case primitive.Mul:
		this.assign(dest, this.block.NewMul(x, y))
	default:
		return msg.ErrorInternal("not an arithmetic primitive: " + op.String())
	}
	return nil
}

func (this *Backend) Call(l *lowering.Lowerer, c *lowering.Call, dest string, sc *scope.Scope) *Error {
	callee, ok := this.functions[c.Label]
	if !ok {
		return msg.ErrorInternal("function was not generated: " + c.Label)
	}
	args := make([]value.Value, len(c.Args))
	for i, arg := range c.Args {
		name := sc.Symbol("")
		err := l.Lower(arg, name, sc)
		if err != nil {
			return err
		}
		args[i] = this.values[name]
	}
	if dest == "" {
		dest = sc.Symbol("")
	}
	this.assign(dest, this.block.NewCall(callee, args...))
	return nil
}

// Define adds the function to the module before lowering its body, so
// the body can call it.
func (this *Backend) Define(l *lowering.Lowerer, def *lowering.Definition, child *scope.Scope) *Error {
	this.values = map[string]value.Value{}
	params := make([]*ir.Param, len(def.Params))
	for i, param := range def.Params {
		name := child.Register(param.Text)
		params[i] = ir.NewParam(name, types.I32)
		this.values[name] = params[i]
	}
	f := this.module.NewFunc(def.Label, types.I32, params...)
	this.functions[def.Label] = f
	this.block = f.NewBlock(child.Symbol("entry"))

	ret := child.Symbol("")
	err := l.Lower(def.Body, ret, child)
	if err != nil {
		return err
	}
	this.block.NewRet(this.values[ret])
	return nil
}

func (this *Backend) assign(dest string, v value.Named) {
	v.SetName(dest)
	this.values[dest] = v
}
