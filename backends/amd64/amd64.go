// Package amd64 generates NASM assembly for x86-64.
//
// Values live in registers. Arguments are passed in rdi, rsi and rdx,
// parameters are kept in rbx, rbp and r12 for the whole body, results
// come back in rax and rcx is scratch for arithmetic.
package amd64

import (
	"strconv"

	. "github.com/jolisper/ulisp/core"
	et "github.com/jolisper/ulisp/core/errorkind"
	mod "github.com/jolisper/ulisp/core/module"
	"github.com/jolisper/ulisp/core/primitive"
	"github.com/jolisper/ulisp/core/scope"
	. "github.com/jolisper/ulisp/core/strbuilder"
	"github.com/jolisper/ulisp/backends/lowering"
	"github.com/jolisper/ulisp/backends/toolchain"
	msg "github.com/jolisper/ulisp/messages"
)

const (
	Add  = "add"
	Sub  = "sub"
	IMul = "imul"

	Mov  = "mov"
	Push = "push"
	Pop  = "pop"

	Call    = "call"
	Syscall = "syscall"
	Ret     = "ret"
)

type register struct {
	QWord string
	DWord string
	Word  string
	Byte  string
}

var RAX = &register{QWord: "rax", DWord: "eax", Word: "ax", Byte: "al"}
var RCX = &register{QWord: "rcx", DWord: "ecx", Word: "cx", Byte: "cl"}
var RDX = &register{QWord: "rdx", DWord: "edx", Word: "dx", Byte: "dl"}
var RBX = &register{QWord: "rbx", DWord: "ebx", Word: "bx", Byte: "bl"}
var RSP = &register{QWord: "rsp", DWord: "esp", Word: "sp", Byte: "spl"}
var RBP = &register{QWord: "rbp", DWord: "ebp", Word: "bp", Byte: "bpl"}
var RSI = &register{QWord: "rsi", DWord: "esi", Word: "si", Byte: "sil"}
var RDI = &register{QWord: "rdi", DWord: "edi", Word: "di", Byte: "dil"}
var R12 = &register{QWord: "r12", DWord: "r12d", Word: "r12w", Byte: "r12b"}

var Registers = []*register{
	RAX, RCX, RDX, RBX, RSP, RBP, RSI, RDI,
	{QWord: "r8", DWord: "r8d", Word: "r8w", Byte: "r8b"},
	{QWord: "r9", DWord: "r9d", Word: "r9w", Byte: "r9b"},
	{QWord: "r10", DWord: "r10d", Word: "r10w", Byte: "r10b"},
	{QWord: "r11", DWord: "r11d", Word: "r11w", Byte: "r11b"},
	R12,
	{QWord: "r13", DWord: "r13d", Word: "r13w", Byte: "r13b"},
	{QWord: "r14", DWord: "r14d", Word: "r14w", Byte: "r14b"},
	{QWord: "r15", DWord: "r15d", Word: "r15w", Byte: "r15b"},
}

// ParamRegisters[i] carries the i-th argument of a call,
// LocalRegisters[i] keeps the i-th parameter alive during the body.
var ParamRegisters = []*register{RDI, RSI, RDX}
var LocalRegisters = []*register{RBX, RBP, R12}

var keywords = []string{
	Add, Sub, IMul, Mov, Push, Pop, Call, Syscall, Ret,
	"global", "section", "SECTION", "byte", "word", "dword", "qword",
}

type amd64Instr struct {
	Instr string
	Op1   string
	Op2   string
}

func (this *amd64Instr) String() string {
	if this.Instr == "" {
		return "???"
	}
	if this.Op1 == "" {
		return this.Instr
	}
	if this.Op2 == "" {
		return this.Instr + "\t" + this.Op1
	}
	return this.Instr + "\t" + this.Op1 + ", " + this.Op2
}

func genUnaryInstr(instr, op string) *amd64Instr {
	return &amd64Instr{Instr: instr, Op1: op}
}

func genBinInstr(instr, op1, op2 string) *amd64Instr {
	return &amd64Instr{Instr: instr, Op1: op1, Op2: op2}
}

// Platform holds what changes between operating systems: the object
// format, the symbol the C runtime jumps to and the exit syscall.
type Platform struct {
	Format string
	Entry  string
	Exit   string
}

var Linux = &Platform{Format: "elf64", Entry: "main", Exit: "60"}
var Darwin = &Platform{Format: "macho64", Entry: "_main", Exit: "0x2000001"}

func PlatformFor(goos string) *Platform {
	if goos == "darwin" {
		return Darwin
	}
	return Linux
}

type Backend struct {
	out      *Builder
	lowerer  *lowering.Lowerer
	platform *Platform
	tools    *toolchain.Toolchain

	assembler string
	linker    string
}

func New(cfg *toolchain.Config) *Backend {
	b := &Backend{
		out:       &Builder{},
		platform:  PlatformFor(cfg.GOOS),
		tools:     cfg.Toolchain(),
		assembler: cfg.AssemblerOr("nasm"),
		linker:    cfg.LinkerOr("gcc"),
	}
	b.lowerer = lowering.New(b)
	return b
}

// Compile returns the whole assembly file for the module rooted at
// root, or the first error found.
func (this *Backend) Compile(root *mod.Node) (string, *Error) {
	this.emitPrefix()
	sc := scope.New(this.reserved()...)
	entry, err := this.lowerer.Module(root, sc)
	if err != nil {
		return "", err
	}
	this.emitEntry(entry)
	return this.out.String(), nil
}

// Build assembles input.asm into input.o and links it into output.
func (this *Backend) Build(text string, input string, output string) *Error {
	source := input + ".asm"
	object := input + ".o"
	steps := []toolchain.Step{
		{Kind: et.AssemblerFailed, Command: []string{this.assembler, "-f", this.platform.Format, "-o", object, source}},
		{Kind: et.LinkerFailed, Command: []string{this.linker, "-o", output, object}},
	}
	return this.tools.Build(text, source, steps, object)
}

func (this *Backend) reserved() []string {
	out := append([]string{this.platform.Entry}, keywords...)
	for _, r := range Registers {
		out = append(out, r.QWord, r.DWord, r.Word, r.Byte)
	}
	return out
}

// label marks a user symbol as an identifier, so names like inc or
// loop are not read as NASM instructions.
func label(name string) string {
	return "$" + name
}

func (this *Backend) emit(depth int, code string) {
	this.out.Emit(depth, code)
}

func (this *Backend) instr(i *amd64Instr) {
	this.out.Emit(1, i.String())
}

func (this *Backend) emitPrefix() {
	this.emit(0, "; Generated with ulisp")
	this.emit(0, ";")
	this.emit(0, "; To compile run the following:")
	this.emit(0, "; $ nasm -f "+this.platform.Format+" program.asm")
	this.emit(0, "; $ gcc -o program program.o")
	this.emit(0, "")
	this.emit(1, "global "+this.platform.Entry)
	this.emit(0, "")
	this.emit(1, "SECTION .text")
	this.emit(0, "")
}

// the C runtime calls the entry symbol, the user main is called from it
// and its result becomes the exit status
func (this *Backend) emitEntry(entry string) {
	this.emit(0, this.platform.Entry+":")
	this.instr(genUnaryInstr(Call, label(entry)))
	this.instr(genBinInstr(Mov, RDI.QWord, RAX.QWord))
	this.instr(genBinInstr(Mov, RAX.QWord, this.platform.Exit))
	this.instr(&amd64Instr{Instr: Syscall})
}

func (this *Backend) MaxArgs() int {
	return len(ParamRegisters)
}

func (this *Backend) Integer(n *mod.Node, dest string) {
	if dest == "" {
		return
	}
	this.instr(genBinInstr(Mov, dest, strconv.FormatInt(int64(n.Value), 10)))
}

func (this *Backend) Reference(location string, dest string) {
	if dest == "" || dest == location {
		return
	}
	this.instr(genBinInstr(Mov, dest, location))
}

// Arithmetic keeps the left operand on the machine stack while the right
// one is computed, so calls inside either operand can't clobber it.
func (this *Backend) Arithmetic(l *lowering.Lowerer, op primitive.Primitive, lhs, rhs *mod.Node, dest string, sc *scope.Scope) *Error {
	var instr string
	switch op {
	case primitive.Add:
		instr = Add
	case primitive.Sub:
		instr = Sub
	case primitive.Mul:
		instr = IMul
	default:
		return msg.ErrorInternal("not an arithmetic primitive: " + op.String())
	}

	err := l.Lower(lhs, RAX.QWord, sc)
	if err != nil {
		return err
	}
	this.instr(genUnaryInstr(Push, RAX.QWord))
	err = l.Lower(rhs, RAX.QWord, sc)
	if err != nil {
		return err
	}
	this.instr(genBinInstr(Mov, RCX.QWord, RAX.QWord))
	this.instr(genUnaryInstr(Pop, RAX.QWord))
	this.instr(genBinInstr(instr, RAX.QWord, RCX.QWord))
	this.moveResult(dest)
	return nil
}

// Call saves the argument registers of the enclosing call sequence,
// fills them with the new arguments and restores them afterwards.
func (this *Backend) Call(l *lowering.Lowerer, c *lowering.Call, dest string, sc *scope.Scope) *Error {
	if len(c.Args) > len(ParamRegisters) {
		return msg.ErrorTooManyArgs(c.Node, len(ParamRegisters))
	}
	for i := range c.Args {
		this.instr(genUnaryInstr(Push, ParamRegisters[i].QWord))
	}
	for i, arg := range c.Args {
		err := l.Lower(arg, ParamRegisters[i].QWord, sc)
		if err != nil {
			return err
		}
	}
	this.instr(genUnaryInstr(Call, label(c.Label)))
	for i := len(c.Args) - 1; i >= 0; i-- {
		this.instr(genUnaryInstr(Pop, ParamRegisters[i].QWord))
	}
	this.moveResult(dest)
	return nil
}

// Define binds each parameter to its preserved register, not to the
// argument register it arrived in: argument registers are overwritten
// by any call made from the body.
func (this *Backend) Define(l *lowering.Lowerer, def *lowering.Definition, child *scope.Scope) *Error {
	this.emit(0, label(def.Label)+":")
	for i, param := range def.Params {
		local := LocalRegisters[i].QWord
		this.instr(genUnaryInstr(Push, local))
		this.instr(genBinInstr(Mov, local, ParamRegisters[i].QWord))
		if !child.Bind(param.Text, local) {
			return msg.ErrorInternal("register " + local + " bound twice in " + def.Name)
		}
	}

	err := l.Lower(def.Body, RAX.QWord, child)
	if err != nil {
		return err
	}

	for i := len(def.Params) - 1; i >= 0; i-- {
		this.instr(genUnaryInstr(Pop, LocalRegisters[i].QWord))
	}
	this.instr(&amd64Instr{Instr: Ret})
	this.emit(0, "")
	return nil
}

func (this *Backend) moveResult(dest string) {
	if dest == "" || dest == RAX.QWord {
		return
	}
	this.instr(genBinInstr(Mov, dest, RAX.QWord))
}
