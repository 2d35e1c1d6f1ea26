package messages

import (
	"strconv"
	"strings"

	. "github.com/jolisper/ulisp/core"
	et "github.com/jolisper/ulisp/core/errorkind"
	mod "github.com/jolisper/ulisp/core/module"
	. "github.com/jolisper/ulisp/core/util"
)

func ErrorExpectedModule(n *mod.Node) *Error {
	return NewSemanticError(et.ExpectedModule, n, "program must be a single (module ...) form")
}

func ErrorNestedModule(n *mod.Node) *Error {
	return NewSemanticError(et.NestedModule, n, "module is only allowed at the top level")
}

func ErrorEmptyList(n *mod.Node) *Error {
	return NewSemanticError(et.EmptyList, n, "empty list can't be evaluated")
}

func ErrorExpectedOperator(n *mod.Node) *Error {
	return NewSemanticError(et.ExpectedOperator, n, "first element of a list must be a symbol")
}

func ErrorMalformedDefinition(n *mod.Node, got int) *Error {
	return NewSemanticError(et.MalformedDefinition, n,
		"def expects a name, a parameter list and a body, found "+strconv.Itoa(got)+" arguments")
}

func ErrorExpectedName(n *mod.Node) *Error {
	return NewSemanticError(et.ExpectedName, n, "function name must be a symbol")
}

func ErrorExpectedParamList(n *mod.Node) *Error {
	return NewSemanticError(et.ExpectedParamList, n, "parameters must be a list")
}

func ErrorExpectedParam(n *mod.Node) *Error {
	return NewSemanticError(et.ExpectedParam, n, "function param must be a symbol")
}

func ErrorNestedDefinition(n *mod.Node) *Error {
	return NewSemanticError(et.NestedDefinition, n, "def is only allowed directly inside module")
}

func ErrorExpressionOutsideProc(n *mod.Node) *Error {
	return NewSemanticError(et.ExpressionOutsideProc, n, "only definitions may appear at module level")
}

func ErrorInvalidNumberOfArgs(n *mod.Node, name string, expected int, got int) *Error {
	msg := "invalid number of arguments to " + name +
		", expected: " + strconv.Itoa(expected) +
		", found: " + strconv.Itoa(got)
	return NewSemanticError(et.InvalidNumberOfArgs, n, msg)
}

func ErrorTooManyArgs(n *mod.Node, max int) *Error {
	return NewSemanticError(et.TooManyArgs, n,
		"target supports at most "+strconv.Itoa(max)+" arguments")
}

func ErrorNoEntryPoint() *Error {
	return NewError(et.NoEntryPoint, "no entry point, define a function named main")
}

func ErrorInvalidMain(arity int) *Error {
	return NewError(et.InvalidMain, "main must not take parameters, found "+strconv.Itoa(arity))
}

func ErrorNestingTooDeep(n *mod.Node, max int) *Error {
	return NewSemanticError(et.NestingTooDeep, n,
		"expression nesting exceeds "+strconv.Itoa(max)+" levels")
}

func ErrorNameNotDefined(n *mod.Node) *Error {
	return NewSemanticError(et.NameNotDefined, n, "undefined reference: "+n.Text)
}

func ErrorProcAsValue(n *mod.Node) *Error {
	return NewSemanticError(et.NameNotDefined, n, n.Text+" is a function, not a value")
}

func ErrorProcNotDefined(n *mod.Node, name string) *Error {
	return NewSemanticError(et.ProcNotDefined, n, "call to undefined function: "+name)
}

func ErrorNotAProcedure(n *mod.Node, name string) *Error {
	return NewSemanticError(et.NotAProcedure, n, name+" is not a function")
}

func ErrorUnsupportedLiteral(n *mod.Node) *Error {
	return NewSemanticError(et.UnsupportedLiteral, n,
		"unsupported literal kind: "+n.Lex.String()+" ("+n.Text+")")
}

func ErrorInvalidBackend(name string, available []string) *Error {
	return NewError(et.InvalidBackend,
		"unsupported backend: "+name+" (available: "+strings.Join(available, ", ")+")")
}

func ErrorToolFailed(kind et.ErrorKind, command []string, output string) *Error {
	msg := "failed to run: " + strings.Join(command, " ")
	output = strings.TrimSpace(output)
	if output != "" {
		msg += "\n" + output
	}
	return NewError(kind, msg)
}

func ErrorInternal(message string) *Error {
	return NewInternalError(message)
}

func ErrorCallsTooDeep(n *mod.Node, max int) *Error {
	return NewSemanticError(et.NestingTooDeep, n,
		"evaluation exceeds "+strconv.Itoa(max)+" nested calls")
}
