package util

import (
	. "github.com/jolisper/ulisp/core"
	et "github.com/jolisper/ulisp/core/errorkind"
	mod "github.com/jolisper/ulisp/core/module"
	sv "github.com/jolisper/ulisp/core/severity"
)

// Place locates a node. The file is filled in later by the pipeline
// that owns it, see core.Error.Locate.
func Place(n *mod.Node) *Location {
	if n == nil || n.Range == nil {
		return nil
	}
	return &Location{Range: n.Range}
}

func NewInternalError(message string) *Error {
	return &Error{
		Code:     et.InternalCompilerError,
		Severity: sv.InternalError,
		Message:  message,
	}
}

func NewSemanticError(t et.ErrorKind, n *mod.Node, message string) *Error {
	return &Error{
		Code:     t,
		Severity: sv.Error,
		Location: Place(n),
		Message:  message,
	}
}

func NewError(t et.ErrorKind, message string) *Error {
	return &Error{
		Code:     t,
		Severity: sv.Error,
		Message:  message,
	}
}
