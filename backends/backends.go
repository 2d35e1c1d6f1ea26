// Package backends selects a code generator by name.
package backends

import (
	"sort"

	"github.com/jolisper/ulisp/backends/amd64"
	"github.com/jolisper/ulisp/backends/llvm"
	"github.com/jolisper/ulisp/backends/toolchain"
	. "github.com/jolisper/ulisp/core"
	mod "github.com/jolisper/ulisp/core/module"
	msg "github.com/jolisper/ulisp/messages"
)

const Default = "x86"

type Options = toolchain.Config

// Backend compiles a parsed program into target text and builds an
// executable from that text. A Backend is used for a single program.
type Backend interface {
	Compile(root *mod.Node) (string, *Error)
	// Build writes text next to input and leaves the executable at output.
	Build(text string, input string, output string) *Error
}

var constructors = map[string]func(*Options) Backend{
	"x86":  func(o *Options) Backend { return amd64.New(o) },
	"llvm": func(o *Options) Backend { return llvm.New(o) },
}

func Names() []string {
	out := make([]string, 0, len(constructors))
	for name := range constructors {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func New(name string, opts *Options) (Backend, *Error) {
	create, ok := constructors[name]
	if !ok {
		return nil, msg.ErrorInvalidBackend(name, Names())
	}
	if opts == nil {
		opts = &Options{}
	}
	return create(opts), nil
}

// Compile is a shorthand for a fresh backend compiling root.
func Compile(name string, root *mod.Node) (string, *Error) {
	b, err := New(name, nil)
	if err != nil {
		return "", err
	}
	return b.Compile(root)
}
