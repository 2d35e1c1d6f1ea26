package pipelines

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jolisper/ulisp/backends"
	"github.com/jolisper/ulisp/constexpr"
	. "github.com/jolisper/ulisp/core"
	mod "github.com/jolisper/ulisp/core/module"
	"github.com/jolisper/ulisp/core/util"
	et "github.com/jolisper/ulisp/core/errorkind"
	"github.com/jolisper/ulisp/lexer"
	"github.com/jolisper/ulisp/parser"
)

// processes a single file and returns all tokens
// or an error
func Lexemes(file string) ([]*mod.Node, *Error) {
	s, err := getFile(file)
	if err != nil {
		return nil, err
	}
	st := lexer.NewLexer(file, s)
	return st.ReadAll()
}

// processes a single file and returns it's AST
// or an error
func Ast(file string) (*mod.Node, *Error) {
	s, err := getFile(file)
	if err != nil {
		return nil, err
	}
	return parser.Parse(file, s)
}

// evaluates the program at compile time, returning what main computes
func Eval(file string) (int32, *Error) {
	n, err := Ast(file)
	if err != nil {
		return 0, err
	}
	v, err := constexpr.Eval(n)
	if err != nil {
		return 0, err.Locate(file)
	}
	return v, nil
}

// generates the target text (assembly or IR) for a file
func Target(file string, backend string, opts *backends.Options) (string, *Error) {
	n, err := Ast(file)
	if err != nil {
		return "", err
	}
	b, err := backends.New(backend, opts)
	if err != nil {
		return "", err
	}
	text, err := b.Compile(n)
	if err != nil {
		return "", err.Locate(file)
	}
	return text, nil
}

// compiles a file into an executable named output, intermediate files
// are written next to the input
func Compile(file string, output string, backend string, opts *backends.Options) (string, *Error) {
	input, err := stem(file)
	if err != nil {
		return "", err
	}
	n, err := Ast(file)
	if err != nil {
		return "", err
	}
	b, err := backends.New(backend, opts)
	if err != nil {
		return "", err
	}
	text, err := b.Compile(n)
	if err != nil {
		return "", err.Locate(file)
	}
	if output == "" {
		output = "a.out"
	}
	err = checkOutput(file, input, output)
	if err != nil {
		return "", err
	}
	err = b.Build(text, input, output)
	if err != nil {
		return "", err
	}
	return output, nil
}

// Source compiles text that doesn't live in a file, the REPL uses it.
// Non-module input is wrapped as the body of main.
func Source(name string, text string, backend string) (string, int32, *Error) {
	n, err := parser.Parse(name, text)
	if err != nil {
		return "", 0, err
	}
	if op, ok := n.Head(); !ok || op != "module" {
		n = mod.List(mod.Symbol("module"),
			mod.List(mod.Symbol("def"), mod.Symbol("main"), mod.List(), n))
	}
	v, err := constexpr.Eval(n)
	if err != nil {
		return "", 0, err
	}
	out, err := backends.Compile(backend, n)
	if err != nil {
		return "", 0, err
	}
	return out, v, nil
}

// the build writes <stem>.asm, <stem>.o, <stem>.ll and <stem>.s, none
// of them may be the input itself
func stem(file string) (string, *Error) {
	ext := filepath.Ext(file)
	base := strings.TrimSuffix(file, ext)
	if base == "" || strings.HasSuffix(base, "/") {
		return "", util.NewError(et.InvalidFileName, "invalid file name: "+file)
	}
	switch ext {
	case ".asm", ".o", ".ll", ".s":
		return "", util.NewError(et.InvalidFileName, "input would be overwritten by the build: "+file)
	}
	return base, nil
}

// checkOutput refuses an output the build would overwrite or remove.
func checkOutput(file string, input string, output string) *Error {
	out := filepath.Clean(output)
	for _, path := range []string{file, input + ".asm", input + ".o", input + ".ll", input + ".s"} {
		if out == filepath.Clean(path) {
			return util.NewError(et.InvalidFileName, "output clashes with a file used by the build: "+output)
		}
	}
	return nil
}

func getFile(file string) (string, *Error) {
	text, e := os.ReadFile(file)
	if e != nil {
		return "", ProcessFileError(e)
	}
	return string(text), nil
}
