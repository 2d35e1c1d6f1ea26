package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/jolisper/ulisp/backends"
	. "github.com/jolisper/ulisp/core"
	"github.com/jolisper/ulisp/format"
	"github.com/jolisper/ulisp/pipelines"
	"github.com/jolisper/ulisp/testing"
)

var lexemes = flag.Bool("lexemes", false, "runs the lexer and prints the tokens")
var ast = flag.Bool("ast", false, "runs the lexer and parser, prints AST output")
var eval = flag.Bool("eval", false, "evaluates the program and prints the value of main")
var asm = flag.Bool("asm", false, "runs the full compiler, prints the target text")
var _format = flag.Bool("fmt", false, "formats code and prints it to stdout")

var backend = flag.String("b", backends.Default, "backend: "+strings.Join(backends.Names(), ", "))
var outname = flag.String("o", "a.out", "output name of file")
var keep = flag.Bool("keep", false, "keeps the intermediate files")
var assembler = flag.String("as", "", "assembler to use instead of the backend default")
var linker = flag.String("ld", "", "linker to use instead of gcc")

var test = flag.Bool("test", false, "runs tests for all files in a folder")
var testTimeout = flag.Duration("testtimeout", 1*time.Second, "sets timeout limit for a test")

var verbose = flag.Bool("v", false, "verbose tests and toolchain invocations")
var repl = flag.Bool("repl", false, "starts an interactive session")

var profile = flag.Bool("prof", false, "start profiler")

func main() {
	flag.Parse()
	if *profile {
		file := "out.pprof"
		f, err := os.Create(file)
		if err != nil {
			Fatal(err.Error() + "\n")
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}
	checkValid()
	if *repl {
		os.Exit(Repl(*backend))
	}
	args := flag.Args()
	if len(args) != 1 {
		Fatal("invalid number of arguments\n")
	}
	run(args[0])
}

func run(filename string) {
	if *test {
		settings := &testing.Settings{
			Backend: *backend,
			Options: options(),
			Timeout: *testTimeout,
		}
		var trace func(string)
		if *verbose {
			trace = Stdout
		}
		res, err := testing.Folder(filename, getStage(), settings, trace)
		OkOrBurst(err)
		printResults(res)
		return
	}
	normalMode(filename)
}

func normalMode(filename string) {
	switch true {
	case *lexemes:
		lexemes, err := pipelines.Lexemes(filename)
		OkOrBurst(err)
		output := []string{}
		for _, lexeme := range lexemes {
			output = append(output, lexeme.Text)
		}
		fmt.Println(strings.Join(output, ", "))
	case *ast:
		n, err := pipelines.Ast(filename)
		OkOrBurst(err)
		fmt.Println(n)
	case *eval:
		v, err := pipelines.Eval(filename)
		OkOrBurst(err)
		fmt.Println(v)
	case *asm:
		text, err := pipelines.Target(filename, *backend, options())
		OkOrBurst(err)
		fmt.Print(text)
	case *_format:
		n, err := pipelines.Ast(filename)
		OkOrBurst(err)
		fmt.Print(format.Format(n))
	default:
		_, err := pipelines.Compile(filename, *outname, *backend, options())
		OkOrBurst(err)
	}
}

func options() *backends.Options {
	return &backends.Options{
		Assembler: *assembler,
		Linker:    *linker,
		Keep:      *keep,
		Verbose:   *verbose,
		Log:       os.Stderr,
		GOOS:      runtime.GOOS,
	}
}

func checkValid() {
	var selected = []bool{*lexemes, *ast, *eval, *asm, *_format, *repl}
	var count = 0
	for _, b := range selected {
		if b {
			count++
		}
	}
	if count > 1 {
		Fatal("only one of lexemes, ast, eval, asm, fmt or repl flags may be used at a time\n")
	}
	_, err := backends.New(*backend, nil)
	OkOrBurst(err)
}

func printResults(results []*testing.TestResult) {
	failed := 0
	Stdout("\n")
	for _, res := range results {
		if !res.Ok && res.Message != "" {
			Stdout(res.File + "\t" + res.Message + "\n")
		}
		if !res.Ok {
			failed += 1
		}
	}
	Stdout("\n")
	Stdout("failed: " + strconv.Itoa(failed) + "\n")
	Stdout("total: " + strconv.Itoa(len(results)) + "\n")
	if failed > 0 {
		os.Exit(1)
	}
}

func getStage() testing.Stage {
	switch {
	case *lexemes:
		return testing.S_Lexer
	case *ast:
		return testing.S_Parser
	case *eval:
		return testing.S_Eval
	case *asm:
		return testing.S_Target
	case *_format:
		return testing.S_Format
	default:
		return testing.S_Compile
	}
}

func OkOrBurst(e *Error) {
	if e != nil {
		Fatal(e.String() + "\n")
	}
}

func Stdout(s string) {
	os.Stdout.Write([]byte(s))
}

func Fatal(s string) {
	os.Stderr.Write([]byte(s))
	os.Exit(1)
}
