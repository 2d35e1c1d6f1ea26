package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jolisper/ulisp/backends"
	"github.com/jolisper/ulisp/constexpr"
	"github.com/jolisper/ulisp/parser"
	"github.com/jolisper/ulisp/pipelines"
	"github.com/peterh/liner"
)

const (
	historyFile = ".ulisp_history"
	promptMain  = "ulisp> "
	promptCont  = "...... "
)

// Repl reads programs and prints the target text the current backend
// generates for them, followed by the exit status they would have.
// Anything that isn't a module becomes the body of main.
func Repl(backend string) int {
	fmt.Println("ulisp, type :help for commands")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(code, ":") {
			var quit bool
			backend, quit = command(code, backend)
			if quit {
				return 0
			}
			continue
		}

		text, v, err := pipelines.Source("repl", code, backend)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.String())
			continue
		}
		fmt.Print(text)
		fmt.Printf("\u001b[34m=> %d (exit status %d)\u001b[0m\n", v, constexpr.ExitStatus(v))
	}
}

func command(code string, backend string) (string, bool) {
	fields := strings.Fields(code)
	switch fields[0] {
	case ":quit", ":q":
		return backend, true
	case ":backend":
		if len(fields) == 1 {
			fmt.Println(backend)
			return backend, false
		}
		_, err := backends.New(fields[1], nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.String())
			return backend, false
		}
		return fields[1], false
	case ":help":
		fmt.Println(":backend [name]  shows or switches the backend (" + strings.Join(backends.Names(), ", ") + ")")
		fmt.Println(":quit            leaves the session")
	default:
		fmt.Println("unknown command, type :help")
	}
	return backend, false
}

// readByParseProbe keeps reading lines while the input so far is an
// unfinished expression.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		_, perr := parser.Parse("repl", src)
		if parser.IsIncomplete(perr) && strings.TrimSpace(src) != "" {
			continue
		}
		return src, true
	}
}
