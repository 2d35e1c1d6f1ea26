package testing_test

import (
	"os/exec"
	"strings"
	"testing"
	"time"

	ut "github.com/jolisper/ulisp/testing"
)

func failures(t *testing.T, results []*ut.TestResult) {
	t.Helper()
	if len(results) == 0 {
		t.Fatal("no test files found")
	}
	for _, res := range results {
		if !res.Ok {
			t.Errorf("%v: %v", res.File, res.Message)
		}
	}
}

func TestFolderFrontend(t *testing.T) {
	for _, stage := range []ut.Stage{ut.S_Lexer, ut.S_Parser, ut.S_Format} {
		results, err := ut.Folder("testdata", stage, &ut.Settings{}, nil)
		if err != nil {
			t.Fatal(err.String())
		}
		for _, res := range results {
			// expectations are only checked against the stage that
			// produces them
			if !res.Ok && !strings.Contains(res.File, ".E") {
				t.Errorf("%v: %v", res.File, res.Message)
			}
		}
	}
}

func TestFolderEval(t *testing.T) {
	results, err := ut.Folder("testdata", ut.S_Eval, &ut.Settings{}, nil)
	if err != nil {
		t.Fatal(err.String())
	}
	failures(t, results)
}

func TestFolderTarget(t *testing.T) {
	for _, backend := range []string{"x86", "llvm"} {
		results, err := ut.Folder("testdata", ut.S_Target, &ut.Settings{Backend: backend}, nil)
		if err != nil {
			t.Fatal(err.String())
		}
		failures(t, results)
	}
}

func TestFolderTrace(t *testing.T) {
	lines := []string{}
	_, err := ut.Folder("testdata", ut.S_Parser, &ut.Settings{}, func(s string) {
		lines = append(lines, s)
	})
	if err != nil {
		t.Fatal(err.String())
	}
	joined := strings.Join(lines, "")
	if !strings.Contains(joined, "entering: testdata/errors") {
		t.Fatalf("subfolder was not visited:\n%v", joined)
	}
}

func TestMismatchedError(t *testing.T) {
	res := ut.Test("testdata/errors/arity.E021.ul", ut.S_Parser, &ut.Settings{})
	if !res.Ok {
		t.Fatalf("parser stage must accept a program with a semantic error: %v", res.Message)
	}
	res = ut.Test("testdata/errors/unterminated.E105.ul", ut.S_Eval, &ut.Settings{})
	if !res.Ok {
		t.Fatalf("unexpected failure: %v", res.Message)
	}
	res = ut.Test("testdata/add.ul", ut.S_Target, &ut.Settings{Backend: "wasm"})
	if res.Ok {
		t.Fatal("unknown backend must fail")
	}
}

func TestFolderCompile(t *testing.T) {
	for _, tool := range []string{"nasm", "gcc"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skip(tool + " not available")
		}
	}
	results, err := ut.Folder("testdata", ut.S_Compile, &ut.Settings{Backend: "x86", Timeout: 5 * time.Second}, nil)
	if err != nil {
		t.Fatal(err.String())
	}
	failures(t, results)
}
