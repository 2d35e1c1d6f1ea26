package toolchain

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	ec "github.com/jolisper/ulisp/core/errorclass"
	et "github.com/jolisper/ulisp/core/errorkind"
)

func needShell(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestBuildRunsStepsInOrder(t *testing.T) {
	needShell(t)
	dir := t.TempDir()
	source := filepath.Join(dir, "prog.asm")
	object := filepath.Join(dir, "prog.o")
	binary := filepath.Join(dir, "prog")

	tc := &Toolchain{}
	err := tc.Build("hello", source, []Step{
		{Kind: et.AssemblerFailed, Command: []string{"sh", "-c", "cp " + source + " " + object}},
		{Kind: et.LinkerFailed, Command: []string{"sh", "-c", "cp " + object + " " + binary}},
	}, object)
	if err != nil {
		t.Fatal(err.String())
	}
	contents, oserr := os.ReadFile(binary)
	if oserr != nil {
		t.Fatal(oserr)
	}
	if string(contents) != "hello" {
		t.Fatalf("expected hello, got %q", contents)
	}
	for _, f := range []string{source, object} {
		if _, oserr := os.Stat(f); !os.IsNotExist(oserr) {
			t.Errorf("intermediate file %v should have been removed", f)
		}
	}
}

func TestBuildKeep(t *testing.T) {
	needShell(t)
	dir := t.TempDir()
	source := filepath.Join(dir, "prog.ll")
	tc := &Toolchain{Keep: true}
	err := tc.Build("; ir", source, []Step{{Kind: et.AssemblerFailed, Command: []string{"sh", "-c", "true"}}})
	if err != nil {
		t.Fatal(err.String())
	}
	if _, oserr := os.Stat(source); oserr != nil {
		t.Fatalf("expected %v to be kept: %v", source, oserr)
	}
}

func TestFailingStepStopsBuild(t *testing.T) {
	needShell(t)
	dir := t.TempDir()
	marker := filepath.Join(dir, "linked")
	tc := &Toolchain{}
	err := tc.Build("x", filepath.Join(dir, "prog.asm"), []Step{
		{Kind: et.AssemblerFailed, Command: []string{"sh", "-c", "echo bad operand >&2; exit 3"}},
		{Kind: et.LinkerFailed, Command: []string{"sh", "-c", "touch " + marker}},
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Code != et.AssemblerFailed || err.Class() != ec.Toolchain {
		t.Fatalf("expected an assembler failure, got %v", err.ErrCode())
	}
	if !strings.Contains(err.Message, "bad operand") {
		t.Fatalf("expected tool output in message, got %q", err.Message)
	}
	if _, oserr := os.Stat(marker); !os.IsNotExist(oserr) {
		t.Fatal("linker should not run after a failed assembler")
	}
}

func TestMissingTool(t *testing.T) {
	tc := &Toolchain{}
	err := tc.Run(Step{Kind: et.LinkerFailed, Command: []string{"ulisp-no-such-linker"}})
	if err == nil || err.Code != et.LinkerFailed {
		t.Fatalf("expected a linker failure, got %v", err)
	}
}

func TestVerboseTrace(t *testing.T) {
	needShell(t)
	var log bytes.Buffer
	tc := &Toolchain{Verbose: true, Log: &log}
	err := tc.Run(Step{Kind: et.AssemblerFailed, Command: []string{"sh", "-c", "true"}})
	if err != nil {
		t.Fatal(err.String())
	}
	if !strings.Contains(log.String(), "running: sh -c true") {
		t.Fatalf("expected the command to be traced, got %q", log.String())
	}
}

func TestWriteFileError(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "dir", "prog.asm"), "x")
	if err == nil || err.Code != et.FileError {
		t.Fatalf("expected a file error, got %v", err)
	}
}

func TestConfig(t *testing.T) {
	cfg := &Config{Linker: "clang", Keep: true}
	if got := cfg.AssemblerOr("nasm"); got != "nasm" {
		t.Errorf("expected the default assembler, got %v", got)
	}
	if got := cfg.LinkerOr("gcc"); got != "clang" {
		t.Errorf("expected the configured linker, got %v", got)
	}
	tc := cfg.Toolchain()
	if !tc.Keep || tc.Verbose {
		t.Errorf("unexpected toolchain: %+v", tc)
	}
}
