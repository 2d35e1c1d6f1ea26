package amd64

import (
	"strings"
	"testing"

	"github.com/jolisper/ulisp/backends/toolchain"
	et "github.com/jolisper/ulisp/core/errorkind"
	"github.com/jolisper/ulisp/parser"
)

func compile(t *testing.T, goos string, src string) string {
	t.Helper()
	root, err := parser.Parse("test.ul", src)
	if err != nil {
		t.Fatal(err.String())
	}
	text, err := New(&toolchain.Config{GOOS: goos}).Compile(root)
	if err != nil {
		t.Fatal(err.String())
	}
	return text
}

func expectSection(t *testing.T, text string, section string) {
	t.Helper()
	if !strings.Contains(text, section) {
		t.Fatalf("expected:\n%v\nin:\n%v", section, text)
	}
}

func TestLiteralMain(t *testing.T) {
	text := compile(t, "linux", "(module (def main () 42))")
	expectSection(t, text, "\tglobal main\n")
	expectSection(t, text, "$program_main:\n\tmov\trax, 42\n\tret\n")
	expectSection(t, text, "main:\n\tcall\t$program_main\n\tmov\trdi, rax\n\tmov\trax, 60\n\tsyscall\n")
}

func TestArithmetic(t *testing.T) {
	text := compile(t, "linux", "(module (def main () (+ 1 2)))")
	expectSection(t, text, "$program_main:\n"+
		"\tmov\trax, 1\n"+
		"\tpush\trax\n"+
		"\tmov\trax, 2\n"+
		"\tmov\trcx, rax\n"+
		"\tpop\trax\n"+
		"\tadd\trax, rcx\n"+
		"\tret\n")
}

func TestNestedArithmetic(t *testing.T) {
	text := compile(t, "linux", "(module (def main () (* (- 10 4) 2)))")
	expectSection(t, text, "\tsub\trax, rcx\n")
	expectSection(t, text, "\timul\trax, rcx\n")
	if strings.Index(text, "sub\t") > strings.Index(text, "imul\t") {
		t.Fatalf("subtraction must happen before the multiplication:\n%v", text)
	}
}

func TestCallAndParams(t *testing.T) {
	text := compile(t, "linux", "(module (def add (a b) (+ a b)) (def main () (add 3 4)))")
	expectSection(t, text, "$add1:\n"+
		"\tpush\trbx\n"+
		"\tmov\trbx, rdi\n"+
		"\tpush\trbp\n"+
		"\tmov\trbp, rsi\n"+
		"\tmov\trax, rbx\n"+
		"\tpush\trax\n"+
		"\tmov\trax, rbp\n"+
		"\tmov\trcx, rax\n"+
		"\tpop\trax\n"+
		"\tadd\trax, rcx\n"+
		"\tpop\trbp\n"+
		"\tpop\trbx\n"+
		"\tret\n")
	expectSection(t, text, "$program_main:\n"+
		"\tpush\trdi\n"+
		"\tpush\trsi\n"+
		"\tmov\trdi, 3\n"+
		"\tmov\trsi, 4\n"+
		"\tcall\t$add1\n"+
		"\tpop\trsi\n"+
		"\tpop\trdi\n"+
		"\tret\n")
}

func TestCallIntoRegister(t *testing.T) {
	text := compile(t, "linux", "(module (def id (x) x) (def main () (id (id 5))))")
	expectSection(t, text, "\tcall\t$id\n\tpop\trdi\n\tmov\trdi, rax\n")
}

func TestDarwin(t *testing.T) {
	text := compile(t, "darwin", "(module (def main () 1))")
	expectSection(t, text, "\tglobal _main\n")
	expectSection(t, text, "_main:\n\tcall\t$program_main\n\tmov\trdi, rax\n\tmov\trax, 0x2000001\n")
}

func TestReservedNames(t *testing.T) {
	text := compile(t, "linux", "(module (def rax () 1) (def mov () 2) (def main () (+ (rax) (mov))))")
	expectSection(t, text, "$rax1:\n")
	expectSection(t, text, "$mov1:\n")
	expectSection(t, text, "\tcall\t$rax1\n")
}

func TestInstructionNames(t *testing.T) {
	text := compile(t, "linux", "(module (def inc (x) (+ x 1)) (def and (a b) (* a b)) (def main () (and (inc 41) 1)))")
	expectSection(t, text, "$inc:\n")
	expectSection(t, text, "$and:\n")
	expectSection(t, text, "\tcall\t$inc\n")
	expectSection(t, text, "\tcall\t$and\n")
	for _, line := range strings.Split(text, "\n") {
		if line == "inc:" || line == "and:" || line == "\tcall\tinc" || line == "\tcall\tand" {
			t.Fatalf("bare instruction name used as a label: %q", line)
		}
	}
}

func TestTooManyParams(t *testing.T) {
	root, err := parser.Parse("test.ul", "(module (def f (a b c d) a) (def main () 0))")
	if err != nil {
		t.Fatal(err.String())
	}
	_, err = New(&toolchain.Config{}).Compile(root)
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Code != et.TooManyArgs {
		t.Fatalf("expected %v, got %v", et.TooManyArgs, err.Code)
	}
}

func TestInstrString(t *testing.T) {
	tests := []struct {
		instr    *amd64Instr
		expected string
	}{
		{&amd64Instr{Instr: Ret}, "ret"},
		{genUnaryInstr(Push, "rbx"), "push\trbx"},
		{genBinInstr(Mov, "rax", "42"), "mov\trax, 42"},
		{&amd64Instr{}, "???"},
	}
	for _, tt := range tests {
		if got := tt.instr.String(); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}

func TestBuildCommands(t *testing.T) {
	b := New(&toolchain.Config{Assembler: "yasm", GOOS: "darwin"})
	if b.assembler != "yasm" || b.linker != "gcc" {
		t.Fatalf("unexpected tools: %v %v", b.assembler, b.linker)
	}
	if b.platform.Format != "macho64" {
		t.Fatalf("unexpected format: %v", b.platform.Format)
	}
}
