package testing

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jolisper/ulisp/backends"
	"github.com/jolisper/ulisp/constexpr"
	. "github.com/jolisper/ulisp/core"
	et "github.com/jolisper/ulisp/core/errorkind"
	"github.com/jolisper/ulisp/format"
	"github.com/jolisper/ulisp/parser"
	"github.com/jolisper/ulisp/pipelines"
)

// files are tested by compiling them, running the executable and
// comparing its exit status with what the evaluator computes
//
// the expected error is located directly in the name
// of the file:
// 	program_name.E021.ul
// 	             ^ error code
// 	program_name.ul
// 	            ^ no error code (exit status must match evaluation)

type TestResult struct {
	File    string
	Message string
	Ok      bool
}

func (res *TestResult) String() string {
	if res.Ok {
		return "\u001b[34mok\u001b[0m"
	}
	return "\u001b[31mfail\u001b[0m"
}

type Settings struct {
	Backend string
	Options *backends.Options
	Timeout time.Duration
}

type Stage func(filename string, s *Settings) (outfile string, err *Error)

func S_Lexer(filename string, s *Settings) (string, *Error) {
	_, err := pipelines.Lexemes(filename)
	return "", err
}

func S_Parser(filename string, s *Settings) (string, *Error) {
	_, err := pipelines.Ast(filename)
	return "", err
}

func S_Eval(filename string, s *Settings) (string, *Error) {
	_, err := pipelines.Eval(filename)
	return "", err
}

func S_Target(filename string, s *Settings) (string, *Error) {
	_, err := pipelines.Target(filename, s.Backend, s.Options)
	return "", err
}

// formatted output must parse back into the same program
func S_Format(filename string, s *Settings) (string, *Error) {
	n, err := pipelines.Ast(filename)
	if err != nil {
		return "", err
	}
	text := format.Format(n)
	again, err := parser.Parse(filename, text)
	if err != nil {
		return "", err
	}
	if format.Format(again) != text {
		return "", &Error{Code: et.InternalCompilerError, Message: "formatting is not stable"}
	}
	return "", nil
}

func S_Compile(filename string, s *Settings) (string, *Error) {
	dir, oserr := os.MkdirTemp("", "ulisp_test_*")
	if oserr != nil {
		return "", ProcessFileError(oserr)
	}
	output := filepath.Join(dir, strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	out, err := pipelines.Compile(filename, output, s.Backend, s.Options)
	if err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	return out, nil
}

func Test(file string, st Stage, s *Settings) (res TestResult) {
	defer recoverIfFatal(file, &res)
	expectedErr := extractError(file)

	outfile, err := st(file, s)

	if err != nil {
		if err.Code == et.InternalCompilerError {
			return TestResult{
				File:    file,
				Ok:      false,
				Message: err.Message,
			}
		}
		return compareError(file, err, expectedErr)
	}
	if outfile != "" {
		defer os.RemoveAll(filepath.Dir(outfile))
		if expectedErr != "" {
			return compareError(file, nil, expectedErr)
		}
		return checkStatus(file, outfile, s.Timeout)
	}

	return TestResult{
		File: file,
		Ok:   true,
	}
}

func checkStatus(file string, outfile string, timeout time.Duration) TestResult {
	v, err := pipelines.Eval(file)
	if err != nil {
		return newResult(file, err)
	}
	expected := constexpr.ExitStatus(v)

	status, oserror := execWithTimeout(outfile, timeout)
	if oserror != nil {
		return newResult(file, ProcessFileError(oserror))
	}
	if status != expected {
		return TestResult{
			File:    file,
			Ok:      false,
			Message: "expected exit status " + strconv.Itoa(expected) + ", instead found " + strconv.Itoa(status),
		}
	}
	return TestResult{
		File: file,
		Ok:   true,
	}
}

var ErrTimeout = errors.New("program timed out")

func execWithTimeout(cmdstr string, timeout time.Duration) (int, error) {
	if timeout <= 0 {
		timeout = 1 * time.Second
	}
	cmd := exec.Command(cmdstr)
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	var killed atomic.Bool
	timer := time.AfterFunc(timeout, func() {
		killed.Store(true)
		cmd.Process.Kill()
	})
	err := cmd.Wait()
	timer.Stop()
	if killed.Load() {
		return 0, ErrTimeout
	}
	var exit *exec.ExitError
	if errors.As(err, &exit) {
		return exit.ExitCode(), nil
	}
	if err != nil {
		return 0, err
	}
	return 0, nil
}

func recoverIfFatal(file string, res *TestResult) {
	if r := recover(); r != nil {
		*res = TestResult{
			File:    file,
			Ok:      false,
			Message: fmt.Sprintf("fatal error: %v", r),
		}
	}
}

func extractError(file string) string {
	name := filepath.Base(file)
	sections := strings.Split(name, ".")
	if len(sections) < 3 {
		return ""
	}
	err := sections[len(sections)-2]
	return err
}

func compareError(file string, err *Error, expectedErr string) TestResult {
	if err != nil && expectedErr == "" {
		msg := "expected no errors, instead found: " +
			err.ErrCode() + " " + err.Message
		return TestResult{
			File:    file,
			Message: msg,
			Ok:      false,
		}
	} else if err == nil && expectedErr != "" {
		msg := "expected error " + expectedErr +
			", instead found nothing"
		return TestResult{
			File:    file,
			Message: msg,
			Ok:      false,
		}
	} else if err != nil && expectedErr != "" {
		actual := err.ErrCode()
		if actual != expectedErr {
			msg := "expected error " + expectedErr +
				", instead found " + actual
			return TestResult{
				File:    file,
				Message: msg,
				Ok:      false,
			}
		}
	}
	return TestResult{
		File: file,
		Ok:   true,
	}
}

func newResult(file string, e *Error) TestResult {
	return TestResult{
		File:    file,
		Ok:      false,
		Message: e.Message,
	}
}

// Folder tests every .ul file under folder, recursively. trace, if not
// nil, receives a line per file and directory visited.
func Folder(folder string, st Stage, s *Settings, trace func(string)) ([]*TestResult, *Error) {
	entries, oserr := os.ReadDir(folder)
	if oserr != nil {
		return nil, ProcessFileError(oserr)
	}
	results := []*TestResult{}
	for _, v := range entries {
		fullpath := filepath.Join(folder, v.Name())
		if v.IsDir() {
			if trace != nil {
				trace("\u001b[35m entering: " + fullpath + "\u001b[0m\n")
			}
			res, err := Folder(fullpath, st, s, trace)
			if err != nil {
				return nil, err
			}
			results = append(results, res...)
			if trace != nil {
				trace("\u001b[35m leaving: " + fullpath + "\u001b[0m\n")
			}
		} else if strings.HasSuffix(v.Name(), ".ul") {
			res := Test(fullpath, st, s)
			results = append(results, &res)
			if trace != nil {
				trace("testing: " + fullpath + "\t" + res.String() + "\n")
			}
		}
	}
	return results, nil
}
