// Package toolchain turns generated text into an executable by running
// the external assembler and linker.
package toolchain

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	. "github.com/jolisper/ulisp/core"
	et "github.com/jolisper/ulisp/core/errorkind"
	msg "github.com/jolisper/ulisp/messages"
)

// Step is a single external invocation. Failure is reported as Kind.
type Step struct {
	Kind    et.ErrorKind
	Command []string
}

type Toolchain struct {
	Verbose bool
	Keep    bool // keep intermediate files
	Log     io.Writer
}

// Config is what the command line can change about a build. Empty
// fields fall back to the target defaults.
type Config struct {
	Assembler string
	Linker    string
	Keep      bool
	Verbose   bool
	Log       io.Writer
	GOOS      string
}

func (this *Config) Toolchain() *Toolchain {
	return &Toolchain{Verbose: this.Verbose, Keep: this.Keep, Log: this.Log}
}

func (this *Config) AssemblerOr(def string) string {
	if this.Assembler == "" {
		return def
	}
	return this.Assembler
}

func (this *Config) LinkerOr(def string) string {
	if this.Linker == "" {
		return def
	}
	return this.Linker
}

// Build writes text to source, runs every step in order and removes
// the intermediate files unless Keep is set. The first failing step
// stops the build.
func (this *Toolchain) Build(text string, source string, steps []Step, intermediates ...string) *Error {
	err := WriteFile(source, text)
	if err != nil {
		return err
	}
	if !this.Keep {
		defer this.remove(append([]string{source}, intermediates...))
	}
	for _, step := range steps {
		err = this.Run(step)
		if err != nil {
			return err
		}
	}
	return nil
}

// Run blocks until the command exits, there is no timeout and no retry.
func (this *Toolchain) Run(step Step) *Error {
	if len(step.Command) == 0 {
		return msg.ErrorInternal("empty toolchain command")
	}
	this.trace("running: " + strings.Join(step.Command, " "))
	cmd := exec.Command(step.Command[0], step.Command[1:]...)
	output, oserr := cmd.CombinedOutput()
	if oserr != nil {
		out := string(output)
		if out == "" {
			out = oserr.Error()
		}
		return msg.ErrorToolFailed(step.Kind, step.Command, out)
	}
	return nil
}

func (this *Toolchain) remove(files []string) {
	for _, f := range files {
		if os.Remove(f) == nil {
			this.trace("removed: " + f)
		}
	}
}

func (this *Toolchain) trace(s string) {
	if !this.Verbose {
		return
	}
	log := this.Log
	if log == nil {
		log = os.Stderr
	}
	fmt.Fprintf(log, "\u001b[35m%s\u001b[0m\n", s)
}

func WriteFile(path string, contents string) *Error {
	oserr := os.WriteFile(path, []byte(contents), 0644)
	if oserr != nil {
		return ProcessFileError(oserr)
	}
	return nil
}
