package core

import (
	"os"
	"strconv"

	ec "github.com/jolisper/ulisp/core/errorclass"
	et "github.com/jolisper/ulisp/core/errorkind"
	sv "github.com/jolisper/ulisp/core/severity"
)

type Position struct {
	Line   int
	Column int
}

func (this Position) String() string {
	return strconv.FormatInt(int64(this.Line+1), 10) + ":" +
		strconv.FormatInt(int64(this.Column+1), 10)
}

func (this Position) LessThan(other Position) bool {
	if this.Line == other.Line {
		return this.Column < other.Column
	}
	return this.Line < other.Line
}

func (this Position) MoreOrEqualsThan(other Position) bool {
	return !this.LessThan(other)
}

type Range struct {
	Begin Position
	End   Position
}

func (this Range) String() string {
	if this.Begin.MoreOrEqualsThan(this.End) {
		return this.Begin.String()
	}
	return this.Begin.String() + " to " + this.End.String()
}

type Location struct {
	File  string
	Range *Range
}

func (this *Location) String() string {
	if this == nil {
		return ""
	}
	if this.Range != nil {
		return this.File + ":" + this.Range.String()
	}
	return this.File
}

// Source returns the highlighted lines covered by the location,
// or the empty string if the file can't be read (REPL input, tests).
func (this *Location) Source() string {
	if this == nil || this.Range == nil || this.File == "" {
		return ""
	}
	contents, err := os.ReadFile(this.File)
	if err != nil {
		return ""
	}
	currline := 0
	currcol := 0
	output := "    \u001b[36m"
	for _, r := range string(contents) {
		if currline >= this.Range.Begin.Line &&
			currline <= this.Range.End.Line {
			if currline == this.Range.Begin.Line &&
				currcol == this.Range.Begin.Column {
				output += "\u001b[31m"
			}
			if currline == this.Range.End.Line &&
				currcol == this.Range.End.Column {
				output += "\u001b[36m"
			}
			if r == '\n' {
				output += string(r) + "    "
			} else if r == '\t' {
				output += "    "
			} else {
				output += string(r)
			}
		}
		if r == '\n' {
			currline++
			currcol = 0
		} else {
			currcol++
		}
	}
	output += "\u001b[0m"
	return output
}

// Error is the only kind of failure the compiler reports. The first
// Error aborts whatever pipeline produced it.
type Error struct {
	Code     et.ErrorKind
	Severity sv.Severity
	Message  string
	Location *Location
}

func (this *Error) String() string {
	message := this.Severity.String() + ": " + this.Message
	if this.Location != nil {
		message = this.Location.String() + " " + message
	}
	source := this.Location.Source()
	if source != "" {
		return message + "\n" + source
	}
	return message
}

func (this *Error) ErrCode() string {
	return this.Code.String()
}

func (this *Error) Class() ec.Class {
	return this.Code.Class()
}

// Locate fills in the file name of errors produced by stages that only
// see the tree (lowering, evaluation).
func (this *Error) Locate(file string) *Error {
	if this.Location == nil {
		this.Location = &Location{File: file}
	} else if this.Location.File == "" {
		this.Location.File = file
	}
	return this
}

func ProcessFileError(e error) *Error {
	return &Error{
		Code:     et.FileError,
		Severity: sv.Error,
		Message:  e.Error(),
	}
}
