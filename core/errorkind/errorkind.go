package errorkind

import (
	"fmt"

	ec "github.com/jolisper/ulisp/core/errorclass"
)

type ErrorKind int

const (
	InvalidErrType ErrorKind = iota
	InternalCompilerError

	InvalidSymbol
	UnexpectedEOF
	UnexpectedParen
	ExpectedEOF
	IntegerOutOfRange

	FileError
	InvalidFileName
	InvalidBackend

	ExpectedModule
	NestedModule
	EmptyList
	ExpectedOperator
	MalformedDefinition
	ExpectedName
	ExpectedParamList
	ExpectedParam
	NestedDefinition
	ExpressionOutsideProc
	InvalidNumberOfArgs
	TooManyArgs
	NoEntryPoint
	InvalidMain
	NestingTooDeep

	NameNotDefined
	ProcNotDefined
	NotAProcedure

	UnsupportedLiteral

	AssemblerFailed
	LinkerFailed
)

func (et ErrorKind) String() string {
	v, ok := ErrorCodeMap[et]
	if !ok {
		panic(fmt.Sprintf("%d is not stringified", et))
	}
	return v
}

func (et ErrorKind) Class() ec.Class {
	v, ok := errorClassMap[et]
	if !ok {
		panic(fmt.Sprintf("%d has no class", et))
	}
	return v
}

var ErrorCodeMap = map[ErrorKind]string{
	InvalidErrType:        "E101",
	InternalCompilerError: "E102",

	InvalidSymbol:     "E104",
	UnexpectedEOF:     "E105",
	UnexpectedParen:   "E106",
	ExpectedEOF:       "E107",
	IntegerOutOfRange: "E108",

	FileError:       "E007",
	InvalidFileName: "E009",
	InvalidBackend:  "E010",

	ExpectedModule:        "E011",
	NestedModule:          "E012",
	EmptyList:             "E013",
	ExpectedOperator:      "E014",
	MalformedDefinition:   "E015",
	ExpectedName:          "E016",
	ExpectedParamList:     "E017",
	ExpectedParam:         "E018",
	NestedDefinition:      "E020",
	InvalidNumberOfArgs:   "E021",
	TooManyArgs:           "E022",
	ExpressionOutsideProc: "E023",
	NoEntryPoint:          "E044",
	InvalidMain:           "E043",
	NestingTooDeep:        "E045",

	NameNotDefined: "E030",
	ProcNotDefined: "E031",
	NotAProcedure:  "E032",

	UnsupportedLiteral: "E040",

	AssemblerFailed: "E050",
	LinkerFailed:    "E051",
}

var errorClassMap = map[ErrorKind]ec.Class{
	InvalidErrType:        ec.Internal,
	InternalCompilerError: ec.Internal,

	InvalidSymbol:     ec.Syntax,
	UnexpectedEOF:     ec.Syntax,
	UnexpectedParen:   ec.Syntax,
	ExpectedEOF:       ec.Syntax,
	IntegerOutOfRange: ec.Syntax,

	FileError:       ec.Toolchain,
	InvalidFileName: ec.Configuration,
	InvalidBackend:  ec.Configuration,

	ExpectedModule:        ec.Structural,
	NestedModule:          ec.Structural,
	EmptyList:             ec.Structural,
	ExpectedOperator:      ec.Structural,
	MalformedDefinition:   ec.Structural,
	ExpectedName:          ec.Structural,
	ExpectedParamList:     ec.Structural,
	ExpectedParam:         ec.Structural,
	NestedDefinition:      ec.Structural,
	ExpressionOutsideProc: ec.Structural,
	InvalidNumberOfArgs:   ec.Structural,
	TooManyArgs:           ec.Structural,
	NoEntryPoint:          ec.Structural,
	InvalidMain:           ec.Structural,
	NestingTooDeep:        ec.Structural,

	NameNotDefined: ec.UndefinedReference,
	ProcNotDefined: ec.UndefinedReference,
	NotAProcedure:  ec.UndefinedReference,

	UnsupportedLiteral: ec.UnsupportedLiteral,

	AssemblerFailed: ec.Toolchain,
	LinkerFailed:    ec.Toolchain,
}
