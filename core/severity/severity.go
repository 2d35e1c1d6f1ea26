package severity

type Severity int

func (this Severity) String() string {
	switch this {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case InternalError:
		return "internal error"
	}
	panic("invalid severity")
}

// Color is the ANSI escape used when printing diagnostics of this
// severity on a terminal.
func (this Severity) Color() string {
	switch this {
	case Warning:
		return "\u001b[33m"
	case InternalError:
		return "\u001b[35m"
	default:
		return "\u001b[31m"
	}
}

const (
	InvalidSeverity Severity = iota
	Error
	Warning
	InternalError // should never happen (but will)
)
