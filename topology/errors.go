package topology

import "fmt"

// SpecError indicates a malformed topology description: non-consecutive relay
// ids, an out-of-range parent or attachment, or an unparsable field.
type SpecError struct {
	// Line is the 1-based line of the description, 0 when unknown.
	Line int

	// Text is the offending source line, if any.
	Text string

	Message string
}

func (e *SpecError) Error() string {
	msg := "topology spec"
	if e.Line > 0 {
		msg = fmt.Sprintf("%s line %d", msg, e.Line)
	}
	msg += ": " + e.Message
	if e.Text != "" {
		msg += "\n>>> " + e.Text
	}
	return msg
}

func specErrorf(line int, format string, args ...any) error {
	return &SpecError{Line: line, Message: fmt.Sprintf(format, args...)}
}
