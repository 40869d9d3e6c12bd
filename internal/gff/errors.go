package gff

import "fmt"

// FormatError reports a fatal violation of the GFF3 or GTF grammar or of
// the feature-linkage rules, carrying the 1-based line number and the raw
// line text when known. Format errors are never transient: the decode
// session that raised one cannot continue past the offending input.
type FormatError struct {
	Line    int    // 1-based, 0 when not tied to a single line
	Text    string // raw line text, possibly empty
	Message string
}

func (e *FormatError) Error() string {
	switch {
	case e.Line > 0 && e.Text != "":
		return fmt.Sprintf("format error at line %d: %s: %q", e.Line, e.Message, e.Text)
	case e.Line > 0:
		return fmt.Sprintf("format error at line %d: %s", e.Line, e.Message)
	default:
		return fmt.Sprintf("format error: %s", e.Message)
	}
}

func formatErrorf(line int, text, format string, args ...interface{}) error {
	return &FormatError{Line: line, Text: text, Message: fmt.Sprintf(format, args...)}
}
