package telegram

import "fmt"

// ParseError reports a parser failure together with the byte offset into
// the telegram at which it occurred, so a caller can render a "^" arrow
// diagnostic under the offending byte.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (at offset %d)", e.Msg, e.Offset)
}

func errAt(offset int, msg string) *ParseError {
	return &ParseError{Offset: offset, Msg: msg}
}
