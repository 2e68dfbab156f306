package template

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by ParseError. Match them with errors.Is.
var (
	ErrUnterminatedPlaceholder = errors.New("unterminated placeholder")
	ErrEmptyPlaceholder        = errors.New("empty placeholder name")
	ErrInvalidPlaceholder      = errors.New("invalid placeholder name")
	ErrUnmatchedBrace          = errors.New("unmatched '}'")
	ErrUnterminatedQuote       = errors.New("unterminated quote")
	ErrMisplacedCd             = errors.New("misplaced cd clause")
	ErrMalformedCd             = errors.New("malformed cd clause")
	ErrMisplacedExport         = errors.New("misplaced export clause")
	ErrMalformedExport         = errors.New("malformed export clause")
	ErrMissingCommand          = errors.New("missing command")
	ErrMultipleCommands        = errors.New("more than one command clause")
	ErrDanglingContinuation    = errors.New("line continuation at end of template")
	ErrInvalidEncoding         = errors.New("template is not valid UTF-8")
)

// ParseError reports a malformed template and where the problem was found.
type ParseError struct {
	Pos    Position
	Err    error
	Detail string
}

func (e *ParseError) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Pos.Line == 0 {
		return fmt.Sprintf("template: %s", msg)
	}
	return fmt.Sprintf("template: line %d, column %d: %s", e.Pos.Line, e.Pos.Column, msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(pos Position, err error, format string, args ...any) *ParseError {
	detail := format
	if len(args) > 0 {
		detail = fmt.Sprintf(format, args...)
	}
	return &ParseError{Pos: pos, Err: err, Detail: detail}
}
