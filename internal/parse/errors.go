package parse

import (
	"errors"
	"fmt"
)

// ErrSyntax marks lexical and grammatical failures.
var ErrSyntax = errors.New("syntax error")

// ErrResolve marks definition-resolution failures (unknown references,
// duplicates, recursion).
var ErrResolve = errors.New("resolve error")

// Error is a positioned parse failure.
type Error struct {
	Kind error
	File string
	Line int
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Kind.Error(), e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.File, e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

func (p *parser) syntaxf(line int, format string, args ...any) error {
	return &Error{Kind: ErrSyntax, File: p.filename, Line: line, Msg: fmt.Sprintf(format, args...)}
}

func resolvef(filename string, line int, format string, args ...any) error {
	return &Error{Kind: ErrResolve, File: filename, Line: line, Msg: fmt.Sprintf(format, args...)}
}
