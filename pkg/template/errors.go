package template

import "fmt"

// Error is any error produced while lexing, parsing, or rendering a
// template, carrying the source position it occurred at.
type Error interface {
	error
	Position() Position
}

type baseError struct {
	pos Position
	msg string
}

func (e *baseError) Error() string      { return fmt.Sprintf("%s:%d:%d: %s", e.pos.File, e.pos.Line, e.pos.Column, e.msg) }
func (e *baseError) Position() Position { return e.pos }

// LexError is a lexical scanning failure, e.g. an unclosed {{ or {%.
type LexError struct{ baseError }

// NewLexError builds a LexError at pos.
func NewLexError(pos Position, msg string) *LexError {
	return &LexError{baseError{pos: pos, msg: msg}}
}

// ParseError is a structural failure while grouping statements into
// blocks, e.g. an endfor with no matching for.
type ParseError struct{ baseError }

// NewParseError builds a ParseError at pos.
func NewParseError(pos Position, msg string) *ParseError {
	return &ParseError{baseError{pos: pos, msg: msg}}
}

// NewParseErrorf is NewParseError with a format string.
func NewParseErrorf(pos Position, format string, args ...any) *ParseError {
	return NewParseError(pos, fmt.Sprintf(format, args...))
}

// RenderError is a failure evaluating an expression or statement against
// the render context, e.g. an undefined variable.
type RenderError struct {
	baseError
	Cause error
}

// NewRenderError builds a RenderError at pos.
func NewRenderError(pos Position, msg string) *RenderError {
	return &RenderError{baseError: baseError{pos: pos, msg: msg}}
}

// NewRenderErrorf is NewRenderError with a format string.
func NewRenderErrorf(pos Position, format string, args ...any) *RenderError {
	return NewRenderError(pos, fmt.Sprintf(format, args...))
}

// WrapRenderError wraps cause as a RenderError at pos, preserving it for
// errors.Unwrap.
func WrapRenderError(pos Position, msg string, cause error) *RenderError {
	return &RenderError{baseError: baseError{pos: pos, msg: msg}, Cause: cause}
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *RenderError) Unwrap() error { return e.Cause }

// UnmatchedBlockError reports an opening or closing block tag with no
// counterpart, e.g. a for with no endfor, or a stray endif.
type UnmatchedBlockError struct {
	baseError
	BlockKind StmtKind
}

// NewUnmatchedBlockError builds an UnmatchedBlockError for kind at pos.
func NewUnmatchedBlockError(pos Position, kind StmtKind) *UnmatchedBlockError {
	var msg string
	switch kind {
	case StmtFor:
		msg = "unmatched {% for %}: missing {% endfor %}"
	case StmtEndFor:
		msg = "unexpected {% endfor %}: no matching {% for %}"
	case StmtIf:
		msg = "unmatched {% if %}: missing {% endif %}"
	case StmtEndIf:
		msg = "unexpected {% endif %}: no matching {% if %}"
	case StmtElif:
		msg = "unexpected {% elif %}: no matching {% if %}"
	case StmtElse:
		msg = "unexpected {% else %}: no matching {% if %}"
	default:
		msg = "unmatched block"
	}
	return &UnmatchedBlockError{baseError: baseError{pos: pos, msg: msg}, BlockKind: kind}
}
