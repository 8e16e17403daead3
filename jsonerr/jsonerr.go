// Package jsonerr defines the typed errors the decoder can surface to its
// consumer. Every syntax or protocol error halting a stream is one of these
// kinds; nothing in the decoder pipeline panics on bad input.
package jsonerr

import "fmt"

// ErrUnexpectedEndOfContent is returned when the upstream character source
// is exhausted while the tokenizer still requires more content to finish
// the value currently in progress.
var ErrUnexpectedEndOfContent = fmt.Errorf("jsonstream: unexpected end of content")

// UnexpectedTrailingContentError reports non-whitespace text found after
// the top-level value has finished.
type UnexpectedTrailingContentError struct {
	Text string
}

func (e *UnexpectedTrailingContentError) Error() string {
	return fmt.Sprintf("jsonstream: unexpected trailing content: %q", e.Text)
}

// ControlCharacterError reports a raw control character (code point <=
// 0x1F) found inside a string literal, which JSON requires to be escaped.
type ControlCharacterError struct {
	Rune rune
}

func (e *ControlCharacterError) Error() string {
	return fmt.Sprintf("jsonstream: control character U+%04X in string literal", e.Rune)
}

// ExpectedValueError reports a character that cannot begin a JSON value
// (not '"', '[', '{', a digit, '-', or the start of null/true/false).
type ExpectedValueError struct {
	Rune rune
}

func (e *ExpectedValueError) Error() string {
	return fmt.Sprintf("jsonstream: expected a value, got %q", e.Rune)
}

// BadEscapeError reports an unrecognized backslash escape inside a string.
type BadEscapeError struct {
	Escape string
}

func (e *BadEscapeError) Error() string {
	return fmt.Sprintf("jsonstream: bad escape sequence %q", e.Escape)
}

// BadUnicodeEscapeError reports a \uXXXX escape whose four characters are
// not valid hexadecimal digits.
type BadUnicodeEscapeError struct {
	Text string
}

func (e *BadUnicodeEscapeError) Error() string {
	return fmt.Sprintf("jsonstream: bad unicode escape \\u%s", e.Text)
}

// InvalidNumberError reports a numeric literal that doesn't match JSON's
// number grammar, or one that couldn't be parsed as a float64.
type InvalidNumberError struct {
	Text string
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("jsonstream: invalid number %q", e.Text)
}

// ExpectedCommaOrBracketError reports an unexpected character where a ','
// or ']' was required inside an array.
type ExpectedCommaOrBracketError struct {
	Rune rune
}

func (e *ExpectedCommaOrBracketError) Error() string {
	return fmt.Sprintf("jsonstream: expected ',' or ']', got %q", e.Rune)
}

// ExpectedObjectKeyError reports an unexpected character where a quoted
// object key was required.
type ExpectedObjectKeyError struct {
	Rune rune
}

func (e *ExpectedObjectKeyError) Error() string {
	return fmt.Sprintf("jsonstream: expected an object key, got %q", e.Rune)
}

// ExpectedColonError reports an unexpected character where ':' was
// required after an object key.
type ExpectedColonError struct {
	Rune rune
}

func (e *ExpectedColonError) Error() string {
	return fmt.Sprintf("jsonstream: expected ':', got %q", e.Rune)
}

// ExpectedCommaOrBraceError reports an unexpected character where a ',' or
// '}' was required inside an object.
type ExpectedCommaOrBraceError struct {
	Rune rune
}

func (e *ExpectedCommaOrBraceError) Error() string {
	return fmt.Sprintf("jsonstream: expected ',' or '}', got %q", e.Rune)
}

// InternalError indicates a contract violation between the tokenizer and
// the snapshot builder (a token arrived in a parser state it should never
// be able to reach). It signals a bug in this module, not bad input.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("jsonstream: internal error: %s", e.Message)
}

// DepthExceededError reports that a stream nested containers more than the
// configured maximum depth.
type DepthExceededError struct {
	MaxDepth int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("jsonstream: exceeded maximum nesting depth (%d)", e.MaxDepth)
}
