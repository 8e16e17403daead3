package decoder

import "github.com/flitsinc/jsonstream/jsonerr"

// These aliases let a consumer of this package write decoder.InvalidNumberError
// in an errors.As check without importing jsonerr directly, the same way
// the teacher re-exports llms.HTTPError from its own package rather than
// making callers reach into an internal error package.
type (
	UnexpectedTrailingContentError = jsonerr.UnexpectedTrailingContentError
	ControlCharacterError          = jsonerr.ControlCharacterError
	ExpectedValueError             = jsonerr.ExpectedValueError
	BadEscapeError                 = jsonerr.BadEscapeError
	BadUnicodeEscapeError          = jsonerr.BadUnicodeEscapeError
	InvalidNumberError             = jsonerr.InvalidNumberError
	ExpectedCommaOrBracketError    = jsonerr.ExpectedCommaOrBracketError
	ExpectedObjectKeyError         = jsonerr.ExpectedObjectKeyError
	ExpectedColonError             = jsonerr.ExpectedColonError
	ExpectedCommaOrBraceError      = jsonerr.ExpectedCommaOrBraceError
	InternalError                  = jsonerr.InternalError
	DepthExceededError             = jsonerr.DepthExceededError
)

// ErrUnexpectedEndOfContent is re-exported for the same reason.
var ErrUnexpectedEndOfContent = jsonerr.ErrUnexpectedEndOfContent
