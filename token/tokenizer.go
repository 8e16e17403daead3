package token

import (
	"context"
	"regexp"
	"strconv"

	"github.com/flitsinc/jsonstream/jsonerr"
)

// frameKind is one entry on the tokenizer's stack, tracking container and
// punctuation context. It is unrelated to the builder's parser stack,
// which tracks the live value graph instead.
type frameKind int

const (
	frameExpectingValue frameKind = iota
	frameInString
	frameStartArray
	frameAfterArrayValue
	frameStartObject
	frameAfterObjectKey
	frameAfterObjectValue
	frameBeforeObjectKey
)

// stepResult is the outcome of one micro-step of the state machine.
type stepResult int

const (
	// stepBlocked means no token was emitted and no further progress is
	// possible without either more input or treating the stack as done.
	stepBlocked stepResult = iota
	// stepProgressed means the stack changed (a frame was swapped for
	// another) but no token was emitted; the caller should step again
	// immediately, without awaiting input.
	stepProgressed
	// stepEmitted means a token was emitted and handed to the handler.
	stepEmitted
)

var numberPattern = regexp.MustCompile(`^-?(0|[1-9]\d*)(\.\d+)?([eE][+-]?\d+)?$`)

// Tokenizer is the chunk-driven JSON lexer. It owns a Buffer and a stack
// of container/punctuation frames, initialised with a single
// ExpectingValue frame, which empties once a complete top-level value has
// been consumed; any trailing content is validated by a later Pump call.
type Tokenizer struct {
	buf     *Buffer
	stack   []frameKind
	handler Handler
}

// NewTokenizer returns a Tokenizer that pulls characters from source and
// hands emitted tokens to handler.
func NewTokenizer(source CharSource, handler Handler) *Tokenizer {
	return &Tokenizer{
		buf:     NewBuffer(source),
		stack:   []frameKind{frameExpectingValue},
		handler: handler,
	}
}

// IsDone reports whether the tokenizer's stack is empty and no buffered
// characters remain.
func (t *Tokenizer) IsDone() bool {
	return len(t.stack) == 0 && t.buf.Length() == 0
}

func (t *Tokenizer) push(k frameKind) { t.stack = append(t.stack, k) }
func (t *Tokenizer) pop()             { t.stack = t.stack[:len(t.stack)-1] }
func (t *Tokenizer) top() frameKind   { return t.stack[len(t.stack)-1] }

func (t *Tokenizer) emit(tok Token) (stepResult, error) {
	if err := t.handler.HandleToken(tok); err != nil {
		return stepBlocked, err
	}
	return stepEmitted, nil
}

// Pump runs the state machine until at least one token has been emitted
// during this call, or the stream has been exhausted and its tail
// validated as pure whitespace. Multiple tokens may be emitted in a single
// Pump call whenever the buffered characters already make that possible;
// Pump only awaits more input when it cannot otherwise make progress.
func (t *Tokenizer) Pump(ctx context.Context) error {
	emittedAny := false
	for {
		res, err := t.advance()
		if err != nil {
			return err
		}
		switch res {
		case stepEmitted:
			emittedAny = true
			continue
		case stepProgressed:
			continue
		case stepBlocked:
			// A token already emitted this call must be returned to the
			// caller before anything else happens, even if the stack has
			// also emptied in the same step: trailing-content validation
			// is deferred to the next Pump call, so each call surfaces at
			// most the one unit of progress it made.
			if emittedAny {
				return nil
			}
			if len(t.stack) == 0 {
				// Running out of source here is the normal, successful
				// end of the stream, not a premature cutoff: stop
				// TryExpand from treating it as an error.
				t.buf.SetMoreContentExpected(false)
				if err := t.buf.ExpectEndOfContent(ctx); err != nil {
					return err
				}
				t.buf.Commit()
				return nil
			}
			// TryExpand returning ok=false with no error only happens when
			// the frame that blocked us had moreContentExpected cleared (a
			// number that might have ended exactly at a chunk boundary);
			// retrying now that Buffer.Exhausted is true lets it finalize
			// instead of waiting forever.
			if _, err := t.buf.TryExpand(ctx); err != nil {
				return err
			}
			continue
		}
	}
}

// advance performs a single micro-step of whichever frame is on top of the
// stack, without awaiting any new input.
func (t *Tokenizer) advance() (stepResult, error) {
	if len(t.stack) == 0 {
		return stepBlocked, nil
	}
	switch t.top() {
	case frameExpectingValue:
		return t.advExpectingValue()
	case frameInString:
		return t.advInString()
	case frameStartArray:
		return t.advStartArray()
	case frameAfterArrayValue:
		return t.advAfterArrayValue()
	case frameStartObject:
		return t.advStartObject()
	case frameAfterObjectKey:
		return t.advAfterObjectKey()
	case frameAfterObjectValue:
		return t.advAfterObjectValue()
	case frameBeforeObjectKey:
		return t.advBeforeObjectKey()
	default:
		return stepBlocked, &jsonerr.InternalError{Message: "unknown tokenizer frame"}
	}
}

// tryKeyword attempts to match word starting at the window head. needMore
// is true when the window ran out before a mismatch could be determined.
func (t *Tokenizer) tryKeyword(word string) (matched, needMore bool) {
	for i := 0; i < len(word); i++ {
		r, ok := t.buf.Peek(i)
		if !ok {
			return false, true
		}
		if r != rune(word[i]) {
			return false, false
		}
	}
	return true, false
}

func (t *Tokenizer) advExpectingValue() (stepResult, error) {
	t.buf.SkipWhitespace()
	r, ok := t.buf.Peek(0)
	if !ok {
		return stepBlocked, nil
	}
	switch {
	case r == 'n':
		matched, needMore := t.tryKeyword("null")
		if needMore {
			return stepBlocked, nil
		}
		if !matched {
			return stepBlocked, &jsonerr.ExpectedValueError{Rune: r}
		}
		t.buf.Advance(4)
		t.pop()
		return t.emit(Token{Kind: Null})
	case r == 't':
		matched, needMore := t.tryKeyword("true")
		if needMore {
			return stepBlocked, nil
		}
		if !matched {
			return stepBlocked, &jsonerr.ExpectedValueError{Rune: r}
		}
		t.buf.Advance(4)
		t.pop()
		return t.emit(Token{Kind: Boolean, Bool: true})
	case r == 'f':
		matched, needMore := t.tryKeyword("false")
		if needMore {
			return stepBlocked, nil
		}
		if !matched {
			return stepBlocked, &jsonerr.ExpectedValueError{Rune: r}
		}
		t.buf.Advance(5)
		t.pop()
		return t.emit(Token{Kind: Boolean, Bool: false})
	case r == '-' || (r >= '0' && r <= '9'):
		return t.lexNumber()
	case r == '"':
		t.buf.Advance(1)
		t.pop()
		t.push(frameInString)
		return t.emit(Token{Kind: StringStart})
	case r == '[':
		t.buf.Advance(1)
		t.pop()
		t.push(frameStartArray)
		return t.emit(Token{Kind: ArrayStart})
	case r == '{':
		t.buf.Advance(1)
		t.pop()
		t.push(frameStartObject)
		return t.emit(Token{Kind: ObjectStart})
	default:
		return stepBlocked, &jsonerr.ExpectedValueError{Rune: r}
	}
}

func isNumberChar(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.' || r == 'e' || r == 'E' || r == '+' || r == '-'
}

func (t *Tokenizer) lexNumber() (stepResult, error) {
	n := 0
	for {
		r, ok := t.buf.Peek(n)
		if !ok || !isNumberChar(r) {
			break
		}
		n++
	}
	_, haveNext := t.buf.Peek(n)
	if !haveNext && !t.buf.Exhausted() {
		// The number might continue into the next chunk; running out of
		// input right here is not an error.
		t.buf.SetMoreContentExpected(false)
		return stepBlocked, nil
	}
	t.buf.SetMoreContentExpected(true)

	text := t.buf.Slice(0, n)
	if !numberPattern.MatchString(text) {
		return stepBlocked, &jsonerr.InvalidNumberError{Text: text}
	}
	val, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return stepBlocked, &jsonerr.InvalidNumberError{Text: text}
	}
	t.buf.Advance(n)
	t.pop()
	return t.emit(Token{Kind: Number, Num: val})
}

func (t *Tokenizer) advInString() (stepResult, error) {
	text, delimited, err := t.buf.TakeUntilQuoteOrBackslash()
	if err != nil {
		return stepBlocked, err
	}
	if text != "" {
		return t.emit(Token{Kind: StringMiddle, Text: text})
	}
	if !delimited {
		return stepBlocked, nil
	}
	r, _ := t.buf.Peek(0)
	if r == '"' {
		t.buf.Advance(1)
		t.pop()
		return t.emit(Token{Kind: StringEnd})
	}
	return t.lexEscape()
}

var escapeTable = map[rune]rune{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'b':  0x08,
	'f':  0x0C,
	'\\': '\\',
	'/':  '/',
	'"':  '"',
}

func (t *Tokenizer) lexEscape() (stepResult, error) {
	_, ok0 := t.buf.Peek(0) // the backslash itself
	c1, ok1 := t.buf.Peek(1)
	if !ok0 || !ok1 {
		return stepBlocked, nil
	}
	if c1 == 'u' {
		// Surrogate pairs are not joined: each \uXXXX escape, including
		// each half of a pair, is emitted as its own StringMiddle. A lone
		// surrogate half is not a valid rune, so it comes out as U+FFFD.
		hex := make([]rune, 4)
		for i := 0; i < 4; i++ {
			r, ok := t.buf.Peek(2 + i)
			if !ok {
				return stepBlocked, nil
			}
			hex[i] = r
		}
		text := string(hex)
		val, err := strconv.ParseUint(text, 16, 32)
		if err != nil {
			return stepBlocked, &jsonerr.BadUnicodeEscapeError{Text: text}
		}
		t.buf.Advance(6)
		return t.emit(Token{Kind: StringMiddle, Text: string(rune(val))})
	}
	repl, ok := escapeTable[c1]
	if !ok {
		return stepBlocked, &jsonerr.BadEscapeError{Escape: "\\" + string(c1)}
	}
	t.buf.Advance(2)
	return t.emit(Token{Kind: StringMiddle, Text: string(repl)})
}

func (t *Tokenizer) advStartArray() (stepResult, error) {
	t.buf.SkipWhitespace()
	r, ok := t.buf.Peek(0)
	if !ok {
		return stepBlocked, nil
	}
	if r == ']' {
		t.buf.Advance(1)
		t.pop()
		return t.emit(Token{Kind: ArrayEnd})
	}
	t.pop()
	t.push(frameAfterArrayValue)
	t.push(frameExpectingValue)
	return stepProgressed, nil
}

func (t *Tokenizer) advAfterArrayValue() (stepResult, error) {
	t.buf.SkipWhitespace()
	r, ok := t.buf.TryTakeChar()
	if !ok {
		return stepBlocked, nil
	}
	switch r {
	case ']':
		t.pop()
		return t.emit(Token{Kind: ArrayEnd})
	case ',':
		t.push(frameExpectingValue)
		return stepProgressed, nil
	default:
		return stepBlocked, &jsonerr.ExpectedCommaOrBracketError{Rune: r}
	}
}

func (t *Tokenizer) advStartObject() (stepResult, error) {
	t.buf.SkipWhitespace()
	r, ok := t.buf.Peek(0)
	if !ok {
		return stepBlocked, nil
	}
	if r == '}' {
		t.buf.Advance(1)
		t.pop()
		return t.emit(Token{Kind: ObjectEnd})
	}
	if r != '"' {
		return stepBlocked, &jsonerr.ExpectedObjectKeyError{Rune: r}
	}
	t.buf.Advance(1)
	t.pop()
	t.push(frameAfterObjectKey)
	t.push(frameInString)
	return t.emit(Token{Kind: StringStart})
}

func (t *Tokenizer) advAfterObjectKey() (stepResult, error) {
	t.buf.SkipWhitespace()
	r, ok := t.buf.TryTakeChar()
	if !ok {
		return stepBlocked, nil
	}
	if r != ':' {
		return stepBlocked, &jsonerr.ExpectedColonError{Rune: r}
	}
	t.pop()
	t.push(frameAfterObjectValue)
	t.push(frameExpectingValue)
	return stepProgressed, nil
}

func (t *Tokenizer) advAfterObjectValue() (stepResult, error) {
	t.buf.SkipWhitespace()
	r, ok := t.buf.TryTakeChar()
	if !ok {
		return stepBlocked, nil
	}
	switch r {
	case '}':
		t.pop()
		return t.emit(Token{Kind: ObjectEnd})
	case ',':
		t.pop()
		t.push(frameBeforeObjectKey)
		return stepProgressed, nil
	default:
		return stepBlocked, &jsonerr.ExpectedCommaOrBraceError{Rune: r}
	}
}

func (t *Tokenizer) advBeforeObjectKey() (stepResult, error) {
	t.buf.SkipWhitespace()
	r, ok := t.buf.Peek(0)
	if !ok {
		return stepBlocked, nil
	}
	if r != '"' {
		return stepBlocked, &jsonerr.ExpectedObjectKeyError{Rune: r}
	}
	t.buf.Advance(1)
	t.pop()
	t.push(frameAfterObjectKey)
	t.push(frameInString)
	return t.emit(Token{Kind: StringStart})
}
