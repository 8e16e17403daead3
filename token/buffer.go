package token

import (
	"context"

	"github.com/flitsinc/jsonstream/jsonerr"
)

// Buffer holds a sliding window of characters pulled on demand from a
// CharSource, plus the low-level scanning primitives the tokenizer's
// state machine composes into its transitions.
type Buffer struct {
	source    CharSource
	window    []rune
	start     int // window[:start] has been advanced past but not yet reclaimed
	exhausted bool

	// moreContentExpected is cleared while a number is being lexed, so
	// running out of input at exactly that point is not treated as an
	// error; it is restored immediately after.
	moreContentExpected bool
}

// NewBuffer returns a Buffer that pulls from source as needed.
func NewBuffer(source CharSource) *Buffer {
	return &Buffer{source: source, moreContentExpected: true}
}

// Length returns the number of characters currently buffered and not yet
// advanced past.
func (b *Buffer) Length() int {
	return len(b.window) - b.start
}

// Peek returns the character at offset within the window, or false if
// offset is beyond what's currently buffered.
func (b *Buffer) Peek(offset int) (rune, bool) {
	i := b.start + offset
	if i < 0 || i >= len(b.window) {
		return 0, false
	}
	return b.window[i], true
}

// Advance moves the window start forward n characters.
func (b *Buffer) Advance(n int) {
	b.start += n
}

// Slice returns the substring of the window between start and end, both
// relative to the current window start.
func (b *Buffer) Slice(start, end int) string {
	return string(b.window[b.start+start : b.start+end])
}

// TryTakePrefix advances past s and returns true if the window currently
// begins with it; otherwise the window is left untouched and it returns
// false.
func (b *Buffer) TryTakePrefix(s string) bool {
	runes := []rune(s)
	if b.Length() < len(runes) {
		return false
	}
	for i, r := range runes {
		if b.window[b.start+i] != r {
			return false
		}
	}
	b.Advance(len(runes))
	return true
}

// TryTakeChar advances past exactly one character and returns it, or
// returns false if the window is empty.
func (b *Buffer) TryTakeChar() (rune, bool) {
	r, ok := b.Peek(0)
	if !ok {
		return 0, false
	}
	b.Advance(1)
	return r, true
}

// SkipWhitespace advances past ASCII space, tab, CR, and LF.
func (b *Buffer) SkipWhitespace() {
	for {
		r, ok := b.Peek(0)
		if !ok || !isJSONWhitespace(r) {
			return
		}
		b.Advance(1)
	}
}

func isJSONWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// TakeUntilQuoteOrBackslash advances while the current character is
// neither '"' nor '\' and has a code point above 0x1F. It returns the
// traversed text and whether it stopped because of a delimiter (true) or
// because the window ran out (false). A code point at or below 0x1F is a
// fatal input error.
func (b *Buffer) TakeUntilQuoteOrBackslash() (string, bool, error) {
	startIdx := b.start
	for {
		r, ok := b.Peek(0)
		if !ok {
			return string(b.window[startIdx:b.start]), false, nil
		}
		if r == '"' || r == '\\' {
			return string(b.window[startIdx:b.start]), true, nil
		}
		if r <= 0x1F {
			return "", false, &jsonerr.ControlCharacterError{Rune: r}
		}
		b.Advance(1)
	}
}

// Exhausted reports whether the upstream source has signalled end of
// stream.
func (b *Buffer) Exhausted() bool {
	return b.exhausted
}

// SetMoreContentExpected toggles whether TryExpand hitting end of stream
// right now should be treated as an error.
func (b *Buffer) SetMoreContentExpected(v bool) {
	b.moreContentExpected = v
}

// TryExpand awaits one more chunk from the upstream source and appends it
// to the window. It returns false once the source is exhausted. If the
// source is exhausted while more content is semantically required, it
// fails with jsonerr.ErrUnexpectedEndOfContent.
func (b *Buffer) TryExpand(ctx context.Context) (bool, error) {
	chunk, ok, err := b.source.Next(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		b.exhausted = true
		if b.moreContentExpected {
			return false, jsonerr.ErrUnexpectedEndOfContent
		}
		return false, nil
	}
	b.window = append(b.window, chunk...)
	return true, nil
}

// ExpectEndOfContent drains any remaining chunks, skips whitespace, and
// fails with jsonerr.UnexpectedTrailingContentError if any non-whitespace
// text remains.
func (b *Buffer) ExpectEndOfContent(ctx context.Context) error {
	// Reaching end of stream is the expected outcome here, not an error.
	b.moreContentExpected = false
	for {
		b.SkipWhitespace()
		if b.Length() > 0 {
			return &jsonerr.UnexpectedTrailingContentError{Text: b.Slice(0, b.Length())}
		}
		if b.exhausted {
			return nil
		}
		more, err := b.TryExpand(ctx)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// Commit reclaims memory backing the already-consumed prefix of the
// window. Purely an optimisation; it does not change observable behavior.
func (b *Buffer) Commit() {
	if b.start == 0 {
		return
	}
	b.window = append(b.window[:0], b.window[b.start:]...)
	b.start = 0
}
