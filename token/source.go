// Package token implements the chunk-driven JSON tokenizer: a sliding
// input buffer over an asynchronous character source, and a state-machine
// that walks it to emit JSON tokens through a Handler.
package token

import "context"

// CharSource is the pull-based upstream character-chunk source the input
// buffer draws from. Chunk boundaries carry no semantics: a source may
// split its output anywhere, including inside escape sequences, numbers,
// keywords, or whitespace. An empty, non-final chunk is legal and means
// "no data yet, but not end of stream"; end of stream is signalled by ok
// being false.
type CharSource interface {
	// Next returns the next chunk of characters. ok is false once the
	// source is exhausted. err is non-nil only on a genuine read failure,
	// in which case ok is meaningless.
	Next(ctx context.Context) (chunk []rune, ok bool, err error)
}
