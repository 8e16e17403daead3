package decoder

import (
	"context"
	"unicode/utf8"
)

// ByteChunkSource is the byte-oriented upstream collaborator: an SSE
// reader, an HTTP response body, a WebSocket frame reader, anything that
// hands over raw bytes in arbitrarily-sized, arbitrarily-split chunks.
type ByteChunkSource interface {
	// Next returns the next chunk of bytes. ok is false once the source is
	// exhausted.
	Next(ctx context.Context) (chunk []byte, ok bool, err error)
}

// ByteChunkSourceFunc adapts a plain function to a ByteChunkSource.
type ByteChunkSourceFunc func(ctx context.Context) ([]byte, bool, error)

func (f ByteChunkSourceFunc) Next(ctx context.Context) ([]byte, bool, error) { return f(ctx) }

// byteSource decodes a ByteChunkSource's raw bytes into runes, one
// token.CharSource chunk at a time. It is the adapter spec.md names as a
// required external collaborator: chunk boundaries may fall in the middle
// of a multi-byte UTF-8 sequence, so a trailing partial sequence is carried
// over and prefixed onto the next chunk before decoding resumes.
type byteSource struct {
	upstream ByteChunkSource
	pending  []byte // an undecoded partial rune carried from the previous chunk
}

// NewByteSource wraps upstream as a token.CharSource.
func NewByteSource(upstream ByteChunkSource) *byteSource {
	return &byteSource{upstream: upstream}
}

func (s *byteSource) Next(ctx context.Context) ([]rune, bool, error) {
	chunk, ok, err := s.upstream.Next(ctx)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		if len(s.pending) > 0 {
			// A dangling partial sequence at true end of stream is
			// invalid UTF-8; surface it as a decoding replacement rune
			// rather than silently dropping bytes.
			runes := []rune{utf8.RuneError}
			s.pending = nil
			return runes, true, nil
		}
		return nil, false, nil
	}

	buf := append(s.pending, chunk...)
	s.pending = nil

	var runes []rune
	for len(buf) > 0 {
		r, size := utf8.DecodeRune(buf)
		if r == utf8.RuneError && size <= 1 {
			if !utf8.FullRune(buf) {
				// Could still be a valid rune once more bytes arrive.
				s.pending = append([]byte(nil), buf...)
				break
			}
			// A genuinely invalid byte sequence; emit the replacement
			// rune and skip it, matching utf8.DecodeRune's own contract.
			runes = append(runes, utf8.RuneError)
			buf = buf[1:]
			continue
		}
		runes = append(runes, r)
		buf = buf[size:]
	}
	return runes, true, nil
}
