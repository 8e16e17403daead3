package token

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flitsinc/jsonstream/jsonerr"
)

// chunkSource replays a fixed list of rune chunks, then reports exhaustion.
type chunkSource struct {
	chunks [][]rune
}

func (s *chunkSource) Next(ctx context.Context) ([]rune, bool, error) {
	if len(s.chunks) == 0 {
		return nil, false, nil
	}
	c := s.chunks[0]
	s.chunks = s.chunks[1:]
	return c, true, nil
}

func chunksOf(s string, size int) [][]rune {
	runes := []rune(s)
	var out [][]rune
	for len(runes) > 0 {
		n := size
		if n > len(runes) {
			n = len(runes)
		}
		out = append(out, runes[:n])
		runes = runes[n:]
	}
	return out
}

func TestBuffer_PeekAdvanceSlice(t *testing.T) {
	b := NewBuffer(&chunkSource{chunks: chunksOf("hello", 2)})
	ctx := context.Background()

	for b.Length() < 5 {
		more, err := b.TryExpand(ctx)
		require.NoError(t, err)
		require.True(t, more)
	}

	r, ok := b.Peek(0)
	require.True(t, ok)
	assert.Equal(t, 'h', r)

	assert.Equal(t, "hel", b.Slice(0, 3))
	b.Advance(3)
	r, ok = b.Peek(0)
	require.True(t, ok)
	assert.Equal(t, 'l', r)
}

func TestBuffer_SkipWhitespace(t *testing.T) {
	b := NewBuffer(&chunkSource{chunks: [][]rune{[]rune("  \t\n42")}})
	ctx := context.Background()
	_, err := b.TryExpand(ctx)
	require.NoError(t, err)

	b.SkipWhitespace()
	r, ok := b.Peek(0)
	require.True(t, ok)
	assert.Equal(t, '4', r)
}

func TestBuffer_TakeUntilQuoteOrBackslash_StopsOnDelimiter(t *testing.T) {
	b := NewBuffer(&chunkSource{chunks: [][]rune{[]rune(`abc"def`)}})
	ctx := context.Background()
	_, err := b.TryExpand(ctx)
	require.NoError(t, err)

	text, delimited, err := b.TakeUntilQuoteOrBackslash()
	require.NoError(t, err)
	assert.True(t, delimited)
	assert.Equal(t, "abc", text)
}

func TestBuffer_TakeUntilQuoteOrBackslash_RejectsControlChar(t *testing.T) {
	b := NewBuffer(&chunkSource{chunks: [][]rune{{'a', 0x01, 'b'}}})
	ctx := context.Background()
	_, err := b.TryExpand(ctx)
	require.NoError(t, err)

	_, _, err = b.TakeUntilQuoteOrBackslash()
	var controlErr *jsonerr.ControlCharacterError
	require.ErrorAs(t, err, &controlErr)
}

func TestBuffer_ExpectEndOfContent_FailsOnTrailingText(t *testing.T) {
	b := NewBuffer(&chunkSource{chunks: [][]rune{[]rune("  garbage")}})
	ctx := context.Background()

	err := b.ExpectEndOfContent(ctx)
	var trailingErr *jsonerr.UnexpectedTrailingContentError
	require.ErrorAs(t, err, &trailingErr)
}

func TestBuffer_ExpectEndOfContent_AllowsTrailingWhitespace(t *testing.T) {
	b := NewBuffer(&chunkSource{chunks: [][]rune{[]rune("   \n\t")}})
	ctx := context.Background()

	err := b.ExpectEndOfContent(ctx)
	require.NoError(t, err)
}

func TestBuffer_TryExpand_ErrorsOnUnexpectedEOF(t *testing.T) {
	b := NewBuffer(&chunkSource{})
	ctx := context.Background()

	_, err := b.TryExpand(ctx)
	assert.ErrorIs(t, err, jsonerr.ErrUnexpectedEndOfContent)
}
