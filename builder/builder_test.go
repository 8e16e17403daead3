package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flitsinc/jsonstream/token"
	"github.com/flitsinc/jsonstream/value"
)

func TestBuilder_Scalar(t *testing.T) {
	b := New(10)
	require.NoError(t, b.HandleToken(token.Token{Kind: token.Number, Num: 42}))

	assert.True(t, b.Progressed())
	assert.True(t, b.Done())
	val, ok := b.Value()
	require.True(t, ok)
	assert.True(t, val.Equal(value.Number(42)))
}

func TestBuilder_TopLevelString(t *testing.T) {
	b := New(10)
	require.NoError(t, b.HandleToken(token.Token{Kind: token.StringStart}))
	val, ok := b.Value()
	require.True(t, ok)
	assert.True(t, val.Equal(value.String("")))

	require.NoError(t, b.HandleToken(token.Token{Kind: token.StringMiddle, Text: "hi"}))
	val, ok = b.Value()
	require.True(t, ok)
	assert.True(t, val.Equal(value.String("hi")))

	require.NoError(t, b.HandleToken(token.Token{Kind: token.StringEnd}))
	assert.True(t, b.Done())
	val, ok = b.Value()
	require.True(t, ok)
	assert.True(t, val.Equal(value.String("hi")))
}

func TestBuilder_ArrayGrowsIncrementally(t *testing.T) {
	b := New(10)
	toks := []token.Token{
		{Kind: token.ArrayStart},
		{Kind: token.Number, Num: 1},
		{Kind: token.Number, Num: 2},
		{Kind: token.ArrayEnd},
	}
	var snapshots []value.Value
	for _, tok := range toks {
		require.NoError(t, b.HandleToken(tok))
		val, ok := b.Value()
		require.True(t, ok)
		snapshots = append(snapshots, val)
	}

	assert.True(t, snapshots[0].Equal(value.Array()))
	assert.True(t, snapshots[1].Equal(value.Array(value.Number(1))))
	assert.True(t, snapshots[2].Equal(value.Array(value.Number(1), value.Number(2))))
	assert.True(t, snapshots[3].Equal(value.Array(value.Number(1), value.Number(2))))
	assert.True(t, b.Done())
}

func TestBuilder_ObjectKeyDoesNotCountAsProgress(t *testing.T) {
	b := New(10)
	require.NoError(t, b.HandleToken(token.Token{Kind: token.ObjectStart}))
	b.ResetProgress()

	require.NoError(t, b.HandleToken(token.Token{Kind: token.StringStart}))
	assert.False(t, b.Progressed(), "opening an object key must not count as progress")

	require.NoError(t, b.HandleToken(token.Token{Kind: token.StringMiddle, Text: "name"}))
	assert.False(t, b.Progressed(), "accumulating an object key must not count as progress")

	require.NoError(t, b.HandleToken(token.Token{Kind: token.StringEnd}))
	assert.False(t, b.Progressed(), "finishing an object key must not count as progress")

	val, ok := b.Value()
	require.True(t, ok)
	assert.True(t, val.Equal(value.Object()), "key text must not leak into the published value")
}

func TestBuilder_ObjectKeyThenValue(t *testing.T) {
	b := New(10)
	toks := []token.Token{
		{Kind: token.ObjectStart},
		{Kind: token.StringStart},
		{Kind: token.StringMiddle, Text: "name"},
		{Kind: token.StringEnd},
		{Kind: token.StringStart},
		{Kind: token.StringMiddle, Text: "Ada"},
		{Kind: token.StringEnd},
		{Kind: token.ObjectEnd},
	}
	for _, tok := range toks {
		require.NoError(t, b.HandleToken(tok))
	}

	val, ok := b.Value()
	require.True(t, ok)
	assert.True(t, val.Equal(value.Object(value.Pair{Key: "name", Value: value.String("Ada")})))
	assert.True(t, b.Done())
}

func TestBuilder_DuplicateKeyOverwritesInPlace(t *testing.T) {
	b := New(10)
	toks := []token.Token{
		{Kind: token.ObjectStart},
		{Kind: token.StringStart}, {Kind: token.StringMiddle, Text: "a"}, {Kind: token.StringEnd},
		{Kind: token.Number, Num: 1},
		{Kind: token.StringStart}, {Kind: token.StringMiddle, Text: "b"}, {Kind: token.StringEnd},
		{Kind: token.Number, Num: 2},
		{Kind: token.StringStart}, {Kind: token.StringMiddle, Text: "a"}, {Kind: token.StringEnd},
		{Kind: token.Number, Num: 99},
		{Kind: token.ObjectEnd},
	}
	for _, tok := range toks {
		require.NoError(t, b.HandleToken(tok))
	}

	val, ok := b.Value()
	require.True(t, ok)
	keys, isObj := val.ObjectKeys()
	require.True(t, isObj)
	assert.Equal(t, []string{"a", "b"}, keys, "key order follows first occurrence")
	got, _ := val.ObjectGet("a")
	assert.True(t, got.Equal(value.Number(99)), "later write wins")
}

func TestBuilder_ValueBecomesKeyAfterComma(t *testing.T) {
	// {"a":"x","b":1} exercises the reclassification: the string "x" is
	// provisionally a value, then StringEnd (for the *next* key "b")
	// transitions the frame back from InObjectExpectingKey.
	b := New(10)
	toks := []token.Token{
		{Kind: token.ObjectStart},
		{Kind: token.StringStart}, {Kind: token.StringMiddle, Text: "a"}, {Kind: token.StringEnd},
		{Kind: token.StringStart}, {Kind: token.StringMiddle, Text: "x"}, {Kind: token.StringEnd},
		{Kind: token.StringStart}, {Kind: token.StringMiddle, Text: "b"}, {Kind: token.StringEnd},
		{Kind: token.Number, Num: 1},
		{Kind: token.ObjectEnd},
	}
	for _, tok := range toks {
		require.NoError(t, b.HandleToken(tok))
	}

	val, ok := b.Value()
	require.True(t, ok)
	assert.True(t, val.Equal(value.Object(
		value.Pair{Key: "a", Value: value.String("x")},
		value.Pair{Key: "b", Value: value.Number(1)},
	)))
}

func TestBuilder_NestedContainerMutationRefreshesRoot(t *testing.T) {
	// {"items":[1,2]} — appending into the nested array must be visible in
	// the root object snapshot immediately.
	b := New(10)
	toks := []token.Token{
		{Kind: token.ObjectStart},
		{Kind: token.StringStart}, {Kind: token.StringMiddle, Text: "items"}, {Kind: token.StringEnd},
		{Kind: token.ArrayStart},
		{Kind: token.Number, Num: 1},
	}
	for _, tok := range toks {
		require.NoError(t, b.HandleToken(tok))
	}
	val, ok := b.Value()
	require.True(t, ok)
	assert.True(t, val.Equal(value.Object(value.Pair{
		Key: "items", Value: value.Array(value.Number(1)),
	})))
}

func TestBuilder_NestedObjectUnderKeyRefreshesGrandparent(t *testing.T) {
	// {"name":"test","nested":{"value":42}} — "nested"'s object frame stays
	// InObjectExpectingKey for its whole open lifetime (placeLeaf already
	// flipped it before the child was pushed), so refresh must still write
	// the child's growing snapshot back into it, not just on close.
	b := New(10)
	toks := []token.Token{
		{Kind: token.ObjectStart},
		{Kind: token.StringStart}, {Kind: token.StringMiddle, Text: "name"}, {Kind: token.StringEnd},
		{Kind: token.StringStart}, {Kind: token.StringMiddle, Text: "test"}, {Kind: token.StringEnd},
		{Kind: token.StringStart}, {Kind: token.StringMiddle, Text: "nested"}, {Kind: token.StringEnd},
		{Kind: token.ObjectStart},
		{Kind: token.StringStart}, {Kind: token.StringMiddle, Text: "value"}, {Kind: token.StringEnd},
		{Kind: token.Number, Num: 42},
	}
	for _, tok := range toks {
		require.NoError(t, b.HandleToken(tok))
	}

	val, ok := b.Value()
	require.True(t, ok)
	assert.True(t, val.Equal(value.Object(
		value.Pair{Key: "name", Value: value.String("test")},
		value.Pair{Key: "nested", Value: value.Object(
			value.Pair{Key: "value", Value: value.Number(42)},
		)},
	)), "nested object's value must be visible before ObjectEnd closes it")
}

func TestBuilder_DepthExceeded(t *testing.T) {
	b := New(1)
	require.NoError(t, b.HandleToken(token.Token{Kind: token.ArrayStart}))
	err := b.HandleToken(token.Token{Kind: token.ArrayStart})
	require.Error(t, err)
}
