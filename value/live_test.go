package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveArray_AppendAndReplaceLast(t *testing.T) {
	a := NewLiveArray()
	a.Append(Number(1))
	a.Append(String(""))
	a.ReplaceLast(String("done"))

	snap := a.ToValue()
	items, ok := snap.Array()
	require.True(t, ok)
	assert.True(t, items[0].Equal(Number(1)))
	assert.True(t, items[1].Equal(String("done")))
}

func TestLiveObject_DuplicateKeyKeepsPositionTakesLastValue(t *testing.T) {
	o := NewLiveObject()
	o.Set("a", Number(1))
	o.Set("b", Number(2))
	o.Set("a", Number(99))

	snap := o.ToValue()
	keys, ok := snap.ObjectKeys()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, keys, "first-occurrence position is preserved")

	v, ok := snap.ObjectGet("a")
	require.True(t, ok)
	assert.True(t, v.Equal(Number(99)), "later Set wins")
}

func TestLiveObject_ToValueSnapshotIsIndependent(t *testing.T) {
	o := NewLiveObject()
	o.Set("a", Number(1))
	snap1 := o.ToValue()
	o.Set("a", Number(2))
	snap2 := o.ToValue()

	v1, _ := snap1.ObjectGet("a")
	v2, _ := snap2.ObjectGet("a")
	assert.True(t, v1.Equal(Number(1)), "earlier snapshot must not observe later mutation")
	assert.True(t, v2.Equal(Number(2)))
}
