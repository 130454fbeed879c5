package segheap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSizeClassBoundaries(t *testing.T) {
	cases := []struct {
		size     int
		wantClass int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 1},
		{4, 2},
		{16, 4},
		{1 << 19, numSizeClasses - 1},
		{1 << 30, numSizeClasses - 1},
	}
	for _, c := range cases {
		require.Equal(t, c.wantClass, sizeClass(c.size), "size %d", c.size)
	}
}

// blockAt lays down a free block of the given size at a fixed offset within
// a raw allocator's backing heap, for free-list tests that only care about
// link bookkeeping and never walk physical neighbors.
func blockAt(t *testing.T, a *Allocator, offset Ptr, size int) Ptr {
	t.Helper()
	require.NoError(t, a.writePlain(offset, size, false, false))
	return offset
}

func TestInsertFreeOrdersAscendingFromHead(t *testing.T) {
	a, base := newRawAllocator(t, 256)

	// 32, 40, and 48 all fall in the same size class (sizeClass buckets by
	// power-of-two magnitude, and all three are in [32,64)).
	small := blockAt(t, a, base, 32)
	mid := blockAt(t, a, base+32, 40)
	large := blockAt(t, a, base+96, 48)

	require.NoError(t, a.insertFree(mid, 40))
	require.NoError(t, a.insertFree(small, 32))
	require.NoError(t, a.insertFree(large, 48))

	class := sizeClass(32)
	require.Equal(t, class, sizeClass(40))
	require.Equal(t, class, sizeClass(48))

	head := a.freeHeads[class]
	require.Equal(t, small, head, "head of the class must hold the smallest member")

	next, err := a.pred(head)
	require.NoError(t, err)
	require.Equal(t, mid, next, "walking pred from the head must move toward larger sizes")

	top, err := a.pred(next)
	require.NoError(t, err)
	require.Equal(t, large, top)

	end, err := a.pred(top)
	require.NoError(t, err)
	require.Equal(t, NullPtr, end)

	tail, err := a.succ(head)
	require.NoError(t, err)
	require.Equal(t, NullPtr, tail, "succ from the head must be NullPtr")
}

func TestRemoveFreeSplicesMiddleNode(t *testing.T) {
	a, base := newRawAllocator(t, 256)

	small := blockAt(t, a, base, 16)
	mid := blockAt(t, a, base+32, 20)
	large := blockAt(t, a, base+96, 28)

	require.NoError(t, a.insertFree(small, 16))
	require.NoError(t, a.insertFree(mid, 20))
	require.NoError(t, a.insertFree(large, 28))

	require.NoError(t, a.removeFree(mid))

	class := sizeClass(16)
	head := a.freeHeads[class]
	require.Equal(t, small, head)

	next, err := a.pred(head)
	require.NoError(t, err)
	require.Equal(t, large, next, "removing the middle node must link its former neighbors directly")

	back, err := a.succ(next)
	require.NoError(t, err)
	require.Equal(t, small, back)
}

func TestRemoveFreeLastNodeEmptiesHead(t *testing.T) {
	a, base := newRawAllocator(t, 64)
	only := blockAt(t, a, base, 16)

	require.NoError(t, a.insertFree(only, 16))
	require.NoError(t, a.removeFree(only))

	require.Equal(t, NullPtr, a.freeHeads[sizeClass(16)])
}
