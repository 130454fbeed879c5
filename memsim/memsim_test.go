package memsim_test

import (
	"testing"

	"github.com/segheap/segheap"
	"github.com/segheap/segheap/memsim"
	"github.com/stretchr/testify/require"
)

func TestExtendGrowsFromPreviousHigh(t *testing.T) {
	h := memsim.New(0)

	p1, err := h.Extend(16)
	require.NoError(t, err)
	require.Equal(t, segheap.Ptr(0), p1)
	require.Equal(t, segheap.Ptr(16), h.Hi())

	p2, err := h.Extend(8)
	require.NoError(t, err)
	require.Equal(t, segheap.Ptr(16), p2)
	require.Equal(t, segheap.Ptr(24), h.Hi())
}

func TestExtendRespectsMaxSize(t *testing.T) {
	h := memsim.New(16)

	_, err := h.Extend(16)
	require.NoError(t, err)

	_, err = h.Extend(1)
	require.Error(t, err)
}

func TestResetEmptiesHeap(t *testing.T) {
	h := memsim.New(0)
	_, err := h.Extend(32)
	require.NoError(t, err)

	h.Reset()

	require.Equal(t, segheap.NullPtr, h.Lo())
	require.Equal(t, segheap.Ptr(0), h.Hi())
}

func TestViewReadsAndWritesThroughSharedBacking(t *testing.T) {
	h := memsim.New(0)
	_, err := h.Extend(16)
	require.NoError(t, err)

	view, err := h.View(4, 4)
	require.NoError(t, err)
	copy(view, []byte{1, 2, 3, 4})

	readBack, err := h.View(4, 4)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, readBack)
}

func TestViewOutOfBoundsErrors(t *testing.T) {
	h := memsim.New(0)
	_, err := h.Extend(8)
	require.NoError(t, err)

	_, err = h.View(4, 8)
	require.Error(t, err)
}
