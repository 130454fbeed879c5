// Package memsim provides an in-process HeapOracle backed by a growing
// []byte. It plays the role the reference allocator's memlib.c plays for the
// C implementation this package is modeled on: a minimal, test-friendly
// stand-in for whatever real break-pointer-backed storage a production
// caller would supply.
package memsim

import (
	"fmt"

	cerrors "github.com/cockroachdb/errors"
	"github.com/segheap/segheap"
)

// Heap is a HeapOracle backed by a plain Go byte slice. Extend grows the
// slice; Reset truncates it back to empty. It is not safe for concurrent
// use, matching the single-threaded contract of the allocator it backs.
type Heap struct {
	mem []byte
	cap int
}

var _ segheap.HeapOracle = (*Heap)(nil)

// New creates an empty Heap. maxSize bounds how large the heap is allowed to
// grow; Extend fails once the heap would exceed it. A maxSize of 0 means
// unbounded.
func New(maxSize int) *Heap {
	return &Heap{cap: maxSize}
}

func (h *Heap) Extend(n int) (segheap.Ptr, error) {
	if n < 0 {
		return segheap.NullPtr, cerrors.Newf("cannot extend heap by negative size %d", n)
	}
	if h.cap > 0 && len(h.mem)+n > h.cap {
		return segheap.NullPtr, cerrors.Newf("heap extension of %d bytes would exceed maximum size %d", n, h.cap)
	}

	start := segheap.Ptr(len(h.mem))
	h.mem = append(h.mem, make([]byte, n)...)
	return start, nil
}

func (h *Heap) Lo() segheap.Ptr {
	if len(h.mem) == 0 {
		return segheap.NullPtr
	}
	return 0
}

func (h *Heap) Hi() segheap.Ptr {
	return segheap.Ptr(len(h.mem))
}

func (h *Heap) Reset() {
	h.mem = h.mem[:0]
}

func (h *Heap) View(offset segheap.Ptr, length int) ([]byte, error) {
	if offset < 0 || length < 0 || int(offset)+length > len(h.mem) {
		return nil, cerrors.Newf("view of [%d, %d) is out of bounds for heap of size %d", offset, int(offset)+length, len(h.mem))
	}
	return h.mem[offset : int(offset)+length], nil
}

// Size returns the current size in bytes of the simulated heap.
func (h *Heap) Size() int {
	return len(h.mem)
}

func (h *Heap) String() string {
	return fmt.Sprintf("memsim.Heap{size=%d, cap=%d}", len(h.mem), h.cap)
}
