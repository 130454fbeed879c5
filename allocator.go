// Package segheap implements a general-purpose dynamic memory allocator
// over a single contiguous heap whose upper bound is extended on demand by
// an externally supplied HeapOracle. It provides three operations —
// allocate, free, reallocate — backed by a 20-class segregated free-list
// index, a coalescing/splitting engine, and a reallocation-tag heuristic
// that amortizes grow-by-a-constant resize sequences.
//
// The allocator is single-threaded. It does not defragment in the
// background, does not return memory to its oracle, and does not detect
// double-free or pointer corruption.
package segheap

import (
	cerrors "github.com/cockroachdb/errors"

	"github.com/segheap/segheap/memutils"
)

// Allocator is a segregated-fit heap allocator layered on top of a
// HeapOracle. The zero value is not usable; construct one with
// NewAllocator.
type Allocator struct {
	oracle HeapOracle
	cfg    Config

	freeHeads [numSizeClasses]Ptr

	// prologue is the payload pointer of the permanently-allocated,
	// zero-payload sentinel block installed by Init. It never changes once
	// Init succeeds.
	prologue Ptr
}

// NewAllocator constructs an Allocator over the given oracle. Call Init
// before any other method.
func NewAllocator(oracle HeapOracle, opts ...Option) *Allocator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	memutils.DebugCheckPow2(uint(2*wordSize), "block alignment")
	a := &Allocator{
		oracle: oracle,
		cfg:    cfg,
	}
	for i := range a.freeHeads {
		a.freeHeads[i] = NullPtr
	}
	return a
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// adjustedSize computes the total block size needed to satisfy a client
// request of n payload bytes: header, footer, and enough room for the
// free-list links a block needs while it is free, rounded up to the native
// 8-byte alignment.
func adjustedSize(n int) int {
	return maxInt(minBlockSize, memutils.AlignUp(n+2*wordSize, 2*wordSize))
}

// Init prepares an empty heap: the 20 free-list heads, the prologue and
// epilogue sentinels, and an initial free block of the configured initial
// chunk size. It must be called exactly once, before any Alloc, Free, or
// Realloc call.
func (a *Allocator) Init() error {
	for i := range a.freeHeads {
		a.freeHeads[i] = NullPtr
	}
	a.oracle.Reset()

	// 4-byte alignment pad, prologue header, prologue footer, epilogue
	// header: 16 bytes, laid down before any real block exists.
	base, err := a.oracle.Extend(4 * wordSize)
	if err != nil {
		return cerrors.Wrap(ErrHeapExhausted, "initializing heap")
	}
	if err := a.writeWord(base, 0); err != nil {
		return err
	}
	a.prologue = base + 2*wordSize
	if err := a.writePlain(a.prologue, 2*wordSize, true, false); err != nil {
		return err
	}
	epilogue := nextBlockPtr(a.prologue, 2*wordSize)
	if err := a.writeWord(headerAddr(epilogue), packWord(0, true, false)); err != nil {
		return err
	}

	if _, err := a.extendHeap(a.cfg.initChunkSize); err != nil {
		return cerrors.Wrap(ErrHeapExhausted, "installing initial free block")
	}
	return nil
}

// extendHeap grows the heap by n bytes (aligned up to 8), lays down a new
// free block header/footer and a fresh epilogue header, links the new block
// into its free list, and coalesces it with whatever free block preceded
// the old epilogue. It returns the payload pointer of the resulting
// (possibly merged) free block.
func (a *Allocator) extendHeap(n int) (Ptr, error) {
	asize := memutils.AlignUp(n, 2*wordSize)

	p, err := a.oracle.Extend(asize)
	if err != nil {
		return NullPtr, cerrors.Wrap(ErrHeapExhausted, "extending heap")
	}

	if err := a.writePlain(p, asize, false, false); err != nil {
		return NullPtr, err
	}
	epilogue := nextBlockPtr(p, asize)
	if err := a.writeWord(headerAddr(epilogue), packWord(0, true, false)); err != nil {
		return NullPtr, err
	}

	if err := a.insertFree(p, asize); err != nil {
		return NullPtr, err
	}

	a.logExtend(asize, p)

	merged, err := a.coalesce(p)
	if err != nil {
		return NullPtr, err
	}
	return merged, nil
}

// Alloc returns a payload pointer to a block of at least n bytes, or
// NullPtr if n is 0 or the oracle refuses a necessary heap extension.
func (a *Allocator) Alloc(n int) Ptr {
	if n == 0 {
		return NullPtr
	}
	asize := adjustedSize(n)

	found, err := a.findFit(asize)
	if err != nil {
		return NullPtr
	}

	if found == NullPtr {
		extendSize := maxInt(asize, a.cfg.chunkSize)
		found, err = a.extendHeap(extendSize)
		if err != nil {
			return NullPtr
		}
	}

	placed, err := a.place(found, asize)
	if err != nil {
		return NullPtr
	}
	memutils.DebugValidate(a)
	return placed
}

// findFit searches the segregated lists from the class asize belongs in
// upward, returning the first block in the first non-empty class that is
// both large enough and not reservation-tagged. It returns NullPtr (with a
// nil error) if no such block exists anywhere in the index.
func (a *Allocator) findFit(asize int) (Ptr, error) {
	for class := sizeClass(asize); class < numSizeClasses; class++ {
		if class != numSizeClasses-1 && a.freeHeads[class] == NullPtr {
			continue
		}
		p := a.freeHeads[class]
		for p != NullPtr {
			size, err := a.blockSize(p)
			if err != nil {
				return NullPtr, err
			}
			tag, err := a.blockTag(p)
			if err != nil {
				return NullPtr, err
			}
			if asize <= size && !tag {
				break
			}
			p, err = a.pred(p)
			if err != nil {
				return NullPtr, err
			}
		}
		if p != NullPtr {
			return p, nil
		}
	}
	return NullPtr, nil
}

// Free releases the block at p back to the heap. It clears the
// reallocation tag the freed block's physical successor may be carrying
// (there is nothing left to protect slack for), marks p free, reinserts it
// into the free-list index, and coalesces it with any free neighbors.
func (a *Allocator) Free(p Ptr) {
	size, err := a.blockSize(p)
	if err != nil {
		return
	}
	next := nextBlockPtr(p, size)
	if err := a.setTag(next, false); err != nil {
		return
	}
	if err := a.writePreservingTag(p, size, false); err != nil {
		return
	}
	if err := a.insertFree(p, size); err != nil {
		return
	}
	if _, err := a.coalesce(p); err != nil {
		return
	}
	memutils.DebugValidate(a)
}

// Realloc resizes the block at p to hold at least n bytes, preserving the
// first min(n, old payload size) bytes of its contents. It returns NullPtr
// without freeing p if n is 0, matching the reference implementation this
// allocator's heuristics are modeled on rather than POSIX realloc.
func (a *Allocator) Realloc(p Ptr, n int) Ptr {
	if n == 0 {
		return NullPtr
	}

	adj := adjustedSize(n)
	target := adj + a.cfg.slackBuffer

	curSize, err := a.blockSize(p)
	if err != nil {
		return NullPtr
	}
	slack := curSize - target
	newPtr := p

	if slack < 0 {
		next := nextBlockPtr(p, curSize)
		nextAlloc, err := a.blockAlloc(next)
		if err != nil {
			return NullPtr
		}
		nextSize, err := a.blockSize(next)
		if err != nil {
			return NullPtr
		}

		if !nextAlloc || nextSize == 0 {
			avail := curSize + nextSize - target
			if avail < 0 {
				extendSize := maxInt(-avail, a.cfg.chunkSize)
				if _, err := a.extendHeap(extendSize); err != nil {
					return NullPtr
				}
				avail += extendSize
			}
			if err := a.removeFree(next); err != nil {
				return NullPtr
			}
			if err := a.writePlain(p, target+avail, true, false); err != nil {
				return NullPtr
			}
			a.logReallocAbsorb(p, target+avail, false)
		} else {
			newPtr = a.Alloc(adj - 2*wordSize)
			if newPtr == NullPtr {
				return NullPtr
			}
			if err := a.copyPayload(p, newPtr, minInt(n, target)); err != nil {
				return NullPtr
			}
			a.Free(p)
			a.logReallocRelocate(p, newPtr, minInt(n, target))
		}
	}

	newSize, err := a.blockSize(newPtr)
	if err != nil {
		return NullPtr
	}
	if newSize-target < 2*a.cfg.slackBuffer {
		if err := a.setTag(nextBlockPtr(newPtr, newSize), true); err != nil {
			return NullPtr
		}
	}
	memutils.DebugValidate(a)
	return newPtr
}

// View exposes n bytes of a payload starting at p for the caller to read or
// write directly. p must address a live allocated block; [p, p+n) must lie
// within its payload, which the allocator does not check.
func (a *Allocator) View(p Ptr, n int) ([]byte, error) {
	alloc, err := a.blockAlloc(p)
	if err != nil {
		return nil, err
	}
	if !alloc {
		return nil, cerrors.Wrapf(ErrNotAllocated, "View(%d)", p)
	}
	return a.oracle.View(p, n)
}

// copyPayload copies n bytes from src's payload to dst's payload via the
// oracle's byte views.
func (a *Allocator) copyPayload(src, dst Ptr, n int) error {
	if n == 0 {
		return nil
	}
	from, err := a.oracle.View(src, n)
	if err != nil {
		return err
	}
	to, err := a.oracle.View(dst, n)
	if err != nil {
		return err
	}
	copy(to, from)
	return nil
}
