package segheap

// coalesce merges the block at p with whichever of its physical neighbors
// are free, reinserting the result into the segregated index at its new
// size. It is invoked immediately after a block becomes free, whether from
// Free or from a heap extension. A physical predecessor carrying the
// reallocation tag is treated as allocated for this purpose: tagged slack is
// never merged leftward, and allocation skips it, so it is left for the
// realloc it is reserved for. Merged headers and footers are written with the
// tag-preserving primitive, matching mm.c's use of the tag-preserving PUT
// macro throughout its own coalesce.
func (a *Allocator) coalesce(p Ptr) (Ptr, error) {
	origP := p
	size, err := a.blockSize(p)
	if err != nil {
		return NullPtr, err
	}
	origSize := size

	prevP, err := a.prevBlockPtr(p)
	if err != nil {
		return NullPtr, err
	}
	nextP := nextBlockPtr(p, size)

	prevAlloc, err := a.blockAlloc(prevP)
	if err != nil {
		return NullPtr, err
	}
	prevTag, err := a.blockTag(prevP)
	if err != nil {
		return NullPtr, err
	}
	if prevTag {
		prevAlloc = true
	}
	nextAlloc, err := a.blockAlloc(nextP)
	if err != nil {
		return NullPtr, err
	}

	switch {
	case prevAlloc && nextAlloc:
		return p, nil

	case prevAlloc && !nextAlloc:
		nextSize, err := a.blockSize(nextP)
		if err != nil {
			return NullPtr, err
		}
		if err := a.removeFree(p); err != nil {
			return NullPtr, err
		}
		if err := a.removeFree(nextP); err != nil {
			return NullPtr, err
		}
		size += nextSize
		if err := a.writePreservingTag(p, size, false); err != nil {
			return NullPtr, err
		}

	case !prevAlloc && nextAlloc:
		prevSize, err := a.blockSize(prevP)
		if err != nil {
			return NullPtr, err
		}
		if err := a.removeFree(p); err != nil {
			return NullPtr, err
		}
		if err := a.removeFree(prevP); err != nil {
			return NullPtr, err
		}
		size += prevSize
		if err := a.writePreservingTag(prevP, size, false); err != nil {
			return NullPtr, err
		}
		p = prevP

	default:
		prevSize, err := a.blockSize(prevP)
		if err != nil {
			return NullPtr, err
		}
		nextSize, err := a.blockSize(nextP)
		if err != nil {
			return NullPtr, err
		}
		if err := a.removeFree(p); err != nil {
			return NullPtr, err
		}
		if err := a.removeFree(prevP); err != nil {
			return NullPtr, err
		}
		if err := a.removeFree(nextP); err != nil {
			return NullPtr, err
		}
		size += prevSize + nextSize
		if err := a.writePreservingTag(prevP, size, false); err != nil {
			return NullPtr, err
		}
		p = prevP
	}

	if err := a.insertFree(p, size); err != nil {
		return NullPtr, err
	}
	a.logCoalesce(origP, p, origSize, size)
	return p, nil
}

// place carves an allocated block of asize bytes (or the whole block, when
// no split is made) out of the free block at p, which must already be of
// size >= asize. It removes p from its
// free list and applies one of three sub-policies, returning the payload
// pointer of the resulting allocated block.
func (a *Allocator) place(p Ptr, asize int) (Ptr, error) {
	size, err := a.blockSize(p)
	if err != nil {
		return NullPtr, err
	}
	remainder := size - asize

	if err := a.removeFree(p); err != nil {
		return NullPtr, err
	}

	switch {
	case remainder <= minBlockSize:
		// No split: when the remainder is at most minBlockSize bytes, the
		// whole block is handed to the caller.
		if err := a.writePreservingTag(p, size, true); err != nil {
			return NullPtr, err
		}
		return p, nil

	case asize >= 100:
		// Tail placement: large requests are carved from the upper end of
		// the block, keeping the low remainder in the small-class free
		// lists where it won't be displaced by a single big allocation.
		if err := a.writePreservingTag(p, remainder, false); err != nil {
			return NullPtr, err
		}
		tail := nextBlockPtr(p, remainder)
		if err := a.writePlain(tail, asize, true, false); err != nil {
			return NullPtr, err
		}
		if err := a.insertFree(p, remainder); err != nil {
			return NullPtr, err
		}
		a.logSplit(tail, asize, p, remainder)
		return tail, nil

	default:
		// Head placement: the common case. The allocation takes the low
		// end; the remainder becomes a new free block at the high end.
		if err := a.writePreservingTag(p, asize, true); err != nil {
			return NullPtr, err
		}
		rest := nextBlockPtr(p, asize)
		if err := a.writePlain(rest, remainder, false, false); err != nil {
			return NullPtr, err
		}
		if err := a.insertFree(rest, remainder); err != nil {
			return NullPtr, err
		}
		a.logSplit(p, asize, rest, remainder)
		return p, nil
	}
}
