package segheap

import (
	"github.com/dolthub/swiss"

	cerrors "github.com/cockroachdb/errors"
)

// Validate performs an expensive, on-demand walk of the entire heap and
// checks every invariant a well-formed allocator state must satisfy: header
// and footer agreement on size and allocation bit (the footer's tag bit is
// not compared), free-list membership and classification, the
// no-two-untagged-adjacent-free-blocks rule, pointer alignment and bounds,
// and that the physical blocks account for every byte the oracle reports
// the heap holds. Alloc, Free, and Realloc call it through
// memutils.DebugValidate, which does nothing unless the debug_mem_utils
// build tag is set.
func (a *Allocator) Validate() error {
	freeInLists := swiss.NewMap[Ptr, struct{}](64)
	for class := 0; class < numSizeClasses; class++ {
		p := a.freeHeads[class]
		for p != NullPtr {
			size, err := a.blockSize(p)
			if err != nil {
				return err
			}
			if sizeClass(size) != class {
				return cerrors.Errorf("free block %d of size %d sits in list %d, belongs in %d", p, size, class, sizeClass(size))
			}
			freeInLists.Put(p, struct{}{})
			p, err = a.pred(p)
			if err != nil {
				return err
			}
		}
	}

	heapLo := a.oracle.Lo()
	heapHi := a.oracle.Hi()

	var totalSize int
	var prevWasFree, prevWasTagged bool

	err := a.walk(func(p Ptr, size int, alloc bool) (bool, error) {
		totalSize += size

		if p%(2*wordSize) != 0 {
			return false, cerrors.Errorf("block %d is not 8-byte aligned", p)
		}
		if p <= heapLo || p >= heapHi {
			return false, cerrors.Errorf("block %d lies outside (%d, %d)", p, heapLo, heapHi)
		}

		headerWord, err := a.header(p)
		if err != nil {
			return false, err
		}
		footerWord, err := a.readWord(footerAddr(p, size))
		if err != nil {
			return false, err
		}
		if unpackSize(headerWord) != unpackSize(footerWord) || unpackAlloc(headerWord) != unpackAlloc(footerWord) {
			return false, cerrors.Errorf("block %d: header %#x disagrees with footer %#x", p, headerWord, footerWord)
		}

		if !alloc {
			if prevWasFree && !prevWasTagged {
				return false, cerrors.Errorf("block %d is free and adjacent to an untagged free predecessor", p)
			}
			if _, ok := freeInLists.Get(p); !ok {
				return false, cerrors.Errorf("free block %d does not appear in its free list", p)
			}
			freeInLists.Delete(p)
		}

		prevWasFree = !alloc
		prevWasTagged = unpackTag(headerWord)
		return true, nil
	})
	if err != nil {
		return err
	}

	if freeInLists.Count() != 0 {
		return cerrors.Errorf("%d free-list entries do not correspond to a physical free block", freeInLists.Count())
	}

	// pad (4) + prologue (8) + every walked block + epilogue header (4). The
	// epilogue's declared size is 0, so walk() never adds it to totalSize,
	// but it still occupies one physical word that must be accounted for.
	if sentinelOverhead+totalSize != int(heapHi-heapLo) {
		return cerrors.Errorf("block sizes sum to %d but heap spans %d bytes", sentinelOverhead+totalSize, int(heapHi-heapLo))
	}
	return nil
}

// sentinelOverhead is the pad word (4 bytes) plus the prologue's
// header+footer (8 bytes) plus the epilogue's header (4 bytes).
const sentinelOverhead = wordSize + 2*wordSize + wordSize
