package segheap

// numSizeClasses is the number of segregated free-list buckets. The k-th
// list holds free blocks of size in [2^k, 2^(k+1)), except the last list,
// which absorbs everything from 2^(numSizeClasses-1) upward.
const numSizeClasses = 20

// nullWord is the sentinel stored in a free block's predecessor/successor
// link fields in place of NullPtr, since those fields are raw 32-bit heap
// words rather than Go's signed Ptr.
const nullWord = 0xFFFFFFFF

// sizeClass returns the index of the segregated list a block of the given
// size belongs in: min(numSizeClasses-1, floor(log2(size))), computed by
// repeated right-shift rather than a log call.
func sizeClass(size int) int {
	class := 0
	for class < numSizeClasses-1 && size > 1 {
		size >>= 1
		class++
	}
	return class
}

func predAddr(p Ptr) Ptr { return p }
func succAddr(p Ptr) Ptr { return p + wordSize }

func (a *Allocator) readPtr(addr Ptr) (Ptr, error) {
	word, err := a.readWord(addr)
	if err != nil {
		return NullPtr, err
	}
	if word == nullWord {
		return NullPtr, nil
	}
	return Ptr(word), nil
}

func (a *Allocator) writePtr(addr Ptr, p Ptr) error {
	if p == NullPtr {
		return a.writeWord(addr, nullWord)
	}
	return a.writeWord(addr, uint32(p))
}

func (a *Allocator) pred(p Ptr) (Ptr, error) { return a.readPtr(predAddr(p)) }
func (a *Allocator) succ(p Ptr) (Ptr, error) { return a.readPtr(succAddr(p)) }

func (a *Allocator) setPred(p, v Ptr) error { return a.writePtr(predAddr(p), v) }
func (a *Allocator) setSucc(p, v Ptr) error { return a.writePtr(succAddr(p), v) }

// insertFree links a free block of the given size into its segregated list,
// keeping the list ordered by ascending size from the head. Walking a list
// from its head by following pred links therefore visits blocks in
// increasing size order; the head itself always holds the smallest member
// of the class.
func (a *Allocator) insertFree(p Ptr, size int) error {
	class := sizeClass(size)

	search := a.freeHeads[class]
	var tooSmall Ptr = NullPtr

	for search != NullPtr {
		searchSize, err := a.blockSize(search)
		if err != nil {
			return err
		}
		if size <= searchSize {
			break
		}
		tooSmall = search
		search, err = a.pred(search)
		if err != nil {
			return err
		}
	}

	switch {
	case search != NullPtr && tooSmall != NullPtr:
		if err := a.setPred(p, search); err != nil {
			return err
		}
		if err := a.setSucc(search, p); err != nil {
			return err
		}
		if err := a.setSucc(p, tooSmall); err != nil {
			return err
		}
		if err := a.setPred(tooSmall, p); err != nil {
			return err
		}
	case search != NullPtr:
		if err := a.setPred(p, search); err != nil {
			return err
		}
		if err := a.setSucc(search, p); err != nil {
			return err
		}
		if err := a.setSucc(p, NullPtr); err != nil {
			return err
		}
		a.freeHeads[class] = p
	case tooSmall != NullPtr:
		if err := a.setPred(p, NullPtr); err != nil {
			return err
		}
		if err := a.setSucc(p, tooSmall); err != nil {
			return err
		}
		if err := a.setPred(tooSmall, p); err != nil {
			return err
		}
	default:
		if err := a.setPred(p, NullPtr); err != nil {
			return err
		}
		if err := a.setSucc(p, NullPtr); err != nil {
			return err
		}
		a.freeHeads[class] = p
	}
	return nil
}

// removeFree unlinks a free block from its segregated list. The class is
// recomputed from the block's current size, which is safe because a block's
// class never changes between an insert and its matching remove without
// first going through coalesce, and coalesce always removes before it
// resizes.
func (a *Allocator) removeFree(p Ptr) error {
	size, err := a.blockSize(p)
	if err != nil {
		return err
	}
	class := sizeClass(size)

	predP, err := a.pred(p)
	if err != nil {
		return err
	}
	succP, err := a.succ(p)
	if err != nil {
		return err
	}

	switch {
	case predP != NullPtr && succP != NullPtr:
		if err := a.setSucc(predP, succP); err != nil {
			return err
		}
		if err := a.setPred(succP, predP); err != nil {
			return err
		}
	case predP != NullPtr:
		if err := a.setSucc(predP, NullPtr); err != nil {
			return err
		}
		a.freeHeads[class] = predP
	case succP != NullPtr:
		if err := a.setPred(succP, NullPtr); err != nil {
			return err
		}
	default:
		a.freeHeads[class] = NullPtr
	}
	return nil
}
