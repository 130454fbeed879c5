package segheap

import (
	"encoding/binary"

	cerrors "github.com/cockroachdb/errors"
)

// wordSize is the width of a header/footer word. Sizes, and therefore every
// block boundary, are multiples of wordSize*2 (8 bytes), which leaves the low
// 3 bits of a packed word free for the allocation and reallocation-tag bits.
const wordSize = 4

// minBlockSize is the smallest legal block size: header, one predecessor
// link, one successor link, footer.
const minBlockSize = 16

const (
	allocBit = 1 << 0
	tagBit   = 1 << 1
	flagMask = allocBit | tagBit
)

// packWord packs a block size together with its allocation and
// reallocation-tag bits into the single 32-bit quantity stored at both the
// header and, for a well-formed block, the footer.
func packWord(size int, alloc, tag bool) uint32 {
	word := uint32(size) &^ uint32(flagMask)
	if alloc {
		word |= allocBit
	}
	if tag {
		word |= tagBit
	}
	return word
}

func unpackSize(word uint32) int {
	return int(word &^ uint32(flagMask))
}

func unpackAlloc(word uint32) bool {
	return word&allocBit != 0
}

func unpackTag(word uint32) bool {
	return word&tagBit != 0
}

// headerAddr returns the address of the header word for the block whose
// payload begins at p.
func headerAddr(p Ptr) Ptr {
	return p - wordSize
}

// footerAddr returns the address of the footer word for a block of the given
// size whose payload begins at p.
func footerAddr(p Ptr, size int) Ptr {
	return p + Ptr(size) - 2*wordSize
}

func (a *Allocator) readWord(addr Ptr) (uint32, error) {
	view, err := a.oracle.View(addr, wordSize)
	if err != nil {
		return 0, cerrors.Wrapf(err, "reading word at %d", addr)
	}
	return binary.LittleEndian.Uint32(view), nil
}

func (a *Allocator) writeWord(addr Ptr, word uint32) error {
	view, err := a.oracle.View(addr, wordSize)
	if err != nil {
		return cerrors.Wrapf(err, "writing word at %d", addr)
	}
	binary.LittleEndian.PutUint32(view, word)
	return nil
}

func (a *Allocator) header(p Ptr) (uint32, error) {
	return a.readWord(headerAddr(p))
}

func (a *Allocator) blockSize(p Ptr) (int, error) {
	word, err := a.header(p)
	if err != nil {
		return 0, err
	}
	return unpackSize(word), nil
}

func (a *Allocator) blockAlloc(p Ptr) (bool, error) {
	word, err := a.header(p)
	if err != nil {
		return false, err
	}
	return unpackAlloc(word), nil
}

func (a *Allocator) blockTag(p Ptr) (bool, error) {
	word, err := a.header(p)
	if err != nil {
		return false, err
	}
	return unpackTag(word), nil
}

// writePreservingTag writes a packed (size, alloc) word to both header and
// footer, OR'ing in whatever tag bit the block's current header carries. All
// coalesce/split updates use this so a protected free block keeps its tag
// across a size change.
func (a *Allocator) writePreservingTag(p Ptr, size int, alloc bool) error {
	cur, err := a.header(p)
	if err != nil {
		return err
	}
	return a.writePlain(p, size, alloc, unpackTag(cur))
}

// writePlain writes a packed (size, alloc, tag) word to both header and
// footer with no regard for whatever was there before. Used to initialize
// freshly extended heap regions and to explicitly clear a tag.
func (a *Allocator) writePlain(p Ptr, size int, alloc, tag bool) error {
	word := packWord(size, alloc, tag)
	if err := a.writeWord(headerAddr(p), word); err != nil {
		return err
	}
	return a.writeWord(footerAddr(p, size), word)
}

// setTag rewrites only the header's tag bit, leaving size and alloc as they
// are. The footer's tag bit is never read by anything, so it is left stale.
func (a *Allocator) setTag(p Ptr, tag bool) error {
	word, err := a.header(p)
	if err != nil {
		return err
	}
	return a.writeWord(headerAddr(p), packWord(unpackSize(word), unpackAlloc(word), tag))
}

// nextBlockPtr returns the payload address of the block physically
// following the block of size bytes starting at p.
func nextBlockPtr(p Ptr, size int) Ptr {
	return p + Ptr(size)
}

// prevBlockPtr returns the payload address of the block physically
// preceding p, found by reading the word immediately before p's own header
// -- the physical predecessor's footer -- and subtracting its size.
func (a *Allocator) prevBlockPtr(p Ptr) (Ptr, error) {
	word, err := a.readWord(headerAddr(p) - wordSize)
	if err != nil {
		return 0, err
	}
	return p - Ptr(unpackSize(word)), nil
}
