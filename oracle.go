package segheap

// Ptr is a byte offset into the heap address space managed by a HeapOracle.
// Client code receives Ptr values from Alloc and Realloc and must treat them
// as opaque handles into the heap, never as addresses into Go's own memory.
type Ptr int

// NullPtr is returned by Alloc and Realloc on a zero-size request or a
// heap-extension failure. It is never a valid payload offset.
const NullPtr Ptr = -1

// HeapOracle is the external memory system this allocator is layered on top
// of. The allocator never allocates Go memory for heap bytes itself; it asks
// the oracle to grow a single contiguous region and reads/writes through the
// byte views the oracle hands back. This mirrors the memlib.c contract the
// reference implementation this allocator is modeled on was built against:
// extend the break, report the current bounds, and reset between runs.
type HeapOracle interface {
	// Extend grows the heap by exactly n bytes and returns the offset at
	// which the new region begins (the previous break). It returns an error
	// if the heap cannot be grown by n bytes.
	Extend(n int) (Ptr, error)
	// Lo returns the lowest valid offset currently in the heap.
	Lo() Ptr
	// Hi returns the offset one past the last valid byte currently in the heap.
	Hi() Ptr
	// Reset returns the heap to empty, as if Extend had never been called.
	Reset()
	// View returns a mutable byte slice over [offset, offset+length) of the
	// heap. The allocator uses this to read and write block headers,
	// footers, and free-list links directly in heap storage.
	View(offset Ptr, length int) ([]byte, error)
}
