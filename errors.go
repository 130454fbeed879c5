package segheap

import "github.com/pkg/errors"

// ErrHeapExhausted is the sole error kind the public operations surface: the
// external HeapOracle refused to grow the heap. Alloc and Realloc report it
// by returning NullPtr; Init reports it by returning a non-nil error. It is
// not returned by Free, which cannot fail.
var ErrHeapExhausted = errors.New("heap oracle refused to extend the heap")

// ErrNotAllocated is returned by View when the pointer it's given does not
// address a block whose header marks it allocated. Alloc, Free, and Realloc
// trust their caller per the client contract and do not perform this check.
var ErrNotAllocated = errors.New("pointer does not address an allocated block")
