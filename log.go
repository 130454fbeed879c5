package segheap

import "golang.org/x/exp/slog"

// logExtend records a heap extension: the allocator asked the oracle for
// more space, for Init's initial free block, for an Alloc no free list could
// satisfy, or for a Realloc growing in place.
func (a *Allocator) logExtend(requested int, result Ptr) {
	a.cfg.logger.Debug("segheap: heap extended",
		slog.Int("requested_bytes", requested),
		slog.Int("block", int(result)))
}

// logCoalesce records that a freshly-freed block merged with a neighbor.
func (a *Allocator) logCoalesce(before, after Ptr, beforeSize, afterSize int) {
	if afterSize == beforeSize {
		return
	}
	a.cfg.logger.Debug("segheap: coalesced",
		slog.Int("original_block", int(before)),
		slog.Int("original_bytes", beforeSize),
		slog.Int("merged_block", int(after)),
		slog.Int("merged_bytes", afterSize))
}

// logSplit records that place() carved an allocated block out of a larger
// free block, leaving a free remainder.
func (a *Allocator) logSplit(allocated Ptr, allocatedSize int, remainder Ptr, remainderSize int) {
	a.cfg.logger.Debug("segheap: split",
		slog.Int("allocated_block", int(allocated)),
		slog.Int("allocated_bytes", allocatedSize),
		slog.Int("remainder_block", int(remainder)),
		slog.Int("remainder_bytes", remainderSize))
}

// logReallocAbsorb records that a realloc grew its block in place by
// absorbing the following free block or epilogue. A realloc already covered
// by the block's existing slack is not logged.
func (a *Allocator) logReallocAbsorb(p Ptr, newSize int, tagged bool) {
	a.cfg.logger.Debug("segheap: realloc absorbed in place",
		slog.Int("block", int(p)),
		slog.Int("bytes", newSize),
		slog.Bool("next_tagged", tagged))
}

// logReallocRelocate records that a realloc could not grow in place and
// moved the payload to a freshly allocated block.
func (a *Allocator) logReallocRelocate(oldPtr, newPtr Ptr, copied int) {
	a.cfg.logger.Debug("segheap: realloc relocated",
		slog.Int("old_block", int(oldPtr)),
		slog.Int("new_block", int(newPtr)),
		slog.Int("bytes_copied", copied))
}
