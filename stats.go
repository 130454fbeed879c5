package segheap

import "github.com/segheap/segheap/memutils"

// firstBlock returns the payload pointer of the first real block in the
// heap, immediately following the prologue sentinel.
func (a *Allocator) firstBlock() Ptr {
	return nextBlockPtr(a.prologue, 2*wordSize)
}

// walk calls fn for every block between the prologue and the epilogue, in
// ascending address order, stopping early if fn returns false.
func (a *Allocator) walk(fn func(p Ptr, size int, alloc bool) (bool, error)) error {
	p := a.firstBlock()
	for {
		size, err := a.blockSize(p)
		if err != nil {
			return err
		}
		if size == 0 {
			return nil // epilogue
		}
		alloc, err := a.blockAlloc(p)
		if err != nil {
			return err
		}
		cont, err := fn(p, size, alloc)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
		p = nextBlockPtr(p, size)
	}
}

// Statistics walks the heap and summarizes block and allocation counts and
// byte totals. It is an on-demand diagnostic, not something the public
// operations maintain incrementally.
func (a *Allocator) Statistics() (memutils.Statistics, error) {
	var stats memutils.Statistics
	err := a.walk(func(p Ptr, size int, alloc bool) (bool, error) {
		stats.BlockCount++
		stats.BlockBytes += size
		if alloc {
			stats.AllocationCount++
			stats.AllocationBytes += size
		}
		return true, nil
	})
	return stats, err
}

// DetailedStatistics is Statistics plus per-block size extrema for
// allocated blocks and for the unused (free) ranges between them.
func (a *Allocator) DetailedStatistics() (memutils.DetailedStatistics, error) {
	var stats memutils.DetailedStatistics
	stats.Clear()
	err := a.walk(func(p Ptr, size int, alloc bool) (bool, error) {
		stats.BlockCount++
		stats.BlockBytes += size
		if alloc {
			stats.AddAllocation(size)
		} else {
			stats.AddUnusedRange(size)
		}
		return true, nil
	})
	return stats, err
}

// CombinedStatistics reports aggregate Statistics across several
// allocators, for a caller managing more than one independent heap (for
// instance, one segheap instance per worker) that wants a single combined
// view. Mirrors the block-list pattern of gathering each block's own
// statistics and folding them into a running total.
func CombinedStatistics(allocators ...*Allocator) (memutils.Statistics, error) {
	var total memutils.Statistics
	for _, a := range allocators {
		s, err := a.Statistics()
		if err != nil {
			return memutils.Statistics{}, err
		}
		total.AddStatistics(&s)
	}
	return total, nil
}

// CombinedDetailedStatistics is CombinedStatistics with per-block size
// extrema merged across allocators as well.
func CombinedDetailedStatistics(allocators ...*Allocator) (memutils.DetailedStatistics, error) {
	var total memutils.DetailedStatistics
	total.Clear()
	for _, a := range allocators {
		s, err := a.DetailedStatistics()
		if err != nil {
			return memutils.DetailedStatistics{}, err
		}
		total.AddDetailedStatistics(&s)
	}
	return total, nil
}
