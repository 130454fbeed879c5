package segheap

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// DumpJSON renders the current heap layout as JSON for offline inspection:
// byte totals drawn from DetailedStatistics plus a block-by-block array of
// offset, size, and allocation status, in physical order. It is purely a
// diagnostic surface and has no effect on allocator state.
func (a *Allocator) DumpJSON() ([]byte, error) {
	stats, err := a.DetailedStatistics()
	if err != nil {
		return nil, err
	}

	writer := jwriter.NewWriter()
	obj := writer.Object()

	obj.Name("TotalBytes").Int(stats.BlockBytes)
	obj.Name("UnusedBytes").Int(stats.BlockBytes - stats.AllocationBytes)
	obj.Name("Allocations").Int(stats.AllocationCount)
	obj.Name("UnusedRanges").Int(stats.UnusedRangeCount)

	blocks := obj.Name("Blocks").Array()
	walkErr := a.walk(func(p Ptr, size int, alloc bool) (bool, error) {
		block := blocks.Object()
		block.Name("Offset").Int(int(p))
		block.Name("Size").Int(size)
		if alloc {
			block.Name("Type").String("Allocated")
		} else {
			block.Name("Type").String("Free")
		}
		tag, err := a.blockTag(p)
		if err != nil {
			return false, err
		}
		if tag {
			block.Name("ReallocationTag").Bool(true)
		}
		block.End()
		return true, nil
	})
	blocks.End()
	obj.End()

	if walkErr != nil {
		return nil, walkErr
	}
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return writer.Bytes(), nil
}
