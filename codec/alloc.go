package codec

import (
	"sync"

	"github.com/wippyai/salience-go"
)

// block is one transient buffer in engine memory.
type block struct {
	ptr, size, align uint32
}

// AllocationList collects the transient buffers of one native call (input
// strings, option records, zeroed descriptors) so they can be released
// together once the call returns.
type AllocationList struct {
	blocks []block
}

// Lists that grew past this are left to the garbage collector.
const maxPooledBlocks = 128

var lists = sync.Pool{
	New: func() any { return &AllocationList{blocks: make([]block, 0, 8)} },
}

// NewAllocationList takes an empty list from the pool.
func NewAllocationList() *AllocationList {
	return lists.Get().(*AllocationList)
}

// Alloc allocates through allocator and records the block.
func (l *AllocationList) Alloc(allocator salience.Allocator, size, align uint32) (uint32, error) {
	ptr, err := allocator.Alloc(size, align)
	if err != nil {
		return 0, err
	}
	l.blocks = append(l.blocks, block{ptr: ptr, size: size, align: align})
	return ptr, nil
}

// Free releases every recorded block, newest first, and empties the list.
// A nil allocator only empties it.
func (l *AllocationList) Free(allocator salience.Allocator) {
	if allocator != nil {
		for i := len(l.blocks) - 1; i >= 0; i-- {
			if b := l.blocks[i]; b.ptr != 0 {
				allocator.Free(b.ptr, b.size, b.align)
			}
		}
	}
	l.blocks = l.blocks[:0]
}

// Release returns the list to the pool. The list must not be used after.
func (l *AllocationList) Release() {
	if cap(l.blocks) > maxPooledBlocks {
		return
	}
	l.blocks = l.blocks[:0]
	lists.Put(l)
}

func (l *AllocationList) FreeAndRelease(allocator salience.Allocator) {
	l.Free(allocator)
	l.Release()
}

// Count is the number of blocks not yet freed.
func (l *AllocationList) Count() int {
	return len(l.blocks)
}
