package enginetest

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/wippyai/salience-go"
)

// DefaultArenaSize is the arena size New uses.
const DefaultArenaSize = 4 << 20

// Arena is a little-endian byte memory with a bump allocator. It records
// every live block so tests can assert that everything handed out came back.
type Arena struct {
	live     map[uint32]uint32
	buf      []byte
	next     uint32
	badFrees int
	mu       sync.Mutex
}

// NewArena creates an arena of size bytes. Address 0 is never handed out.
func NewArena(size uint32) *Arena {
	return &Arena{
		buf:  make([]byte, size),
		next: 16,
		live: make(map[uint32]uint32),
	}
}

func (a *Arena) Size() uint32 {
	return uint32(len(a.buf))
}

func (a *Arena) check(offset, length uint32) error {
	if uint64(offset)+uint64(length) > uint64(len(a.buf)) {
		return fmt.Errorf("arena access out of bounds: offset=%d length=%d size=%d", offset, length, len(a.buf))
	}
	return nil
}

func (a *Arena) Read(offset, length uint32) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(offset, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, a.buf[offset:])
	return out, nil
}

func (a *Arena) Write(offset uint32, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(offset, uint32(len(data))); err != nil {
		return err
	}
	copy(a.buf[offset:], data)
	return nil
}

func (a *Arena) ReadU8(offset uint32) (uint8, error) {
	b, err := a.Read(offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (a *Arena) ReadU32(offset uint32) (uint32, error) {
	b, err := a.Read(offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (a *Arena) ReadI32(offset uint32) (int32, error) {
	v, err := a.ReadU32(offset)
	return int32(v), err
}

func (a *Arena) ReadF32(offset uint32) (float32, error) {
	v, err := a.ReadU32(offset)
	return math.Float32frombits(v), err
}

func (a *Arena) WriteU8(offset uint32, value uint8) error {
	return a.Write(offset, []byte{value})
}

func (a *Arena) WriteU32(offset uint32, value uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], value)
	return a.Write(offset, b[:])
}

func (a *Arena) WriteI32(offset uint32, value int32) error {
	return a.WriteU32(offset, uint32(value))
}

func (a *Arena) WriteF32(offset uint32, value float32) error {
	return a.WriteU32(offset, math.Float32bits(value))
}

// Alloc hands out a zeroed block. Freed blocks are not reused, so a stale
// pointer never aliases newer data.
func (a *Arena) Alloc(size, align uint32) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if align == 0 {
		align = 1
	}
	ptr := (a.next + align - 1) &^ (align - 1)
	end := uint64(ptr) + uint64(size)
	if end > uint64(len(a.buf)) {
		return 0, fmt.Errorf("arena exhausted: need %d bytes at %d", size, ptr)
	}
	clear(a.buf[ptr:end])
	a.next = uint32(end)
	if size == 0 {
		a.next++
	}
	a.live[ptr] = size
	return ptr, nil
}

// Free releases a block. Releasing an unknown or already released block
// is counted rather than ignored.
func (a *Arena) Free(ptr, size, align uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.live[ptr]; !ok {
		a.badFrees++
		return
	}
	delete(a.live, ptr)
}

// Live returns the number of blocks not yet freed.
func (a *Arena) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

// BadFrees returns how many frees targeted unknown blocks.
func (a *Arena) BadFrees() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.badFrees
}

var (
	_ salience.Memory      = (*Arena)(nil)
	_ salience.MemorySizer = (*Arena)(nil)
	_ salience.Allocator   = (*Arena)(nil)
)
