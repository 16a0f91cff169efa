package salience

import "context"

// Memory represents the engine's linear memory
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU8(offset uint32) (uint8, error)
	ReadU32(offset uint32) (uint32, error)
	ReadI32(offset uint32) (int32, error)
	ReadF32(offset uint32) (float32, error)
	WriteU8(offset uint32, value uint8) error
	WriteU32(offset uint32, value uint32) error
	WriteI32(offset uint32, value int32) error
	WriteF32(offset uint32, value float32) error
}

// MemorySizer provides the current size of linear memory in bytes.
type MemorySizer interface {
	Size() uint32
}

// Allocator allocates memory inside the engine's linear memory
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}

// Native is a loaded engine instance: its memory, its allocator and its
// C-style entry points. Every entry point takes i32 arguments and returns
// an i32 status.
type Native interface {
	Memory() Memory
	Allocator() Allocator
	Call(ctx context.Context, name string, args ...uint32) (Status, error)
}
