package resource

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("resource backend closed")

// LocalBackend is an in-memory handle store. Handles of dropped entries
// are reused.
type LocalBackend struct {
	entries  []entry
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	value any
	label string
	rep   uint32
	kind  Kind
	valid bool
}

// NewLocalBackend creates a new in-memory backend.
func NewLocalBackend() *LocalBackend {
	return &LocalBackend{
		entries:  make([]entry, 0, 16),
		freeList: make([]Handle, 0, 8),
	}
}

// Create stores a resource and returns its handle.
func (b *LocalBackend) Create(kind Kind, rep uint32, label string, value any) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	e := entry{
		kind:  kind,
		rep:   rep,
		label: label,
		value: value,
		valid: true,
	}

	if len(b.freeList) > 0 {
		handle := b.freeList[len(b.freeList)-1]
		b.freeList = b.freeList[:len(b.freeList)-1]
		b.entries[handle-1] = e
		return handle, nil
	}

	b.entries = append(b.entries, e)
	return Handle(len(b.entries)), nil
}

func (b *LocalBackend) lookup(handle Handle) (entry, bool) {
	if handle == 0 {
		return entry{}, false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	idx := handle - 1
	if int(idx) >= len(b.entries) {
		return entry{}, false
	}
	e := b.entries[idx]
	return e, e.valid
}

// Get retrieves a value by handle.
func (b *LocalBackend) Get(handle Handle) (any, bool) {
	e, ok := b.lookup(handle)
	return e.value, ok
}

// Rep returns the native representation for a handle.
func (b *LocalBackend) Rep(handle Handle) (uint32, bool) {
	e, ok := b.lookup(handle)
	return e.rep, ok
}

// Kind returns the kind recorded for a handle.
func (b *LocalBackend) Kind(handle Handle) (Kind, bool) {
	e, ok := b.lookup(handle)
	return e.kind, ok
}

// Drop removes a resource and returns its event description. It returns
// false when the handle is invalid or already dropped.
func (b *LocalBackend) Drop(handle Handle) (Event, bool) {
	if handle == 0 {
		return Event{}, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	idx := handle - 1
	if int(idx) >= len(b.entries) {
		return Event{}, false
	}

	e := &b.entries[idx]
	if !e.valid {
		return Event{}, false
	}

	ev := Event{
		Value:  e.value,
		Label:  e.label,
		Handle: handle,
		Rep:    e.rep,
		Kind:   e.kind,
		Type:   EventDropped,
	}
	*e = entry{}
	b.freeList = append(b.freeList, handle)
	return ev, true
}

// Close releases all entries. Values implementing Dropper are dropped.
func (b *LocalBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for i := range b.entries {
		if b.entries[i].valid {
			if d, ok := b.entries[i].value.(Dropper); ok {
				d.Drop()
			}
		}
	}

	b.entries = nil
	b.freeList = nil
	return nil
}

// Len returns the number of live resources.
func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, e := range b.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Each iterates over live resources in handle order.
func (b *LocalBackend) Each(fn func(Event) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, e := range b.entries {
		if !e.valid {
			continue
		}
		ev := Event{
			Value:  e.value,
			Label:  e.label,
			Handle: Handle(i + 1),
			Rep:    e.rep,
			Kind:   e.kind,
		}
		if !fn(ev) {
			break
		}
	}
}
