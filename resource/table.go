package resource

import (
	"sync"
)

// Table tracks the native resources a session holds: its license, the
// session itself, registered configurations and result trees awaiting
// release. Observers see every acquisition and release.
type Table struct {
	backend   *LocalBackend
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

// NewTable creates a new table with a LocalBackend.
func NewTable() *Table {
	return &Table{
		backend: NewLocalBackend(),
	}
}

// Insert records a native resource and returns its handle. It returns 0
// once the table is closed.
func (t *Table) Insert(kind Kind, rep uint32, label string, value any) Handle {
	t.closeMu.RLock()
	if t.closed {
		t.closeMu.RUnlock()
		return 0
	}
	t.closeMu.RUnlock()

	handle, err := t.backend.Create(kind, rep, label, value)
	if err != nil {
		return 0
	}

	t.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		Kind:   kind,
		Rep:    rep,
		Label:  label,
		Value:  value,
	})

	return handle
}

// Get retrieves a value by handle.
func (t *Table) Get(handle Handle) (any, bool) {
	return t.backend.Get(handle)
}

// Rep returns the native representation recorded for handle.
func (t *Table) Rep(handle Handle) (uint32, bool) {
	return t.backend.Rep(handle)
}

// Lookup returns the native representation only if the handle is of the
// expected kind.
func (t *Table) Lookup(handle Handle, kind Kind) (uint32, bool) {
	actual, ok := t.backend.Kind(handle)
	if !ok || actual != kind {
		return 0, false
	}
	return t.backend.Rep(handle)
}

// Remove drops a resource and returns its value. A second Remove of the
// same handle reports false.
func (t *Table) Remove(handle Handle) (any, bool) {
	ev, ok := t.backend.Drop(handle)
	if !ok {
		return nil, false
	}

	if d, ok := ev.Value.(Dropper); ok {
		d.Drop()
	}

	t.notify(ev)
	return ev.Value, true
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live resources.
func (t *Table) Len() int {
	return t.backend.Len()
}

// Live returns the live resources of kind, or of every kind when kind is 0.
func (t *Table) Live(kind Kind) []Event {
	var out []Event
	t.backend.Each(func(e Event) bool {
		if kind == 0 || e.Kind == kind {
			out = append(out, e)
		}
		return true
	})
	return out
}

// Clear drops all resources.
func (t *Table) Clear() {
	// Collect handles first to avoid holding lock during Remove
	var handles []Handle
	t.backend.Each(func(e Event) bool {
		handles = append(handles, e.Handle)
		return true
	})
	for _, h := range handles {
		t.Remove(h)
	}
}

// Close releases all resources and stops accepting inserts.
func (t *Table) Close() error {
	t.closeMu.Lock()
	t.closed = true
	t.closeMu.Unlock()

	return t.backend.Close()
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
