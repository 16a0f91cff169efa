package resource

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/wippyai/salience-go/errors"
)

// LeakDetector observes a table and remembers every resource created and
// not yet dropped. It also counts drops of handles it never saw created,
// which indicate a double release.
type LeakDetector struct {
	live    map[Handle]Event
	unknown int
	mu      sync.Mutex
}

func NewLeakDetector() *LeakDetector {
	return &LeakDetector{live: make(map[Handle]Event)}
}

// Watch subscribes a new detector to t.
func Watch(t *Table) *LeakDetector {
	d := NewLeakDetector()
	t.Subscribe(d)
	return d
}

func (d *LeakDetector) OnResourceEvent(e Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch e.Type {
	case EventCreated:
		d.live[e.Handle] = e
	case EventDropped:
		if _, ok := d.live[e.Handle]; !ok {
			d.unknown++
			return
		}
		delete(d.live, e.Handle)
	}
}

// Live returns the outstanding resources ordered by handle.
func (d *LeakDetector) Live() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Event, 0, len(d.live))
	for _, e := range d.live {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

// Check returns an error describing outstanding resources, or nil.
func (d *LeakDetector) Check() error {
	live := d.Live()

	d.mu.Lock()
	unknown := d.unknown
	d.mu.Unlock()

	if len(live) == 0 && unknown == 0 {
		return nil
	}

	parts := make([]string, 0, len(live)+1)
	for _, e := range live {
		parts = append(parts, fmt.Sprintf("%s#%d(%s @%d)", e.Kind, e.Handle, e.Label, e.Rep))
	}
	if unknown > 0 {
		parts = append(parts, fmt.Sprintf("%d release(s) of unknown handles", unknown))
	}
	return errors.New(errors.PhaseSession, errors.KindLeak).
		Value(len(live)).
		Detail("unreleased native resources: %s", strings.Join(parts, ", ")).
		Build()
}
