package resource

import (
	"errors"
	"sync"
	"testing"
)

func TestLocalBackend_Basic(t *testing.T) {
	b := NewLocalBackend()

	handle, err := b.Create(KindSession, 0x1000, "", "session value")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if handle == 0 {
		t.Fatal("Expected non-zero handle")
	}

	val, ok := b.Get(handle)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "session value" {
		t.Fatalf("Expected 'session value', got %v", val)
	}

	rep, ok := b.Rep(handle)
	if !ok || rep != 0x1000 {
		t.Fatalf("Rep = %d, %v", rep, ok)
	}

	kind, ok := b.Kind(handle)
	if !ok || kind != KindSession {
		t.Fatalf("Kind = %v, %v", kind, ok)
	}

	ev, ok := b.Drop(handle)
	if !ok {
		t.Fatal("Drop failed")
	}
	if ev.Value != "session value" || ev.Rep != 0x1000 || ev.Type != EventDropped {
		t.Fatalf("unexpected drop event %+v", ev)
	}

	if _, ok := b.Get(handle); ok {
		t.Fatal("Expected Get to fail after Drop")
	}
	if _, ok := b.Drop(handle); ok {
		t.Fatal("Expected second Drop to fail")
	}
}

func TestLocalBackend_InvalidHandles(t *testing.T) {
	b := NewLocalBackend()

	tests := []struct {
		name   string
		handle Handle
	}{
		{"zero", 0},
		{"never created", 42},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := b.Get(tc.handle); ok {
				t.Error("Get should fail")
			}
			if _, ok := b.Rep(tc.handle); ok {
				t.Error("Rep should fail")
			}
			if _, ok := b.Kind(tc.handle); ok {
				t.Error("Kind should fail")
			}
			if _, ok := b.Drop(tc.handle); ok {
				t.Error("Drop should fail")
			}
		})
	}
}

func TestLocalBackend_HandleReuse(t *testing.T) {
	b := NewLocalBackend()

	h1, _ := b.Create(KindResult, 1, "", nil)
	h2, _ := b.Create(KindResult, 2, "", nil)
	b.Drop(h1)

	h3, _ := b.Create(KindResult, 3, "", nil)
	if h3 != h1 {
		t.Fatalf("Expected reuse of handle %d, got %d", h1, h3)
	}
	rep, _ := b.Rep(h3)
	if rep != 3 {
		t.Fatalf("Expected rep 3 for reused handle, got %d", rep)
	}
	if rep2, _ := b.Rep(h2); rep2 != 2 {
		t.Fatalf("Expected rep 2, got %d", rep2)
	}
}

func TestLocalBackend_Close(t *testing.T) {
	b := NewLocalBackend()
	d := &dropCounter{}
	b.Create(KindConfiguration, 0, "cfg", d)

	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if d.count != 1 {
		t.Fatalf("Expected Drop on close, got %d", d.count)
	}

	_, err := b.Create(KindConfiguration, 0, "", nil)
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("Expected ErrClosed, got %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

func TestLocalBackend_Each(t *testing.T) {
	b := NewLocalBackend()
	b.Create(KindLicense, 10, "", nil)
	h, _ := b.Create(KindSession, 20, "", nil)
	b.Create(KindResult, 30, "lxaGetThemes", nil)
	b.Drop(h)

	var reps []uint32
	b.Each(func(e Event) bool {
		reps = append(reps, e.Rep)
		return true
	})
	if len(reps) != 2 || reps[0] != 10 || reps[1] != 30 {
		t.Fatalf("Each visited %v", reps)
	}

	count := 0
	b.Each(func(Event) bool {
		count++
		return false
	})
	if count != 1 {
		t.Fatalf("Each should stop early, visited %d", count)
	}
}

func TestLocalBackend_Concurrent(t *testing.T) {
	b := NewLocalBackend()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := b.Create(KindResult, uint32(i), "", nil)
			if err != nil {
				t.Errorf("Create failed: %v", err)
				return
			}
			if _, ok := b.Drop(h); !ok {
				t.Errorf("Drop of %d failed", h)
			}
		}(i)
	}
	wg.Wait()

	if b.Len() != 0 {
		t.Fatalf("Expected empty backend, got %d", b.Len())
	}
}
