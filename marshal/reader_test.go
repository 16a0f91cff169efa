package marshal

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/codec"
	"github.com/wippyai/salience-go/engine/enginetest"
	"github.com/wippyai/salience-go/errors"
	"github.com/wippyai/salience-go/internal/layout"
)

func TestReader_NullAndEmpty(t *testing.T) {
	e := enginetest.New()
	r := NewReader(e.Memory(), codec.New(codec.UTF8))

	if s := r.String(0); s != "" {
		t.Errorf("String(0) = %q", s)
	}
	if n := r.Array(0, 5, layout.Phrase); n != 0 {
		t.Errorf("Array(null) = %d", n)
	}
	if n := r.Array(64, -1, layout.Phrase); n != 0 {
		t.Errorf("Array(n=-1) = %d", n)
	}
	if d := r.Document(0); d.Sentences != nil {
		t.Errorf("Document(0) = %+v", d)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReader_NegativeIntentionCount(t *testing.T) {
	e := enginetest.New()
	tr := e.NewTree()
	list := tr.Alloc(layout.IntentionList.Size())
	tr.IntentionList(list, []salience.Intention{{What: "x"}})
	tr.I32(list, layout.IntentionList, layout.ListLength, -1)

	r := NewReader(e.Memory(), codec.New(codec.UTF8))
	if got := r.IntentionList(list); got != nil {
		t.Errorf("got %+v, want nil", got)
	}
	if err := r.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestReader_StickyError(t *testing.T) {
	e := enginetest.New()
	r := NewReader(e.Memory(), codec.New(codec.UTF8))

	beyond := e.Arena().Size()
	if v := r.I32(beyond, layout.Phrase, "nWord"); v != 0 {
		t.Errorf("out of bounds read = %d", v)
	}
	first := r.Err()
	if !stderrors.Is(first, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindOutOfBounds}) {
		t.Fatalf("expected out_of_bounds, got %v", first)
	}

	tr := e.NewTree()
	p := tr.Alloc(layout.Phrase.Size())
	tr.Phrase(p, salience.Phrase{Text: "ok", Word: 3})
	if got := r.Phrase(p); got.Text != "" || got.Word != 0 {
		t.Errorf("reads after an error must return zero values, got %+v", got)
	}
	if r.Err() != first {
		t.Errorf("first error should be kept")
	}
}

func TestReader_TopicCycle(t *testing.T) {
	e := enginetest.New()
	tr := e.NewTree()

	// A topic whose child list points back at itself.
	list := tr.Alloc(layout.TopicList.Size())
	tr.TopicList(list, []salience.Topic{{Topic: "loop"}})
	items, err := e.Arena().ReadU32(list)
	if err != nil {
		t.Fatal(err)
	}
	tr.Ptr(items, layout.Topic, "pChildren", list)

	r := NewReader(e.Memory(), codec.New(codec.UTF8))
	r.TopicList(list)
	if !stderrors.Is(r.Err(), &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidData}) {
		t.Fatalf("expected invalid_data for a cyclic topic tree, got %v", r.Err())
	}
}

func TestReader_NestedTopics(t *testing.T) {
	want := []salience.Topic{{
		Topic: "root",
		Children: []salience.Topic{{
			Topic:    "child",
			Children: []salience.Topic{{Topic: "grandchild", Hits: 2}},
		}},
		Entities: []salience.Entity{{NormalizedForm: "Acme", FirstPos: salience.NoPosition}},
	}}

	e := enginetest.New()
	tr := e.NewTree()
	list := tr.Alloc(layout.TopicList.Size())
	tr.TopicList(list, want)

	r := NewReader(e.Memory(), codec.New(codec.UTF8))
	got := r.TopicList(list)
	if err := r.Err(); err != nil {
		t.Fatalf("TopicList: %v", err)
	}
	if got[0].Children[0].Children[0].Topic != "grandchild" || got[0].Children[0].Children[0].Hits != 2 {
		t.Errorf("grandchild not decoded: %+v", got)
	}
	if got[0].Entities[0].FirstPos != salience.NoPosition {
		t.Errorf("entity FirstPos = %d", got[0].Entities[0].FirstPos)
	}
	if r.depth != 0 {
		t.Errorf("depth not restored: %d", r.depth)
	}
}

func TestReader_Fixed(t *testing.T) {
	e := enginetest.New()
	tr := e.NewTree()
	base := tr.Alloc(layout.Startup.Size())
	if err := e.Arena().Write(base+layout.Startup.Offset("acError"), []byte("license expired\x00junk")); err != nil {
		t.Fatal(err)
	}

	r := NewReader(e.Memory(), codec.New(codec.UTF8))
	if got := r.Fixed(base, layout.Startup, "acError", layout.ErrorBufferSize); got != "license expired" {
		t.Errorf("Fixed = %q", got)
	}
}
