package session

import (
	"context"

	"go.uber.org/multierr"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/codec"
	"github.com/wippyai/salience-go/engine"
	"github.com/wippyai/salience-go/errors"
	"github.com/wippyai/salience-go/internal/layout"
)

// PrepareText makes text the session's current document.
func (s *Session) PrepareText(ctx context.Context, text string) error {
	if err := s.live(); err != nil {
		return err
	}
	return s.invoke(ctx, errors.PhasePrepare, engine.PrepareText, []string{text})
}

// PrepareTextFromFile makes the contents of path the current document.
func (s *Session) PrepareTextFromFile(ctx context.Context, path string) error {
	if err := s.live(); err != nil {
		return err
	}
	return s.invoke(ctx, errors.PhasePrepare, engine.PrepareTextFromFile, []string{path})
}

// AddSection appends a headed section to the current document. The
// document is processed once a section is added with process set.
func (s *Session) AddSection(ctx context.Context, header, text string, process bool) error {
	if err := s.live(); err != nil {
		return err
	}
	return s.invoke(ctx, errors.PhasePrepare, engine.AddSection, []string{header, text}, flag(process))
}

func (s *Session) AddSectionFromFile(ctx context.Context, header, path string, process bool) error {
	if err := s.live(); err != nil {
		return err
	}
	return s.invoke(ctx, errors.PhasePrepare, engine.AddSectionFromFile, []string{header, path}, flag(process))
}

// PrepareCollection makes docs the session's current collection.
func (s *Session) PrepareCollection(ctx context.Context, name string, docs []salience.CollectionDocument) error {
	if err := s.live(); err != nil {
		return err
	}
	return s.exclusive(func() error {
		mem := s.native.Memory()
		alloc := s.native.Allocator()
		list := codec.NewAllocationList()
		defer list.FreeAndRelease(alloc)

		coll, err := s.writeCollection(mem, alloc, list, name, docs)
		if err != nil {
			return err
		}
		err = s.fetcher.Call(ctx, errors.PhasePrepare, engine.PrepareCollection, coll)
		s.note(engine.PrepareCollection, err)
		return err
	})
}

// PrepareCollectionFromFile reads a collection from path, one document
// per line.
func (s *Session) PrepareCollectionFromFile(ctx context.Context, name, path string) error {
	if err := s.live(); err != nil {
		return err
	}
	return s.invoke(ctx, errors.PhasePrepare, engine.PrepareCollectionFromFile, []string{name, path})
}

func (s *Session) writeCollection(mem salience.Memory, alloc salience.Allocator, list *codec.AllocationList, name string, docs []salience.CollectionDocument) (uint32, error) {
	rec, item := layout.Collection, layout.CollectionDocument

	var items uint32
	if len(docs) > 0 {
		size := item.Size() * uint32(len(docs))
		p, err := list.Alloc(alloc, size, item.Align())
		if err != nil {
			return 0, errors.AllocationFailed(errors.PhasePrepare, size, item.Align())
		}
		items = p
	}

	for i, d := range docs {
		base := items + uint32(i)*item.Size()
		id, err := s.codec.WriteString(mem, alloc, list, d.Identifier)
		if err != nil {
			return 0, err
		}
		text, err := s.codec.WriteString(mem, alloc, list, d.Text)
		if err != nil {
			return 0, err
		}
		err = multierr.Combine(
			mem.WriteU32(base+item.Offset("acIdentifier"), id),
			mem.WriteI32(base+item.Offset("nIsText"), boolI32(d.IsText)),
			mem.WriteI32(base+item.Offset("nSplitByLine"), boolI32(d.SplitByLine)),
			mem.WriteU32(base+item.Offset("acText"), text),
		)
		if err != nil {
			return 0, errors.Wrap(errors.PhaseEncode, errors.KindOutOfBounds, err, "write collection document")
		}
	}

	coll, err := list.Alloc(alloc, rec.Size(), rec.Align())
	if err != nil {
		return 0, errors.AllocationFailed(errors.PhasePrepare, rec.Size(), rec.Align())
	}
	namePtr, err := s.codec.WriteString(mem, alloc, list, name)
	if err != nil {
		return 0, err
	}
	err = multierr.Combine(
		mem.WriteU32(coll+rec.Offset("acName"), namePtr),
		mem.WriteI32(coll+rec.Offset("nSize"), int32(len(docs))),
		mem.WriteU32(coll+rec.Offset("pDocuments"), items),
	)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseEncode, errors.KindOutOfBounds, err, "write collection")
	}
	return coll, nil
}

func flag(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
