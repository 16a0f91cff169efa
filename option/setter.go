package option

import (
	"context"
	"sync"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/codec"
	"github.com/wippyai/salience-go/engine"
	"github.com/wippyai/salience-go/errors"
	"github.com/wippyai/salience-go/internal/layout"
)

// Setting pairs an option id with a value.
type Setting struct {
	Value Value
	ID    ID
}

type key struct {
	scope string
	id    ID
}

// Setter writes option records to a session and mirrors every value the
// engine accepted. A rejected set leaves the mirror as it was.
type Setter struct {
	native  salience.Native
	codec   *codec.Codec
	mirror  map[key]Value
	session uint32
	mu      sync.RWMutex
}

func NewSetter(n salience.Native, c *codec.Codec, session uint32) *Setter {
	return &Setter{
		native:  n,
		codec:   c,
		session: session,
		mirror:  make(map[key]Value),
	}
}

// Set applies v to option id within scope. An empty scope applies it to
// every configuration of the session.
func (s *Setter) Set(ctx context.Context, id ID, v Value, scope string) error {
	if err := Check(id, v); err != nil {
		return err
	}

	mem := s.native.Memory()
	alloc := s.native.Allocator()
	list := codec.NewAllocationList()
	defer list.FreeAndRelease(alloc)

	rec := layout.Option
	opt, err := list.Alloc(alloc, rec.Size(), rec.Align())
	if err != nil {
		return errors.Wrap(errors.PhaseOption, errors.KindAllocation, err, "allocate option record")
	}
	if err := s.write(mem, alloc, list, opt, id, v); err != nil {
		return err
	}
	scopePtr, err := s.codec.WriteString(mem, alloc, list, scope)
	if err != nil {
		return err
	}

	status, err := s.native.Call(ctx, engine.SetOption, s.session, opt, scopePtr)
	if err != nil {
		return err
	}
	if !status.Succeeded() {
		return errors.OptionFailed(int(id), int32(status))
	}

	s.mu.Lock()
	s.mirror[key{scope, id}] = v
	s.mu.Unlock()
	return nil
}

func (s *Setter) write(mem salience.Memory, alloc salience.Allocator, list *codec.AllocationList, opt uint32, id ID, v Value) error {
	rec := layout.Option
	var text uint32
	if k := v.Kind(); k == KindText || k == KindTextFlag {
		p, err := s.codec.WriteString(mem, alloc, list, v.Text())
		if err != nil {
			return err
		}
		text = p
	}
	writes := []error{
		mem.WriteI32(opt+rec.Offset("nOption"), int32(id)),
		mem.WriteU32(opt+rec.Offset("acValue"), text),
		mem.WriteI32(opt+rec.Offset("nValue"), v.n),
		mem.WriteF32(opt+rec.Offset("fValue"), v.f),
	}
	for _, err := range writes {
		if err != nil {
			return errors.Wrap(errors.PhaseOption, errors.KindOutOfBounds, err, "write option record")
		}
	}
	return nil
}

// Get returns the last accepted value of id for scope, falling back to the
// value set for all configurations.
func (s *Setter) Get(id ID, scope string) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.mirror[key{scope, id}]; ok {
		return v, true
	}
	v, ok := s.mirror[key{"", id}]
	return v, ok
}

// Assume records values the engine applies on its own, such as a startup
// mode preset, without sending them.
func (s *Setter) Assume(settings ...Setting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range settings {
		s.mirror[key{"", st.ID}] = st.Value
	}
}

// Forget drops every mirrored value of scope, for a configuration that
// was removed.
func (s *Setter) Forget(scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.mirror {
		if k.scope == scope {
			delete(s.mirror, k)
		}
	}
}

// Shortform is the option bundle the engine applies for the short-form
// startup mode.
func Shortform() []Setting {
	return []Setting{
		{ID: TextThreshold, Value: Int(40)},
		{ID: CalculateListsAndTables, Value: Bool(false)},
		{ID: UsePolarityModel, Value: Bool(true)},
		{ID: ProcessAsOneSentence, Value: Bool(true)},
	}
}
