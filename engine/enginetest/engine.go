package enginetest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/callback"
	"github.com/wippyai/salience-go/codec"
	"github.com/wippyai/salience-go/engine"
	"github.com/wippyai/salience-go/errors"
)

// Func implements one entry point. args are the raw i32 arguments.
type Func func(ctx context.Context, e *Engine, args []uint32) salience.Status

// Engine is an in-process stand-in for the native engine. Entry points are
// Go functions registered by name; results are laid out in an Arena with
// the same record layout the real engine uses.
type Engine struct {
	arena      *Arena
	dispatcher *callback.Dispatcher
	utf8       *codec.Codec
	funcs      map[string]Func
	calls      map[string]int
	frees      map[uint32]int
	owned      map[uint32]*Tree
	strs       map[uint32]*Tree
	strFrees   int
	mu         sync.Mutex

	// op is the operation lock callers hold across a scoped operation.
	// In strict mode every call and allocation made without it is counted.
	op        sync.Mutex
	held      atomic.Bool
	strict    atomic.Bool
	unguarded atomic.Int64
}

var freeCalls = []string{
	engine.FreeEntityList,
	engine.FreeCollectionEntityList,
	engine.FreeThemeList,
	engine.FreeFacetList,
	engine.FreeRelationList,
	engine.FreeOpinionList,
	engine.FreeSentimentResult,
	engine.FreeDocumentDetails,
	engine.FreeTopicList,
	engine.FreeDocument,
	engine.FreePhraseList,
	engine.FreeSummaryResult,
	engine.FreeIntentionList,
}

// New creates a fake engine with the release entry points installed.
func New() *Engine {
	e := &Engine{
		arena:      NewArena(DefaultArenaSize),
		dispatcher: callback.NewDispatcher(),
		utf8:       codec.New(codec.UTF8),
		funcs:      make(map[string]Func),
		calls:      make(map[string]int),
		frees:      make(map[uint32]int),
		owned:      make(map[uint32]*Tree),
		strs:       make(map[uint32]*Tree),
	}
	for _, name := range freeCalls {
		e.Handle(name, freeResult)
	}
	e.Handle(engine.FreeString, freeString)
	return e
}

func (e *Engine) Memory() salience.Memory       { return e.arena }
func (e *Engine) Allocator() salience.Allocator { return guarded{e} }
func (e *Engine) Arena() *Arena                 { return e.arena }

// Lock acquires the operation lock, as engine.Instance does.
func (e *Engine) Lock() {
	e.op.Lock()
	e.held.Store(true)
}

func (e *Engine) Unlock() {
	e.held.Store(false)
	e.op.Unlock()
}

// RequireLock switches on strict mode: calls and allocations made while
// the operation lock is free are counted by Unguarded.
func (e *Engine) RequireLock() {
	e.strict.Store(true)
}

// Unguarded returns how many calls and allocations ran without the
// operation lock since RequireLock.
func (e *Engine) Unguarded() int64 {
	return e.unguarded.Load()
}

func (e *Engine) guard() {
	if e.strict.Load() && !e.held.Load() {
		e.unguarded.Add(1)
	}
}

// guarded is the arena allocator seen through the operation lock check.
type guarded struct{ e *Engine }

func (g guarded) Alloc(size, align uint32) (uint32, error) {
	g.e.guard()
	return g.e.arena.Alloc(size, align)
}

func (g guarded) Free(ptr, size, align uint32) {
	g.e.guard()
	g.e.arena.Free(ptr, size, align)
}

func (e *Engine) Dispatcher() *callback.Dispatcher {
	return e.dispatcher
}

// Handle installs fn as the entry point name, replacing any previous one.
func (e *Engine) Handle(name string, fn Func) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.funcs[name] = fn
}

func (e *Engine) Call(ctx context.Context, name string, args ...uint32) (salience.Status, error) {
	e.guard()
	e.mu.Lock()
	fn, ok := e.funcs[name]
	e.calls[name]++
	e.mu.Unlock()
	if !ok {
		return 0, errors.NotFound(errors.PhaseLoad, "engine export", name)
	}
	return fn(ctx, e, args), nil
}

// Calls returns how many times name was called, including calls to
// missing entry points.
func (e *Engine) Calls(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[name]
}

// Own records t as the engine-side allocation behind the descriptor at root.
// A release call on root frees it.
func (e *Engine) Own(root uint32, t *Tree) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.owned[root] = t
}

// Frees returns how many release calls targeted the descriptor at root.
func (e *Engine) Frees(root uint32) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frees[root]
}

// TotalFrees returns the number of release calls across all descriptors.
func (e *Engine) TotalFrees() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, c := range e.frees {
		n += c
	}
	return n
}

// Roots returns the descriptors that were released at least once.
func (e *Engine) Roots() []uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	roots := make([]uint32, 0, len(e.frees))
	for r := range e.frees {
		roots = append(roots, r)
	}
	return roots
}

// Outstanding returns the number of engine-owned results and strings not
// yet released.
func (e *Engine) Outstanding() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.owned) + len(e.strs)
}

// StringFrees returns how many engine strings were released.
func (e *Engine) StringFrees() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.strFrees
}

func freeResult(_ context.Context, e *Engine, args []uint32) salience.Status {
	root := args[0]
	e.mu.Lock()
	e.frees[root]++
	t := e.owned[root]
	delete(e.owned, root)
	e.mu.Unlock()
	if t != nil {
		t.Release()
	}
	return salience.StatusOK
}

func freeString(_ context.Context, e *Engine, args []uint32) salience.Status {
	e.mu.Lock()
	t, ok := e.strs[args[0]]
	delete(e.strs, args[0])
	if ok {
		e.strFrees++
	}
	e.mu.Unlock()
	if !ok {
		return salience.StatusInvalidParameter
	}
	t.Release()
	return salience.StatusOK
}

// ReadString decodes a UTF-8 argument string. Null reads as "".
func (e *Engine) ReadString(ptr uint32) string {
	s, err := e.utf8.ReadString(e.arena, ptr)
	if err != nil {
		panic(err)
	}
	return s
}

// Result installs a fetch entry point that lays out its result with write
// into the descriptor argument, which sits second to last.
func (e *Engine) Result(name string, write func(t *Tree, desc uint32)) {
	e.ResultStatus(name, salience.StatusOK, write)
}

// ResultStatus is Result returning status instead of success.
func (e *Engine) ResultStatus(name string, status salience.Status, write func(t *Tree, desc uint32)) {
	e.Handle(name, func(_ context.Context, e *Engine, args []uint32) salience.Status {
		desc := args[len(args)-2]
		t := e.NewTree()
		write(t, desc)
		e.Own(desc, t)
		return status
	})
}

// Fail installs an entry point that always returns status.
func (e *Engine) Fail(name string, status salience.Status) {
	e.Handle(name, func(context.Context, *Engine, []uint32) salience.Status {
		return status
	})
}

// StringResult installs an entry point handing back s through its **buf
// argument: the first argument when it is the only one, the second
// otherwise. An empty s hands back a null buffer.
func (e *Engine) StringResult(name string, s string) {
	e.Handle(name, func(_ context.Context, e *Engine, args []uint32) salience.Status {
		slot := args[0]
		if len(args) > 1 {
			slot = args[1]
		}
		e.PutString(slot, s)
		return salience.StatusOK
	})
}

// PutString allocates s as an engine string released by lxaFreeString and
// stores its address at slot.
func (e *Engine) PutString(slot uint32, s string) {
	var ptr uint32
	if s != "" {
		t := e.NewTree()
		ptr = t.String(s)
		e.mu.Lock()
		e.strs[ptr] = t
		e.mu.Unlock()
	}
	must(e.arena.WriteU32(slot, ptr))
}

// Notify delivers a status notification for session through the
// dispatcher, as the engine's callback import would.
func (e *Engine) Notify(ctx context.Context, session uint32, status int32, msg string) int32 {
	t := e.NewTree()
	defer t.Release()
	return e.dispatcher.Trampoline(ctx, e.arena, session, status, t.String(msg))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

var (
	_ salience.Native = (*Engine)(nil)
	_ callback.Source = (*Engine)(nil)
	_ sync.Locker     = (*Engine)(nil)
)
