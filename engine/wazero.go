package engine

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/callback"
	"github.com/wippyai/salience-go/errors"
)

// Engine hosts engine modules in a wazero runtime.
type Engine struct {
	runtime      wazero.Runtime
	cfg          Config
	wasiInitMu   sync.Mutex
	wasiInitDone atomic.Bool
	hostInitMu   sync.Mutex
	hostInitDone atomic.Bool
	dispatcher   *callback.Dispatcher
}

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32

	// Stdout and Stderr receive the module's WASI output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer

	// Mounts maps host directories to guest paths so the engine can read
	// its data and license files through WASI.
	Mounts map[string]string
}

// New creates a new wazero-based engine
func New(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()

	e := &Engine{dispatcher: callback.NewDispatcher()}
	if cfg != nil {
		e.cfg = *cfg
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
	}

	e.runtime = wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	return e, nil
}

// Dispatcher returns the status callback dispatcher shared by every
// instance of this engine.
func (e *Engine) Dispatcher() *callback.Dispatcher {
	return e.dispatcher
}

// InitWASI instantiates the WASI singleton for this engine's runtime.
// Safe for concurrent calls from multiple modules sharing the same engine.
func (e *Engine) InitWASI(ctx context.Context) error {
	if e.wasiInitDone.Load() {
		return nil
	}

	e.wasiInitMu.Lock()
	defer e.wasiInitMu.Unlock()

	if e.wasiInitDone.Load() {
		return nil
	}

	if e.runtime.Module(wasiModule) == nil {
		if _, err := instantiateWASI(ctx, e.runtime); err != nil && e.runtime.Module(wasiModule) == nil {
			return fmt.Errorf("instantiate WASI: %w", err)
		}
	}

	e.wasiInitDone.Store(true)
	return nil
}

func (e *Engine) initHost(ctx context.Context) error {
	if e.hostInitDone.Load() {
		return nil
	}

	e.hostInitMu.Lock()
	defer e.hostInitMu.Unlock()

	if e.hostInitDone.Load() {
		return nil
	}

	if _, err := instantiateHost(ctx, e.runtime, e.dispatcher); err != nil {
		return errors.Wrap(errors.PhaseLoad, errors.KindInstantiation, err, "instantiate host module")
	}

	e.hostInitDone.Store(true)
	return nil
}

// Load compiles and instantiates an engine module.
func (e *Engine) Load(ctx context.Context, wasmBytes []byte) (*Instance, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, errors.Load("compile engine module", err)
	}

	if err := checkExports(compiled); err != nil {
		_ = compiled.Close(ctx)
		return nil, err
	}

	if err := e.InitWASI(ctx); err != nil {
		_ = compiled.Close(ctx)
		return nil, errors.Load("init WASI", err)
	}
	if err := e.initHost(ctx); err != nil {
		_ = compiled.Close(ctx)
		return nil, err
	}

	modConfig := wazero.NewModuleConfig().
		WithName(""). // anonymous for parallel instantiation
		WithStartFunctions("_initialize")
	if e.cfg.Stdout != nil {
		modConfig = modConfig.WithStdout(e.cfg.Stdout)
	}
	if e.cfg.Stderr != nil {
		modConfig = modConfig.WithStderr(e.cfg.Stderr)
	}
	if len(e.cfg.Mounts) > 0 {
		fsConfig := wazero.NewFSConfig()
		for host, guest := range e.cfg.Mounts {
			fsConfig = fsConfig.WithReadOnlyDirMount(host, guest)
		}
		modConfig = modConfig.WithFSConfig(fsConfig)
	}

	mod, err := e.runtime.InstantiateModule(ctx, compiled, modConfig)
	if err != nil {
		_ = compiled.Close(ctx)
		return nil, errors.Instantiation(err)
	}

	inst := newInstance(mod, compiled, e.dispatcher)
	Logger().Debug("engine module loaded",
		zap.Int("exports", len(compiled.ExportedFunctions())),
		zap.Uint32("memory", inst.memory.Size()))
	return inst, nil
}

func checkExports(compiled wazero.CompiledModule) error {
	exported := compiled.ExportedFunctions()
	var missing []string
	for _, name := range RequiredExports {
		if _, ok := exported[name]; !ok {
			missing = append(missing, name)
		}
	}
	if _, ok := compiled.ExportedMemories()["memory"]; !ok {
		missing = append(missing, "memory")
	}
	if len(missing) > 0 {
		return errors.NewMissingExportsError(missing)
	}
	return nil
}

// Close releases the wazero runtime and every module instantiated in it.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Instance is one instantiated engine module. It implements salience.Native.
//
// Call serializes entry points on its own, but a scoped operation also
// allocates guest memory, walks it and frees it, and none of that may
// interleave with another operation in the same module. Sessions sharing an
// Instance hold Lock for the whole operation. The lock is not reentrant:
// status handlers run inside an operation and must not start another.
type Instance struct {
	op         sync.Mutex
	module     api.Module
	compiled   wazero.CompiledModule
	memory     *WazeroMemory
	alloc      *wazeroAllocator
	dispatcher *callback.Dispatcher
	funcCache  map[string]api.Function
	stackBuf   []uint64
	mu         sync.Mutex
	closed     bool
}

func newInstance(mod api.Module, compiled wazero.CompiledModule, d *callback.Dispatcher) *Instance {
	inst := &Instance{
		module:     mod,
		compiled:   compiled,
		memory:     &WazeroMemory{mem: mod.Memory()},
		dispatcher: d,
		funcCache:  make(map[string]api.Function),
		stackBuf:   make([]uint64, 8),
	}

	defs := mod.ExportedFunctionDefinitions()
	alloc := &wazeroAllocator{stackBuf: make([]uint64, 4)}
	if def := defs[simpleAlloc]; def != nil {
		alloc.allocFn = mod.ExportedFunction(simpleAlloc)
		alloc.isSimpleAlloc = true
	} else if def := defs[CabiRealloc]; def != nil {
		alloc.allocFn = mod.ExportedFunction(CabiRealloc)
		alloc.isSimpleAlloc = len(def.ParamTypes()) < 4
	}
	if defs[simpleFree] != nil {
		alloc.freeFn = mod.ExportedFunction(simpleFree)
	}
	inst.alloc = alloc
	return inst
}

func (i *Instance) Memory() salience.Memory {
	return i.memory
}

func (i *Instance) Allocator() salience.Allocator {
	return i.alloc
}

// Lock acquires the operation lock.
func (i *Instance) Lock() { i.op.Lock() }

// Unlock releases the operation lock.
func (i *Instance) Unlock() { i.op.Unlock() }

// Dispatcher returns the status callback dispatcher of the hosting engine.
func (i *Instance) Dispatcher() *callback.Dispatcher {
	return i.dispatcher
}

// Call invokes an engine entry point. The context travels into host
// functions the engine calls back, which is how status notifications find
// their handler.
func (i *Instance) Call(ctx context.Context, name string, args ...uint32) (salience.Status, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return 0, errors.Closed(errors.PhaseLoad, "engine instance")
	}

	fn, ok := i.funcCache[name]
	if !ok {
		fn = i.module.ExportedFunction(name)
		if fn == nil {
			return 0, errors.NotFound(errors.PhaseLoad, "engine export", name)
		}
		i.funcCache[name] = fn
	}

	if n := len(fn.Definition().ParamTypes()); n != len(args) {
		return 0, errors.InvalidInput(errors.PhaseLoad,
			fmt.Sprintf("%s takes %d arguments, got %d", name, n, len(args)))
	}

	stack := i.stackBuf
	if len(stack) < len(args) || len(stack) < 1 {
		stack = make([]uint64, len(args)+1)
	}
	for j, a := range args {
		stack[j] = api.EncodeI32(int32(a))
	}

	i.alloc.setContext(ctx)
	defer i.alloc.setContext(nil)

	if err := fn.CallWithStack(ctx, stack); err != nil {
		return 0, errors.Wrap(errors.PhaseLoad, errors.KindEngine, err, "call "+name)
	}
	if len(fn.Definition().ResultTypes()) == 0 {
		return salience.StatusOK, nil
	}
	status := salience.Status(api.DecodeI32(stack[0]))
	Logger().Debug("engine call", zap.String("fn", name), zap.Int32("status", int32(status)))
	return status, nil
}

// Close releases the module instance.
func (i *Instance) Close(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return nil
	}
	i.closed = true

	var err error
	if i.module != nil {
		err = multierr.Append(err, i.module.Close(ctx))
	}
	if i.compiled != nil {
		err = multierr.Append(err, i.compiled.Close(ctx))
	}
	i.funcCache = nil
	i.stackBuf = nil
	return err
}

// Compile-time check that Instance implements salience.Native and callback.Source
var _ salience.Native = (*Instance)(nil)
var _ callback.Source = (*Instance)(nil)
var _ sync.Locker = (*Instance)(nil)
