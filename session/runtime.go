package session

import (
	"context"
	"os"

	"go.uber.org/multierr"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/engine"
	"github.com/wippyai/salience-go/errors"
)

// Runtime hosts one engine module. Sessions opened on it share its memory
// and its status callback trampoline.
type Runtime struct {
	engine *engine.Engine
	inst   *engine.Instance
}

// NewRuntime compiles and instantiates the engine module in wasm.
func NewRuntime(ctx context.Context, wasm []byte, cfg *engine.Config) (*Runtime, error) {
	eng, err := engine.New(ctx, cfg)
	if err != nil {
		return nil, errors.Load("create engine", err)
	}
	inst, err := eng.Load(ctx, wasm)
	if err != nil {
		return nil, multierr.Append(err, eng.Close(ctx))
	}
	return &Runtime{engine: eng, inst: inst}, nil
}

// LoadRuntime reads the engine module from path.
func LoadRuntime(ctx context.Context, path string, cfg *engine.Config) (*Runtime, error) {
	wasm, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read engine module "+path, err)
	}
	return NewRuntime(ctx, wasm, cfg)
}

// Native is the loaded engine.
func (r *Runtime) Native() salience.Native {
	return r.inst
}

// Open opens a session on the runtime's engine.
func (r *Runtime) Open(ctx context.Context, cfg Config) (*Session, error) {
	return Open(ctx, r.inst, cfg)
}

func (r *Runtime) Version(ctx context.Context) (string, error) {
	return Version(ctx, r.inst)
}

func (r *Runtime) DefaultLocation(ctx context.Context) (string, error) {
	return DefaultLocation(ctx, r.inst)
}

// Close releases the engine. Sessions opened on it must be closed first.
func (r *Runtime) Close(ctx context.Context) error {
	return multierr.Append(r.inst.Close(ctx), r.engine.Close(ctx))
}
