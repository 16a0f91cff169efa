package marshal

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/codec"
	"github.com/wippyai/salience-go/engine"
	"github.com/wippyai/salience-go/errors"
	"github.com/wippyai/salience-go/internal/layout"
	"github.com/wippyai/salience-go/resource"
)

// Spec names a fetch entry point, the call that releases what it returns
// and the shape of its descriptor. An empty Free means the descriptor owns
// nothing.
type Spec struct {
	Fetch  string
	Free   string
	Record *layout.Record
}

// Fetcher runs fetches against one open session. It is not safe for
// concurrent use, matching the session it belongs to.
type Fetcher struct {
	Native  salience.Native
	Codec   *codec.Codec
	Session uint32
	// Table, when set, tracks every live native result so leaks show up
	// in its observers.
	Table *resource.Table
	// Log receives release failures. Nil discards them.
	Log *zap.Logger

	last salience.Status
}

// LastStatus returns the status of the most recent native call.
func (f *Fetcher) LastStatus() salience.Status {
	return f.last
}

// Fetch runs one scoped fetch: it hands the engine a zeroed descriptor,
// checks the status, walks the result into an owned value and releases the
// descriptor exactly once. args sit between the session and the descriptor.
//
// A failing status returns an error carrying the session's error string;
// the engine has not populated the descriptor, so nothing is released.
//
// The result is owned by the caller once the walk completes, so a failed
// release does not fail the fetch. It is logged at Warn and the descriptor
// stays live in Table for the leak detector to report.
func Fetch[T any](ctx context.Context, f *Fetcher, spec Spec, scope string, args []uint32, walk func(r *Reader, desc uint32) T) (T, error) {
	var result T
	mem := f.Native.Memory()
	alloc := f.Native.Allocator()

	list := codec.NewAllocationList()
	defer list.FreeAndRelease(alloc)

	desc, err := zeroed(mem, alloc, list, spec.Record.Size(), spec.Record.Align())
	if err != nil {
		return result, err
	}
	scopePtr, err := f.Codec.WriteString(mem, alloc, list, scope)
	if err != nil {
		return result, err
	}

	callArgs := make([]uint32, 0, len(args)+3)
	callArgs = append(callArgs, f.Session)
	callArgs = append(callArgs, args...)
	callArgs = append(callArgs, desc, scopePtr)

	status, err := f.Native.Call(ctx, spec.Fetch, callArgs...)
	if err != nil {
		return result, err
	}
	f.last = status
	if !status.Succeeded() {
		return result, errors.FromStatus(errors.PhaseFetch, int32(status), spec.Fetch,
			ErrorString(ctx, f.Native, f.Codec, f.Session))
	}

	if spec.Free != "" {
		var handle resource.Handle
		if f.Table != nil {
			handle = f.Table.Insert(resource.KindResult, desc, spec.Fetch, nil)
		}
		defer func() {
			if err := f.release(ctx, spec, desc); err != nil {
				f.logger().Warn("result release failed",
					zap.String("call", spec.Free),
					zap.Uint32("descriptor", desc),
					zap.Error(err))
				return
			}
			if f.Table != nil {
				f.Table.Remove(handle)
			}
		}()
	}

	r := NewReader(mem, f.Codec)
	result = walk(r, desc)
	if err := r.Err(); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

func (f *Fetcher) logger() *zap.Logger {
	if f.Log == nil {
		return zap.NewNop()
	}
	return f.Log
}

func (f *Fetcher) release(ctx context.Context, spec Spec, desc uint32) error {
	status, err := f.Native.Call(ctx, spec.Free, desc)
	if err != nil {
		return err
	}
	if !status.Succeeded() {
		return errors.FromStatus(errors.PhaseFetch, int32(status), spec.Free, "")
	}
	return nil
}

// Call invokes a non-fetch entry point on the session and maps a failing
// status to an error carrying the session's error string.
func (f *Fetcher) Call(ctx context.Context, phase errors.Phase, name string, args ...uint32) error {
	status, err := f.Native.Call(ctx, name, append([]uint32{f.Session}, args...)...)
	if err != nil {
		return err
	}
	f.last = status
	if !status.Succeeded() {
		return errors.FromStatus(phase, int32(status), name, ErrorString(ctx, f.Native, f.Codec, f.Session))
	}
	return nil
}

// String calls an entry point of the shape name(session, **buf, scope) and
// returns a copy of the engine-owned string.
func (f *Fetcher) String(ctx context.Context, name, scope string) (string, error) {
	list := codec.NewAllocationList()
	defer list.FreeAndRelease(f.Native.Allocator())

	scopePtr, err := f.Codec.WriteString(f.Native.Memory(), f.Native.Allocator(), list, scope)
	if err != nil {
		return "", err
	}
	s, status, err := OutString(ctx, f.Native, f.Codec, name, []uint32{f.Session}, scopePtr)
	return s, f.outcome(ctx, name, status, err)
}

// SessionString calls name(session, **buf).
func (f *Fetcher) SessionString(ctx context.Context, name string) (string, error) {
	s, status, err := OutString(ctx, f.Native, f.Codec, name, []uint32{f.Session})
	return s, f.outcome(ctx, name, status, err)
}

// outcome records the status of a string call and swaps a bare status
// failure for one carrying the session's error string.
func (f *Fetcher) outcome(ctx context.Context, name string, status salience.Status, err error) error {
	if err == nil || !status.Succeeded() {
		f.last = status
	}
	if err != nil && !status.Succeeded() {
		return errors.FromStatus(errors.PhaseFetch, int32(status), name,
			ErrorString(ctx, f.Native, f.Codec, f.Session))
	}
	return err
}

// OutString calls name(before..., **buf, after...) for an entry point that
// hands back an engine-owned string, copies the string and releases it with
// lxaFreeString. A null buffer on success is a KindNilPointer error.
func OutString(ctx context.Context, n salience.Native, c *codec.Codec, name string, before []uint32, after ...uint32) (string, salience.Status, error) {
	mem := n.Memory()
	alloc := n.Allocator()

	list := codec.NewAllocationList()
	defer list.FreeAndRelease(alloc)

	slot, err := zeroed(mem, alloc, list, 4, 4)
	if err != nil {
		return "", 0, err
	}

	args := make([]uint32, 0, len(before)+len(after)+1)
	args = append(args, before...)
	args = append(args, slot)
	args = append(args, after...)

	status, err := n.Call(ctx, name, args...)
	if err != nil {
		return "", 0, err
	}
	if !status.Succeeded() {
		return "", status, errors.FromStatus(errors.PhaseFetch, int32(status), name, "")
	}

	ptr, err := mem.ReadU32(slot)
	if err != nil {
		return "", status, errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, err, "read "+name+" result")
	}
	if ptr == 0 {
		return "", status, errors.NilPointer(errors.PhaseFetch, []string{name}, "")
	}

	s, err := c.ReadString(mem, ptr)
	freeStatus, freeErr := n.Call(ctx, engine.FreeString, ptr)
	if freeErr == nil && !freeStatus.Succeeded() {
		freeErr = errors.FromStatus(errors.PhaseFetch, int32(freeStatus), engine.FreeString, "")
	}
	if err = multierr.Append(err, freeErr); err != nil {
		return "", status, err
	}
	return s, status, nil
}

// ErrorString returns the engine's current error text for session, or ""
// when there is none or it cannot be read.
func ErrorString(ctx context.Context, n salience.Native, c *codec.Codec, session uint32) string {
	s, _, err := OutString(ctx, n, c, engine.GetErrorString, []uint32{session})
	if err != nil {
		return ""
	}
	return s
}

func zeroed(mem salience.Memory, alloc salience.Allocator, list *codec.AllocationList, size, align uint32) (uint32, error) {
	ptr, err := list.Alloc(alloc, size, align)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseEncode, errors.KindAllocation, err, "allocate descriptor")
	}
	if err := mem.Write(ptr, make([]byte, size)); err != nil {
		return 0, errors.Wrap(errors.PhaseEncode, errors.KindOutOfBounds, err, "clear descriptor")
	}
	return ptr, nil
}
