package session

import (
	"context"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/codec"
	"github.com/wippyai/salience-go/engine"
	"github.com/wippyai/salience-go/errors"
	"github.com/wippyai/salience-go/marshal"
)

// Version returns the engine version. It needs no session.
func Version(ctx context.Context, n salience.Native) (string, error) {
	return exclusive(n, func() (string, error) {
		s, _, err := marshal.OutString(ctx, n, codec.New(codec.UTF8), engine.GetVersion, nil)
		return s, err
	})
}

// DefaultLocation returns the engine's default install directory. It
// needs no session.
func DefaultLocation(ctx context.Context, n salience.Native) (string, error) {
	return exclusive(n, func() (string, error) {
		s, _, err := marshal.OutString(ctx, n, codec.New(codec.UTF8), engine.GetDefaultLocation, nil)
		return s, err
	})
}

// DumpEnvironment returns the engine's description of its environment:
// data paths, loaded resources and effective options.
func (s *Session) DumpEnvironment(ctx context.Context) (string, error) {
	if err := s.live(); err != nil {
		return "", err
	}
	env, err := exclusive(s.native, func() (string, error) {
		return s.fetcher.SessionString(ctx, engine.DumpEnvironment)
	})
	s.note(engine.DumpEnvironment, err)
	return env, err
}

// LastWarnings returns the warning flags the engine raised while
// processing the current document.
func (s *Session) LastWarnings(ctx context.Context) (int, error) {
	if err := s.live(); err != nil {
		return 0, err
	}
	return exclusive(s.native, func() (int, error) {
		return s.lastWarnings(ctx)
	})
}

func (s *Session) lastWarnings(ctx context.Context) (int, error) {
	mem := s.native.Memory()
	alloc := s.native.Allocator()
	slot, err := alloc.Alloc(4, 4)
	if err != nil {
		return 0, errors.AllocationFailed(errors.PhaseFetch, 4, 4)
	}
	defer alloc.Free(slot, 4, 4)
	if err := mem.WriteI32(slot, 0); err != nil {
		return 0, errors.Wrap(errors.PhaseFetch, errors.KindOutOfBounds, err, "clear warnings slot")
	}

	err = s.fetcher.Call(ctx, errors.PhaseFetch, engine.GetLastWarnings, slot)
	s.note(engine.GetLastWarnings, err)
	if err != nil {
		return 0, err
	}
	n, err := mem.ReadI32(slot)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, err, "read warnings")
	}
	return int(n), nil
}

// ErrorString returns the engine's current error text, or "".
func (s *Session) ErrorString(ctx context.Context) string {
	if s.live() != nil {
		return ""
	}
	msg, _ := exclusive(s.native, func() (string, error) {
		return marshal.ErrorString(ctx, s.native, s.codec, s.handle), nil
	})
	return msg
}
