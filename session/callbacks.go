package session

import (
	"context"

	"github.com/wippyai/salience-go/callback"
	"github.com/wippyai/salience-go/engine"
	"github.com/wippyai/salience-go/errors"
)

// EnableCallbacks asks the engine to report progress for this scope
// through the status callback. Open enables them for every configuration.
func (sc Scope) EnableCallbacks(ctx context.Context) error {
	return sc.setCallback(ctx, true)
}

func (sc Scope) DisableCallbacks(ctx context.Context) error {
	return sc.setCallback(ctx, false)
}

func (sc Scope) setCallback(ctx context.Context, enabled bool) error {
	s := sc.s
	if err := s.live(); err != nil {
		return err
	}
	if s.dispatcher == nil {
		return errors.NotInitialized(errors.PhaseCallback, "callback dispatcher")
	}
	// The session handle doubles as the callback parameter, which is how
	// the dispatcher finds the session's registration.
	return s.exclusive(func() error {
		return s.withStrings([]string{sc.id}, func(ptrs []uint32) error {
			err := s.fetcher.Call(ctx, errors.PhaseCallback, engine.SetCallback, flag(enabled), s.handle, ptrs[0])
			s.note(engine.SetCallback, err)
			return err
		})
	})
}

// SetHandler replaces the handler that receives notifications for
// operations whose context carries none. A nil h drops them.
func (s *Session) SetHandler(h callback.Handler) error {
	if err := s.live(); err != nil {
		return err
	}
	if s.dispatcher == nil {
		return errors.NotInitialized(errors.PhaseCallback, "callback dispatcher")
	}
	s.dispatcher.Register(s.handle, s.codec, h)
	return nil
}
