package session

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/callback"
	"github.com/wippyai/salience-go/codec"
	"github.com/wippyai/salience-go/engine"
	"github.com/wippyai/salience-go/errors"
	"github.com/wippyai/salience-go/internal/layout"
	"github.com/wippyai/salience-go/marshal"
	"github.com/wippyai/salience-go/option"
	"github.com/wippyai/salience-go/resource"
)

// engineUnavailable is reported when the engine fails before it can say why.
const engineUnavailable = "engine cannot be loaded"

// Session is an open engine session and the license it was opened with.
// The embedded Scope addresses every configuration; In addresses one.
//
// A Session is not safe for concurrent use. Independent sessions are, even
// on one engine instance: each operation holds the instance's operation
// lock from its first allocation to its last release.
type Session struct {
	Scope

	native     salience.Native
	codec      *codec.Codec
	fetcher    *marshal.Fetcher
	options    *option.Setter
	dispatcher *callback.Dispatcher
	table      *resource.Table
	leaks      *resource.LeakDetector
	log        *zap.Logger
	configs    map[string]resource.Handle
	id         string

	licenseSlot uint32
	handle      uint32
	license     resource.Handle
	session     resource.Handle

	mu     sync.Mutex
	closed bool
}

// Open loads the license, starts the engine with cfg and applies
// cfg.Options. On failure everything acquired so far is released.
func Open(ctx context.Context, n salience.Native, cfg Config) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Session{
		native:  n,
		codec:   codec.New(cfg.Encoding),
		table:   resource.NewTable(),
		configs: make(map[string]resource.Handle),
		id:      uuid.NewString(),
	}
	s.Scope = Scope{s: s}
	s.leaks = resource.Watch(s.table)
	s.log = Logger().With(zap.String("session", s.id))

	err := s.exclusive(func() error {
		if err := s.loadLicense(ctx, cfg.LicensePath); err != nil {
			return err
		}
		if err := s.open(ctx, cfg); err != nil {
			return multierr.Append(err, s.freeLicense(ctx))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.fetcher = &marshal.Fetcher{Native: n, Codec: s.codec, Session: s.handle, Table: s.table, Log: s.log}
	s.options = option.NewSetter(n, s.codec, s.handle)
	if cfg.Mode == ModeShortform {
		s.options.Assume(option.Shortform()...)
	}

	if src, ok := n.(callback.Source); ok && src.Dispatcher() != nil {
		s.dispatcher = src.Dispatcher()
		s.dispatcher.Register(s.handle, s.codec, cfg.Callback)
		if err := s.EnableCallbacks(ctx); err != nil {
			return nil, multierr.Append(err, s.Close(ctx))
		}
	}

	for _, st := range cfg.Options {
		if err := s.SetOption(ctx, st.ID, st.Value); err != nil {
			return nil, multierr.Append(err, s.Close(ctx))
		}
	}

	s.log.Info("session opened",
		zap.String("data", cfg.DataDirectory),
		zap.Stringer("mode", cfg.Mode),
		zap.Stringer("encoding", cfg.Encoding))
	return s, nil
}

// loadLicense, open and freeLicense run under the operation lock held by
// their caller.
func (s *Session) loadLicense(ctx context.Context, path string) error {
	mem := s.native.Memory()
	alloc := s.native.Allocator()

	slot, err := alloc.Alloc(4, 4)
	if err != nil {
		return errors.AllocationFailed(errors.PhaseLicense, 4, 4)
	}
	if err := mem.WriteU32(slot, 0); err != nil {
		alloc.Free(slot, 4, 4)
		return errors.Wrap(errors.PhaseLicense, errors.KindOutOfBounds, err, "clear license slot")
	}

	err = s.withStrings([]string{path}, func(ptrs []uint32) error {
		status, err := s.native.Call(ctx, engine.LoadLicense, ptrs[0], slot)
		if err != nil {
			return err
		}
		if !status.Succeeded() {
			return errors.New(errors.PhaseLicense, errors.KindForStatus(int32(status))).
				Status(int32(status)).
				Value(path).
				Detail(engineUnavailable).
				Build()
		}
		return nil
	})
	if err != nil {
		alloc.Free(slot, 4, 4)
		return err
	}

	h, err := mem.ReadU32(slot)
	if err != nil {
		alloc.Free(slot, 4, 4)
		return errors.Wrap(errors.PhaseLicense, errors.KindOutOfBounds, err, "read license handle")
	}
	s.licenseSlot = slot
	s.license = s.table.Insert(resource.KindLicense, h, path, nil)
	return nil
}

func (s *Session) open(ctx context.Context, cfg Config) error {
	mem := s.native.Memory()
	alloc := s.native.Allocator()
	list := codec.NewAllocationList()
	defer list.FreeAndRelease(alloc)

	rec := layout.Startup
	startup, err := list.Alloc(alloc, rec.Size(), rec.Align())
	if err != nil {
		return errors.AllocationFailed(errors.PhaseStartup, rec.Size(), rec.Align())
	}
	slot, err := list.Alloc(alloc, 4, 4)
	if err != nil {
		return errors.AllocationFailed(errors.PhaseStartup, 4, 4)
	}

	var logPtr uint32
	if cfg.LogPath != "" {
		if logPtr, err = s.codec.WriteString(mem, alloc, list, cfg.LogPath); err != nil {
			return err
		}
	}

	writes := []error{
		mem.Write(startup, make([]byte, rec.Size())),
		mem.WriteU32(slot, 0),
		s.codec.WriteFixed(mem, startup+rec.Offset("acDataDirectory"), layout.MaxPath, cfg.DataDirectory),
		s.codec.WriteFixed(mem, startup+rec.Offset("acUserDirectory"), layout.MaxPath, cfg.userDirectory()),
		mem.WriteI32(startup+rec.Offset("nStartupLog"), boolI32(logPtr != 0)),
		mem.WriteU32(startup+rec.Offset("acLogPath"), logPtr),
		mem.WriteI32(startup+rec.Offset("nMode"), int32(cfg.Mode)),
	}
	if err := multierr.Combine(writes...); err != nil {
		return errors.Wrap(errors.PhaseStartup, errors.KindOutOfBounds, err, "write startup record")
	}

	license, _ := s.table.Lookup(s.license, resource.KindLicense)
	status, err := s.native.Call(ctx, engine.OpenSession, license, startup, slot)
	if err != nil {
		return err
	}
	if !status.Succeeded() {
		msg, _ := s.codec.ReadFixed(mem, startup+rec.Offset("acError"), layout.ErrorBufferSize)
		b := errors.New(errors.PhaseStartup, errors.KindForStatus(int32(status))).Status(int32(status))
		if msg == "" {
			return b.Detail(engineUnavailable).Build()
		}
		return b.Detail("open session").EngineMessage(msg).Build()
	}

	if s.handle, err = mem.ReadU32(slot); err != nil {
		return errors.Wrap(errors.PhaseStartup, errors.KindOutOfBounds, err, "read session handle")
	}
	s.session = s.table.Insert(resource.KindSession, s.handle, s.id, nil)
	if status.Partial() {
		s.log.Warn("session opened with soft success", zap.String("call", engine.OpenSession))
	}
	return nil
}

// Close closes the session, then releases the license. It reports every
// failure along the way and any native resource left unreleased. Calling
// Close again is a no-op.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if s.dispatcher != nil {
		s.dispatcher.Unregister(s.handle)
	}
	// Configurations go down with the engine session. A result still in the
	// table is one whose release failed, which the leak check reports.
	err := s.exclusive(func() error {
		var err error
		if s.session != 0 {
			status, callErr := s.native.Call(ctx, engine.CloseSession, s.handle)
			if callErr == nil && !status.Succeeded() {
				callErr = errors.FromStatus(errors.PhaseSession, int32(status), engine.CloseSession, "")
			}
			err = multierr.Append(err, callErr)
			for id, h := range s.configs {
				s.table.Remove(h)
				delete(s.configs, id)
			}
			s.table.Remove(s.session)
			s.session = 0
		}
		return multierr.Append(err, s.freeLicense(ctx))
	})
	err = multierr.Append(err, s.leaks.Check())
	err = multierr.Append(err, s.table.Close())

	s.log.Info("session closed", zap.Bool("clean", err == nil))
	return err
}

func (s *Session) freeLicense(ctx context.Context) error {
	if s.licenseSlot == 0 {
		return nil
	}
	status, err := s.native.Call(ctx, engine.FreeLicense, s.licenseSlot)
	if err == nil && !status.Succeeded() {
		err = errors.FromStatus(errors.PhaseLicense, int32(status), engine.FreeLicense, "")
	}
	if err != nil {
		s.log.Warn("license release failed", zap.Error(err))
	}
	s.table.Remove(s.license)
	s.native.Allocator().Free(s.licenseSlot, 4, 4)
	s.licenseSlot, s.license = 0, 0
	return err
}

// live fails once the session is closed.
func (s *Session) live() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.Closed(errors.PhaseSession, "session")
	}
	return nil
}

// ID is the correlation id the session logs with.
func (s *Session) ID() string {
	return s.id
}

// LastStatus is the status of the most recent native call the session
// made. A soft success shows as Partial.
func (s *Session) LastStatus() salience.Status {
	return s.fetcher.LastStatus()
}

// Resources exposes the handle table tracking the session's native
// resources, for observers.
func (s *Session) Resources() *resource.Table {
	return s.table
}

// In returns a Scope addressing the configuration registered as id. The
// empty id addresses every configuration.
func (s *Session) In(id string) Scope {
	return Scope{s: s, id: id}
}

// AddConfiguration registers a secondary configuration reading its
// customizations from userDir, reachable as id.
func (s *Session) AddConfiguration(ctx context.Context, userDir, id string) (Scope, error) {
	if err := s.live(); err != nil {
		return Scope{}, err
	}
	if id == "" {
		return Scope{}, errors.InvalidInput(errors.PhaseSession, "configuration id is required")
	}
	if _, ok := s.configs[id]; ok {
		return Scope{}, errors.New(errors.PhaseSession, errors.KindInvalidInput).
			Value(id).
			Detail("configuration %q already registered", id).
			Build()
	}
	if err := s.invoke(ctx, errors.PhaseSession, engine.AddConfiguration, []string{userDir, id}); err != nil {
		return Scope{}, err
	}
	s.configs[id] = s.table.Insert(resource.KindConfiguration, 0, id, userDir)
	s.log.Debug("configuration added", zap.String("id", id), zap.String("dir", userDir))
	return s.In(id), nil
}

// RemoveConfiguration drops the configuration registered as id along with
// the option values mirrored for it.
func (s *Session) RemoveConfiguration(ctx context.Context, id string) error {
	if err := s.live(); err != nil {
		return err
	}
	if err := s.invoke(ctx, errors.PhaseSession, engine.RemoveConfiguration, []string{id}); err != nil {
		return err
	}
	if h, ok := s.configs[id]; ok {
		s.table.Remove(h)
		delete(s.configs, id)
	}
	s.options.Forget(id)
	s.log.Debug("configuration removed", zap.String("id", id))
	return nil
}

// Configurations lists the registered configuration ids in order.
func (s *Session) Configurations() []string {
	ids := make([]string, 0, len(s.configs))
	for id := range s.configs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// withStrings writes strs into engine memory for the duration of fn.
func (s *Session) withStrings(strs []string, fn func(ptrs []uint32) error) error {
	mem := s.native.Memory()
	alloc := s.native.Allocator()
	list := codec.NewAllocationList()
	defer list.FreeAndRelease(alloc)

	ptrs := make([]uint32, 0, len(strs))
	for _, str := range strs {
		p, err := s.codec.WriteString(mem, alloc, list, str)
		if err != nil {
			return err
		}
		ptrs = append(ptrs, p)
	}
	return fn(ptrs)
}

// invoke calls name(session, strs..., tail...) under the operation lock.
func (s *Session) invoke(ctx context.Context, phase errors.Phase, name string, strs []string, tail ...uint32) error {
	return s.exclusive(func() error {
		return s.withStrings(strs, func(ptrs []uint32) error {
			err := s.fetcher.Call(ctx, phase, name, append(ptrs, tail...)...)
			s.note(name, err)
			return err
		})
	})
}

// note logs the outcome of a native call.
func (s *Session) note(name string, err error) {
	status := s.fetcher.LastStatus()
	switch {
	case err != nil:
		s.log.Debug("engine call failed", zap.String("call", name), zap.Error(err))
	case status.Partial():
		s.log.Warn("soft success", zap.String("call", name), zap.Int32("status", int32(status)))
	default:
		s.log.Debug("engine call", zap.String("call", name))
	}
}

func boolI32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
