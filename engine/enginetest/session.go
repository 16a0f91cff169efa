package enginetest

import (
	"context"
	"sync"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/codec"
	"github.com/wippyai/salience-go/engine"
	"github.com/wippyai/salience-go/internal/layout"
)

// Handles the fake engine hands out.
const (
	LicenseHandle uint32 = 0x1000
	SessionHandle uint32 = 0x2000
)

// Startup is the decoded startup record a session was opened with.
type Startup struct {
	DataDirectory string
	UserDirectory string
	LogPath       string
	StartupLog    bool
	Mode          int
}

// Option is one decoded option record.
type Option struct {
	Scope string
	Text  string
	ID    int
	Int   int32
	Float float32
}

// Prepared records one prepare call.
type Prepared struct {
	Call      string
	Text      string
	Header    string
	Name      string
	File      string
	Documents []salience.CollectionDocument
	Process   bool
}

// Callback is the last callback registration.
type Callback struct {
	Scope   string
	Param   uint32
	Enabled bool
}

// State backs the session entry points InstallSession installs. Tests set
// the injection fields before calling and inspect the rest afterwards.
type State struct {
	// Injected behavior.
	LicenseStatus salience.Status
	OpenStatus    salience.Status
	OpenError     string
	Unsupported   map[int]bool
	Invalid       map[int]bool
	ErrorMessage  string
	Version       string
	Location      string
	Environment   string
	Warnings      int32

	// Observed calls.
	LicensePath    string
	Startup        Startup
	Options        []Option
	Configurations map[string]string
	Prepared       []Prepared
	Callback       Callback
	LicenseFreed   int
	SessionClosed  int

	mu sync.Mutex
}

// LastOption returns the most recently accepted option record for id.
func (s *State) LastOption(id int) (Option, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.Options) - 1; i >= 0; i-- {
		if s.Options[i].ID == id {
			return s.Options[i], true
		}
	}
	return Option{}, false
}

// InstallSession installs the license, session, configuration, option,
// prepare, callback and informational entry points backed by a fresh State.
func InstallSession(e *Engine) *State {
	st := &State{
		Unsupported:    make(map[int]bool),
		Invalid:        make(map[int]bool),
		Configurations: make(map[string]string),
		Version:        "6.5.0",
		Location:       "/opt/salience",
	}
	utf8 := codec.New(codec.UTF8)

	e.Handle(engine.LoadLicense, func(_ context.Context, e *Engine, args []uint32) salience.Status {
		st.mu.Lock()
		defer st.mu.Unlock()
		st.LicensePath = e.ReadString(args[0])
		if !st.LicenseStatus.Succeeded() {
			return st.LicenseStatus
		}
		must(e.arena.WriteU32(args[1], LicenseHandle))
		return st.LicenseStatus
	})
	e.Handle(engine.FreeLicense, func(_ context.Context, e *Engine, args []uint32) salience.Status {
		h, err := e.arena.ReadU32(args[0])
		must(err)
		if h != LicenseHandle {
			return salience.StatusInvalidParameter
		}
		st.mu.Lock()
		st.LicenseFreed++
		st.mu.Unlock()
		return salience.StatusOK
	})
	e.Handle(engine.OpenSession, func(_ context.Context, e *Engine, args []uint32) salience.Status {
		base, rec := args[1], layout.Startup
		fixed := func(field string, n uint32) string {
			s, err := utf8.ReadFixed(e.arena, base+rec.Offset(field), n)
			must(err)
			return s
		}
		i32 := func(field string) int32 {
			v, err := e.arena.ReadI32(base + rec.Offset(field))
			must(err)
			return v
		}
		logPtr, err := e.arena.ReadU32(base + rec.Offset("acLogPath"))
		must(err)

		st.mu.Lock()
		defer st.mu.Unlock()
		if args[0] != LicenseHandle {
			return salience.StatusInvalidParameter
		}
		st.Startup = Startup{
			DataDirectory: fixed("acDataDirectory", layout.MaxPath),
			UserDirectory: fixed("acUserDirectory", layout.MaxPath),
			LogPath:       e.ReadString(logPtr),
			StartupLog:    i32("nStartupLog") != 0,
			Mode:          int(i32("nMode")),
		}
		if !st.OpenStatus.Succeeded() {
			data := append([]byte(st.OpenError), 0)
			must(e.arena.Write(base+rec.Offset("acError"), data))
			return st.OpenStatus
		}
		must(e.arena.WriteU32(args[2], SessionHandle))
		return st.OpenStatus
	})
	e.Handle(engine.CloseSession, st.sessionCall(func(e *Engine, args []uint32) salience.Status {
		st.SessionClosed++
		return salience.StatusOK
	}))
	e.Handle(engine.AddConfiguration, st.sessionCall(func(e *Engine, args []uint32) salience.Status {
		st.Configurations[e.ReadString(args[2])] = e.ReadString(args[1])
		return salience.StatusOK
	}))
	e.Handle(engine.RemoveConfiguration, st.sessionCall(func(e *Engine, args []uint32) salience.Status {
		id := e.ReadString(args[1])
		if _, ok := st.Configurations[id]; !ok {
			return salience.StatusInvalidParameter
		}
		delete(st.Configurations, id)
		return salience.StatusOK
	}))
	e.Handle(engine.SetOption, st.sessionCall(func(e *Engine, args []uint32) salience.Status {
		base, rec := args[1], layout.Option
		read := func(field string) uint32 {
			v, err := e.arena.ReadU32(base + rec.Offset(field))
			must(err)
			return v
		}
		fv, err := e.arena.ReadF32(base + rec.Offset("fValue"))
		must(err)
		opt := Option{
			ID:    int(int32(read("nOption"))),
			Text:  e.ReadString(read("acValue")),
			Int:   int32(read("nValue")),
			Float: fv,
			Scope: e.ReadString(args[2]),
		}
		switch {
		case st.Unsupported[opt.ID]:
			return salience.StatusUnsupportedOption
		case st.Invalid[opt.ID]:
			return salience.StatusInvalidParameter
		}
		st.Options = append(st.Options, opt)
		return salience.StatusOK
	}))
	e.Handle(engine.SetCallback, st.sessionCall(func(e *Engine, args []uint32) salience.Status {
		st.Callback = Callback{Enabled: args[1] != 0, Param: args[2], Scope: e.ReadString(args[3])}
		return salience.StatusOK
	}))

	e.Handle(engine.PrepareText, st.prepare(func(e *Engine, args []uint32) Prepared {
		return Prepared{Call: engine.PrepareText, Text: e.ReadString(args[1])}
	}))
	e.Handle(engine.PrepareTextFromFile, st.prepare(func(e *Engine, args []uint32) Prepared {
		return Prepared{Call: engine.PrepareTextFromFile, File: e.ReadString(args[1])}
	}))
	e.Handle(engine.AddSection, st.prepare(func(e *Engine, args []uint32) Prepared {
		return Prepared{Call: engine.AddSection, Header: e.ReadString(args[1]), Text: e.ReadString(args[2]), Process: args[3] != 0}
	}))
	e.Handle(engine.AddSectionFromFile, st.prepare(func(e *Engine, args []uint32) Prepared {
		return Prepared{Call: engine.AddSectionFromFile, Header: e.ReadString(args[1]), File: e.ReadString(args[2]), Process: args[3] != 0}
	}))
	e.Handle(engine.PrepareCollectionFromFile, st.prepare(func(e *Engine, args []uint32) Prepared {
		return Prepared{Call: engine.PrepareCollectionFromFile, Name: e.ReadString(args[1]), File: e.ReadString(args[2])}
	}))
	e.Handle(engine.PrepareCollection, st.prepare(func(e *Engine, args []uint32) Prepared {
		name, docs := readCollection(e, args[1])
		return Prepared{Call: engine.PrepareCollection, Name: name, Documents: docs}
	}))

	e.Handle(engine.GetErrorString, func(_ context.Context, e *Engine, args []uint32) salience.Status {
		st.mu.Lock()
		msg := st.ErrorMessage
		st.mu.Unlock()
		e.PutString(args[1], msg)
		return salience.StatusOK
	})
	e.Handle(engine.GetVersion, func(_ context.Context, e *Engine, args []uint32) salience.Status {
		e.PutString(args[0], st.Version)
		return salience.StatusOK
	})
	e.Handle(engine.GetDefaultLocation, func(_ context.Context, e *Engine, args []uint32) salience.Status {
		e.PutString(args[0], st.Location)
		return salience.StatusOK
	})
	e.Handle(engine.DumpEnvironment, st.sessionCall(func(e *Engine, args []uint32) salience.Status {
		e.PutString(args[1], st.Environment)
		return salience.StatusOK
	}))
	e.Handle(engine.GetLastWarnings, st.sessionCall(func(e *Engine, args []uint32) salience.Status {
		must(e.arena.WriteI32(args[1], st.Warnings))
		return salience.StatusOK
	}))
	return st
}

// sessionCall wraps an entry point whose first argument is the session.
// The State is locked while fn runs.
func (s *State) sessionCall(fn func(e *Engine, args []uint32) salience.Status) Func {
	return func(_ context.Context, e *Engine, args []uint32) salience.Status {
		if args[0] != SessionHandle {
			return salience.StatusInvalidParameter
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(e, args)
	}
}

// prepare records a prepare call.
func (s *State) prepare(fn func(e *Engine, args []uint32) Prepared) Func {
	return s.sessionCall(func(e *Engine, args []uint32) salience.Status {
		s.Prepared = append(s.Prepared, fn(e, args))
		return salience.StatusOK
	})
}

func readCollection(e *Engine, base uint32) (string, []salience.CollectionDocument) {
	u32 := func(at uint32) uint32 {
		v, err := e.arena.ReadU32(at)
		must(err)
		return v
	}
	rec, item := layout.Collection, layout.CollectionDocument
	name := e.ReadString(u32(base + rec.Offset("acName")))
	n := int(int32(u32(base + rec.Offset("nSize"))))
	items := u32(base + rec.Offset("pDocuments"))

	docs := make([]salience.CollectionDocument, 0, n)
	for i := 0; i < n; i++ {
		b := items + uint32(i)*item.Size()
		docs = append(docs, salience.CollectionDocument{
			Identifier:  e.ReadString(u32(b + item.Offset("acIdentifier"))),
			Text:        e.ReadString(u32(b + item.Offset("acText"))),
			IsText:      u32(b+item.Offset("nIsText")) != 0,
			SplitByLine: u32(b+item.Offset("nSplitByLine")) != 0,
		})
	}
	return name, docs
}
