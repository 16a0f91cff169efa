package callback

import (
	"context"
	"sync"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/codec"
)

// Notification is one status message the engine sent while an operation ran.
type Notification struct {
	Message string
	// Session is the parameter the session registered with the engine.
	Session uint32
	Status  int32
}

// Handler receives notifications for an operation in flight.
type Handler func(ctx context.Context, n Notification)

type ctxKey struct{}

// WithHandler returns a context that routes notifications raised during
// calls made with it to h.
func WithHandler(ctx context.Context, h Handler) context.Context {
	return context.WithValue(ctx, ctxKey{}, h)
}

// HandlerFrom returns the handler carried by ctx.
func HandlerFrom(ctx context.Context) (Handler, bool) {
	h, ok := ctx.Value(ctxKey{}).(Handler)
	return h, ok && h != nil
}

// Source is implemented by engines that accept status callbacks.
type Source interface {
	Dispatcher() *Dispatcher
}

type registration struct {
	fallback Handler
	codec    *codec.Codec
}

// Dispatcher routes trampoline invocations to handlers. The handler in the
// calling context wins; otherwise the session's fallback handler runs.
type Dispatcher struct {
	sessions map[uint32]registration
	utf8     *codec.Codec
	mu       sync.RWMutex
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		sessions: make(map[uint32]registration),
		utf8:     codec.New(codec.UTF8),
	}
}

// Register associates a session parameter with its text codec and an
// optional fallback handler.
func (d *Dispatcher) Register(session uint32, c *codec.Codec, fallback Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions[session] = registration{fallback: fallback, codec: c}
}

func (d *Dispatcher) Unregister(session uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sessions, session)
}

// Registered reports whether session has a registration.
func (d *Dispatcher) Registered(session uint32) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.sessions[session]
	return ok
}

// Trampoline is the entry the engine's status callback import lands in.
// It decodes the message at msgPtr and dispatches it. The return value is
// handed back to the engine.
func (d *Dispatcher) Trampoline(ctx context.Context, mem salience.Memory, session uint32, status int32, msgPtr uint32) int32 {
	d.mu.RLock()
	reg, ok := d.sessions[session]
	d.mu.RUnlock()

	c := d.utf8
	if ok && reg.codec != nil {
		c = reg.codec
	}

	msg, err := c.ReadString(mem, msgPtr)
	if err != nil {
		msg = ""
	}

	n := Notification{Session: session, Status: status, Message: msg}
	if h, found := HandlerFrom(ctx); found {
		h(ctx, n)
		return 0
	}
	if ok && reg.fallback != nil {
		reg.fallback(ctx, n)
	}
	return 0
}
