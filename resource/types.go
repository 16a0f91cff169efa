package resource

// Handle is an opaque reference to a native resource in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Kind identifies what a native resource is.
type Kind uint8

const (
	KindLicense Kind = iota + 1
	KindSession
	KindConfiguration
	KindResult
)

func (k Kind) String() string {
	switch k {
	case KindLicense:
		return "license"
	case KindSession:
		return "session"
	case KindConfiguration:
		return "configuration"
	case KindResult:
		return "result"
	default:
		return "unknown"
	}
}

// Event types for resource lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

// Event represents a resource lifecycle event.
type Event struct {
	Value any
	// Label names the resource for diagnostics: a configuration id, or the
	// entry point that produced a result.
	Label  string
	Handle Handle
	// Rep is the native representation, typically an engine pointer.
	Rep  uint32
	Kind Kind
	Type EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) OnResourceEvent(e Event) { f(e) }

// Dropper is optionally implemented by resource values that need cleanup
// when their handle is removed.
type Dropper interface {
	Drop()
}
