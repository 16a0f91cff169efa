package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad     Phase = "load"     // engine module loading
	PhaseLicense  Phase = "license"  // license acquisition
	PhaseStartup  Phase = "startup"  // session open
	PhaseSession  Phase = "session"  // session lifecycle and configurations
	PhaseOption   Phase = "option"   // option setting
	PhasePrepare  Phase = "prepare"  // text and collection preparation
	PhaseFetch    Phase = "fetch"    // result retrieval
	PhaseDecode   Phase = "decode"   // native to Go
	PhaseEncode   Phase = "encode"   // Go to native
	PhaseCallback Phase = "callback" // status notifications
	PhaseMarkup   Phase = "markup"   // markup generation
	PhaseConfig   Phase = "config"   // configuration files
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidParameter  Kind = "invalid_parameter"
	KindUnsupportedOption Kind = "unsupported_option"
	KindEngine            Kind = "engine"
	KindClosed            Kind = "closed"
	KindNotInitialized    Kind = "not_initialized"
	KindNotFound          Kind = "not_found"
	KindOutOfBounds       Kind = "out_of_bounds"
	KindInvalidData       Kind = "invalid_data"
	KindInvalidInput      Kind = "invalid_input"
	KindTypeMismatch      Kind = "type_mismatch"
	KindAllocation        Kind = "allocation"
	KindNilPointer        Kind = "nil_pointer"
	KindEncoding          Kind = "encoding"
	KindMissingExport     Kind = "missing_export"
	KindInstantiation     Kind = "instantiation"
	KindLeak              Kind = "leak"
)

// Native status codes with a dedicated kind.
const (
	statusInvalidParameter  = 4
	statusUnsupportedOption = 12
)

// Error is the structured error type used throughout the library
type Error struct {
	Value         any
	Cause         error
	Phase         Phase
	Kind          Kind
	GoType        string
	Record        string
	Detail        string
	EngineMessage string
	Path          []string
	Status        int32
	OptionID      int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.Record != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.Record != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", record ")
			b.WriteString(e.Record)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("record ")
			b.WriteString(e.Record)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.Record != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Status != 0 {
		b.WriteString(" (status ")
		b.WriteString(strconv.Itoa(int(e.Status)))
		b.WriteByte(')')
	}

	if e.EngineMessage != "" {
		b.WriteString(": ")
		b.WriteString(e.EngineMessage)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// An empty Phase in target matches any phase.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return (t.Phase == "" || e.Phase == t.Phase) && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Record sets the native record name
func (b *Builder) Record(name string) *Builder {
	b.err.Record = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Status sets the native status code
func (b *Builder) Status(code int32) *Builder {
	b.err.Status = code
	return b
}

// Option sets the option id the error relates to
func (b *Builder) Option(id int) *Builder {
	b.err.OptionID = id
	return b
}

// EngineMessage sets the error string reported by the engine
func (b *Builder) EngineMessage(msg string) *Builder {
	b.err.EngineMessage = msg
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// KindForStatus maps a failing native status code to an error kind.
func KindForStatus(status int32) Kind {
	switch status {
	case statusInvalidParameter:
		return KindInvalidParameter
	case statusUnsupportedOption:
		return KindUnsupportedOption
	default:
		return KindEngine
	}
}

// FromStatus creates an error for a failing native call
func FromStatus(phase Phase, status int32, call, engineMessage string) *Error {
	return &Error{
		Phase:         phase,
		Kind:          KindForStatus(status),
		Status:        status,
		Detail:        call,
		EngineMessage: engineMessage,
	}
}

// OptionFailed creates an error for a rejected option set
func OptionFailed(id int, status int32) *Error {
	var msg string
	switch KindForStatus(status) {
	case KindInvalidParameter:
		msg = "invalid parameter provided when setting option"
	case KindUnsupportedOption:
		msg = "option not supported"
	}
	return &Error{
		Phase:         PhaseOption,
		Kind:          KindForStatus(status),
		Status:        status,
		OptionID:      id,
		Detail:        fmt.Sprintf("error setting option #%d", id),
		EngineMessage: msg,
		Value:         id,
	}
}

// Closed creates an error for use of a released resource
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", what),
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, offset, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("access at %d+%d out of bounds", offset, length),
		Value:  offset,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, record string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		Record: record,
		Detail: "nil pointer",
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, record string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: goType,
		Record: record,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Encoding creates a text transcoding error
func Encoding(phase Phase, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindEncoding,
		Detail: "transcode text",
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", what),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInstantiation,
		Detail: "instantiate engine module",
		Cause:  cause,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// MissingExportsError is returned when the engine module lacks required entry points
type MissingExportsError struct {
	Exports []string
}

// NewMissingExportsError creates an error listing the absent exports
func NewMissingExportsError(exports []string) *MissingExportsError {
	return &MissingExportsError{Exports: exports}
}

func (e *MissingExportsError) Error() string {
	if len(e.Exports) == 0 {
		return "[load] missing_export: no exports specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("engine module is missing %d export(s):", len(e.Exports)))
	for _, name := range e.Exports {
		b.WriteString("\n  - ")
		b.WriteString(name)
	}
	return b.String()
}

// Is reports whether target matches this error type
func (e *MissingExportsError) Is(target error) bool {
	if _, ok := target.(*MissingExportsError); ok {
		return true
	}
	if t, ok := target.(*Error); ok {
		return t.Kind == KindMissingExport && (t.Phase == "" || t.Phase == PhaseLoad)
	}
	return false
}
