package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates which bridge operation the error occurred in
type Phase string

const (
	PhaseStart       Phase = "start"       // embedded environment startup
	PhaseSerialize   Phase = "serialize"   // configuration to text
	PhaseInvoke      Phase = "invoke"      // engine entry point call
	PhaseDeserialize Phase = "deserialize" // engine result text to value
	PhaseShutdown    Phase = "shutdown"    // embedded environment teardown
)

// Kind categorizes the error
type Kind string

const (
	KindArtifactMissing    Kind = "artifact_missing"
	KindIncompatibleBinary Kind = "incompatible_binary"
	KindMissingExport      Kind = "missing_export"
	KindAlreadyStopped     Kind = "already_stopped"
	KindUnsupportedValue   Kind = "unsupported_value"
	KindInvalidData        Kind = "invalid_data"
	KindAllocation         Kind = "allocation"
	KindEngineTrap         Kind = "engine_trap"
	KindInvalidOutput      Kind = "invalid_output"
	KindCloseFailed        Kind = "close_failed"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   []string
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

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
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

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
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

// Path sets the value path to where the error occurred
func (b *Builder) Path(elems ...string) *Builder {
	b.err.Path = elems
	return b
}

// GoType sets the Go type name of the offending value
func (b *Builder) GoType(name string) *Builder {
	b.err.GoType = name
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

// ArtifactMissing creates a start error for an unreadable engine artifact
func ArtifactMissing(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseStart,
		Kind:   KindArtifactMissing,
		Detail: fmt.Sprintf("engine artifact not readable at %s", path),
		Cause:  cause,
	}
}

// IncompatibleBinary creates a start error for an artifact the runtime rejects
func IncompatibleBinary(cause error) *Error {
	return &Error{
		Phase: PhaseStart,
		Kind:  KindIncompatibleBinary,
		Cause: cause,
	}
}

// MissingExport creates a start error for an artifact lacking a required export
func MissingExport(name string) *Error {
	return &Error{
		Phase:  PhaseStart,
		Kind:   KindMissingExport,
		Detail: fmt.Sprintf("engine artifact does not export %q", name),
	}
}

// AlreadyStopped creates a start error for a handle that was shut down
func AlreadyStopped() *Error {
	return &Error{
		Phase:  PhaseStart,
		Kind:   KindAlreadyStopped,
		Detail: "embedded environment was stopped and cannot be restarted in this process",
	}
}

// UnsupportedValue creates a serialization error for a value outside the shared model
func UnsupportedValue(path []string, goType string) *Error {
	return &Error{
		Phase:  PhaseSerialize,
		Kind:   KindUnsupportedValue,
		Path:   path,
		GoType: goType,
		Detail: "value is not representable in the configuration model",
	}
}

// EngineTrap creates an invocation error for a failure raised inside the engine
func EngineTrap(cause error) *Error {
	return &Error{
		Phase: PhaseInvoke,
		Kind:  KindEngineTrap,
		Cause: cause,
	}
}

// AllocationFailed creates an invocation error for a guest memory allocation failure
func AllocationFailed(size uint32, cause error) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes in engine memory", size),
		Cause:  cause,
	}
}

// InvalidOutput creates a deserialization error for malformed engine output
func InvalidOutput(cause error) *Error {
	return &Error{
		Phase: PhaseDeserialize,
		Kind:  KindInvalidOutput,
		Cause: cause,
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

// CloseFailed creates a shutdown error
func CloseFailed(cause error) *Error {
	return &Error{
		Phase: PhaseShutdown,
		Kind:  KindCloseFailed,
		Cause: cause,
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

// inPhase reports whether err is (or wraps) a bridge error from the given phase.
func inPhase(err error, phase Phase) bool {
	var e *Error
	if !stderrors.As(err, &e) {
		return false
	}
	return e.Phase == phase
}

// IsStartError reports whether err came from starting the embedded environment.
func IsStartError(err error) bool { return inPhase(err, PhaseStart) }

// IsSerializationError reports whether err came from encoding the configuration.
func IsSerializationError(err error) bool { return inPhase(err, PhaseSerialize) }

// IsInvocationError reports whether err came from the engine call itself.
func IsInvocationError(err error) bool { return inPhase(err, PhaseInvoke) }

// IsDeserializationError reports whether err came from decoding the result.
func IsDeserializationError(err error) bool { return inPhase(err, PhaseDeserialize) }

// IsShutdownError reports whether err came from stopping the embedded environment.
func IsShutdownError(err error) bool { return inPhase(err, PhaseShutdown) }
