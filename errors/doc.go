// Package errors provides structured error types for the bridge.
//
// Errors are categorized by Phase (which bridge operation failed) and Kind
// (error category). The five phases map one-to-one onto the bridge's error
// classes: start, serialize, invoke, deserialize and shutdown failures.
// Phase-level predicates (IsStartError, IsSerializationError, ...) classify
// any error the module returns.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseSerialize, errors.KindUnsupportedValue).
//		Path("predicates", "weight").
//		GoType("chan int").
//		Detail("value is not representable in the configuration model").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ArtifactMissing(path, cause)
//	err := errors.EngineTrap(cause)
//
// All errors implement the standard error interface and support errors.Is/As.
// The bridge never recovers from an error: every failure propagates to the
// immediate caller unmodified.
package errors
