package pslruntime

import "context"

// Invoker is the call contract with the embedded inference engine.
// The engine exposes exactly one synchronous entry point: it receives the
// JSON-encoded configuration and a base path for resolving config-relative
// resources, and returns the JSON-encoded result.
//
// Production code wires this to the wazero-backed engine package; tests
// substitute a stub.
type Invoker interface {
	SerializedRun(ctx context.Context, configText string, basePath string) (string, error)
}
