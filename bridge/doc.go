// Package bridge manages the process-wide lifecycle of the embedded
// inference-engine environment and exposes the single Run entry point.
//
// A Bridge holds the runtime handle, a tri-state value:
//
//	Uninitialized ──EnsureStarted──▶ Running ──Shutdown──▶ Stopped
//
// Start happens at most once and is idempotent; stop is explicit and final
// for the process. Restarting a stopped bridge is not supported: embedded
// runtimes commonly forbid restarting within the same process, so the
// bridge fails such attempts deterministically instead of leaking
// platform-dependent behavior.
//
// The engine call itself is behind the Invoker contract, so tests exercise
// the full lifecycle against a stub without touching a real embedded
// runtime.
package bridge
