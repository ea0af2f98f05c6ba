// Package pslruntime is a thin bridge to a separately-built PSL inference
// engine shipped as a WebAssembly artifact.
//
// The bridge owns exactly one responsibility: start the embedded runtime at
// most once per process, hand it a JSON-encoded configuration plus a base
// working path through the engine's single exported entry point, and decode
// the JSON result back into a structured value. All inference, grounding and
// optimization happens inside the engine artifact; nothing in this module
// inspects the configuration or the result beyond (de)serialization.
//
// # Architecture Overview
//
// The module is organized into small packages with distinct responsibilities:
//
//	pslruntime/        Root package with the Invoker call contract
//	├── bridge/        Runtime handle lifecycle and the Run entry point
//	├── engine/        wazero-backed embedded engine implementation
//	├── value/         Closed structured-value model and JSON codec
//	├── configfile/    Configuration file loading (JSON, YAML, TOML)
//	├── server/        Line-delimited JSON task server over TCP
//	├── errors/        Structured error types for debugging
//	└── cmd/pslrun/    Command-line entry point
//
// # Quick Start
//
// Run an inference job from a configuration value:
//
//	b := bridge.New()
//	defer b.Shutdown(ctx)
//
//	result, err := b.Run(ctx, config, ".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result)
//
// The embedded environment is started on the first call and reused for every
// call after it. Shutdown is final: once stopped, the environment cannot be
// started again within the same process.
package pslruntime
