// Package engine hosts the pre-built PSL inference engine artifact inside
// an embedded WebAssembly runtime (wazero) and implements the bridge's
// Invoker contract on top of it.
//
// # Artifact ABI
//
// The artifact is a core WebAssembly module with a fixed export surface:
//
//	serialized-run(configPtr: i32, configLen: i32,
//	               basePtr: i32, baseLen: i32) -> i64
//	allocate(size: i32) -> i32
//	deallocate(ptr: i32, size: i32)
//
// Strings cross the boundary as UTF-8 in guest linear memory; the i64
// return packs the result string's pointer (high 32 bits) and length
// (low 32 bits). The engine owns the result buffer until the host frees it
// with deallocate.
//
// # Startup Options
//
// Ordered string options arrive unvalidated from the bridge. The engine
// recognizes "memory-limit-pages=N" and "compilation-cache-dir=PATH";
// everything else is logged at debug level and ignored.
package engine
