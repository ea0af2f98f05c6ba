package engine

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	pslruntime "github.com/linqs/psl-runtime-go"
	"github.com/linqs/psl-runtime-go/errors"
)

// ArtifactName is the file name of the bundled engine artifact, expected
// next to the installed executable.
const ArtifactName = "psl-runtime.wasm"

// Export names of the engine artifact's fixed ABI.
const (
	runExport   = "serialized-run"
	allocExport = "allocate"
	freeExport  = "deallocate"

	legacyAlloc = "alloc"
	legacyFree  = "free"
)

// Config holds configuration for engine creation
type Config struct {
	// ArtifactPath overrides the default artifact location.
	// Empty means DefaultArtifactPath().
	ArtifactPath string

	// Options are ordered startup options, forwarded without validation.
	// Recognized: "memory-limit-pages=N", "compilation-cache-dir=PATH".
	// Unrecognized options are logged and ignored.
	Options []string

	// Stderr receives the engine's diagnostic output. Nil means os.Stderr.
	Stderr io.Writer
}

// Engine hosts the pre-built inference engine artifact inside an embedded
// WebAssembly runtime and exposes its single exported entry point.
//
// Invocations are serialized with an internal mutex; the instance's linear
// memory and allocator are not safe for concurrent calls.
type Engine struct {
	runtime wazero.Runtime
	module  api.Module
	runFn   api.Function
	allocFn api.Function
	freeFn  api.Function
	stack   []uint64
	callMu  sync.Mutex
}

// DefaultArtifactPath resolves the bundled artifact next to the running
// executable, mirroring how the artifact is co-located at install time.
func DefaultArtifactPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(exe), ArtifactName), nil
}

// New starts an embedded runtime hosting the engine artifact.
// Every failure is an error in the start phase: unreadable artifact,
// a binary the runtime rejects, or an artifact without the fixed exports.
func New(ctx context.Context, cfg Config) (*Engine, error) {
	path := cfg.ArtifactPath
	if path == "" {
		var err error
		path, err = DefaultArtifactPath()
		if err != nil {
			return nil, errors.ArtifactMissing(ArtifactName, err)
		}
	}

	artifact, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ArtifactMissing(path, err)
	}

	runtimeCfg, err := runtimeConfig(cfg.Options)
	if err != nil {
		return nil, err
	}

	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	e, err := instantiate(ctx, r, artifact, cfg)
	if err != nil {
		r.Close(ctx)
		return nil, err
	}

	Logger().Info("engine started",
		zap.String("artifact", path),
		zap.Strings("options", cfg.Options))
	return e, nil
}

func instantiate(ctx context.Context, r wazero.Runtime, artifact []byte, cfg Config) (*Engine, error) {
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		return nil, errors.IncompatibleBinary(err)
	}

	compiled, err := r.CompileModule(ctx, artifact)
	if err != nil {
		return nil, errors.IncompatibleBinary(err)
	}

	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	// The engine resolves basePath against the host filesystem itself, so
	// the guest sees the host root. Engine stdout is discarded: results
	// travel through serialized-run, not through standard streams.
	modConfig := wazero.NewModuleConfig().
		WithName("psl-runtime").
		WithStderr(stderr).
		WithFSConfig(wazero.NewFSConfig().WithDirMount("/", "/")).
		WithSysWalltime().
		WithSysNanotime()

	module, err := r.InstantiateModule(ctx, compiled, modConfig)
	if err != nil {
		return nil, errors.IncompatibleBinary(err)
	}

	runFn := module.ExportedFunction(runExport)
	if runFn == nil {
		return nil, errors.MissingExport(runExport)
	}

	allocFn := module.ExportedFunction(allocExport)
	if allocFn == nil {
		allocFn = module.ExportedFunction(legacyAlloc)
	}
	if allocFn == nil {
		return nil, errors.MissingExport(allocExport)
	}

	freeFn := module.ExportedFunction(freeExport)
	if freeFn == nil {
		freeFn = module.ExportedFunction(legacyFree)
	}
	if freeFn == nil {
		return nil, errors.MissingExport(freeExport)
	}

	return &Engine{
		runtime: r,
		module:  module,
		runFn:   runFn,
		allocFn: allocFn,
		freeFn:  freeFn,
		stack:   make([]uint64, 4),
	}, nil
}

// SerializedRun invokes the engine's exported entry point with the
// JSON-encoded configuration and a base path, and returns the engine's
// JSON-encoded result text.
func (e *Engine) SerializedRun(ctx context.Context, configText string, basePath string) (string, error) {
	e.callMu.Lock()
	defer e.callMu.Unlock()

	configPtr, err := e.writeString(ctx, configText)
	if err != nil {
		return "", err
	}
	defer e.free(ctx, configPtr, uint32(len(configText)))

	basePtr, err := e.writeString(ctx, basePath)
	if err != nil {
		return "", err
	}
	defer e.free(ctx, basePtr, uint32(len(basePath)))

	e.stack[0] = uint64(configPtr)
	e.stack[1] = uint64(len(configText))
	e.stack[2] = uint64(basePtr)
	e.stack[3] = uint64(len(basePath))
	if err := e.runFn.CallWithStack(ctx, e.stack); err != nil {
		return "", errors.EngineTrap(err)
	}

	// The entry point returns a packed pointer/length pair for the result
	// string in guest memory: high 32 bits pointer, low 32 bits length.
	resultPtr := uint32(e.stack[0] >> 32)
	resultLen := uint32(e.stack[0])

	result, err := e.readString(resultPtr, resultLen)
	if err != nil {
		return "", err
	}
	e.free(ctx, resultPtr, resultLen)

	return result, nil
}

// writeString allocates guest memory and copies s into it.
// Empty strings use a null pointer with zero length.
func (e *Engine) writeString(ctx context.Context, s string) (uint32, error) {
	if len(s) == 0 {
		return 0, nil
	}

	e.stack[0] = uint64(len(s))
	if err := e.allocFn.CallWithStack(ctx, e.stack[:1]); err != nil {
		return 0, errors.AllocationFailed(uint32(len(s)), err)
	}
	ptr := uint32(e.stack[0])
	if ptr == 0 {
		return 0, errors.AllocationFailed(uint32(len(s)), nil)
	}

	if !e.module.Memory().Write(ptr, []byte(s)) {
		return 0, errors.New(errors.PhaseInvoke, errors.KindInvalidData).
			Detail("write out of bounds: ptr=%d, len=%d", ptr, len(s)).
			Build()
	}
	return ptr, nil
}

// readString copies a guest-memory string into the Go heap.
func (e *Engine) readString(ptr, length uint32) (string, error) {
	if length == 0 {
		return "", nil
	}

	data, ok := e.module.Memory().Read(ptr, length)
	if !ok {
		return "", errors.New(errors.PhaseInvoke, errors.KindInvalidData).
			Detail("result out of bounds: ptr=%d, len=%d", ptr, length).
			Build()
	}
	return string(data), nil
}

func (e *Engine) free(ctx context.Context, ptr, size uint32) {
	if ptr == 0 {
		return
	}

	e.stack[0] = uint64(ptr)
	e.stack[1] = uint64(size)
	if err := e.freeFn.CallWithStack(ctx, e.stack[:2]); err != nil {
		Logger().Warn("failed to free engine memory",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

// Close stops the embedded runtime. The engine must not be used afterwards.
func (e *Engine) Close(ctx context.Context) error {
	if err := e.runtime.Close(ctx); err != nil {
		return errors.CloseFailed(err)
	}
	return nil
}

// runtimeConfig translates ordered startup options into a wazero runtime
// configuration. Options are forwarded as-is by the bridge; the engine is
// the first place they are interpreted, and unrecognized ones are ignored.
func runtimeConfig(options []string) (wazero.RuntimeConfig, error) {
	cfg := wazero.NewRuntimeConfig()

	for _, opt := range options {
		key, val, _ := strings.Cut(opt, "=")
		switch key {
		case "memory-limit-pages":
			pages, err := strconv.ParseUint(val, 10, 32)
			if err != nil {
				Logger().Debug("ignoring malformed startup option", zap.String("option", opt))
				continue
			}
			cfg = cfg.WithMemoryLimitPages(uint32(pages))
		case "compilation-cache-dir":
			cache, err := wazero.NewCompilationCacheWithDir(val)
			if err != nil {
				return nil, errors.Wrap(errors.PhaseStart, errors.KindIncompatibleBinary, err, "create compilation cache")
			}
			cfg = cfg.WithCompilationCache(cache)
		default:
			Logger().Debug("ignoring unrecognized startup option", zap.String("option", opt))
		}
	}

	return cfg, nil
}

// Compile-time check that Engine implements the Invoker contract
var _ pslruntime.Invoker = (*Engine)(nil)
