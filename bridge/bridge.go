package bridge

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	pslruntime "github.com/linqs/psl-runtime-go"
	"github.com/linqs/psl-runtime-go/engine"
	"github.com/linqs/psl-runtime-go/errors"
	"github.com/linqs/psl-runtime-go/value"
)

// State is the runtime handle's lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Factory creates the invoker backing a bridge. Production bridges build
// the wazero-backed engine; tests substitute a stub.
type Factory func(ctx context.Context, options []string) (pslruntime.Invoker, error)

// Bridge owns the process-wide lifecycle of one embedded engine environment
// and exposes the single Run entry point.
//
// The runtime handle moves Uninitialized -> Running exactly once; Running ->
// Stopped is explicit, caller-triggered, and final for this bridge. All
// methods are safe for concurrent use: the state transition is guarded by a
// mutex, and Run proceeds in parallel across goroutines once the
// environment is confirmed running.
type Bridge struct {
	mu           sync.Mutex
	state        State
	invoker      pslruntime.Invoker
	factory      Factory
	artifactPath string
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithArtifactPath overrides the default engine artifact location
// (next to the executable).
func WithArtifactPath(path string) Option {
	return func(b *Bridge) { b.artifactPath = path }
}

// WithFactory substitutes the invoker construction, decoupling the bridge's
// lifecycle logic from the real embedded-runtime startup.
func WithFactory(f Factory) Option {
	return func(b *Bridge) { b.factory = f }
}

// New creates a bridge in the Uninitialized state. Nothing is started until
// EnsureStarted or the first Run.
func New(opts ...Option) *Bridge {
	b := &Bridge{}
	for _, opt := range opts {
		opt(b)
	}

	if b.factory == nil {
		b.factory = func(ctx context.Context, options []string) (pslruntime.Invoker, error) {
			return engine.New(ctx, engine.Config{
				ArtifactPath: b.artifactPath,
				Options:      options,
			})
		}
	}
	return b
}

// EnsureStarted starts the embedded environment if it is not running yet.
// The call is idempotent: on an already-running bridge it is a no-op, and
// options passed then are silently ignored since the environment cannot be
// reconfigured once started. After Shutdown it fails with a start error;
// restart is not supported within the same process.
func (b *Bridge) EnsureStarted(ctx context.Context, options ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ensureStartedLocked(ctx, options)
}

func (b *Bridge) ensureStartedLocked(ctx context.Context, options []string) error {
	switch b.state {
	case StateRunning:
		if len(options) > 0 {
			Logger().Debug("ignoring startup options on running environment",
				zap.Strings("options", options))
		}
		return nil
	case StateStopped:
		return errors.AlreadyStopped()
	}

	invoker, err := b.factory(ctx, options)
	if err != nil {
		if isBridgeError(err) {
			return err
		}
		return errors.Wrap(errors.PhaseStart, errors.KindIncompatibleBinary, err, "start embedded environment")
	}

	b.invoker = invoker
	b.state = StateRunning
	Logger().Info("embedded environment started", zap.Strings("options", options))
	return nil
}

// Run executes one inference job: it starts the environment if needed,
// serializes config to the canonical text encoding, invokes the engine's
// entry point with the text and basePath, and deserializes the result.
// The call blocks until the engine returns; there are no partial results.
//
// An empty basePath means the current directory.
func (b *Bridge) Run(ctx context.Context, config any, basePath string, options ...string) (value.Value, error) {
	b.mu.Lock()
	if err := b.ensureStartedLocked(ctx, options); err != nil {
		b.mu.Unlock()
		return nil, err
	}
	invoker := b.invoker
	b.mu.Unlock()

	if basePath == "" {
		basePath = "."
	}

	configText, err := value.Marshal(config)
	if err != nil {
		return nil, err
	}

	resultText, err := invoker.SerializedRun(ctx, configText, basePath)
	if err != nil {
		if isBridgeError(err) {
			return nil, err
		}
		// Engine-internal failures are propagated opaquely.
		return nil, errors.EngineTrap(err)
	}

	return value.Unmarshal(resultText)
}

// Shutdown stops the embedded environment. It is a no-op on a bridge that
// never started or was already stopped. A platform stop failure surfaces as
// a shutdown error; the handle still transitions to Stopped, since no
// further start is attempted either way.
func (b *Bridge) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateRunning {
		return nil
	}

	invoker := b.invoker
	b.invoker = nil
	b.state = StateStopped

	closer, ok := invoker.(interface{ Close(context.Context) error })
	if !ok {
		return nil
	}

	if err := closer.Close(ctx); err != nil {
		if isBridgeError(err) {
			return err
		}
		return errors.CloseFailed(err)
	}

	Logger().Info("embedded environment stopped")
	return nil
}

// State returns the runtime handle's current lifecycle state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func isBridgeError(err error) bool {
	var e *errors.Error
	return stderrors.As(err, &e)
}
