package host

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/hostcall/hostcall/domain/entities"
	domainerrors "github.com/hostcall/hostcall/domain/errors"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Executor owns a wazero runtime with the host import registered.
// Guests loaded into the same Executor share the import and its recorder.
type Executor struct {
	runtime wazero.Runtime
	config  executorConfig
	seq     atomic.Uint64
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(ctx context.Context, opts ...Option) (*Executor, error) {
	cfg := defaultExecutorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if !cfg.width.Valid() {
		return nil, &domainerrors.ConfigError{Field: "width", Err: fmt.Errorf("unsupported width %d", cfg.width)}
	}
	if cfg.moduleName == "" {
		return nil, &domainerrors.ConfigError{Field: "module_name", Err: fmt.Errorf("must not be empty")}
	}
	if cfg.importName == "" {
		return nil, &domainerrors.ConfigError{Field: "import_name", Err: fmt.Errorf("must not be empty")}
	}

	rt := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)

	e := &Executor{runtime: rt, config: cfg}
	if err := e.registerImports(ctx); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to register host functions: %w", err)
	}

	return e, nil
}

// Close releases resources held by the executor, including all instances.
func (e *Executor) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Width returns the ABI width the import was registered with.
func (e *Executor) Width() entities.Width {
	return e.config.width
}

// Load compiles and instantiates a guest module.
func (e *Executor) Load(ctx context.Context, wasmBytes []byte) (*Instance, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to compile module: %w", err)
	}

	name := fmt.Sprintf("guest-%d", e.seq.Add(1))
	modCfg := wazero.NewModuleConfig().WithName(name)
	if e.config.stdout != nil {
		modCfg = modCfg.WithStdout(e.config.stdout)
	}
	if e.config.stderr != nil {
		modCfg = modCfg.WithStderr(e.config.stderr)
	}

	mod, err := e.runtime.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		_ = compiled.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate module: %w", err)
	}

	// Go wasip1 reactors (-buildmode=c-shared) must be initialized before any export runs.
	if init := mod.ExportedFunction(entities.InitializeExportName); init != nil {
		if _, err := init.Call(ctx); err != nil {
			_ = mod.Close(ctx)
			_ = compiled.Close(ctx)
			return nil, fmt.Errorf("failed to call %s: %w", entities.InitializeExportName, err)
		}
	}

	e.config.logger.DebugContext(ctx, "host: guest loaded", "module", name, "exports", len(compiled.ExportedFunctions()))

	return &Instance{
		module:   mod,
		compiled: compiled,
		name:     name,
	}, nil
}

// LoadFile reads a .wasm file and loads it.
func (e *Executor) LoadFile(ctx context.Context, path string) (*Instance, error) {
	wasmBytes, err := os.ReadFile(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read module: %w", err)
	}
	return e.Load(ctx, wasmBytes)
}
