package host

import (
	"context"
	"io"
	"log/slog"

	"github.com/hostcall/hostcall/domain/entities"
)

// ImportHandler implements env.import_function on the host. Its result is
// returned to the guest.
type ImportHandler func(ctx context.Context, arg int64) int64

// EchoHandler returns its argument. It is the default import handler.
func EchoHandler(_ context.Context, arg int64) int64 {
	return arg
}

// Option defines a functional option for configuring the Executor.
type Option func(*executorConfig)

type executorConfig struct {
	handler    ImportHandler
	recorder   *Recorder
	logger     *slog.Logger
	stdout     io.Writer
	stderr     io.Writer
	moduleName string
	importName string
	width      entities.Width
}

func defaultExecutorConfig() executorConfig {
	return executorConfig{
		handler:    EchoHandler,
		logger:     slog.Default(),
		moduleName: entities.DefaultImportModule,
		importName: entities.ImportFunctionName,
		width:      entities.Width32,
	}
}

// WithImportHandler sets the function backing env.import_function.
func WithImportHandler(h ImportHandler) Option {
	return func(c *executorConfig) {
		if h != nil {
			c.handler = h
		}
	}
}

// WithRecorder records every import call across all instances of the executor.
func WithRecorder(r *Recorder) Option {
	return func(c *executorConfig) {
		c.recorder = r
	}
}

// WithModuleName sets the host module name the guest imports from (default: "env").
func WithModuleName(name string) Option {
	return func(c *executorConfig) {
		c.moduleName = name
	}
}

// WithImportName sets the imported function name (default: "import_function").
func WithImportName(name string) Option {
	return func(c *executorConfig) {
		c.importName = name
	}
}

// WithWidth selects i32 (default) or i64 for the import signature.
func WithWidth(w entities.Width) Option {
	return func(c *executorConfig) {
		c.width = w
	}
}

// WithLogger sets the logger used for host-side diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *executorConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStdout wires the guest's WASI stdout.
func WithStdout(w io.Writer) Option {
	return func(c *executorConfig) {
		c.stdout = w
	}
}

// WithStderr wires the guest's WASI stderr. Go guests print panics here.
func WithStderr(w io.Writer) Option {
	return func(c *executorConfig) {
		c.stderr = w
	}
}
