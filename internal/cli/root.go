// Package cli implements the hostcall command line.
package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/hostcall/hostcall/config"
	"github.com/hostcall/hostcall/domain/entities"
	domainerrors "github.com/hostcall/hostcall/domain/errors"
	"github.com/hostcall/hostcall/host"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"
	LogLevel   string
	LogFormat  string
	ModuleName string
	Width      string

	// Config is resolved in PersistentPreRunE from the file and the flags.
	Config config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the hostcall CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "hostcall",
		Short: "Host runner for two-function WebAssembly guests",
		Long: `hostcall loads a WebAssembly guest, supplies env.import_function
and calls its exports, recording every import call.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format (text|json)")
	cmd.PersistentFlags().StringVar(&opts.ModuleName, "module-name", "", "host module the guest imports from")
	cmd.PersistentFlags().StringVar(&opts.Width, "width", "", "ABI integer width (32|64, also i32|i64)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewEmitCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))

	return cmd
}

// resolve loads the config file and applies flags that were set explicitly.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = o.LogLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = o.LogFormat
	}
	if flags.Changed("module-name") {
		cfg.ModuleName = o.ModuleName
	}
	if flags.Changed("width") {
		w, err := entities.ParseWidth(o.Width)
		if err != nil {
			return &domainerrors.ConfigError{Field: "width", Err: err}
		}
		cfg.Width = int(w)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	o.Config = cfg
	o.Logger = cfg.Logger(cmd.ErrOrStderr())
	slog.SetDefault(o.Logger)
	return nil
}

// executorOptions translates the resolved config into host options.
func (o *RootOptions) executorOptions(cmd *cobra.Command) []host.Option {
	return []host.Option{
		host.WithModuleName(o.Config.ModuleName),
		host.WithImportName(o.Config.ImportName),
		host.WithWidth(o.Config.ABIWidth()),
		host.WithLogger(o.Logger),
		host.WithStdout(cmd.OutOrStdout()),
		host.WithStderr(cmd.ErrOrStderr()),
	}
}
