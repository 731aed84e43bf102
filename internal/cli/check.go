package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hostcall/hostcall/host"
	"github.com/hostcall/hostcall/smoke"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	SuitePath string
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <module.wasm>",
		Short: "Run a smoke suite against a guest module",
		Long: `Run a smoke suite against a guest module.

Without --suite the built-in suite for the configured width is used: it
asserts export_function(i) == i+1 with exactly one import call of i*2,
and sum(x, y) == x+y, including the wraparound boundaries.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.SuitePath, "suite", "", "YAML suite file (default: built-in suite)")

	return cmd
}

func runCheck(opts *CheckOptions, path string, cmd *cobra.Command) error {
	ctx := cmd.Context()

	suite := smoke.DefaultSuite(opts.Config.ABIWidth())
	if opts.SuitePath != "" {
		var err error
		suite, err = smoke.Load(opts.SuitePath)
		if err != nil {
			return err
		}
		if suite.Width != 0 && suite.Width != opts.Config.Width {
			return fmt.Errorf("suite %q targets width %d but the host is configured for %d", suite.Name, suite.Width, opts.Config.Width)
		}
	}

	executor, err := host.NewExecutor(ctx, opts.executorOptions(cmd)...)
	if err != nil {
		return err
	}
	defer func() { _ = executor.Close(ctx) }()

	inst, err := executor.LoadFile(ctx, path)
	if err != nil {
		return err
	}

	report := smoke.NewRunner(smoke.WithLogger(opts.Logger)).Run(ctx, inst, suite)

	if opts.Format == "json" {
		err = report.WriteJSON(cmd.OutOrStdout())
	} else {
		err = report.WriteText(cmd.OutOrStdout())
	}
	if err != nil {
		return err
	}

	if !report.OK() {
		return fmt.Errorf("%d case(s) failed", report.Failed)
	}
	return nil
}
