package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hostcall/hostcall/domain/entities"
	"github.com/hostcall/hostcall/host"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Export string
	Args   []int64
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <module.wasm>",
		Short: "Call one export and print its result and import calls",
		Long: `Call one export of a guest module.

Example:
  hostcall run guest.wasm --export export_function --arg 41`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Export, "export", "E", entities.ExportFunctionName, "export to call")
	cmd.Flags().Int64SliceVar(&opts.Args, "arg", []int64{entities.DefaultExportArgument}, "integer argument (repeatable)")

	return cmd
}

func runExport(opts *RunOptions, path string, cmd *cobra.Command) error {
	ctx := cmd.Context()

	executor, err := host.NewExecutor(ctx, opts.executorOptions(cmd)...)
	if err != nil {
		return err
	}
	defer func() { _ = executor.Close(ctx) }()

	inst, err := executor.LoadFile(ctx, path)
	if err != nil {
		return err
	}

	inv, err := inst.Invoke(ctx, opts.Export, opts.Args...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(inv)
	}

	vt := opts.Config.ABIWidth().ValueType()
	for _, r := range inv.Results {
		if _, err := fmt.Fprintf(out, "export result %s %d\n", vt, r); err != nil {
			return err
		}
	}
	for _, c := range inv.Imports {
		if _, err := fmt.Fprintf(out, "import %s(%d) -> %d\n", c.Function, c.Arg, c.Result); err != nil {
			return err
		}
	}
	return nil
}
