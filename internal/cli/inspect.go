package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hostcall/hostcall/host"
	"github.com/hostcall/hostcall/smoke"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <module.wasm>",
		Short: "List the functions a guest module exports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			executor, err := host.NewExecutor(ctx, rootOpts.executorOptions(cmd)...)
			if err != nil {
				return err
			}
			defer func() { _ = executor.Close(ctx) }()

			inst, err := executor.LoadFile(ctx, args[0])
			if err != nil {
				return err
			}

			exports := inst.Exports()
			if rootOpts.Format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(exports)
			}
			for _, e := range exports {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), e.String()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of smoke suite files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := smoke.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
