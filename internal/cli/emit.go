package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hostcall/hostcall/internal/wasmbin"
)

// EmitOptions holds flags for the emit command.
type EmitOptions struct {
	*RootOptions
	Snapshot string
	Output   string
}

// NewEmitCommand creates the emit command.
func NewEmitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EmitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Write a reference guest module",
		Long: `Write a reference guest module without any compiler toolchain.

Snapshots:
  sum        export_function and sum
  increment  export_function only
  command    export_function and an empty _start`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmit(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Snapshot, "snapshot", string(wasmbin.SnapshotSum), "module shape (sum|increment|command)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "reference.wasm", "output file")

	return cmd
}

func runEmit(opts *EmitOptions, cmd *cobra.Command) error {
	snap, err := wasmbin.ParseSnapshot(opts.Snapshot)
	if err != nil {
		return err
	}

	bin := wasmbin.ReferenceSnapshot(snap, opts.Config.ABIWidth()).Encode()
	if err := os.WriteFile(opts.Output, bin, 0o644); err != nil { //nolint:gosec // G306: module files are not secret
		return fmt.Errorf("failed to write module: %w", err)
	}

	opts.Logger.Info("reference module written", "path", opts.Output, "snapshot", snap, "bytes", len(bin))
	return nil
}
