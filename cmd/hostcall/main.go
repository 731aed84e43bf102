// Command hostcall runs two-function WebAssembly guests under wazero.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hostcall/hostcall/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
