package entities

import (
	"fmt"
	"strings"
)

// Default names of the two-function guest ABI.
const (
	DefaultImportModule   = "env"
	ImportFunctionName    = "import_function"
	ExportFunctionName    = "export_function"
	SumFunctionName       = "sum"
	InitializeExportName  = "_initialize"
	DefaultExportArgument = 41
)

// Width is the bit width of the ABI integer, i.e. the guest's pointer width.
type Width int

const (
	Width32 Width = 32
	Width64 Width = 64
)

// Valid reports whether w is a supported width.
func (w Width) Valid() bool {
	return w == Width32 || w == Width64
}

// ValueType returns the WebAssembly value type name for w.
func (w Width) ValueType() string {
	if w == Width64 {
		return "i64"
	}
	return "i32"
}

// Wrap truncates v to the width and sign-extends it back, giving
// two's-complement wraparound.
func (w Width) Wrap(v int64) int64 {
	if w == Width64 {
		return v
	}
	return int64(int32(v)) //nolint:gosec // G115: intentional truncation
}

// ParseWidth parses "32"/"64" (also "i32"/"i64").
func ParseWidth(s string) (Width, error) {
	switch s {
	case "32", "i32":
		return Width32, nil
	case "64", "i64":
		return Width64, nil
	}
	return 0, fmt.Errorf("unsupported width %q: must be 32 or 64", s)
}

// ImportCall is one invocation of the host import observed by the host.
type ImportCall struct {
	Function string `json:"function" yaml:"function"`
	Arg      int64  `json:"arg" yaml:"arg"`
	Result   int64  `json:"result" yaml:"result"`
}

// ExportInfo describes one function exported by a guest module.
type ExportInfo struct {
	Name    string   `json:"name"`
	Params  []string `json:"params"`
	Results []string `json:"results"`
}

// String renders the export as name(params) -> results.
func (e ExportInfo) String() string {
	return fmt.Sprintf("%s(%s) -> (%s)", e.Name, strings.Join(e.Params, ", "), strings.Join(e.Results, ", "))
}
