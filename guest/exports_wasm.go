//go:build wasip1

package guest

//go:wasmimport env import_function
//nolint:revive // intentional snake_case to match WASM import convention
func host_import_function(i int32) int32

// HostImporter calls env.import_function on the host.
type HostImporter struct{}

// ImportFunction implements Importer.
func (HostImporter) ImportFunction(i int32) int32 {
	return host_import_function(i)
}

//go:wasmexport export_function
func exportFunction(i int32) int32 {
	return ExportFunction(HostImporter{}, i)
}

//go:wasmexport sum
func sum(x, y int32) int32 {
	return Sum(x, y)
}
