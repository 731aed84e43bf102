//go:build !wasip1

package guest

// HostImporter stub for native builds.
type HostImporter struct{}

// ImportFunction panics because the host import only exists under wasip1.
func (HostImporter) ImportFunction(int32) int32 {
	panic("guest: env.import_function is not available in a native build. Pass an ImporterFunc instead.")
}
