// Package guest implements the guest side of the two-function ABI.
//
// The arithmetic lives here behind the Importer port so it can be tested
// natively. Under GOOS=wasip1 the package also binds env.import_function
// and exports export_function and sum; link it into a reactor with a blank
// import (see cmd/guest).
//
// All arithmetic is on int32, the pointer width of wasip1/wasm, and wraps
// on overflow exactly like the i32 instructions it compiles to.
package guest

// Importer is the function the host supplies to the guest.
type Importer interface {
	ImportFunction(i int32) int32
}

// ImporterFunc adapts an ordinary function to Importer.
type ImporterFunc func(i int32) int32

// ImportFunction calls f(i).
func (f ImporterFunc) ImportFunction(i int32) int32 {
	return f(i)
}

// ExportFunction calls the import exactly once with i*2, discards its
// result, and returns i+1.
func ExportFunction(imp Importer, i int32) int32 {
	imp.ImportFunction(i * 2)
	return i + 1
}

// Sum returns x+y.
func Sum(x, y int32) int32 {
	return x + y
}
