// Package host provides the runtime environment for executing guest modules
// that speak the two-function ABI.
//
// It abstracts the underlying WASM engine (wazero), supplies the
// env.import_function import, records every import call and exposes typed
// wrappers around the export_function and sum exports. WASI preview1 is
// instantiated so Go wasip1 reactors load unchanged.
package host
