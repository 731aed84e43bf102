// Package entities contains the value types shared by the host runtime,
// the smoke suites and the CLI: the ABI width, observed import calls,
// export descriptions and structured error details.
package entities
