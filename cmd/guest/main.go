//go:build wasip1

// Command guest is the reactor module exporting export_function and sum.
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o guest.wasm ./cmd/guest
//
// Run:
//
//	hostcall run guest.wasm --export export_function --arg 41
package main

import (
	_ "github.com/hostcall/hostcall/guest" // registers the wasm exports
)

func main() {
	// main is not called in -buildmode=c-shared
}
