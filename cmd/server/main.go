// Package main implements the asahi server binary: the HTTP API over the
// learning progression engine, the migration runner and a token issuer for
// local use.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
