//go:build !cgo_sqlite
// +build !cgo_sqlite

package storage

// This file is compiled by default and uses the pure Go SQLite
// implementation. No C compiler required, at the cost of slower
// scans on large collections.
//
// Build command:
//   CGO_ENABLED=0 go build ./...
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
