// Package storage persists the dense and sparse indices in a single
// SQLite database. The dense side keeps embeddings as little-endian
// float32 blobs and scans them with Go cosine math; the sparse side is
// an FTS5 virtual table over chunk text and keywords, kept in sync by
// triggers.
//
// Two drivers are supported via build tags: modernc.org/sqlite by
// default (no C toolchain needed) and mattn/go-sqlite3 with the cgo
// tag for faster production builds.
package storage
