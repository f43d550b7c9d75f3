// Package types defines the shared data model for the docfusion retrieval
// core: chunks, scalar metadata, search requests and scored results, plus
// the error taxonomy used across the ingestion and search pipelines.
//
// The package depends only on the standard library so that both the core
// packages under internal/ and hosting code can share it freely.
package types
