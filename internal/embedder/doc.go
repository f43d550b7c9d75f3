// Package embedder converts text into fixed-dimension dense vectors via
// pluggable providers (Jina AI, OpenAI, or a deterministic local stub).
//
// Embedding requests carry an input kind: documents and queries may be
// transformed differently by the provider (Jina uses retrieval task
// types, the local stub applies a query prefix). Vectors produced by one
// provider instance share dimensionality, which the ingestion pipeline
// relies on per collection.
//
// Providers retry transient API failures with exponential backoff and
// share an optional LRU cache keyed by content hash.
package embedder
