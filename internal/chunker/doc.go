// Package chunker splits extracted document text into bounded,
// semantically coherent chunks for embedding and search.
//
// Two modes are supported:
//
//   - Structure-aware: when the extractor supplies a section list, each
//     section is chunked independently with its title prepended as a
//     heading line. Chunk ids encode document, section index and position
//     ("{doc}_{section}_{position}") so re-ingesting the same document
//     produces the same ids.
//   - Flat: without sections, the whole text is split at sentence
//     boundaries into chunks targeting a token budget, with a configured
//     overlap carried from the tail of each chunk into the head of the
//     next.
//
// Token counts use the chars/4 heuristic from pkg/types; this is an
// approximation, stated rather than hidden. Empty or whitespace-only
// input yields an empty chunk list, not an error.
package chunker
