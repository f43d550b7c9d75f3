package types

// Section is one ordered unit of extracted document structure. Page is nil
// when the source format has no page concept; it must never be written to
// chunk metadata as a null value.
type Section struct {
	Title   string
	Content string
	Page    *int
}

// Extraction is the output of a document extractor: plain UTF-8 text, the
// ordered section list (may be empty), and document-level metadata.
type Extraction struct {
	Text     string
	Sections []Section
	Metadata Metadata
}
