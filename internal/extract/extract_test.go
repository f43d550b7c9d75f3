package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfusion/docfusion/pkg/types"
)

func TestExtract_Plaintext(t *testing.T) {
	e := New()

	got, err := e.Extract([]byte("hello world"), "notes.txt")
	require.NoError(t, err)

	assert.Equal(t, "hello world", got.Text)
	assert.Empty(t, got.Sections)
	assert.Equal(t, "plaintext", got.Metadata["format"])
	assert.Equal(t, "notes.txt", got.Metadata["filename"])
}

func TestExtract_Markdown(t *testing.T) {
	e := New()
	doc := "preamble text\n\n# Intro\n\nfirst section\n\n## Details\n\nsecond section\n"

	got, err := e.Extract([]byte(doc), "doc.md")
	require.NoError(t, err)

	require.Len(t, got.Sections, 3)
	assert.Equal(t, "", got.Sections[0].Title)
	assert.Equal(t, "preamble text", got.Sections[0].Content)
	assert.Equal(t, "Intro", got.Sections[1].Title)
	assert.Equal(t, "first section", got.Sections[1].Content)
	assert.Equal(t, "Details", got.Sections[2].Title)
	assert.Equal(t, "markdown", got.Metadata["format"])
}

func TestExtract_MarkdownNoPreamble(t *testing.T) {
	e := New()

	got, err := e.Extract([]byte("# Only\n\nbody\n"), "doc.md")
	require.NoError(t, err)

	require.Len(t, got.Sections, 1)
	assert.Equal(t, "Only", got.Sections[0].Title)
	assert.Equal(t, "body", got.Sections[0].Content)
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	e := New()

	_, err := e.Extract([]byte("%PDF-1.4"), "doc.pdf")
	assert.ErrorIs(t, err, types.ErrUnsupportedFormat)
}

func TestExtract_EmptyDocument(t *testing.T) {
	e := New()

	_, err := e.Extract([]byte("   \n\t"), "blank.txt")
	assert.ErrorIs(t, err, types.ErrEmptyDocument)
}

func TestParseHeading(t *testing.T) {
	title, ok := parseHeading("## Closing Marks ##")
	require.True(t, ok)
	assert.Equal(t, "Closing Marks", title)

	_, ok = parseHeading("#not-a-heading")
	assert.False(t, ok)

	_, ok = parseHeading("plain line")
	assert.False(t, ok)

	_, ok = parseHeading("####### too deep")
	assert.False(t, ok)
}
