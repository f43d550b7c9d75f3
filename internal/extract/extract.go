// Package extract turns raw document bytes into text and ordered
// sections. Plaintext and markdown are supported; markdown heading
// lines become section boundaries so the chunker can work
// structure-aware.
package extract

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docfusion/docfusion/pkg/types"
)

// Extractor converts raw bytes into an Extraction.
type Extractor interface {
	Extract(data []byte, filename string) (*types.Extraction, error)
}

// TextExtractor handles .txt, .text, .md and .markdown files.
type TextExtractor struct{}

// New creates the default extractor.
func New() *TextExtractor {
	return &TextExtractor{}
}

func (e *TextExtractor) Extract(data []byte, filename string) (*types.Extraction, error) {
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s", types.ErrEmptyDocument, filename)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".text":
		return &types.Extraction{
			Text: text,
			Metadata: types.Metadata{
				"filename": filepath.Base(filename),
				"format":   "plaintext",
			},
		}, nil
	case ".md", ".markdown":
		return &types.Extraction{
			Text:     text,
			Sections: splitMarkdownSections(text),
			Metadata: types.Metadata{
				"filename": filepath.Base(filename),
				"format":   "markdown",
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedFormat, ext)
	}
}

// splitMarkdownSections breaks markdown into sections at heading lines.
// Content before the first heading becomes an untitled leading section.
func splitMarkdownSections(text string) []types.Section {
	var sections []types.Section
	var title string
	var body strings.Builder

	flush := func() {
		content := strings.TrimSpace(body.String())
		if title != "" || content != "" {
			sections = append(sections, types.Section{Title: title, Content: content})
		}
		body.Reset()
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if heading, ok := parseHeading(line); ok {
			flush()
			title = heading
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}
	flush()

	return sections
}

// parseHeading returns the title of an ATX heading line (# through ######).
func parseHeading(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return "", false
	}
	rest := trimmed[level:]
	if rest != "" && !strings.HasPrefix(rest, " ") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimRight(rest, "#")), true
}
