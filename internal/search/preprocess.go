package search

import (
	"strings"
	"unicode"
)

// defaultAbbreviations expands common shorthand so lexical search also
// matches the spelled-out form. Expansion keeps the original token and
// ORs in the long form.
var defaultAbbreviations = map[string]string{
	"ai":  "artificial intelligence",
	"ml":  "machine learning",
	"nlp": "natural language processing",
	"db":  "database",
	"api": "application programming interface",
	"os":  "operating system",
	"ui":  "user interface",
	"cpu": "central processing unit",
}

// preprocessQuery cleans a raw query for the lexical index: characters
// outside word characters, whitespace, and quotes are dropped, then
// known abbreviations are OR-expanded. Returns "" when nothing
// searchable remains.
func preprocessQuery(query string, abbreviations map[string]string) string {
	cleaned := stripQueryChars(query)

	tokens := strings.Fields(cleaned)
	if len(tokens) == 0 {
		return ""
	}

	out := make([]string, len(tokens))
	for i, tok := range tokens {
		if long, ok := abbreviations[strings.ToLower(tok)]; ok {
			out[i] = "(" + tok + " OR " + long + ")"
			continue
		}
		out[i] = tok
	}
	return strings.Join(out, " ")
}

// stripQueryChars keeps word characters, whitespace, and quotes,
// replacing everything else with a space.
func stripQueryChars(query string) string {
	var b strings.Builder
	b.Grow(len(query))
	for _, r := range query {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '\'' || r == '"':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return b.String()
}
