// Package placeholder finds "%key%" externalization references inside a manifest.
//
// Only a key occupying the whole JSON string value is recognised, e.g.
//
//	"description": "%ext.description%"
//
// Partial text ("Plain text %some.key%") and keys with spaces are not
// externalizations, so they are never matched.
package placeholder

import (
	"regexp"
	"strings"

	"github.com/walteh/nlsls/pkg/position"
)

var (
	// FullTokenPattern matches a complete placeholder, quotes included.
	FullTokenPattern = regexp.MustCompile(`"%[a-zA-Z0-9.\-]+%"`)
	// PartialTokenPattern matches a placeholder that is still being typed.
	PartialTokenPattern = regexp.MustCompile(`"%[a-zA-Z0-9.\-]*`)
)

const (
	tokenPrefix = `"%`
	tokenSuffix = `%"`
)

// Token is a complete placeholder found in a manifest.
type Token struct {
	// Text is the matched text including the surrounding quotes and percent signs
	Text string
	// Key is Text with the leading `"%` and trailing `%"` removed
	Key string
	// Offset is the byte offset of Text in the manifest
	Offset int
}

func (t Token) Position() position.RawPosition {
	return position.NewBasicPosition(t.Text, t.Offset)
}

// Partial is a placeholder prefix found in a JSON value position.
type Partial struct {
	// Text is the matched text starting at the opening quote
	Text string
	// Prefix is the key typed so far
	Prefix string
	// Offset is the byte offset of Text in the manifest
	Offset int
	// ColonIndex is the index of the last ':' on the line, relative to the line start
	ColonIndex int
}

func (p Partial) Position() position.RawPosition {
	return position.NewBasicPosition(p.Text, p.Offset)
}

// MatchFullToken reports the placeholder touching offset, if any.
func MatchFullToken(text string, offset int) (Token, bool) {
	word, ok := position.WordRangeAtOffset(text, offset, FullTokenPattern)
	if !ok {
		return Token{}, false
	}
	return newToken(word.Text, word.Offset)
}

func newToken(word string, offset int) (Token, bool) {
	// the pattern already guarantees this shape, but a looser word range must never slip through
	if len(word) <= len(tokenPrefix)+len(tokenSuffix) || !strings.HasPrefix(word, tokenPrefix) || !strings.HasSuffix(word, tokenSuffix) {
		return Token{}, false
	}
	return Token{
		Text:   word,
		Key:    word[len(tokenPrefix) : len(word)-len(tokenSuffix)],
		Offset: offset,
	}, true
}

// MatchPartialToken reports the in-progress placeholder touching offset. It
// only matches in a JSON value position: a ':' has to appear on the line
// before the cursor, so the manifest's own keys never complete.
func MatchPartialToken(text string, offset int) (Partial, bool) {
	word, ok := position.WordRangeAtOffset(text, offset, PartialTokenPattern)
	if !ok {
		return Partial{}, false
	}

	line, lineStart := position.LineAt(text, offset)
	colonIndex := strings.LastIndexByte(line, ':')
	if colonIndex < 0 || colonIndex >= offset-lineStart {
		return Partial{}, false
	}

	if len(word.Text) < len(tokenPrefix) || !strings.HasPrefix(word.Text, tokenPrefix) {
		return Partial{}, false
	}

	prefix := strings.TrimSuffix(word.Text[len(tokenPrefix):], `"`)

	return Partial{
		Text:       word.Text,
		Prefix:     prefix,
		Offset:     word.Offset,
		ColonIndex: colonIndex,
	}, true
}

// FindAll returns every complete placeholder in text, in document order.
func FindAll(text string) []Token {
	var tokens []Token
	for _, loc := range FullTokenPattern.FindAllStringIndex(text, -1) {
		if tok, ok := newToken(text[loc[0]:loc[1]], loc[0]); ok {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Manifest is a manifest document as seen by a single request: its path on
// disk and its current text, which may be an unsaved editor buffer.
type Manifest struct {
	Path string
	Text string
}
