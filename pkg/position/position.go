package position

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Place is a zero-based line and character pair. Characters are counted in
// UTF-16 code units, which is how LSP clients address text.
type Place struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type Range struct {
	Start Place `json:"start"`
	End   Place `json:"end"`
}

// RawPosition represents a position in the source text
type RawPosition struct {
	// Offset is the byte offset in the source text
	Offset int `json:"offset"`
	// Text is the actual text at this position
	Text string `json:"text"`
}

// ID returns a unique identifier for this position based on offset and text
func (p *RawPosition) ID() string {
	return fmt.Sprintf("%s@%d", p.Text, p.Offset)
}

// Length returns the length of the text at this position
func (p RawPosition) Length() int {
	return len(p.Text)
}

func NewBasicPosition(text string, offset int) RawPosition {
	return RawPosition{Text: text, Offset: offset}
}

// NewRawPositionFromLineAndColumn converts an LSP line/character pair into a byte offset in fileText.
func NewRawPositionFromLineAndColumn(line, col int, text, fileText string) RawPosition {
	return RawPosition{Text: text, Offset: OffsetAt(fileText, Place{Line: line, Character: col})}
}

// HasRangeOverlapWith reports whether p and start share any offset. A zero
// length position overlaps a range it touches at either end.
func (p RawPosition) HasRangeOverlapWith(start RawPosition) bool {
	startOffset := start.Offset
	endOffset := startOffset + start.Length()

	posOffset := p.Offset
	posEndOffset := posOffset + p.Length()

	// a zero-length position overlaps if it falls within the other range
	if p.Length() == 0 {
		return posOffset >= startOffset && posOffset <= endOffset
	}
	if start.Length() == 0 {
		return startOffset >= posOffset && startOffset <= posEndOffset
	}

	return startOffset < posEndOffset && endOffset > posOffset
}

func (p RawPosition) GetEndPosition() RawPosition {
	return RawPosition{
		Text:   "",
		Offset: p.Offset + p.Length(),
	}
}

// GetRange calculates the line/character range covered by the position
func (p RawPosition) GetRange(fileText string) Range {
	return Range{
		Start: PlaceAt(fileText, p.Offset),
		End:   PlaceAt(fileText, p.GetEndPosition().Offset),
	}
}

func (p RawPosition) String() string {
	return fmt.Sprintf("%s@%d", p.Text, p.Offset)
}

func clamp(text string, offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(text) {
		return len(text)
	}
	return offset
}

// LineAt returns the text of the line containing offset (without its line
// terminator) and the byte offset where that line starts.
func LineAt(text string, offset int) (line string, lineStart int) {
	offset = clamp(text, offset)
	lineStart = strings.LastIndexByte(text[:offset], '\n') + 1
	lineEnd := strings.IndexByte(text[lineStart:], '\n')
	if lineEnd < 0 {
		line = text[lineStart:]
	} else {
		line = text[lineStart : lineStart+lineEnd]
	}
	return strings.TrimSuffix(line, "\r"), lineStart
}

// OffsetAt converts a line/character place into a byte offset. Characters past
// the end of a line clamp to the end of that line, lines past the end of the
// text clamp to the end of the text.
func OffsetAt(text string, place Place) int {
	lineStart := 0
	for i := 0; i < place.Line; i++ {
		next := strings.IndexByte(text[lineStart:], '\n')
		if next < 0 {
			return len(text)
		}
		lineStart += next + 1
	}

	line, _ := LineAt(text, lineStart)

	units := 0
	for i, r := range line {
		if units >= place.Character {
			return lineStart + i
		}
		units += utf16Len(r)
	}
	return lineStart + len(line)
}

// PlaceAt converts a byte offset into a line/character place.
func PlaceAt(text string, offset int) Place {
	offset = clamp(text, offset)
	line := strings.Count(text[:offset], "\n")
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1

	units := 0
	for _, r := range text[lineStart:offset] {
		units += utf16Len(r)
	}
	return Place{Line: line, Character: units}
}

func utf16Len(r rune) int {
	if r == utf8.RuneError {
		return 1
	}
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

// WordRangeAtOffset finds the first match of pattern on the line containing
// offset whose span touches offset (start <= offset <= end). Matches never
// cross line boundaries.
func WordRangeAtOffset(text string, offset int, pattern *regexp.Regexp) (RawPosition, bool) {
	line, lineStart := LineAt(text, offset)
	cursor := NewBasicPosition("", clamp(text, offset))

	for _, loc := range pattern.FindAllStringIndex(line, -1) {
		if loc[0] == loc[1] {
			continue
		}
		word := RawPosition{Offset: lineStart + loc[0], Text: line[loc[0]:loc[1]]}
		if cursor.HasRangeOverlapWith(word) {
			return word, true
		}
	}
	return RawPosition{}, false
}
