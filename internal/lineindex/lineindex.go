// Package lineindex maps byte offsets to line/column positions and back.
//
// Positions are tracked in both UTF-8 byte columns and UTF-16 code-unit
// columns, since LSP positions are specified in UTF-16 code units while Go
// strings (and this engine's green trees) are indexed in bytes.
package lineindex

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// Position is a zero-based line/column pair. Column is in UTF-16 code units,
// matching the LSP wire format.
type Position struct {
	Line   uint32
	Column uint32
}

// multiByteRune records one non-ASCII rune on a line: its byte offset
// relative to the line start, its UTF-8 encoded size, and its UTF-16 width
// (1 for the BMP, 2 for surrogate pairs).
type multiByteRune struct {
	byteOffset uint32
	byteSize   uint8
	utf16Width uint8
}

type wideLine struct {
	line  uint32
	runes []multiByteRune
}

// Index provides O(log n) conversions between byte offsets and line/column
// positions, in both UTF-8 and UTF-16 column spaces.
type Index struct {
	// lineStarts[i] is the byte offset of the first byte of line i.
	lineStarts []uint32
	length     uint32
	// wide holds, in ascending line order, every line containing at least
	// one multi-byte rune. Pure-ASCII lines (the overwhelming common case
	// for LaTeX source) never allocate an entry.
	wide []wideLine
}

// New builds an Index over text. The text is not retained.
func New(text string) *Index {
	idx := &Index{lineStarts: []uint32{0}, length: uint32(len(text))}

	line := uint32(0)
	lineStart := 0
	var cur *wideLine
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if size > 1 {
			if cur == nil || cur.line != line {
				idx.wide = append(idx.wide, wideLine{line: line})
				cur = &idx.wide[len(idx.wide)-1]
			}
			width16 := uint8(1)
			if r > 0xFFFF {
				width16 = 2
			}
			cur.runes = append(cur.runes, multiByteRune{
				byteOffset: uint32(i - lineStart),
				byteSize:   uint8(size),
				utf16Width: width16,
			})
		}
		if text[i] == '\n' {
			line++
			lineStart = i + 1
			idx.lineStarts = append(idx.lineStarts, uint32(lineStart))
			cur = nil
		}
		i += size
	}
	return idx
}

// LineCount returns the number of lines in the indexed text.
func (idx *Index) LineCount() uint32 {
	return uint32(len(idx.lineStarts))
}

// lineOf returns the 0-based line containing byte offset, and that line's
// starting byte offset.
func (idx *Index) lineOf(offset uint32) (uint32, uint32) {
	i := sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > offset
	})
	line := uint32(i - 1)
	return line, idx.lineStarts[line]
}

func (idx *Index) findWide(line uint32) *wideLine {
	i := sort.Search(len(idx.wide), func(i int) bool { return idx.wide[i].line >= line })
	if i < len(idx.wide) && idx.wide[i].line == line {
		return &idx.wide[i]
	}
	return nil
}

// LineCol converts a byte offset to a Position using UTF-16 columns.
// Offsets outside [0, length] are not representable; ok is false.
func (idx *Index) LineCol(offset uint32) (pos Position, ok bool) {
	if offset > idx.length {
		return Position{}, false
	}
	line, lineStart := idx.lineOf(offset)
	byteCol := offset - lineStart
	return Position{Line: line, Column: idx.toUTF16Col(line, byteCol)}, true
}

// toUTF16Col converts a byte column on a line to its UTF-16 column.
func (idx *Index) toUTF16Col(line, byteCol uint32) uint32 {
	w := idx.findWide(line)
	if w == nil {
		return byteCol
	}
	col := byteCol
	for _, r := range w.runes {
		if r.byteOffset >= byteCol {
			break
		}
		col -= uint32(r.byteSize) - uint32(r.utf16Width)
	}
	return col
}

// Offset converts a Position (UTF-16 columns) back to a byte offset.
// Positions outside the document, or columns past end-of-line, are not
// representable; ok is false.
func (idx *Index) Offset(pos Position) (offset uint32, ok bool) {
	if pos.Line >= uint32(len(idx.lineStarts)) {
		return 0, false
	}
	lineStart := idx.lineStarts[pos.Line]
	lineEnd := idx.length
	if int(pos.Line)+1 < len(idx.lineStarts) {
		lineEnd = idx.lineStarts[pos.Line+1]
	}
	byteCol, ok := idx.toByteCol(pos.Line, pos.Column)
	if !ok {
		return 0, false
	}
	result := lineStart + byteCol
	if result > lineEnd {
		return 0, false
	}
	return result, true
}

// toByteCol converts a UTF-16 column on a line back to a byte column.
func (idx *Index) toByteCol(line, utf16Col uint32) (uint32, bool) {
	w := idx.findWide(line)
	if w == nil {
		return utf16Col, true
	}
	var byteOff, col uint32
	for _, r := range w.runes {
		// Consume the ASCII run before this rune.
		asciiSpan := r.byteOffset - byteOff
		if col+asciiSpan >= utf16Col {
			return byteOff + (utf16Col - col), true
		}
		col += asciiSpan
		byteOff = r.byteOffset
		if col+uint32(r.utf16Width) > utf16Col {
			// utf16Col lands inside a surrogate pair; not representable
			// as a byte offset between runes.
			if col == utf16Col {
				return byteOff, true
			}
			return 0, false
		}
		col += uint32(r.utf16Width)
		byteOff += uint32(r.byteSize)
	}
	return byteOff + (utf16Col - col), true
}

// Utf8Column returns the byte offset within its line for a given absolute
// byte offset, useful for diagnostics that want a byte-accurate column
// alongside the UTF-16 LSP position.
func (idx *Index) Utf8Column(offset uint32) (col uint32, ok bool) {
	if offset > idx.length {
		return 0, false
	}
	_, lineStart := idx.lineOf(offset)
	return offset - lineStart, true
}

// Encode16Len returns the UTF-16 length of an arbitrary string fragment
// (e.g. a token's text), without requiring a full Index over it.
func Encode16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}
