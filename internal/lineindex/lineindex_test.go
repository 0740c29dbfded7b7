package lineindex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTripASCII(t *testing.T) {
	text := "hello\nworld\nfoo bar\n"
	idx := New(text)
	for offset := 0; offset <= len(text); offset++ {
		pos, ok := idx.LineCol(uint32(offset))
		require.True(t, ok)
		back, ok := idx.Offset(pos)
		require.True(t, ok)
		require.Equal(t, uint32(offset), back, "offset %d round-trips", offset)
	}
}

func TestUTF16Columns(t *testing.T) {
	// "é" is 2 UTF-8 bytes, 1 UTF-16 unit. "𝔸" (U+1D538) is 4 UTF-8 bytes, 2
	// UTF-16 units (surrogate pair).
	text := "café 𝔸\n"
	idx := New(text)

	pos, ok := idx.LineCol(uint32(len("café")))
	require.True(t, ok)
	require.Equal(t, uint32(0), pos.Line)
	require.Equal(t, uint32(4), pos.Column) // c-a-f-é = 4 UTF-16 units

	offset, ok := idx.Offset(Position{Line: 0, Column: 4})
	require.True(t, ok)
	require.Equal(t, uint32(len("café")), offset)

	afterAstral := uint32(len("café 𝔸"))
	pos, ok = idx.LineCol(afterAstral)
	require.True(t, ok)
	require.Equal(t, uint32(4+1+2), pos.Column) // café(4) + space(1) + astral(2)
}

func TestOutOfRangeNotRepresentable(t *testing.T) {
	idx := New("abc")
	_, ok := idx.LineCol(100)
	require.False(t, ok)
	_, ok = idx.Offset(Position{Line: 5, Column: 0})
	require.False(t, ok)
}

func TestLineCount(t *testing.T) {
	idx := New("a\nb\nc")
	require.Equal(t, uint32(3), idx.LineCount())
}
