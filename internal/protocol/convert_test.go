package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"texlab/internal/workspace"
)

func TestOffsetPositionRoundTrip(t *testing.T) {
	w := workspace.New(nil, nil)
	doc := w.Open("file:///tmp/main.tex", "hello\nworld\n", workspace.LanguageTex, workspace.OwnerClient, nil)

	offset := uint32(len("hello\nwo"))
	pos := offsetToPosition(doc, offset)
	require.Equal(t, uint32(1), pos.Line)
	require.Equal(t, uint32(2), pos.Character)

	back, ok := positionToOffset(doc, pos)
	require.True(t, ok)
	require.Equal(t, offset, back)
}

func TestToRangeProducesHalfOpenSpan(t *testing.T) {
	w := workspace.New(nil, nil)
	doc := w.Open("file:///tmp/main.tex", "\\section{Foo}\n", workspace.LanguageTex, workspace.OwnerClient, nil)

	r := toRange(doc, [2]uint32{0, 8})
	require.Equal(t, Position{Line: 0, Character: 0}, r.Start)
	require.Equal(t, Position{Line: 0, Character: 8}, r.End)
}

func TestToLocationResolvesDocumentByURI(t *testing.T) {
	w := workspace.New(nil, nil)
	doc := w.Open("file:///tmp/main.tex", "\\label{fig:a}\n", workspace.LanguageTex, workspace.OwnerClient, nil)

	loc := toLocation(w.Snapshot(), doc.URI, [2]uint32{0, 6})
	require.Equal(t, string(doc.URI), loc.URI)
	require.Equal(t, uint32(0), loc.Range.Start.Character)
	require.Equal(t, uint32(6), loc.Range.End.Character)
}

func TestToLocationMissingDocumentReturnsZeroRange(t *testing.T) {
	w := workspace.New(nil, nil)
	loc := toLocation(w.Snapshot(), "file:///tmp/missing.tex", [2]uint32{0, 4})
	require.Equal(t, "file:///tmp/missing.tex", loc.URI)
	require.Equal(t, Range{}, loc.Range)
}
