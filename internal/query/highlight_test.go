package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"texlab/internal/workspace"
)

func TestHighlightsTagsWriteAndRead(t *testing.T) {
	w := workspace.New(nil, nil)
	doc := w.Open("file:///tmp/main.tex", `\label{foo}\ref{foo}`, workspace.LanguageTex, workspace.OwnerClient, nil)

	hs := Highlights(doc, 8)
	require.Len(t, hs, 2)
	var writes, reads int
	for _, h := range hs {
		switch h.Kind {
		case HighlightWrite:
			writes++
		case HighlightRead:
			reads++
		}
	}
	require.Equal(t, 1, writes)
	require.Equal(t, 1, reads)
}

func TestHighlightsNoMatchReturnsNil(t *testing.T) {
	w := workspace.New(nil, nil)
	doc := w.Open("file:///tmp/main.tex", `hello world`, workspace.LanguageTex, workspace.OwnerClient, nil)
	require.Nil(t, Highlights(doc, 2))
}
