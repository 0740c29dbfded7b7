package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"texlab/internal/workspace"
)

func TestHoverCitationRendersCiteproc(t *testing.T) {
	ws := workspace.New(nil, nil)
	ws.Open("file:///refs.bib", "@article{foo, author = {A. Author}}", workspace.LanguageBib, workspace.OwnerClient, nil)
	tex := ws.Open("file:///main.tex", `\cite{foo}`, workspace.LanguageTex, workspace.OwnerClient, nil)

	snap := ws.Snapshot()
	h, ok := HoverAt(snap, nil, tex, 7)
	require.True(t, ok)
	require.Equal(t, "foo", h.Content)
}

func TestHoverPackageReturnsName(t *testing.T) {
	ws := workspace.New(nil, nil)
	tex := ws.Open("file:///main.tex", `\usepackage{amsmath}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := ws.Snapshot()
	h, ok := HoverAt(snap, nil, tex, 14)
	require.True(t, ok)
	require.Contains(t, h.Content, "amsmath")
}

func TestHoverNoMatchReturnsFalse(t *testing.T) {
	ws := workspace.New(nil, nil)
	tex := ws.Open("file:///main.tex", `hello world`, workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := ws.Snapshot()
	_, ok := HoverAt(snap, nil, tex, 2)
	require.False(t, ok)
}
