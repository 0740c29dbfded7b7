package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"texlab/internal/graph"
	"texlab/internal/workspace"
)

func TestInlayHintsLabelNumber(t *testing.T) {
	w := workspace.New(nil, nil)
	tex := w.Open("file:///tmp/main.tex", `\label{fig:a}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	aux := w.Open("file:///tmp/main.aux", `\newlabel{fig:a}{{1}{1}}`, workspace.LanguageAux, workspace.OwnerServer, nil)
	_ = aux
	snap := w.Snapshot()
	g := graph.Build(snap, tex)

	hints := InlayHints(snap, g, tex, 0, uint32(len(`\label{fig:a}`)))
	require.Len(t, hints, 1)
	require.Equal(t, "1", hints[0].Label)
}

func TestInlayHintsCitationOverview(t *testing.T) {
	w := workspace.New(nil, nil)
	w.Open("file:///tmp/refs.bib", `@article{foo,}`, workspace.LanguageBib, workspace.OwnerClient, nil)
	tex := w.Open("file:///tmp/main.tex", `\cite{foo}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()

	hints := InlayHints(snap, nil, tex, 0, uint32(len(`\cite{foo}`)))
	require.Len(t, hints, 1)
	require.Equal(t, "foo", hints[0].Label)
}

func TestInlayHintsNoneOutsideRange(t *testing.T) {
	w := workspace.New(nil, nil)
	tex := w.Open("file:///tmp/main.tex", `\label{fig:a}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()
	require.Empty(t, InlayHints(snap, nil, tex, 0, 0))
}
