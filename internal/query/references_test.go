package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"texlab/internal/graph"
	"texlab/internal/workspace"
)

func TestReferencesFindsLabelDefinitionAndUses(t *testing.T) {
	w := workspace.New(nil, nil)
	uri := workspace.Normalize("file:///tmp/main.tex")
	doc := w.Open(uri, `\label{fig:a}\ref{fig:a}\ref{fig:a}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()
	g := graph.Build(snap, doc)

	occ := References(snap, g, doc, 8, true)
	require.Len(t, occ, 3)

	occNoDecl := References(snap, g, doc, 8, false)
	require.Len(t, occNoDecl, 2)
	for _, o := range occNoDecl {
		require.Equal(t, OccurrenceReference, o.Kind)
	}
}

func TestReferencesCitationCrossesBibFile(t *testing.T) {
	w := workspace.New(nil, nil)
	w.Open("file:///refs.bib", "@article{foo,}", workspace.LanguageBib, workspace.OwnerClient, nil)
	texURI := workspace.Normalize("file:///tmp/main.tex")
	tex := w.Open(texURI, `\cite{foo}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()

	occ := References(snap, nil, tex, 7, true)
	require.Len(t, occ, 2)
}

func TestReferencesNoMatchReturnsNil(t *testing.T) {
	w := workspace.New(nil, nil)
	uri := workspace.Normalize("file:///tmp/main.tex")
	doc := w.Open(uri, `hello world`, workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()
	require.Empty(t, References(snap, nil, doc, 2, true))
}
