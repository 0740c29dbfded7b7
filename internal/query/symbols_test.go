package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"texlab/internal/graph"
	"texlab/internal/workspace"
)

func TestDocumentSymbolsNestsSections(t *testing.T) {
	text := "\\section{Foo}\n\\subsection{Bar}\ntext\n"
	w := workspace.New(nil, nil)
	doc := w.Open("file:///tmp/main.tex", text, workspace.LanguageTex, workspace.OwnerClient, nil)

	syms := DocumentSymbols(doc)
	require.Len(t, syms, 1)
	require.Equal(t, "Foo", syms[0].Name)
	require.Len(t, syms[0].Children, 1)
	require.Equal(t, "Bar", syms[0].Children[0].Name)
}

func TestDocumentSymbolsBibEntries(t *testing.T) {
	w := workspace.New(nil, nil)
	doc := w.Open("file:///tmp/main.bib", "@article{foo,}\n", workspace.LanguageBib, workspace.OwnerClient, nil)
	syms := DocumentSymbols(doc)
	require.Len(t, syms, 1)
	require.Equal(t, "foo", syms[0].Name)
}

func TestWorkspaceSymbolsOrderedByTopology(t *testing.T) {
	w := workspace.New(nil, nil)
	w.Open("file:///tmp/bar.tex", `\section{Bar}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	root := w.Open("file:///tmp/foo.tex", "\\section{Foo}\n\\include{bar}", workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()
	g := graph.Build(snap, root)

	entries := WorkspaceSymbols(snap, g)
	require.NotEmpty(t, entries)
	require.Equal(t, "Foo", entries[0].Symbol.Name)
}
