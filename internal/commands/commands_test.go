package commands

import (
	"testing"

	"github.com/stretchr/testify/require"

	"texlab/internal/graph"
	"texlab/internal/workspace"
)

func TestFindEnvironmentsOutermostFirst(t *testing.T) {
	w := workspace.New(nil, nil)
	text := "\\begin{a}\n\\begin{b}\nhere\n\\end{b}\n\\end{a}\n"
	doc := w.Open("file:///tmp/main.tex", text, workspace.LanguageTex, workspace.OwnerClient, nil)

	offset := uint32(len("\\begin{a}\n\\begin{b}\nhe"))
	matches := FindEnvironments(doc, offset)
	require.Len(t, matches, 2)
	require.Equal(t, "a", matches[0].Name.Text(doc.Text))
	require.Equal(t, "b", matches[1].Name.Text(doc.Text))
}

func TestChangeEnvironmentRenamesMatchedPair(t *testing.T) {
	w := workspace.New(nil, nil)
	text := "\\begin{a}\nhere\n\\end{a}\n"
	doc := w.Open("file:///tmp/main.tex", text, workspace.LanguageTex, workspace.OwnerClient, nil)

	offset := uint32(len("\\begin{a}\nhe"))
	result, ok := ChangeEnvironment(doc, offset, "b")
	require.True(t, ok)
	require.Equal(t, "a", result.OldName)
	require.Equal(t, "b", result.NewName)
}

func TestChangeEnvironmentRejectsMismatchedPair(t *testing.T) {
	w := workspace.New(nil, nil)
	text := "\\begin{a}\nhere\n\\end{b}\n"
	doc := w.Open("file:///tmp/main.tex", text, workspace.LanguageTex, workspace.OwnerClient, nil)

	offset := uint32(len("\\begin{a}\nhe"))
	_, ok := ChangeEnvironment(doc, offset, "c")
	require.False(t, ok)
}

func TestDependencyGraphRendersNodesAndEdges(t *testing.T) {
	w := workspace.New(nil, nil)
	w.Open("file:///tmp/bar.tex", `\section{Bar}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	root := w.Open("file:///tmp/foo.tex", "\\documentclass{article}\n\\include{bar}", workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()
	g := graph.Build(snap, root)

	dot := DependencyGraph(snap, g)
	require.Contains(t, dot, "digraph G {")
	require.Contains(t, dot, "tripleoctagon")
	require.Contains(t, dot, "->")
}
