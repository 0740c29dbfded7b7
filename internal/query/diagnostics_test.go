package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"texlab/internal/graph"
	"texlab/internal/workspace"
)

func TestDiagnosticsMismatchedEnvironment(t *testing.T) {
	w := workspace.New(nil, nil)
	uri := workspace.Normalize("file:///tmp/main.tex")
	doc := w.Open(uri, `\begin{a}\end{b}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()
	g := graph.Build(snap, doc)

	diags := Diagnostics(snap, g, doc)
	var mismatched int
	for _, d := range diags {
		if d.Code == "MismatchedEnvironment" {
			mismatched++
		}
	}
	require.Equal(t, 1, mismatched)
}

func TestDiagnosticsUndefinedCitation(t *testing.T) {
	w := workspace.New(nil, nil)
	uri := workspace.Normalize("file:///tmp/main.tex")
	doc := w.Open(uri, `\cite{missing}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()
	g := graph.Build(snap, doc)

	diags := Diagnostics(snap, g, doc)
	found := false
	for _, d := range diags {
		if d.Code == CodeUndefinedCitation {
			found = true
		}
	}
	require.True(t, found)
}

func TestDiagnosticsUnusedLabel(t *testing.T) {
	w := workspace.New(nil, nil)
	uri := workspace.Normalize("file:///tmp/main.tex")
	doc := w.Open(uri, `\label{foo}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()
	g := graph.Build(snap, doc)

	diags := Diagnostics(snap, g, doc)
	found := false
	for _, d := range diags {
		if d.Code == CodeUnusedLabel {
			found = true
		}
	}
	require.True(t, found)
}

func TestDiagnosticsForAllComputesEveryTargetConcurrently(t *testing.T) {
	w := workspace.New(nil, nil)
	bar := w.Open(workspace.Normalize("file:///tmp/bar.tex"), `\label{foo}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	foo := w.Open(workspace.Normalize("file:///tmp/foo.tex"), `\input{bar.tex}\cite{missing}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()
	g := graph.Build(snap, foo)

	targets := g.Preorder()
	results, err := DiagnosticsForAll(context.Background(), snap, g, targets)
	require.NoError(t, err)
	require.Len(t, results, len(targets))

	var sawUnusedLabel, sawUndefinedCitation bool
	for i, target := range targets {
		for _, d := range results[i] {
			if d.Code == CodeUnusedLabel && target == bar.URI {
				sawUnusedLabel = true
			}
			if d.Code == CodeUndefinedCitation && target == foo.URI {
				sawUndefinedCitation = true
			}
		}
	}
	require.True(t, sawUnusedLabel)
	require.True(t, sawUndefinedCitation)
}

func TestDiagnosticsDuplicateImport(t *testing.T) {
	w := workspace.New(nil, nil)
	uri := workspace.Normalize("file:///tmp/main.tex")
	doc := w.Open(uri, `\usepackage{amsmath}\usepackage{amsmath}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()
	g := graph.Build(snap, doc)

	diags := Diagnostics(snap, g, doc)
	found := false
	for _, d := range diags {
		if d.Code == CodeDuplicateImport {
			found = true
		}
	}
	require.True(t, found)
}
