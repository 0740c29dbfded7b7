package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"texlab/internal/graph"
	"texlab/internal/workspace"
)

func TestRenameLabelAcrossFiles(t *testing.T) {
	w := workspace.New(nil, nil)
	fooURI := workspace.Normalize("file:///tmp/foo.tex")
	w.Open("file:///tmp/bar.tex", `\ref{foo}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	foo := w.Open(fooURI, `\label{foo}\include{bar}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()
	g := graph.Build(snap, foo)

	edit, ok := Rename(snap, g, foo, 8, "bar")
	require.True(t, ok)
	require.Contains(t, edit.Changes, fooURI)
	require.Contains(t, edit.Changes, workspace.Normalize("file:///tmp/bar.tex"))
	require.NotContains(t, edit.Changes, workspace.Normalize("file:///tmp/baz.tex"))
}

func TestRenameCitationAcrossFormats(t *testing.T) {
	w := workspace.New(nil, nil)
	bibURI := workspace.Normalize("file:///tmp/main.bib")
	texURI := workspace.Normalize("file:///tmp/main.tex")
	w.Open(bibURI, `@article{foo,}`, workspace.LanguageBib, workspace.OwnerClient, nil)
	tex := w.Open(texURI, `\addbibresource{main.bib}\cite{foo}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()

	edit, ok := Rename(snap, nil, tex, 31, "bar")
	require.True(t, ok)
	require.Contains(t, edit.Changes, bibURI)
	require.Contains(t, edit.Changes, texURI)
}

func TestRenameIsIdempotent(t *testing.T) {
	w := workspace.New(nil, nil)
	uri := workspace.Normalize("file:///tmp/main.tex")
	doc := w.Open(uri, `\label{foo}\ref{foo}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()
	g := graph.Build(snap, doc)

	first, ok := Rename(snap, g, doc, 8, "foo")
	require.True(t, ok)
	for _, e := range first.Changes[uri] {
		require.Equal(t, "foo", e.NewText)
	}
}

func TestPrepareRenameOnPlainTextFails(t *testing.T) {
	w := workspace.New(nil, nil)
	uri := workspace.Normalize("file:///tmp/main.tex")
	doc := w.Open(uri, `hello world`, workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()
	_, ok := PrepareRename(snap, nil, doc, 2)
	require.False(t, ok)
}
