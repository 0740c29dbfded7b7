package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"texlab/internal/workspace"
)

// TestDocumentLinksResolvesInputDirective covers spec §8 scenario 1:
// a document-link query on foo.tex returns one link with range covering
// bar.tex in the directive, target bar.tex.
func TestDocumentLinksResolvesInputDirective(t *testing.T) {
	w := workspace.New(nil, nil)
	bar := w.Open(workspace.Normalize("file:///tmp/bar.tex"), "bar body", workspace.LanguageTex, workspace.OwnerClient, nil)
	foo := w.Open(workspace.Normalize("file:///tmp/foo.tex"), `\input{bar.tex}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()

	links := DocumentLinks(snap, foo)
	require.Len(t, links, 1)
	require.Equal(t, bar.URI, links[0].TargetURI)
	origin := foo.Text[links[0].OriginRange[0]:links[0].OriginRange[1]]
	require.Equal(t, "bar.tex", origin)
}

func TestDocumentLinksOmitsUnresolvedTarget(t *testing.T) {
	w := workspace.New(nil, nil)
	foo := w.Open(workspace.Normalize("file:///tmp/foo.tex"), `\input{missing.tex}`, workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()

	require.Empty(t, DocumentLinks(snap, foo))
}

func TestDocumentLinksNonTexDocumentReturnsNil(t *testing.T) {
	w := workspace.New(nil, nil)
	doc := w.Open(workspace.Normalize("file:///tmp/refs.bib"), `@article{foo, title = {Foo}}`, workspace.LanguageBib, workspace.OwnerClient, nil)
	snap := w.Snapshot()

	require.Nil(t, DocumentLinks(snap, doc))
}
