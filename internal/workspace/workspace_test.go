package workspace

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenAndLookup(t *testing.T) {
	w := New(nil, nil)
	uri := Normalize("file:///tmp/foo.tex")
	doc := w.Open(uri, "\\section{Foo}", LanguageTex, OwnerClient, nil)
	require.NotNil(t, doc)

	snap := w.Snapshot()
	require.Equal(t, 1, snap.Len())
	require.Same(t, doc, snap.Lookup(uri))
}

func TestLookupMissingReturnsNil(t *testing.T) {
	w := New(nil, nil)
	require.Nil(t, w.Snapshot().Lookup(Normalize("file:///tmp/missing.tex")))
}

func TestEditAppliesRangeReplacement(t *testing.T) {
	w := New(nil, nil)
	uri := Normalize("file:///tmp/foo.tex")
	w.Open(uri, "\\section{Foo}", LanguageTex, OwnerClient, nil)

	doc, err := w.Edit(uri, []TextEdit{{
		StartLine: 0, StartCol: 9,
		EndLine: 0, EndCol: 12,
		NewText: "Bar",
	}}, OwnerClient)
	require.NoError(t, err)
	require.Equal(t, "\\section{Bar}", doc.Text)
}

func TestEditMissingDocumentReturnsErrNotFound(t *testing.T) {
	w := New(nil, nil)
	_, err := w.Edit(Normalize("file:///tmp/nope.tex"), nil, OwnerClient)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCloseRetainsThenPruneRemoves(t *testing.T) {
	w := New(nil, nil)
	uri := Normalize("file:///tmp/foo.tex")
	w.Open(uri, "x", LanguageTex, OwnerClient, nil)
	w.Close(uri)
	require.Equal(t, OwnerServer, w.Snapshot().Lookup(uri).Owner)

	w.Prune(map[URI]struct{}{})
	require.Nil(t, w.Snapshot().Lookup(uri))
}

func TestPruneKeepsClientOwnedDocuments(t *testing.T) {
	w := New(nil, nil)
	uri := Normalize("file:///tmp/foo.tex")
	w.Open(uri, "x", LanguageTex, OwnerClient, nil)
	w.Prune(map[URI]struct{}{})
	require.NotNil(t, w.Snapshot().Lookup(uri))
}

func TestSnapshotIterVisitsEveryDocument(t *testing.T) {
	w := New(nil, nil)
	w.Open(Normalize("file:///tmp/a.tex"), "a", LanguageTex, OwnerClient, nil)
	w.Open(Normalize("file:///tmp/b.tex"), "b", LanguageTex, OwnerClient, nil)

	seen := map[URI]bool{}
	w.Snapshot().Iter(func(d *Document) { seen[d.URI] = true })
	require.Len(t, seen, 2)
}
