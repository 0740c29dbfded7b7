package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"texlab/internal/workspace"
)

func openFile(t *testing.T, w *workspace.Workspace, path, text string, lang workspace.Language) *workspace.Document {
	t.Helper()
	uri := workspace.Normalize("file://" + path)
	return w.Open(uri, text, lang, workspace.OwnerClient, nil)
}

func TestBuildFollowsInputLink(t *testing.T) {
	w := workspace.New(nil, nil)
	openFile(t, w, "/proj/bar.tex", "hello", workspace.LanguageTex)
	foo := openFile(t, w, "/proj/foo.tex", "\\input{bar.tex}", workspace.LanguageTex)

	snap := w.Snapshot()
	g := Build(snap, foo)

	require.Len(t, g.Preorder(), 2)
	edges := g.Edges(foo)
	require.Len(t, edges, 1)
	require.Equal(t, EdgeDirectLink, edges[0].Kind)
	require.Equal(t, "bar.tex", edges[0].Target.Path[len(edges[0].Target.Path)-7:])
}

func TestBuildToleratesCycles(t *testing.T) {
	w := workspace.New(nil, nil)
	a := openFile(t, w, "/proj/a.tex", "\\input{b.tex}", workspace.LanguageTex)
	openFile(t, w, "/proj/b.tex", "\\input{a.tex}", workspace.LanguageTex)

	snap := w.Snapshot()
	g := Build(snap, a)
	require.Len(t, g.Preorder(), 2)
}

func TestBuildEmitsArtifactEdges(t *testing.T) {
	w := workspace.New(nil, nil)
	openFile(t, w, "/proj/main.aux", "", workspace.LanguageAux)
	main := openFile(t, w, "/proj/main.tex", "x", workspace.LanguageTex)

	snap := w.Snapshot()
	g := Build(snap, main)
	var sawArtifact bool
	for _, e := range g.Edges(main) {
		if e.Kind == EdgeArtifact {
			sawArtifact = true
		}
	}
	require.True(t, sawArtifact)
}

func TestBuildEmitsFileListEdgesForInputsAndOutputs(t *testing.T) {
	w := workspace.New(nil, nil)
	openFile(t, w, "/proj/main.tex", "x", workspace.LanguageTex)
	openFile(t, w, "/proj/main.pdf", "", workspace.LanguageAux)
	fls := openFile(t, w, "/proj/main.fls", "PWD /proj\nINPUT main.tex\nOUTPUT main.pdf\n", workspace.LanguageFileList)

	snap := w.Snapshot()
	g := Build(snap, fls)

	edges := g.Edges(fls)
	require.Len(t, edges, 2)
	for _, e := range edges {
		require.Equal(t, EdgeFileList, e.Kind)
	}
}

// TestFileListEdgesAreInsertionOrdered guards spec §4.6's "edges are
// explored in insertion order": with several INPUT records, the resulting
// EdgeFileList edges and Preorder must match the .fls file's own record
// order on every build, not whatever order a map happened to iterate in.
func TestFileListEdgesAreInsertionOrdered(t *testing.T) {
	w := workspace.New(nil, nil)
	a := openFile(t, w, "/proj/a.tex", "a", workspace.LanguageTex)
	b := openFile(t, w, "/proj/b.tex", "b", workspace.LanguageTex)
	c := openFile(t, w, "/proj/c.tex", "c", workspace.LanguageTex)
	fls := openFile(t, w, "/proj/main.fls", "PWD /proj\nINPUT c.tex\nINPUT a.tex\nINPUT b.tex\n", workspace.LanguageFileList)

	snap := w.Snapshot()
	for i := 0; i < 5; i++ {
		g := Build(snap, fls)
		edges := g.Edges(fls)
		require.Len(t, edges, 3)
		require.Equal(t, c.URI, edges[0].Target.URI)
		require.Equal(t, a.URI, edges[1].Target.URI)
		require.Equal(t, b.URI, edges[2].Target.URI)
	}
}

func TestFindRootUsesMarkerFile(t *testing.T) {
	w := workspace.New(nil, nil)
	doc := openFile(t, w, "/proj/chapters/ch1.tex", "x", workspace.LanguageTex)

	exists := func(path string) bool { return path == "/proj/.texlabroot" }
	root := FindRoot(doc, nil, exists)
	require.Equal(t, "/proj", root)
}

func TestFindRootFallsBackToDocumentDir(t *testing.T) {
	w := workspace.New(nil, nil)
	doc := openFile(t, w, "/proj/chapters/ch1.tex", "x", workspace.LanguageTex)

	root := FindRoot(doc, nil, func(string) bool { return false })
	require.Equal(t, "/proj/chapters", root)
}
