package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"texlab/internal/workspace"
)

func TestFoldingSectionsAndEnvironment(t *testing.T) {
	text := "\\begin{document}\n\\section{Foo}\ntext\n\\section{Bar}\nmore\n\\end{document}\n"
	w := workspace.New(nil, nil)
	doc := w.Open("file:///tmp/main.tex", text, workspace.LanguageTex, workspace.OwnerClient, nil)

	folds := Folding(doc)
	var sections, regions int
	for _, f := range folds {
		switch f.Kind {
		case FoldSection:
			sections++
		case FoldRegion:
			regions++
		}
	}
	require.Equal(t, 2, sections)
	require.Equal(t, 1, regions)
}

func TestFoldingBibEntries(t *testing.T) {
	w := workspace.New(nil, nil)
	doc := w.Open("file:///tmp/main.bib", "@article{a,}\n@string{b = \"x\"}\n", workspace.LanguageBib, workspace.OwnerClient, nil)
	folds := Folding(doc)
	require.Len(t, folds, 2)
}
