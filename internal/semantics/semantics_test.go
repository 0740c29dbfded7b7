package semantics

import (
	"testing"

	"github.com/stretchr/testify/require"
	"texlab/internal/syntax/bibtex"
	"texlab/internal/syntax/latex"
)

func TestExtractLabelsAndCitations(t *testing.T) {
	src := "\\label{foo}\\ref{foo}\\cite{bar,baz}"
	root, errs := latex.Parse(src, nil)
	require.Empty(t, errs)
	tex := Extract(root)
	require.Len(t, tex.Labels, 2)
	require.Equal(t, LabelDefinition, tex.Labels[0].Kind)
	require.Equal(t, "foo", tex.Labels[0].Name.Text(src))
	require.Equal(t, LabelReference, tex.Labels[1].Kind)
	require.Len(t, tex.Citations, 2)
	require.Equal(t, "bar", tex.Citations[0].Name.Text(src))
	require.Equal(t, "baz", tex.Citations[1].Name.Text(src))
}

func TestExtractCanBeRootAndCompiled(t *testing.T) {
	src := "\\documentclass{article}\\begin{document}\\end{document}"
	root, errs := latex.Parse(src, nil)
	require.Empty(t, errs)
	tex := Extract(root)
	require.True(t, tex.CanBeRoot)
	require.True(t, tex.CanBeCompiled)
}

func TestExtractLinks(t *testing.T) {
	src := "\\input{chapters/intro}\\includegraphics{fig.png}"
	root, _ := latex.Parse(src, nil)
	tex := Extract(root)
	require.Len(t, tex.Links, 2)
	require.Equal(t, "chapters/intro", tex.Links[0].Path.Text(src))
	require.Equal(t, LinkGraphic, tex.Links[1].Kind)
}

func TestExtractBibEntries(t *testing.T) {
	src := "@article{foo, title = {Hello}}\n@string{aps = \"Society\"}"
	root, errs := bibtex.Parse(src)
	require.Empty(t, errs)
	bib := ExtractBib(root)
	require.Len(t, bib.Entries, 1)
	require.Equal(t, "foo", bib.Entries[0].Name.Text(src))
	require.Equal(t, "article", bib.Entries[0].Type)
	require.Len(t, bib.Strings, 1)
	require.Equal(t, "aps", bib.Strings[0].Name.Text(src))
}

func TestExtractAuxiliary(t *testing.T) {
	text := `\newlabel{foo}{{1}{1}}` + "\n" + `\newlabel{bar}{{2.1}{2}}`
	m := ExtractAuxiliary(text)
	require.Equal(t, "1", m["foo"])
	require.Equal(t, "2.1", m["bar"])
}
