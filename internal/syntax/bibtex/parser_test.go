package bibtex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLosslessRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"@article{foo, title = {Hello}, year = 2020}\n",
		"@string{aps = \"American Physical Society\"}",
		"@preamble{\"\\\\newcommand\"}",
		"junk before @article{x, title={y}}",
		"@article{foo, author = {A} # \" and \" # {B}}",
	}
	for _, src := range inputs {
		root, _ := Parse(src)
		require.Equal(t, src, root.Text())
	}
}

func TestEntryFields(t *testing.T) {
	root, errs := Parse("@article{foo, title = {Hello}, year = 2020}")
	require.Empty(t, errs)
	entries := root.ChildrenOfKind(KindEntry)
	require.Len(t, entries, 1)
	fields := entries[0].ChildrenOfKind(KindField)
	require.Len(t, fields, 2)
}

func TestMissingRCurly(t *testing.T) {
	src := "@article{foo, title = {Hello}"
	root, errs := Parse(src)
	require.Equal(t, src, root.Text())
	require.NotEmpty(t, errs)
}
