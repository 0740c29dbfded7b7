package citeproc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderArticle(t *testing.T) {
	got := Render(Entry{Type: "article", Key: "foo", Author: "A. Author", Year: "2020", Title: "A Title", Journal: "J. Results"})
	require.Equal(t, "A. Author (2020). A Title. J. Results.", got)
}

func TestRenderFallsBackToKey(t *testing.T) {
	require.Equal(t, "foo", Render(Entry{Key: "foo"}))
}

func TestRenderInProceedings(t *testing.T) {
	got := Render(Entry{Type: "inproceedings", Key: "bar", Title: "Paper", Booktitle: "Proc. Conf"})
	require.Equal(t, "Paper. In Proc. Conf.", got)
}
