package distro

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeScanner struct{ paths []string }

func (f fakeScanner) Scan() ([]string, error) { return f.paths, nil }

func TestBuildAndResolve(t *testing.T) {
	idx, err := Build(fakeScanner{paths: []string{
		"/usr/share/texmf/tex/latex/base/article.cls",
		"/usr/share/texmf/tex/latex/amsmath/amsmath.sty",
	}}, 0)
	require.NoError(t, err)
	require.Equal(t, 2, idx.Len())

	path, ok := idx.Resolve("article.cls")
	require.True(t, ok)
	require.Equal(t, "/usr/share/texmf/tex/latex/base/article.cls", path)

	_, ok = idx.Resolve("nonexistent.sty")
	require.False(t, ok)
}

func TestResolveCachesMisses(t *testing.T) {
	idx, err := Build(fakeScanner{paths: nil}, 4)
	require.NoError(t, err)
	_, ok := idx.Resolve("missing.cls")
	require.False(t, ok)
	// second lookup should hit the cache path, not panic or change result
	_, ok = idx.Resolve("missing.cls")
	require.False(t, ok)
}

func TestNilIndexResolve(t *testing.T) {
	var idx *Index
	_, ok := idx.Resolve("article.cls")
	require.False(t, ok)
	require.Equal(t, 0, idx.Len())
}

func TestKindString(t *testing.T) {
	require.Equal(t, "TeXLive", TeXLive.String())
	require.Equal(t, "MikTeX", MikTeX.String())
	require.Equal(t, "Tectonic", Tectonic.String())
	require.Equal(t, "Unknown", Unknown.String())
}
