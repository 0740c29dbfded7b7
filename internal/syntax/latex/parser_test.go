package latex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// TestParseIsDeterministic guards the green tree's reuse as a stable cache
// key: parsing the same source twice must produce identical text and an
// identical set of syntax errors, or incremental re-analysis would see
// spurious "changes" on an unedited document.
func TestParseIsDeterministic(t *testing.T) {
	src := "\\begin{document}\n\\section{Foo}\\label{sec:foo}\n\\end{document}\n"
	root1, errs1 := Parse(src, nil)
	root2, errs2 := Parse(src, nil)

	if diff := cmp.Diff(root1.Text(), root2.Text()); diff != "" {
		t.Errorf("tree text differs between identical parses (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(errs1, errs2); diff != "" {
		t.Errorf("syntax errors differ between identical parses (-first +second):\n%s", diff)
	}
}

func roundTrip(t *testing.T, src string) (text string, errs []SyntaxError) {
	t.Helper()
	root, errs := Parse(src, nil)
	require.Equal(t, src, root.Text(), "lossless: tree text must equal source exactly")
	return root.Text(), errs
}

func TestLosslessRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"hello world",
		"\\section{Intro}\nSome text.\n",
		"\\begin{document}\n\\section{Foo}\nbody\n\\end{document}\n",
		"$x + y$ and $$z$$",
		"\\label{foo}\\ref{foo}",
		"% a comment\n\\emph{word}",
		"\\begin{a}\\end{b}",
	}
	for _, src := range inputs {
		roundTrip(t, src)
	}
}

func TestMismatchedEnvironment(t *testing.T) {
	_, errs := roundTrip(t, "\\begin{a}\\end{b}")
	require.Len(t, errs, 1)
	require.Equal(t, ErrMismatchedEnv, errs[0].Code)
}

func TestEnvironmentMatches(t *testing.T) {
	root, errs := Parse("\\begin{document}\\end{document}", nil)
	require.Empty(t, errs)
	envs := root.ChildrenOfKind(KindEnvironment)
	require.Len(t, envs, 1)
}

func TestSectionExtent(t *testing.T) {
	src := "\\section{Foo}\nfoo body\n\\section{Bar}\nbar body\n"
	root, errs := Parse(src, nil)
	require.Empty(t, errs)
	sections := root.ChildrenOfKind(KindSection)
	require.Len(t, sections, 2)
}

func TestCitationParsesCurlyArg(t *testing.T) {
	root, errs := Parse("\\cite{foo,bar}", nil)
	require.Empty(t, errs)
	cites := root.ChildrenOfKind(KindCitation)
	require.Len(t, cites, 1)
}

func TestMissingRCurlyRecovers(t *testing.T) {
	src := "\\textbf{unterminated"
	root, errs := Parse(src, nil)
	require.Equal(t, src, root.Text())
	require.NotEmpty(t, errs)
}
