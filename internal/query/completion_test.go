package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"texlab/internal/graph"
	"texlab/internal/workspace"
)

// TestCompleteIsDeterministic guards the completion-list snapshot a client
// caches per keystroke: the same snapshot and prefix must always produce
// the same ordered list, or re-running a query on an unedited document
// would visibly reorder the popup.
func TestCompleteIsDeterministic(t *testing.T) {
	w := workspace.New(nil, nil)
	uri := workspace.Normalize("file:///tmp/foo.tex")
	doc := w.Open(uri, "\\sec", workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()
	g := graph.Build(snap, doc)
	ctx := CompletionContext{Snapshot: snap, Document: doc, Graph: g, Offset: 4, Prefix: "sec"}

	first := Complete(ctx, NewMatcher(SkimIgnoreCase))
	second := Complete(ctx, NewMatcher(SkimIgnoreCase))

	labels := func(items []CompletionItem) []string {
		out := make([]string, len(items))
		for i, it := range items {
			out[i] = it.Label
		}
		return out
	}
	if diff := cmp.Diff(labels(first), labels(second)); diff != "" {
		t.Errorf("completion order is not deterministic (-first +second):\n%s", diff)
	}
}

func TestCompleteDedupsAndOrdersByScore(t *testing.T) {
	w := workspace.New(nil, nil)
	uri := workspace.Normalize("file:///tmp/foo.tex")
	doc := w.Open(uri, "\\sec", workspace.LanguageTex, workspace.OwnerClient, nil)
	snap := w.Snapshot()
	g := graph.Build(snap, doc)

	ctx := CompletionContext{Snapshot: snap, Document: doc, Graph: g, Offset: 4, Prefix: "sec"}
	items := Complete(ctx, NewMatcher(SkimIgnoreCase))

	require.NotEmpty(t, items)
	labels := map[string]bool{}
	for _, it := range items {
		require.False(t, labels[it.Label], "duplicate label %q", it.Label)
		labels[it.Label] = true
	}
	for i := 1; i < len(items); i++ {
		require.GreaterOrEqual(t, items[i-1].score, items[i].score)
	}
	require.Contains(t, labels, "section")
}

func TestCompleteRespectsLimit(t *testing.T) {
	w := workspace.New(nil, nil)
	uri := workspace.Normalize("file:///tmp/foo.bib")
	doc := w.Open(uri, "", workspace.LanguageBib, workspace.OwnerClient, nil)
	snap := w.Snapshot()

	ctx := CompletionContext{Snapshot: snap, Document: doc, Offset: 0, Prefix: ""}
	items := Complete(ctx, NewMatcher(SkimIgnoreCase))
	require.LessOrEqual(t, len(items), Limit)
}

func TestWordBefore(t *testing.T) {
	require.Equal(t, "sec", WordBefore("\\sec", 4))
	require.Equal(t, "", WordBefore("\\", 1))
}

func TestSkimMatcherNoMatch(t *testing.T) {
	_, ok := SkimMatcher{}.Score("section", "xyz")
	require.False(t, ok)
}

func TestPrefixMatcherIgnoreCase(t *testing.T) {
	score, ok := PrefixMatcher{IgnoreCase: true}.Score("Section", "sec")
	require.True(t, ok)
	require.Greater(t, score, 0)
}
