// Package query implements the read-only query engine (spec §4.9):
// completion, definition, hover, references, rename, diagnostics, folding,
// highlights, symbols, and inlay hints, all consuming a workspace snapshot
// and a project graph.
package query

import (
	"strings"

	"golang.org/x/text/cases"
)

// foldCase applies Unicode case folding, not just ASCII lower-casing, so
// that matcher IgnoreCase modes behave correctly for the accented command
// and label names a non-English LaTeX document can contain.
var foldCase = cases.Fold()

func fold(s string) string {
	return foldCase.String(s)
}

// Matcher scores a candidate label against a user-typed pattern. Returning
// (0, false) means "does not match" (spec §9: "an interface score(choice,
// pattern) -> option<int>").
type Matcher interface {
	Score(label, pattern string) (int, bool)
}

// SkimMatcher scores a subsequence match: every rune of pattern must appear
// in label in order, not necessarily contiguous. The score rewards tighter,
// earlier matches so "sec" ranks "section" above "subsection".
type SkimMatcher struct{ IgnoreCase bool }

func (m SkimMatcher) Score(label, pattern string) (int, bool) {
	l, p := label, pattern
	if m.IgnoreCase {
		l, p = fold(l), fold(p)
	}
	if p == "" {
		return 1000 - len(l), true
	}
	li, pi := 0, 0
	firstMatch := -1
	lastMatch := -1
	for li < len(l) && pi < len(p) {
		if l[li] == p[pi] {
			if firstMatch < 0 {
				firstMatch = li
			}
			lastMatch = li
			pi++
		}
		li++
	}
	if pi < len(p) {
		return 0, false
	}
	span := lastMatch - firstMatch + 1
	score := 1000 - firstMatch*4 - (span - len(p))
	return score, true
}

// PrefixMatcher scores an exact-prefix match only.
type PrefixMatcher struct{ IgnoreCase bool }

func (m PrefixMatcher) Score(label, pattern string) (int, bool) {
	l, p := label, pattern
	if m.IgnoreCase {
		l, p = fold(l), fold(p)
	}
	if !strings.HasPrefix(l, p) {
		return 0, false
	}
	return 1000 - len(l), true
}

// MatcherKind names one of the four matcher implementations, for config
// wiring (spec §4.9).
type MatcherKind string

const (
	Skim             MatcherKind = "skim"
	SkimIgnoreCase   MatcherKind = "skim-ignore-case"
	Prefix           MatcherKind = "prefix"
	PrefixIgnoreCase MatcherKind = "prefix-ignore-case"
)

// NewMatcher constructs the Matcher a MatcherKind names.
func NewMatcher(kind MatcherKind) Matcher {
	switch kind {
	case Skim:
		return SkimMatcher{IgnoreCase: false}
	case Prefix:
		return PrefixMatcher{IgnoreCase: false}
	case PrefixIgnoreCase:
		return PrefixMatcher{IgnoreCase: true}
	default:
		return SkimMatcher{IgnoreCase: true}
	}
}
