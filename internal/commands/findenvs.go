// Package commands implements the pure graph/tree operations supplementing
// the query engine (spec §3 supplement): change-environment, find-envs,
// the dependency-graph debug dump, and the clean command, grounded in
// original_source's crates/commands.
package commands

import (
	"texlab/internal/semantics"
	"texlab/internal/syntax/green"
	"texlab/internal/syntax/latex"
	"texlab/internal/workspace"
)

// EnvironmentMatch is one \begin{name}...\end{name} pair enclosing a
// position.
type EnvironmentMatch struct {
	Name      semantics.Span
	FullRange semantics.Span
}

// FindEnvironments lists every environment enclosing offset, outermost
// first (the order original_source's find_envs.rs returns after its own
// innermost-first collection and reverse). Used both as a standalone
// command and as change_env's lookup.
func FindEnvironments(doc *workspace.Document, offset uint32) []EnvironmentMatch {
	if doc.Tex == nil {
		return nil
	}
	red := green.NewRoot(doc.Tex.Green)
	tok := red.FindToken(offset)
	if tok == nil {
		return nil
	}

	var innerFirst []EnvironmentMatch
	for _, a := range append([]*green.Red{tok}, tok.Ancestors()...) {
		if a.Node() == nil || a.Node().Kind() != latex.KindEnvironment {
			continue
		}
		name := beginName(a)
		if name == nil {
			continue
		}
		innerFirst = append(innerFirst, EnvironmentMatch{
			Name:      *name,
			FullRange: semantics.Span{Start: a.Start, End: a.End()},
		})
	}

	out := make([]EnvironmentMatch, len(innerFirst))
	for i, m := range innerFirst {
		out[len(innerFirst)-1-i] = m
	}
	return out
}

func beginName(env *green.Red) *semantics.Span {
	for _, c := range env.Children() {
		if c.Node() != nil && c.Node().Kind() == latex.KindEnvironmentBegin {
			if tok := firstWord(c); tok != nil {
				s := semantics.Span{Start: tok.Start, End: tok.End()}
				return &s
			}
		}
	}
	return nil
}

func endName(env *green.Red) *semantics.Span {
	for _, c := range env.Children() {
		if c.Node() != nil && c.Node().Kind() == latex.KindEnvironmentEnd {
			if tok := firstWord(c); tok != nil {
				s := semantics.Span{Start: tok.Start, End: tok.End()}
				return &s
			}
		}
	}
	return nil
}

func firstWord(r *green.Red) *green.Red {
	for _, t := range r.Tokens() {
		if t.Token().Kind() == latex.KindWord {
			return t
		}
	}
	return nil
}
