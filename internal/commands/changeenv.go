package commands

import (
	"texlab/internal/semantics"
	"texlab/internal/syntax/green"
	"texlab/internal/syntax/latex"
	"texlab/internal/workspace"
)

// ChangeEnvironmentResult names the innermost environment enclosing a
// position and the ranges of its \begin and \end name tokens, so a caller
// can issue one edit per range (spec §3 supplement, original_source's
// change_env.rs).
type ChangeEnvironmentResult struct {
	BeginRange semantics.Span
	EndRange   semantics.Span
	OldName    string
	NewName    string
}

// ChangeEnvironment finds the innermost environment enclosing offset and
// reports the edits needed to rename both its \begin and \end to newName.
// Returns false if no environment encloses offset, or if its begin/end
// names don't already match (a malformed pair isn't safely renameable).
func ChangeEnvironment(doc *workspace.Document, offset uint32, newName string) (ChangeEnvironmentResult, bool) {
	if doc.Tex == nil {
		return ChangeEnvironmentResult{}, false
	}
	red := green.NewRoot(doc.Tex.Green)
	tok := red.FindToken(offset)
	if tok == nil {
		return ChangeEnvironmentResult{}, false
	}

	var env *green.Red
	for _, a := range append([]*green.Red{tok}, tok.Ancestors()...) {
		if a.Node() != nil && a.Node().Kind() == latex.KindEnvironment {
			env = a
			break
		}
	}
	if env == nil {
		return ChangeEnvironmentResult{}, false
	}

	begin := beginName(env)
	end := endName(env)
	if begin == nil || end == nil {
		return ChangeEnvironmentResult{}, false
	}
	oldName := begin.Text(doc.Text)
	if oldName != end.Text(doc.Text) {
		return ChangeEnvironmentResult{}, false
	}

	return ChangeEnvironmentResult{BeginRange: *begin, EndRange: *end, OldName: oldName, NewName: newName}, true
}
