package query

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"texlab/internal/graph"
	"texlab/internal/semantics"
	"texlab/internal/syntax/buildlog"
	"texlab/internal/workspace"
)

// DiagnosticSeverity mirrors the LSP severity levels diagnostics are
// published at.
type DiagnosticSeverity int

const (
	SeverityError DiagnosticSeverity = iota
	SeverityWarning
)

// Diagnostic is one query-engine result: a range, a stable code, a
// human-readable message and a severity (spec §4.9: "union of (a) syntax
// errors from parsers; (b) build-log errors mapped to documents via
// relative_path; (c) semantic diagnostics").
type Diagnostic struct {
	Range    [2]uint32
	Code     string
	Message  string
	Severity DiagnosticSeverity
}

// semantic diagnostic codes.
const (
	CodeDuplicateLabel    = "DuplicateLabel"
	CodeUndefinedLabel    = "UndefinedLabel"
	CodeUnusedLabel       = "UnusedLabel"
	CodeDuplicateCitation = "DuplicateCitation"
	CodeUndefinedCitation = "UndefinedCitation"
	CodeUnusedEntry       = "UnusedEntry"
	CodeDuplicateImport   = "DuplicateImport"
)

// Diagnostics computes every diagnostic for doc: its own syntax errors,
// build-log errors from any Log document in the project whose
// relative_path names it, and project-wide semantic diagnostics
// (duplicate/undefined/unused labels and citations, duplicate imports).
func Diagnostics(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document) []Diagnostic {
	var out []Diagnostic
	for _, d := range doc.Diagnostics {
		out = append(out, Diagnostic{
			Range: [2]uint32{d.Start, d.End}, Code: d.Code, Message: d.Code, Severity: SeverityError,
		})
	}
	out = append(out, buildLogDiagnostics(snap, g, doc)...)
	out = append(out, semanticDiagnostics(snap, g, doc)...)
	return out
}

// DiagnosticsForAll computes Diagnostics for every URI in targets
// concurrently: a read-only worker pool over the (immutable) snapshot, since
// project-wide semantic diagnostics mean a single edit can change the
// results for every document sharing that project, not just the one
// changed. The returned slice is ordered the same as targets; a target with
// no open document gets a nil entry rather than an error.
func DiagnosticsForAll(ctx context.Context, snap *workspace.Snapshot, g *graph.Graph, targets []workspace.URI) ([][]Diagnostic, error) {
	grp, gctx := errgroup.WithContext(ctx)
	results := make([][]Diagnostic, len(targets))
	for i, t := range targets {
		i, t := i, t
		grp.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			doc := snap.Lookup(t)
			if doc == nil {
				return nil
			}
			results[i] = Diagnostics(snap, g, doc)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func buildLogDiagnostics(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document) []Diagnostic {
	var out []Diagnostic
	for _, uri := range preorderOrAll(snap, g) {
		d := snap.Lookup(uri)
		if d == nil || d.Language != workspace.LanguageLog {
			continue
		}
		for _, be := range buildlog.Scan(d.Text) {
			if !matchesRelativePath(doc, be.RelativePath) {
				continue
			}
			sev := SeverityError
			if be.Level == buildlog.LevelWarning {
				sev = SeverityWarning
			}
			msg := be.Message
			if be.Hint != "" {
				msg = fmt.Sprintf("%s (%s)", msg, be.Hint)
			}
			// Build-log errors have no syntax-tree range of their own; they
			// anchor to the start of the named document's text.
			out = append(out, Diagnostic{Range: [2]uint32{0, 0}, Code: "Build", Message: msg, Severity: sev})
		}
	}
	return out
}

func matchesRelativePath(doc *workspace.Document, relPath string) bool {
	if relPath == "" || doc.Path == "" {
		return false
	}
	return doc.Path == relPath || len(doc.Path) >= len(relPath) && doc.Path[len(doc.Path)-len(relPath):] == relPath
}

func semanticDiagnostics(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document) []Diagnostic {
	if doc.Tex != nil {
		return semanticTexDiagnostics(snap, g, doc)
	}
	if doc.Bib != nil {
		return semanticBibDiagnostics(snap, g, doc)
	}
	return nil
}

func semanticTexDiagnostics(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document) []Diagnostic {
	var out []Diagnostic

	defCounts := map[string]int{}
	refd := map[string]bool{}
	project := preorderOrAll(snap, g)
	for _, uri := range project {
		d := snap.Lookup(uri)
		if d == nil || d.Tex == nil {
			continue
		}
		for _, l := range d.Tex.Semantics.Labels {
			name := l.Name.Text(d.Text)
			if l.Kind == semantics.LabelDefinition {
				defCounts[name]++
			} else {
				refd[name] = true
			}
		}
	}

	for _, l := range doc.Tex.Semantics.Labels {
		name := l.Name.Text(doc.Text)
		switch l.Kind {
		case semantics.LabelDefinition:
			if defCounts[name] > 1 {
				out = append(out, Diagnostic{Range: [2]uint32{l.Name.Start, l.Name.End}, Code: CodeDuplicateLabel, Message: fmt.Sprintf("duplicate label %q", name), Severity: SeverityWarning})
			}
			if !refd[name] {
				out = append(out, Diagnostic{Range: [2]uint32{l.Name.Start, l.Name.End}, Code: CodeUnusedLabel, Message: fmt.Sprintf("unused label %q", name), Severity: SeverityWarning})
			}
		default:
			if defCounts[name] == 0 {
				out = append(out, Diagnostic{Range: [2]uint32{l.Name.Start, l.Name.End}, Code: CodeUndefinedLabel, Message: fmt.Sprintf("undefined label %q", name), Severity: SeverityError})
			}
		}
	}

	entryCounts := map[string]int{}
	cited := map[string]bool{}
	for _, uri := range project {
		d := snap.Lookup(uri)
		if d == nil {
			continue
		}
		if d.Bib != nil {
			for _, e := range d.Bib.Semantics.Entries {
				entryCounts[e.Name.Text(d.Text)]++
			}
		}
		if d.Tex != nil {
			for _, c := range d.Tex.Semantics.Citations {
				cited[c.Name.Text(d.Text)] = true
			}
		}
	}
	for _, c := range doc.Tex.Semantics.Citations {
		name := c.Name.Text(doc.Text)
		if entryCounts[name] == 0 {
			out = append(out, Diagnostic{Range: [2]uint32{c.Name.Start, c.Name.End}, Code: CodeUndefinedCitation, Message: fmt.Sprintf("undefined citation %q", name), Severity: SeverityError})
		}
	}

	out = append(out, duplicateImportDiagnostics(doc)...)
	return out
}

func semanticBibDiagnostics(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document) []Diagnostic {
	var out []Diagnostic
	entryCounts := map[string][]semantics.Span{}
	for _, e := range doc.Bib.Semantics.Entries {
		entryCounts[e.Name.Text(doc.Text)] = append(entryCounts[e.Name.Text(doc.Text)], e.Name)
	}

	cited := map[string]bool{}
	for _, uri := range preorderOrAll(snap, g) {
		d := snap.Lookup(uri)
		if d == nil || d.Tex == nil {
			continue
		}
		for _, c := range d.Tex.Semantics.Citations {
			cited[c.Name.Text(d.Text)] = true
		}
	}

	for _, e := range doc.Bib.Semantics.Entries {
		name := e.Name.Text(doc.Text)
		if len(entryCounts[name]) > 1 {
			out = append(out, Diagnostic{Range: [2]uint32{e.Name.Start, e.Name.End}, Code: CodeDuplicateCitation, Message: fmt.Sprintf("duplicate entry %q", name), Severity: SeverityWarning})
		}
		if !cited[name] {
			out = append(out, Diagnostic{Range: [2]uint32{e.Name.Start, e.Name.End}, Code: CodeUnusedEntry, Message: fmt.Sprintf("unused entry %q", name), Severity: SeverityWarning})
		}
	}
	return out
}

// duplicateImportDiagnostics flags \usepackage{x}...\usepackage{x} within
// the same document (spec §4.9: "duplicate imports"). Cross-file duplicate
// imports of the same package are out of scope here since a package may
// legitimately be loaded once per compilation unit from several included
// files without conflict; only same-document repetition is unambiguous.
func duplicateImportDiagnostics(doc *workspace.Document) []Diagnostic {
	var out []Diagnostic
	seen := map[string][2]uint32{}
	for _, l := range doc.Tex.Semantics.Links {
		if l.Kind != semantics.LinkPackage {
			continue
		}
		name := l.Path.Text(doc.Text)
		if _, ok := seen[name]; ok {
			out = append(out, Diagnostic{Range: [2]uint32{l.Path.Start, l.Path.End}, Code: CodeDuplicateImport, Message: fmt.Sprintf("duplicate import %q", name), Severity: SeverityWarning})
			continue
		}
		seen[name] = [2]uint32{l.Path.Start, l.Path.End}
	}
	return out
}
