package query

import (
	"sort"

	"texlab/internal/graph"
	"texlab/internal/workspace"
)

// Limit bounds how many completion items a single request returns after
// ranking (spec §4.9).
const Limit = 100

// ItemKind loosely mirrors the LSP CompletionItemKind taxonomy, narrowed to
// the handful of categories this engine's providers actually produce.
type ItemKind int

const (
	ItemCommand ItemKind = iota
	ItemEnvironment
	ItemLabel
	ItemCitation
	ItemEntryType
	ItemField
	ItemInclude
	ItemColor
	ItemColorModel
	ItemAcronym
	ItemGlossary
	ItemTikzLibrary
	ItemSnippet
)

// CompletionItem is one ranked candidate (spec §4.9, §9).
type CompletionItem struct {
	Label      string
	Kind       ItemKind
	Preselect  bool
	SortIndex  int
	InsertText string

	score int
}

// CompletionContext is everything a provider needs to decide whether it
// applies and what it should offer.
type CompletionContext struct {
	Snapshot *workspace.Snapshot
	Document *workspace.Document
	Graph    *graph.Graph
	Offset   uint32
	Prefix   string // the partial word immediately before Offset
}

// provider is one completion source; order here is the fixed composition
// order spec §4.9 names.
type providerFunc func(ctx CompletionContext) []CompletionItem

var providers = []providerFunc{
	entryTypeProvider,
	fieldProvider,
	citationProvider,
	includeProvider,
	colorProvider,
	colorModelProvider,
	acronymProvider,
	glossaryProvider,
	labelProvider,
	tikzLibraryProvider,
	environmentProvider,
	commandProvider,
}

// Complete runs every provider in fixed order, scores results with m,
// dedups by label, and returns up to Limit items ordered per spec §4.9:
// preselect desc, score desc, sort-index asc, label lex asc.
func Complete(ctx CompletionContext, m Matcher) []CompletionItem {
	var all []CompletionItem
	for _, p := range providers {
		all = append(all, p(ctx)...)
	}

	seen := map[string]bool{}
	var scored []CompletionItem
	for _, item := range all {
		if seen[item.Label] {
			continue
		}
		score, ok := m.Score(item.Label, ctx.Prefix)
		if !ok {
			continue
		}
		item.score = score
		seen[item.Label] = true
		scored = append(scored, item)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Preselect != b.Preselect {
			return a.Preselect
		}
		if a.score != b.score {
			return a.score > b.score
		}
		if a.SortIndex != b.SortIndex {
			return a.SortIndex < b.SortIndex
		}
		return a.Label < b.Label
	})

	if len(scored) > Limit {
		scored = scored[:Limit]
	}
	return scored
}

func entryTypeProvider(ctx CompletionContext) []CompletionItem {
	if ctx.Document.Language != workspace.LanguageBib {
		return nil
	}
	var out []CompletionItem
	for i, t := range bibEntryTypes {
		out = append(out, CompletionItem{Label: t, Kind: ItemEntryType, SortIndex: i})
	}
	return out
}

var bibEntryTypes = []string{
	"article", "book", "booklet", "conference", "inbook", "incollection",
	"inproceedings", "manual", "mastersthesis", "misc", "phdthesis",
	"proceedings", "techreport", "unpublished", "string", "preamble", "comment",
}

func fieldProvider(ctx CompletionContext) []CompletionItem {
	if ctx.Document.Language != workspace.LanguageBib {
		return nil
	}
	var out []CompletionItem
	for i, f := range bibFields {
		out = append(out, CompletionItem{Label: f, Kind: ItemField, SortIndex: i})
	}
	return out
}

var bibFields = []string{
	"author", "title", "journal", "year", "volume", "number", "pages",
	"publisher", "editor", "booktitle", "series", "address", "edition",
	"month", "note", "doi", "url", "isbn", "issn",
}

func citationProvider(ctx CompletionContext) []CompletionItem {
	if ctx.Document.Language != workspace.LanguageTex || ctx.Graph == nil {
		return nil
	}
	var out []CompletionItem
	for _, uri := range ctx.Graph.Preorder() {
		doc := ctx.Snapshot.Lookup(uri)
		if doc == nil || doc.Bib == nil {
			continue
		}
		for i, e := range doc.Bib.Semantics.Entries {
			out = append(out, CompletionItem{Label: e.Name.Text(doc.Text), Kind: ItemCitation, SortIndex: i})
		}
	}
	return out
}

func labelProvider(ctx CompletionContext) []CompletionItem {
	if ctx.Document.Language != workspace.LanguageTex || ctx.Graph == nil {
		return nil
	}
	var out []CompletionItem
	seen := map[string]bool{}
	for _, uri := range ctx.Graph.Preorder() {
		doc := ctx.Snapshot.Lookup(uri)
		if doc == nil || doc.Tex == nil {
			continue
		}
		for i, l := range doc.Tex.Semantics.Labels {
			name := l.Name.Text(doc.Text)
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, CompletionItem{Label: name, Kind: ItemLabel, SortIndex: i})
		}
	}
	return out
}

func includeProvider(ctx CompletionContext) []CompletionItem {
	// Contributes no items: include paths are not enumerated, whether or
	// not a distro file-name DB is present.
	if ctx.Document.Language != workspace.LanguageTex || ctx.Snapshot.Distro == nil {
		return nil
	}
	return nil
}

func colorProvider(ctx CompletionContext) []CompletionItem {
	if ctx.Document.Language != workspace.LanguageTex {
		return nil
	}
	var out []CompletionItem
	for i, c := range xcolorNames {
		out = append(out, CompletionItem{Label: c, Kind: ItemColor, SortIndex: i})
	}
	return out
}

var xcolorNames = []string{
	"red", "green", "blue", "cyan", "magenta", "yellow", "black", "white",
	"gray", "darkgray", "lightgray", "brown", "lime", "olive", "orange",
	"pink", "purple", "teal", "violet",
}

func colorModelProvider(ctx CompletionContext) []CompletionItem {
	if ctx.Document.Language != workspace.LanguageTex {
		return nil
	}
	var out []CompletionItem
	for i, m := range []string{"rgb", "RGB", "HTML", "gray", "cmyk", "hsb"} {
		out = append(out, CompletionItem{Label: m, Kind: ItemColorModel, SortIndex: i})
	}
	return out
}

func acronymProvider(ctx CompletionContext) []CompletionItem {
	return nil // acronym definitions are workspace-discovered, not built-in
}

func glossaryProvider(ctx CompletionContext) []CompletionItem {
	return nil
}

func tikzLibraryProvider(ctx CompletionContext) []CompletionItem {
	if ctx.Document.Language != workspace.LanguageTex {
		return nil
	}
	var out []CompletionItem
	for i, lib := range []string{"arrows", "automata", "positioning", "shapes", "calc", "decorations", "patterns"} {
		out = append(out, CompletionItem{Label: lib, Kind: ItemTikzLibrary, SortIndex: i})
	}
	return out
}

func environmentProvider(ctx CompletionContext) []CompletionItem {
	if ctx.Document.Language != workspace.LanguageTex {
		return nil
	}
	var out []CompletionItem
	for i, e := range componentEnvironments {
		out = append(out, CompletionItem{Label: e, Kind: ItemEnvironment, SortIndex: i})
	}
	if ctx.Graph != nil {
		seen := map[string]bool{}
		for _, uri := range ctx.Graph.Preorder() {
			doc := ctx.Snapshot.Lookup(uri)
			if doc == nil || doc.Tex == nil {
				continue
			}
			for _, env := range doc.Tex.Semantics.Environments {
				name := env.Text(doc.Text)
				if seen[name] {
					continue
				}
				seen[name] = true
				out = append(out, CompletionItem{Label: name, Kind: ItemEnvironment, SortIndex: len(out)})
			}
			for _, th := range doc.Tex.Semantics.TheoremDefinitions {
				name := th.Name.Text(doc.Text)
				if seen[name] {
					continue
				}
				seen[name] = true
				out = append(out, CompletionItem{Label: name, Kind: ItemEnvironment, SortIndex: len(out)})
			}
		}
	}
	return out
}

var componentEnvironments = []string{
	"document", "equation", "equation*", "align", "align*", "itemize",
	"enumerate", "description", "figure", "table", "tabular", "center",
	"verbatim", "quote", "abstract",
}

func commandProvider(ctx CompletionContext) []CompletionItem {
	if ctx.Document.Language != workspace.LanguageTex {
		return nil
	}
	var out []CompletionItem
	for i, c := range componentCommands {
		out = append(out, CompletionItem{Label: c, Kind: ItemCommand, SortIndex: i})
	}
	if ctx.Graph != nil {
		seen := map[string]bool{}
		for _, uri := range ctx.Graph.Preorder() {
			doc := ctx.Snapshot.Lookup(uri)
			if doc == nil || doc.Tex == nil {
				continue
			}
			for _, cmd := range doc.Tex.Semantics.Commands {
				name := cmd.Text(doc.Text)
				if seen[name] {
					continue
				}
				seen[name] = true
				out = append(out, CompletionItem{Label: name, Kind: ItemCommand, SortIndex: len(out)})
			}
		}
	}
	return out
}

var componentCommands = []string{
	"documentclass", "usepackage", "begin", "end", "section", "subsection",
	"label", "ref", "cite", "includegraphics", "input", "include", "textbf",
	"textit", "emph", "item",
}

// WordBefore returns the maximal run of command-name-like bytes immediately
// preceding offset in text, used to derive CompletionContext.Prefix.
func WordBefore(text string, offset uint32) string {
	i := int(offset)
	start := i
	for start > 0 && isWordRune(text[start-1]) {
		start--
	}
	return text[start:i]
}

func isWordRune(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
