// Package citeproc renders a parsed BibTeX entry into a short citation
// string for hover and inlay hints (spec §1 names this an external
// collaborator interface; original_source's citeproc crate shows its
// actual shape, which this package implements directly since it is a pure
// function with no process boundary).
package citeproc

import "strings"

// Entry is the subset of a BibTeX entry's fields citeproc needs. The
// callers in internal/query (hover and inlay hints) fill only Type and Key
// from semantics.BibEntry; the other fields stay empty. This package does
// no tree-walking of its own.
type Entry struct {
	Type     string
	Key      string
	Author   string
	Title    string
	Year     string
	Journal  string
	Booktitle string
	Publisher string
}

// Render formats e as an "Author (Year). Title. Journal." style string,
// the shape the original Rust implementation's output.rs produces,
// omitting any field the entry lacks.
func Render(e Entry) string {
	var b strings.Builder
	if e.Author != "" {
		b.WriteString(e.Author)
		b.WriteString(" ")
	}
	if e.Year != "" {
		b.WriteString("(")
		b.WriteString(e.Year)
		b.WriteString("). ")
	}
	if e.Title != "" {
		b.WriteString(e.Title)
		b.WriteString(". ")
	}
	switch strings.ToLower(e.Type) {
	case "article":
		if e.Journal != "" {
			b.WriteString(e.Journal)
			b.WriteString(".")
		}
	case "inproceedings", "incollection", "conference":
		if e.Booktitle != "" {
			b.WriteString("In ")
			b.WriteString(e.Booktitle)
			b.WriteString(".")
		}
	case "book", "inbook":
		if e.Publisher != "" {
			b.WriteString(e.Publisher)
			b.WriteString(".")
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return e.Key
	}
	return out
}
