package workspace

import (
	"path/filepath"
	"strings"

	"texlab/internal/lineindex"
	"texlab/internal/semantics"
	"texlab/internal/syntax/bibtex"
	"texlab/internal/syntax/green"
	"texlab/internal/syntax/latex"
)

// Language identifies a document's content type, spec §3.
type Language int

const (
	LanguageTex Language = iota
	LanguageBib
	LanguageAux
	LanguageLog
	LanguageRoot // texlabroot / .texlabroot marker files
	LanguageTectonic
	LanguageFileList
)

// Owner identifies who last wrote a document's content, spec §3.
type Owner int

const (
	OwnerClient Owner = iota
	OwnerServer
	OwnerDistro
)

// Diagnostic is a document-local diagnostic produced at parse time (syntax
// errors); workspace- and project-level diagnostics are computed by the
// diagnostics query (spec §4.9) and are not stored on Document.
type Diagnostic struct {
	Code  string
	Start uint32
	End   uint32
}

// ParsedTex is the parsed-data payload for a Tex document (spec §3).
type ParsedTex struct {
	Green     *green.Node
	Semantics *semantics.Tex
}

// ParsedBib is the parsed-data payload for a Bib document.
type ParsedBib struct {
	Green     *green.Node
	Semantics *semantics.Bib
}

// Document is an immutable snapshot: {uri, text, line index, language,
// green tree, semantics, local diagnostics} (spec §3). Updates never mutate
// a Document in place; Workspace.Open/Edit replace the snapshot wholesale.
type Document struct {
	URI      URI
	Path     string // absolute filesystem path, "" if not file-backed
	Dir      string // Path's directory, "" if Path is ""
	Language Language
	Text     string
	Lines    *lineindex.Index
	Owner    Owner

	CursorLine *uint32
	CursorCol  *uint32

	Tex *ParsedTex // non-nil iff Language is LanguageTex or LanguageAux
	Bib *ParsedBib // non-nil iff Language == LanguageBib

	Diagnostics []Diagnostic
}

// NewDocument parses text according to language and builds an immutable
// Document snapshot. This is the only place parsing happens: once built, a
// Document's tree, semantics and line index are never recomputed (spec §3).
func NewDocument(uri URI, text string, lang Language, owner Owner) *Document {
	doc := &Document{
		URI:      uri,
		Language: lang,
		Text:     text,
		Lines:    lineindex.New(text),
		Owner:    owner,
	}
	if path := uriToPath(uri); path != "" {
		doc.Path = path
		doc.Dir = filepath.Dir(path)
	}

	switch lang {
	case LanguageTex:
		root, errs := latex.Parse(text, nil)
		doc.Tex = &ParsedTex{Green: root, Semantics: semantics.Extract(root)}
		for _, e := range errs {
			doc.Diagnostics = append(doc.Diagnostics, Diagnostic{Code: e.Code, Start: e.Start, End: e.End})
		}
	case LanguageAux:
		root, errs := latex.Parse(text, nil)
		sem := semantics.Extract(root)
		sem.LabelNumbers = semantics.ExtractAuxiliary(text)
		doc.Tex = &ParsedTex{Green: root, Semantics: sem}
		for _, e := range errs {
			doc.Diagnostics = append(doc.Diagnostics, Diagnostic{Code: e.Code, Start: e.Start, End: e.End})
		}
	case LanguageBib:
		root, errs := bibtex.Parse(text)
		doc.Bib = &ParsedBib{Green: root, Semantics: semantics.ExtractBib(root)}
		for _, e := range errs {
			doc.Diagnostics = append(doc.Diagnostics, Diagnostic{Code: e.Code, Start: e.Start, End: e.End})
		}
	}
	return doc
}

// PathFromURI converts a normalized file:// URI into an OS path; returns ""
// for non-file schemes.
func PathFromURI(uri URI) string {
	return uriToPath(uri)
}

// uriToPath converts a normalized file:// URI into an OS path; returns ""
// for non-file schemes.
func uriToPath(uri URI) string {
	s := string(uri)
	const prefix = "file://"
	if !strings.HasPrefix(s, prefix) {
		return ""
	}
	p := strings.TrimPrefix(s, prefix)
	if len(p) >= 3 && p[0] == '/' && isDriveLetter(p[1]) && p[2] == ':' {
		p = p[1:] // "/C:/x" -> "C:/x"
	}
	return filepath.FromSlash(p)
}

// LanguageFromPath guesses a Language from a file extension, per the
// external-interface file-format list (spec §6).
func LanguageFromPath(path string) (Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tex", ".sty", ".cls", ".def", ".lco", ".rnw":
		return LanguageTex, true
	case ".aux":
		return LanguageAux, true
	case ".bib", ".bibtex":
		return LanguageBib, true
	case ".log":
		return LanguageLog, true
	case ".fls":
		return LanguageFileList, true
	default:
		base := strings.ToLower(filepath.Base(path))
		if base == "texlabroot" || base == ".texlabroot" {
			return LanguageRoot, true
		}
		if base == "tectonic.toml" {
			return LanguageTectonic, true
		}
		return 0, false
	}
}
