// Package graph builds the project graph: the directed multigraph over
// workspace Documents reached by following inclusion-like links, auxiliary
// artifacts, and file-list dependencies from a root document (spec §4.6),
// plus the project-root discovery walk that decides which document is that
// root (spec §4.7).
package graph

import (
	"path/filepath"
	"strings"

	"texlab/internal/config"
	"texlab/internal/semantics"
	"texlab/internal/syntax/filelist"
	"texlab/internal/workspace"
)

// EdgeKind classifies why an edge exists.
type EdgeKind int

const (
	EdgeDirectLink EdgeKind = iota
	EdgeAdditionalFiles
	EdgeArtifact
	EdgeFileList
)

// Edge is one directed project-graph edge, spec §3.
type Edge struct {
	Source   *workspace.Document
	Target   *workspace.Document
	Kind     EdgeKind
	Link     *semantics.Link // set iff Kind == EdgeDirectLink
	LinkKind semantics.LinkKind
}

// Graph is the pure value produced by Build: a directed multigraph over
// Documents reachable from Root, with deterministic insertion-order
// traversal (spec §4.6: "edges are explored in insertion order").
type Graph struct {
	Root  *workspace.Document
	edges map[workspace.URI][]Edge
	order []workspace.URI // preorder of discovery
}

// Edges returns the outgoing edges of doc, in insertion order.
func (g *Graph) Edges(doc *workspace.Document) []Edge {
	if g == nil {
		return nil
	}
	return g.edges[doc.URI]
}

// Preorder returns every document reachable from Root, in deterministic
// discovery order (Root first).
func (g *Graph) Preorder() []workspace.URI {
	if g == nil {
		return nil
	}
	return g.order
}

// Contains reports whether uri was reached while building g.
func (g *Graph) Contains(uri workspace.URI) bool {
	if g == nil {
		return false
	}
	for _, u := range g.order {
		if u == uri {
			return true
		}
	}
	return false
}

// Build performs the transitive-closure traversal described in spec §4.6,
// starting from root. Cycles are tolerated via a visited-set; edges are
// explored in the order semantics produced them, so Preorder() is
// deterministic for a given workspace snapshot.
func Build(snap *workspace.Snapshot, root *workspace.Document) *Graph {
	g := &Graph{Root: root, edges: map[workspace.URI][]Edge{}}
	visited := map[workspace.URI]bool{}
	var visit func(doc *workspace.Document)
	visit = func(doc *workspace.Document) {
		if visited[doc.URI] {
			return
		}
		visited[doc.URI] = true
		g.order = append(g.order, doc.URI)

		for _, e := range outgoingEdges(snap, doc) {
			g.edges[doc.URI] = append(g.edges[doc.URI], e)
			if e.Target != nil {
				visit(e.Target)
			}
		}
	}
	visit(root)
	return g
}

func outgoingEdges(snap *workspace.Snapshot, doc *workspace.Document) []Edge {
	if doc.Language == workspace.LanguageFileList {
		return fileListEdges(snap, doc)
	}
	var edges []Edge
	if doc.Tex != nil {
		for i := range doc.Tex.Semantics.Links {
			link := &doc.Tex.Semantics.Links[i]
			path := link.Path.Text(doc.Text)
			if target := ResolveLink(snap, doc, path, link.Kind); target != nil {
				edges = append(edges, Edge{Source: doc, Target: target, Kind: EdgeDirectLink, Link: link, LinkKind: link.Kind})
			}
		}
	}

	for _, e := range additionalFilesEdges(snap, doc) {
		edges = append(edges, e)
	}
	for _, e := range artifactEdges(snap, doc) {
		edges = append(edges, e)
	}
	for _, e := range fileListEdges(snap, doc) {
		edges = append(edges, e)
	}
	return edges
}

// defaultExtension returns the extension to try appending for a link kind
// when the given path has none, per spec §9's open question: kept
// consistent across definition, link, and completion queries by living in
// one place.
func defaultExtension(kind semantics.LinkKind) string {
	switch kind {
	case semantics.LinkLatex:
		return ".tex"
	case semantics.LinkBib:
		return ".bib"
	case semantics.LinkPackage:
		return ".sty"
	case semantics.LinkClass:
		return ".cls"
	default:
		return ""
	}
}

// ResolveLink tries candidate targets in this order: as given; with the
// default extension appended; relative to doc's directory; relative to each
// workspace folder; through the distro file-name DB. Neither the project
// root directory (when it differs from doc's directory) nor TEXINPUTS is
// searched. Exported so the document-link and go-to-definition queries can
// resolve a single link without building a full graph.
func ResolveLink(snap *workspace.Snapshot, doc *workspace.Document, path string, kind semantics.LinkKind) *workspace.Document {
	candidates := candidatePaths(doc, path, kind)
	for _, c := range candidates {
		if target := lookupByPath(snap, c); target != nil {
			return target
		}
	}
	for _, f := range snap.Folders {
		dir := workspace.PathFromURI(f.URI)
		if dir == "" {
			continue
		}
		for _, p := range append([]string{path}, maybeExt(path, kind)...) {
			if target := lookupByPath(snap, filepath.Join(dir, p)); target != nil {
				return target
			}
		}
	}
	if snap.Distro != nil && snap.Distro.Files != nil {
		name := filepath.Base(path)
		if ext := defaultExtension(kind); ext != "" && filepath.Ext(name) == "" {
			name += ext
		}
		if resolved, ok := snap.Distro.Files.Resolve(name); ok {
			if target := lookupByPath(snap, resolved); target != nil {
				return target
			}
		}
	}
	return nil
}

func candidatePaths(doc *workspace.Document, path string, kind semantics.LinkKind) []string {
	var out []string
	out = append(out, path)
	if ext := defaultExtension(kind); ext != "" && filepath.Ext(path) == "" {
		out = append(out, path+ext)
	}
	if doc.Dir != "" {
		for _, p := range append([]string{path}, maybeExt(path, kind)...) {
			out = append(out, filepath.Join(doc.Dir, p))
		}
	}
	return out
}

func maybeExt(path string, kind semantics.LinkKind) []string {
	if ext := defaultExtension(kind); ext != "" && filepath.Ext(path) == "" {
		return []string{path + ext}
	}
	return nil
}

func lookupByPath(snap *workspace.Snapshot, path string) *workspace.Document {
	var found *workspace.Document
	snap.Iter(func(d *workspace.Document) {
		if found != nil {
			return
		}
		if d.Path != "" && samePath(d.Path, path) {
			found = d
		}
	})
	return found
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b) || strings.EqualFold(filepath.Clean(a), filepath.Clean(b))
}

// additionalFilesEdges emits edges to sibling files discovered under the
// same project root (spec §4.6). "Sibling" means: same root directory,
// same base name, different recognized extension — the common `.tex` +
// `.bib` + `.aux` cluster a LaTeX project builds around.
func additionalFilesEdges(snap *workspace.Snapshot, doc *workspace.Document) []Edge {
	if doc.Dir == "" {
		return nil
	}
	base := strings.TrimSuffix(filepath.Base(doc.Path), filepath.Ext(doc.Path))
	var edges []Edge
	snap.Iter(func(d *workspace.Document) {
		if d == doc || d.Dir != doc.Dir {
			return
		}
		otherBase := strings.TrimSuffix(filepath.Base(d.Path), filepath.Ext(d.Path))
		if otherBase == base && d.Language != doc.Language {
			edges = append(edges, Edge{Source: doc, Target: d, Kind: EdgeAdditionalFiles})
		}
	})
	return edges
}

// artifactEdges emits edges to the .aux/.log and other build outputs
// corresponding to doc, if open in the workspace (spec §4.6).
func artifactEdges(snap *workspace.Snapshot, doc *workspace.Document) []Edge {
	if doc.Path == "" {
		return nil
	}
	stem := strings.TrimSuffix(doc.Path, filepath.Ext(doc.Path))
	var edges []Edge
	for _, ext := range []string{".aux", ".log", ".fls"} {
		target := lookupByPath(snap, stem+ext)
		if target != nil {
			edges = append(edges, Edge{Source: doc, Target: target, Kind: EdgeArtifact})
		}
	}
	return edges
}

// fileListEdges emits edges from a .fls document to every open document its
// parsed PWD/INPUT/OUTPUT records name (spec §4.4, §4.6). Falling back to
// "every sibling in the same directory" would connect files the build never
// actually touched, so this only trusts what the file list itself records.
func fileListEdges(snap *workspace.Snapshot, doc *workspace.Document) []Edge {
	if doc.Language != workspace.LanguageFileList || doc.Path == "" {
		return nil
	}
	fl := filelist.Parse(doc.Text)
	base := fl.WorkingDir
	if base == "" {
		base = doc.Dir
	}

	seen := map[string]struct{}{}
	var edges []Edge
	addAll := func(names []string) {
		for _, name := range names {
			abs := name
			if !filepath.IsAbs(abs) {
				abs = filepath.Join(base, name)
			}
			if _, ok := seen[abs]; ok {
				continue
			}
			target := lookupByPath(snap, abs)
			if target == nil || target == doc {
				continue
			}
			seen[abs] = struct{}{}
			edges = append(edges, Edge{Source: doc, Target: target, Kind: EdgeFileList})
		}
	}
	addAll(fl.Inputs)
	addAll(fl.Outputs)
	return edges
}

// FindRoot walks the directory tree upward from doc looking for a
// `.texlabroot`/`texlabroot`/`Tectonic.toml` marker (spec §4.7). It never
// touches the filesystem directly; exists reports whether a marker file is
// present at a candidate path, letting tests supply a fake filesystem.
func FindRoot(doc *workspace.Document, cfg *config.Config, exists func(path string) bool) string {
	if doc.Dir == "" {
		return ""
	}
	dir := doc.Dir
	for {
		for _, marker := range []string{".texlabroot", "texlabroot", "Tectonic.toml"} {
			if exists(filepath.Join(dir, marker)) {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if cfg != nil && len(cfg.RootDirs) > 0 {
		return cfg.RootDirs[0]
	}
	return doc.Dir
}
