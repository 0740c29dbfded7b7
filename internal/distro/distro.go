// Package distro detects the installed TeX distribution and exposes a
// file-name database used to resolve bare resource names (package classes,
// style files) that are not workspace-relative paths (spec §4.6, §2
// supplement grounded in texlab's distro crate).
package distro

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Kind identifies the detected TeX distribution.
type Kind int

const (
	Unknown Kind = iota
	TeXLive
	MikTeX
	Tectonic
)

func (k Kind) String() string {
	switch k {
	case TeXLive:
		return "TeXLive"
	case MikTeX:
		return "MikTeX"
	case Tectonic:
		return "Tectonic"
	default:
		return "Unknown"
	}
}

// FileNameScanner lists the absolute paths of files known to a TeX
// distribution. It is a seam: production wires it to `kpsewhich` output
// (KpsewhichScanner), tests supply a canned slice so the scan never touches a real
// filesystem.
type FileNameScanner interface {
	Scan() ([]string, error)
}

// Index is a read-only, build-once lookup from a bare resource name (e.g.
// "article.cls") to its absolute path, backed by an LRU cache over
// repeated lookups of the same name (spec §5: "build-once and shared
// read-only").
type Index struct {
	byName map[string]string
	cache  *lru.Cache[string, string]
}

// Build scans s once and constructs an Index. cacheSize bounds the LRU's
// resident entries; 0 selects a sensible default.
func Build(s FileNameScanner, cacheSize int) (*Index, error) {
	if cacheSize <= 0 {
		cacheSize = 2048
	}
	paths, err := s.Scan()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]string, len(paths))
	for _, p := range paths {
		byName[filepath.Base(p)] = p
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Index{byName: byName, cache: cache}, nil
}

// Resolve looks up name, consulting the LRU cache before the backing map.
func (idx *Index) Resolve(name string) (string, bool) {
	if idx == nil {
		return "", false
	}
	if p, ok := idx.cache.Get(name); ok {
		return p, p != ""
	}
	p, ok := idx.byName[name]
	idx.cache.Add(name, p)
	return p, ok
}

// Len reports how many distinct file names the index knows about.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.byName)
}

// KpsewhichScanner lists every file a TeX Live/MiKTeX `kpsewhich -all`
// invocation reports for the given file-name patterns.
type KpsewhichScanner struct {
	Patterns []string
}

// Scan shells out to kpsewhich. Each line of output is one absolute path.
func (k KpsewhichScanner) Scan() ([]string, error) {
	args := append([]string{"-all"}, k.Patterns...)
	out, err := exec.Command("kpsewhich", args...).Output()
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}

// Detect inspects the environment to guess which distribution is
// installed, preferring an explicit marker over a PATH probe so tests can
// pin a Kind without touching the real PATH.
func Detect() Kind {
	if _, err := os.Stat("Tectonic.toml"); err == nil {
		return Tectonic
	}
	if path, err := exec.LookPath("tectonic"); err == nil && path != "" {
		return Tectonic
	}
	if path, err := exec.LookPath("mtxrun"); err == nil && path != "" {
		return MikTeX
	}
	if path, err := exec.LookPath("kpsewhich"); err == nil && path != "" {
		return TeXLive
	}
	return Unknown
}
