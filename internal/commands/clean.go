package commands

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"texlab/internal/config"
	"texlab/internal/graph"
	"texlab/internal/workspace"
)

// CleanTarget distinguishes latexmk's two cleaning modes (spec §3
// supplement, original_source's clean.rs).
type CleanTarget int

const (
	CleanAuxiliary CleanTarget = iota
	CleanArtifacts
)

// CleanCommand is a latexmk invocation ready to Run, built by resolving
// doc's project root and output directory the same way the build command
// does.
type CleanCommand struct {
	Executable string
	Args       []string
}

// NewCleanCommand builds the latexmk -c/-C invocation for doc. exists backs
// the project-root marker-file walk (see graph.FindRoot).
func NewCleanCommand(doc *workspace.Document, cfg *config.Config, exists func(string) bool, target CleanTarget) (CleanCommand, error) {
	if doc.Path == "" {
		return CleanCommand{}, fmt.Errorf("commands: document %q is not a local file", doc.URI)
	}

	root := graph.FindRoot(doc, cfg, exists)
	flag := "-c"
	outDir := ""
	if cfg != nil {
		outDir = cfg.AuxDir
	}
	if target == CleanArtifacts {
		flag = "-C"
		if cfg != nil {
			outDir = cfg.PdfDir
		}
	}
	if outDir == "" {
		outDir = root
	} else if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(root, outDir)
	}

	return CleanCommand{
		Executable: "latexmk",
		Args:       []string{fmt.Sprintf("-outdir=%s", outDir), flag, doc.Path},
	}, nil
}

// Run executes the clean command, discarding its output (spec §3
// supplement: "I/O / shell failures are reported as diagnostics where
// user-visible, otherwise logged" — the caller decides which).
func (c CleanCommand) Run() error {
	cmd := exec.Command(c.Executable, c.Args...)
	return cmd.Run()
}
