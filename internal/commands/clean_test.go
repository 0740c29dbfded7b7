package commands

import (
	"testing"

	"github.com/stretchr/testify/require"

	"texlab/internal/config"
	"texlab/internal/workspace"
)

func TestNewCleanCommandBuildsLatexmkInvocation(t *testing.T) {
	w := workspace.New(nil, nil)
	doc := w.Open("file:///tmp/project/main.tex", `\documentclass{article}`, workspace.LanguageTex, workspace.OwnerClient, nil)

	cfg := config.DefaultConfig()
	exists := func(string) bool { return false }

	cmd, err := NewCleanCommand(doc, cfg, exists, CleanAuxiliary)
	require.NoError(t, err)
	require.Equal(t, "latexmk", cmd.Executable)
	require.Contains(t, cmd.Args, "-c")
	require.Contains(t, cmd.Args, doc.Path)
}

func TestNewCleanCommandRejectsNonLocalDocument(t *testing.T) {
	w := workspace.New(nil, nil)
	doc := w.Open("untitled:scratch", "", workspace.LanguageTex, workspace.OwnerClient, nil)

	_, err := NewCleanCommand(doc, config.DefaultConfig(), func(string) bool { return false }, CleanArtifacts)
	require.Error(t, err)
}
