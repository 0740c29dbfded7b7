package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"texlab/internal/graph"
	"texlab/internal/lineindex"
	"texlab/internal/query"
	"texlab/internal/workspace"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Parse a file and print its diagnostics, without starting a server",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	content, err := lineindex.DecodeSource(raw)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lang, ok := workspace.LanguageFromPath(path)
	if !ok {
		return fmt.Errorf("%s: unrecognized file extension", path)
	}

	ws := workspace.New(cfg, nil)
	uri := workspace.Normalize("file://" + path)
	doc := ws.Open(uri, content, lang, workspace.OwnerClient, nil)
	snap := ws.Snapshot()
	g := graph.Build(snap, doc)

	diags := query.Diagnostics(snap, g, doc)
	for _, d := range diags {
		pos, _ := doc.Lines.LineCol(d.Range[0])
		severity := "warning"
		if d.Severity == query.SeverityError {
			severity = "error"
		}
		fmt.Printf("%s:%d:%d: %s: [%s] %s\n", path, pos.Line+1, pos.Column+1, severity, d.Code, d.Message)
	}

	if len(diags) > 0 {
		for _, d := range diags {
			if d.Severity == query.SeverityError {
				os.Exit(1)
			}
		}
	}
	return nil
}
