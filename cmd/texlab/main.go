// Package main implements the texlab CLI: a language server for LaTeX and
// BibTeX documents. Run without arguments to speak LSP over stdio; see the
// version and check subcommands for one-shot, editor-free uses.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"texlab/internal/config"
	"texlab/internal/logging"
	"texlab/internal/protocol"
)

const version = "0.1.0"

var (
	configPath string
	logFile    string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "texlab",
	Short: "Language server for LaTeX and BibTeX",
	Long: `texlab is a Language Server Protocol implementation for LaTeX and
BibTeX documents: completion, go-to-definition, hover, references, rename,
diagnostics, folding, document/workspace symbols, and inlay hints.

Run without arguments to start the server, speaking LSP over stdin/stdout.
This is the mode every LSP-capable editor invokes automatically; it is not
meant to be used interactively from a terminal.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if verbose {
			level = "debug"
		}
		if err := logging.Init(logging.Options{Level: level, File: logFile}); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			logging.L().Info("received shutdown signal")
			cancel()
		}()

		return protocol.Serve(ctx, stdio{}, cfg, configPath)
	},
}

// stdio adapts os.Stdin/os.Stdout to the single io.ReadWriteCloser
// protocol.Serve expects.
type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdio) Close() error                { return os.Stdin.Close() }

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", configPath, err)
	}
	return cfg, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the texlab version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(version)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a texlab config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Additionally write JSON logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(versionCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
