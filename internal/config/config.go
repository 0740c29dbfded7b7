// Package config loads the engine's workspace-wide configuration: matcher
// selection for completion ranking, the diagnostics debounce delay,
// build/clean/forward-search/format command templates, and directory
// overrides for generated aux/out/pdf files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"texlab/internal/logging"
)

// Matcher selects the completion-ranking algorithm a query uses.
type Matcher string

const (
	MatcherSkim             Matcher = "skim"
	MatcherSkimIgnoreCase   Matcher = "skim-ignore-case"
	MatcherPrefix           Matcher = "prefix"
	MatcherPrefixIgnoreCase Matcher = "prefix-ignore-case"
)

// CommandTemplate is one external-process invocation template (build,
// clean, forward-search, format). Args may contain %f (file), %p (PDF
// path), and %l (line number) placeholders, expanded by the command's
// caller at invocation time.
type CommandTemplate struct {
	Executable string   `yaml:"executable"`
	Args       []string `yaml:"args"`
}

// Config holds the full set of values the engine reads from configuration.
type Config struct {
	Matcher         Matcher         `yaml:"matcher"`
	CompletionLimit int             `yaml:"completion_limit"`
	DebounceDelay   time.Duration   `yaml:"debounce_delay"`
	Build           CommandTemplate `yaml:"build"`
	Clean           CommandTemplate `yaml:"clean"`
	ForwardSearch   CommandTemplate `yaml:"forward_search"`
	Format          CommandTemplate `yaml:"format"`
	AuxDir          string          `yaml:"aux_dir"`
	OutDir          string          `yaml:"out_dir"`
	PdfDir          string          `yaml:"pdf_dir"`
	RootDirs        []string        `yaml:"root_dirs"`
	Logging         LoggingConfig   `yaml:"logging"`
}

// LoggingConfig configures the zap/lumberjack sink (spec §1.1).
type LoggingConfig struct {
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	MaxSize int    `yaml:"max_size_mb"`
}

// DefaultConfig returns the configuration the engine falls back to when no
// file is found: a case-insensitive skim matcher, a 300ms diagnostics
// debounce, and info-level logging to stderr.
func DefaultConfig() *Config {
	return &Config{
		Matcher:         MatcherSkimIgnoreCase,
		CompletionLimit: 100,
		DebounceDelay:   300 * time.Millisecond,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults if the
// file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	logging.BootDebug("loading config from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Boot("config file not found, using defaults: %s", path)
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		logging.BootError("failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		logging.BootError("failed to parse config file %s: %v", path, err)
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.Boot("config loaded: matcher=%s debounce=%s", cfg.Matcher, cfg.DebounceDelay)
	return cfg, nil
}

// Save writes the configuration to a YAML file, creating parent directories
// as needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("config: create directory for %s: %w", path, err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides lets deployment environments override a handful of
// values without editing the YAML file on disk.
func (c *Config) applyEnvOverrides() {
	if m := os.Getenv("TEXLAB_MATCHER"); m != "" {
		c.Matcher = Matcher(m)
	}
	if d := os.Getenv("TEXLAB_DEBOUNCE"); d != "" {
		if parsed, err := time.ParseDuration(d); err == nil {
			c.DebounceDelay = parsed
		}
	}
	if lvl := os.Getenv("TEXLAB_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
}

// ValidMatchers lists all supported completion matchers.
var ValidMatchers = []Matcher{MatcherSkim, MatcherSkimIgnoreCase, MatcherPrefix, MatcherPrefixIgnoreCase}

// Validate reports whether c's fields are self-consistent. A structurally
// valid YAML document can still carry a nonsensical value (e.g. a negative
// debounce), so Load runs this after every parse.
func (c *Config) Validate() error {
	valid := false
	for _, m := range ValidMatchers {
		if c.Matcher == m {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("config: unknown matcher %q (valid: %v)", c.Matcher, ValidMatchers)
	}
	if c.DebounceDelay < 0 {
		return fmt.Errorf("config: debounce_delay must be >= 0, got %s", c.DebounceDelay)
	}
	if c.CompletionLimit <= 0 {
		return fmt.Errorf("config: completion_limit must be > 0, got %d", c.CompletionLimit)
	}
	return nil
}

// RootMarker is a parsed Tectonic.toml root-marker file: a project root can
// be pinned by this file's presence, and its [output] table can itself
// override the aux/out directories.
type RootMarker struct {
	Output struct {
		Dir string `toml:"dir"`
	} `toml:"output"`
}

// LoadTectonicToml parses a Tectonic.toml root marker. An empty file, or one
// lacking an [output] table, is not an error — RootMarker's fields simply
// stay at their zero values.
func LoadTectonicToml(path string) (*RootMarker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var rm RootMarker
	if err := toml.Unmarshal(data, &rm); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &rm, nil
}

// ExpandPath expands ${userHome}, ${workspaceFolder}, and $ENV_VAR /
// %ENV_VAR%-style references in a path placeholder.
func ExpandPath(path, workspaceFolder string) string {
	home, _ := os.UserHomeDir()
	out := os.Expand(path, func(key string) string {
		switch key {
		case "userHome":
			return home
		case "workspaceFolder":
			return workspaceFolder
		default:
			return os.Getenv(key)
		}
	})
	return expandPercentEnv(out)
}

// expandPercentEnv expands Windows-style %VAR% references, which os.Expand
// does not understand (it only handles $VAR/${VAR}).
func expandPercentEnv(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			out = append(out, s[i])
			continue
		}
		end := -1
		for j := i + 1; j < len(s); j++ {
			if s[j] == '%' {
				end = j
				break
			}
		}
		if end == -1 {
			out = append(out, s[i:]...)
			break
		}
		out = append(out, os.Getenv(s[i+1:end])...)
		i = end
	}
	return string(out)
}
