// Package config handles workspace discovery and nbgov.toml configuration.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/aikit/nbgov/internal/validate"
)

// FileName is the workspace configuration file. Its presence also marks
// the workspace root.
const FileName = "nbgov.toml"

// Config represents nbgov.toml. Every key is optional.
type Config struct {
	// NotebooksDir is the notebooks root, relative to the workspace root.
	NotebooksDir string `toml:"notebooks_dir"`

	// MigrationsDir is where migration records are written.
	MigrationsDir string `toml:"migrations_dir"`

	Size    SizeConfig    `toml:"size"`
	Git     GitConfig     `toml:"git"`
	Audit   AuditConfig   `toml:"audit"`
	Engines EnginesConfig `toml:"engines"`
	UI      UIConfig      `toml:"ui"`
}

// SizeConfig holds the notebook size thresholds in megabytes.
type SizeConfig struct {
	WarnMB  float64 `toml:"warn_mb"`
	BlockMB float64 `toml:"block_mb"`
}

// GitConfig configures tag pushing.
type GitConfig struct {
	// Remote is the remote tags are pushed to (default "origin").
	Remote string `toml:"remote"`
}

// AuditConfig controls the governance event ledger.
type AuditConfig struct {
	// Enabled defaults to true; set to false to disable the ledger.
	Enabled *bool `toml:"enabled"`
}

// EnginesConfig overrides the external engine binaries.
type EnginesConfig struct {
	Papermill string `toml:"papermill"`
	Jupyter   string `toml:"jupyter"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an ANSI color code ("0"-"255") or hex color ("#RRGGBB").
	Accent string `toml:"accent"`
}

// Defaults.
const (
	DefaultNotebooksDir  = "notebooks"
	DefaultMigrationsDir = "docs/migrations"
	DefaultRemote        = "origin"
	DefaultPapermill     = "papermill"
	DefaultJupyter       = "jupyter"
)

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Thresholds().Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadIfExists loads path, returning an empty config when it is missing.
func LoadIfExists(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return LoadFrom(path)
}

// GetNotebooksDir returns the configured notebooks root (relative).
func (c *Config) GetNotebooksDir() string {
	if c.NotebooksDir != "" {
		return c.NotebooksDir
	}
	return DefaultNotebooksDir
}

// GetMigrationsDir returns the configured migrations directory (relative).
func (c *Config) GetMigrationsDir() string {
	if c.MigrationsDir != "" {
		return c.MigrationsDir
	}
	return DefaultMigrationsDir
}

// GetRemote returns the git remote tags are pushed to.
func (c *Config) GetRemote() string {
	if c.Git.Remote != "" {
		return c.Git.Remote
	}
	return DefaultRemote
}

// AuditEnabled reports whether governance events are recorded.
func (c *Config) AuditEnabled() bool {
	return c.Audit.Enabled == nil || *c.Audit.Enabled
}

// GetPapermill returns the papermill binary.
func (c *Config) GetPapermill() string {
	if c.Engines.Papermill != "" {
		return c.Engines.Papermill
	}
	return DefaultPapermill
}

// GetJupyter returns the jupyter binary used for nbconvert.
func (c *Config) GetJupyter() string {
	if c.Engines.Jupyter != "" {
		return c.Engines.Jupyter
	}
	return DefaultJupyter
}

// Thresholds converts the configured megabyte limits to byte thresholds,
// filling in defaults for unset values.
func (c *Config) Thresholds() validate.Thresholds {
	t := validate.DefaultThresholds()
	if c.Size.WarnMB > 0 {
		t.Warn = int64(c.Size.WarnMB * validate.MiB)
	}
	if c.Size.BlockMB > 0 {
		t.Block = int64(c.Size.BlockMB * validate.MiB)
	}
	return t
}

// DefaultFileContent is written by "nbgov init".
const DefaultFileContent = `# nbgov workspace configuration
# This file marks the workspace root.

# notebooks_dir = "notebooks"
# migrations_dir = "docs/migrations"

# [size]
# warn_mb = 5.0
# block_mb = 10.0

# [git]
# remote = "origin"

# [audit]
# enabled = true

# [engines]
# papermill = "papermill"
# jupyter = "jupyter"

# [ui]
# accent = "#A78BFA"
`
