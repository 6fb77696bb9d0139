package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aikit/nbgov/internal/category"
)

// Workspace is a resolved workspace root and its configuration.
type Workspace struct {
	// Root is the absolute workspace root.
	Root string
	// ConfigPath is the nbgov.toml path, or "" if none was found.
	ConfigPath string
	Config     *Config
	// notebooksOverride replaces the configured notebooks root when set.
	notebooksOverride string
}

// Markers that identify a workspace root, in order of preference. A
// pyproject.toml only counts when a notebooks directory sits beside it.
var markers = []string{FileName, "pyproject.toml"}

// FindRoot walks upward from start looking for a workspace marker. It
// returns "" when none is found.
func FindRoot(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	for {
		for _, marker := range markers {
			if !fileExists(filepath.Join(dir, marker)) {
				continue
			}
			if marker == FileName || dirExists(filepath.Join(dir, DefaultNotebooksDir)) {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Resolve finds the workspace for cwd. configPath, when non-empty,
// overrides the discovered nbgov.toml. If no marker is found the workspace
// root is cwd itself, so notebooks resolve to ./notebooks.
func Resolve(cwd, configPath string) (*Workspace, error) {
	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, err
	}

	root := FindRoot(absCwd)
	if root == "" {
		root = absCwd
	}

	ws := &Workspace{Root: root}
	switch {
	case configPath != "":
		ws.ConfigPath = configPath
		ws.Config, err = LoadFrom(configPath)
	case fileExists(filepath.Join(root, FileName)):
		ws.ConfigPath = filepath.Join(root, FileName)
		ws.Config, err = LoadFrom(ws.ConfigPath)
	default:
		ws.Config = &Config{}
	}
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// OverrideNotebooksDir points the workspace at an explicit notebooks root.
// A relative dir is taken against the workspace root; callers holding a
// different base directory should pass an absolute path.
func (w *Workspace) OverrideNotebooksDir(dir string) {
	w.notebooksOverride = dir
}

func (w *Workspace) abs(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(w.Root, rel)
}

// NotebooksDir returns the absolute notebooks root.
func (w *Workspace) NotebooksDir() string {
	if w.notebooksOverride != "" {
		return filepath.Clean(w.abs(w.notebooksOverride))
	}
	return w.abs(w.Config.GetNotebooksDir())
}

// TemplatesDir returns the directory holding category templates.
func (w *Workspace) TemplatesDir() string {
	return filepath.Join(w.NotebooksDir(), "templates")
}

// CategoryDir returns the directory notebooks of c live in.
func (w *Workspace) CategoryDir(c category.Category) string {
	return filepath.Join(w.NotebooksDir(), c.String())
}

// TemplatePath returns the template notebook for c.
func (w *Workspace) TemplatePath(c category.Category) string {
	return filepath.Join(w.TemplatesDir(), c.Policy().TemplateFile)
}

// MigrationsDir returns the absolute migration records directory.
func (w *Workspace) MigrationsDir() string {
	return w.abs(w.Config.GetMigrationsDir())
}

// StateDir returns the directory for nbgov's own state (the audit ledger).
func (w *Workspace) StateDir() string {
	return filepath.Join(w.Root, ".nbgov")
}

// Rel returns path relative to the workspace root, or path unchanged if it
// lies outside it.
func (w *Workspace) Rel(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(w.Root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
