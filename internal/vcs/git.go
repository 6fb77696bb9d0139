// Package vcs is the narrow version-control collaborator used by the
// migrate and tag commands. The Git interface keeps governance logic
// testable without a git binary; Client implements it by shelling out.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// ErrGitNotFound is returned when the git binary is not on PATH.
var ErrGitNotFound = errors.New("git not found in PATH")

// Git is the subset of version control nbgov relies on.
type Git interface {
	// CurrentRevision returns the commit HEAD points at.
	CurrentRevision(ctx context.Context) (string, error)
	// LastRevisionTouching returns the latest commit that changed path, or
	// "" if the file has no history.
	LastRevisionTouching(ctx context.Context, path string) (string, error)
	// CreateTag creates an annotated tag at HEAD.
	CreateTag(ctx context.Context, name, message string) error
	// ListTags lists tags matching a glob pattern.
	ListTags(ctx context.Context, pattern string) ([]string, error)
	// PushTag pushes one tag to remote.
	PushTag(ctx context.Context, remote, name string) error
	// UserName returns the configured user.name, or "" when unset.
	UserName(ctx context.Context) string
}

// CommandError is a failed git invocation.
type CommandError struct {
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s failed: %v", strings.Join(e.Args, " "), e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Client runs git in a working directory.
type Client struct {
	WorkDir string
	Binary  string
	Logger  *zap.Logger
}

// NewClient creates a git client for workDir.
func NewClient(workDir string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{WorkDir: workDir, Binary: "git", Logger: logger}
}

// Run executes git with args and returns trimmed stdout.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	c.Logger.Debug("executing git", zap.Strings("args", args), zap.String("dir", c.WorkDir))

	cmd := exec.CommandContext(ctx, c.Binary, args...)
	cmd.Dir = c.WorkDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: install git from https://git-scm.com/downloads", ErrGitNotFound)
		}
		return "", &CommandError{Args: args, Output: stderr.String(), Err: err}
	}
	return strings.TrimSpace(stdout.String()), nil
}

// CurrentRevision implements Git.
func (c *Client) CurrentRevision(ctx context.Context) (string, error) {
	return c.Run(ctx, "rev-parse", "HEAD")
}

// LastRevisionTouching implements Git.
func (c *Client) LastRevisionTouching(ctx context.Context, path string) (string, error) {
	return c.Run(ctx, "log", "-n", "1", "--format=%H", "--", path)
}

// CreateTag implements Git.
func (c *Client) CreateTag(ctx context.Context, name, message string) error {
	_, err := c.Run(ctx, "tag", "-a", name, "-m", message)
	return err
}

// ListTags implements Git.
func (c *Client) ListTags(ctx context.Context, pattern string) ([]string, error) {
	args := []string{"tag", "--list"}
	if pattern != "" {
		args = append(args, pattern)
	}
	out, err := c.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// PushTag implements Git.
func (c *Client) PushTag(ctx context.Context, remote, name string) error {
	_, err := c.Run(ctx, "push", remote, "refs/tags/"+name)
	return err
}

// UserName implements Git. Errors are swallowed: an unset user.name just
// means there is no default author to offer.
func (c *Client) UserName(ctx context.Context) string {
	name, err := c.Run(ctx, "config", "user.name")
	if err != nil {
		return ""
	}
	return name
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

var (
	_ Git = (*Client)(nil)
	_ Git = (*Fake)(nil)
)
