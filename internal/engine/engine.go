// Package engine delegates notebook execution and format conversion to
// external tools: papermill for parameterized runs and jupyter nbconvert
// for conversion.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"go.uber.org/zap"

	"github.com/aikit/nbgov/internal/shellquote"
)

// ErrEngineMissing is returned when an engine binary cannot be found.
var ErrEngineMissing = errors.New("engine not installed")

// Runner executes an external command.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands as subprocesses, streaming their output.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	if r.Logger != nil {
		r.Logger.Debug("executing engine", zap.String("command", shellquote.Join(name, args...)))
	}
	if _, err := exec.LookPath(name); err != nil {
		return &MissingError{Binary: name}
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", shellquote.Join(name, args...), err)
	}
	return nil
}

// MissingError names the binary that could not be found.
type MissingError struct {
	Binary string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s not found in PATH", e.Binary)
}

// Is makes errors.Is(err, ErrEngineMissing) match.
func (e *MissingError) Is(target error) bool {
	return target == ErrEngineMissing
}
