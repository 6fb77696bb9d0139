package cli

import (
	"errors"
	"fmt"

	"github.com/aikit/nbgov/internal/engine"
	"github.com/aikit/nbgov/internal/prompt"
	"github.com/aikit/nbgov/internal/templates"
	"github.com/aikit/nbgov/internal/vcs"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitCancelled   = 2
	ExitEnvironment = 3
)

// ExitError carries a command failure and the exit code it maps to.
type ExitError struct {
	Code       int
	Err        error
	Suggestion string
	// Silent errors have already been reported (JSON envelope, validation
	// report) and are not printed again.
	Silent bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// failed returns a silent failure for commands that already printed their
// own report.
func failed() error {
	return &ExitError{Code: ExitFailure, Silent: true}
}

// exitCodeFor maps an error to its exit code: cancellation is 2, a missing
// tool or template is an environment error (3), anything else is 1.
func exitCodeFor(err error) int {
	var ee *ExitError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &ee):
		return ee.Code
	case errors.Is(err, prompt.ErrCancelled):
		return ExitCancelled
	case errors.Is(err, engine.ErrEngineMissing),
		errors.Is(err, vcs.ErrGitNotFound),
		errors.Is(err, templates.ErrTemplateNotFound):
		return ExitEnvironment
	default:
		return ExitFailure
	}
}
