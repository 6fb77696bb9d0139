package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aikit/nbgov/internal/audit"
	"github.com/aikit/nbgov/internal/category"
	"github.com/aikit/nbgov/internal/migration"
	"github.com/aikit/nbgov/internal/prompt"
	"github.com/aikit/nbgov/internal/ui"
	"github.com/aikit/nbgov/internal/vcs"
)

type migrateOptions struct {
	destination string
	rationale   string
	delete      bool
	yes         bool
}

func newMigrateCmd(a *App) *cobra.Command {
	opts := &migrateOptions{}
	cmd := &cobra.Command{
		Use:   "migrate <path>",
		Short: "Record that a notebook's work moved into production code",
		Long: `Record the migration of a notebook's work to a destination (usually a
module in the codebase).

A migration record is written to docs/migrations/<date>-<name>.md with the
current commit and the last commit that touched the notebook. With --delete
the notebook is removed afterwards, but only when its category's retention
policy allows it (exploratory notebooks) and after confirmation.

Examples:
  nbgov migrate notebooks/exploratory/churn-features.ipynb \
    --destination src/churn/features.py \
    --rationale "Feature logic is stable and now part of the pipeline" --delete`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMigrate(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.destination, "destination", "", "Where the work now lives")
	cmd.Flags().StringVar(&opts.rationale, "rationale", "", "Why the work was migrated")
	cmd.Flags().BoolVar(&opts.delete, "delete", false, "Delete the notebook after recording (exploratory only)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Skip the delete confirmation")
	return cmd
}

func (a *App) runMigrate(cmd *cobra.Command, arg string, opts *migrateOptions) error {
	ctx := cmd.Context()
	p := a.absPath(arg)
	rel := a.ws.Rel(p)

	if _, ok := a.relNotebooks(p); !ok {
		return a.handleErrorMsg(ErrFileOutsideNotebook,
			fmt.Sprintf("%s is not inside the notebooks directory", rel),
			fmt.Sprintf("Notebooks live under %s", a.ws.Rel(a.ws.NotebooksDir())))
	}
	if !fileExists(p) {
		return a.handleErrorMsg(ErrFileNotFound, fmt.Sprintf("notebook not found: %s", rel), "")
	}
	c, err := a.categoryOf(p)
	if err != nil {
		return a.handleError(ErrInvalidCategory, err, "Move the notebook into a category directory")
	}
	if opts.delete {
		if err := category.CheckDelete(c); err != nil {
			return a.policyError(err)
		}
	}

	destination, err := a.requireText(ctx, opts.destination, "Destination (where the work now lives):", "Destination", "--destination")
	if err != nil {
		return err
	}
	rationale, err := a.requireText(ctx, opts.rationale, "Rationale:", "Rationale", "--rationale")
	if err != nil {
		return err
	}

	var warnings []Warning
	commit, err := a.Git.CurrentRevision(ctx)
	if err != nil {
		warnings = append(warnings, a.gitWarning("current commit", err))
	}
	notebookCommit, err := a.Git.LastRevisionTouching(ctx, rel)
	if err != nil {
		warnings = append(warnings, a.gitWarning("notebook history", err))
	}

	deleteNotebook := false
	if opts.delete {
		deleteNotebook = opts.yes
		if !opts.yes {
			deleteNotebook, err = a.Prompter.Confirm(ctx, fmt.Sprintf("Delete %s after recording the migration?", ui.FilePath(rel)), false)
			if err != nil {
				return a.promptError(err, "--yes")
			}
		}
	}

	record := migration.NewRecord(migration.Record{
		Notebook:       rel,
		Category:       c.String(),
		Destination:    destination,
		Rationale:      rationale,
		Commit:         commit,
		NotebookCommit: notebookCommit,
		Author:         a.Git.UserName(ctx),
		Deleted:        deleteNotebook,
	}, a.Now())

	recordPath, err := migration.Write(a.ws.MigrationsDir(), record)
	if err != nil {
		return a.handleError(ErrFileWriteError, err, "")
	}
	a.record(ctx, audit.Entry{
		Operation: audit.OpMigrate,
		Category:  c.String(),
		Path:      rel,
		Actor:     record.Author,
		Extra:     map[string]interface{}{"record": a.ws.Rel(recordPath), "destination": destination},
	})

	if deleteNotebook {
		if err := os.Remove(p); err != nil {
			return a.handleError(ErrFileWriteError, fmt.Errorf("migration recorded but delete failed: %w", err), "")
		}
		a.record(ctx, audit.Entry{Operation: audit.OpDelete, Category: c.String(), Path: rel, Actor: record.Author})
	}

	if a.jsonOutput {
		a.outputSuccessWithWarnings(map[string]interface{}{
			"record":   a.ws.Rel(recordPath),
			"id":       record.ID,
			"notebook": rel,
			"deleted":  deleteNotebook,
		}, warnings, nil)
		return nil
	}

	for _, w := range warnings {
		a.out.Warning("%s", w.Message)
	}
	a.out.Success("Migration recorded in %s", ui.FilePath(a.ws.Rel(recordPath)))
	switch {
	case deleteNotebook:
		a.out.Success("Deleted %s", ui.FilePath(rel))
	case opts.delete:
		a.out.Info("Kept %s", ui.FilePath(rel))
	}
	return nil
}

// requireText returns value, or prompts for it when empty.
func (a *App) requireText(ctx context.Context, value, label, field, flag string) (string, error) {
	if value != "" {
		return value, nil
	}
	answer, err := a.Prompter.Text(ctx, label, "", prompt.NonEmpty(field))
	if err != nil {
		return "", a.promptError(err, flag)
	}
	return answer, nil
}

// gitWarning logs a git failure that does not stop the command.
func (a *App) gitWarning(what string, err error) Warning {
	a.Logger.Warn("git lookup failed", zap.String("what", what), zap.Error(err))
	msg := fmt.Sprintf("could not read %s from git: %v", what, err)
	if errors.Is(err, vcs.ErrGitNotFound) {
		msg = fmt.Sprintf("could not read %s: git is not installed", what)
	}
	return Warning{Code: ErrGitFailed, Message: msg}
}

// policyError reports a retention policy refusal.
func (a *App) policyError(err error) error {
	var pe *category.PolicyError
	if errors.As(err, &pe) {
		return a.handleErrorWithDetails(ErrPolicyRefused, err, "", map[string]string{
			"category": pe.Category.String(),
			"action":   string(pe.Action),
		})
	}
	return a.handleError(ErrInvalidCategory, err, "")
}
