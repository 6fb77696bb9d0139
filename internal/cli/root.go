// Package cli implements the nbgov command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aikit/nbgov/internal/audit"
	"github.com/aikit/nbgov/internal/config"
	"github.com/aikit/nbgov/internal/engine"
	"github.com/aikit/nbgov/internal/prompt"
	"github.com/aikit/nbgov/internal/ui"
	"github.com/aikit/nbgov/internal/vcs"
)

// App holds everything a command needs. Fields left nil are filled with
// the real implementations once the workspace is resolved.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Cwd    string
	Now    func() time.Time

	Git       vcs.Git
	Executor  engine.Executor
	Converter engine.Converter
	Prompter  *prompt.Prompter
	Logger    *zap.Logger
	Audit     *audit.Logger
	Display   *ui.DisplayContext

	out *ui.Printer
	ws  *config.Workspace

	// Global flags
	jsonOutput   bool
	verbose      bool
	configPath   string
	notebooksDir string
}

// NewApp returns an App wired to the process's stdio and working directory.
func NewApp() (*App, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return &App{
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Cwd:      cwd,
		Now:      time.Now,
		Prompter: prompt.Terminal(),
		Display:  ui.NewDisplayContext(os.Stdout),
	}, nil
}

// Execute runs the CLI against os.Args and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app, err := NewApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Errorf("cannot determine working directory: %v", err))
		return ExitEnvironment
	}
	return app.Run(ctx, os.Args[1:])
}

// Run executes one command line and returns its exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if a.Now == nil {
		a.Now = time.Now
	}
	a.out = ui.NewPrinter(a.Stdout, a.Stderr)

	root := NewRootCmd(a)
	root.SetArgs(args)
	root.SetIn(a.Stdin)
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)

	err := root.ExecuteContext(ctx)
	a.close()
	return a.report(err)
}

func (a *App) close() {
	if a.Audit != nil {
		if err := a.Audit.Close(); err != nil && a.Logger != nil {
			a.Logger.Warn("closing audit ledger", zap.Error(err))
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}

// report prints err (unless already reported) and returns the exit code.
func (a *App) report(err error) int {
	if err == nil {
		return ExitOK
	}
	code := exitCodeFor(err)

	var ee *ExitError
	if errors.As(err, &ee) && ee.Silent {
		return code
	}
	if code == ExitCancelled {
		if a.jsonOutput {
			a.outputError(ErrCancelled, "Cancelled by user", nil, "")
		} else {
			a.out.Error("Cancelled by user")
		}
		return code
	}
	if a.jsonOutput {
		a.outputError(ErrInternal, err.Error(), nil, "")
		return code
	}

	a.out.Error("%s", err)
	if ee != nil && ee.Suggestion != "" {
		fmt.Fprintln(a.Stderr, "  "+ui.Hint(ee.Suggestion))
	}
	return code
}

// NewRootCmd builds the command tree for a.
func NewRootCmd(a *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nbgov",
		Short: "nbgov - notebook governance for data teams",
		Long: `nbgov keeps a notebooks/ tree organized by governance category.

Notebooks are created from category templates and carry a metadata header in
their first cell. nbgov validates that header, enforces each category's
retention policy on delete and tag, records migrations of exploratory work,
and wraps papermill and nbconvert for execution and export.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output in JSON format (for script use)")
	rootCmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to nbgov.toml")
	rootCmd.PersistentFlags().StringVar(&a.notebooksDir, "notebooks-dir", "", "Notebooks root (overrides config)")

	rootCmd.AddCommand(
		newInitCmd(a),
		newCreateCmd(a),
		newValidateCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
		newStatsCmd(a),
		newRunCmd(a),
		newConvertCmd(a),
		newMigrateCmd(a),
		newMigrationsCmd(a),
		newTagCmd(a),
		newTagsCmd(a),
		newAuditCmd(a),
		newCategoriesCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

// setup resolves the workspace and fills in missing dependencies.
func (a *App) setup(cmd *cobra.Command) error {
	if a.out == nil {
		a.out = ui.NewPrinter(a.Stdout, a.Stderr)
	}
	if a.Logger == nil {
		logger, err := newLogger(a.verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.Logger = logger
	}
	if a.Display == nil {
		a.Display = ui.NewDisplayContextWithWidth(ui.DefaultTermWidth)
	}
	if a.Prompter == nil {
		a.Prompter = prompt.New(a.Stdin, a.Stdout, false)
	}
	if a.jsonOutput {
		a.Prompter.Interactive = false
	}

	// Skip workspace resolution for commands that don't need it
	switch cmd.Name() {
	case "help", "version", "completion", "categories":
		return nil
	}

	ws, err := config.Resolve(a.Cwd, a.configPath)
	if err != nil {
		return a.handleError(ErrConfigInvalid, fmt.Errorf("failed to load config: %w", err), "Fix nbgov.toml or pass --config")
	}
	if a.notebooksDir != "" {
		ws.OverrideNotebooksDir(a.absPath(a.notebooksDir))
	}
	a.ws = ws
	ui.ConfigureTheme(ws.Config.UI.Accent)
	a.Logger.Debug("workspace resolved",
		zap.String("root", ws.Root),
		zap.String("config", ws.ConfigPath),
		zap.String("notebooks", ws.NotebooksDir()))

	if a.Git == nil {
		a.Git = vcs.NewClient(ws.Root, a.Logger)
	}
	runner := &engine.ExecRunner{Stdout: a.Stdout, Stderr: a.Stderr, Logger: a.Logger}
	if a.Executor == nil {
		a.Executor = &engine.Papermill{Binary: ws.Config.GetPapermill(), Runner: runner}
	}
	if a.Converter == nil {
		a.Converter = &engine.NBConvert{Binary: ws.Config.GetJupyter(), Runner: runner}
	}
	return nil
}

// newLogger builds the process logger: production JSON encoding on stderr,
// warnings only unless verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// ledger opens the audit ledger on first use. A ledger that cannot be
// opened degrades to a disabled one with a logged warning.
func (a *App) ledger() *audit.Logger {
	if a.Audit != nil {
		return a.Audit
	}
	if a.ws == nil || !a.ws.Config.AuditEnabled() {
		a.Audit = audit.Disabled()
		return a.Audit
	}
	l, err := audit.Open(a.ws.StateDir())
	if err != nil {
		a.Logger.Warn("audit ledger unavailable", zap.Error(err))
		a.Audit = audit.Disabled()
		return a.Audit
	}
	a.Audit = l
	return l
}

// record appends an audit entry; failures are logged, never fatal.
func (a *App) record(ctx context.Context, entry audit.Entry) {
	if entry.Actor == "" && a.Git != nil {
		entry.Actor = a.Git.UserName(ctx)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = a.Now().UTC()
	}
	if err := a.ledger().Log(entry); err != nil {
		a.Logger.Warn("audit write failed", zap.String("op", entry.Operation), zap.Error(err))
	}
}
