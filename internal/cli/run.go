package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aikit/nbgov/internal/audit"
	"github.com/aikit/nbgov/internal/engine"
	"github.com/aikit/nbgov/internal/ui"
)

func newRunCmd(a *App) *cobra.Command {
	var (
		params keyValueFlag
		kernel string
	)
	cmd := &cobra.Command{
		Use:   "run <input> <output>",
		Short: "Execute a notebook with parameters (papermill)",
		Long: `Execute a notebook with papermill, writing the executed copy to output.

Parameter values are typed before they are injected: "true" and "false"
become booleans, all-digit values integers, other numbers floats, and
everything else stays a string.

Examples:
  nbgov run notebooks/reporting/weekly.ipynb out/weekly-2024-10-15.ipynb \
    -p start_date=2024-10-08 -p end_date=2024-10-15 -p top_n=10`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			input, output := a.absPath(args[0]), a.absPath(args[1])
			if !fileExists(input) {
				return a.handleErrorMsg(ErrFileNotFound, fmt.Sprintf("notebook not found: %s", a.ws.Rel(input)), "")
			}
			parsed, err := engine.ParseParameters(params.Values())
			if err != nil {
				return a.handleError(ErrInvalidInput, err, "Use -p key=value")
			}

			if !a.jsonOutput {
				a.out.Info("Executing %s", ui.FilePath(a.ws.Rel(input)))
			}
			if err := a.Executor.Execute(ctx, input, output, parsed, kernel); err != nil {
				return a.engineError(err, "pip install papermill")
			}

			values := make(map[string]interface{}, len(parsed))
			for _, p := range parsed {
				values[p.Name] = p.Value
			}
			entry := audit.Entry{
				Operation: audit.OpRun,
				Path:      a.ws.Rel(input),
				Extra:     map[string]interface{}{"output": a.ws.Rel(output), "parameters": values},
			}
			if c, err := a.categoryOf(input); err == nil {
				entry.Category = c.String()
			}
			a.record(ctx, entry)

			if a.jsonOutput {
				a.outputSuccess(map[string]interface{}{
					"input":      a.ws.Rel(input),
					"output":     a.ws.Rel(output),
					"parameters": values,
					"kernel":     kernel,
				}, nil)
				return nil
			}
			a.out.Success("Executed notebook written to %s", ui.FilePath(a.ws.Rel(output)))
			return nil
		},
	}
	cmd.Flags().VarP(&params, "param", "p", "Parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&kernel, "kernel", "k", "", "Kernel name (default: the notebook's kernel)")
	return cmd
}

// engineError reports an engine failure; a missing binary is an
// environment error with an install hint.
func (a *App) engineError(err error, install string) error {
	if errors.Is(err, engine.ErrEngineMissing) {
		return a.handleError(ErrEngineMissing, err, "Install it with: "+install)
	}
	return a.handleError(ErrEngineFailed, err, "")
}
