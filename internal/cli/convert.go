package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aikit/nbgov/internal/audit"
	"github.com/aikit/nbgov/internal/engine"
	"github.com/aikit/nbgov/internal/ui"
)

func newConvertCmd(a *App) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "convert <input> <format>",
		Short: "Convert a notebook with jupyter nbconvert",
		Long: fmt.Sprintf(`Convert a notebook to another format with jupyter nbconvert.

Supported formats: %s.
The output defaults to the input path with the format's extension
(.html, .pdf, .md, .py, .slides.html).`, strings.Join(engine.Formats(), ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			input := a.absPath(args[0])
			if !fileExists(input) {
				return a.handleErrorMsg(ErrFileNotFound, fmt.Sprintf("notebook not found: %s", a.ws.Rel(input)), "")
			}
			format, err := engine.ParseFormat(args[1])
			if err != nil {
				return a.handleError(ErrInvalidInput, err, "")
			}
			out := engine.DefaultOutput(input, format)
			if output != "" {
				out = a.absPath(output)
			}

			if err := a.Converter.Convert(ctx, input, format, out); err != nil {
				return a.engineError(err, "pip install nbconvert")
			}

			entry := audit.Entry{
				Operation: audit.OpConvert,
				Path:      a.ws.Rel(input),
				Extra:     map[string]interface{}{"format": string(format), "output": a.ws.Rel(out)},
			}
			if c, err := a.categoryOf(input); err == nil {
				entry.Category = c.String()
			}
			a.record(ctx, entry)

			if a.jsonOutput {
				a.outputSuccess(map[string]interface{}{
					"input":  a.ws.Rel(input),
					"output": a.ws.Rel(out),
					"format": string(format),
				}, nil)
				return nil
			}
			a.out.Success("Converted to %s: %s", format, ui.FilePath(a.ws.Rel(out)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path")
	return cmd
}
