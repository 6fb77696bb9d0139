package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aikit/nbgov/internal/audit"
	"github.com/aikit/nbgov/internal/category"
	"github.com/aikit/nbgov/internal/metadata"
	"github.com/aikit/nbgov/internal/prompt"
	"github.com/aikit/nbgov/internal/slugs"
	"github.com/aikit/nbgov/internal/templates"
	"github.com/aikit/nbgov/internal/ui"
	"github.com/aikit/nbgov/internal/validate"
)

type createOptions struct {
	category string
	name     string
	title    string
	purpose  string
	author   string
	fields   keyValueFlag
	yes      bool
}

func newCreateCmd(a *App) *cobra.Command {
	opts := &createOptions{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a notebook from its category template",
		Long: `Create a notebook from its category template.

Prompts for anything not given as a flag: category, name, purpose, author
(defaults to git user.name) and the category's additional fields. The
notebook is written to notebooks/<category>/<name>.ipynb and an existing
file is never overwritten.

Examples:
  nbgov create
  nbgov create --category compliance --name credit-bias-review \
    --purpose "Audit the credit model for demographic bias" \
    --field risk_level=high --field regulatory_framework="EU AI Act" --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCreate(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.category, "category", "", "Notebook category ("+strings.Join(category.Names(), ", ")+")")
	cmd.Flags().StringVar(&opts.name, "name", "", "Notebook name (letters, numbers, hyphens, underscores)")
	cmd.Flags().StringVar(&opts.title, "title", "", "Heading for the notebook (default: derived from name)")
	cmd.Flags().StringVar(&opts.purpose, "purpose", "", "What question the notebook answers (min 10 characters)")
	cmd.Flags().StringVar(&opts.author, "author", "", "Author name (default: git user.name)")
	cmd.Flags().Var(&opts.fields, "field", "Additional metadata field as key=value (repeatable)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func (a *App) runCreate(cmd *cobra.Command, opts *createOptions) error {
	ctx := cmd.Context()
	p := a.Prompter

	var (
		c   category.Category
		err error
	)
	if opts.category != "" {
		c, err = category.Parse(opts.category)
		if err != nil {
			return a.handleError(ErrInvalidCategory, err, "Run 'nbgov categories' to see the registry")
		}
	} else {
		c, err = p.Category(ctx)
		if err != nil {
			return a.promptError(err, "--category")
		}
	}
	policy := c.Policy()

	name := opts.name
	if name != "" {
		if err := prompt.NotebookName(name); err != nil {
			return a.handleError(ErrInvalidInput, err, "Try: --name "+slugs.Suggest(name))
		}
	} else {
		name, err = p.Text(ctx, "Notebook name (without .ipynb):", "", prompt.NotebookName)
		if err != nil {
			return a.promptError(err, "--name")
		}
	}

	purpose := opts.purpose
	if purpose != "" {
		if err := prompt.Purpose(purpose); err != nil {
			return a.handleError(ErrInvalidInput, err, "Describe the question the notebook answers")
		}
	} else {
		label := fmt.Sprintf("What question does this notebook answer? (min %d characters)", validate.MinPurposeLength)
		purpose, err = p.Text(ctx, label, "", prompt.Purpose)
		if err != nil {
			return a.promptError(err, "--purpose")
		}
	}

	author := opts.author
	if author == "" {
		def := a.Git.UserName(ctx)
		if p.Interactive {
			author, err = p.Text(ctx, "Author name:", def, prompt.NonEmpty("Author"))
			if err != nil {
				return a.promptError(err, "--author")
			}
		} else {
			author = def
		}
		if author == "" {
			return a.handleErrorMsg(ErrMissingArgument, "author is required", "Pass --author or set git config user.name")
		}
	}

	given := opts.fields.Map()
	var fields []templates.Field
	for _, key := range policy.AdditionalFields {
		value, ok := given[key]
		if !ok && p.Interactive {
			value, err = p.Text(ctx, prompt.FieldLabel(key), "", nil)
			if err != nil {
				return a.promptError(err, "--field "+key+"=...")
			}
		}
		fields = append(fields, templates.Field{Key: key, Value: value})
	}
	for key := range given {
		if !containsString(policy.AdditionalFields, key) {
			a.Logger.Sugar().Debugw("ignoring field not used by category", "field", key, "category", c.String())
		}
	}

	if !opts.yes && !a.jsonOutput {
		rows := [][2]string{
			{"Category", policy.DisplayName},
			{"Name", name},
			{"Purpose", purpose},
			{"Author", author},
		}
		for _, f := range fields {
			rows = append(rows, [2]string{metadata.Label(f.Key), f.Value})
		}
		p.Summary(rows)
		ok, err := p.Confirm(ctx, "Create notebook?", true)
		if err != nil {
			return a.promptError(err, "--yes")
		}
		if !ok {
			return prompt.ErrCancelled
		}
	}

	res, err := templates.Create(templates.CreateOptions{
		Workspace: a.ws,
		Category:  c,
		Name:      name,
		Title:     opts.title,
		Purpose:   purpose,
		Author:    author,
		Fields:    fields,
		Now:       a.Now,
	})
	if err != nil {
		switch {
		case errors.Is(err, templates.ErrNotebookExists):
			return a.handleError(ErrFileExists, err, "Choose a different name or delete the existing notebook")
		case errors.Is(err, templates.ErrTemplateNotFound):
			return a.handleError(ErrTemplateNotFound, err, "Run 'nbgov init' to install the default templates")
		case errors.Is(err, templates.ErrInvalidTemplate):
			return a.handleError(ErrTemplateInvalid, err, "Give the template a markdown first cell")
		case errors.Is(err, templates.ErrInvalidName):
			return a.handleError(ErrInvalidInput, err, "")
		default:
			return a.handleError(ErrFileWriteError, err, "")
		}
	}

	a.record(ctx, audit.Entry{
		Operation: audit.OpCreate,
		Category:  c.String(),
		Path:      res.RelativePath,
		Actor:     author,
	})

	if a.jsonOutput {
		a.outputSuccess(map[string]interface{}{
			"path":     res.RelativePath,
			"category": c.String(),
			"name":     stem(res.FilePath),
			"created":  res.Created,
		}, nil)
		return nil
	}

	a.out.Success("Created %s", ui.FilePath(res.RelativePath))
	a.out.Hint("Governance: %s, retention: %s", policy.Governance, policy.Retention)
	a.out.Hint("Next: jupyter lab %s", res.RelativePath)
	return nil
}

// promptError maps a prompt failure: cancellation passes through (exit 2),
// a missing terminal names the flag that supplies the value.
func (a *App) promptError(err error, flag string) error {
	if errors.Is(err, prompt.ErrNotInteractive) {
		return a.handleError(ErrMissingArgument, err, "Pass "+flag+" when not running in a terminal")
	}
	return err
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
