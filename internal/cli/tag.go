package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aikit/nbgov/internal/audit"
	"github.com/aikit/nbgov/internal/category"
	"github.com/aikit/nbgov/internal/shellquote"
	"github.com/aikit/nbgov/internal/slugs"
	"github.com/aikit/nbgov/internal/ui"
	"github.com/aikit/nbgov/internal/vcs"
)

type tagOptions struct {
	identifier string
	message    string
	push       bool
	remote     string
}

func newTagCmd(a *App) *cobra.Command {
	opts := &tagOptions{}
	cmd := &cobra.Command{
		Use:   "tag <path>",
		Short: "Create an archival git tag for a notebook",
		Long: `Create an annotated git tag marking a notebook's state for audit.

The tag is named <category>/<identifier>-<YYYY-MM-DD>. Exploratory
notebooks are transient and cannot be tagged.

Examples:
  nbgov tag notebooks/compliance/credit-bias.ipynb \
    --identifier model-v1.0-audit --message "Q4 bias audit" --push`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTag(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.identifier, "identifier", "", "Tag identifier (default: derived from the notebook name)")
	cmd.Flags().StringVarP(&opts.message, "message", "m", "", "Tag message")
	cmd.Flags().BoolVar(&opts.push, "push", false, "Push the tag to the remote")
	cmd.Flags().StringVar(&opts.remote, "remote", "", "Remote to push to (default: git.remote from config, else origin)")
	return cmd
}

func (a *App) runTag(cmd *cobra.Command, arg string, opts *tagOptions) error {
	ctx := cmd.Context()
	p := a.absPath(arg)
	rel := a.ws.Rel(p)

	if !fileExists(p) {
		return a.handleErrorMsg(ErrFileNotFound, fmt.Sprintf("notebook not found: %s", rel), "")
	}
	c, err := a.categoryOf(p)
	if err != nil {
		return a.handleError(ErrInvalidCategory, err, "Move the notebook into a category directory")
	}
	if err := category.CheckTag(c); err != nil {
		return a.policyError(err)
	}

	identifier := opts.identifier
	if identifier == "" {
		identifier = slugs.Suggest(stem(p))
	}
	name, err := category.BuildTagName(c, identifier, a.Now())
	if err != nil {
		suggestion := ""
		if s := slugs.Suggest(identifier); s != "" && s != identifier {
			suggestion = "Try: --identifier " + s
		}
		return a.handleError(ErrInvalidTagName, err, suggestion)
	}
	message := opts.message
	if message == "" {
		message = fmt.Sprintf("Archive %s", rel)
	}

	if err := a.Git.CreateTag(ctx, name, message); err != nil {
		return a.gitError(err)
	}

	remote := opts.remote
	if remote == "" {
		remote = a.ws.Config.GetRemote()
	}
	pushed := false
	if opts.push {
		push := func() error { return a.Git.PushTag(ctx, remote, name) }
		var err error
		if a.jsonOutput {
			err = push()
		} else {
			err = ui.NewSpinner(a.Stdout, a.Display.IsTTY, fmt.Sprintf("Pushing %s to %s", name, remote)).While(push)
		}
		if err != nil {
			return a.handleError(ErrGitFailed, fmt.Errorf("tag %s created locally but push failed: %w", name, err),
				"Retry with: "+pushCommand(remote, name))
		}
		pushed = true
	}

	a.record(ctx, audit.Entry{
		Operation: audit.OpTag,
		Category:  c.String(),
		Path:      rel,
		Extra:     map[string]interface{}{"tag": name, "pushed": pushed},
	})

	if a.jsonOutput {
		data := map[string]interface{}{
			"tag":      name,
			"notebook": rel,
			"category": c.String(),
			"pushed":   pushed,
		}
		if pushed {
			data["remote"] = remote
		}
		a.outputSuccess(data, nil)
		return nil
	}

	a.out.Success("Created tag %s", ui.Accent.Render(name))
	if pushed {
		a.out.Success("Pushed to %s", remote)
	} else {
		a.out.Hint("Push with: %s", pushCommand(remote, name))
	}
	return nil
}

func pushCommand(remote, tag string) string {
	return shellquote.Join("git", "push", remote, "refs/tags/"+tag)
}

// gitError reports a failed git command; a missing git binary is an
// environment error.
func (a *App) gitError(err error) error {
	if errors.Is(err, vcs.ErrGitNotFound) {
		return a.handleError(ErrGitNotFound, err, "Install git from https://git-scm.com/downloads")
	}
	return a.handleError(ErrGitFailed, err, "")
}

func newTagsCmd(a *App) *cobra.Command {
	var categoryFilter string
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List archival tags grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if categoryFilter != "" {
				c, err := category.Parse(categoryFilter)
				if err != nil {
					return a.handleError(ErrInvalidCategory, err, "")
				}
				key = c.String()
			}

			tags, err := a.Git.ListTags(cmd.Context(), category.TagPattern(key))
			if err != nil {
				return a.gitError(err)
			}

			groups := map[string][]string{}
			for _, t := range tags {
				prefix, _ := category.SplitTagName(t)
				groups[prefix] = append(groups[prefix], t)
			}
			prefixes := make([]string, 0, len(groups))
			for prefix := range groups {
				prefixes = append(prefixes, prefix)
			}
			sort.Strings(prefixes)

			if a.jsonOutput {
				a.outputSuccess(map[string]interface{}{"tags": groups}, &Meta{Count: len(tags)})
				return nil
			}
			if len(tags) == 0 {
				a.out.Info("No archival tags found")
				return nil
			}
			for _, prefix := range prefixes {
				a.out.Printf("%s %s\n", ui.AccentBold.Render(prefix), ui.Hint(fmt.Sprintf("(%d)", len(groups[prefix]))))
				for _, t := range groups[prefix] {
					a.out.Printf("  %s\n", t)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&categoryFilter, "category", "", "Only list tags for this category")
	return cmd
}
