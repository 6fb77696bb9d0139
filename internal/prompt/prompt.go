// Package prompt implements the line-based interactive prompts used by
// create, delete and migrate.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/aikit/nbgov/internal/category"
	"github.com/aikit/nbgov/internal/metadata"
	"github.com/aikit/nbgov/internal/slugs"
	"github.com/aikit/nbgov/internal/ui"
	"github.com/aikit/nbgov/internal/validate"
)

var (
	// ErrCancelled is returned when the user interrupts a prompt or input
	// ends before an answer is given.
	ErrCancelled = errors.New("cancelled by user")
	// ErrNotInteractive is returned when a prompt is needed but stdin or
	// stdout is not a terminal.
	ErrNotInteractive = errors.New("input required but not running in a terminal")
)

// Prompter asks questions on Out and reads answers from In.
type Prompter struct {
	In  io.Reader
	Out io.Writer

	// Interactive is false when prompting is impossible; every prompt then
	// fails with ErrNotInteractive.
	Interactive bool

	reader  *bufio.Reader
	lines   chan lineResult
	pending bool
}

type lineResult struct {
	line string
	err  error
}

// New returns a Prompter over in and out.
func New(in io.Reader, out io.Writer, interactive bool) *Prompter {
	return &Prompter{In: in, Out: out, Interactive: interactive}
}

// Terminal returns a Prompter over the process's stdin and stdout, which is
// interactive only when both are terminals.
func Terminal() *Prompter {
	interactive := isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
	return New(os.Stdin, os.Stdout, interactive)
}

// readLine reads one line, returning ErrCancelled when ctx is cancelled
// (SIGINT) or input ends.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if !p.Interactive {
		return "", ErrNotInteractive
	}
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	if p.lines == nil {
		p.lines = make(chan lineResult, 1)
	}

	// A read abandoned by a cancelled prompt is picked up by the next one.
	if !p.pending {
		p.pending = true
		go func() {
			line, err := p.reader.ReadString('\n')
			p.lines <- lineResult{line: line, err: err}
		}()
	}

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.Out)
		return "", ErrCancelled
	case res := <-p.lines:
		p.pending = false
		if res.err != nil {
			if errors.Is(res.err, io.EOF) && res.line != "" {
				return strings.TrimSpace(res.line), nil
			}
			if errors.Is(res.err, io.EOF) {
				return "", ErrCancelled
			}
			return "", res.err
		}
		return strings.TrimSpace(res.line), nil
	}
}

// Validator checks an answer; a non-nil error is shown and the question is
// asked again.
type Validator func(string) error

// Text asks for a line of text. An empty answer yields def.
func (p *Prompter) Text(ctx context.Context, label, def string, v Validator) (string, error) {
	for {
		if def != "" {
			fmt.Fprintf(p.Out, "%s %s ", ui.Bold.Render(label), ui.Hint("("+def+")"))
		} else {
			fmt.Fprintf(p.Out, "%s ", ui.Bold.Render(label))
		}

		answer, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		if answer == "" {
			answer = def
		}
		if v != nil {
			if err := v(answer); err != nil {
				fmt.Fprintln(p.Out, ui.Error(err.Error()))
				continue
			}
		}
		return answer, nil
	}
}

// Confirm asks a yes/no question. An empty answer yields def.
func (p *Prompter) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	for {
		fmt.Fprintf(p.Out, "%s %s ", message, ui.Hint(hint))
		answer, err := p.readLine(ctx)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.Out, ui.Error("Please answer y or n"))
	}
}

// Category asks the user to pick a category by number or key.
func (p *Prompter) Category(ctx context.Context) (category.Category, error) {
	fmt.Fprintln(p.Out, ui.Bold.Render("Select notebook category:"))
	all := category.All()
	for i, c := range all {
		pol := c.Policy()
		fmt.Fprintf(p.Out, "  %d) %s %s\n", i+1, ui.Accent.Render(pol.DisplayName), ui.Hint("- "+pol.Description))
	}

	var picked category.Category
	_, err := p.Text(ctx, "Category:", "", func(answer string) error {
		if n, err := strconv.Atoi(answer); err == nil {
			if n < 1 || n > len(all) {
				return fmt.Errorf("choose a number between 1 and %d", len(all))
			}
			picked = all[n-1]
			return nil
		}
		c, err := category.Parse(answer)
		if err != nil {
			return err
		}
		picked = c
		return nil
	})
	if err != nil {
		return 0, err
	}
	return picked, nil
}

// Summary prints a key/value block ahead of a confirmation.
func (p *Prompter) Summary(rows [][2]string) {
	fmt.Fprintln(p.Out)
	fmt.Fprintln(p.Out, ui.Bold.Render("Summary:"))
	tbl := ui.NewTable(2)
	for _, r := range rows {
		tbl.AddRow("  "+r[0]+":", r[1])
	}
	fmt.Fprint(p.Out, tbl.String())
	fmt.Fprintln(p.Out)
}

// FieldLabel is the prompt label for an additional metadata field.
func FieldLabel(key string) string {
	return metadata.Label(key) + ":"
}

// NotebookName validates a notebook name answer.
func NotebookName(answer string) error {
	if answer == "" {
		return errors.New("Notebook name cannot be empty")
	}
	if !slugs.ValidNotebookName(answer) {
		return errors.New("Notebook name can only contain letters, numbers, hyphens, and underscores")
	}
	return nil
}

// Purpose validates a purpose answer.
func Purpose(answer string) error {
	if len(strings.TrimSpace(answer)) < validate.MinPurposeLength {
		return fmt.Errorf("Purpose must be at least %d characters", validate.MinPurposeLength)
	}
	return nil
}

// NonEmpty rejects empty answers.
func NonEmpty(field string) Validator {
	return func(answer string) error {
		if answer == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}
