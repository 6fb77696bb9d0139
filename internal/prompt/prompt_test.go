package prompt

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aikit/nbgov/internal/category"
)

func newPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return New(strings.NewReader(input), &out, true), &out
}

func TestTextRetriesUntilValid(t *testing.T) {
	t.Parallel()
	p, out := newPrompter("bad name\ngood_name\n")

	got, err := p.Text(context.Background(), "Name:", "", NotebookName)
	require.NoError(t, err)
	assert.Equal(t, "good_name", got)
	assert.Contains(t, out.String(), "can only contain letters")
}

func TestTextDefault(t *testing.T) {
	t.Parallel()
	p, _ := newPrompter("\n")
	got, err := p.Text(context.Background(), "Author:", "alex", nil)
	require.NoError(t, err)
	assert.Equal(t, "alex", got)
}

func TestTextLastLineWithoutNewline(t *testing.T) {
	t.Parallel()
	p, _ := newPrompter("sam")
	got, err := p.Text(context.Background(), "Author:", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "sam", got)
}

func TestEOFCancels(t *testing.T) {
	t.Parallel()
	p, _ := newPrompter("")
	_, err := p.Text(context.Background(), "Name:", "", nil)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestInterruptCancels(t *testing.T) {
	t.Parallel()
	pr, pw := io.Pipe()
	defer pw.Close()
	var out bytes.Buffer
	p := New(pr, &out, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Confirm(ctx, "Delete?", false)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestNotInteractive(t *testing.T) {
	t.Parallel()
	p := New(strings.NewReader("y\n"), io.Discard, false)
	_, err := p.Confirm(context.Background(), "Delete?", false)
	assert.ErrorIs(t, err, ErrNotInteractive)
}

func TestConfirm(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		def   bool
		want  bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"maybe\ny\n", false, true},
	}
	for _, tt := range tests {
		p, _ := newPrompter(tt.input)
		got, err := p.Confirm(context.Background(), "Continue?", tt.def)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestCategory(t *testing.T) {
	t.Parallel()

	p, out := newPrompter("9\nnotebooks\n4\n")
	c, err := p.Category(context.Background())
	require.NoError(t, err)
	assert.Equal(t, category.Compliance, c)
	assert.Contains(t, out.String(), "Exploratory")
	assert.Contains(t, out.String(), "between 1 and 5")
	assert.Contains(t, out.String(), "invalid category")

	p, _ = newPrompter("reporting\n")
	c, err = p.Category(context.Background())
	require.NoError(t, err)
	assert.Equal(t, category.Reporting, c)
}

func TestValidators(t *testing.T) {
	t.Parallel()
	assert.Error(t, NotebookName(""))
	assert.NoError(t, NotebookName("q3_report"))
	assert.Error(t, Purpose("too short"))
	assert.NoError(t, Purpose("long enough purpose"))
	assert.Error(t, NonEmpty("Author")(""))
	assert.Equal(t, "Risk Level:", FieldLabel("risk_level"))
}
