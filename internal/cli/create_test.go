package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aikit/nbgov/internal/audit"
	"github.com/aikit/nbgov/internal/metadata"
	"github.com/aikit/nbgov/internal/testutil"
	"github.com/aikit/nbgov/internal/validate"
)

func TestCreateWithFlags(t *testing.T) {
	t.Parallel()
	ws := testutil.NewTestWorkspace(t).WithTemplates(templateFiles()...).Build()
	h := newHarness(t, ws)

	code := h.run("", "create", "--category", "exploratory", "--name", "churn-scratch",
		"--purpose", "Quick look at churn by region", "--author", "alex", "--yes")
	require.Equal(t, ExitOK, code, h.stderr.String())
	assert.Contains(t, h.stdout.String(), "Created notebooks/exploratory/churn-scratch.ipynb")

	path := ws.Abs("notebooks/exploratory/churn-scratch.ipynb")
	md := ws.Header("notebooks/exploratory/churn-scratch.ipynb")
	assert.Equal(t, "Churn Scratch", md.Title)
	assert.Equal(t, "alex", md.Value(metadata.FieldAuthor))
	assert.Equal(t, "2024-10-15", md.Value(metadata.FieldCreated))
	assert.True(t, validate.Notebook(path).Passed)

	entries := h.auditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, audit.OpCreate, entries[0].Operation)
	assert.Equal(t, "exploratory", entries[0].Category)
	assert.Equal(t, "notebooks/exploratory/churn-scratch.ipynb", entries[0].Path)
}

func TestCreateInteractive(t *testing.T) {
	t.Parallel()
	ws := testutil.NewTestWorkspace(t).WithTemplates(templateFiles()...).Build()
	h := newHarness(t, ws)

	input := "4\n" + // compliance
		"credit bias\n" + // rejected: space
		"credit_bias\n" +
		"short\n" + // rejected: too short
		"Audit the credit model for demographic bias\n" +
		"\n" + // author: accept git default
		"high\n" +
		"EU AI Act\n" +
		"2025-01-15\n" +
		"y\n"
	code := h.run(input, "create")
	require.Equal(t, ExitOK, code, h.stderr.String())

	out := h.stdout.String()
	assert.Contains(t, out, "can only contain letters")
	assert.Contains(t, out, "at least 10 characters")
	assert.Contains(t, out, "Summary:")

	md := ws.Header("notebooks/compliance/credit_bias.ipynb")
	assert.Equal(t, "compliance", md.Value(metadata.FieldCategory))
	assert.Equal(t, "sam", md.Value(metadata.FieldAuthor))
	assert.Equal(t, "high", md.Value("risk_level"))
	assert.Equal(t, "EU AI Act", md.Value("regulatory_framework"))
	assert.Equal(t, "2025-01-15", md.Value("review_date"))
}

func TestCreateFieldsFromFlags(t *testing.T) {
	t.Parallel()
	ws := testutil.NewTestWorkspace(t).WithTemplates(templateFiles()...).Build()
	h := newHarness(t, ws)

	code := h.run("", "create", "--category", "evaluations", "--name", "churn_eval",
		"--purpose", "Compare churn model v2 to baseline", "--field", "model_version=v2",
		"--field", "baseline_comparison=v1", "--yes")
	require.Equal(t, ExitOK, code, h.stderr.String())

	md := ws.Header("notebooks/evaluations/churn_eval.ipynb")
	assert.Equal(t, "sam", md.Value(metadata.FieldAuthor), "author defaults to git user.name")
	assert.Equal(t, "v2", md.Value("model_version"))
	assert.Equal(t, "v1", md.Value("baseline_comparison"))
}

func TestCreateExistingWritesNothing(t *testing.T) {
	t.Parallel()
	original := testutil.NotebookJSON(t, "# Keep me")
	ws := testutil.NewTestWorkspace(t).
		WithTemplates(templateFiles()...).
		WithFile("notebooks/tutorials/intro.ipynb", original).
		Build()
	h := newHarness(t, ws)

	code := h.run("", "create", "--category", "tutorials", "--name", "intro",
		"--purpose", "Introduce the feature store API", "--yes")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, h.stderr.String(), "already exists")
	assert.Equal(t, original, ws.ReadFile("notebooks/tutorials/intro.ipynb"))
}

func TestCreateMissingTemplateIsEnvironmentError(t *testing.T) {
	t.Parallel()
	ws := testutil.NewTestWorkspace(t).Build()
	h := newHarness(t, ws)

	code := h.run("", "create", "--category", "reporting", "--name", "weekly",
		"--purpose", "Weekly revenue summary", "--yes")
	assert.Equal(t, ExitEnvironment, code)
	assert.Contains(t, h.stderr.String(), "template not found")
	assert.Contains(t, h.stderr.String(), "nbgov init")
}

func TestCreateCancelled(t *testing.T) {
	t.Parallel()
	ws := testutil.NewTestWorkspace(t).WithTemplates(templateFiles()...).Build()
	h := newHarness(t, ws)

	// Input ends at the confirmation prompt.
	code := h.run("1\nscratch\nLook at the raw events table\n\n", "create")
	assert.Equal(t, ExitCancelled, code)
	assert.Contains(t, h.stderr.String(), "Cancelled by user")
	assert.False(t, ws.FileExists("notebooks/exploratory/scratch.ipynb"))

	code = h.run("1\nscratch\nLook at the raw events table\n\nn\n", "create")
	assert.Equal(t, ExitCancelled, code)
	assert.False(t, ws.FileExists("notebooks/exploratory/scratch.ipynb"))
}

func TestCreateNonInteractiveNeedsFlags(t *testing.T) {
	t.Parallel()
	ws := testutil.NewTestWorkspace(t).WithTemplates(templateFiles()...).Build()
	h := newHarness(t, ws)

	code := h.run("", "--json", "create", "--category", "exploratory")
	assert.Equal(t, ExitFailure, code)
	resp := h.jsonResponse()
	assert.Equal(t, false, resp["ok"])
	errInfo := resp["error"].(map[string]interface{})
	assert.Equal(t, ErrMissingArgument, errInfo["code"])
	assert.Contains(t, errInfo["suggestion"], "--name")
}

func TestCreateRejectsBadInput(t *testing.T) {
	t.Parallel()
	ws := testutil.NewTestWorkspace(t).WithTemplates(templateFiles()...).Build()
	h := newHarness(t, ws)

	assert.Equal(t, ExitFailure, h.run("", "create", "--category", "notebooks", "--yes"))
	assert.Contains(t, h.stderr.String(), "invalid category")

	assert.Equal(t, ExitFailure, h.run("", "create", "--category", "tutorials", "--name", "My Intro", "--yes"))
	assert.Contains(t, h.stderr.String(), "--name my-intro")

	assert.Equal(t, ExitFailure, h.run("", "create", "--category", "tutorials", "--name", "intro", "--purpose", "short", "--yes"))
	assert.Contains(t, h.stderr.String(), "at least 10 characters")
}
