package templates

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aikit/nbgov/internal/category"
	"github.com/aikit/nbgov/internal/config"
	"github.com/aikit/nbgov/internal/metadata"
	"github.com/aikit/nbgov/internal/notebook"
	"github.com/aikit/nbgov/internal/testutil"
	"github.com/aikit/nbgov/internal/validate"
)

func fixedNow() time.Time { return time.Date(2024, 10, 15, 9, 30, 0, 0, time.UTC) }

func templateNames() []string {
	var names []string
	for _, c := range category.All() {
		names = append(names, c.Policy().TemplateFile)
	}
	return names
}

func newWorkspace(t *testing.T) (*testutil.TestWorkspace, *config.Workspace) {
	t.Helper()
	tw := testutil.NewTestWorkspace(t).WithTemplates(templateNames()...).Build()
	ws, err := config.Resolve(tw.Path, "")
	require.NoError(t, err)
	return tw, ws
}

func TestRenderHeader(t *testing.T) {
	t.Parallel()
	text := RenderHeader(HeaderOptions{
		Category: category.Compliance,
		Title:    "Risk Review",
		Purpose:  "Audit the credit model for bias",
		Author:   "sam",
		Created:  "2024-10-15",
		Fields:   []Field{{Key: "risk_level", Value: "high"}, {Key: "review_date", Value: "2025-01-01"}},
	})

	md := metadata.Extract(text)
	assert.Equal(t, "Risk Review", md.Title)
	assert.Equal(t, "compliance", md.Value(metadata.FieldCategory))
	assert.Equal(t, "Audit the credit model for bias", md.Value(metadata.FieldPurpose))
	assert.Equal(t, "sam", md.Value(metadata.FieldAuthor))
	assert.Equal(t, "2024-10-15", md.Value(metadata.FieldCreated))
	assert.Equal(t, "high", md.Value("risk_level"))
	assert.Equal(t, "2025-01-01", md.Value("review_date"))
	assert.Equal(t, []string{DataSourcesPlaceholder}, md.DataSources)
	assert.Equal(t, []string{DependenciesPlaceholder}, md.Dependencies)
	assert.Contains(t, text, "**Risk Level**: high")
}

func TestPopulateMetadataRequiresMarkdownFirstCell(t *testing.T) {
	t.Parallel()
	nb := notebook.New()
	assert.ErrorIs(t, PopulateMetadata(nb, HeaderOptions{}), ErrInvalidTemplate)

	nb.Cells = append(nb.Cells, notebook.NewCodeCell("x = 1"))
	assert.ErrorIs(t, PopulateMetadata(nb, HeaderOptions{}), ErrInvalidTemplate)
}

func TestCreate(t *testing.T) {
	t.Parallel()
	tw, ws := newWorkspace(t)

	res, err := Create(CreateOptions{
		Workspace: ws,
		Category:  category.Evaluations,
		Name:      "churn_model-v2",
		Purpose:   "Evaluate churn model against baseline",
		Author:    "alex",
		Fields:    []Field{{Key: "model_version", Value: "v2"}},
		Now:       fixedNow,
	})
	require.NoError(t, err)
	assert.Equal(t, "notebooks/evaluations/churn_model-v2.ipynb", res.RelativePath)
	assert.Equal(t, "2024-10-15", res.Created)

	nb, err := notebook.Load(res.FilePath)
	require.NoError(t, err)
	require.Len(t, nb.Cells, 2, "template code cells are kept")
	assert.Equal(t, "import pandas as pd", nb.Cells[1].Source.String())

	md := metadata.Extract(nb.FirstCell().Source.String())
	assert.Equal(t, "Churn Model V2", md.Title)
	assert.Equal(t, "v2", md.Value("model_version"))

	// A freshly created notebook passes validation.
	result := validate.Notebook(res.FilePath)
	assert.True(t, result.Passed, "%+v", result.Errors)
	assert.True(t, tw.FileExists("notebooks/evaluations/churn_model-v2.ipynb"))
}

func TestCreateNeverOverwrites(t *testing.T) {
	t.Parallel()
	existing := testutil.NotebookJSON(t, "# Mine")
	tw := testutil.NewTestWorkspace(t).
		WithTemplates(templateNames()...).
		WithFile("notebooks/exploratory/scratch.ipynb", existing).
		Build()
	ws, err := config.Resolve(tw.Path, "")
	require.NoError(t, err)

	_, err = Create(CreateOptions{
		Workspace: ws,
		Category:  category.Exploratory,
		Name:      "scratch.ipynb",
		Purpose:   "Quick look at the data",
		Author:    "alex",
		Now:       fixedNow,
	})
	assert.ErrorIs(t, err, ErrNotebookExists)
	assert.Equal(t, existing, tw.ReadFile("notebooks/exploratory/scratch.ipynb"))
}

func TestCreateMissingTemplate(t *testing.T) {
	t.Parallel()
	tw := testutil.NewTestWorkspace(t).Build()
	ws, err := config.Resolve(tw.Path, "")
	require.NoError(t, err)

	_, err = Create(CreateOptions{
		Workspace: ws,
		Category:  category.Reporting,
		Name:      "weekly",
		Purpose:   "Weekly KPI summary report",
		Author:    "alex",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTemplateNotFound))
	assert.False(t, tw.FileExists(filepath.Join("notebooks", "reporting", "weekly.ipynb")))
}

func TestCreateInvalidName(t *testing.T) {
	t.Parallel()
	_, ws := newWorkspace(t)
	for _, name := range []string{"", "has space", "../up"} {
		_, err := Create(CreateOptions{Workspace: ws, Category: category.Exploratory, Name: name})
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestDefaultTemplates(t *testing.T) {
	t.Parallel()
	for _, c := range category.All() {
		nb := Default(c)
		require.NotNil(t, nb.FirstCell(), c.String())
		assert.Equal(t, notebook.CellMarkdown, nb.FirstCell().CellType)

		md := metadata.Extract(nb.FirstCell().Source.String())
		assert.Equal(t, c.String(), md.Value(metadata.FieldCategory))
		for _, key := range c.Policy().AdditionalFields {
			assert.True(t, md.Has(key), "%s: %s", c, key)
		}
	}

	var tagged bool
	for _, cell := range Default(category.Reporting).Cells {
		if string(cell.Metadata["tags"]) == `["parameters"]` {
			tagged = true
		}
	}
	assert.True(t, tagged, "reporting template has a papermill parameters cell")
}
