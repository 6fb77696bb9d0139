package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (*Client, string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	c := NewClient(dir, nil)
	ctx := context.Background()

	for _, args := range [][]string{
		{"init", "-q"},
		{"config", "user.name", "Test User"},
		{"config", "user.email", "test@example.com"},
		{"config", "commit.gpgsign", "false"},
		{"config", "tag.gpgsign", "false"},
	} {
		_, err := c.Run(ctx, args...)
		require.NoError(t, err)
	}
	return c, dir
}

func commitFile(t *testing.T, c *Client, dir, name, content string) string {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	_, err := c.Run(ctx, "add", name)
	require.NoError(t, err)
	_, err = c.Run(ctx, "commit", "-q", "-m", "add "+name)
	require.NoError(t, err)
	sha, err := c.CurrentRevision(ctx)
	require.NoError(t, err)
	return sha
}

func TestClientRevisions(t *testing.T) {
	c, dir := initRepo(t)
	ctx := context.Background()

	first := commitFile(t, c, dir, "notebooks/exploratory/a.ipynb", "{}")
	second := commitFile(t, c, dir, "README.md", "hi")
	assert.NotEqual(t, first, second)

	head, err := c.CurrentRevision(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, head)

	last, err := c.LastRevisionTouching(ctx, "notebooks/exploratory/a.ipynb")
	require.NoError(t, err)
	assert.Equal(t, first, last)

	none, err := c.LastRevisionTouching(ctx, "never-committed.ipynb")
	require.NoError(t, err)
	assert.Equal(t, "", none)

	assert.Equal(t, "Test User", c.UserName(ctx))
}

func TestClientTags(t *testing.T) {
	c, dir := initRepo(t)
	ctx := context.Background()
	commitFile(t, c, dir, "a.txt", "a")

	require.NoError(t, c.CreateTag(ctx, "compliance/audit-2024-10-15", "audit"))
	require.NoError(t, c.CreateTag(ctx, "evaluations/baseline-2024-10-15", "baseline"))
	require.NoError(t, c.CreateTag(ctx, "v1.0.0", "release"))

	tags, err := c.ListTags(ctx, "compliance/*")
	require.NoError(t, err)
	assert.Equal(t, []string{"compliance/audit-2024-10-15"}, tags)

	tags, err = c.ListTags(ctx, "*/*")
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	err = c.CreateTag(ctx, "compliance/audit-2024-10-15", "again")
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Contains(t, cmdErr.Error(), "already exists")

	err = c.PushTag(ctx, "nowhere", "v1.0.0")
	assert.Error(t, err)
}

func TestClientMissingBinary(t *testing.T) {
	c := NewClient(t.TempDir(), nil)
	c.Binary = "nbgov-test-no-such-git"

	_, err := c.CurrentRevision(context.Background())
	assert.ErrorIs(t, err, ErrGitNotFound)
	assert.Equal(t, "", c.UserName(context.Background()))
}

func TestFake(t *testing.T) {
	ctx := context.Background()
	f := NewFake("abc123")
	f.History["notebooks/exploratory/a.ipynb"] = "def456"

	head, _ := f.CurrentRevision(ctx)
	assert.Equal(t, "abc123", head)
	last, _ := f.LastRevisionTouching(ctx, "notebooks/exploratory/a.ipynb")
	assert.Equal(t, "def456", last)

	require.NoError(t, f.CreateTag(ctx, "compliance/x-2024-01-01", "m"))
	assert.Error(t, f.CreateTag(ctx, "compliance/x-2024-01-01", "m"))

	tags, _ := f.ListTags(ctx, "compliance/*")
	assert.Equal(t, []string{"compliance/x-2024-01-01"}, tags)

	require.NoError(t, f.PushTag(ctx, "origin", "compliance/x-2024-01-01"))
	assert.Error(t, f.PushTag(ctx, "upstream", "compliance/x-2024-01-01"))
	assert.Equal(t, []string{"origin:compliance/x-2024-01-01"}, f.Pushed)
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\n\n b \n"))
}
