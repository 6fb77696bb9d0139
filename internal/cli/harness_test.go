package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aikit/nbgov/internal/audit"
	"github.com/aikit/nbgov/internal/category"
	"github.com/aikit/nbgov/internal/engine"
	"github.com/aikit/nbgov/internal/prompt"
	"github.com/aikit/nbgov/internal/testutil"
	"github.com/aikit/nbgov/internal/ui"
	"github.com/aikit/nbgov/internal/vcs"
)

var testNow = time.Date(2024, 10, 15, 14, 30, 0, 0, time.UTC)

type executeCall struct {
	input, output string
	params        []engine.Parameter
	kernel        string
}

type fakeExecutor struct {
	calls []executeCall
	err   error
}

func (f *fakeExecutor) Execute(ctx context.Context, input, output string, params []engine.Parameter, kernel string) error {
	f.calls = append(f.calls, executeCall{input, output, params, kernel})
	return f.err
}

type convertCall struct {
	input  string
	format engine.Format
	output string
}

type fakeConverter struct {
	calls []convertCall
	err   error
}

func (f *fakeConverter) Convert(ctx context.Context, input string, format engine.Format, output string) error {
	f.calls = append(f.calls, convertCall{input, format, output})
	return f.err
}

// harness runs commands against a test workspace with fake git and engines.
type harness struct {
	t    *testing.T
	ws   *testutil.TestWorkspace
	git  *vcs.Fake
	exec *fakeExecutor
	conv *fakeConverter

	stdout bytes.Buffer
	stderr bytes.Buffer
}

func templateFiles() []string {
	var names []string
	for _, c := range category.All() {
		names = append(names, c.Policy().TemplateFile)
	}
	return names
}

func newHarness(t *testing.T, ws *testutil.TestWorkspace) *harness {
	t.Helper()
	git := vcs.NewFake("1111111111111111111111111111111111111111")
	git.User = "sam"
	return &harness{
		t:    t,
		ws:   ws,
		git:  git,
		exec: &fakeExecutor{},
		conv: &fakeConverter{},
	}
}

// run executes one command line. input, when non-empty, is answered to
// prompts; otherwise the session is non-interactive.
func (h *harness) run(input string, args ...string) int {
	h.t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()

	app := &App{
		Stdin:     strings.NewReader(input),
		Stdout:    &h.stdout,
		Stderr:    &h.stderr,
		Cwd:       h.ws.Path,
		Now:       func() time.Time { return testNow },
		Git:       h.git,
		Executor:  h.exec,
		Converter: h.conv,
		Prompter:  prompt.New(strings.NewReader(input), &h.stdout, input != ""),
		Logger:    zap.NewNop(),
		Display:   ui.NewDisplayContextWithWidth(80),
	}
	return app.Run(context.Background(), args)
}

// jsonResponse decodes the last command's JSON envelope.
func (h *harness) jsonResponse() map[string]interface{} {
	h.t.Helper()
	var resp map[string]interface{}
	require.NoError(h.t, json.Unmarshal(h.stdout.Bytes(), &resp), h.stdout.String())
	return resp
}

// auditEntries reads the workspace's audit ledger.
func (h *harness) auditEntries() []audit.Entry {
	h.t.Helper()
	l, err := audit.Open(h.ws.Abs(".nbgov"))
	require.NoError(h.t, err)
	defer l.Close()
	entries, err := l.List(audit.Filter{})
	require.NoError(h.t, err)
	return entries
}

func validHeader(c string) string {
	return testutil.Header(c, "Measure churn drivers across regions", "sam", "2024-10-01")
}
