package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type recordingRunner struct {
	name string
	args []string
	err  error
}

func (r *recordingRunner) Run(ctx context.Context, name string, args ...string) error {
	r.name = name
	r.args = args
	return r.err
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"false", false},
		{"True", "True"},
		{"42", int64(42)},
		{"007", int64(7)},
		{"3.14", 3.14},
		{"-5", -5.0},
		{"1e3", 1000.0},
		{"2024-10-01", "2024-10-01"},
		{"html", "html"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Coerce(tt.in))
		})
	}
}

func TestParseParameters(t *testing.T) {
	params, err := ParseParameters([]string{"start=2024-01-01", "n=5", "n=6", "msg=a=b"})
	require.NoError(t, err)
	assert.Equal(t, []Parameter{
		{Name: "start", Value: "2024-01-01"},
		{Name: "n", Value: int64(6)},
		{Name: "msg", Value: "a=b"},
	}, params)

	_, err = ParseParameters([]string{"novalue"})
	assert.Error(t, err)
	_, err = ParseParameters([]string{"=5"})
	assert.Error(t, err)
}

func TestPapermillArgs(t *testing.T) {
	runner := &recordingRunner{}
	p := &Papermill{Binary: "papermill", Runner: runner}
	params := []Parameter{
		{Name: "name", Value: "alice"},
		{Name: "n", Value: int64(5)},
		{Name: "ratio", Value: 0.5},
		{Name: "charts", Value: true},
	}

	require.NoError(t, p.Execute(context.Background(), "in.ipynb", "out.ipynb", params, "python3"))
	assert.Equal(t, "papermill", runner.name)
	require.Len(t, runner.args, 6)
	assert.Equal(t, []string{"in.ipynb", "out.ipynb", "-y"}, runner.args[:3])
	assert.Equal(t, []string{"-k", "python3"}, runner.args[4:])

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(runner.args[3]), &decoded))
	assert.Equal(t, map[string]any{"name": "alice", "n": 5, "ratio": 0.5, "charts": true}, decoded)
}

func TestPapermillWithoutParams(t *testing.T) {
	p := &Papermill{Binary: "papermill"}
	args, err := p.Args("in.ipynb", "out.ipynb", nil, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"in.ipynb", "out.ipynb"}, args)
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"html", "markdown", "pdf", "script", "slides"}, Formats())

	f, err := ParseFormat("HTML")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, f)

	_, err = ParseFormat("docx")
	assert.Error(t, err)

	assert.Equal(t, "reports/q4.html", DefaultOutput("reports/q4.ipynb", FormatHTML))
	assert.Equal(t, "reports/q4.md", DefaultOutput("reports/q4.ipynb", FormatMarkdown))
	assert.Equal(t, "reports/q4.py", DefaultOutput("reports/q4.ipynb", FormatScript))
	assert.Equal(t, "reports/q4.slides.html", DefaultOutput("reports/q4.ipynb", FormatSlides))
	assert.Equal(t, "reports/q4.pdf", DefaultOutput("reports/q4.ipynb", FormatPDF))
}

func TestNBConvertArgs(t *testing.T) {
	runner := &recordingRunner{}
	n := &NBConvert{Binary: "jupyter", Runner: runner}

	require.NoError(t, n.Convert(context.Background(), "nb/q4.ipynb", FormatSlides, ""))
	assert.Equal(t, "jupyter", runner.name)
	assert.Equal(t, []string{"nbconvert", "--to", "slides", "nb/q4.ipynb", "--output", "q4", "--output-dir", "nb"}, runner.args)

	args := n.Args("nb/q4.ipynb", FormatHTML, "out/report.html")
	assert.Equal(t, []string{"nbconvert", "--to", "html", "nb/q4.ipynb", "--output", "report", "--output-dir", "out"}, args)
}

func TestExecRunnerMissingBinary(t *testing.T) {
	r := &ExecRunner{}
	err := r.Run(context.Background(), "nbgov-test-no-such-engine")
	assert.ErrorIs(t, err, ErrEngineMissing)
	assert.Contains(t, err.Error(), "nbgov-test-no-such-engine")
}
