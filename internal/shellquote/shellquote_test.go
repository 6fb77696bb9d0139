package shellquote

import "testing"

func TestQuoteIfNeeded(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"refs/tags/compliance/v1-2024-10-15": "refs/tags/compliance/v1-2024-10-15",
		"Q4 bias audit":                      "'Q4 bias audit'",
		"it's":                               `'it'\''s'`,
		"":                                   "''",
		"$HOME":                              "'$HOME'",
	}
	for in, want := range tests {
		if got := QuoteIfNeeded(in); got != want {
			t.Errorf("QuoteIfNeeded(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()
	got := Join("papermill", "in.ipynb", "out dir/out.ipynb", "-y", "top_n: 10\n")
	want := "papermill in.ipynb 'out dir/out.ipynb' -y 'top_n: 10\n'"
	if got != want {
		t.Errorf("Join = %q, want %q", got, want)
	}
}
