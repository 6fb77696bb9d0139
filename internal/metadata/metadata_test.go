package metadata

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

const fullHeader = `# Churn Exploration

**Category**: exploratory
**Purpose**: Explore churn drivers in Q3 data
**Author**: Jane Doe
**Created**: 2024-10-15
**Data Sources**: 
- s3://bucket/churn.parquet
- internal CRM export

**Dependencies**:
- pandas
- scikit-learn
`

func TestExtractFullHeader(t *testing.T) {
	m := Extract(fullHeader)

	want := map[string]string{
		"category": "exploratory",
		"purpose":  "Explore churn drivers in Q3 data",
		"author":   "Jane Doe",
		"created":  "2024-10-15",
	}
	if diff := cmp.Diff(want, m.Fields()); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"category", "purpose", "author", "created"}, m.Keys())
	assert.Equal(t, []string{"s3://bucket/churn.parquet", "internal CRM export"}, m.DataSources)
	assert.Equal(t, []string{"pandas", "scikit-learn"}, m.Dependencies)
	assert.Equal(t, "Churn Exploration", m.Title)
}

func TestExtractListsInOrder(t *testing.T) {
	m := Extract("**Data Sources**:\n- a\n- b\n- c\n")
	assert.Equal(t, []string{"a", "b", "c"}, m.DataSources)
	assert.Equal(t, []string{}, m.Dependencies)
}

func TestExtractWithoutListsReturnsEmptyLists(t *testing.T) {
	m := Extract("**Category**: tutorials")
	assert.NotNil(t, m.DataSources)
	assert.NotNil(t, m.Dependencies)
	assert.Empty(t, m.DataSources)
	assert.Empty(t, m.Dependencies)
}

func TestListHeadersAreNotScalarFields(t *testing.T) {
	m := Extract("**Data Sources**: inline value\n**Dependencies**:\n- numpy\n")
	_, ok := m.Get(FieldDataSources)
	assert.False(t, ok)
	_, ok = m.Get(FieldDependencies)
	assert.False(t, ok)
	// An inline value is not a bullet list.
	assert.Empty(t, m.DataSources)
	assert.Equal(t, []string{"numpy"}, m.Dependencies)
}

func TestListStopsAtFirstNonBullet(t *testing.T) {
	m := Extract("**Dependencies**:\n\n- numpy\n- scipy\nSome prose\n- not included\n")
	assert.Equal(t, []string{"numpy", "scipy"}, m.Dependencies)
}

func TestHeaderWithoutBulletsIsEmpty(t *testing.T) {
	m := Extract("**Dependencies**:\n**Author**: someone\n")
	assert.Empty(t, m.Dependencies)
	assert.Equal(t, "someone", m.Value(FieldAuthor))
}

func TestLaterHeaderWithBulletsIsUsed(t *testing.T) {
	m := Extract("**Data Sources**:\n\ntext\n\n**Data Sources**:\n- a\n- b\n")
	assert.Equal(t, []string{"a", "b"}, m.DataSources)
}

func TestDuplicateKeyLastWins(t *testing.T) {
	m := Extract("**Author**: first\n**Category**: reporting\n**Author**: second\n")
	assert.Equal(t, "second", m.Value(FieldAuthor))
	assert.Equal(t, []string{"author", "category"}, m.Keys())
}

func TestKeyNormalization(t *testing.T) {
	m := Extract("**Model Version**: v2\n** Risk Level **: high\n**Regulatory Framework**:   EU AI Act  ")
	assert.Equal(t, "v2", m.Value("model_version"))
	assert.Equal(t, "high", m.Value("risk_level"))
	assert.Equal(t, "EU AI Act", m.Value("regulatory_framework"))
}

func TestEmptyValueIsDeclaredButNotPresent(t *testing.T) {
	m := Extract("**Purpose**: \n")
	v, ok := m.Get(FieldPurpose)
	assert.True(t, ok)
	assert.Equal(t, "", v)
	assert.False(t, m.Has(FieldPurpose))
}

func TestValueDoesNotSpanLines(t *testing.T) {
	m := Extract("**Purpose**:\n**Author**: someone")
	_, ok := m.Get(FieldPurpose)
	assert.False(t, ok)
	assert.Equal(t, "someone", m.Value(FieldAuthor))
}

func TestCRLFInput(t *testing.T) {
	m := Extract("**Category**: compliance\r\n**Data Sources**:\r\n- a\r\n- b\r\n")
	assert.Equal(t, "compliance", m.Value(FieldCategory))
	assert.Equal(t, []string{"a", "b"}, m.DataSources)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Quarterly Report", Extract("## Sub\n# Quarterly *Report*\n# Second").Title)
	assert.Equal(t, "", Extract("no headings here").Title)
	assert.Equal(t, "Model Audit", Extract("# Model Audit\n**Category**: compliance").Title)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Risk Level", Label("risk_level"))
	assert.Equal(t, "Category", Label("category"))
	assert.Equal(t, "model_version", NormalizeKey(Label("model_version")))
}

func TestExtractNeverPanics(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		m := Extract(text)
		if m.DataSources == nil || m.Dependencies == nil {
			t.Fatalf("list fields must never be nil")
		}
		for _, k := range m.Keys() {
			if k == FieldDataSources || k == FieldDependencies {
				t.Fatalf("list key %q leaked into scalar fields", k)
			}
		}
	})
}

func TestExtractRoundTripsDeclaredFields(t *testing.T) {
	keyGen := rapid.StringMatching(`[A-Z][a-z]{2,8}( [A-Z][a-z]{2,8})?`)
	valueGen := rapid.StringMatching(`[A-Za-z0-9][A-Za-z0-9 ,.:/-]{0,30}[A-Za-z0-9]`)

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(t, "n")
		want := map[string]string{}
		var sb strings.Builder
		for i := 0; i < n; i++ {
			label := keyGen.Draw(t, "label")
			if NormalizeKey(label) == FieldDataSources || NormalizeKey(label) == FieldDependencies {
				continue
			}
			value := valueGen.Draw(t, "value")
			want[NormalizeKey(label)] = value
			sb.WriteString("**" + label + "**: " + value + "\n")
		}

		got := Extract(sb.String()).Fields()
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("fields mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestExtractBulletsProperty(t *testing.T) {
	itemGen := rapid.StringMatching(`[a-z][a-z0-9 ._-]{0,20}[a-z0-9]`)

	rapid.Check(t, func(t *rapid.T) {
		items := rapid.SliceOfN(itemGen, 1, 8).Draw(t, "items")
		var sb strings.Builder
		sb.WriteString("**Category**: evaluations\n**Data Sources**:\n")
		for _, item := range items {
			sb.WriteString("- " + item + "\n")
		}
		got := Extract(sb.String()).DataSources
		if diff := cmp.Diff(items, got); diff != "" {
			t.Fatalf("data sources mismatch (-want +got):\n%s", diff)
		}
	})
}
