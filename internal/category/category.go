// Package category holds the fixed notebook category registry and the
// retention rules that gate deleting and tagging notebooks.
package category

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCategory is returned for any category key outside the registry.
var ErrInvalidCategory = errors.New("invalid category")

// Category is one of the five governance buckets. The zero value is not a
// valid category.
type Category int

const (
	Exploratory Category = iota + 1
	Tutorials
	Evaluations
	Compliance
	Reporting
)

// GovernanceLevel drives whether formal spec documentation is required.
type GovernanceLevel string

const (
	GovernanceLow    GovernanceLevel = "low"
	GovernanceMedium GovernanceLevel = "medium"
	GovernanceHigh   GovernanceLevel = "high"
)

// Retention says what may happen to a notebook once its logic is migrated.
type Retention string

const (
	DeleteAfterMigration Retention = "delete_after_migration"
	Retain               Retention = "retain"
	RetainAndTag         Retention = "retain_and_tag"
)

// Policy is the immutable governance record for a category.
type Policy struct {
	Category        Category
	Name            string // also the expected directory name
	DisplayName     string
	Description     string
	Governance      GovernanceLevel
	SpecRequired    bool
	Retention       Retention
	TemplateFile    string
	RetentionReason string
	// AdditionalFields are extra metadata keys prompted for on create.
	AdditionalFields []string
}

// registry is ordered by Category value; index 0 is unused.
var registry = [...]Policy{
	{},
	{
		Category:        Exploratory,
		Name:            "exploratory",
		DisplayName:     "Exploratory",
		Description:     "Rapid experimentation and hypothesis testing",
		Governance:      GovernanceLow,
		SpecRequired:    false,
		Retention:       DeleteAfterMigration,
		TemplateFile:    "exploratory-template.ipynb",
		RetentionReason: "exploratory notebooks are transient and are removed once their logic is migrated",
	},
	{
		Category:        Tutorials,
		Name:            "tutorials",
		DisplayName:     "Tutorials",
		Description:     "Learning materials and examples",
		Governance:      GovernanceMedium,
		SpecRequired:    true,
		Retention:       Retain,
		TemplateFile:    "tutorial-template.ipynb",
		RetentionReason: "tutorials are retained as onboarding and reference material",
	},
	{
		Category:         Evaluations,
		Name:             "evaluations",
		DisplayName:      "Evaluations",
		Description:      "Model performance assessment and benchmarking",
		Governance:       GovernanceMedium,
		SpecRequired:     true,
		Retention:        RetainAndTag,
		TemplateFile:     "evaluation-template.ipynb",
		RetentionReason:  "evaluation results must be kept for baseline comparison against future model versions",
		AdditionalFields: []string{"model_version", "evaluation_metrics", "baseline_comparison"},
	},
	{
		Category:         Compliance,
		Name:             "compliance",
		DisplayName:      "Compliance",
		Description:      "EU AI Act and regulatory documentation",
		Governance:       GovernanceHigh,
		SpecRequired:     true,
		Retention:        RetainAndTag,
		TemplateFile:     "compliance-template.ipynb",
		RetentionReason:  "compliance notebooks form part of the regulatory audit trail and must be retained",
		AdditionalFields: []string{"risk_level", "regulatory_framework", "review_date"},
	},
	{
		Category:         Reporting,
		Name:             "reporting",
		DisplayName:      "Reporting",
		Description:      "Parameterized stakeholder reports",
		Governance:       GovernanceMedium,
		SpecRequired:     false,
		Retention:        Retain,
		TemplateFile:     "reporting-template.ipynb",
		RetentionReason:  "reports are retained so stakeholders can reproduce previously delivered results",
		AdditionalFields: []string{"parameters", "schedule", "recipients"},
	},
}

// All returns every category in registry order.
func All() []Category {
	return []Category{Exploratory, Tutorials, Evaluations, Compliance, Reporting}
}

// Names returns the category keys in registry order.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.String()
	}
	return names
}

// Parse resolves a category key. Keys are matched exactly.
func Parse(key string) (Category, error) {
	for _, c := range All() {
		if registry[c].Name == key {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: '%s' (use one of: %s)", ErrInvalidCategory, key, strings.Join(Names(), ", "))
}

// Lookup returns the policy for a category key.
func Lookup(key string) (Policy, error) {
	c, err := Parse(key)
	if err != nil {
		return Policy{}, err
	}
	return c.Policy(), nil
}

// IsValid reports whether key names a registered category.
func IsValid(key string) bool {
	_, err := Parse(key)
	return err == nil
}

// Valid reports whether c is one of the registered categories.
func (c Category) Valid() bool {
	return c >= Exploratory && c <= Reporting
}

// Policy returns the category's policy record. Policies are returned by
// value; AdditionalFields is copied so callers cannot mutate the registry.
func (c Category) Policy() Policy {
	if !c.Valid() {
		return Policy{}
	}
	p := registry[c]
	p.AdditionalFields = append([]string(nil), p.AdditionalFields...)
	return p
}

func (c Category) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return registry[c].Name
}
