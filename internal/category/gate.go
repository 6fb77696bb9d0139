package category

import "fmt"

// Action is a retention-governed operation on a notebook.
type Action string

const (
	ActionDelete Action = "delete"
	ActionTag    Action = "tag"
)

// PolicyError is a refusal from the policy gate. It carries the category's
// retention reason so the user learns why the action is not allowed.
type PolicyError struct {
	Category Category
	Action   Action
	Reason   string
}

func (e *PolicyError) Error() string {
	switch e.Action {
	case ActionDelete:
		return fmt.Sprintf("cannot delete %s notebooks after migration: %s", e.Category, e.Reason)
	case ActionTag:
		return fmt.Sprintf("cannot tag %s notebooks: %s", e.Category, e.Reason)
	default:
		return fmt.Sprintf("%s not permitted for %s notebooks: %s", e.Action, e.Category, e.Reason)
	}
}

// CanDelete reports whether notebooks in c may be deleted after migration.
// Only delete_after_migration categories qualify.
func CanDelete(c Category) bool {
	return c.Valid() && registry[c].Retention == DeleteAfterMigration
}

// CanTag reports whether notebooks in c may be tagged for archival.
// Transient categories are never tagged.
func CanTag(c Category) bool {
	return c.Valid() && registry[c].Retention != DeleteAfterMigration
}

// CheckDelete returns a *PolicyError when c forbids deletion after migration.
func CheckDelete(c Category) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidCategory, int(c))
	}
	if CanDelete(c) {
		return nil
	}
	return &PolicyError{Category: c, Action: ActionDelete, Reason: registry[c].RetentionReason}
}

// CheckTag returns a *PolicyError when c forbids tagging.
func CheckTag(c Category) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidCategory, int(c))
	}
	if CanTag(c) {
		return nil
	}
	return &PolicyError{Category: c, Action: ActionTag, Reason: registry[c].RetentionReason}
}
