package store

import (
	"strings"

	"taskmanager/internal/domain/models"
)

// TaskFilter narrows a task listing. Zero-valued fields impose no constraint;
// the set fields are combined with AND.
type TaskFilter struct {
	TitleCont  string
	AssigneeID *int64
	StatusSlug string
	LabelID    *int64
}

// IsEmpty reports whether the filter matches every task.
func (f TaskFilter) IsEmpty() bool {
	return f.TitleCont == "" && f.AssigneeID == nil && f.StatusSlug == "" && f.LabelID == nil
}

// TaskPredicate is a single condition over a task.
type TaskPredicate func(t models.Task) bool

// Predicates returns one predicate per set field. Storage backends that
// cannot push the filter into a query evaluate these in order.
func (f TaskFilter) Predicates() []TaskPredicate {
	var preds []TaskPredicate

	if f.TitleCont != "" {
		needle := strings.ToLower(f.TitleCont)
		preds = append(preds, func(t models.Task) bool {
			return strings.Contains(strings.ToLower(t.Title), needle)
		})
	}
	if f.AssigneeID != nil {
		id := *f.AssigneeID
		preds = append(preds, func(t models.Task) bool {
			return t.AssigneeID != nil && *t.AssigneeID == id
		})
	}
	if f.StatusSlug != "" {
		slug := f.StatusSlug
		preds = append(preds, func(t models.Task) bool {
			return t.TaskStatusSlug == slug
		})
	}
	if f.LabelID != nil {
		id := *f.LabelID
		preds = append(preds, func(t models.Task) bool {
			for _, labelID := range t.LabelIDs {
				if labelID == id {
					return true
				}
			}
			return false
		})
	}

	return preds
}

// Matches applies every predicate; an empty filter matches everything.
func (f TaskFilter) Matches(t models.Task) bool {
	for _, p := range f.Predicates() {
		if !p(t) {
			return false
		}
	}
	return true
}
