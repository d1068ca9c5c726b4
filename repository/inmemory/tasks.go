package storage

import (
	"context"
	"slices"

	"taskmanager/internal/domain/models"
	"taskmanager/internal/domain/store"
)

type taskRepo struct{ repos }

// view returns a detached copy with the status slug resolved.
func (r *taskRepo) view(t models.Task) models.Task {
	out := copyTask(t)
	out.TaskStatusSlug = r.d().statuses[t.TaskStatusID].Slug
	return out
}

func (r *taskRepo) FindAll(ctx context.Context) ([]models.Task, error) {
	return r.FindAllMatching(ctx, store.TaskFilter{})
}

func (r *taskRepo) FindAllMatching(_ context.Context, f store.TaskFilter) ([]models.Task, error) {
	defer r.read()()
	out := []models.Task{}
	for _, t := range sortedValues(r.d().tasks) {
		v := r.view(t)
		if f.Matches(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *taskRepo) FindByID(_ context.Context, id int64) (*models.Task, error) {
	defer r.read()()
	t, ok := r.d().tasks[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	v := r.view(t)
	return &v, nil
}

func (r *taskRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	defer r.read()()
	_, ok := r.d().tasks[id]
	return ok, nil
}

func (r *taskRepo) exists(match func(models.Task) bool) bool {
	for _, t := range r.d().tasks {
		if match(t) {
			return true
		}
	}
	return false
}

func (r *taskRepo) ExistsByAssigneeID(_ context.Context, userID int64) (bool, error) {
	defer r.read()()
	return r.exists(func(t models.Task) bool { return t.AssigneeID != nil && *t.AssigneeID == userID }), nil
}

func (r *taskRepo) ExistsByTaskStatusID(_ context.Context, statusID int64) (bool, error) {
	defer r.read()()
	return r.exists(func(t models.Task) bool { return t.TaskStatusID == statusID }), nil
}

func (r *taskRepo) ExistsByLabelID(_ context.Context, labelID int64) (bool, error) {
	defer r.read()()
	return r.exists(func(t models.Task) bool { return slices.Contains(t.LabelIDs, labelID) }), nil
}

// Save checks every reference before writing, then stores the label ids as a
// sorted set replacing whatever the task had.
func (r *taskRepo) Save(_ context.Context, t *models.Task) error {
	defer r.write()()
	d := r.d()

	if _, ok := d.statuses[t.TaskStatusID]; !ok {
		return store.ErrReferenced
	}
	if t.AssigneeID != nil {
		if _, ok := d.users[*t.AssigneeID]; !ok {
			return store.ErrReferenced
		}
	}
	labels := slices.Clone(t.LabelIDs)
	slices.Sort(labels)
	labels = slices.Compact(labels)
	for _, id := range labels {
		if _, ok := d.labels[id]; !ok {
			return store.ErrReferenced
		}
	}

	if t.ID == 0 {
		d.lastTaskID++
		t.ID = d.lastTaskID
		t.CreatedAt = now()
	} else {
		existing, ok := d.tasks[t.ID]
		if !ok {
			return store.ErrNotFound
		}
		t.CreatedAt = existing.CreatedAt
	}
	if labels == nil {
		labels = []int64{}
	}
	t.LabelIDs = labels
	t.TaskStatusSlug = d.statuses[t.TaskStatusID].Slug

	d.tasks[t.ID] = copyTask(*t)
	return nil
}

func (r *taskRepo) DeleteByID(_ context.Context, id int64) error {
	defer r.write()()
	delete(r.d().tasks, id)
	return nil
}

func (r *taskRepo) Count(context.Context) (int64, error) {
	defer r.read()()
	return int64(len(r.d().tasks)), nil
}
