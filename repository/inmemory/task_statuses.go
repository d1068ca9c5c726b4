package storage

import (
	"context"

	"taskmanager/internal/domain/models"
	"taskmanager/internal/domain/store"
)

type taskStatusRepo struct{ repos }

func (r *taskStatusRepo) FindAll(context.Context) ([]models.TaskStatus, error) {
	defer r.read()()
	return sortedValues(r.d().statuses), nil
}

func (r *taskStatusRepo) FindByID(_ context.Context, id int64) (*models.TaskStatus, error) {
	defer r.read()()
	s, ok := r.d().statuses[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &s, nil
}

func (r *taskStatusRepo) FindBySlug(_ context.Context, slug string) (*models.TaskStatus, error) {
	defer r.read()()
	for _, s := range r.d().statuses {
		if s.Slug == slug {
			return &s, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *taskStatusRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	defer r.read()()
	_, ok := r.d().statuses[id]
	return ok, nil
}

func (r *taskStatusRepo) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	defer r.read()()
	return r.taken(0, func(s models.TaskStatus) bool { return s.Slug == slug }), nil
}

func (r *taskStatusRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	defer r.read()()
	return r.taken(0, func(s models.TaskStatus) bool { return s.Name == name }), nil
}

// taken reports whether a status other than self matches.
func (r *taskStatusRepo) taken(self int64, match func(models.TaskStatus) bool) bool {
	for id, s := range r.d().statuses {
		if id != self && match(s) {
			return true
		}
	}
	return false
}

func (r *taskStatusRepo) Save(_ context.Context, s *models.TaskStatus) error {
	defer r.write()()
	d := r.d()

	if r.taken(s.ID, func(o models.TaskStatus) bool { return o.Slug == s.Slug || o.Name == s.Name }) {
		return store.ErrDuplicate
	}

	if s.ID == 0 {
		d.lastStatusID++
		s.ID = d.lastStatusID
		s.CreatedAt = now()
	} else {
		existing, ok := d.statuses[s.ID]
		if !ok {
			return store.ErrNotFound
		}
		s.CreatedAt = existing.CreatedAt
	}
	d.statuses[s.ID] = *s
	return nil
}

func (r *taskStatusRepo) DeleteByID(_ context.Context, id int64) error {
	defer r.write()()
	d := r.d()
	if _, ok := d.statuses[id]; !ok {
		return nil
	}
	for _, t := range d.tasks {
		if t.TaskStatusID == id {
			return store.ErrReferenced
		}
	}
	delete(d.statuses, id)
	return nil
}

func (r *taskStatusRepo) Count(context.Context) (int64, error) {
	defer r.read()()
	return int64(len(r.d().statuses)), nil
}
