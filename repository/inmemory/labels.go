package storage

import (
	"context"
	"slices"

	"taskmanager/internal/domain/models"
	"taskmanager/internal/domain/store"
)

type labelRepo struct{ repos }

func (r *labelRepo) FindAll(context.Context) ([]models.Label, error) {
	defer r.read()()
	return sortedValues(r.d().labels), nil
}

func (r *labelRepo) FindByID(_ context.Context, id int64) (*models.Label, error) {
	defer r.read()()
	l, ok := r.d().labels[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &l, nil
}

func (r *labelRepo) FindByName(_ context.Context, name string) (*models.Label, error) {
	defer r.read()()
	if l, ok := r.byName(name); ok {
		return &l, nil
	}
	return nil, store.ErrNotFound
}

func (r *labelRepo) byName(name string) (models.Label, bool) {
	for _, l := range r.d().labels {
		if l.Name == name {
			return l, true
		}
	}
	return models.Label{}, false
}

func (r *labelRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	defer r.read()()
	_, ok := r.d().labels[id]
	return ok, nil
}

func (r *labelRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	defer r.read()()
	_, ok := r.byName(name)
	return ok, nil
}

func (r *labelRepo) Save(_ context.Context, l *models.Label) error {
	defer r.write()()
	d := r.d()

	if other, ok := r.byName(l.Name); ok && other.ID != l.ID {
		return store.ErrDuplicate
	}

	if l.ID == 0 {
		d.lastLabelID++
		l.ID = d.lastLabelID
		l.CreatedAt = now()
	} else {
		existing, ok := d.labels[l.ID]
		if !ok {
			return store.ErrNotFound
		}
		l.CreatedAt = existing.CreatedAt
	}
	d.labels[l.ID] = *l
	return nil
}

func (r *labelRepo) DeleteByID(_ context.Context, id int64) error {
	defer r.write()()
	d := r.d()
	if _, ok := d.labels[id]; !ok {
		return nil
	}
	for _, t := range d.tasks {
		if slices.Contains(t.LabelIDs, id) {
			return store.ErrReferenced
		}
	}
	delete(d.labels, id)
	return nil
}

func (r *labelRepo) Count(context.Context) (int64, error) {
	defer r.read()()
	return int64(len(r.d().labels)), nil
}
