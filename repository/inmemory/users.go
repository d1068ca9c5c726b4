package storage

import (
	"context"

	"taskmanager/internal/domain/models"
	"taskmanager/internal/domain/store"
)

type userRepo struct{ repos }

func (r *userRepo) FindAll(context.Context) ([]models.User, error) {
	defer r.read()()
	return sortedValues(r.d().users), nil
}

func (r *userRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	defer r.read()()
	u, ok := r.d().users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	defer r.read()()
	if u, ok := r.byEmail(email); ok {
		return &u, nil
	}
	return nil, store.ErrNotFound
}

func (r *userRepo) byEmail(email string) (models.User, bool) {
	for _, u := range r.d().users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

func (r *userRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	defer r.read()()
	_, ok := r.d().users[id]
	return ok, nil
}

func (r *userRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	defer r.read()()
	_, ok := r.byEmail(email)
	return ok, nil
}

func (r *userRepo) Save(_ context.Context, u *models.User) error {
	defer r.write()()
	d := r.d()

	if other, ok := r.byEmail(u.Email); ok && other.ID != u.ID {
		return store.ErrDuplicate
	}

	ts := now()
	if u.ID == 0 {
		d.lastUserID++
		u.ID = d.lastUserID
		u.CreatedAt = ts
	} else {
		existing, ok := d.users[u.ID]
		if !ok {
			return store.ErrNotFound
		}
		u.CreatedAt = existing.CreatedAt
	}
	u.UpdatedAt = ts
	d.users[u.ID] = *u
	return nil
}

func (r *userRepo) DeleteByID(_ context.Context, id int64) error {
	defer r.write()()
	d := r.d()
	if _, ok := d.users[id]; !ok {
		return nil
	}
	for _, t := range d.tasks {
		if t.AssigneeID != nil && *t.AssigneeID == id {
			return store.ErrReferenced
		}
	}
	delete(d.users, id)
	return nil
}

func (r *userRepo) Count(context.Context) (int64, error) {
	defer r.read()()
	return int64(len(r.d().users)), nil
}
