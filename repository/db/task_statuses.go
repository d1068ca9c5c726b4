package db

import (
	"context"

	"taskmanager/internal/domain/models"
)

const taskStatusColumns = "id, name, slug, created_at"

type taskStatusRepo struct {
	q querier
	d Dialect
}

func scanTaskStatus(row rowScanner) (*models.TaskStatus, error) {
	var s models.TaskStatus
	if err := row.Scan(&s.ID, &s.Name, &s.Slug, timestamp{&s.CreatedAt}); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *taskStatusRepo) findOne(ctx context.Context, where string, arg any) (*models.TaskStatus, error) {
	row := r.q.QueryRowContext(ctx, r.d.rebind("SELECT "+taskStatusColumns+" FROM task_statuses WHERE "+where), arg)
	s, err := scanTaskStatus(row)
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (r *taskStatusRepo) FindAll(ctx context.Context) ([]models.TaskStatus, error) {
	rows, err := r.q.QueryContext(ctx, "SELECT "+taskStatusColumns+" FROM task_statuses ORDER BY id")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	statuses := []models.TaskStatus{}
	for rows.Next() {
		s, err := scanTaskStatus(rows)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, *s)
	}
	return statuses, rows.Err()
}

func (r *taskStatusRepo) FindByID(ctx context.Context, id int64) (*models.TaskStatus, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *taskStatusRepo) FindBySlug(ctx context.Context, slug string) (*models.TaskStatus, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

func (r *taskStatusRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.q, r.d, "SELECT 1 FROM task_statuses WHERE id = ?", id)
}

func (r *taskStatusRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	return exists(ctx, r.q, r.d, "SELECT 1 FROM task_statuses WHERE slug = ?", slug)
}

func (r *taskStatusRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	return exists(ctx, r.q, r.d, "SELECT 1 FROM task_statuses WHERE name = ?", name)
}

func (r *taskStatusRepo) Save(ctx context.Context, s *models.TaskStatus) error {
	if s.ID == 0 {
		ts := now()
		err := r.q.QueryRowContext(ctx, r.d.rebind(
			"INSERT INTO task_statuses (name, slug, created_at) VALUES (?, ?, ?) RETURNING id"),
			s.Name, s.Slug, ts,
		).Scan(&s.ID)
		if err != nil {
			return mapError(err)
		}
		s.CreatedAt = ts
		return nil
	}

	res, err := r.q.ExecContext(ctx, r.d.rebind("UPDATE task_statuses SET name = ?, slug = ? WHERE id = ?"),
		s.Name, s.Slug, s.ID)
	if err != nil {
		return mapError(err)
	}
	return updated(res)
}

func (r *taskStatusRepo) DeleteByID(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.q, r.d, "task_statuses", id)
}

func (r *taskStatusRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, "task_statuses")
}
