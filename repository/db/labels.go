package db

import (
	"context"

	"taskmanager/internal/domain/models"
)

type labelRepo struct {
	q querier
	d Dialect
}

func scanLabel(row rowScanner) (*models.Label, error) {
	var l models.Label
	if err := row.Scan(&l.ID, &l.Name, timestamp{&l.CreatedAt}); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *labelRepo) findOne(ctx context.Context, where string, arg any) (*models.Label, error) {
	row := r.q.QueryRowContext(ctx, r.d.rebind("SELECT id, name, created_at FROM labels WHERE "+where), arg)
	l, err := scanLabel(row)
	if err != nil {
		return nil, mapError(err)
	}
	return l, nil
}

func (r *labelRepo) FindAll(ctx context.Context) ([]models.Label, error) {
	rows, err := r.q.QueryContext(ctx, "SELECT id, name, created_at FROM labels ORDER BY id")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	labels := []models.Label{}
	for rows.Next() {
		l, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		labels = append(labels, *l)
	}
	return labels, rows.Err()
}

func (r *labelRepo) FindByID(ctx context.Context, id int64) (*models.Label, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *labelRepo) FindByName(ctx context.Context, name string) (*models.Label, error) {
	return r.findOne(ctx, "name = ?", name)
}

func (r *labelRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.q, r.d, "SELECT 1 FROM labels WHERE id = ?", id)
}

func (r *labelRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	return exists(ctx, r.q, r.d, "SELECT 1 FROM labels WHERE name = ?", name)
}

func (r *labelRepo) Save(ctx context.Context, l *models.Label) error {
	if l.ID == 0 {
		ts := now()
		err := r.q.QueryRowContext(ctx, r.d.rebind(
			"INSERT INTO labels (name, created_at) VALUES (?, ?) RETURNING id"), l.Name, ts,
		).Scan(&l.ID)
		if err != nil {
			return mapError(err)
		}
		l.CreatedAt = ts
		return nil
	}

	res, err := r.q.ExecContext(ctx, r.d.rebind("UPDATE labels SET name = ? WHERE id = ?"), l.Name, l.ID)
	if err != nil {
		return mapError(err)
	}
	return updated(res)
}

func (r *labelRepo) DeleteByID(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.q, r.d, "labels", id)
}

func (r *labelRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, "labels")
}
