package db

import (
	"context"

	"taskmanager/internal/domain/models"
)

const userColumns = "id, email, first_name, last_name, password_hash, created_at, updated_at"

type userRepo struct {
	q querier
	d Dialect
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		timestamp{&u.CreatedAt}, timestamp{&u.UpdatedAt}); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) findOne(ctx context.Context, where string, arg any) (*models.User, error) {
	row := r.q.QueryRowContext(ctx, r.d.rebind("SELECT "+userColumns+" FROM users WHERE "+where), arg)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepo) FindAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.q.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.q, r.d, "SELECT 1 FROM users WHERE id = ?", id)
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(ctx, r.q, r.d, "SELECT 1 FROM users WHERE email = ?", email)
}

func (r *userRepo) Save(ctx context.Context, u *models.User) error {
	ts := now()
	if u.ID == 0 {
		err := r.q.QueryRowContext(ctx, r.d.rebind(`
			INSERT INTO users (email, first_name, last_name, password_hash, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id`),
			u.Email, u.FirstName, u.LastName, u.PasswordHash, ts, ts,
		).Scan(&u.ID)
		if err != nil {
			return mapError(err)
		}
		u.CreatedAt, u.UpdatedAt = ts, ts
		return nil
	}

	res, err := r.q.ExecContext(ctx, r.d.rebind(`
		UPDATE users SET email = ?, first_name = ?, last_name = ?, password_hash = ?, updated_at = ?
		WHERE id = ?`),
		u.Email, u.FirstName, u.LastName, u.PasswordHash, ts, u.ID,
	)
	if err != nil {
		return mapError(err)
	}
	if err := updated(res); err != nil {
		return err
	}
	u.UpdatedAt = ts
	return nil
}

func (r *userRepo) DeleteByID(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.q, r.d, "users", id)
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, "users")
}
