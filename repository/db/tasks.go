package db

import (
	"context"
	"database/sql"
	"strings"

	"taskmanager/internal/domain/models"
	"taskmanager/internal/domain/store"
	"taskmanager/internal/logger"
)

const taskSelect = `SELECT t.id, t.task_index, t.title, t.content, t.task_status_id, s.slug, t.assignee_id, t.created_at
FROM tasks t JOIN task_statuses s ON s.id = t.task_status_id`

type taskRepo struct {
	q querier
	d Dialect
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		t        models.Task
		index    sql.NullInt64
		assignee sql.NullInt64
	)
	if err := row.Scan(&t.ID, &index, &t.Title, &t.Content, &t.TaskStatusID, &t.TaskStatusSlug,
		&assignee, timestamp{&t.CreatedAt}); err != nil {
		return nil, err
	}
	if index.Valid {
		i := int(index.Int64)
		t.Index = &i
	}
	if assignee.Valid {
		a := assignee.Int64
		t.AssigneeID = &a
	}
	t.LabelIDs = []int64{}
	return &t, nil
}

// buildTaskQuery appends one WHERE fragment per set filter field.
func buildTaskQuery(d Dialect, f store.TaskFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.TitleCont != "" {
		conds = append(conds, d.lower("t.title")+` LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(f.TitleCont))
	}
	if f.AssigneeID != nil {
		conds = append(conds, "t.assignee_id = ?")
		args = append(args, *f.AssigneeID)
	}
	if f.StatusSlug != "" {
		conds = append(conds, "s.slug = ?")
		args = append(args, f.StatusSlug)
	}
	if f.LabelID != nil {
		conds = append(conds, "EXISTS (SELECT 1 FROM task_labels tl WHERE tl.task_id = t.id AND tl.label_id = ?)")
		args = append(args, *f.LabelID)
	}

	query := taskSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	return query + " ORDER BY t.id", args
}

func (r *taskRepo) FindAll(ctx context.Context) ([]models.Task, error) {
	return r.FindAllMatching(ctx, store.TaskFilter{})
}

func (r *taskRepo) FindAllMatching(ctx context.Context, f store.TaskFilter) ([]models.Task, error) {
	query, args := buildTaskQuery(r.d, f)
	rows, err := r.q.QueryContext(ctx, r.d.rebind(query), args...)
	if err != nil {
		logger.FromContext(ctx).Error("task query failed", "error", err)
		return nil, mapError(err)
	}

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// release the connection before the label query; sqlite has only one
	rows.Close()

	if err := r.attachLabels(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// attachLabels loads the label ids of every task in one query.
func (r *taskRepo) attachLabels(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	byID := make(map[int64]int, len(tasks))
	args := make([]any, 0, len(tasks))
	for i, t := range tasks {
		byID[t.ID] = i
		args = append(args, t.ID)
	}

	query := "SELECT task_id, label_id FROM task_labels WHERE task_id IN (" + placeholders(len(args)) + ") ORDER BY task_id, label_id"
	rows, err := r.q.QueryContext(ctx, r.d.rebind(query), args...)
	if err != nil {
		return mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, labelID int64
		if err := rows.Scan(&taskID, &labelID); err != nil {
			return err
		}
		if i, ok := byID[taskID]; ok {
			tasks[i].LabelIDs = append(tasks[i].LabelIDs, labelID)
		}
	}
	return rows.Err()
}

func (r *taskRepo) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	row := r.q.QueryRowContext(ctx, r.d.rebind(taskSelect+" WHERE t.id = ?"), id)
	t, err := scanTask(row)
	if err != nil {
		return nil, mapError(err)
	}

	tasks := []models.Task{*t}
	if err := r.attachLabels(ctx, tasks); err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

func (r *taskRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.q, r.d, "SELECT 1 FROM tasks WHERE id = ?", id)
}

func (r *taskRepo) ExistsByAssigneeID(ctx context.Context, userID int64) (bool, error) {
	return exists(ctx, r.q, r.d, "SELECT 1 FROM tasks WHERE assignee_id = ? LIMIT 1", userID)
}

func (r *taskRepo) ExistsByTaskStatusID(ctx context.Context, statusID int64) (bool, error) {
	return exists(ctx, r.q, r.d, "SELECT 1 FROM tasks WHERE task_status_id = ? LIMIT 1", statusID)
}

func (r *taskRepo) ExistsByLabelID(ctx context.Context, labelID int64) (bool, error) {
	return exists(ctx, r.q, r.d, "SELECT 1 FROM task_labels WHERE label_id = ? LIMIT 1", labelID)
}

// Save writes the task row and then replaces its label rows with t.LabelIDs.
func (r *taskRepo) Save(ctx context.Context, t *models.Task) error {
	var index, assignee sql.NullInt64
	if t.Index != nil {
		index = sql.NullInt64{Int64: int64(*t.Index), Valid: true}
	}
	if t.AssigneeID != nil {
		assignee = sql.NullInt64{Int64: *t.AssigneeID, Valid: true}
	}

	if t.ID == 0 {
		ts := now()
		err := r.q.QueryRowContext(ctx, r.d.rebind(`
			INSERT INTO tasks (task_index, title, content, task_status_id, assignee_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id`),
			index, t.Title, t.Content, t.TaskStatusID, assignee, ts,
		).Scan(&t.ID)
		if err != nil {
			return mapError(err)
		}
		t.CreatedAt = ts
	} else {
		res, err := r.q.ExecContext(ctx, r.d.rebind(`
			UPDATE tasks SET task_index = ?, title = ?, content = ?, task_status_id = ?, assignee_id = ?
			WHERE id = ?`),
			index, t.Title, t.Content, t.TaskStatusID, assignee, t.ID,
		)
		if err != nil {
			return mapError(err)
		}
		if err := updated(res); err != nil {
			return err
		}
	}

	return r.replaceLabels(ctx, t)
}

func (r *taskRepo) replaceLabels(ctx context.Context, t *models.Task) error {
	if _, err := r.q.ExecContext(ctx, r.d.rebind("DELETE FROM task_labels WHERE task_id = ?"), t.ID); err != nil {
		return mapError(err)
	}

	seen := make(map[int64]struct{}, len(t.LabelIDs))
	ids := make([]int64, 0, len(t.LabelIDs))
	for _, id := range t.LabelIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	insert := r.d.rebind("INSERT INTO task_labels (task_id, label_id) VALUES (?, ?)")
	for _, id := range ids {
		if _, err := r.q.ExecContext(ctx, insert, t.ID, id); err != nil {
			return mapError(err)
		}
	}
	t.LabelIDs = ids
	return nil
}

func (r *taskRepo) DeleteByID(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.q, r.d, "tasks", id)
}

func (r *taskRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, "tasks")
}
