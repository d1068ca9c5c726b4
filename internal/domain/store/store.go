// Package store declares the persistence contracts the services depend on.
// Implementations live under repository/.
package store

import (
	"context"
	"errors"

	"taskmanager/internal/domain/models"
)

var (
	// ErrNotFound is returned by FindBy* lookups that match nothing.
	ErrNotFound = errors.New("entity not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("unique constraint violation")
	// ErrReferenced is returned when a delete would orphan referencing rows.
	ErrReferenced = errors.New("entity is still referenced")
)

// Repository holds the operations shared by every entity table.
type Repository[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id int64) (*T, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// Save inserts when the entity has no id yet and updates otherwise.
	// Generated id and timestamps are written back into the entity.
	Save(ctx context.Context, entity *T) error
	// DeleteByID is a no-op for unknown ids.
	DeleteByID(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type UserRepository interface {
	Repository[models.User]
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type TaskStatusRepository interface {
	Repository[models.TaskStatus]
	FindBySlug(ctx context.Context, slug string) (*models.TaskStatus, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

type LabelRepository interface {
	Repository[models.Label]
	FindByName(ctx context.Context, name string) (*models.Label, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// TaskRepository.Save replaces the task's whole label association with
// entity.LabelIDs, so callers should run it inside a transaction.
type TaskRepository interface {
	Repository[models.Task]
	FindAllMatching(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	ExistsByAssigneeID(ctx context.Context, userID int64) (bool, error)
	ExistsByTaskStatusID(ctx context.Context, statusID int64) (bool, error)
	ExistsByLabelID(ctx context.Context, labelID int64) (bool, error)
}

// Repositories groups the per-entity repositories bound to one connection or transaction.
type Repositories interface {
	Users() UserRepository
	TaskStatuses() TaskStatusRepository
	Labels() LabelRepository
	Tasks() TaskRepository
}

// Store is a Repositories bound to the main connection that can also open a
// transaction. Repositories handed to fn must not escape it.
type Store interface {
	Repositories
	WithinTx(ctx context.Context, fn func(tx Repositories) error) error
	Ping(ctx context.Context) error
	Close() error
}
