// Package service holds the business rules: validation, uniqueness checks,
// relation resolution and the referential guards that run before deletes.
// Every mutation runs inside a single store transaction.
package service

import (
	"context"
	"fmt"

	"taskmanager/internal/auth"
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	"taskmanager/internal/domain/store"

	"github.com/go-playground/validator"
)

// TokenIssuer signs tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(ctx context.Context, userID int64, email, role string) (string, error)
}

type Services struct {
	Users        *UserService
	TaskStatuses *TaskStatusService
	Labels       *LabelService
	Tasks        *TaskService
	Auth         *AuthService
}

// New wires every service onto one store.
func New(st store.Store, hasher auth.PasswordHasher, tokens TokenIssuer, adminEmail string) (*Services, error) {
	v := models.NewValidator()
	users := NewUserService(st, hasher, v, adminEmail)
	authSvc, err := NewAuthService(users, hasher, tokens, v)
	if err != nil {
		return nil, err
	}
	return &Services{
		Users:        users,
		TaskStatuses: NewTaskStatusService(st, v),
		Labels:       NewLabelService(st, v),
		Tasks:        NewTaskService(st, v),
		Auth:         authSvc,
	}, nil
}

// validate wraps rule failures in ErrValidationFailed, keeping the field
// details reachable through errors.As.
func validate(v *validator.Validate, req any) error {
	err := models.Validate(v, req)
	if err == nil {
		return nil
	}
	var fields models.FieldErrors
	if errors.As(err, &fields) {
		return fmt.Errorf("%w: %w", errors.ErrValidationFailed, fields)
	}
	return fmt.Errorf("%w: %v", errors.ErrValidationFailed, err)
}

// storeErr maps store sentinels onto domain errors. A nil mapping falls back
// to the generic integrity error; unknown errors pass through as internal.
func storeErr(err, notFound, duplicate, referenced error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		if notFound != nil {
			return notFound
		}
		return errors.ErrNotFound
	case errors.Is(err, store.ErrDuplicate):
		if duplicate != nil {
			return fmt.Errorf("%w: %v", duplicate, err)
		}
		return fmt.Errorf("%w: %v", errors.ErrIntegrity, err)
	case errors.Is(err, store.ErrReferenced):
		if referenced != nil {
			return fmt.Errorf("%w: %v", referenced, err)
		}
		return fmt.Errorf("%w: %v", errors.ErrIntegrity, err)
	}
	return err
}
