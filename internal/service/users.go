package service

import (
	"context"
	"fmt"
	"strings"

	"taskmanager/internal/auth"
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	"taskmanager/internal/domain/store"
	"taskmanager/internal/logger"
	"taskmanager/internal/mapper"

	"github.com/go-playground/validator"
)

type UserService struct {
	store      store.Store
	hasher     auth.PasswordHasher
	validate   *validator.Validate
	adminEmail string
}

func NewUserService(st store.Store, hasher auth.PasswordHasher, v *validator.Validate, adminEmail string) *UserService {
	return &UserService{store: st, hasher: hasher, validate: v, adminEmail: adminEmail}
}

func (s *UserService) List(ctx context.Context) ([]models.UserResponse, error) {
	users, err := s.store.Users().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToUserResponses(users), nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.UserResponse, error) {
	u, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, errors.ErrUserNotFound, nil, nil)
	}
	resp := mapper.ToUserResponse(*u)
	return &resp, nil
}

func (s *UserService) Create(ctx context.Context, req models.UserCreateRequest) (*models.UserResponse, error) {
	if err := validate(s.validate, req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := mapper.NewUser(req)
	u.PasswordHash = hash

	err = s.store.WithinTx(ctx, func(tx store.Repositories) error {
		taken, err := tx.Users().ExistsByEmail(ctx, u.Email)
		if err != nil {
			return err
		}
		if taken {
			return errors.ErrEmailTaken
		}
		return storeErr(tx.Users().Save(ctx, &u), nil, errors.ErrEmailTaken, nil)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user created", "user_id", u.ID)
	resp := mapper.ToUserResponse(u)
	return &resp, nil
}

// Update applies only the fields present in req. The password is re-hashed
// only when a new one is sent.
func (s *UserService) Update(ctx context.Context, id int64, req models.UserUpdateRequest) (*models.UserResponse, error) {
	if err := validate(s.validate, req); err != nil {
		return nil, err
	}

	var hash string
	if req.Password.Present() {
		h, err := s.hasher.Hash(req.Password.Value)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = h
	}

	var u *models.User
	err := s.store.WithinTx(ctx, func(tx store.Repositories) error {
		var err error
		u, err = tx.Users().FindByID(ctx, id)
		if err != nil {
			return storeErr(err, errors.ErrUserNotFound, nil, nil)
		}

		if req.Email.Present() && req.Email.Value != u.Email {
			taken, err := tx.Users().ExistsByEmail(ctx, req.Email.Value)
			if err != nil {
				return err
			}
			if taken {
				return errors.ErrEmailTaken
			}
		}

		mapper.ApplyUserUpdate(req, u)
		if hash != "" {
			u.PasswordHash = hash
		}
		return storeErr(tx.Users().Save(ctx, u), errors.ErrUserNotFound, errors.ErrEmailTaken, nil)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user updated", "user_id", id)
	resp := mapper.ToUserResponse(*u)
	return &resp, nil
}

// Delete refuses to remove a user that is still assigned to a task.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.store.WithinTx(ctx, func(tx store.Repositories) error {
		found, err := tx.Users().ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return errors.ErrUserNotFound
		}

		assigned, err := tx.Tasks().ExistsByAssigneeID(ctx, id)
		if err != nil {
			return err
		}
		if assigned {
			return errors.ErrUserHasTasks
		}
		return storeErr(tx.Users().DeleteByID(ctx, id), nil, nil, errors.ErrUserHasTasks)
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("user deleted", "user_id", id)
	return nil
}

// LoadCredentials is the identity lookup used by login.
func (s *UserService) LoadCredentials(ctx context.Context, email string) (*models.Credentials, error) {
	u, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, storeErr(err, errors.ErrUserNotFound, nil, nil)
	}
	return &models.Credentials{
		UserID:       u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		Role:         s.RoleOf(u.Email),
	}, nil
}

// RoleOf derives the role from the email: the bootstrap admin is admin,
// everybody else is a plain user.
func (s *UserService) RoleOf(email string) string {
	if s.adminEmail != "" && strings.EqualFold(email, s.adminEmail) {
		return models.RoleAdmin
	}
	return models.RoleUser
}

// IsOwner reports whether the principal's account is the user with id.
// Ownership follows the id, which survives email changes and is never handed
// to a later registration. A missing user is not owned by anyone.
func (s *UserService) IsOwner(ctx context.Context, principalID, id int64) (bool, error) {
	if principalID <= 0 || principalID != id {
		return false, nil
	}
	return s.store.Users().ExistsByID(ctx, id)
}
