package service

import (
	"context"
	"fmt"

	"taskmanager/internal/auth"
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	"taskmanager/internal/logger"

	"github.com/go-playground/validator"
)

type AuthService struct {
	users    *UserService
	hasher   auth.PasswordHasher
	tokens   TokenIssuer
	validate *validator.Validate
	// compared against when the email is unknown so both failures cost the same
	dummyHash string
}

func NewAuthService(users *UserService, hasher auth.PasswordHasher, tokens TokenIssuer, v *validator.Validate) (*AuthService, error) {
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}
	return &AuthService{users: users, hasher: hasher, tokens: tokens, validate: v, dummyHash: dummy}, nil
}

// Login checks the credentials and issues a token. Unknown email and wrong
// password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	log := logger.FromContext(ctx)

	if err := validate(s.validate, req); err != nil {
		return nil, err
	}

	creds, err := s.users.LoadCredentials(ctx, req.Username)
	if errors.Is(err, errors.ErrUserNotFound) {
		_ = s.hasher.Compare(s.dummyHash, req.Password)
		log.Info("login failed", "reason", "unknown user")
		return nil, errors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Compare(creds.PasswordHash, req.Password); err != nil {
		log.Info("login failed", "reason", "password mismatch", "user_id", creds.UserID)
		return nil, errors.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(ctx, creds.UserID, creds.Email, creds.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	log.Info("user logged in", "user_id", creds.UserID)
	return &models.AuthResponse{
		Token:     token,
		Email:     creds.Email,
		FirstName: creds.FirstName,
		LastName:  creds.LastName,
	}, nil
}
