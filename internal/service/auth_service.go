package service

import (
	"context"
	"errors"
	"strings"

	"github.com/unclebandit/hvac-backend/internal/auth"
	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

type AuthService struct {
	Users  repository.UserRepositoryInterface
	Tokens *auth.TokenManager
}

type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Role      string `json:"role" validate:"omitempty,oneof=admin user"`
}

var errInvalidCredentials = appErrors.NewUnauthorized("Invalid email or password")

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		var nf *appErrors.NotFoundError
		if errors.As(err, &nf) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, errInvalidCredentials
	}
	return s.issue(u)
}

// Register creates a user. Role defaults to user.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = model.RoleUser
	}
	u := &model.User{
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *model.User) (*AuthResult, error) {
	token, err := s.Tokens.Generate(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: u}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int) (*model.User, error) {
	return s.Users.GetByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int, firstName, lastName, email string) error {
	u := &model.User{ID: userID, FirstName: firstName, LastName: lastName, Email: normalizeEmail(email)}
	return s.Users.UpdateProfile(ctx, u)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int, current, next string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(u.PasswordHash, current) {
		return appErrors.NewValidation("currentPassword", "Current password is incorrect")
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, userID, hash)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
