package controller

import (
	"context"
	"net/http"

	"github.com/unclebandit/hvac-backend/internal/auth"
	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/service"
)

// AuthService is what AuthController needs from service.AuthService.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
	Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error)
	Profile(ctx context.Context, userID int) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int, firstName, lastName, email string) error
	ChangePassword(ctx context.Context, userID int, current, next string) error
}

type AuthController struct {
	Service AuthService
}

func principal(r *http.Request) (auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		return p, appErrors.NewUnauthorized("No token, authorization denied")
	}
	return p, nil
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := c.Service.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var body service.RegisterInput
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := c.Service.Register(r.Context(), body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := c.Service.Profile(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		FirstName string `json:"firstName" validate:"required"`
		LastName  string `json:"lastName" validate:"required"`
		Email     string `json:"email" validate:"required,email"`
	}
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	if err := c.Service.UpdateProfile(r.Context(), p.UserID, body.FirstName, body.LastName, body.Email); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Profile updated successfully")
}

func (c *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		CurrentPassword string `json:"currentPassword" validate:"required"`
		NewPassword     string `json:"newPassword" validate:"required,min=6"`
	}
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	if err := c.Service.ChangePassword(r.Context(), p.UserID, body.CurrentPassword, body.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Password changed successfully")
}
