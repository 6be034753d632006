package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/puzzlenotes/internal/middleware"
	"github.com/atinyakov/puzzlenotes/internal/models"
	"github.com/atinyakov/puzzlenotes/internal/repository"
	"github.com/atinyakov/puzzlenotes/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService defines the account operations required by AuthHandler.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (models.UserProfile, error)
	Login(ctx context.Context, username, password string) (models.LoginResult, error)
	Profile(ctx context.Context, id uuid.UUID) (models.UserProfile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, ch repository.ProfileChanges) (models.UserProfile, error)
}

// AuthHandler handles registration, login and profile requests.
type AuthHandler struct {
	AuthService AuthService
	Log         *zap.Logger
}

// RegisterRequest is the JSON payload for user registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// LoginRequest is the JSON payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileRequest is the JSON payload of a profile update.
type ProfileRequest struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
	Location string `json:"location"`
	Website  string `json:"website"`
	Avatar   string `json:"avatar"`
}

// Register creates an account and returns its profile.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}
	p, err := h.AuthService.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeData(w, p)
}

// Login returns a bearer token and the user's profile.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}
	res, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeData(w, res)
}

// Logout acknowledges the request. Tokens are stateless and expire on their own.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeData(w, nil)
}

// User returns the caller's profile.
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetUserIDFromContext(r.Context())
	p, err := h.AuthService.Profile(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeData(w, p)
}

// UpdateUser overwrites the non-empty profile fields of the request.
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}
	id, _ := middleware.GetUserIDFromContext(r.Context())
	p, err := h.AuthService.UpdateProfile(r.Context(), id, repository.ProfileChanges(req))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeData(w, p)
}
