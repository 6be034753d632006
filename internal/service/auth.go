// Package service provides the business logic of the dev API server,
// delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/puzzlenotes/internal/models"
	"github.com/atinyakov/puzzlenotes/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserExists is returned when registering a taken username.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidInput is returned when a request is missing required fields.
	ErrInvalidInput = errors.New("invalid input")
)

const minPasswordLen = 6

// AuthRepository defines the persistence operations
// required by the authentication service.
type AuthRepository interface {
	CreateUser(ctx context.Context, u repository.User) error
	UserByUsername(ctx context.Context, username string) (repository.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (repository.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, ch repository.ProfileChanges) (repository.User, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// RegisterInput is a new account request.
type RegisterInput struct {
	Username string
	Password string
	Email    string
}

// AuthService implements account operations.
type AuthService struct {
	repo   AuthRepository
	tokens TokenIssuer
	// cost is the bcrypt cost; tests lower it.
	cost int
}

// NewAuthService constructs an AuthService.
func NewAuthService(repo AuthRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, cost: bcrypt.DefaultCost}
}

// Register creates an account with a bcrypt password hash. The nickname
// starts as the username.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.UserProfile, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || len(in.Password) < minPasswordLen {
		return models.UserProfile{}, fmt.Errorf("%w: username and a password of at least %d characters are required", ErrInvalidInput, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("hash password: %w", err)
	}
	u := repository.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		Nickname:     in.Username,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return models.UserProfile{}, ErrUserExists
		}
		return models.UserProfile{}, err
	}
	return Profile(u), nil
}

// Login checks the credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.LoginResult, error) {
	u, err := s.repo.UserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, repository.ErrNotFound) {
		return models.LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.LoginResult{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return models.LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return models.LoginResult{}, err
	}
	return models.LoginResult{Token: token, UserInfo: Profile(u)}, nil
}

// Profile returns the profile of the user with id.
func (s *AuthService) Profile(ctx context.Context, id uuid.UUID) (models.UserProfile, error) {
	u, err := s.repo.UserByID(ctx, id)
	if err != nil {
		return models.UserProfile{}, err
	}
	return Profile(u), nil
}

// UpdateProfile overwrites the non-empty fields of ch.
func (s *AuthService) UpdateProfile(ctx context.Context, id uuid.UUID, ch repository.ProfileChanges) (models.UserProfile, error) {
	u, err := s.repo.UpdateProfile(ctx, id, ch)
	if err != nil {
		return models.UserProfile{}, err
	}
	return Profile(u), nil
}

// Profile converts a stored user to its wire form.
func Profile(u repository.User) models.UserProfile {
	return models.UserProfile{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Nickname:  u.Nickname,
		Phone:     u.Phone,
		Bio:       u.Bio,
		Location:  u.Location,
		Website:   u.Website,
		CreatedAt: timestamp(u.CreatedAt),
		UpdatedAt: timestamp(u.UpdatedAt),
	}
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
