// Package session owns the client's authentication state: the bearer
// token and the cached profile, mirrored to durable storage.
package session

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/atinyakov/puzzlenotes/internal/client/api"
	"github.com/atinyakov/puzzlenotes/internal/client/storage"
	"github.com/atinyakov/puzzlenotes/internal/models"
	"go.uber.org/zap"
)

// API is the part of the service the session talks to.
type API interface {
	Login(ctx context.Context, in api.Credentials) (models.LoginResult, error)
	Register(ctx context.Context, in api.Registration) error
	User(ctx context.Context) (models.UserProfile, error)
	UpdateUser(ctx context.Context, in api.ProfileUpdate) (models.UserProfile, error)
	UploadAvatar(ctx context.Context, name string, content io.Reader) (models.AvatarUpload, error)
	Logout(ctx context.Context) error
}

// Store is the session state. It is created empty; call Restore before
// the first navigation.
type Store struct {
	api     API
	storage storage.Store
	// resolve turns a relative asset path into an absolute URL.
	resolve func(string) string
	log     *zap.Logger

	mu    sync.RWMutex
	token string
	user  *models.UserProfile
}

// New returns an empty session. resolve may be nil.
func New(a API, st storage.Store, resolve func(string) string, log *zap.Logger) *Store {
	if resolve == nil {
		resolve = func(s string) string { return s }
	}
	return &Store{api: a, storage: st, resolve: resolve, log: log}
}

// Restore loads the token and cached profile from durable storage. The
// profile is only adopted alongside a token. A cached profile that does not
// parse is removed.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token, _ = s.storage.Get(storage.KeyToken)
	s.user = nil
	if s.token == "" {
		return
	}

	raw, ok := s.storage.Get(storage.KeyUserInfo)
	if !ok || raw == "" {
		return
	}
	var p models.UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.log.Debug("discarding cached profile", zap.Error(err))
		if err := s.storage.Remove(storage.KeyUserInfo); err != nil {
			s.log.Warn("failed to remove cached profile", zap.Error(err))
		}
		return
	}
	p.Avatar = s.resolve(p.Avatar)
	s.user = &p
}

// Login authenticates and persists the session. On failure the session and
// durable storage are left untouched and the error is returned as is.
func (s *Store) Login(ctx context.Context, username, password string) (models.LoginResult, error) {
	res, err := s.api.Login(ctx, api.Credentials{Username: username, Password: password})
	if err != nil {
		return res, err
	}
	res.UserInfo.Avatar = s.resolve(res.UserInfo.Avatar)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = res.Token
	profile := res.UserInfo
	s.user = &profile
	if err := s.storage.Set(storage.KeyToken, res.Token); err != nil {
		s.log.Warn("failed to persist token", zap.Error(err))
	}
	s.persistProfile(profile)
	return res, nil
}

// Register creates an account. It does not log in.
func (s *Store) Register(ctx context.Context, username, password, email string) error {
	return s.api.Register(ctx, api.Registration{Username: username, Password: password, Email: email})
}

// Logout drops the session from memory and durable storage. It is safe to
// call on an empty session.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	for _, key := range []string{storage.KeyToken, storage.KeyUserInfo} {
		if err := s.storage.Remove(key); err != nil {
			s.log.Warn("failed to remove session key", zap.String("key", key), zap.Error(err))
		}
	}
}

// LogoutRemote tells the server to invalidate the token, then logs out
// locally whatever the server answered.
func (s *Store) LogoutRemote(ctx context.Context) {
	if s.IsAuthenticated() {
		if err := s.api.Logout(ctx); err != nil {
			s.log.Debug("remote logout failed", zap.Error(err))
		}
	}
	s.Logout()
}

// Clear resets the in-memory session. Durable keys are left to the caller.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

// FetchProfile reloads the profile from the server.
func (s *Store) FetchProfile(ctx context.Context) (models.UserProfile, error) {
	p, err := s.api.User(ctx)
	if err != nil {
		return p, err
	}
	return s.adoptProfile(p), nil
}

// UpdateProfile changes profile fields and adopts the returned profile.
func (s *Store) UpdateProfile(ctx context.Context, in api.ProfileUpdate) (models.UserProfile, error) {
	p, err := s.api.UpdateUser(ctx, in)
	if err != nil {
		return p, err
	}
	return s.adoptProfile(p), nil
}

// UploadAvatar uploads a new avatar and stores its URL in the profile.
func (s *Store) UploadAvatar(ctx context.Context, name string, content io.Reader) (string, error) {
	up, err := s.api.UploadAvatar(ctx, name, content)
	if err != nil {
		return "", err
	}
	avatar := up.URL
	if avatar == "" {
		avatar = up.Avatar
	}
	avatar = s.resolve(avatar)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil {
		s.user.Avatar = avatar
		s.persistProfile(*s.user)
	}
	return avatar, nil
}

// Validate reports whether the stored token is still accepted. A rejected
// token ends the session.
func (s *Store) Validate(ctx context.Context) bool {
	if !s.IsAuthenticated() {
		return false
	}
	if _, err := s.FetchProfile(ctx); err != nil {
		s.log.Debug("token validation failed", zap.Error(err))
		s.Logout()
		return false
	}
	return true
}

// IsAuthenticated reports whether a token is held.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Token returns the bearer token, empty when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Profile returns a copy of the cached profile.
func (s *Store) Profile() (models.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.UserProfile{}, false
	}
	return *s.user, true
}

func (s *Store) adoptProfile(p models.UserProfile) models.UserProfile {
	p.Avatar = s.resolve(p.Avatar)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &p
	s.persistProfile(p)
	return p
}

// persistProfile must be called with mu held.
func (s *Store) persistProfile(p models.UserProfile) {
	data, err := json.Marshal(p)
	if err != nil {
		s.log.Warn("failed to encode profile", zap.Error(err))
		return
	}
	if err := s.storage.Set(storage.KeyUserInfo, string(data)); err != nil {
		s.log.Warn("failed to persist profile", zap.Error(err))
	}
}
