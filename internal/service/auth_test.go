package service

import (
	"context"
	"errors"
	"testing"

	"github.com/atinyakov/puzzlenotes/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type mockAuthRepo struct {
	CreateUserFunc     func(ctx context.Context, u repository.User) error
	UserByUsernameFunc func(ctx context.Context, username string) (repository.User, error)
	UserByIDFunc       func(ctx context.Context, id uuid.UUID) (repository.User, error)
	UpdateProfileFunc  func(ctx context.Context, id uuid.UUID, ch repository.ProfileChanges) (repository.User, error)
}

func (m *mockAuthRepo) CreateUser(ctx context.Context, u repository.User) error {
	return m.CreateUserFunc(ctx, u)
}
func (m *mockAuthRepo) UserByUsername(ctx context.Context, username string) (repository.User, error) {
	return m.UserByUsernameFunc(ctx, username)
}
func (m *mockAuthRepo) UserByID(ctx context.Context, id uuid.UUID) (repository.User, error) {
	return m.UserByIDFunc(ctx, id)
}
func (m *mockAuthRepo) UpdateProfile(ctx context.Context, id uuid.UUID, ch repository.ProfileChanges) (repository.User, error) {
	return m.UpdateProfileFunc(ctx, id, ch)
}

type issuerFunc func(uuid.UUID) (string, error)

func (f issuerFunc) Issue(id uuid.UUID) (string, error) { return f(id) }

func newAuthService(repo AuthRepository) *AuthService {
	svc := NewAuthService(repo, issuerFunc(func(id uuid.UUID) (string, error) {
		return "token-" + id.String(), nil
	}))
	svc.cost = bcrypt.MinCost
	return svc
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

func TestRegister_Success(t *testing.T) {
	var stored repository.User
	repo := &mockAuthRepo{
		CreateUserFunc: func(ctx context.Context, u repository.User) error {
			stored = u
			return nil
		},
	}
	svc := newAuthService(repo)

	p, err := svc.Register(context.Background(), RegisterInput{Username: " carol ", Password: "secret1", Email: "c@example.com"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if stored.Username != "carol" || stored.Nickname != "carol" {
		t.Errorf("stored user = %+v", stored)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")) != nil {
		t.Error("password hash does not match")
	}
	if p.ID != stored.ID.String() || p.Email != "c@example.com" {
		t.Errorf("profile = %+v", p)
	}
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      RegisterInput
		repoErr error
		wantErr error
	}{
		{"missing username", RegisterInput{Password: "secret1"}, nil, ErrInvalidInput},
		{"short password", RegisterInput{Username: "dave", Password: "123"}, nil, ErrInvalidInput},
		{"taken", RegisterInput{Username: "dave", Password: "secret1"}, repository.ErrUsernameTaken, ErrUserExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAuthRepo{
				CreateUserFunc: func(ctx context.Context, u repository.User) error { return tt.repoErr },
			}
			_, err := newAuthService(repo).Register(context.Background(), tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Register error = %v; want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	id := uuid.New()
	user := repository.User{ID: id, Username: "bob", PasswordHash: hashed(t, "hunter22"), Nickname: "Bobby"}
	repo := &mockAuthRepo{
		UserByUsernameFunc: func(ctx context.Context, username string) (repository.User, error) {
			if username != "bob" {
				return repository.User{}, repository.ErrNotFound
			}
			return user, nil
		},
	}
	svc := newAuthService(repo)

	res, err := svc.Login(context.Background(), "bob", "hunter22")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.Token != "token-"+id.String() || res.UserInfo.Nickname != "Bobby" {
		t.Errorf("Login = %+v", res)
	}

	if _, err := svc.Login(context.Background(), "bob", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v", err)
	}
	if _, err := svc.Login(context.Background(), "eve", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v", err)
	}
}

func TestLogin_RepoError(t *testing.T) {
	wantErr := errors.New("db down")
	repo := &mockAuthRepo{
		UserByUsernameFunc: func(ctx context.Context, username string) (repository.User, error) {
			return repository.User{}, wantErr
		},
	}
	_, err := newAuthService(repo).Login(context.Background(), "bob", "x")
	if !errors.Is(err, wantErr) {
		t.Fatalf("Login error = %v; want %v", err, wantErr)
	}
}

func TestUpdateProfile(t *testing.T) {
	id := uuid.New()
	repo := &mockAuthRepo{
		UpdateProfileFunc: func(ctx context.Context, got uuid.UUID, ch repository.ProfileChanges) (repository.User, error) {
			if got != id || ch.Bio != "hi" {
				t.Errorf("UpdateProfile received %v %+v", got, ch)
			}
			return repository.User{ID: id, Username: "bob", Bio: "hi"}, nil
		},
	}
	p, err := newAuthService(repo).UpdateProfile(context.Background(), id, repository.ProfileChanges{Bio: "hi"})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if p.Bio != "hi" || p.CreatedAt != "" {
		t.Errorf("profile = %+v", p)
	}
}
