package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears keys for the duration of the test.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadClient_Defaults(t *testing.T) {
	unsetenv(t, "CONFIG_PATH", "VITE_API_BASE_URL", "VITE_APP_TITLE", "PUZZLE_TIMEOUT", "DEV_PROXY_TARGET")

	cfg, err := LoadClient("")
	require.NoError(t, err)
	assert.Equal(t, "Image Puzzle", cfg.AppTitle)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "http://localhost:8080/api", cfg.BaseURL())
}

func TestLoadClient_Env(t *testing.T) {
	unsetenv(t, "CONFIG_PATH", "PUZZLE_TIMEOUT")
	t.Setenv("VITE_API_BASE_URL", "https://puzzle.example.com/api")
	t.Setenv("VITE_APP_TITLE", "Puzzle")

	cfg, err := LoadClient("")
	require.NoError(t, err)
	assert.Equal(t, "https://puzzle.example.com/api", cfg.BaseURL())
	assert.Equal(t, "Puzzle", cfg.AppTitle)
}

func TestLoadClient_File(t *testing.T) {
	unsetenv(t, "VITE_API_BASE_URL", "VITE_APP_TITLE", "PUZZLE_TIMEOUT")
	path := filepath.Join(t.TempDir(), "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app_title: FromFile\ntimeout: 3s\n"), 0600))

	cfg, err := LoadClient(path)
	require.NoError(t, err)
	assert.Equal(t, "FromFile", cfg.AppTitle)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
}

func TestLoadClient_MissingFile(t *testing.T) {
	_, err := LoadClient(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadServer_Validation(t *testing.T) {
	unsetenv(t, "CONFIG_PATH", "DATABASE_DSN", "AUTH_TOKEN_TTL", "TLS_CERT_FILE", "TLS_KEY_FILE")
	_, err := LoadServer("")
	require.ErrorContains(t, err, "DATABASE_DSN")

	t.Setenv("DATABASE_DSN", "postgres://localhost/db")
	t.Setenv("AUTH_JWT_SECRET", "short")
	_, err = LoadServer("")
	require.ErrorContains(t, err, "AUTH_JWT_SECRET")

	t.Setenv("AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("TLS_CERT_FILE", "server.crt")
	unsetenv(t, "TLS_KEY_FILE")
	_, err = LoadServer("")
	require.ErrorContains(t, err, "TLS_KEY_FILE")

	unsetenv(t, "TLS_CERT_FILE")
	cfg, err := LoadServer("")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestFullURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Client
		path string
		want string
	}{
		{"empty", Client{DevProxyTarget: "http://localhost:8080"}, "", ""},
		{"absolute", Client{DevProxyTarget: "http://localhost:8080"}, "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"dev relative", Client{DevProxyTarget: "http://localhost:8080"}, "/uploads/a.png", "http://localhost:8080/uploads/a.png"},
		{"dev no slash", Client{DevProxyTarget: "http://localhost:8080/"}, "uploads/a.png", "http://localhost:8080/uploads/a.png"},
		{"production", Client{APIBaseURL: "https://srv.example.com/api"}, "/uploads/a.png", "https://srv.example.com/uploads/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.FullURL(tt.path))
		})
	}
}
