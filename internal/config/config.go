// Package config provides the configuration of the puzzlenotes client and
// of the development API server, read from an optional YAML file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultAPIPath is the path the API is mounted under on the dev proxy target.
const DefaultAPIPath = "/api"

// Client holds the client configuration.
type Client struct {
	// APIBaseURL is an absolute API URL used in production. Empty or
	// relative values fall back to DevProxyTarget + DefaultAPIPath.
	APIBaseURL string `yaml:"api_base_url" env:"VITE_API_BASE_URL"`
	// AppTitle is appended to every page title.
	AppTitle string `yaml:"app_title" env:"VITE_APP_TITLE" env-default:"Image Puzzle"`
	// DevProxyTarget is the origin the relative API path resolves against.
	DevProxyTarget string `yaml:"dev_proxy_target" env:"DEV_PROXY_TARGET" env-default:"http://localhost:8080"`
	// StoragePath is the file of the durable session store.
	StoragePath string `yaml:"storage_path" env:"PUZZLE_STORAGE" env-default:"storage.json"`
	// Timeout bounds every API request.
	Timeout time.Duration `yaml:"timeout" env:"PUZZLE_TIMEOUT" env-default:"10s"`
	// CAFile is an optional PEM bundle trusted in addition to system roots.
	CAFile string `yaml:"ca_file" env:"PUZZLE_CA_FILE"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"warn"`
}

// Server holds the development API server configuration.
type Server struct {
	Address         string        `yaml:"address"          env:"SERVER_ADDRESS"        env-default:"localhost:8080"`
	DatabaseDSN     string        `yaml:"database_dsn"     env:"DATABASE_DSN"`
	JWTSecret       string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"`
	JWTIssuer       string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"puzzlenotes"`
	TokenTTL        time.Duration `yaml:"token_ttl"        env:"AUTH_TOKEN_TTL"        env-default:"24h"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"CLEANUP_INTERVAL"      env-default:"1h"`
	Retention       time.Duration `yaml:"retention"        env:"CLEANUP_RETENTION"     env-default:"720h"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	LogLevel        string        `yaml:"log_level"        env:"LOG_LEVEL"             env-default:"info"`
	// TLSCertFile and TLSKeyFile switch the server to HTTPS when both are set.
	TLSCertFile string `yaml:"tls_cert_file" env:"TLS_CERT_FILE"`
	TLSKeyFile  string `yaml:"tls_key_file"  env:"TLS_KEY_FILE"`
}

// LoadClient reads the client configuration. path is an optional YAML
// file; when empty CONFIG_PATH is consulted. Environment variables take
// precedence over the file.
func LoadClient(path string) (*Client, error) {
	var cfg Client
	if err := load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("config: timeout must be positive")
	}
	return &cfg, nil
}

// LoadServer reads the dev server configuration the same way as LoadClient.
func LoadServer(path string) (*Server, error) {
	var cfg Server
	if err := load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.DatabaseDSN == "" {
		return nil, errors.New("config: DATABASE_DSN is required")
	}
	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return nil, errors.New("config: TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("config: AUTH_JWT_SECRET must be at least 32 characters")
	}
	return &cfg, nil
}

func load(path string, cfg any) error {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return fmt.Errorf("config: read env: %w", err)
		}
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config: file %s: %w", path, err)
	}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	return nil
}

// BaseURL returns the API base URL requests are sent to.
func (c *Client) BaseURL() string {
	if isAbsolute(c.APIBaseURL) {
		return strings.TrimRight(c.APIBaseURL, "/")
	}
	return strings.TrimRight(c.DevProxyTarget, "/") + DefaultAPIPath
}

// FullURL turns a server-relative asset path (e.g. an avatar) into an
// absolute URL. Absolute URLs and the empty string are returned unchanged.
func (c *Client) FullURL(path string) string {
	if path == "" || isAbsolute(path) {
		return path
	}
	origin := strings.TrimRight(c.DevProxyTarget, "/")
	if isAbsolute(c.APIBaseURL) {
		origin = strings.TrimSuffix(strings.TrimRight(c.APIBaseURL, "/"), DefaultAPIPath)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return origin + path
}

func isAbsolute(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}
