package main

import (
	"context"
	"encoding/json"
	"net"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atinyakov/puzzlenotes/internal/certgen"
	"github.com/atinyakov/puzzlenotes/internal/client/transport"
	"github.com/atinyakov/puzzlenotes/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Server {
	return &config.Server{
		Address:         "127.0.0.1:0",
		JWTSecret:       "0123456789abcdef0123456789abcdef",
		JWTIssuer:       "puzzlenotes",
		TokenTTL:        time.Hour,
		ShutdownTimeout: time.Second,
	}
}

func TestNewServer_Discover(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM notes WHERE status = 'public'`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM notes n JOIN users u`)).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	srv := newServer(testConfig(), database, zap.NewNop())
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/discover", nil))

	require.Equal(t, nethttp.StatusOK, rec.Code)
	var env struct {
		Code int `json:"code"`
		Data struct {
			Total    int `json:"total"`
			PageSize int `json:"page_size"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.Equal(t, 200, env.Code)
	assert.Equal(t, 20, env.Data.PageSize)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewServer_ProtectedRoute(t *testing.T) {
	database, _, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	srv := newServer(testConfig(), database, zap.NewNop())
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/notes", nil))
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"code":401,"message":"missing bearer token"}`, rec.Body.String())
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func waitListening(t *testing.T, addr string) {
	t.Helper()
	require.Eventually(t, func() bool {
		c, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		_ = c.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServe_TLS(t *testing.T) {
	dir := t.TempDir()
	caPEM, caKeyPEM, err := certgen.GenerateCA("test CA")
	require.NoError(t, err)
	caCert, caKey, err := certgen.ParseCA(caPEM, caKeyPEM)
	require.NoError(t, err)
	certPEM, keyPEM, err := certgen.GenerateServerCertificate([]string{"127.0.0.1"}, caCert, caKey)
	require.NoError(t, err)

	caFile := filepath.Join(dir, "ca.crt")
	require.NoError(t, os.WriteFile(caFile, caPEM, 0o600))
	cfg := testConfig()
	cfg.ShutdownTimeout = 3 * time.Second
	cfg.TLSCertFile = filepath.Join(dir, "server.crt")
	cfg.TLSKeyFile = filepath.Join(dir, "server.key")
	require.NoError(t, os.WriteFile(cfg.TLSCertFile, certPEM, 0o600))
	require.NoError(t, os.WriteFile(cfg.TLSKeyFile, keyPEM, 0o600))

	addr := freeAddr(t)
	srv := &nethttp.Server{Addr: addr, Handler: nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusNoContent)
	})}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, cfg, zap.NewNop()) }()
	waitListening(t, addr)

	client, err := transport.NewHTTPClient(caFile, time.Second)
	require.NoError(t, err)
	resp, err := client.Get("https://" + addr + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	client.CloseIdleConnections()
	assert.Equal(t, nethttp.StatusNoContent, resp.StatusCode)

	cancel()
	assert.NoError(t, <-done)
}

func TestServe_GracefulShutdown(t *testing.T) {
	addr := freeAddr(t)
	cfg := testConfig()
	srv := &nethttp.Server{Addr: addr, Handler: nethttp.NotFoundHandler()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, cfg, zap.NewNop()) }()

	waitListening(t, addr)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
