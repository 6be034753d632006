// Package main starts the development API server the puzzlenotes client
// talks to: configuration, logging, database, repositories, services,
// handlers and graceful shutdown.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	nethttp "net/http"

	"github.com/atinyakov/puzzlenotes/internal/auth"
	"github.com/atinyakov/puzzlenotes/internal/config"
	"github.com/atinyakov/puzzlenotes/internal/db"
	"github.com/atinyakov/puzzlenotes/internal/logger"
	"github.com/atinyakov/puzzlenotes/internal/repository"
	"github.com/atinyakov/puzzlenotes/internal/server/handler/http"
	"github.com/atinyakov/puzzlenotes/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	var cfgPath string
	root := &cobra.Command{
		Use:           "puzzle-server",
		Short:         "Development API server for the puzzlenotes client",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfgPath)
		},
	}
	root.Flags().StringVar(&cfgPath, "config", "", "path to a YAML config file (or set CONFIG_PATH)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath string) error {
	cfg, err := config.LoadServer(cfgPath)
	if err != nil {
		return err
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	if err := log.Init(cfg.LogLevel); err != nil {
		return err
	}
	zapLogger := log.Log
	defer func() { _ = zapLogger.Sync() }()

	postgresDB, err := db.InitPostgres(cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("cannot init database: %w", err)
	}
	defer postgresDB.Close()

	db.StartSoftDeleteCleaner(ctx, postgresDB, cfg.CleanupInterval, cfg.Retention, zapLogger)

	server := newServer(cfg, postgresDB, zapLogger)
	return serve(ctx, server, cfg, zapLogger)
}

// newServer wires repositories, services and handlers over database.
func newServer(cfg *config.Server, database *sql.DB, log *zap.Logger) *nethttp.Server {
	authRepo := repository.NewPostgresAuthRepository(database)
	noteRepo := repository.NewPostgresNoteRepository(database)

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	authService := service.NewAuthService(authRepo, tokens)
	noteService := service.NewNoteService(noteRepo)

	authHandler := &http.AuthHandler{AuthService: authService, Log: log}
	noteHandler := &http.NoteHandler{NoteService: noteService, Log: log}

	return &nethttp.Server{
		Addr:      cfg.Address,
		Handler:   http.NewRouter(authHandler, noteHandler, tokens, log),
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12},
	}
}

// serve runs server until ctx is done, then drains in-flight requests for
// at most cfg.ShutdownTimeout.
func serve(ctx context.Context, server *nethttp.Server, cfg *config.Server, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if cfg.TLSCertFile != "" {
			log.Info("starting HTTPS server", zap.String("addr", server.Addr))
			errCh <- server.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		log.Info("starting HTTP server", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
