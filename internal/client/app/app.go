// Package app assembles the client: durable storage, transport, session,
// router and domain stores. It is also the adapter that turns an
// unauthorized API result into a session reset and a navigation.
package app

import (
	"fmt"
	"net/http"

	"github.com/atinyakov/puzzlenotes/internal/client/api"
	"github.com/atinyakov/puzzlenotes/internal/client/router"
	"github.com/atinyakov/puzzlenotes/internal/client/session"
	"github.com/atinyakov/puzzlenotes/internal/client/storage"
	"github.com/atinyakov/puzzlenotes/internal/client/stores"
	"github.com/atinyakov/puzzlenotes/internal/client/transport"
	"github.com/atinyakov/puzzlenotes/internal/config"
	"go.uber.org/zap"
)

// App is a constructed client ready for its first navigation.
type App struct {
	Config      *config.Client
	API         *api.Client
	Session     *session.Store
	Router      *router.Router
	Notes       *stores.Notes
	Works       *stores.Works
	Consumption *stores.Consumption

	log *zap.Logger
}

// Options override the parts New would otherwise build from the config.
type Options struct {
	Storage    storage.Store
	HTTPClient *http.Client
	Notifier   transport.Notifier
}

// New builds the client and restores the session from durable storage.
func New(cfg *config.Client, log *zap.Logger, opts Options) (*App, error) {
	st := opts.Storage
	if st == nil {
		fs := storage.NewFileStore(cfg.StoragePath)
		if err := fs.Load(); err != nil {
			return nil, fmt.Errorf("load storage: %w", err)
		}
		st = fs
	}

	hc := opts.HTTPClient
	if hc == nil {
		var err error
		if hc, err = transport.NewHTTPClient(cfg.CAFile, cfg.Timeout); err != nil {
			return nil, err
		}
	}

	a := &App{Config: cfg, log: log}

	topts := []transport.Option{
		transport.WithHTTPClient(hc),
		transport.WithLogger(log.Named("transport")),
		transport.WithLocation(func() string { return a.Router.Current() }),
		transport.WithUnauthorizedHandler(a.unauthorized),
	}
	if opts.Notifier != nil {
		topts = append(topts, transport.WithNotifier(opts.Notifier))
	}
	tc := transport.New(cfg.BaseURL(), st, topts...)

	a.API = api.New(tc)
	a.Session = session.New(a.API, st, cfg.FullURL, log.Named("session"))
	a.Session.Restore()

	table := router.NewTable(router.DefaultRoutes(), router.NotFoundRoute)
	a.Router = router.New(table, router.NewGuard(table, cfg.AppTitle), a.Session, log.Named("router"))

	a.Notes = stores.NewNotes(a.API, log.Named("notes"))
	a.Works = stores.NewWorks(a.API, log.Named("works"))
	a.Consumption = stores.NewConsumption(a.API, log.Named("consumption"))
	return a, nil
}

// unauthorized runs after the transport dropped the durable session.
func (a *App) unauthorized(redirect string) {
	a.Session.Clear()
	a.Notes.Reset()
	if _, err := a.Router.Push(redirect); err != nil {
		a.log.Warn("failed to navigate to login", zap.String("location", redirect), zap.Error(err))
	}
}
