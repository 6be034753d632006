// Package http provides HTTP routing and handlers for the dev API server
// the puzzlenotes client talks to.
package http

import (
	"net/http"

	"github.com/atinyakov/puzzlenotes/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the HTTP handler serving the API under /api.
//
// Routes:
//
//	POST /api/auth/register, /api/auth/login   public
//	GET  /api/discover, /api/discover/{id}     public
//	GET  /api/notes/{id}/likes                 optional bearer token
//	everything else                            bearer token required
//
// Requests with a body must be JSON. Every request is logged.
func NewRouter(
	authHandler *AuthHandler,
	noteHandler *NoteHandler,
	tokens middleware.TokenValidator,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/discover", noteHandler.Discover)
		r.Get("/discover/{id}", noteHandler.DiscoverNote)

		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalBearerAuth(tokens))
			r.Get("/notes/{id}/likes", noteHandler.Likes)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(tokens))

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/user", authHandler.User)
			r.Put("/auth/user", authHandler.UpdateUser)

			r.Get("/notes", noteHandler.List)
			r.Post("/notes", noteHandler.Create)
			r.Get("/notes/{id}", noteHandler.Get)
			r.Put("/notes/{id}", noteHandler.Update)
			r.Delete("/notes/{id}", noteHandler.Delete)
			r.Put("/notes/{id}/publish", noteHandler.Publish)
			r.Put("/notes/{id}/draft", noteHandler.Draft)
			r.Put("/notes/{id}/autosave", noteHandler.AutoSave)
			r.Post("/notes/{id}/like", noteHandler.ToggleLike)
		})
	})

	return r
}
