package main

import (
	"context"
	"net/http"
	"time"

	"bookshelf/internal/httpx"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type statusResponse struct {
	Status string `json:"status"`
}

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(httpx.RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(httpx.AccessLogMiddleware(app.logger))
	r.Use(httpx.RecoveryMiddleware(app.logger))
	r.Use(httpx.SecurityHeadersMiddleware(app.cfg.Server.EnableHSTS))
	r.Use(httpx.CORSMiddleware(app.cfg.Server.CORSAllowedOrigins))
	r.Use(app.limiter.Middleware)
	r.Use(httpx.RequestSizeLimitMiddleware(app.cfg.Server.MaxBodyBytes))

	r.NotFound(httpx.NotFound)
	r.MethodNotAllowed(httpx.MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.health)
		r.Get("/ready", app.readiness)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", app.auth.Register)
			r.Post("/login", app.auth.Login)
			r.Post("/logout", app.auth.Logout)
		})

		r.Route("/books", func(r chi.Router) {
			r.Use(httpx.AuthMiddleware(app.resolver))
			r.Get("/", app.books.List)
			r.Post("/", app.books.Add)
			r.Patch("/{userBookId}", app.books.UpdateProgress)
			r.Delete("/{userBookId}", app.books.Delete)
		})
	})

	return r
}

func (app *application) health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, statusResponse{Status: "UP"})
}

func (app *application) readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := app.ready(ctx); err != nil {
		app.logger.Warn("not ready", "err", err)
		httpx.JSON(w, http.StatusServiceUnavailable, statusResponse{Status: "DOWN"})
		return
	}
	httpx.JSON(w, http.StatusOK, statusResponse{Status: "UP"})
}
