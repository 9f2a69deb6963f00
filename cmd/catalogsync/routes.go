package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/carpenike/catalogsync/internal/catalog"
	"github.com/carpenike/catalogsync/internal/handlers"
	"github.com/carpenike/catalogsync/internal/middleware"
)

// importsPerMinute caps catalog uploads per client IP.
const importsPerMinute = 10

// app holds what the HTTP routes share.
type app struct {
	db        *sql.DB
	store     *catalog.Store
	sessions  *scs.SessionManager
	templates *handlers.TemplateCache
	status    handlers.StatusSource
}

func (a *app) routes() http.Handler {
	pages := &handlers.Pages{Catalog: a.store, Templates: a.templates}
	products := &handlers.Products{Catalog: a.store, Templates: a.templates}
	catalogs := &handlers.Catalog{DB: a.db, Store: a.store, Sessions: a.sessions, Templates: a.templates}
	audits := &handlers.Audit{Scheduler: a.status, Templates: a.templates}
	limiter := middleware.NewRateLimiter(importsPerMinute, time.Minute)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.NotFound(a.templates.NotFound)

	// Static files and health check.
	r.Handle("/static/*", http.FileServerFS(staticFS))
	r.Get("/health", handleHealth)

	// Selection form and the synchronized product options.
	r.Get("/", pages.Index)
	r.Get("/products", products.Options)
	r.Get("/api/categories/{category}/products", products.JSON)

	// Catalog management needs a session for CSRF and flash messages.
	r.Group(func(r chi.Router) {
		r.Use(a.sessions.LoadAndSave)
		r.Use(middleware.CSRFProtect(a.sessions))

		r.Get("/catalog", catalogs.Show)
		r.Get("/catalog/import", catalogs.ImportForm)
		r.With(limiter.Limit).Post("/catalog/import", catalogs.Import)
		r.Get("/catalog/export", catalogs.Export)
		r.Get("/audit", audits.Show)
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}
