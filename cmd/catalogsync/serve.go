package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/carpenike/catalogsync/internal/handlers"
	"github.com/carpenike/catalogsync/internal/notify"
	"github.com/carpenike/catalogsync/internal/scheduler"
)

// ServeCmd runs the web server and the background scheduler.
type ServeCmd struct {
	Addr string `short:"a" long:"addr" description:"Listen address (overrides CATALOGSYNC_ADDR)"`
}

func (c *ServeCmd) Execute(_ []string) error {
	addr := settings.Addr
	if c.Addr != "" {
		addr = c.Addr
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := seedCatalog(db); err != nil {
		return err
	}
	store, err := loadStore(db)
	if err != nil {
		return err
	}

	// Parse templates once at startup.
	tc, err := handlers.NewTemplateCache(templateFS)
	if err != nil {
		return err
	}

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.New(db)
	sessionManager.Lifetime = 24 * time.Hour
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = settings.SecureCookies

	schedOpts := scheduler.Options{
		CatalogPath: settings.CatalogFile,
		Interval:    settings.SyncInterval,
	}
	if settings.ModelsDir != "" {
		schedOpts.Models = os.DirFS(settings.ModelsDir)
	}
	notifier := notify.New(settings.NotifyURLs)
	if notifier.Enabled() {
		schedOpts.Alert = notifier.Broadcast
	}
	defer notifier.Wait()
	sched := scheduler.New(db, store, schedOpts)
	sched.Start()
	defer sched.Stop()

	a := &app{
		db:        db,
		store:     store,
		sessions:  sessionManager,
		templates: tc,
		status:    sched,
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Printf("catalogsync listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
