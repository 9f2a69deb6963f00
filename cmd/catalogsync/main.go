package main

import (
	"bytes"
	"database/sql"
	"embed"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"

	"github.com/carpenike/catalogsync/internal/catalog"
	"github.com/carpenike/catalogsync/internal/config"
	"github.com/carpenike/catalogsync/internal/database"
	"github.com/carpenike/catalogsync/internal/importers"
	"github.com/carpenike/catalogsync/internal/models"
)

//go:embed all:templates
var templateFS embed.FS

//go:embed all:static
var staticFS embed.FS

// settings is loaded once in main and read by every command.
var settings config.Config

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	settings = cfg

	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"serve"}
	}

	opts := &Options{}
	opts.Init(args[0])

	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			fmt.Println(flagsErr.Message)
			return
		}
		log.Fatalf("%v", err)
	}
}

// openDB opens the configured database and brings its schema up to date.
func openDB() (*sql.DB, error) {
	db, err := database.Open(settings.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	v, err := database.SchemaVersion(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Printf("Database ready: %s (schema version %d)", filepath.Clean(settings.DBPath), v)
	return db, nil
}

// seedCatalog stores the embedded default catalog when the database holds
// none yet.
func seedCatalog(db *sql.DB) error {
	c, err := importers.ParseJSON(bytes.NewReader(database.DefaultCatalog()))
	if err != nil {
		return fmt.Errorf("parse default catalog: %w", err)
	}
	seeded, err := models.SeedCatalogIfEmpty(db, c)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if seeded {
		log.Printf("Seeded default catalog (%d categories, %d products)", c.Len(), c.ProductCount())
	}
	return nil
}

// loadStore reads the stored catalog into a fresh Store.
func loadStore(db *sql.DB) (*catalog.Store, error) {
	c, err := models.LoadCatalog(db)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return catalog.NewStore(c), nil
}
