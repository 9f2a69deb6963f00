// Package config reads catalogsync settings from the environment. A .env
// file in the working directory is loaded first when present; variables
// already set in the environment win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings.
type Config struct {
	DBPath        string        // CATALOGSYNC_DB_PATH
	Addr          string        // CATALOGSYNC_ADDR
	CatalogFile   string        // CATALOGSYNC_CATALOG_FILE, watched for changes
	ModelsDir     string        // CATALOGSYNC_MODELS_DIR, audit disabled when empty
	SyncInterval  time.Duration // CATALOGSYNC_SYNC_INTERVAL
	SecureCookies bool          // CATALOGSYNC_SECURE_COOKIES
	NotifyURLs    string        // CATALOGSYNC_NOTIFY_URLS, Shoutrrr URLs for scheduler alerts
}

// Defaults.
const (
	DefaultDBPath       = "catalogsync.db"
	DefaultAddr         = ":8080"
	DefaultSyncInterval = 5 * time.Minute
)

// Load reads the .env file (if any) and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		DBPath:        getenv("CATALOGSYNC_DB_PATH"),
		Addr:          getenv("CATALOGSYNC_ADDR"),
		CatalogFile:   getenv("CATALOGSYNC_CATALOG_FILE"),
		ModelsDir:     getenv("CATALOGSYNC_MODELS_DIR"),
		SyncInterval:  DefaultSyncInterval,
		SecureCookies: getenv("CATALOGSYNC_SECURE_COOKIES") == "true",
		NotifyURLs:    getenv("CATALOGSYNC_NOTIFY_URLS"),
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	if v := getenv("CATALOGSYNC_SYNC_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: CATALOGSYNC_SYNC_INTERVAL: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("config: CATALOGSYNC_SYNC_INTERVAL must be positive, got %s", d)
		}
		cfg.SyncInterval = d
	}

	return cfg, nil
}
