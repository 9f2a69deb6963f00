package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/carpenike/catalogsync/internal/audit"
	"github.com/carpenike/catalogsync/internal/models"
)

// AuditCmd checks the models directory for every stored product's assets
// and fails when any are missing.
type AuditCmd struct {
	Models string `short:"m" long:"models" description:"Models directory (overrides CATALOGSYNC_MODELS_DIR)"`
}

func (c *AuditCmd) Execute(_ []string) error {
	dir := settings.ModelsDir
	if c.Models != "" {
		dir = c.Models
	}
	if dir == "" {
		return errors.New("audit: no models directory: set CATALOGSYNC_MODELS_DIR or pass --models")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cat, err := models.LoadCatalog(db)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	report, err := audit.Run(os.DirFS(dir), cat)
	if err != nil {
		return err
	}
	if err := report.WriteText(os.Stdout); err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("audit: %d of %d product(s) missing model assets", len(report.Missing), report.Products)
	}
	return nil
}
