package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/carpenike/catalogsync/internal/importers"
	"github.com/carpenike/catalogsync/internal/models"
)

// ImportCmd replaces the stored catalog with the contents of a file.
type ImportCmd struct {
	Args struct {
		File string `positional-arg-name:"file" description:"Catalog file (.json, .yaml, .csv or .xlsx)"`
	} `positional-args:"yes" required:"yes"`
}

func (c *ImportCmd) Execute(_ []string) error {
	f, err := os.Open(c.Args.File)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	cat, err := importers.Parse(c.Args.File, f)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ci, err := models.ReplaceCatalog(db, cat, filepath.Base(c.Args.File))
	if err != nil {
		return fmt.Errorf("store catalog: %w", err)
	}
	fmt.Printf("Imported %d categories and %d products from %s\n", ci.Categories, ci.Products, ci.Source)
	return nil
}
