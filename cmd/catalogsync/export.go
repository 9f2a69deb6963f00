package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/carpenike/catalogsync/internal/importers"
	"github.com/carpenike/catalogsync/internal/models"
)

// ExportCmd writes the stored catalog to stdout or a file. The format
// follows the output file's extension unless --format is given.
type ExportCmd struct {
	Output string `short:"o" long:"output" description:"Output file (stdout if empty)"`
	Format string `long:"format" choice:"json" choice:"xlsx" description:"Output format"`
}

func (c *ExportCmd) Execute(_ []string) error {
	format := importers.Format(c.Format)
	if format == "" {
		format = importers.FormatFromName(c.Output)
	}
	if format == "" {
		format = importers.FormatJSON
	}
	if format != importers.FormatJSON && format != importers.FormatXLSX {
		return fmt.Errorf("export: %s: %w", filepath.Ext(c.Output), importers.ErrUnsupportedFormat)
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

	var w io.Writer = os.Stdout
	if strings.TrimSpace(c.Output) != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("create %s: %w", c.Output, err)
		}
		defer f.Close()
		w = f
	}

	if format == importers.FormatXLSX {
		return importers.WriteXLSX(w, cat)
	}
	return importers.WriteJSON(w, cat)
}
