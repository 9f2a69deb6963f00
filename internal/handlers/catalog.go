package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/alexedwards/scs/v2"

	"github.com/carpenike/catalogsync/internal/catalog"
	"github.com/carpenike/catalogsync/internal/importers"
	"github.com/carpenike/catalogsync/internal/models"
)

// maxCatalogUpload bounds the size of an uploaded catalog file.
const maxCatalogUpload = 4 << 20

// flashKey is the session key for the one-shot message shown after a redirect.
const flashKey = "flash"

// Catalog holds dependencies for catalog management handlers.
type Catalog struct {
	DB        *sql.DB
	Store     *catalog.Store
	Sessions  *scs.SessionManager
	Templates *TemplateCache
}

// Show renders the current catalog and the recent import history.
func (h *Catalog) Show(w http.ResponseWriter, r *http.Request) {
	imports, err := models.ListCatalogImports(h.DB, 10)
	if err != nil {
		log.Printf("handlers: list catalog imports: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	c := h.Store.Load()
	data := map[string]any{
		"Entries":  c.Entries(),
		"Products": c.ProductCount(),
		"Imports":  imports,
		"Flash":    h.Sessions.PopString(r.Context(), flashKey),
	}
	if err := h.Templates.Render(w, r, "catalog.html", data); err != nil {
		log.Printf("handlers: catalog template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// ImportForm renders the catalog upload form.
func (h *Catalog) ImportForm(w http.ResponseWriter, r *http.Request) {
	if err := h.Templates.Render(w, r, "catalog_import.html", nil); err != nil {
		log.Printf("handlers: catalog import form template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Import replaces the catalog with an uploaded JSON, YAML, CSV or XLSX file.
// The stored catalog and the served snapshot change together; a file that
// does not parse leaves both untouched.
func (h *Catalog) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCatalogUpload)
	if err := r.ParseMultipartForm(maxCatalogUpload); err != nil {
		h.importError(w, r, "Upload a catalog file of at most 4 MB")
		return
	}

	file, header, err := r.FormFile("catalog")
	if err != nil {
		h.importError(w, r, "Choose a catalog file to upload")
		return
	}
	defer file.Close()

	c, err := importers.Parse(header.Filename, file)
	switch {
	case errors.Is(err, importers.ErrUnsupportedFormat):
		h.importError(w, r, "Unsupported file type: use .json, .yaml, .csv or .xlsx")
		return
	case err != nil:
		h.importError(w, r, fmt.Sprintf("Could not read catalog: %v", err))
		return
	}

	ci, err := models.ReplaceCatalog(h.DB, c, filepath.Base(header.Filename))
	if errors.Is(err, models.ErrEmptyCatalog) {
		h.importError(w, r, "The uploaded catalog has no categories")
		return
	}
	if err != nil {
		log.Printf("handlers: replace catalog from %q: %v", header.Filename, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.Store.Swap(c)
	log.Printf("handlers: imported catalog %q (%d categories, %d products)", ci.Source, ci.Categories, ci.Products)

	h.Sessions.Put(r.Context(), flashKey,
		fmt.Sprintf("Imported %d categories and %d products from %s", ci.Categories, ci.Products, ci.Source))
	http.Redirect(w, r, "/catalog", http.StatusSeeOther)
}

func (h *Catalog) importError(w http.ResponseWriter, r *http.Request, msg string) {
	if err := h.Templates.RenderStatus(w, r, http.StatusUnprocessableEntity, "catalog_import.html", map[string]any{"Error": msg}); err != nil {
		log.Printf("handlers: catalog import form template: %v", err)
		http.Error(w, msg, http.StatusUnprocessableEntity)
	}
}

// Export downloads the current catalog. ?format=xlsx returns a workbook;
// anything else returns product_list.json.
func (h *Catalog) Export(w http.ResponseWriter, r *http.Request) {
	c := h.Store.Load()

	if r.URL.Query().Get("format") == string(importers.FormatXLSX) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="product_list.xlsx"`)
		if err := importers.WriteXLSX(w, c); err != nil {
			log.Printf("handlers: export catalog xlsx: %v", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="product_list.json"`)
	if err := importers.WriteJSON(w, c); err != nil {
		log.Printf("handlers: export catalog json: %v", err)
	}
}
