package models

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carpenike/catalogsync/internal/catalog"
)

// ErrEmptyCatalog is returned when replacing the stored catalog with one
// that has no categories.
var ErrEmptyCatalog = errors.New("catalog has no categories")

// CatalogImport records one replacement of the stored catalog.
type CatalogImport struct {
	ID         int64
	Source     string // file name or "seed"
	Categories int
	Products   int
	ImportedAt time.Time
}

// ReplaceCatalog swaps the stored catalog for c in a single transaction and
// records where it came from. Category and product order are kept through
// their position columns.
func ReplaceCatalog(db *sql.DB, c *catalog.Catalog, source string) (*CatalogImport, error) {
	if c.Len() == 0 {
		return nil, ErrEmptyCatalog
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("models: begin replace catalog tx: %w", err)
	}
	defer tx.Rollback()

	// Products go with their categories via ON DELETE CASCADE.
	if _, err := tx.Exec(`DELETE FROM categories`); err != nil {
		return nil, fmt.Errorf("models: clear catalog: %w", err)
	}

	for i, e := range c.Entries() {
		res, err := tx.Exec(
			`INSERT INTO categories (name, position) VALUES (?, ?)`,
			string(e.Category), i,
		)
		if err != nil {
			return nil, fmt.Errorf("models: insert category %q: %w", e.Category, err)
		}
		categoryID, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("models: category %q id: %w", e.Category, err)
		}

		for j, p := range e.Products {
			if _, err := tx.Exec(
				`INSERT INTO products (category_id, name, position) VALUES (?, ?, ?)`,
				categoryID, string(p), j,
			); err != nil {
				return nil, fmt.Errorf("models: insert product %q in %q: %w", p, e.Category, err)
			}
		}
	}

	res, err := tx.Exec(
		`INSERT INTO catalog_imports (source, categories, products) VALUES (?, ?, ?)`,
		source, c.Len(), c.ProductCount(),
	)
	if err != nil {
		return nil, fmt.Errorf("models: record catalog import: %w", err)
	}
	importID, _ := res.LastInsertId()

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("models: commit replace catalog: %w", err)
	}

	return GetCatalogImport(db, importID)
}

// LoadCatalog reads the stored catalog in category and product order.
// An empty database yields an empty catalog.
func LoadCatalog(db *sql.DB) (*catalog.Catalog, error) {
	rows, err := db.Query(
		`SELECT c.name, p.name
		 FROM categories c
		 LEFT JOIN products p ON p.category_id = c.id
		 ORDER BY c.position, p.position`,
	)
	if err != nil {
		return nil, fmt.Errorf("models: load catalog: %w", err)
	}
	defer rows.Close()

	var entries []catalog.Entry
	for rows.Next() {
		var category string
		var product sql.NullString
		if err := rows.Scan(&category, &product); err != nil {
			return nil, fmt.Errorf("models: scan catalog row: %w", err)
		}

		if n := len(entries); n == 0 || entries[n-1].Category != catalog.Category(category) {
			entries = append(entries, catalog.Entry{Category: catalog.Category(category)})
		}
		if product.Valid {
			last := &entries[len(entries)-1]
			last.Products = append(last.Products, catalog.Product(product.String))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("models: iterate catalog: %w", err)
	}

	return catalog.New(entries...), nil
}

// CountCategories returns the number of stored categories.
func CountCategories(db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("models: count categories: %w", err)
	}
	return n, nil
}

// SeedCatalogIfEmpty stores c when no catalog has been stored yet. It
// reports whether the seed was applied.
func SeedCatalogIfEmpty(db *sql.DB, c *catalog.Catalog) (bool, error) {
	n, err := CountCategories(db)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := ReplaceCatalog(db, c, SourceSeed); err != nil {
		return false, err
	}
	return true, nil
}

// SourceSeed is the import source recorded for the embedded default catalog.
const SourceSeed = "seed"

// GetCatalogImport retrieves a catalog import record by primary key.
func GetCatalogImport(db *sql.DB, id int64) (*CatalogImport, error) {
	ci := &CatalogImport{}
	err := db.QueryRow(
		`SELECT id, source, categories, products, imported_at
		 FROM catalog_imports WHERE id = ?`, id,
	).Scan(&ci.ID, &ci.Source, &ci.Categories, &ci.Products, &ci.ImportedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("models: get catalog import %d: %w", id, err)
	}
	return ci, nil
}

// ListCatalogImports returns the most recent catalog imports, newest first.
func ListCatalogImports(db *sql.DB, limit int) ([]*CatalogImport, error) {
	rows, err := db.Query(
		`SELECT id, source, categories, products, imported_at
		 FROM catalog_imports ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("models: list catalog imports: %w", err)
	}
	defer rows.Close()

	var imports []*CatalogImport
	for rows.Next() {
		ci := &CatalogImport{}
		if err := rows.Scan(&ci.ID, &ci.Source, &ci.Categories, &ci.Products, &ci.ImportedAt); err != nil {
			return nil, fmt.Errorf("models: scan catalog import: %w", err)
		}
		imports = append(imports, ci)
	}
	return imports, rows.Err()
}
