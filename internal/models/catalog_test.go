package models

import (
	"errors"
	"reflect"
	"testing"

	"github.com/carpenike/catalogsync/internal/catalog"
)

func fruitVeg() *catalog.Catalog {
	return catalog.New(
		catalog.Entry{Category: "veg", Products: []catalog.Product{"carrot", "leek"}},
		catalog.Entry{Category: "fruit", Products: []catalog.Product{"banana", "apple"}},
		catalog.Entry{Category: "empty"},
	)
}

func TestReplaceCatalog_RoundTrip(t *testing.T) {
	db := testDB(t)

	ci, err := ReplaceCatalog(db, fruitVeg(), "product_list.json")
	if err != nil {
		t.Fatalf("replace catalog: %v", err)
	}
	if ci.Source != "product_list.json" || ci.Categories != 3 || ci.Products != 4 {
		t.Errorf("unexpected import record: %+v", ci)
	}
	if ci.ImportedAt.IsZero() {
		t.Error("expected imported_at to be set")
	}

	got, err := LoadCatalog(db)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if !reflect.DeepEqual(got.Entries(), fruitVeg().Entries()) {
		t.Errorf("loaded %+v, want %+v", got.Entries(), fruitVeg().Entries())
	}
}

func TestReplaceCatalog_ReplacesPrevious(t *testing.T) {
	db := testDB(t)

	if _, err := ReplaceCatalog(db, fruitVeg(), "first"); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	next := catalog.New(catalog.Entry{Category: "meat", Products: []catalog.Product{"beef"}})
	if _, err := ReplaceCatalog(db, next, "second"); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	got, err := LoadCatalog(db)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if got.Len() != 1 || !got.Has("meat") {
		t.Errorf("expected only meat, got %v", got.Categories())
	}

	var orphans int
	db.QueryRow(`SELECT COUNT(*) FROM products WHERE category_id NOT IN (SELECT id FROM categories)`).Scan(&orphans)
	if orphans != 0 {
		t.Errorf("expected cascade delete of products, found %d orphans", orphans)
	}

	imports, err := ListCatalogImports(db, 10)
	if err != nil {
		t.Fatalf("list imports: %v", err)
	}
	if len(imports) != 2 || imports[0].Source != "second" || imports[1].Source != "first" {
		t.Errorf("unexpected import history: %+v", imports)
	}
}

func TestReplaceCatalog_RejectsEmpty(t *testing.T) {
	db := testDB(t)

	if _, err := ReplaceCatalog(db, fruitVeg(), "first"); err != nil {
		t.Fatalf("replace: %v", err)
	}
	_, err := ReplaceCatalog(db, catalog.New(), "empty")
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}

	n, _ := CountCategories(db)
	if n != 3 {
		t.Errorf("stored catalog changed after rejected replace: %d categories", n)
	}
}

func TestLoadCatalog_EmptyDatabase(t *testing.T) {
	db := testDB(t)

	got, err := LoadCatalog(db)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if got.Len() != 0 {
		t.Errorf("expected empty catalog, got %v", got.Categories())
	}
}

func TestSeedCatalogIfEmpty(t *testing.T) {
	db := testDB(t)

	seeded, err := SeedCatalogIfEmpty(db, fruitVeg())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !seeded {
		t.Fatal("expected seed on empty database")
	}

	other := catalog.New(catalog.Entry{Category: "meat"})
	seeded, err = SeedCatalogIfEmpty(db, other)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if seeded {
		t.Error("seed should not apply to a populated database")
	}

	imports, _ := ListCatalogImports(db, 1)
	if len(imports) != 1 || imports[0].Source != SourceSeed {
		t.Errorf("expected seed import record, got %+v", imports)
	}
}

func TestGetCatalogImport_NotFound(t *testing.T) {
	db := testDB(t)

	_, err := GetCatalogImport(db, 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
