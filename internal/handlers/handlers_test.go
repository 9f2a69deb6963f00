package handlers

import (
	"bytes"
	"database/sql"
	"embed"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/carpenike/catalogsync/internal/catalog"
	"github.com/carpenike/catalogsync/internal/database"
)

//go:embed testdata/templates
var testTemplateFS embed.FS

// testDB creates a fresh in-memory SQLite database with migrations applied.
func testDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// testTemplateCache builds a template cache from the stub templates under
// testdata. The partials are the production ones.
func testTemplateCache(t testing.TB) *TemplateCache {
	t.Helper()

	// Re-root the embedded FS so it looks like the production layout.
	sub, err := fs.Sub(testTemplateFS, "testdata")
	if err != nil {
		t.Fatalf("sub testdata FS: %v", err)
	}
	tc, err := NewTemplateCache(sub)
	if err != nil {
		t.Fatalf("parse test templates: %v", err)
	}
	return tc
}

// testSessionManager creates an in-memory session manager for tests.
func testSessionManager() *scs.SessionManager {
	sm := scs.New()
	sm.Lifetime = time.Hour
	return sm
}

// fruitVeg is the catalog used throughout the handler tests.
func fruitVeg() *catalog.Catalog {
	return catalog.New(
		catalog.Entry{Category: "fruit", Products: []catalog.Product{"apple", "banana"}},
		catalog.Entry{Category: "veg", Products: []catalog.Product{"carrot"}},
	)
}

// uploadRequest builds a multipart POST carrying one file in the "catalog" field.
func uploadRequest(t testing.TB, target, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile("catalog", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(content)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	r := httptest.NewRequest("POST", target, &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}
