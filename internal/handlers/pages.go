package handlers

import (
	"log"
	"net/http"

	"github.com/carpenike/catalogsync/internal/catalog"
)

// Pages holds dependencies for the product selection form.
type Pages struct {
	Catalog   *catalog.Store
	Templates *TemplateCache
}

// Index renders the selection form. Both dropdowns are rendered server
// side: ?category= preselects a category and synchronizes the product
// list, so the form also works with scripts disabled.
func (p *Pages) Index(w http.ResponseWriter, r *http.Request) {
	c := p.Catalog.Load()
	selected := catalog.Category(r.URL.Query().Get("category"))
	product := catalog.Product(r.URL.Query().Get("product"))

	data := map[string]any{
		"Category":        selected,
		"CategoryOptions": catalog.CategoryOptions(c, selected),
		"ProductOptions":  catalog.SelectProduct(catalog.Synchronize(selected, c), product),
		"Empty":           c.Len() == 0,
	}
	if err := p.Templates.Render(w, r, "index.html", data); err != nil {
		log.Printf("handlers: index template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
