package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/carpenike/catalogsync/internal/catalog"
)

// Products serves the synchronized product option list.
type Products struct {
	Catalog   *catalog.Store
	Templates *TemplateCache
}

// Options renders the <option> list for the product dropdown of the
// category in ?category=. The client replaces the dropdown's contents with
// the response on every category change.
func (h *Products) Options(w http.ResponseWriter, r *http.Request) {
	selected := catalog.Category(r.URL.Query().Get("category"))
	options := catalog.Synchronize(selected, h.Catalog.Load())

	if err := h.Templates.RenderPartial(w, "product_options", options); err != nil {
		log.Printf("handlers: product options partial: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// productsResponse is the JSON shape of the product option list.
type productsResponse struct {
	Category string           `json:"category"`
	Known    bool             `json:"known"`
	Options  []catalog.Option `json:"options"`
}

// JSON returns the synchronized option list for the {category} URL
// parameter. Unknown categories are not an error: they return only the
// placeholder with known=false.
func (h *Products) JSON(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, "category")
	// chi matches on RawPath when the path had escapes such as %2F.
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(param); err == nil {
			param = unescaped
		}
	}
	selected := catalog.Category(param)
	c := h.Catalog.Load()

	resp := productsResponse{
		Category: string(selected),
		Known:    c.Has(selected),
		Options:  catalog.Synchronize(selected, c),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("handlers: encode products for %q: %v", selected, err)
	}
}
