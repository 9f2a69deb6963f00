package handlers

import (
	"log"
	"net/http"

	"github.com/carpenike/catalogsync/internal/scheduler"
)

// StatusSource reports the background scheduler's last run.
type StatusSource interface {
	Status() scheduler.Status
}

// Audit shows the latest model asset audit.
type Audit struct {
	Scheduler StatusSource
	Templates *TemplateCache
}

// Show renders the last scheduler status and audit report.
func (h *Audit) Show(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Status": h.Scheduler.Status(),
	}
	if err := h.Templates.Render(w, r, "audit.html", data); err != nil {
		log.Printf("handlers: audit template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
