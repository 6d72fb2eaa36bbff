package reports

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/aging", h.aging)
	r.Get("/reports/summary", h.summary)
}
