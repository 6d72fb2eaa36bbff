package ledger

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/sales", h.createSale)
	r.Get("/sales", h.listSales)
	r.Get("/sales/lookup", h.lookupSale)
	r.Get("/sales/{id}", h.getSale)
	r.Delete("/sales/{id}", h.deleteSale)
	r.Get("/receivables", h.listReceivables)
	r.Get("/bank-debits", h.listBankDebits)
}
