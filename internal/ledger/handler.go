package ledger

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
	"github.com/ledgerline/ledgerline/internal/shared"
)

const dateLayout = "2006-01-02"

// Handler manages ledger endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		httpx.RespondError(w, shared.NewValidationError("date", "must be a calendar date in YYYY-MM-DD form"))
		return
	}

	isCash := req.IsCash == nil || *req.IsCash

	var sale *Sale
	if isCash {
		sale, err = h.service.RecordCashSale(r.Context(), CashSaleInput{
			Amount: req.Amount,
			Date:   date,
		})
	} else {
		sale, err = h.service.RecordCreditSale(r.Context(), CreditSaleInput{
			Amount:        req.Amount,
			Date:          date,
			InvoiceNumber: req.InvoiceNumber,
			CustomerID:    req.CustomerID,
		})
	}
	if err != nil {
		h.logger.Error("record sale", slog.Any("error", err), slog.Bool("is_cash", isCash))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, sale)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid sale ID")
		return
	}

	sale, err := h.service.GetSale(r.Context(), id)
	if err != nil {
		h.logger.Error("get sale", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.service.ListSales(r.Context())
	if err != nil {
		h.logger.Error("list sales", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ListSalesResponse{Sales: sales, Total: len(sales)})
}

func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid sale ID")
		return
	}

	if err := h.service.DeleteSale(r.Context(), id); err != nil {
		h.logger.Error("delete sale", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) lookupSale(w http.ResponseWriter, r *http.Request) {
	invoiceNumber, err := strconv.Atoi(r.URL.Query().Get("invoice_number"))
	if err != nil || invoiceNumber <= 0 {
		httpx.RespondError(w, shared.NewValidationError("invoice_number", "must be positive"))
		return
	}

	sale, err := h.service.FindSaleByInvoiceNumber(r.Context(), invoiceNumber)
	if err != nil {
		h.logger.Error("lookup sale", slog.Any("error", err), slog.Int("invoice_number", invoiceNumber))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *Handler) listReceivables(w http.ResponseWriter, r *http.Request) {
	receivables, err := h.service.ListReceivables(r.Context())
	if err != nil {
		h.logger.Error("list receivables", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ListReceivablesResponse{Receivables: receivables, Total: len(receivables)})
}

func (h *Handler) listBankDebits(w http.ResponseWriter, r *http.Request) {
	debits, err := h.service.ListBankDebits(r.Context())
	if err != nil {
		h.logger.Error("list bank debits", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ListBankDebitsResponse{BankDebits: debits, Total: len(debits)})
}
