package ledger

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	svc, _, _ := newTestService(newFakeRepo())
	handler := NewHandler(testLogger(), svc)

	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateCashSaleEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/sales",
		`{"amount": "100.00", "date": "2026-03-10"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var sale Sale
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sale))
	require.True(t, sale.IsCash)
	require.NotNil(t, sale.BankDebit)
	require.NotZero(t, sale.ID)
}

func TestCreateCreditSaleEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/sales",
		`{"amount": "250.50", "date": "2026-03-10", "is_cash": false, "invoice_number": 4001, "customer_id": 7}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var sale Sale
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sale))
	require.False(t, sale.IsCash)
	require.NotNil(t, sale.Receivable)
	require.Equal(t, 4001, sale.Receivable.InvoiceNumber)
}

func TestCreateCreditSaleWithoutCustomer(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/sales",
		`{"amount": "250.50", "date": "2026-03-10", "is_cash": false, "invoice_number": 4001}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var problem httpx.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Equal(t, "Customer Needed", problem.Title)
}

func TestCreateSaleValidationProblems(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/sales",
		`{"amount": "-5.00", "date": "2026-03-10"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem httpx.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Equal(t, "amount", problem.Field)
	require.Equal(t, "must not be negative", problem.Detail)

	rec = doJSON(t, router, http.MethodPost, "/sales",
		`{"amount": "10.00", "date": "10/03/2026"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSaleDuplicateInvoiceEndpoint(t *testing.T) {
	router := newTestRouter(t)

	body := `{"amount": "10.00", "date": "2026-03-10", "is_cash": false, "invoice_number": 4001, "customer_id": 7}`
	rec := doJSON(t, router, http.MethodPost, "/sales", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/sales", body)
	require.Equal(t, http.StatusConflict, rec.Code)

	var problem httpx.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Contains(t, problem.Detail, "invoice number 4001 is already in use")
}

func TestLookupSaleEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/sales",
		`{"amount": "250.50", "date": "2026-03-10", "is_cash": false, "invoice_number": 4001, "customer_id": 7}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/sales/lookup?invoice_number=4001", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var sale Sale
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sale))
	require.True(t, sale.InvoiceNumberMatches(4001))

	rec = doJSON(t, router, http.MethodGet, "/sales/lookup?invoice_number=9999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/sales/lookup?invoice_number=abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAndDeleteSaleEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/sales",
		`{"amount": "100.00", "date": "2026-03-10"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var sale Sale
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sale))

	rec = doJSON(t, router, http.MethodGet, "/sales/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/sales/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/sales/1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
