package httpx

import (
	"errors"
	"net/http"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// RespondError maps the shared error kinds onto HTTP problem responses.
// Validation failures, missing records and invoice conflicts are expected
// business conditions; only unrecognised errors become a 500.
func RespondError(w http.ResponseWriter, err error) {
	var (
		validationErr *shared.ValidationError
		notFoundErr   *shared.NotFoundError
		conflictErr   *shared.InvoiceConflictError
		referencedErr *shared.ReferencedError
	)
	switch {
	case errors.As(err, &validationErr):
		JSON(w, http.StatusBadRequest, ProblemDetail{
			Title:  "Validation Failed",
			Status: http.StatusBadRequest,
			Detail: validationErr.Reason,
			Field:  validationErr.Field,
		})
	case errors.Is(err, shared.ErrCustomerNeeded):
		Problem(w, http.StatusUnprocessableEntity, "Customer Needed", err.Error())
	case errors.As(err, &notFoundErr):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.As(err, &conflictErr):
		Problem(w, http.StatusConflict, "Invoice Number Not Unique", err.Error())
	case errors.As(err, &referencedErr):
		Problem(w, http.StatusConflict, "Still Referenced", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
