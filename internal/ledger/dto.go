package ledger

import (
	"github.com/shopspring/decimal"
)

// CreateSaleRequest records a sale. A missing or true is_cash flag means a
// cash sale; an explicit false requires invoice_number and customer_id.
type CreateSaleRequest struct {
	// Amount carries no required tag: a zero amount is a legal sale and
	// the zero decimal would trip the non-zero check.
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date" validate:"required"`
	IsCash        *bool           `json:"is_cash,omitempty"`
	InvoiceNumber int             `json:"invoice_number,omitempty" validate:"omitempty,gt=0"`
	CustomerID    int64           `json:"customer_id,omitempty" validate:"omitempty,gt=0"`
}

// ListSalesResponse wraps the sale listing.
type ListSalesResponse struct {
	Sales []Sale `json:"sales"`
	Total int    `json:"total"`
}

// ListReceivablesResponse wraps the receivable listing.
type ListReceivablesResponse struct {
	Receivables []Receivable `json:"receivables"`
	Total       int          `json:"total"`
}

// ListBankDebitsResponse wraps the bank debit listing.
type ListBankDebitsResponse struct {
	BankDebits []BankDebit `json:"bank_debits"`
	Total      int         `json:"total"`
}
