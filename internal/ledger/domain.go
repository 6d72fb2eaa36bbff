// Package ledger implements the sales ledger: cash and credit sales, the bank
// debits settled by cash sales and the receivables owed by customers.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// BankDebit records money received into the bank account. Owned by exactly one
// cash sale and removed with it.
type BankDebit struct {
	ID     int64           `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

// Receivable records money owed by a customer, identified by an invoice number
// that is unique across the whole ledger. The customer is referenced by
// identity only; the receivable does not own its lifecycle.
type Receivable struct {
	ID            int64           `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	InvoiceNumber int             `json:"invoice_number"`
	CustomerID    int64           `json:"customer_id"`
}

// Sale is the aggregate root. Exactly one of BankDebit/Receivable is set,
// chosen at construction and never changed afterwards; there is no operation
// to convert a cash sale into a credit sale.
type Sale struct {
	ID         int64           `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	IsCash     bool            `json:"is_cash"`
	BankDebit  *BankDebit      `json:"bank_debit,omitempty"`
	Receivable *Receivable     `json:"receivable,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewCashSale records a sale settled immediately. A bank debit with the same
// amount and date is synthesized alongside.
func NewCashSale(amount decimal.Decimal, date time.Time) (*Sale, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}
	return &Sale{
		Amount:    amount,
		Date:      date,
		IsCash:    true,
		BankDebit: &BankDebit{Amount: amount, Date: date},
	}, nil
}

// NewCreditSale records a sale settled later, owed by an existing customer.
// The customer requirement is checked before anything else: a credit sale
// without a customer is invalid no matter what the other inputs look like.
func NewCreditSale(amount decimal.Decimal, date time.Time, invoiceNumber int, customerID int64) (*Sale, error) {
	if customerID == 0 {
		return nil, shared.ErrCustomerNeeded
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if invoiceNumber <= 0 {
		return nil, shared.NewValidationError("invoice_number", "must be positive")
	}
	return &Sale{
		Amount: amount,
		Date:   date,
		IsCash: false,
		Receivable: &Receivable{
			Amount:        amount,
			Date:          date,
			InvoiceNumber: invoiceNumber,
			CustomerID:    customerID,
		},
	}, nil
}

// NewSale is the cash-only convenience constructor. Passing isCash=false fails
// with ErrCustomerNeeded: credit data is mandatory for any non-cash sale and
// must go through NewCreditSale.
func NewSale(amount decimal.Decimal, date time.Time, isCash bool) (*Sale, error) {
	if !isCash {
		return nil, shared.ErrCustomerNeeded
	}
	return NewCashSale(amount, date)
}

// InvoiceNumberMatches reports whether this sale is a credit sale whose
// receivable carries the given invoice number. For cash sales the question is
// meaningless rather than erroneous, so the answer is simply false.
func (s *Sale) InvoiceNumberMatches(invoiceNumber int) bool {
	if s == nil || s.IsCash || s.Receivable == nil {
		return false
	}
	return s.Receivable.InvoiceNumber == invoiceNumber
}

func validateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewValidationError("amount", "must not be negative")
	}
	if !amount.Equal(amount.Truncate(2)) {
		return shared.NewValidationError("amount", "maximum of two decimal places")
	}
	return nil
}

// validateDate tolerates same-day entries across time zones by allowing up to
// one calendar day in the future.
func validateDate(date time.Time) error {
	if date.IsZero() {
		return shared.NewValidationError("date", "cannot be empty")
	}
	if date.After(time.Now().AddDate(0, 0, 1)) {
		return shared.NewValidationError("date", "cannot be more than one day in the future")
	}
	return nil
}
