package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/shared"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestNewCashSale(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	sale, err := NewCashSale(mustDecimal(t, "100.00"), date)
	require.NoError(t, err)
	require.True(t, sale.IsCash)
	require.True(t, sale.Amount.Equal(mustDecimal(t, "100.00")))
	require.Equal(t, date, sale.Date)

	require.NotNil(t, sale.BankDebit)
	require.Nil(t, sale.Receivable)
	require.True(t, sale.BankDebit.Amount.Equal(sale.Amount))
	require.Equal(t, sale.Date, sale.BankDebit.Date)
}

func TestNewCreditSale(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	sale, err := NewCreditSale(mustDecimal(t, "250.50"), date, 4001, 7)
	require.NoError(t, err)
	require.False(t, sale.IsCash)

	require.NotNil(t, sale.Receivable)
	require.Nil(t, sale.BankDebit)
	require.True(t, sale.Receivable.Amount.Equal(sale.Amount))
	require.Equal(t, date, sale.Receivable.Date)
	require.Equal(t, 4001, sale.Receivable.InvoiceNumber)
	require.Equal(t, int64(7), sale.Receivable.CustomerID)
}

func TestNewCreditSaleRequiresCustomer(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := NewCreditSale(mustDecimal(t, "10.00"), date, 4001, 0)
	require.ErrorIs(t, err, shared.ErrCustomerNeeded)

	// The missing customer wins even when every other input is also invalid.
	_, err = NewCreditSale(mustDecimal(t, "-5.00"), time.Time{}, -1, 0)
	require.ErrorIs(t, err, shared.ErrCustomerNeeded)
}

func TestNewSaleCashOnly(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	sale, err := NewSale(mustDecimal(t, "42.00"), date, true)
	require.NoError(t, err)
	require.True(t, sale.IsCash)
	require.NotNil(t, sale.BankDebit)

	_, err = NewSale(mustDecimal(t, "42.00"), date, false)
	require.ErrorIs(t, err, shared.ErrCustomerNeeded)
}

func TestAmountValidation(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		amount string
		field  string
		reason string
	}{
		{"negative", "-5.00", "amount", "must not be negative"},
		{"three decimals", "10.005", "amount", "maximum of two decimal places"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCashSale(mustDecimal(t, tc.amount), date)
			var verr *shared.ValidationError
			require.True(t, errors.As(err, &verr))
			require.Equal(t, tc.field, verr.Field)
			require.Equal(t, tc.reason, verr.Reason)

			_, err = NewCreditSale(mustDecimal(t, tc.amount), date, 4001, 7)
			require.True(t, errors.As(err, &verr))
			require.Equal(t, tc.reason, verr.Reason)
		})
	}

	// Zero and trailing-zero amounts are fine.
	_, err := NewCashSale(mustDecimal(t, "0"), date)
	require.NoError(t, err)
	_, err = NewCashSale(mustDecimal(t, "10.100"), date)
	require.NoError(t, err)
}

func TestDateValidation(t *testing.T) {
	amount := mustDecimal(t, "10.00")

	_, err := NewCashSale(amount, time.Time{})
	var verr *shared.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "date", verr.Field)

	_, err = NewCashSale(amount, time.Now().AddDate(0, 0, 2))
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "cannot be more than one day in the future", verr.Reason)

	// Tomorrow is still inside the tolerance window.
	_, err = NewCashSale(amount, time.Now().Add(12*time.Hour))
	require.NoError(t, err)
}

func TestInvoiceNumberValidation(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	for _, invoiceNumber := range []int{0, -3} {
		_, err := NewCreditSale(mustDecimal(t, "10.00"), date, invoiceNumber, 7)
		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		require.Equal(t, "invoice_number", verr.Field)
	}
}

func TestInvoiceNumberMatches(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	credit, err := NewCreditSale(mustDecimal(t, "250.50"), date, 4001, 7)
	require.NoError(t, err)
	require.True(t, credit.InvoiceNumberMatches(4001))
	require.False(t, credit.InvoiceNumberMatches(4002))

	cash, err := NewCashSale(mustDecimal(t, "100.00"), date)
	require.NoError(t, err)
	require.False(t, cash.InvoiceNumberMatches(4001))

	var nilSale *Sale
	require.False(t, nilSale.InvoiceNumberMatches(4001))
}
