package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/platform/db"
	"github.com/ledgerline/ledgerline/internal/shared"
)

const pgUniqueViolation = "23505"

// RepositoryPort defines the storage boundary for the ledger. The boundary
// assigns identities on save, enforces invoice-number uniqueness and cascades
// deletes to the owned child record.
type RepositoryPort interface {
	CreateSale(ctx context.Context, sale *Sale) (*Sale, error)
	GetSale(ctx context.Context, id int64) (*Sale, error)
	ListSales(ctx context.Context) ([]Sale, error)
	DeleteSale(ctx context.Context, id int64) error
	GetSaleByInvoiceNumber(ctx context.Context, invoiceNumber int) (*Sale, error)
	ListReceivables(ctx context.Context) ([]Receivable, error)
	ListBankDebits(ctx context.Context) ([]BankDebit, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the PostgreSQL-backed ledger repository.
func NewRepository(pool *pgxpool.Pool) RepositoryPort {
	return &repository{pool: pool}
}

// CreateSale persists the aggregate and its owned child in one transaction.
// A duplicate invoice number aborts the whole insert and surfaces as an
// InvoiceConflictError naming the sale already using the number.
func (r *repository) CreateSale(ctx context.Context, sale *Sale) (*Sale, error) {
	persisted := *sale
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO sales (amount, sale_date, is_cash) VALUES ($1, $2, $3) RETURNING id, created_at`,
			sale.Amount.StringFixed(2), sale.Date, sale.IsCash,
		).Scan(&persisted.ID, &persisted.CreatedAt); err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}

		switch {
		case sale.BankDebit != nil:
			debit := *sale.BankDebit
			if err := tx.QueryRow(ctx,
				`INSERT INTO bank_debits (sale_id, amount, debit_date) VALUES ($1, $2, $3) RETURNING id`,
				persisted.ID, debit.Amount.StringFixed(2), debit.Date,
			).Scan(&debit.ID); err != nil {
				return fmt.Errorf("insert bank debit: %w", err)
			}
			persisted.BankDebit = &debit
		case sale.Receivable != nil:
			recv := *sale.Receivable
			if err := tx.QueryRow(ctx,
				`INSERT INTO receivables (sale_id, amount, invoice_date, invoice_number, customer_id) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
				persisted.ID, recv.Amount.StringFixed(2), recv.Date, recv.InvoiceNumber, recv.CustomerID,
			).Scan(&recv.ID); err != nil {
				return fmt.Errorf("insert receivable: %w", err)
			}
			persisted.Receivable = &recv
		}
		return nil
	})
	if err != nil {
		if conflict := r.asInvoiceConflict(ctx, err, sale); conflict != nil {
			return nil, conflict
		}
		return nil, err
	}
	return &persisted, nil
}

// asInvoiceConflict translates a unique violation on the invoice number into
// the conflict error carrying the conflicting sale ID. The lookup runs outside
// the aborted transaction.
func (r *repository) asInvoiceConflict(ctx context.Context, err error, sale *Sale) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}
	if sale.Receivable == nil || pgErr.ConstraintName != "receivables_invoice_number_key" {
		return nil
	}
	conflict := &shared.InvoiceConflictError{InvoiceNumber: sale.Receivable.InvoiceNumber}
	_ = r.pool.QueryRow(ctx,
		`SELECT sale_id FROM receivables WHERE invoice_number = $1`,
		sale.Receivable.InvoiceNumber,
	).Scan(&conflict.SaleID)
	return conflict
}

const saleColumns = `
	s.id, s.amount::text, s.sale_date, s.is_cash, s.created_at,
	b.id, b.amount::text, b.debit_date,
	r.id, r.amount::text, r.invoice_date, r.invoice_number, r.customer_id
`

const saleJoin = `
	FROM sales s
	LEFT JOIN bank_debits b ON b.sale_id = s.id
	LEFT JOIN receivables r ON r.sale_id = s.id
`

func (r *repository) GetSale(ctx context.Context, id int64) (*Sale, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+saleColumns+saleJoin+` WHERE s.id = $1`, id)
	sale, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &shared.NotFoundError{Kind: "sale", ID: id}
		}
		return nil, err
	}
	return sale, nil
}

func (r *repository) ListSales(ctx context.Context) ([]Sale, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+saleColumns+saleJoin+` ORDER BY s.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, *sale)
	}
	return sales, rows.Err()
}

// DeleteSale removes the sale and its owned child record in the same
// operation. The child delete is explicit rather than left to schema cascade.
func (r *repository) DeleteSale(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM bank_debits WHERE sale_id = $1`, id); err != nil {
			return fmt.Errorf("delete bank debit: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM receivables WHERE sale_id = $1`, id); err != nil {
			return fmt.Errorf("delete receivable: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete sale: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return &shared.NotFoundError{Kind: "sale", ID: id}
		}
		return nil
	})
}

func (r *repository) GetSaleByInvoiceNumber(ctx context.Context, invoiceNumber int) (*Sale, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+saleColumns+saleJoin+` WHERE r.invoice_number = $1`, invoiceNumber)
	sale, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &shared.NotFoundError{Kind: "invoice", ID: int64(invoiceNumber)}
		}
		return nil, err
	}
	return sale, nil
}

func (r *repository) ListReceivables(ctx context.Context) ([]Receivable, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, amount::text, invoice_date, invoice_number, customer_id FROM receivables ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receivables []Receivable
	for rows.Next() {
		var (
			recv   Receivable
			amount string
			date   pgtype.Date
		)
		if err := rows.Scan(&recv.ID, &amount, &date, &recv.InvoiceNumber, &recv.CustomerID); err != nil {
			return nil, err
		}
		if recv.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse receivable amount: %w", err)
		}
		recv.Date = date.Time
		receivables = append(receivables, recv)
	}
	return receivables, rows.Err()
}

func (r *repository) ListBankDebits(ctx context.Context) ([]BankDebit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, amount::text, debit_date FROM bank_debits ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debits []BankDebit
	for rows.Next() {
		var (
			debit  BankDebit
			amount string
			date   pgtype.Date
		)
		if err := rows.Scan(&debit.ID, &amount, &date); err != nil {
			return nil, err
		}
		if debit.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse bank debit amount: %w", err)
		}
		debit.Date = date.Time
		debits = append(debits, debit)
	}
	return debits, rows.Err()
}

func scanSale(row pgx.Row) (*Sale, error) {
	var (
		sale       Sale
		amount     string
		saleDate   pgtype.Date
		createdAt  pgtype.Timestamptz
		debitID    pgtype.Int8
		debitAmt   pgtype.Text
		debitDate  pgtype.Date
		recvID     pgtype.Int8
		recvAmt    pgtype.Text
		recvDate   pgtype.Date
		recvNumber pgtype.Int4
		recvCustID pgtype.Int8
	)
	err := row.Scan(
		&sale.ID, &amount, &saleDate, &sale.IsCash, &createdAt,
		&debitID, &debitAmt, &debitDate,
		&recvID, &recvAmt, &recvDate, &recvNumber, &recvCustID,
	)
	if err != nil {
		return nil, err
	}

	if sale.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parse sale amount: %w", err)
	}
	sale.Date = saleDate.Time
	sale.CreatedAt = createdAt.Time

	if debitID.Valid {
		debitAmount, err := decimal.NewFromString(debitAmt.String)
		if err != nil {
			return nil, fmt.Errorf("parse bank debit amount: %w", err)
		}
		sale.BankDebit = &BankDebit{
			ID:     debitID.Int64,
			Amount: debitAmount,
			Date:   debitDate.Time,
		}
	}
	if recvID.Valid {
		recvAmount, err := decimal.NewFromString(recvAmt.String)
		if err != nil {
			return nil, fmt.Errorf("parse receivable amount: %w", err)
		}
		sale.Receivable = &Receivable{
			ID:            recvID.Int64,
			Amount:        recvAmount,
			Date:          recvDate.Time,
			InvoiceNumber: int(recvNumber.Int32),
			CustomerID:    recvCustID.Int64,
		}
	}
	return &sale, nil
}
