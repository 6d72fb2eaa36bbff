package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// CustomerDirectory resolves customer identities. Receivables reference
// customers by ID only, so the ledger asks the directory instead of holding
// an object graph link.
type CustomerDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Auditor records ledger mutations. Satisfied by shared.AuditLogger.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// ReportEnqueuer schedules a report snapshot refresh after ledger mutations.
type ReportEnqueuer interface {
	EnqueueReportRefresh(ctx context.Context) error
}

// Service handles ledger business logic.
type Service struct {
	repo      RepositoryPort
	customers CustomerDirectory
	auditor   Auditor
	enqueuer  ReportEnqueuer
	logger    *slog.Logger
}

// NewService builds a Service instance. Auditor and enqueuer are optional.
func NewService(repo RepositoryPort, customers CustomerDirectory, auditor Auditor, enqueuer ReportEnqueuer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, customers: customers, auditor: auditor, enqueuer: enqueuer, logger: logger}
}

// CashSaleInput carries the data for recording a cash sale.
type CashSaleInput struct {
	Amount decimal.Decimal
	Date   time.Time
}

// CreditSaleInput carries the data for recording a credit sale.
type CreditSaleInput struct {
	Amount        decimal.Decimal
	Date          time.Time
	InvoiceNumber int
	CustomerID    int64
}

// RecordCashSale validates and persists a cash sale with its bank debit.
func (s *Service) RecordCashSale(ctx context.Context, input CashSaleInput) (*Sale, error) {
	sale, err := NewCashSale(input.Amount, input.Date)
	if err != nil {
		return nil, err
	}
	persisted, err := s.repo.CreateSale(ctx, sale)
	if err != nil {
		return nil, fmt.Errorf("create cash sale: %w", err)
	}
	s.recordAudit(ctx, "sale.create", persisted)
	s.refreshReports(ctx)
	return persisted, nil
}

// RecordCreditSale validates and persists a credit sale with its receivable.
// The referenced customer must exist before the sale is accepted.
func (s *Service) RecordCreditSale(ctx context.Context, input CreditSaleInput) (*Sale, error) {
	sale, err := NewCreditSale(input.Amount, input.Date, input.InvoiceNumber, input.CustomerID)
	if err != nil {
		return nil, err
	}
	exists, err := s.customers.Exists(ctx, input.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("check customer: %w", err)
	}
	if !exists {
		return nil, &shared.NotFoundError{Kind: "customer", ID: input.CustomerID}
	}
	persisted, err := s.repo.CreateSale(ctx, sale)
	if err != nil {
		return nil, err
	}
	s.recordAudit(ctx, "sale.create", persisted)
	s.refreshReports(ctx)
	return persisted, nil
}

// GetSale returns a fully populated aggregate.
func (s *Service) GetSale(ctx context.Context, id int64) (*Sale, error) {
	return s.repo.GetSale(ctx, id)
}

// ListSales returns all sales, children included.
func (s *Service) ListSales(ctx context.Context) ([]Sale, error) {
	return s.repo.ListSales(ctx)
}

// DeleteSale removes a sale together with its owned bank debit or receivable.
func (s *Service) DeleteSale(ctx context.Context, id int64) error {
	if err := s.repo.DeleteSale(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, "sale.delete", &Sale{ID: id})
	s.refreshReports(ctx)
	return nil
}

// FindSaleByInvoiceNumber resolves the credit sale carrying the given invoice
// number. The returned aggregate is re-checked with the matching predicate so
// a stale read can never hand back the wrong sale.
func (s *Service) FindSaleByInvoiceNumber(ctx context.Context, invoiceNumber int) (*Sale, error) {
	sale, err := s.repo.GetSaleByInvoiceNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	if !sale.InvoiceNumberMatches(invoiceNumber) {
		return nil, &shared.NotFoundError{Kind: "invoice", ID: int64(invoiceNumber)}
	}
	return sale, nil
}

// ListReceivables returns every receivable in the ledger.
func (s *Service) ListReceivables(ctx context.Context) ([]Receivable, error) {
	return s.repo.ListReceivables(ctx)
}

// ListBankDebits returns every bank debit in the ledger.
func (s *Service) ListBankDebits(ctx context.Context) ([]BankDebit, error) {
	return s.repo.ListBankDebits(ctx)
}

func (s *Service) recordAudit(ctx context.Context, action string, sale *Sale) {
	if s.auditor == nil {
		return
	}
	meta := map[string]any{"is_cash": sale.IsCash}
	if sale.Receivable != nil {
		meta["invoice_number"] = sale.Receivable.InvoiceNumber
	}
	log := shared.AuditLog{
		Action:   action,
		Entity:   "sale",
		EntityID: fmt.Sprintf("%d", sale.ID),
		Meta:     meta,
	}
	if err := s.auditor.Record(ctx, log); err != nil {
		s.logger.Warn("record audit log", slog.Any("error", err))
	}
}

func (s *Service) refreshReports(ctx context.Context) {
	if s.enqueuer == nil {
		return
	}
	if err := s.enqueuer.EnqueueReportRefresh(ctx); err != nil {
		s.logger.Warn("enqueue report refresh", slog.Any("error", err))
	}
}
