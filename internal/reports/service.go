package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ledgerline/ledgerline/internal/ledger"
)

const (
	agingCacheKey   = "reports:aging"
	summaryCacheKey = "reports:summary"
)

// LedgerSource exposes the ledger reads reports are built from. Satisfied by
// the ledger service.
type LedgerSource interface {
	ListReceivables(ctx context.Context) ([]ledger.Receivable, error)
	ListBankDebits(ctx context.Context) ([]ledger.BankDebit, error)
}

// AgingSnapshot groups outstanding receivables by age since invoice date.
type AgingSnapshot struct {
	AsOf      time.Time       `json:"as_of"`
	Current   decimal.Decimal `json:"current"`
	Days30    decimal.Decimal `json:"days_30"`
	Days60    decimal.Decimal `json:"days_60"`
	Days90    decimal.Decimal `json:"days_90"`
	Days120   decimal.Decimal `json:"days_120"`
	Total     decimal.Decimal `json:"total"`
	Display   string          `json:"display_total"`
	Generated time.Time       `json:"generated_at"`
}

// Summary totals the ledger by settlement type.
type Summary struct {
	CashTotal         decimal.Decimal `json:"cash_total"`
	ReceivableTotal   decimal.Decimal `json:"receivable_total"`
	BankDebitCount    int             `json:"bank_debit_count"`
	ReceivableCount   int             `json:"receivable_count"`
	CashDisplay       string          `json:"cash_display"`
	ReceivableDisplay string          `json:"receivable_display"`
	Generated         time.Time       `json:"generated_at"`
}

// Service computes report snapshots, caching them and collapsing concurrent
// recomputations of the same snapshot into one.
type Service struct {
	source  LedgerSource
	cache   *Cache
	group   singleflight.Group
	printer *message.Printer
	clock   func() time.Time
}

// NewService builds a Service instance.
func NewService(source LedgerSource, cache *Cache) *Service {
	return &Service{
		source:  source,
		cache:   cache,
		printer: message.NewPrinter(language.BritishEnglish),
		clock:   time.Now,
	}
}

// Aging returns the receivables aging snapshot, cached when possible.
func (s *Service) Aging(ctx context.Context) (AgingSnapshot, error) {
	var snapshot AgingSnapshot
	err := s.cache.FetchJSON(ctx, agingCacheKey, &snapshot, func(ctx context.Context) (interface{}, error) {
		result, err, _ := s.group.Do(agingCacheKey, func() (interface{}, error) {
			return s.computeAging(ctx, s.clock())
		})
		return result, err
	})
	return snapshot, err
}

// Summary returns the ledger summary, cached when possible.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	var summary Summary
	err := s.cache.FetchJSON(ctx, summaryCacheKey, &summary, func(ctx context.Context) (interface{}, error) {
		result, err, _ := s.group.Do(summaryCacheKey, func() (interface{}, error) {
			return s.computeSummary(ctx)
		})
		return result, err
	})
	return summary, err
}

// Refresh recomputes both snapshots and overwrites whatever is cached. Called
// by the background worker after ledger mutations and on schedule.
func (s *Service) Refresh(ctx context.Context) error {
	aging, err := s.computeAging(ctx, s.clock())
	if err != nil {
		return err
	}
	if err := s.cache.StoreJSON(ctx, agingCacheKey, aging); err != nil {
		return err
	}
	summary, err := s.computeSummary(ctx)
	if err != nil {
		return err
	}
	return s.cache.StoreJSON(ctx, summaryCacheKey, summary)
}

func (s *Service) computeAging(ctx context.Context, asOf time.Time) (AgingSnapshot, error) {
	receivables, err := s.source.ListReceivables(ctx)
	if err != nil {
		return AgingSnapshot{}, err
	}

	snapshot := AgingSnapshot{
		AsOf:      asOf,
		Current:   decimal.Zero,
		Days30:    decimal.Zero,
		Days60:    decimal.Zero,
		Days90:    decimal.Zero,
		Days120:   decimal.Zero,
		Total:     decimal.Zero,
		Generated: s.clock(),
	}
	for _, recv := range receivables {
		days := int(asOf.Sub(recv.Date).Hours() / 24)
		switch {
		case days <= 0:
			snapshot.Current = snapshot.Current.Add(recv.Amount)
		case days <= 30:
			snapshot.Days30 = snapshot.Days30.Add(recv.Amount)
		case days <= 60:
			snapshot.Days60 = snapshot.Days60.Add(recv.Amount)
		case days <= 90:
			snapshot.Days90 = snapshot.Days90.Add(recv.Amount)
		default:
			snapshot.Days120 = snapshot.Days120.Add(recv.Amount)
		}
		snapshot.Total = snapshot.Total.Add(recv.Amount)
	}
	snapshot.Display = s.formatAmount(snapshot.Total)
	return snapshot, nil
}

func (s *Service) computeSummary(ctx context.Context) (Summary, error) {
	debits, err := s.source.ListBankDebits(ctx)
	if err != nil {
		return Summary{}, err
	}
	receivables, err := s.source.ListReceivables(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		CashTotal:       decimal.Zero,
		ReceivableTotal: decimal.Zero,
		BankDebitCount:  len(debits),
		ReceivableCount: len(receivables),
		Generated:       s.clock(),
	}
	for _, debit := range debits {
		summary.CashTotal = summary.CashTotal.Add(debit.Amount)
	}
	for _, recv := range receivables {
		summary.ReceivableTotal = summary.ReceivableTotal.Add(recv.Amount)
	}
	summary.CashDisplay = s.formatAmount(summary.CashTotal)
	summary.ReceivableDisplay = s.formatAmount(summary.ReceivableTotal)
	return summary, nil
}

// formatAmount renders a display total with grouping separators. The exact
// decimal stays in the snapshot; the float conversion is display-only.
func (s *Service) formatAmount(amount decimal.Decimal) string {
	f, _ := amount.Float64()
	return s.printer.Sprintf("%.2f", f)
}
