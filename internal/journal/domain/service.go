package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	// Post validates and persists a balanced entry, updating every
	// referenced account balance inside one transaction.
	Post(ctx context.Context, req PostRequest) (*EntryResponse, error)
	// Reverse posts a mirror entry and marks the original reversed.
	Reverse(ctx context.Context, entryID string) (*EntryResponse, error)
	Get(ctx context.Context, entryID string) (*EntryResponse, error)
	List(ctx context.Context, req ListRequest) ([]EntryResponse, error)

	BalanceSheet(ctx context.Context) (*BalanceSheet, error)
	IncomeStatement(ctx context.Context) (*IncomeStatement, error)

	ClosePeriod(ctx context.Context, startDate, endDate string) error
	OpenPeriod(ctx context.Context) error
}

type PostRequest struct {
	Date        time.Time
	Description string
	Reference   string
	Lines       []LineRequest
}

type LineRequest struct {
	AccountID   string
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

type ListRequest struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

type EntryResponse struct {
	ID           string          `json:"id"`
	EntryNumber  int64           `json:"entry_number"`
	Date         time.Time       `json:"date"`
	Description  string          `json:"description"`
	Reference    string          `json:"reference,omitempty"`
	TotalDebit   decimal.Decimal `json:"total_debit"`
	TotalCredit  decimal.Decimal `json:"total_credit"`
	Status       EntryStatus     `json:"status"`
	ReversedByID *string         `json:"reversed_by_id,omitempty"`
	Lines        []LineResponse  `json:"lines"`
	CreatedAt    time.Time       `json:"created_at"`
}

type LineResponse struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	AccountCode string          `json:"account_code,omitempty"`
	AccountName string          `json:"account_name,omitempty"`
	Description string          `json:"description,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// BalanceSheet holds the derived balance-sheet totals. Balanced checks the
// accounting equation within one cent.
type BalanceSheet struct {
	Activos    decimal.Decimal `json:"activos"`
	Pasivos    decimal.Decimal `json:"pasivos"`
	Capital    decimal.Decimal `json:"capital"`
	Diferencia decimal.Decimal `json:"diferencia"`
	Balanced   bool            `json:"balanced"`
}

type IncomeStatement struct {
	Ingresos      decimal.Decimal `json:"ingresos"`
	Costos        decimal.Decimal `json:"costos"`
	Gastos        decimal.Decimal `json:"gastos"`
	UtilidadBruta decimal.Decimal `json:"utilidad_bruta"`
	UtilidadNeta  decimal.Decimal `json:"utilidad_neta"`
}
