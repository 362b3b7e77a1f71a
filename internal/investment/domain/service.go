package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	SaveConfig(ctx context.Context, req SaveConfigRequest) (*ConfigResponse, error)
	GetConfig(ctx context.Context) (*ConfigResponse, error)

	// RecordAmortization appends a recovery event and advances
	// recovered_amount in the same transaction. The stored amount is not
	// clamped; over-recovery is representable.
	RecordAmortization(ctx context.Context, amount decimal.Decimal, source, reference string) (*AmortizationResponse, error)

	// RecordFromSale applies the configured return percentage to a sale
	// total, clamped to the remaining principal. Returns (nil, nil) when
	// the investment is already fully recovered.
	RecordFromSale(ctx context.Context, saleID string, saleTotal decimal.Decimal) (*AmortizationResponse, error)

	// Progress derives recovery progress for display. Nil when no
	// investment is configured or the principal is zero.
	Progress(ctx context.Context) (*Progress, error)
}

type SaveConfigRequest struct {
	TotalAmount      decimal.Decimal  `json:"total_amount"`
	ReturnPercentage decimal.Decimal  `json:"return_percentage"`
	ProfitPercentage *decimal.Decimal `json:"profit_percentage"`
	RecoveredAmount  *decimal.Decimal `json:"recovered_amount"`
	Description      string           `json:"description"`
	StartDate        *time.Time       `json:"start_date"`
	TargetDate       *time.Time       `json:"target_date"`
}

type ConfigResponse struct {
	TotalAmount      decimal.Decimal        `json:"total_amount"`
	RecoveredAmount  decimal.Decimal        `json:"recovered_amount"`
	ReturnPercentage decimal.Decimal        `json:"return_percentage"`
	ProfitPercentage decimal.Decimal        `json:"profit_percentage"`
	Description      string                 `json:"description,omitempty"`
	StartDate        *time.Time             `json:"start_date,omitempty"`
	TargetDate       *time.Time             `json:"target_date,omitempty"`
	Amortizations    []AmortizationResponse `json:"amortizations"`
}

type AmortizationResponse struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Source    string          `json:"source"`
	Reference string          `json:"reference,omitempty"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
}

// Progress clamps remaining and percentage for display only; the stored
// recovered_amount keeps its raw value.
type Progress struct {
	Total      decimal.Decimal `json:"total"`
	Recovered  decimal.Decimal `json:"recovered"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage decimal.Decimal `json:"percentage"`
}

var (
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrNoConfig      = errors.New("no_investment_config")
)
