package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	journaldomain "github.com/genesispos/contable/internal/journal/domain"
)

var ErrInvalidGranularity = errors.New("invalid_granularity")

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// Bucket is one time slot of the aggregated series. Gastos folds direct
// expenses, the product cost of goods sold and production cost together,
// mirroring how the POS dashboards read it.
type Bucket struct {
	Key        string          `json:"key"`
	Ingresos   decimal.Decimal `json:"ingresos"`
	Gastos     decimal.Decimal `json:"gastos"`
	Utilidad   decimal.Decimal `json:"utilidad"`
	Produccion decimal.Decimal `json:"produccion"`
}

type ProductCost struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
	Cost      decimal.Decimal `json:"cost"`
	Profit    decimal.Decimal `json:"profit"`
	Margin    decimal.Decimal `json:"margin"`
}

type ProjectionPoint struct {
	Offset  int             `json:"offset"`
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
}

type Service interface {
	// Series buckets sales, expenses and production over a fixed lookback
	// window per granularity, ending at the current day.
	Series(ctx context.Context, granularity Granularity) ([]Bucket, error)

	CostByProduct(ctx context.Context) ([]ProductCost, error)

	// Projections extrapolates three future buckets from the monthly
	// series using the configured naive growth rates.
	Projections(ctx context.Context) ([]ProjectionPoint, error)

	BalanceSheet(ctx context.Context) (*journaldomain.BalanceSheet, error)
	IncomeStatement(ctx context.Context) (*journaldomain.IncomeStatement, error)
}
