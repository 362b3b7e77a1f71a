package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Input payloads accept the aliases the upstream producers actually send.
// Each Normalize* folds them into the canonical model exactly once.

type SaleItemInput struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Qty       decimal.Decimal `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Price     decimal.Decimal `json:"price"`
}

type SaleInput struct {
	Total     decimal.Decimal `json:"total"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	CreatedAt string          `json:"created_at"`
	Items     []SaleItemInput `json:"items"`
}

type ExpenseInput struct {
	Total    decimal.Decimal `json:"total"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
}

type ProductInput struct {
	Name  string          `json:"name"`
	Cost  decimal.Decimal `json:"cost"`
	Price decimal.Decimal `json:"price"`
	Unit  string          `json:"unit"`
}

type ProductionInput struct {
	ProductID    string          `json:"product_id"`
	MovementType string          `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	Qty          decimal.Decimal `json:"qty"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
}

// firstPositive returns the first value that is strictly positive,
// or zero when none is.
func firstPositive(vals ...decimal.Decimal) decimal.Decimal {
	for _, v := range vals {
		if v.IsPositive() {
			return v
		}
	}
	return decimal.Zero
}

// ParseDate accepts the timestamp formats seen in the wild and falls
// back to the given default when the field is absent or malformed.
func ParseDate(s string, def time.Time) time.Time {
	if s == "" {
		return def
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return def
}

// NormalizeSaleTotal folds the total and amount aliases.
func NormalizeSaleTotal(in SaleInput) decimal.Decimal {
	return firstPositive(in.Total, in.Amount)
}

// NormalizeSaleDate folds the date and created_at aliases.
func NormalizeSaleDate(in SaleInput, def time.Time) time.Time {
	if in.Date != "" {
		return ParseDate(in.Date, def)
	}
	return ParseDate(in.CreatedAt, def)
}

// NormalizeSaleItem folds qty and price aliases into the canonical item.
func NormalizeSaleItem(in SaleItemInput) (qty, price decimal.Decimal) {
	return firstPositive(in.Quantity, in.Qty), firstPositive(in.UnitPrice, in.Price)
}

// NormalizeExpenseTotal folds the total and amount aliases.
func NormalizeExpenseTotal(in ExpenseInput) decimal.Decimal {
	return firstPositive(in.Total, in.Amount)
}

// NormalizeProductionQty folds quantity, qty and amount aliases.
func NormalizeProductionQty(in ProductionInput) decimal.Decimal {
	return firstPositive(in.Quantity, in.Qty, in.Amount)
}
