package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTotal   = errors.New("invalid_total")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidProduct = errors.New("invalid_product")
)

type SaleResponse struct {
	ID        string             `json:"id"`
	Total     decimal.Decimal    `json:"total"`
	CreatedAt string             `json:"created_at"`
	Items     []SaleItemResponse `json:"items,omitempty"`
}

type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type ExpenseResponse struct {
	ID       string          `json:"id"`
	Total    decimal.Decimal `json:"total"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
}

type ProductResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Cost  decimal.Decimal `json:"cost"`
	Price decimal.Decimal `json:"price"`
	Unit  string          `json:"unit"`
}

type MovementResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Date      string          `json:"date"`
}

// Service ingests boundary records. Inputs are normalized before anything
// is persisted.
type Service interface {
	RecordSale(ctx context.Context, in SaleInput) (*SaleResponse, error)
	RecordExpense(ctx context.Context, in ExpenseInput) (*ExpenseResponse, error)
	CreateProduct(ctx context.Context, in ProductInput) (*ProductResponse, error)
	RecordProduction(ctx context.Context, in ProductionInput) (*MovementResponse, error)
	ListProducts(ctx context.Context) ([]ProductResponse, error)
}
