package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Repository persists and queries POS records. Range queries treat from
// as inclusive and to as exclusive.
type Repository interface {
	CreateSale(ctx context.Context, sale *Sale) error
	CreateExpense(ctx context.Context, expense *Expense) error
	CreateProduct(ctx context.Context, product *Product) error
	CreateMovement(ctx context.Context, movement *ProductionMovement) error

	SalesInRange(ctx context.Context, from, to time.Time) ([]Sale, error)
	SalesTotalInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	ExpensesInRange(ctx context.Context, from, to time.Time) ([]Expense, error)
	ExpensesTotalInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	MovementsInRange(ctx context.Context, from, to time.Time) ([]ProductionMovement, error)

	FindProduct(ctx context.Context, id snowflake.ID) (*Product, error)
	Products(ctx context.Context) ([]Product, error)
}
