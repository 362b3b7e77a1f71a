package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, account *Account) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Account, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Account, error)
	FindAll(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Account, error)
	Update(ctx context.Context, db *gorm.DB, account *Account) error
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	MaxCodeInRange(ctx context.Context, db *gorm.DB, low, high int) (int, error)
	HasJournalLines(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)

	// ApplyBalanceDelta adds delta to the account balance. It must only be
	// called inside a posting transaction.
	ApplyBalanceDelta(ctx context.Context, tx *gorm.DB, id snowflake.ID, delta decimal.Decimal) error
}
