package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Canonical schemas for the records the POS side produces. Producers drift
// (total vs amount, qty vs quantity); normalization happens once at the
// boundary, never inside business logic.

type Product struct {
	ID        snowflake.ID    `gorm:"primaryKey"`
	Name      string          `gorm:"type:text;not null"`
	Cost      decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Price     decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Unit      string          `gorm:"type:text"`
	Active    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }

type Sale struct {
	ID        snowflake.ID    `gorm:"primaryKey"`
	Total     decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	CreatedAt time.Time       `gorm:"not null;index"`
	Items     []SaleItem      `gorm:"foreignKey:SaleID"`
}

func (Sale) TableName() string { return "sales" }

type SaleItem struct {
	ID        snowflake.ID    `gorm:"primaryKey"`
	SaleID    snowflake.ID    `gorm:"not null;index"`
	ProductID snowflake.ID    `gorm:"not null;index"`
	Quantity  decimal.Decimal `gorm:"type:numeric(18,3);not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(18,2);not null"`
}

func (SaleItem) TableName() string { return "sale_items" }

type Expense struct {
	ID        snowflake.ID    `gorm:"primaryKey"`
	Total     decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Category  string          `gorm:"type:text"`
	Date      time.Time       `gorm:"not null;index"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Expense) TableName() string { return "expenses" }

// MovementProduction is the only movement type the aggregator reads.
const MovementProduction = "produccion"

type ProductionMovement struct {
	ID           snowflake.ID    `gorm:"primaryKey"`
	ProductID    snowflake.ID    `gorm:"not null;index"`
	MovementType string          `gorm:"type:text;not null;default:produccion"`
	Quantity     decimal.Decimal `gorm:"type:numeric(18,3);not null"`
	Date         time.Time       `gorm:"not null;index"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ProductionMovement) TableName() string { return "production_movements" }
