package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// InvestmentConfig is the singleton investment-recovery configuration.
// RecoveredAmount is only ever advanced together with an Amortization row.
type InvestmentConfig struct {
	ID               int64           `gorm:"primaryKey"`
	TotalAmount      decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	RecoveredAmount  decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	ReturnPercentage decimal.Decimal `gorm:"type:numeric(8,4);not null"`
	ProfitPercentage decimal.Decimal `gorm:"type:numeric(8,4);not null"`
	Description      string          `gorm:"type:text"`
	StartDate        *time.Time
	TargetDate       *time.Time
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (InvestmentConfig) TableName() string { return "investment_config" }

// ConfigID is the fixed primary key of the singleton row.
const ConfigID int64 = 1

// Amortization is one recovery event, manual or sale-linked. Append-only.
type Amortization struct {
	ID        snowflake.ID    `gorm:"primaryKey"`
	Amount    decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Source    string          `gorm:"type:text;not null"`
	Reference string          `gorm:"type:text"`
	Date      time.Time       `gorm:"not null;index"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Amortization) TableName() string { return "investment_amortizations" }
