package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type CostCenter struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Code      string       `gorm:"type:varchar(16);not null;index"`
	Name      string       `gorm:"type:text;not null"`
	Active    bool         `gorm:"not null;default:true"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CostCenter) TableName() string { return "cost_centers" }

// CostAllocation attributes an amount from a source record to a center.
// center_id is not enforced as a foreign key; totals simply skip rows
// whose center no longer exists.
type CostAllocation struct {
	ID         snowflake.ID    `gorm:"primaryKey"`
	CenterID   snowflake.ID    `gorm:"not null;index"`
	SourceType string          `gorm:"type:varchar(32);not null"`
	SourceID   string          `gorm:"type:varchar(64)"`
	Amount     decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Date       time.Time       `gorm:"not null;index"`
	CreatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CostAllocation) TableName() string { return "cost_allocations" }

type CostPlan struct {
	ID            snowflake.ID    `gorm:"primaryKey"`
	Name          string          `gorm:"type:text;not null"`
	StartDate     time.Time       `gorm:"not null"`
	EndDate       time.Time       `gorm:"not null"`
	RevenueTarget decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	CostTarget    decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	ProfitTarget  decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CostPlan) TableName() string { return "cost_plans" }
