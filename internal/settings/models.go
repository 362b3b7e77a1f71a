package settings

import (
	"time"

	"gorm.io/datatypes"
)

// Setting is a single persisted configuration value. Values are stored as
// JSON so callers always round-trip through a typed accessor.
type Setting struct {
	Key       string         `gorm:"primaryKey;type:text"`
	Value     datatypes.JSON `gorm:"type:jsonb"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Setting) TableName() string { return "settings" }

// Keys used by the accounting core.
const (
	KeyPeriodStart  = "accounting_period_start"
	KeyPeriodEnd    = "accounting_period_end"
	KeyPeriodClosed = "accounting_period_closed"
)
