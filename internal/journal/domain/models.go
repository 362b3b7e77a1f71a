package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// EntryStatus tracks the lifecycle of a posted entry. Entries are never
// mutated; corrections happen through reversing entries.
type EntryStatus string

const (
	StatusPosted   EntryStatus = "posted"
	StatusReversed EntryStatus = "reversed"
)

// JournalEntry is the immutable header of a balanced double-entry posting.
type JournalEntry struct {
	ID           snowflake.ID    `gorm:"primaryKey"`
	EntryNumber  int64           `gorm:"not null;uniqueIndex:ux_journal_entries_number"`
	Date         time.Time       `gorm:"not null;index"`
	Description  string          `gorm:"type:text"`
	Reference    string          `gorm:"type:text"`
	TotalDebit   decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	TotalCredit  decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Status       EntryStatus     `gorm:"type:text;not null;default:posted"`
	ReversedByID *snowflake.ID   `gorm:"index"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (JournalEntry) TableName() string { return "journal_entries" }

// JournalLine is one debit or credit leg of an entry. Lines are owned by
// their entry and never exist independently.
type JournalLine struct {
	ID          snowflake.ID    `gorm:"primaryKey"`
	EntryID     snowflake.ID    `gorm:"not null;index"`
	AccountID   snowflake.ID    `gorm:"not null;index"`
	Description string          `gorm:"type:text"`
	Debit       decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Credit      decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (JournalLine) TableName() string { return "journal_lines" }

// JournalSequence is the single-row counter backing entry numbers. The
// counter is advanced in its own transaction before posting, so numbers are
// strictly increasing and never reused; a failed posting leaves a gap.
type JournalSequence struct {
	ID    int64 `gorm:"primaryKey"`
	Value int64 `gorm:"not null"`
}

func (JournalSequence) TableName() string { return "journal_sequences" }
