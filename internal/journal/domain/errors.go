package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidDate     = errors.New("invalid_date")
	ErrTooFewLines     = errors.New("too_few_lines")
	ErrInvalidLine     = errors.New("invalid_line")
	ErrAccountNotFound = errors.New("account_not_found")
	ErrPeriodClosed    = errors.New("period_closed")
	ErrNotFound        = errors.New("not_found")
	ErrAlreadyReversed = errors.New("already_reversed")
)

// UnbalancedEntryError reports debits not matching credits, carrying the
// computed difference for diagnostics.
type UnbalancedEntryError struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Difference  decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("unbalanced_entry: debit %s != credit %s (difference %s)",
		e.TotalDebit.StringFixed(2), e.TotalCredit.StringFixed(2), e.Difference.StringFixed(2))
}

// PartialWriteError marks a failure inside the posting transaction. The
// transaction rolls back, but the condition is surfaced distinctly because
// it indicates the ledger write did not complete as one unit.
type PartialWriteError struct {
	Op  string
	Err error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial_write: %s: %v", e.Op, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }
