package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	// Initialize seeds the default chart of accounts on first run. It is a
	// no-op when any account already exists.
	Initialize(ctx context.Context) error
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	GetByCode(ctx context.Context, code string) (*Response, error)
}

type CreateRequest struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Nature string `json:"nature"`
}

type UpdateRequest struct {
	ID     string
	Code   *string
	Name   *string
	Type   *string
	Active *bool
}

type ListRequest struct {
	Type   string
	Active *bool
}

type Response struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Nature    Nature          `json:"nature"`
	Balance   decimal.Decimal `json:"balance"`
	System    bool            `json:"system"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidType       = errors.New("invalid_type")
	ErrDuplicateCode     = errors.New("duplicate_code")
	ErrNotFound          = errors.New("not_found")
	ErrProtectedAccount  = errors.New("protected_account")
	ErrNonZeroBalance    = errors.New("non_zero_balance")
	ErrAccountReferenced = errors.New("account_referenced")
)
