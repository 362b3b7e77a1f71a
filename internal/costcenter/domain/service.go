package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrInvalidDate   = errors.New("invalid_date")
	ErrNotFound      = errors.New("not_found")
)

type CenterRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type CenterResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type AllocationRequest struct {
	CenterID   string          `json:"center_id"`
	SourceType string          `json:"source_type"`
	SourceID   string          `json:"source_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date"`
}

type AllocationResponse struct {
	ID         string          `json:"id"`
	CenterID   string          `json:"center_id"`
	SourceType string          `json:"source_type"`
	SourceID   string          `json:"source_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date"`
}

type CenterTotal struct {
	ID    string          `json:"id"`
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

type PlanRequest struct {
	Name          string          `json:"name"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	RevenueTarget decimal.Decimal `json:"revenue_target"`
	CostTarget    decimal.Decimal `json:"cost_target"`
	ProfitTarget  decimal.Decimal `json:"profit_target"`
}

type PlanResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	RevenueTarget decimal.Decimal `json:"revenue_target"`
	CostTarget    decimal.Decimal `json:"cost_target"`
	ProfitTarget  decimal.Decimal `json:"profit_target"`
}

// PlanActuals compares a plan's targets against observed revenue and
// expenses inside the plan window.
type PlanActuals struct {
	Plan            PlanResponse    `json:"plan"`
	ActualRevenue   decimal.Decimal `json:"actual_revenue"`
	ActualCost      decimal.Decimal `json:"actual_cost"`
	ActualProfit    decimal.Decimal `json:"actual_profit"`
	RevenueVariance decimal.Decimal `json:"revenue_variance"`
	CostVariance    decimal.Decimal `json:"cost_variance"`
	ProfitVariance  decimal.Decimal `json:"profit_variance"`
}

type Service interface {
	CreateCenter(ctx context.Context, req CenterRequest) (*CenterResponse, error)
	UpdateCenter(ctx context.Context, id string, req CenterRequest) (*CenterResponse, error)
	DeleteCenter(ctx context.Context, id string) error
	ListCenters(ctx context.Context) ([]CenterResponse, error)

	CreateAllocation(ctx context.Context, req AllocationRequest) (*AllocationResponse, error)
	DeleteAllocation(ctx context.Context, id string) error
	ListAllocations(ctx context.Context) ([]AllocationResponse, error)

	// CenterTotals sums allocations per active center. Allocations whose
	// center was deleted are not represented.
	CenterTotals(ctx context.Context) ([]CenterTotal, error)

	CreatePlan(ctx context.Context, req PlanRequest) (*PlanResponse, error)
	UpdatePlan(ctx context.Context, id string, req PlanRequest) (*PlanResponse, error)
	DeletePlan(ctx context.Context, id string) error
	ListPlans(ctx context.Context) ([]PlanResponse, error)

	// PlanActuals aggregates sales and expenses inside the plan window,
	// both bounds inclusive with the end extended to end of day.
	PlanActuals(ctx context.Context, id string) (*PlanActuals, error)
}
