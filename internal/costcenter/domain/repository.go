package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type CenterSum struct {
	ID    snowflake.ID
	Code  string
	Name  string
	Total decimal.Decimal
}

type Repository interface {
	CreateCenter(ctx context.Context, center *CostCenter) error
	FindCenter(ctx context.Context, id snowflake.ID) (*CostCenter, error)
	UpdateCenter(ctx context.Context, center *CostCenter) error
	DeactivateCenter(ctx context.Context, id snowflake.ID) error
	ActiveCenters(ctx context.Context) ([]CostCenter, error)

	CreateAllocation(ctx context.Context, allocation *CostAllocation) error
	DeleteAllocation(ctx context.Context, id snowflake.ID) error
	Allocations(ctx context.Context) ([]CostAllocation, error)
	TotalsByCenter(ctx context.Context) ([]CenterSum, error)

	CreatePlan(ctx context.Context, plan *CostPlan) error
	FindPlan(ctx context.Context, id snowflake.ID) (*CostPlan, error)
	UpdatePlan(ctx context.Context, plan *CostPlan) error
	DeletePlan(ctx context.Context, id snowflake.ID) error
	Plans(ctx context.Context) ([]CostPlan, error)
}
