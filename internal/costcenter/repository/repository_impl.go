package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/genesispos/contable/internal/costcenter/domain"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) CreateCenter(ctx context.Context, center *domain.CostCenter) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO cost_centers (id, code, name, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		center.ID, center.Code, center.Name, center.Active,
		center.CreatedAt, center.UpdatedAt,
	).Error
}

func (r *repo) FindCenter(ctx context.Context, id snowflake.ID) (*domain.CostCenter, error) {
	var center domain.CostCenter
	if err := r.db.WithContext(ctx).
		Raw(`SELECT * FROM cost_centers WHERE id = ? AND active = ?`, id, true).
		First(&center).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &center, nil
}

func (r *repo) UpdateCenter(ctx context.Context, center *domain.CostCenter) error {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE cost_centers SET code = ?, name = ?, updated_at = ? WHERE id = ? AND active = ?`,
		center.Code, center.Name, center.UpdatedAt, center.ID, true,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) DeactivateCenter(ctx context.Context, id snowflake.ID) error {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE cost_centers SET active = ? WHERE id = ? AND active = ?`,
		false, id, true,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) ActiveCenters(ctx context.Context) ([]domain.CostCenter, error) {
	var centers []domain.CostCenter
	if err := r.db.WithContext(ctx).
		Raw(`SELECT * FROM cost_centers WHERE active = ? ORDER BY code ASC`, true).
		Scan(&centers).Error; err != nil {
		return nil, err
	}
	return centers, nil
}

func (r *repo) CreateAllocation(ctx context.Context, allocation *domain.CostAllocation) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO cost_allocations (id, center_id, source_type, source_id, amount, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		allocation.ID, allocation.CenterID, allocation.SourceType, allocation.SourceID,
		allocation.Amount, allocation.Date, allocation.CreatedAt,
	).Error
}

func (r *repo) DeleteAllocation(ctx context.Context, id snowflake.ID) error {
	res := r.db.WithContext(ctx).Exec(`DELETE FROM cost_allocations WHERE id = ?`, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) Allocations(ctx context.Context) ([]domain.CostAllocation, error) {
	var allocations []domain.CostAllocation
	if err := r.db.WithContext(ctx).
		Raw(`SELECT * FROM cost_allocations ORDER BY date DESC, id DESC`).
		Scan(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

func (r *repo) TotalsByCenter(ctx context.Context) ([]domain.CenterSum, error) {
	var sums []domain.CenterSum
	if err := r.db.WithContext(ctx).Raw(
		`SELECT c.id, c.code, c.name, COALESCE(SUM(a.amount), 0) AS total
		 FROM cost_centers c
		 LEFT JOIN cost_allocations a ON a.center_id = c.id
		 WHERE c.active = ?
		 GROUP BY c.id, c.code, c.name
		 ORDER BY c.code ASC`, true,
	).Scan(&sums).Error; err != nil {
		return nil, err
	}
	return sums, nil
}

func (r *repo) CreatePlan(ctx context.Context, plan *domain.CostPlan) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO cost_plans (id, name, start_date, end_date, revenue_target, cost_target, profit_target, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.Name, plan.StartDate, plan.EndDate,
		plan.RevenueTarget, plan.CostTarget, plan.ProfitTarget, plan.CreatedAt,
	).Error
}

func (r *repo) FindPlan(ctx context.Context, id snowflake.ID) (*domain.CostPlan, error) {
	var plan domain.CostPlan
	if err := r.db.WithContext(ctx).
		Raw(`SELECT * FROM cost_plans WHERE id = ?`, id).
		First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repo) UpdatePlan(ctx context.Context, plan *domain.CostPlan) error {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE cost_plans SET name = ?, start_date = ?, end_date = ?,
		 revenue_target = ?, cost_target = ?, profit_target = ? WHERE id = ?`,
		plan.Name, plan.StartDate, plan.EndDate,
		plan.RevenueTarget, plan.CostTarget, plan.ProfitTarget, plan.ID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) DeletePlan(ctx context.Context, id snowflake.ID) error {
	res := r.db.WithContext(ctx).Exec(`DELETE FROM cost_plans WHERE id = ?`, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) Plans(ctx context.Context) ([]domain.CostPlan, error) {
	var plans []domain.CostPlan
	if err := r.db.WithContext(ctx).
		Raw(`SELECT * FROM cost_plans ORDER BY start_date DESC`).
		Scan(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}
