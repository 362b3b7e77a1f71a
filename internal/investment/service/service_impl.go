package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/genesispos/contable/internal/clock"
	"github.com/genesispos/contable/internal/investment/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	oneHundred = decimal.NewFromInt(100)
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("investment.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) SaveConfig(ctx context.Context, req domain.SaveConfigRequest) (*domain.ConfigResponse, error) {
	if req.TotalAmount.IsNegative() || req.ReturnPercentage.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.findConfig(ctx, tx)
		if err != nil {
			return err
		}
		if existing == nil {
			cfg := domain.InvestmentConfig{
				ID:               domain.ConfigID,
				TotalAmount:      req.TotalAmount,
				RecoveredAmount:  decimal.Zero,
				ReturnPercentage: req.ReturnPercentage,
				Description:      strings.TrimSpace(req.Description),
				StartDate:        req.StartDate,
				TargetDate:       req.TargetDate,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if req.ProfitPercentage != nil {
				cfg.ProfitPercentage = *req.ProfitPercentage
			}
			if req.RecoveredAmount != nil {
				cfg.RecoveredAmount = *req.RecoveredAmount
			}
			return tx.WithContext(ctx).Exec(
				`INSERT INTO investment_config (id, total_amount, recovered_amount, return_percentage, profit_percentage, description, start_date, target_date, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				cfg.ID, cfg.TotalAmount, cfg.RecoveredAmount, cfg.ReturnPercentage, cfg.ProfitPercentage,
				cfg.Description, cfg.StartDate, cfg.TargetDate, cfg.CreatedAt, cfg.UpdatedAt,
			).Error
		}

		existing.TotalAmount = req.TotalAmount
		existing.ReturnPercentage = req.ReturnPercentage
		if req.ProfitPercentage != nil {
			existing.ProfitPercentage = *req.ProfitPercentage
		}
		// recovered_amount is left alone unless the caller states it.
		if req.RecoveredAmount != nil {
			existing.RecoveredAmount = *req.RecoveredAmount
		}
		if req.Description != "" {
			existing.Description = strings.TrimSpace(req.Description)
		}
		if req.StartDate != nil {
			existing.StartDate = req.StartDate
		}
		if req.TargetDate != nil {
			existing.TargetDate = req.TargetDate
		}
		return tx.WithContext(ctx).Exec(
			`UPDATE investment_config
			 SET total_amount = ?, recovered_amount = ?, return_percentage = ?, profit_percentage = ?, description = ?, start_date = ?, target_date = ?, updated_at = ?
			 WHERE id = ?`,
			existing.TotalAmount, existing.RecoveredAmount, existing.ReturnPercentage, existing.ProfitPercentage,
			existing.Description, existing.StartDate, existing.TargetDate, now, domain.ConfigID,
		).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetConfig(ctx)
}

func (s *Service) GetConfig(ctx context.Context) (*domain.ConfigResponse, error) {
	cfg, err := s.findConfig(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNoConfig
	}

	var rows []domain.Amortization
	if err := s.db.WithContext(ctx).
		Order("date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	amortizations := make([]domain.AmortizationResponse, 0, len(rows))
	for _, row := range rows {
		amortizations = append(amortizations, toAmortizationResponse(&row))
	}

	return &domain.ConfigResponse{
		TotalAmount:      cfg.TotalAmount,
		RecoveredAmount:  cfg.RecoveredAmount,
		ReturnPercentage: cfg.ReturnPercentage,
		ProfitPercentage: cfg.ProfitPercentage,
		Description:      cfg.Description,
		StartDate:        cfg.StartDate,
		TargetDate:       cfg.TargetDate,
		Amortizations:    amortizations,
	}, nil
}

func (s *Service) RecordAmortization(ctx context.Context, amount decimal.Decimal, source, reference string) (*domain.AmortizationResponse, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	source = strings.TrimSpace(source)
	if source == "" {
		source = "manual"
	}

	now := s.clock.Now()
	row := domain.Amortization{
		ID:        s.genID.Generate(),
		Amount:    amount,
		Source:    source,
		Reference: strings.TrimSpace(reference),
		Date:      now,
		CreatedAt: now,
	}

	// The amortization row and the recovered_amount bump are one unit:
	// neither may land without the other.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cfg, err := s.findConfig(ctx, tx)
		if err != nil {
			return err
		}
		if cfg == nil {
			return domain.ErrNoConfig
		}

		if err := tx.WithContext(ctx).Exec(
			`INSERT INTO investment_amortizations (id, amount, source, reference, date, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			row.ID, row.Amount, row.Source, row.Reference, row.Date, row.CreatedAt,
		).Error; err != nil {
			return err
		}

		return tx.WithContext(ctx).Exec(
			`UPDATE investment_config SET recovered_amount = recovered_amount + ?, updated_at = ? WHERE id = ?`,
			row.Amount, now, domain.ConfigID,
		).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("amortization recorded",
		zap.String("source", row.Source),
		zap.String("amount", row.Amount.StringFixed(2)),
	)

	resp := toAmortizationResponse(&row)
	return &resp, nil
}

func (s *Service) RecordFromSale(ctx context.Context, saleID string, saleTotal decimal.Decimal) (*domain.AmortizationResponse, error) {
	cfg, err := s.findConfig(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNoConfig
	}

	amount := AmortizationFromSale(cfg, saleTotal)
	if !amount.IsPositive() {
		return nil, nil
	}
	return s.RecordAmortization(ctx, amount, "sale:"+strings.TrimSpace(saleID), saleID)
}

// AmortizationFromSale computes the sale-linked recovery amount: the
// configured percentage of the sale, clamped to the remaining principal.
func AmortizationFromSale(cfg *domain.InvestmentConfig, saleTotal decimal.Decimal) decimal.Decimal {
	if cfg == nil || !cfg.ReturnPercentage.IsPositive() {
		return decimal.Zero
	}
	amount := saleTotal.Mul(cfg.ReturnPercentage).Div(oneHundred)
	remaining := cfg.TotalAmount.Sub(cfg.RecoveredAmount)
	if amount.GreaterThan(remaining) {
		amount = remaining
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// AmortizationFromProfit computes the profit-linked recovery amount,
// clamped the same way.
func AmortizationFromProfit(cfg *domain.InvestmentConfig, monthlyProfit decimal.Decimal) decimal.Decimal {
	if cfg == nil || !cfg.ProfitPercentage.IsPositive() {
		return decimal.Zero
	}
	amount := monthlyProfit.Mul(cfg.ProfitPercentage).Div(oneHundred)
	remaining := cfg.TotalAmount.Sub(cfg.RecoveredAmount)
	if amount.GreaterThan(remaining) {
		amount = remaining
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

func (s *Service) Progress(ctx context.Context) (*domain.Progress, error) {
	cfg, err := s.findConfig(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if cfg == nil || !cfg.TotalAmount.IsPositive() {
		return nil, nil
	}

	remaining := cfg.TotalAmount.Sub(cfg.RecoveredAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	percentage := cfg.RecoveredAmount.Div(cfg.TotalAmount).Mul(oneHundred)
	if percentage.GreaterThan(oneHundred) {
		percentage = oneHundred
	}

	return &domain.Progress{
		Total:      cfg.TotalAmount,
		Recovered:  cfg.RecoveredAmount,
		Remaining:  remaining,
		Percentage: percentage,
	}, nil
}

func (s *Service) findConfig(ctx context.Context, db *gorm.DB) (*domain.InvestmentConfig, error) {
	var cfg domain.InvestmentConfig
	err := db.WithContext(ctx).Raw(
		`SELECT id, total_amount, recovered_amount, return_percentage, profit_percentage, description, start_date, target_date, created_at, updated_at
		 FROM investment_config WHERE id = ?`,
		domain.ConfigID,
	).Scan(&cfg).Error
	if err != nil {
		return nil, err
	}
	if cfg.ID == 0 {
		return nil, nil
	}
	return &cfg, nil
}

func toAmortizationResponse(row *domain.Amortization) domain.AmortizationResponse {
	return domain.AmortizationResponse{
		ID:        row.ID.String(),
		Amount:    row.Amount,
		Source:    row.Source,
		Reference: row.Reference,
		Date:      row.Date,
		CreatedAt: row.CreatedAt,
	}
}
