package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/genesispos/contable/internal/clock"
	"github.com/genesispos/contable/internal/investment/domain"
)

func setupInvestment(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.InvestmentConfig{},
		&domain.Amortization{},
	))

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)),
	})
	return svc, db
}

func dec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func saveConfig(t *testing.T, svc domain.Service, total, returnPct, recovered string) {
	t.Helper()
	req := domain.SaveConfigRequest{
		TotalAmount:      dec(total),
		ReturnPercentage: dec(returnPct),
	}
	if recovered != "" {
		r := dec(recovered)
		req.RecoveredAmount = &r
	}
	_, err := svc.SaveConfig(context.Background(), req)
	require.NoError(t, err)
}

func TestRecordAmortizationAtomic(t *testing.T) {
	svc, db := setupInvestment(t)
	ctx := context.Background()
	saveConfig(t, svc, "10000", "10", "")

	resp, err := svc.RecordAmortization(ctx, dec("500"), "", "nota 12")
	require.NoError(t, err)
	require.Equal(t, "manual", resp.Source)
	require.True(t, resp.Amount.Equal(dec("500")))

	cfg, err := svc.GetConfig(ctx)
	require.NoError(t, err)
	require.True(t, cfg.RecoveredAmount.Equal(dec("500")))

	var rows int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM investment_amortizations`).Scan(&rows).Error)
	require.Equal(t, int64(1), rows)
}

func TestRecordAmortizationRejectsNonPositive(t *testing.T) {
	svc, _ := setupInvestment(t)
	ctx := context.Background()
	saveConfig(t, svc, "10000", "10", "")

	_, err := svc.RecordAmortization(ctx, decimal.Zero, "manual", "")
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.RecordAmortization(ctx, dec("-5"), "manual", "")
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestRecordAmortizationWithoutConfig(t *testing.T) {
	svc, _ := setupInvestment(t)

	_, err := svc.RecordAmortization(context.Background(), dec("100"), "manual", "")
	require.ErrorIs(t, err, domain.ErrNoConfig)
}

func TestManualAmortizationNotClamped(t *testing.T) {
	svc, _ := setupInvestment(t)
	ctx := context.Background()
	saveConfig(t, svc, "1000", "10", "990")

	// manual entries record what the operator typed, even past full recovery
	resp, err := svc.RecordAmortization(ctx, dec("100"), "manual", "")
	require.NoError(t, err)
	require.True(t, resp.Amount.Equal(dec("100")))

	cfg, err := svc.GetConfig(ctx)
	require.NoError(t, err)
	require.True(t, cfg.RecoveredAmount.Equal(dec("1090")))
}

func TestRecordFromSaleClampsToRemaining(t *testing.T) {
	svc, _ := setupInvestment(t)
	ctx := context.Background()
	saveConfig(t, svc, "1000", "10", "950")

	// 10% of 1000 would be 100, but only 50 remains
	resp, err := svc.RecordFromSale(ctx, "777", dec("1000"))
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.True(t, resp.Amount.Equal(dec("50")))
	require.Equal(t, "sale:777", resp.Source)

	cfg, err := svc.GetConfig(ctx)
	require.NoError(t, err)
	require.True(t, cfg.RecoveredAmount.Equal(dec("1000")))

	// fully recovered: no further sale-linked amortizations
	resp, err = svc.RecordFromSale(ctx, "778", dec("1000"))
	require.NoError(t, err)
	require.Nil(t, resp)
}

func TestAmortizationHelpers(t *testing.T) {
	cfg := &domain.InvestmentConfig{
		TotalAmount:      dec("1000"),
		RecoveredAmount:  dec("900"),
		ReturnPercentage: dec("10"),
	}

	require.True(t, AmortizationFromSale(cfg, dec("500")).Equal(dec("50")))
	require.True(t, AmortizationFromSale(cfg, dec("2000")).Equal(dec("100")))
	require.True(t, AmortizationFromSale(cfg, decimal.Zero).IsZero())
}

func TestProgressClampsForDisplay(t *testing.T) {
	svc, _ := setupInvestment(t)
	ctx := context.Background()

	progress, err := svc.Progress(ctx)
	require.NoError(t, err)
	require.Nil(t, progress)

	saveConfig(t, svc, "1000", "10", "1200")

	progress, err = svc.Progress(ctx)
	require.NoError(t, err)
	require.NotNil(t, progress)
	require.True(t, progress.Remaining.IsZero())
	require.True(t, progress.Percentage.Equal(dec("100")))
	require.True(t, progress.Recovered.Equal(dec("1200")))
}
