package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/genesispos/contable/internal/account/domain"
	"github.com/genesispos/contable/internal/account/repository"
	"github.com/genesispos/contable/internal/clock"
	journaldomain "github.com/genesispos/contable/internal/journal/domain"
)

func setupAccounts(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.Account{},
		&journaldomain.JournalEntry{},
		&journaldomain.JournalLine{},
	))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
	return svc, db
}

func TestInitializeIsIdempotent(t *testing.T) {
	svc, db := setupAccounts(t)
	ctx := context.Background()

	require.NoError(t, svc.Initialize(ctx))
	require.NoError(t, svc.Initialize(ctx))

	var total int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM accounts`).Scan(&total).Error)
	require.Equal(t, int64(len(domain.DefaultChart)), total)

	var distinct int64
	require.NoError(t, db.Raw(`SELECT COUNT(DISTINCT code) FROM accounts`).Scan(&distinct).Error)
	require.Equal(t, total, distinct)
}

func TestCreateAssignsNextCodeInRange(t *testing.T) {
	svc, _ := setupAccounts(t)
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx))

	resp, err := svc.Create(ctx, domain.CreateRequest{
		Name: "Caja Sucursal Norte",
		Type: string(domain.TypeActivoCirculante),
	})
	require.NoError(t, err)
	require.Equal(t, "1107", resp.Code)
	require.Equal(t, domain.NatureDebit, resp.Nature)
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	svc, _ := setupAccounts(t)
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx))

	_, err := svc.Create(ctx, domain.CreateRequest{
		Code: "1101",
		Name: "Caja Duplicada",
		Type: string(domain.TypeActivoCirculante),
	})
	require.ErrorIs(t, err, domain.ErrDuplicateCode)
}

func TestSystemAccountProtections(t *testing.T) {
	svc, _ := setupAccounts(t)
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx))

	reserved, err := svc.GetByCode(ctx, "2202")
	require.NoError(t, err)

	newType := string(domain.TypeCapital)
	_, err = svc.Update(ctx, domain.UpdateRequest{ID: reserved.ID, Type: &newType})
	require.ErrorIs(t, err, domain.ErrProtectedAccount)

	err = svc.Delete(ctx, reserved.ID)
	require.ErrorIs(t, err, domain.ErrProtectedAccount)

	// renaming a system account is allowed
	newName := "Inversión Inicial por Amortizar"
	updated, err := svc.Update(ctx, domain.UpdateRequest{ID: reserved.ID, Name: &newName})
	require.NoError(t, err)
	require.Equal(t, newName, updated.Name)
}

func TestDeleteGuards(t *testing.T) {
	svc, db := setupAccounts(t)
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx))

	acc, err := svc.GetByCode(ctx, "1102")
	require.NoError(t, err)

	require.NoError(t, db.Exec(`UPDATE accounts SET balance = 25 WHERE id = ?`, acc.ID).Error)
	require.ErrorIs(t, svc.Delete(ctx, acc.ID), domain.ErrNonZeroBalance)

	require.NoError(t, db.Exec(`UPDATE accounts SET balance = 0 WHERE id = ?`, acc.ID).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO journal_lines (id, entry_id, account_id, debit, credit, created_at)
		 VALUES (1, 1, ?, 10, 0, CURRENT_TIMESTAMP)`, acc.ID,
	).Error)
	require.ErrorIs(t, svc.Delete(ctx, acc.ID), domain.ErrAccountReferenced)

	clean, err := svc.GetByCode(ctx, "1103")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, clean.ID))

	// soft delete: the row stays, flagged inactive
	var active bool
	require.NoError(t, db.Raw(`SELECT active FROM accounts WHERE id = ?`, clean.ID).Scan(&active).Error)
	require.False(t, active)
}
