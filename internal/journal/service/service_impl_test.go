package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	accountdomain "github.com/genesispos/contable/internal/account/domain"
	accountrepo "github.com/genesispos/contable/internal/account/repository"
	accountservice "github.com/genesispos/contable/internal/account/service"
	"github.com/genesispos/contable/internal/clock"
	"github.com/genesispos/contable/internal/journal/domain"
	"github.com/genesispos/contable/internal/settings"
)

type journalFixture struct {
	journal  domain.Service
	accounts accountdomain.Service
	db       *gorm.DB
	clock    *clock.FakeClock
}

func setupJournal(t *testing.T) *journalFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(
		&accountdomain.Account{},
		&domain.JournalEntry{},
		&domain.JournalLine{},
		&domain.JournalSequence{},
		&settings.Setting{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	accRepo := accountrepo.Provide()
	accounts := accountservice.New(accountservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fake,
		Repo:  accRepo,
	})
	settingsSvc := settings.New(settings.Params{DB: db, Log: log, Clock: fake})
	journal := New(Params{
		DB:       db,
		Log:      log,
		GenID:    node,
		Clock:    fake,
		Accounts: accRepo,
		Settings: settingsSvc,
	})

	require.NoError(t, accounts.Initialize(context.Background()))

	return &journalFixture{journal: journal, accounts: accounts, db: db, clock: fake}
}

func (f *journalFixture) accountID(t *testing.T, code string) string {
	t.Helper()
	resp, err := f.accounts.GetByCode(context.Background(), code)
	require.NoError(t, err)
	return resp.ID
}

func (f *journalFixture) balance(t *testing.T, code string) decimal.Decimal {
	t.Helper()
	resp, err := f.accounts.GetByCode(context.Background(), code)
	require.NoError(t, err)
	return resp.Balance
}

func (f *journalFixture) entryCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Raw(`SELECT COUNT(*) FROM journal_entries`).Scan(&count).Error)
	return count
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestPostBalancedEntryUpdatesBalances(t *testing.T) {
	f := setupJournal(t)
	ctx := context.Background()

	resp, err := f.journal.Post(ctx, domain.PostRequest{
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "Aportación inicial",
		Lines: []domain.LineRequest{
			{AccountID: f.accountID(t, "1101"), Debit: d("500")},
			{AccountID: f.accountID(t, "3101"), Credit: d("500")},
		},
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.EntryNumber)
	require.True(t, resp.TotalDebit.Equal(d("500")))
	require.True(t, resp.TotalCredit.Equal(d("500")))

	require.True(t, f.balance(t, "1101").Equal(d("500")))
	require.True(t, f.balance(t, "3101").Equal(d("500")))

	sheet, err := f.journal.BalanceSheet(ctx)
	require.NoError(t, err)
	require.True(t, sheet.Balanced)
	require.True(t, sheet.Activos.Equal(d("500")))
	require.True(t, sheet.Capital.Equal(d("500")))
}

func TestPostUnbalancedEntryRejected(t *testing.T) {
	f := setupJournal(t)
	ctx := context.Background()

	_, err := f.journal.Post(ctx, domain.PostRequest{
		Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Lines: []domain.LineRequest{
			{AccountID: f.accountID(t, "1101"), Debit: d("100")},
			{AccountID: f.accountID(t, "4101"), Credit: d("50")},
		},
	})

	var unbalanced *domain.UnbalancedEntryError
	require.ErrorAs(t, err, &unbalanced)
	require.True(t, unbalanced.Difference.Abs().Equal(d("50")))

	require.Equal(t, int64(0), f.entryCount(t))
	require.True(t, f.balance(t, "1101").IsZero())
	require.True(t, f.balance(t, "4101").IsZero())
}

func TestPostValidation(t *testing.T) {
	f := setupJournal(t)
	ctx := context.Background()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.journal.Post(ctx, domain.PostRequest{
		Date:  date,
		Lines: []domain.LineRequest{{AccountID: f.accountID(t, "1101"), Debit: d("10")}},
	})
	require.ErrorIs(t, err, domain.ErrTooFewLines)

	// a line may carry a debit or a credit, not both
	_, err = f.journal.Post(ctx, domain.PostRequest{
		Date: date,
		Lines: []domain.LineRequest{
			{AccountID: f.accountID(t, "1101"), Debit: d("10"), Credit: d("10")},
			{AccountID: f.accountID(t, "4101"), Credit: d("10")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInvalidLine)

	_, err = f.journal.Post(ctx, domain.PostRequest{
		Date: date,
		Lines: []domain.LineRequest{
			{AccountID: "999999999", Debit: d("10")},
			{AccountID: f.accountID(t, "4101"), Credit: d("10")},
		},
	})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestEntryNumbersStrictlyIncreasing(t *testing.T) {
	f := setupJournal(t)
	ctx := context.Background()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	var numbers []int64
	for i := 0; i < 3; i++ {
		resp, err := f.journal.Post(ctx, domain.PostRequest{
			Date: date,
			Lines: []domain.LineRequest{
				{AccountID: f.accountID(t, "1101"), Debit: d("10")},
				{AccountID: f.accountID(t, "4101"), Credit: d("10")},
			},
		})
		require.NoError(t, err)
		numbers = append(numbers, resp.EntryNumber)
	}

	for i := 1; i < len(numbers); i++ {
		require.Greater(t, numbers[i], numbers[i-1])
	}
}

func TestReverseEntry(t *testing.T) {
	f := setupJournal(t)
	ctx := context.Background()

	original, err := f.journal.Post(ctx, domain.PostRequest{
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "Venta de contado",
		Lines: []domain.LineRequest{
			{AccountID: f.accountID(t, "1101"), Debit: d("200")},
			{AccountID: f.accountID(t, "4101"), Credit: d("200")},
		},
	})
	require.NoError(t, err)

	f.clock.Advance(24 * time.Hour)
	reversal, err := f.journal.Reverse(ctx, original.ID)
	require.NoError(t, err)
	require.Greater(t, reversal.EntryNumber, original.EntryNumber)
	require.True(t, reversal.Date.Equal(time.Date(2024, 3, 16, 12, 0, 0, 0, time.UTC)))

	// mirrored legs cancel the original balances
	require.True(t, f.balance(t, "1101").IsZero())
	require.True(t, f.balance(t, "4101").IsZero())

	stored, err := f.journal.Get(ctx, original.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusReversed, stored.Status)
	require.NotNil(t, stored.ReversedByID)
	require.Equal(t, reversal.ID, *stored.ReversedByID)

	_, err = f.journal.Reverse(ctx, original.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyReversed)
}

func TestContraAccountsAccumulateByNature(t *testing.T) {
	f := setupJournal(t)
	ctx := context.Background()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// 1205 Depreciación Acumulada is an asset-typed account with credit
	// nature: crediting it must grow the balance, not shrink it.
	_, err := f.journal.Post(ctx, domain.PostRequest{
		Date:        date,
		Description: "Depreciación mensual",
		Lines: []domain.LineRequest{
			{AccountID: f.accountID(t, "5108"), Debit: d("100")},
			{AccountID: f.accountID(t, "1205"), Credit: d("100")},
		},
	})
	require.NoError(t, err)
	require.True(t, f.balance(t, "5108").Equal(d("100")))
	require.True(t, f.balance(t, "1205").Equal(d("100")))

	// 4103 Descuentos sobre Ventas is revenue-typed with debit nature.
	_, err = f.journal.Post(ctx, domain.PostRequest{
		Date:        date,
		Description: "Descuento otorgado",
		Lines: []domain.LineRequest{
			{AccountID: f.accountID(t, "4103"), Debit: d("40")},
			{AccountID: f.accountID(t, "1101"), Credit: d("40")},
		},
	})
	require.NoError(t, err)
	require.True(t, f.balance(t, "4103").Equal(d("40")))
	require.True(t, f.balance(t, "1101").Equal(d("-40")))
}

func TestExplicitNatureOverrideDrivesAccumulation(t *testing.T) {
	f := setupJournal(t)
	ctx := context.Background()

	created, err := f.accounts.Create(ctx, accountdomain.CreateRequest{
		Name:   "Devoluciones sobre Ventas",
		Type:   string(accountdomain.TypeIngresos),
		Nature: string(accountdomain.NatureDebit),
	})
	require.NoError(t, err)
	require.Equal(t, accountdomain.NatureDebit, created.Nature)

	_, err = f.journal.Post(ctx, domain.PostRequest{
		Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Lines: []domain.LineRequest{
			{AccountID: created.ID, Debit: d("60")},
			{AccountID: f.accountID(t, "1101"), Credit: d("60")},
		},
	})
	require.NoError(t, err)
	require.True(t, f.balance(t, created.Code).Equal(d("60")))
}

func TestClosedPeriodRejectsPosting(t *testing.T) {
	f := setupJournal(t)
	ctx := context.Background()

	require.NoError(t, f.journal.ClosePeriod(ctx, "2024-01-01", "2024-03-31"))

	post := domain.PostRequest{
		Date: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		Lines: []domain.LineRequest{
			{AccountID: f.accountID(t, "1101"), Debit: d("10")},
			{AccountID: f.accountID(t, "4101"), Credit: d("10")},
		},
	}

	_, err := f.journal.Post(ctx, post)
	require.ErrorIs(t, err, domain.ErrPeriodClosed)

	// dates outside the closed window still post
	outside := post
	outside.Date = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	_, err = f.journal.Post(ctx, outside)
	require.NoError(t, err)

	require.NoError(t, f.journal.OpenPeriod(ctx))
	_, err = f.journal.Post(ctx, post)
	require.NoError(t, err)
}

func TestStoredReadsResolveAccountDetails(t *testing.T) {
	f := setupJournal(t)
	ctx := context.Background()

	posted, err := f.journal.Post(ctx, domain.PostRequest{
		Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Lines: []domain.LineRequest{
			{AccountID: f.accountID(t, "1101"), Debit: d("25")},
			{AccountID: f.accountID(t, "4101"), Credit: d("25")},
		},
	})
	require.NoError(t, err)

	stored, err := f.journal.Get(ctx, posted.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 2)
	require.Equal(t, "1101", stored.Lines[0].AccountCode)
	require.Equal(t, "Caja General", stored.Lines[0].AccountName)
	require.Equal(t, "4101", stored.Lines[1].AccountCode)

	list, err := f.journal.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	for _, line := range list[0].Lines {
		require.NotEmpty(t, line.AccountCode)
		require.NotEmpty(t, line.AccountName)
	}
}

func TestIncomeStatement(t *testing.T) {
	f := setupJournal(t)
	ctx := context.Background()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// revenue 300, cost of sales 120, operating expense 50
	_, err := f.journal.Post(ctx, domain.PostRequest{
		Date: date,
		Lines: []domain.LineRequest{
			{AccountID: f.accountID(t, "1101"), Debit: d("300")},
			{AccountID: f.accountID(t, "4101"), Credit: d("300")},
		},
	})
	require.NoError(t, err)
	_, err = f.journal.Post(ctx, domain.PostRequest{
		Date: date,
		Lines: []domain.LineRequest{
			{AccountID: f.accountID(t, "6101"), Debit: d("120")},
			{AccountID: f.accountID(t, "1101"), Credit: d("120")},
		},
	})
	require.NoError(t, err)
	_, err = f.journal.Post(ctx, domain.PostRequest{
		Date: date,
		Lines: []domain.LineRequest{
			{AccountID: f.accountID(t, "5101"), Debit: d("50")},
			{AccountID: f.accountID(t, "1101"), Credit: d("50")},
		},
	})
	require.NoError(t, err)

	statement, err := f.journal.IncomeStatement(ctx)
	require.NoError(t, err)
	require.True(t, statement.Ingresos.Equal(d("300")))
	require.True(t, statement.Costos.Equal(d("120")))
	require.True(t, statement.Gastos.Equal(d("50")))
	require.True(t, statement.UtilidadBruta.Equal(d("180")))
	require.True(t, statement.UtilidadNeta.Equal(d("130")))
}

func TestRejectedPostingLeavesNoPartialState(t *testing.T) {
	f := setupJournal(t)
	ctx := context.Background()

	_, err := f.journal.Post(ctx, domain.PostRequest{
		Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Lines: []domain.LineRequest{
			{AccountID: f.accountID(t, "1101"), Debit: d("80")},
			{AccountID: f.accountID(t, "4101"), Credit: d("30")},
			{AccountID: f.accountID(t, "4102"), Credit: d("30")},
		},
	})
	require.Error(t, err)
	require.False(t, errors.Is(err, domain.ErrNotFound))

	var lineCount int64
	require.NoError(t, f.db.Raw(`SELECT COUNT(*) FROM journal_lines`).Scan(&lineCount).Error)
	require.Equal(t, int64(0), lineCount)
	require.True(t, f.balance(t, "1101").IsZero())
}
