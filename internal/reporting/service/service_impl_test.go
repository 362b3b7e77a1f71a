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
	posdomain "github.com/genesispos/contable/internal/posdata/domain"
	posrepo "github.com/genesispos/contable/internal/posdata/repository"
	"github.com/genesispos/contable/internal/reporting/domain"
)

type reportingFixture struct {
	svc   domain.Service
	pos   posdomain.Repository
	genID *snowflake.Node
	clock *clock.FakeClock
}

func setupReporting(t *testing.T, now time.Time) *reportingFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&posdomain.Product{},
		&posdomain.Sale{},
		&posdomain.SaleItem{},
		&posdomain.Expense{},
		&posdomain.ProductionMovement{},
	))

	node, err := snowflake.NewNode(5)
	require.NoError(t, err)
	fake := clock.NewFakeClock(now)
	pos := posrepo.Provide(db)

	svc := New(Params{
		Log:   zap.NewNop(),
		POS:   pos,
		Clock: fake,
	})
	return &reportingFixture{svc: svc, pos: pos, genID: node, clock: fake}
}

func amt(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (f *reportingFixture) addSale(t *testing.T, total string, at time.Time, items ...posdomain.SaleItem) {
	t.Helper()
	sale := posdomain.Sale{ID: f.genID.Generate(), Total: amt(total), CreatedAt: at}
	for i := range items {
		items[i].ID = f.genID.Generate()
		items[i].SaleID = sale.ID
	}
	sale.Items = items
	require.NoError(t, f.pos.CreateSale(context.Background(), &sale))
}

func (f *reportingFixture) addProduct(t *testing.T, name, cost, price string) snowflake.ID {
	t.Helper()
	id := f.genID.Generate()
	require.NoError(t, f.pos.CreateProduct(context.Background(), &posdomain.Product{
		ID:     id,
		Name:   name,
		Cost:   amt(cost),
		Price:  amt(price),
		Active: true,
	}))
	return id
}

func findBucket(t *testing.T, buckets []domain.Bucket, key string) domain.Bucket {
	t.Helper()
	for _, b := range buckets {
		if b.Key == key {
			return b
		}
	}
	t.Fatalf("bucket %q not found", key)
	return domain.Bucket{}
}

func TestMonthlySeriesAggregation(t *testing.T) {
	f := setupReporting(t, time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	f.addSale(t, "100", time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC))
	f.addSale(t, "50", time.Date(2024, 1, 20, 18, 30, 0, 0, time.UTC))

	buckets, err := f.svc.Series(ctx, domain.GranularityMonth)
	require.NoError(t, err)
	require.Len(t, buckets, 12)
	require.Equal(t, "2024-02", buckets[len(buckets)-1].Key)
	require.Equal(t, "2023-03", buckets[0].Key)

	jan := findBucket(t, buckets, "2024-01")
	require.True(t, jan.Ingresos.Equal(amt("150")))
	require.True(t, jan.Gastos.IsZero())
	require.True(t, jan.Utilidad.Equal(amt("150")))

	// the window follows the clock
	f.clock.Set(time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC))
	buckets, err = f.svc.Series(ctx, domain.GranularityMonth)
	require.NoError(t, err)
	require.Equal(t, "2024-03", buckets[len(buckets)-1].Key)
}

func TestSeriesFoldsCOGSAndProduction(t *testing.T) {
	f := setupReporting(t, time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	productID := f.addProduct(t, "Bolillo", "4", "10")
	f.addSale(t, "100", time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC),
		posdomain.SaleItem{ProductID: productID, Quantity: amt("10"), UnitPrice: amt("10")})

	require.NoError(t, f.pos.CreateMovement(ctx, &posdomain.ProductionMovement{
		ID:           f.genID.Generate(),
		ProductID:    productID,
		MovementType: posdomain.MovementProduction,
		Quantity:     amt("5"),
		Date:         time.Date(2024, 2, 6, 7, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, f.pos.CreateExpense(ctx, &posdomain.Expense{
		ID:    f.genID.Generate(),
		Total: amt("30"),
		Date:  time.Date(2024, 2, 7, 10, 0, 0, 0, time.UTC),
	}))

	buckets, err := f.svc.Series(ctx, domain.GranularityMonth)
	require.NoError(t, err)

	feb := findBucket(t, buckets, "2024-02")
	require.True(t, feb.Ingresos.Equal(amt("100")))
	// expenses 30 + COGS 10*4 + production 5*4
	require.True(t, feb.Gastos.Equal(amt("90")))
	require.True(t, feb.Produccion.Equal(amt("20")))
	require.True(t, feb.Utilidad.Equal(amt("10")))
}

func TestWeeklySeriesUsesISOWeeks(t *testing.T) {
	// Thursday 2024-01-04 falls in ISO week 2024-W01 (Mon Jan 1 to Sun Jan 7)
	f := setupReporting(t, time.Date(2024, 1, 4, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	f.addSale(t, "10", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	f.addSale(t, "20", time.Date(2024, 1, 7, 23, 59, 59, 0, time.UTC))

	buckets, err := f.svc.Series(ctx, domain.GranularityWeek)
	require.NoError(t, err)
	require.Len(t, buckets, 8)
	require.Equal(t, "2024-W01", buckets[len(buckets)-1].Key)

	current := findBucket(t, buckets, "2024-W01")
	require.True(t, current.Ingresos.Equal(amt("30")))
}

func TestDailySeriesWindow(t *testing.T) {
	f := setupReporting(t, time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	f.addSale(t, "75", time.Date(2024, 3, 20, 8, 0, 0, 0, time.UTC))
	// outside the 14-day lookback
	f.addSale(t, "999", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))

	buckets, err := f.svc.Series(ctx, domain.GranularityDay)
	require.NoError(t, err)
	require.Len(t, buckets, 14)
	require.Equal(t, "2024-03-07", buckets[0].Key)
	require.Equal(t, "2024-03-20", buckets[len(buckets)-1].Key)

	today := findBucket(t, buckets, "2024-03-20")
	require.True(t, today.Ingresos.Equal(amt("75")))
	for _, b := range buckets[:len(buckets)-1] {
		require.True(t, b.Ingresos.IsZero())
	}
}

func TestSeriesRejectsUnknownGranularity(t *testing.T) {
	f := setupReporting(t, time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC))

	_, err := f.svc.Series(context.Background(), domain.Granularity("hour"))
	require.ErrorIs(t, err, domain.ErrInvalidGranularity)
}

func TestProjectionsFromMonthlyMean(t *testing.T) {
	f := setupReporting(t, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	// one 600 sale in the last month; six-month mean is 100
	f.addSale(t, "600", time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))

	points, err := f.svc.Projections(ctx)
	require.NoError(t, err)
	require.Len(t, points, 3)

	require.True(t, points[0].Revenue.Equal(amt("105")))
	require.True(t, points[1].Revenue.Equal(amt("110")))
	require.True(t, points[2].Revenue.Equal(amt("115")))
	for _, p := range points {
		require.True(t, p.Cost.IsZero())
		require.True(t, p.Profit.Equal(p.Revenue))
	}
}

func TestCostByProduct(t *testing.T) {
	f := setupReporting(t, time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	sold := f.addProduct(t, "Concha", "3", "8")
	f.addProduct(t, "Birote", "2", "5")

	f.addSale(t, "80", time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		posdomain.SaleItem{ProductID: sold, Quantity: amt("10"), UnitPrice: amt("8")})

	report, err := f.svc.CostByProduct(ctx)
	require.NoError(t, err)
	require.Len(t, report, 2)

	byName := map[string]domain.ProductCost{}
	for _, row := range report {
		byName[row.Name] = row
	}

	concha := byName["Concha"]
	require.True(t, concha.Revenue.Equal(amt("80")))
	require.True(t, concha.Cost.Equal(amt("30")))
	require.True(t, concha.Profit.Equal(amt("50")))
	require.True(t, concha.Margin.Equal(amt("62.5")))

	birote := byName["Birote"]
	require.True(t, birote.Revenue.IsZero())
	require.True(t, birote.Margin.IsZero())
}
