package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/genesispos/contable/internal/clock"
	journaldomain "github.com/genesispos/contable/internal/journal/domain"
	posdomain "github.com/genesispos/contable/internal/posdata/domain"
	"github.com/genesispos/contable/internal/reporting/domain"
)

// Growth rates applied by the naive projection.
var (
	revenueGrowthRate = decimal.NewFromFloat(0.05)
	costGrowthRate    = decimal.NewFromFloat(0.03)
)

var oneHundred = decimal.NewFromInt(100)

// lookbacks fixes how many buckets each granularity covers.
var lookbacks = map[domain.Granularity]int{
	domain.GranularityDay:   14,
	domain.GranularityWeek:  8,
	domain.GranularityMonth: 12,
	domain.GranularityYear:  5,
}

type Params struct {
	fx.In

	Log     *zap.Logger
	POS     posdomain.Repository
	Journal journaldomain.Service
	Clock   clock.Clock
}

type Service struct {
	log     *zap.Logger
	pos     posdomain.Repository
	journal journaldomain.Service
	clock   clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("reporting.service"),
		pos:     p.POS,
		journal: p.Journal,
		clock:   p.Clock,
	}
}

func (s *Service) Series(ctx context.Context, granularity domain.Granularity) ([]domain.Bucket, error) {
	lookback, ok := lookbacks[granularity]
	if !ok {
		return nil, domain.ErrInvalidGranularity
	}

	now := s.clock.Now()
	current := bucketStart(now, granularity)
	from := stepBack(current, granularity, lookback-1)
	to := stepForward(current, granularity)

	buckets := make([]domain.Bucket, 0, lookback)
	index := make(map[string]int, lookback)
	for t := from; t.Before(to); t = stepForward(t, granularity) {
		key := bucketKey(t, granularity)
		index[key] = len(buckets)
		buckets = append(buckets, domain.Bucket{Key: key})
	}

	sales, err := s.pos.SalesInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.pos.ExpensesInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	movements, err := s.pos.MovementsInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	costs, err := s.productCosts(ctx)
	if err != nil {
		return nil, err
	}

	for _, sale := range sales {
		i, ok := index[bucketKey(sale.CreatedAt, granularity)]
		if !ok {
			continue
		}
		buckets[i].Ingresos = buckets[i].Ingresos.Add(sale.Total)
		for _, item := range sale.Items {
			cogs := item.Quantity.Mul(costs[item.ProductID])
			buckets[i].Gastos = buckets[i].Gastos.Add(cogs)
		}
	}
	for _, expense := range expenses {
		if i, ok := index[bucketKey(expense.Date, granularity)]; ok {
			buckets[i].Gastos = buckets[i].Gastos.Add(expense.Total)
		}
	}
	for _, movement := range movements {
		i, ok := index[bucketKey(movement.Date, granularity)]
		if !ok {
			continue
		}
		prodCost := movement.Quantity.Mul(costs[movement.ProductID])
		buckets[i].Produccion = buckets[i].Produccion.Add(prodCost)
		buckets[i].Gastos = buckets[i].Gastos.Add(prodCost)
	}

	for i := range buckets {
		buckets[i].Utilidad = buckets[i].Ingresos.Sub(buckets[i].Gastos)
	}
	return buckets, nil
}

func (s *Service) CostByProduct(ctx context.Context) ([]domain.ProductCost, error) {
	products, err := s.pos.Products(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.pos.SalesInRange(ctx, time.Unix(0, 0).UTC(), s.clock.Now().Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	type acc struct {
		qty     decimal.Decimal
		revenue decimal.Decimal
	}
	sold := make(map[snowflake.ID]acc, len(products))
	for _, sale := range sales {
		for _, item := range sale.Items {
			a := sold[item.ProductID]
			a.qty = a.qty.Add(item.Quantity)
			a.revenue = a.revenue.Add(item.Quantity.Mul(item.UnitPrice))
			sold[item.ProductID] = a
		}
	}

	out := make([]domain.ProductCost, 0, len(products))
	for _, product := range products {
		a := sold[product.ID]
		cost := a.qty.Mul(product.Cost)
		profit := a.revenue.Sub(cost)
		margin := decimal.Zero
		if !a.revenue.IsZero() {
			margin = profit.Div(a.revenue).Mul(oneHundred)
		}
		out = append(out, domain.ProductCost{
			ProductID: product.ID.String(),
			Name:      product.Name,
			Quantity:  a.qty,
			Revenue:   a.revenue,
			Cost:      cost,
			Profit:    profit,
			Margin:    margin,
		})
	}
	return out, nil
}

func (s *Service) Projections(ctx context.Context) ([]domain.ProjectionPoint, error) {
	series, err := s.Series(ctx, domain.GranularityMonth)
	if err != nil {
		return nil, err
	}

	tail := series
	if len(tail) > 6 {
		tail = tail[len(tail)-6:]
	}
	var revenueSum, costSum decimal.Decimal
	for _, bucket := range tail {
		revenueSum = revenueSum.Add(bucket.Ingresos)
		costSum = costSum.Add(bucket.Gastos)
	}
	n := decimal.NewFromInt(int64(len(tail)))
	var revenueAvg, costAvg decimal.Decimal
	if !n.IsZero() {
		revenueAvg = revenueSum.Div(n)
		costAvg = costSum.Div(n)
	}

	points := make([]domain.ProjectionPoint, 0, 3)
	for k := 1; k <= 3; k++ {
		step := decimal.NewFromInt(int64(k))
		revenue := revenueAvg.Mul(decimal.NewFromInt(1).Add(step.Mul(revenueGrowthRate))).Round(0)
		cost := costAvg.Mul(decimal.NewFromInt(1).Add(step.Mul(costGrowthRate))).Round(0)
		points = append(points, domain.ProjectionPoint{
			Offset:  k,
			Revenue: revenue,
			Cost:    cost,
			Profit:  revenue.Sub(cost),
		})
	}
	return points, nil
}

func (s *Service) BalanceSheet(ctx context.Context) (*journaldomain.BalanceSheet, error) {
	return s.journal.BalanceSheet(ctx)
}

func (s *Service) IncomeStatement(ctx context.Context) (*journaldomain.IncomeStatement, error) {
	return s.journal.IncomeStatement(ctx)
}

func (s *Service) productCosts(ctx context.Context) (map[snowflake.ID]decimal.Decimal, error) {
	products, err := s.pos.Products(ctx)
	if err != nil {
		return nil, err
	}
	costs := make(map[snowflake.ID]decimal.Decimal, len(products))
	for _, product := range products {
		costs[product.ID] = product.Cost
	}
	return costs, nil
}

// bucketStart truncates t to the start of its bucket in UTC. Weeks run
// Monday to Sunday.
func bucketStart(t time.Time, granularity domain.Granularity) time.Time {
	t = t.UTC()
	switch granularity {
	case domain.GranularityWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case domain.GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case domain.GranularityYear:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

func stepForward(t time.Time, granularity domain.Granularity) time.Time {
	switch granularity {
	case domain.GranularityWeek:
		return t.AddDate(0, 0, 7)
	case domain.GranularityMonth:
		return t.AddDate(0, 1, 0)
	case domain.GranularityYear:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

func stepBack(t time.Time, granularity domain.Granularity, n int) time.Time {
	switch granularity {
	case domain.GranularityWeek:
		return t.AddDate(0, 0, -7*n)
	case domain.GranularityMonth:
		return t.AddDate(0, -n, 0)
	case domain.GranularityYear:
		return t.AddDate(-n, 0, 0)
	default:
		return t.AddDate(0, 0, -n)
	}
}

func bucketKey(t time.Time, granularity domain.Granularity) string {
	t = t.UTC()
	switch granularity {
	case domain.GranularityWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case domain.GranularityMonth:
		return t.Format("2006-01")
	case domain.GranularityYear:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}
