package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/genesispos/contable/internal/clock"
	investmentdomain "github.com/genesispos/contable/internal/investment/domain"
	"github.com/genesispos/contable/internal/posdata/domain"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Repo       domain.Repository
	GenID      *snowflake.Node
	Clock      clock.Clock
	Investment investmentdomain.Service
}

type Service struct {
	log        *zap.Logger
	repo       domain.Repository
	genID      *snowflake.Node
	clock      clock.Clock
	investment investmentdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		log:        p.Log.Named("posdata.service"),
		repo:       p.Repo,
		genID:      p.GenID,
		clock:      p.Clock,
		investment: p.Investment,
	}
}

func (s *Service) RecordSale(ctx context.Context, in domain.SaleInput) (*domain.SaleResponse, error) {
	total := domain.NormalizeSaleTotal(in)
	if !total.IsPositive() {
		return nil, domain.ErrInvalidTotal
	}

	sale := domain.Sale{
		ID:        s.genID.Generate(),
		Total:     total,
		CreatedAt: domain.NormalizeSaleDate(in, s.clock.Now()),
	}
	for _, raw := range in.Items {
		productID, err := snowflake.ParseString(strings.TrimSpace(raw.ProductID))
		if err != nil {
			return nil, domain.ErrInvalidProduct
		}
		qty, price := domain.NormalizeSaleItem(raw)
		sale.Items = append(sale.Items, domain.SaleItem{
			ID:        s.genID.Generate(),
			SaleID:    sale.ID,
			ProductID: productID,
			Quantity:  qty,
			UnitPrice: price,
		})
	}

	if err := s.repo.CreateSale(ctx, &sale); err != nil {
		s.log.Error("failed to record sale", zap.Error(err))
		return nil, err
	}

	// The sale-linked amortization is best effort. A missing or fully
	// recovered investment must not reject the sale itself.
	if _, err := s.investment.RecordFromSale(ctx, sale.ID.String(), sale.Total); err != nil &&
		!errors.Is(err, investmentdomain.ErrNoConfig) {
		s.log.Error("failed to amortize from sale",
			zap.String("sale_id", sale.ID.String()), zap.Error(err))
	}

	resp := toSaleResponse(&sale)
	return &resp, nil
}

func (s *Service) RecordExpense(ctx context.Context, in domain.ExpenseInput) (*domain.ExpenseResponse, error) {
	total := domain.NormalizeExpenseTotal(in)
	if !total.IsPositive() {
		return nil, domain.ErrInvalidTotal
	}

	now := s.clock.Now()
	expense := domain.Expense{
		ID:        s.genID.Generate(),
		Total:     total,
		Category:  strings.TrimSpace(in.Category),
		Date:      domain.ParseDate(in.Date, now),
		CreatedAt: now,
	}
	if err := s.repo.CreateExpense(ctx, &expense); err != nil {
		s.log.Error("failed to record expense", zap.Error(err))
		return nil, err
	}

	resp := toExpenseResponse(&expense)
	return &resp, nil
}

func (s *Service) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := s.clock.Now()
	product := domain.Product{
		ID:        s.genID.Generate(),
		Name:      name,
		Cost:      in.Cost,
		Price:     in.Price,
		Unit:      strings.TrimSpace(in.Unit),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateProduct(ctx, &product); err != nil {
		s.log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	resp := toProductResponse(&product)
	return &resp, nil
}

func (s *Service) RecordProduction(ctx context.Context, in domain.ProductionInput) (*domain.MovementResponse, error) {
	qty := domain.NormalizeProductionQty(in)
	if !qty.IsPositive() {
		return nil, domain.ErrInvalidTotal
	}
	productID, err := snowflake.ParseString(strings.TrimSpace(in.ProductID))
	if err != nil {
		return nil, domain.ErrInvalidProduct
	}
	if product, err := s.repo.FindProduct(ctx, productID); err != nil {
		return nil, err
	} else if product == nil {
		return nil, domain.ErrInvalidProduct
	}

	now := s.clock.Now()
	movement := domain.ProductionMovement{
		ID:           s.genID.Generate(),
		ProductID:    productID,
		MovementType: domain.MovementProduction,
		Quantity:     qty,
		Date:         domain.ParseDate(in.Date, now),
		CreatedAt:    now,
	}
	if err := s.repo.CreateMovement(ctx, &movement); err != nil {
		s.log.Error("failed to record production movement", zap.Error(err))
		return nil, err
	}

	resp := domain.MovementResponse{
		ID:        movement.ID.String(),
		ProductID: movement.ProductID.String(),
		Quantity:  movement.Quantity,
		Date:      movement.Date.Format("2006-01-02"),
	}
	return &resp, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.ProductResponse, error) {
	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, toProductResponse(&products[i]))
	}
	return out, nil
}

func toSaleResponse(sale *domain.Sale) domain.SaleResponse {
	resp := domain.SaleResponse{
		ID:        sale.ID.String(),
		Total:     sale.Total,
		CreatedAt: sale.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, item := range sale.Items {
		resp.Items = append(resp.Items, domain.SaleItemResponse{
			ID:        item.ID.String(),
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return resp
}

func toExpenseResponse(expense *domain.Expense) domain.ExpenseResponse {
	return domain.ExpenseResponse{
		ID:       expense.ID.String(),
		Total:    expense.Total,
		Category: expense.Category,
		Date:     expense.Date.Format("2006-01-02"),
	}
}

func toProductResponse(product *domain.Product) domain.ProductResponse {
	return domain.ProductResponse{
		ID:    product.ID.String(),
		Name:  product.Name,
		Cost:  product.Cost,
		Price: product.Price,
		Unit:  product.Unit,
	}
}
