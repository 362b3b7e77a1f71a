package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/genesispos/contable/internal/posdata/domain"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) CreateSale(ctx context.Context, sale *domain.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`INSERT INTO sales (id, total, created_at) VALUES (?, ?, ?)`,
			sale.ID, sale.Total, sale.CreatedAt,
		).Error; err != nil {
			return err
		}
		for _, item := range sale.Items {
			if err := tx.Exec(
				`INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price)
				 VALUES (?, ?, ?, ?, ?)`,
				item.ID, sale.ID, item.ProductID, item.Quantity, item.UnitPrice,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repo) CreateExpense(ctx context.Context, expense *domain.Expense) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO expenses (id, total, category, date, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		expense.ID, expense.Total, expense.Category, expense.Date, expense.CreatedAt,
	).Error
}

func (r *repo) CreateProduct(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO products (id, name, cost, price, unit, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID, product.Name, product.Cost, product.Price, product.Unit,
		product.Active, product.CreatedAt, product.UpdatedAt,
	).Error
}

func (r *repo) CreateMovement(ctx context.Context, movement *domain.ProductionMovement) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO production_movements (id, product_id, movement_type, quantity, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		movement.ID, movement.ProductID, movement.MovementType, movement.Quantity,
		movement.Date, movement.CreatedAt,
	).Error
}

func (r *repo) SalesInRange(ctx context.Context, from, to time.Time) ([]domain.Sale, error) {
	var sales []domain.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *repo) SalesTotalInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return r.sumInRange(ctx,
		`SELECT COALESCE(SUM(total), 0) FROM sales WHERE created_at >= ? AND created_at < ?`,
		from, to)
}

func (r *repo) ExpensesInRange(ctx context.Context, from, to time.Time) ([]domain.Expense, error) {
	var expenses []domain.Expense
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from, to).
		Order("date ASC").
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *repo) ExpensesTotalInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return r.sumInRange(ctx,
		`SELECT COALESCE(SUM(total), 0) FROM expenses WHERE date >= ? AND date < ?`,
		from, to)
}

func (r *repo) MovementsInRange(ctx context.Context, from, to time.Time) ([]domain.ProductionMovement, error) {
	var movements []domain.ProductionMovement
	if err := r.db.WithContext(ctx).
		Where("movement_type = ? AND date >= ? AND date < ?", domain.MovementProduction, from, to).
		Order("date ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *repo) FindProduct(ctx context.Context, id snowflake.ID) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.WithContext(ctx).
		Raw(`SELECT * FROM products WHERE id = ?`, id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *repo) Products(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.db.WithContext(ctx).
		Raw(`SELECT * FROM products WHERE active = ? ORDER BY name ASC`, true).
		Scan(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) sumInRange(ctx context.Context, query string, from, to time.Time) (decimal.Decimal, error) {
	var raw sql.NullString
	if err := r.db.WithContext(ctx).Raw(query, from, to).Scan(&raw).Error; err != nil {
		return decimal.Zero, err
	}
	if !raw.Valid || raw.String == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw.String)
}
