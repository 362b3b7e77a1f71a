package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/genesispos/contable/internal/account/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, account *domain.Account) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO accounts (id, code, name, type, nature, balance, system, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID,
		account.Code,
		account.Name,
		account.Type,
		account.Nature,
		account.Balance,
		account.System,
		account.Active,
		account.CreatedAt,
		account.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Account, error) {
	var a domain.Account
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, name, type, nature, balance, system, active, created_at, updated_at
		 FROM accounts WHERE id = ?`,
		id,
	).Scan(&a).Error
	if err != nil {
		return nil, err
	}
	if a.ID == 0 {
		return nil, nil
	}
	return &a, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Account, error) {
	var a domain.Account
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, name, type, nature, balance, system, active, created_at, updated_at
		 FROM accounts WHERE code = ?`,
		code,
	).Scan(&a).Error
	if err != nil {
		return nil, err
	}
	if a.ID == 0 {
		return nil, nil
	}
	return &a, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Account, error) {
	stmt := db.WithContext(ctx).Model(&domain.Account{})
	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}

	var items []domain.Account
	if err := stmt.Order("code ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, account *domain.Account) error {
	return db.WithContext(ctx).Exec(
		`UPDATE accounts
		 SET code = ?, name = ?, type = ?, nature = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		account.Code,
		account.Name,
		account.Type,
		account.Nature,
		account.Active,
		account.UpdatedAt,
		account.ID,
	).Error
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Account{}).Count(&n).Error
	return n, err
}

func (r *repo) MaxCodeInRange(ctx context.Context, db *gorm.DB, low, high int) (int, error) {
	var max *int
	err := db.WithContext(ctx).Raw(
		`SELECT MAX(CAST(code AS INTEGER)) FROM accounts
		 WHERE CAST(code AS INTEGER) >= ? AND CAST(code AS INTEGER) < ?`,
		low, high,
	).Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *repo) HasJournalLines(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM journal_lines WHERE account_id = ?`,
		id,
	).Scan(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *repo) ApplyBalanceDelta(ctx context.Context, tx *gorm.DB, id snowflake.ID, delta decimal.Decimal) error {
	result := tx.WithContext(ctx).Exec(
		`UPDATE accounts SET balance = balance + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		delta,
		id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
