package settings

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/genesispos/contable/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidKey = errors.New("invalid_key")

// Service is a typed accessor over the settings table.
type Service interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string) error
	GetBool(ctx context.Context, key string) (bool, bool, error)
	SetBool(ctx context.Context, key string, value bool) error
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func New(p Params) Service {
	return &service{
		db:    p.DB,
		log:   p.Log.Named("settings.service"),
		clock: p.Clock,
	}
}

func (s *service) Get(ctx context.Context, key string, out any) (bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, ErrInvalidKey
	}

	var row Setting
	err := s.db.WithContext(ctx).Raw(
		`SELECT key, value, updated_at FROM settings WHERE key = ?`,
		key,
	).Scan(&row).Error
	if err != nil {
		return false, err
	}
	if row.Key == "" {
		return false, nil
	}
	if out != nil {
		if err := json.Unmarshal(row.Value, out); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (s *service) Set(ctx context.Context, key string, value any) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrInvalidKey
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	now := s.now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(
			`UPDATE settings SET value = ?, updated_at = ? WHERE key = ?`,
			raw, now, key,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		return tx.Exec(
			`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)`,
			key, raw, now,
		).Error
	})
}

func (s *service) GetString(ctx context.Context, key string) (string, bool, error) {
	var value string
	ok, err := s.Get(ctx, key, &value)
	return value, ok, err
}

func (s *service) SetString(ctx context.Context, key, value string) error {
	return s.Set(ctx, key, value)
}

func (s *service) GetBool(ctx context.Context, key string) (bool, bool, error) {
	var value bool
	ok, err := s.Get(ctx, key, &value)
	return value, ok, err
}

func (s *service) SetBool(ctx context.Context, key string, value bool) error {
	return s.Set(ctx, key, value)
}

func (s *service) now() time.Time {
	if s.clock != nil {
		return s.clock.Now()
	}
	return time.Now().UTC()
}
