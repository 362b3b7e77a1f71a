package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/genesispos/contable/internal/account/domain"
	"github.com/genesispos/contable/internal/clock"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("account.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Initialize(ctx context.Context) error {
	count, err := s.repo.Count(ctx, s.db)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := s.clock.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, seed := range domain.DefaultChart {
			a := &domain.Account{
				ID:        s.genID.Generate(),
				Code:      seed.Code,
				Name:      seed.Name,
				Type:      seed.Type,
				Nature:    seed.Nature,
				Balance:   decimal.Zero,
				System:    seed.System,
				Active:    true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.repo.Create(ctx, tx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("chart of accounts seeded", zap.Int("accounts", len(domain.DefaultChart)))
	return nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < 3 {
		return nil, domain.ErrInvalidName
	}

	accType := domain.AccountType(strings.TrimSpace(req.Type))
	if !domain.ValidType(accType) {
		return nil, domain.ErrInvalidType
	}

	code := strings.TrimSpace(req.Code)
	if code != "" {
		existing, err := s.repo.FindByCode(ctx, s.db, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicateCode
		}
	} else {
		assigned, err := s.nextCode(ctx, accType)
		if err != nil {
			return nil, err
		}
		code = assigned
	}

	nature := domain.Nature(strings.TrimSpace(req.Nature))
	if nature != domain.NatureDebit && nature != domain.NatureCredit {
		nature = domain.NatureOf(accType)
	}

	now := s.clock.Now()
	a := &domain.Account{
		ID:        s.genID.Generate(),
		Code:      code,
		Name:      name,
		Type:      accType,
		Nature:    nature,
		Balance:   decimal.Zero,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, s.db, a); err != nil {
		return nil, err
	}

	resp := toResponse(a)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	a, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if a.System && (req.Type != nil || req.Code != nil) {
		return nil, domain.ErrProtectedAccount
	}

	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code != "" && code != a.Code {
			existing, err := s.repo.FindByCode(ctx, s.db, code)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, domain.ErrDuplicateCode
			}
			a.Code = code
		}
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len(name) < 3 {
			return nil, domain.ErrInvalidName
		}
		a.Name = name
	}
	if req.Type != nil {
		accType := domain.AccountType(strings.TrimSpace(*req.Type))
		if !domain.ValidType(accType) {
			return nil, domain.ErrInvalidType
		}
		a.Type = accType
		a.Nature = domain.NatureOf(accType)
	}
	if req.Active != nil {
		a.Active = *req.Active
	}

	a.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, a); err != nil {
		return nil, err
	}

	resp := toResponse(a)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	a, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if a.System {
		return domain.ErrProtectedAccount
	}
	if a.Balance.Abs().GreaterThan(domain.Epsilon) {
		return domain.ErrNonZeroBalance
	}

	referenced, err := s.repo.HasJournalLines(ctx, s.db, a.ID)
	if err != nil {
		return err
	}
	if referenced {
		return domain.ErrAccountReferenced
	}

	a.Active = false
	a.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, s.db, a)
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	items, err := s.repo.FindAll(ctx, s.db, req)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(a)
	return &resp, nil
}

func (s *Service) GetByCode(ctx context.Context, code string) (*domain.Response, error) {
	a, err := s.repo.FindByCode(ctx, s.db, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	resp := toResponse(a)
	return &resp, nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.Account, error) {
	accountID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	a, err := s.repo.FindByID(ctx, s.db, accountID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

// nextCode picks the next free numeric code inside the type's range.
func (s *Service) nextCode(ctx context.Context, t domain.AccountType) (string, error) {
	base := domain.CodeBase(t)
	max, err := s.repo.MaxCodeInRange(ctx, s.db, base, base+100)
	if err != nil {
		return "", err
	}
	if max == 0 {
		max = base
	}
	return fmt.Sprintf("%d", max+1), nil
}

func toResponse(a *domain.Account) domain.Response {
	return domain.Response{
		ID:        a.ID.String(),
		Code:      a.Code,
		Name:      a.Name,
		Type:      a.Type,
		Nature:    a.Nature,
		Balance:   a.Balance,
		System:    a.System,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
