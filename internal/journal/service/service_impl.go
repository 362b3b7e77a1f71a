package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/genesispos/contable/internal/account/domain"
	"github.com/genesispos/contable/internal/clock"
	"github.com/genesispos/contable/internal/journal/domain"
	"github.com/genesispos/contable/internal/settings"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Accounts accountdomain.Repository
	Settings settings.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	accounts accountdomain.Repository
	settings settings.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("journal.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		accounts: p.Accounts,
		settings: p.Settings,
	}
}

type resolvedLine struct {
	Account     *accountdomain.Account
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

func (s *Service) Post(ctx context.Context, req domain.PostRequest) (*domain.EntryResponse, error) {
	date := req.Date
	if date.IsZero() {
		date = s.clock.Now()
	}

	lines, totalDebit, totalCredit, err := s.validate(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	if err := s.checkPeriodOpen(ctx, date); err != nil {
		return nil, err
	}

	entryNumber, err := s.nextEntryNumber(ctx)
	if err != nil {
		return nil, err
	}

	entry := &domain.JournalEntry{
		ID:          s.genID.Generate(),
		EntryNumber: entryNumber,
		Date:        date,
		Description: strings.TrimSpace(req.Description),
		Reference:   strings.TrimSpace(req.Reference),
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Status:      domain.StatusPosted,
		CreatedAt:   s.clock.Now(),
	}

	persisted, err := s.persist(ctx, entry, lines, nil)
	if err != nil {
		return nil, err
	}
	return persisted, nil
}

func (s *Service) Reverse(ctx context.Context, entryID string) (*domain.EntryResponse, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(entryID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	original, originalLines, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if original.Status == domain.StatusReversed {
		return nil, domain.ErrAlreadyReversed
	}

	mirrored := make([]domain.LineRequest, 0, len(originalLines))
	for _, line := range originalLines {
		mirrored = append(mirrored, domain.LineRequest{
			AccountID:   line.AccountID.String(),
			Description: line.Description,
			Debit:       line.Credit,
			Credit:      line.Debit,
		})
	}

	lines, totalDebit, totalCredit, err := s.validate(ctx, mirrored)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := s.checkPeriodOpen(ctx, now); err != nil {
		return nil, err
	}

	entryNumber, err := s.nextEntryNumber(ctx)
	if err != nil {
		return nil, err
	}

	reversal := &domain.JournalEntry{
		ID:          s.genID.Generate(),
		EntryNumber: entryNumber,
		Date:        now,
		Description: fmt.Sprintf("Reversión de asiento #%d", original.EntryNumber),
		Reference:   original.ID.String(),
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Status:      domain.StatusPosted,
		CreatedAt:   now,
	}

	persisted, err := s.persist(ctx, reversal, lines, func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Exec(
			`UPDATE journal_entries SET status = ?, reversed_by_id = ? WHERE id = ?`,
			domain.StatusReversed,
			reversal.ID,
			original.ID,
		).Error
	})
	if err != nil {
		return nil, err
	}
	return persisted, nil
}

// validate resolves every line before any write happens. A single invalid
// line rejects the whole entry.
func (s *Service) validate(ctx context.Context, reqLines []domain.LineRequest) ([]resolvedLine, decimal.Decimal, decimal.Decimal, error) {
	if len(reqLines) < 2 {
		return nil, decimal.Zero, decimal.Zero, domain.ErrTooFewLines
	}

	lines := make([]resolvedLine, 0, len(reqLines))
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for _, line := range reqLines {
		accountID, err := snowflake.ParseString(strings.TrimSpace(line.AccountID))
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, domain.ErrAccountNotFound
		}
		acc, err := s.accounts.FindByID(ctx, s.db, accountID)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, err
		}
		if acc == nil || !acc.Active {
			return nil, decimal.Zero, decimal.Zero, domain.ErrAccountNotFound
		}

		hasDebit := line.Debit.IsPositive()
		hasCredit := line.Credit.IsPositive()
		if line.Debit.IsNegative() || line.Credit.IsNegative() || hasDebit == hasCredit {
			return nil, decimal.Zero, decimal.Zero, domain.ErrInvalidLine
		}

		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
		lines = append(lines, resolvedLine{
			Account:     acc,
			Description: strings.TrimSpace(line.Description),
			Debit:       line.Debit,
			Credit:      line.Credit,
		})
	}

	difference := totalDebit.Sub(totalCredit)
	if difference.Abs().GreaterThan(accountdomain.Epsilon) {
		return nil, decimal.Zero, decimal.Zero, &domain.UnbalancedEntryError{
			TotalDebit:  totalDebit,
			TotalCredit: totalCredit,
			Difference:  difference,
		}
	}

	return lines, totalDebit, totalCredit, nil
}

// checkPeriodOpen rejects postings dated inside a closed accounting period.
func (s *Service) checkPeriodOpen(ctx context.Context, date time.Time) error {
	closed, ok, err := s.settings.GetBool(ctx, settings.KeyPeriodClosed)
	if err != nil {
		return err
	}
	if !ok || !closed {
		return nil
	}

	start, _, err := s.settings.GetString(ctx, settings.KeyPeriodStart)
	if err != nil {
		return err
	}
	end, _, err := s.settings.GetString(ctx, settings.KeyPeriodEnd)
	if err != nil {
		return err
	}
	if start == "" || end == "" {
		return nil
	}

	day := date.UTC().Format("2006-01-02")
	if day >= start && day <= end {
		return domain.ErrPeriodClosed
	}
	return nil
}

// nextEntryNumber advances the sequence in its own committed transaction so
// a failed posting never hands its number to a later entry.
func (s *Service) nextEntryNumber(ctx context.Context) (int64, error) {
	var value int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(`UPDATE journal_sequences SET value = value + 1 WHERE id = 1`)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if err := tx.Exec(`INSERT INTO journal_sequences (id, value) VALUES (1, 1)`).Error; err != nil {
				return err
			}
		}
		return tx.Raw(`SELECT value FROM journal_sequences WHERE id = 1`).Scan(&value).Error
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

// persist writes the entry, its lines and every balance delta as one
// transaction. extra runs inside the same transaction when provided.
func (s *Service) persist(ctx context.Context, entry *domain.JournalEntry, lines []resolvedLine, extra func(tx *gorm.DB) error) (*domain.EntryResponse, error) {
	persistedLines := make([]domain.JournalLine, 0, len(lines))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Exec(
			`INSERT INTO journal_entries (id, entry_number, date, description, reference, total_debit, total_credit, status, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.ID,
			entry.EntryNumber,
			entry.Date,
			entry.Description,
			entry.Reference,
			entry.TotalDebit,
			entry.TotalCredit,
			entry.Status,
			entry.CreatedAt,
		).Error; err != nil {
			return &domain.PartialWriteError{Op: "insert entry", Err: err}
		}

		for _, line := range lines {
			row := domain.JournalLine{
				ID:          s.genID.Generate(),
				EntryID:     entry.ID,
				AccountID:   line.Account.ID,
				Description: line.Description,
				Debit:       line.Debit,
				Credit:      line.Credit,
				CreatedAt:   entry.CreatedAt,
			}
			if err := tx.WithContext(ctx).Exec(
				`INSERT INTO journal_lines (id, entry_id, account_id, description, debit, credit, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				row.ID,
				row.EntryID,
				row.AccountID,
				row.Description,
				row.Debit,
				row.Credit,
				row.CreatedAt,
			).Error; err != nil {
				return &domain.PartialWriteError{Op: "insert line", Err: err}
			}

			delta := balanceDelta(line.Account.Nature, line.Debit, line.Credit)
			if err := s.accounts.ApplyBalanceDelta(ctx, tx, line.Account.ID, delta); err != nil {
				return &domain.PartialWriteError{Op: "apply balance delta", Err: err}
			}
			persistedLines = append(persistedLines, row)
		}

		if extra != nil {
			if err := extra(tx); err != nil {
				return &domain.PartialWriteError{Op: "post-entry update", Err: err}
			}
		}
		return nil
	})
	if err != nil {
		if pw, ok := err.(*domain.PartialWriteError); ok {
			s.log.Error("journal posting transaction failed",
				zap.Int64("entry_number", entry.EntryNumber),
				zap.String("op", pw.Op),
				zap.Error(pw.Err),
			)
		}
		return nil, err
	}

	resp := s.toResponse(entry, persistedLines, lines)
	return &resp, nil
}

// balanceDelta applies the sign convention the ledger accumulates with. The
// per-account nature decides the growing side, not the type: contra accounts
// such as 1205 (credit-natured asset) and 4103 (debit-natured revenue) grow
// against their type's default.
func balanceDelta(nature accountdomain.Nature, debit, credit decimal.Decimal) decimal.Decimal {
	if nature == accountdomain.NatureDebit {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

func (s *Service) Get(ctx context.Context, entryID string) (*domain.EntryResponse, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(entryID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	entry, lines, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	index, err := s.accountIndex(ctx)
	if err != nil {
		return nil, err
	}
	resp := storedResponse(entry, lines, index)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.EntryResponse, error) {
	stmt := s.db.WithContext(ctx).Model(&domain.JournalEntry{})
	if req.From != nil {
		stmt = stmt.Where("date >= ?", *req.From)
	}
	if req.To != nil {
		stmt = stmt.Where("date <= ?", *req.To)
	}
	stmt = stmt.Order("entry_number DESC")
	if req.Limit > 0 {
		stmt = stmt.Limit(req.Limit)
	}

	var entries []domain.JournalEntry
	if err := stmt.Find(&entries).Error; err != nil {
		return nil, err
	}

	index, err := s.accountIndex(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.EntryResponse, 0, len(entries))
	for i := range entries {
		var lines []domain.JournalLine
		if err := s.db.WithContext(ctx).
			Where("entry_id = ?", entries[i].ID).
			Order("id ASC").
			Find(&lines).Error; err != nil {
			return nil, err
		}
		resp = append(resp, storedResponse(&entries[i], lines, index))
	}
	return resp, nil
}

// accountIndex loads the full chart once so stored reads resolve line
// codes and names without a per-line lookup.
func (s *Service) accountIndex(ctx context.Context) (map[snowflake.ID]accountdomain.Account, error) {
	accounts, err := s.accounts.FindAll(ctx, s.db, accountdomain.ListRequest{})
	if err != nil {
		return nil, err
	}
	index := make(map[snowflake.ID]accountdomain.Account, len(accounts))
	for i := range accounts {
		index[accounts[i].ID] = accounts[i]
	}
	return index, nil
}

func (s *Service) BalanceSheet(ctx context.Context) (*domain.BalanceSheet, error) {
	accounts, err := s.accounts.FindAll(ctx, s.db, accountdomain.ListRequest{})
	if err != nil {
		return nil, err
	}

	activos := decimal.Zero
	pasivos := decimal.Zero
	capital := decimal.Zero
	for _, a := range accounts {
		switch {
		case accountdomain.IsAsset(a.Type):
			activos = activos.Add(a.Balance)
		case accountdomain.IsLiability(a.Type):
			pasivos = pasivos.Add(a.Balance)
		case a.Type == accountdomain.TypeCapital:
			capital = capital.Add(a.Balance)
		}
	}

	diferencia := activos.Sub(pasivos.Add(capital))
	return &domain.BalanceSheet{
		Activos:    activos,
		Pasivos:    pasivos,
		Capital:    capital,
		Diferencia: diferencia,
		Balanced:   diferencia.Abs().LessThan(accountdomain.Epsilon),
	}, nil
}

func (s *Service) IncomeStatement(ctx context.Context) (*domain.IncomeStatement, error) {
	accounts, err := s.accounts.FindAll(ctx, s.db, accountdomain.ListRequest{})
	if err != nil {
		return nil, err
	}

	ingresos := decimal.Zero
	costos := decimal.Zero
	gastos := decimal.Zero
	for _, a := range accounts {
		// Absolute values: revenue and expense accounts may carry a
		// negative internal sign depending on how they were moved.
		switch a.Type {
		case accountdomain.TypeIngresos:
			ingresos = ingresos.Add(a.Balance.Abs())
		case accountdomain.TypeCostos:
			costos = costos.Add(a.Balance.Abs())
		case accountdomain.TypeGastos:
			gastos = gastos.Add(a.Balance.Abs())
		}
	}

	bruta := ingresos.Sub(costos)
	return &domain.IncomeStatement{
		Ingresos:      ingresos,
		Costos:        costos,
		Gastos:        gastos,
		UtilidadBruta: bruta,
		UtilidadNeta:  bruta.Sub(gastos),
	}, nil
}

func (s *Service) ClosePeriod(ctx context.Context, startDate, endDate string) error {
	startDate = strings.TrimSpace(startDate)
	endDate = strings.TrimSpace(endDate)
	if _, err := time.Parse("2006-01-02", startDate); err != nil {
		return domain.ErrInvalidDate
	}
	if _, err := time.Parse("2006-01-02", endDate); err != nil {
		return domain.ErrInvalidDate
	}

	if err := s.settings.SetString(ctx, settings.KeyPeriodStart, startDate); err != nil {
		return err
	}
	if err := s.settings.SetString(ctx, settings.KeyPeriodEnd, endDate); err != nil {
		return err
	}
	return s.settings.SetBool(ctx, settings.KeyPeriodClosed, true)
}

func (s *Service) OpenPeriod(ctx context.Context) error {
	return s.settings.SetBool(ctx, settings.KeyPeriodClosed, false)
}

func (s *Service) load(ctx context.Context, id snowflake.ID) (*domain.JournalEntry, []domain.JournalLine, error) {
	var entry domain.JournalEntry
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, entry_number, date, description, reference, total_debit, total_credit, status, reversed_by_id, created_at
		 FROM journal_entries WHERE id = ?`,
		id,
	).Scan(&entry).Error
	if err != nil {
		return nil, nil, err
	}
	if entry.ID == 0 {
		return nil, nil, domain.ErrNotFound
	}

	var lines []domain.JournalLine
	if err := s.db.WithContext(ctx).
		Where("entry_id = ?", id).
		Order("id ASC").
		Find(&lines).Error; err != nil {
		return nil, nil, err
	}
	return &entry, lines, nil
}

func (s *Service) toResponse(entry *domain.JournalEntry, rows []domain.JournalLine, resolved []resolvedLine) domain.EntryResponse {
	lines := make([]domain.LineResponse, 0, len(rows))
	for i, row := range rows {
		line := domain.LineResponse{
			ID:          row.ID.String(),
			AccountID:   row.AccountID.String(),
			Description: row.Description,
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
		if i < len(resolved) {
			line.AccountCode = resolved[i].Account.Code
			line.AccountName = resolved[i].Account.Name
		}
		lines = append(lines, line)
	}
	return entryResponse(entry, lines)
}

func storedResponse(entry *domain.JournalEntry, rows []domain.JournalLine, accounts map[snowflake.ID]accountdomain.Account) domain.EntryResponse {
	lines := make([]domain.LineResponse, 0, len(rows))
	for _, row := range rows {
		line := domain.LineResponse{
			ID:          row.ID.String(),
			AccountID:   row.AccountID.String(),
			Description: row.Description,
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
		if acc, ok := accounts[row.AccountID]; ok {
			line.AccountCode = acc.Code
			line.AccountName = acc.Name
		}
		lines = append(lines, line)
	}
	return entryResponse(entry, lines)
}

func entryResponse(entry *domain.JournalEntry, lines []domain.LineResponse) domain.EntryResponse {
	resp := domain.EntryResponse{
		ID:          entry.ID.String(),
		EntryNumber: entry.EntryNumber,
		Date:        entry.Date,
		Description: entry.Description,
		Reference:   entry.Reference,
		TotalDebit:  entry.TotalDebit,
		TotalCredit: entry.TotalCredit,
		Status:      entry.Status,
		Lines:       lines,
		CreatedAt:   entry.CreatedAt,
	}
	if entry.ReversedByID != nil {
		id := entry.ReversedByID.String()
		resp.ReversedByID = &id
	}
	return resp
}
