package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/genesispos/contable/internal/clock"
	"github.com/genesispos/contable/internal/costcenter/domain"
	posdomain "github.com/genesispos/contable/internal/posdata/domain"
)

const dateLayout = "2006-01-02"

type Params struct {
	fx.In

	Log   *zap.Logger
	Repo  domain.Repository
	POS   posdomain.Repository
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	log   *zap.Logger
	repo  domain.Repository
	pos   posdomain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("costcenter.service"),
		repo:  p.Repo,
		pos:   p.POS,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) CreateCenter(ctx context.Context, req domain.CenterRequest) (*domain.CenterResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := s.clock.Now()
	center := domain.CostCenter{
		ID:        s.genID.Generate(),
		Code:      strings.TrimSpace(req.Code),
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if center.Code == "" {
		center.Code = defaultCode(center.ID)
	}

	if err := s.repo.CreateCenter(ctx, &center); err != nil {
		s.log.Error("failed to create cost center", zap.Error(err))
		return nil, err
	}

	resp := toCenterResponse(&center)
	return &resp, nil
}

func (s *Service) UpdateCenter(ctx context.Context, id string, req domain.CenterRequest) (*domain.CenterResponse, error) {
	centerID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	center, err := s.repo.FindCenter(ctx, centerID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		center.Name = name
	}
	if code := strings.TrimSpace(req.Code); code != "" {
		center.Code = code
	}
	center.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateCenter(ctx, center); err != nil {
		return nil, err
	}

	resp := toCenterResponse(center)
	return &resp, nil
}

func (s *Service) DeleteCenter(ctx context.Context, id string) error {
	centerID, err := parseID(id)
	if err != nil {
		return err
	}
	return s.repo.DeactivateCenter(ctx, centerID)
}

func (s *Service) ListCenters(ctx context.Context) ([]domain.CenterResponse, error) {
	centers, err := s.repo.ActiveCenters(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CenterResponse, 0, len(centers))
	for i := range centers {
		out = append(out, toCenterResponse(&centers[i]))
	}
	return out, nil
}

func (s *Service) CreateAllocation(ctx context.Context, req domain.AllocationRequest) (*domain.AllocationResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	centerID, err := parseID(req.CenterID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	allocation := domain.CostAllocation{
		ID:         s.genID.Generate(),
		CenterID:   centerID,
		SourceType: strings.TrimSpace(req.SourceType),
		SourceID:   strings.TrimSpace(req.SourceID),
		Amount:     req.Amount,
		Date:       posdomain.ParseDate(req.Date, now),
		CreatedAt:  now,
	}
	if allocation.SourceType == "" {
		allocation.SourceType = "manual"
	}

	if err := s.repo.CreateAllocation(ctx, &allocation); err != nil {
		s.log.Error("failed to create allocation", zap.Error(err))
		return nil, err
	}

	resp := toAllocationResponse(&allocation)
	return &resp, nil
}

func (s *Service) DeleteAllocation(ctx context.Context, id string) error {
	allocID, err := parseID(id)
	if err != nil {
		return err
	}
	return s.repo.DeleteAllocation(ctx, allocID)
}

func (s *Service) ListAllocations(ctx context.Context) ([]domain.AllocationResponse, error) {
	allocations, err := s.repo.Allocations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AllocationResponse, 0, len(allocations))
	for i := range allocations {
		out = append(out, toAllocationResponse(&allocations[i]))
	}
	return out, nil
}

func (s *Service) CenterTotals(ctx context.Context) ([]domain.CenterTotal, error) {
	sums, err := s.repo.TotalsByCenter(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CenterTotal, 0, len(sums))
	for _, sum := range sums {
		out = append(out, domain.CenterTotal{
			ID:    sum.ID.String(),
			Code:  sum.Code,
			Name:  sum.Name,
			Total: sum.Total,
		})
	}
	return out, nil
}

func (s *Service) CreatePlan(ctx context.Context, req domain.PlanRequest) (*domain.PlanResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}

	plan := domain.CostPlan{
		ID:            s.genID.Generate(),
		Name:          name,
		StartDate:     start,
		EndDate:       end,
		RevenueTarget: req.RevenueTarget,
		CostTarget:    req.CostTarget,
		ProfitTarget:  req.ProfitTarget,
		CreatedAt:     s.clock.Now(),
	}
	if err := s.repo.CreatePlan(ctx, &plan); err != nil {
		s.log.Error("failed to create plan", zap.Error(err))
		return nil, err
	}

	resp := toPlanResponse(&plan)
	return &resp, nil
}

func (s *Service) UpdatePlan(ctx context.Context, id string, req domain.PlanRequest) (*domain.PlanResponse, error) {
	planID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	plan, err := s.repo.FindPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		plan.Name = name
	}
	if req.StartDate != "" {
		start, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			return nil, domain.ErrInvalidDate
		}
		plan.StartDate = start
	}
	if req.EndDate != "" {
		end, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return nil, domain.ErrInvalidDate
		}
		plan.EndDate = end
	}
	if req.RevenueTarget.IsPositive() {
		plan.RevenueTarget = req.RevenueTarget
	}
	if req.CostTarget.IsPositive() {
		plan.CostTarget = req.CostTarget
	}
	if req.ProfitTarget.IsPositive() {
		plan.ProfitTarget = req.ProfitTarget
	}

	if err := s.repo.UpdatePlan(ctx, plan); err != nil {
		return nil, err
	}

	resp := toPlanResponse(plan)
	return &resp, nil
}

func (s *Service) DeletePlan(ctx context.Context, id string) error {
	planID, err := parseID(id)
	if err != nil {
		return err
	}
	return s.repo.DeletePlan(ctx, planID)
}

func (s *Service) ListPlans(ctx context.Context) ([]domain.PlanResponse, error) {
	plans, err := s.repo.Plans(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, toPlanResponse(&plans[i]))
	}
	return out, nil
}

func (s *Service) PlanActuals(ctx context.Context, id string) (*domain.PlanActuals, error) {
	planID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	plan, err := s.repo.FindPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	// Both bounds inclusive. The stored end date carries midnight time,
	// so the exclusive upper bound is the following midnight.
	from := plan.StartDate
	to := plan.EndDate.Add(24 * time.Hour)

	revenue, err := s.pos.SalesTotalInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	cost, err := s.pos.ExpensesTotalInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	profit := revenue.Sub(cost)

	return &domain.PlanActuals{
		Plan:            toPlanResponse(plan),
		ActualRevenue:   revenue,
		ActualCost:      cost,
		ActualProfit:    profit,
		RevenueVariance: revenue.Sub(plan.RevenueTarget),
		CostVariance:    cost.Sub(plan.CostTarget),
		ProfitVariance:  profit.Sub(plan.ProfitTarget),
	}, nil
}

// defaultCode derives a short human code from the trailing digits of the
// generated id, matching how center codes were assigned historically.
func defaultCode(id snowflake.ID) string {
	str := id.String()
	if len(str) <= 4 {
		return str
	}
	return str[len(str)-4:]
}

func parseID(id string) (snowflake.ID, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return parsed, nil
}

func toCenterResponse(center *domain.CostCenter) domain.CenterResponse {
	return domain.CenterResponse{
		ID:   center.ID.String(),
		Code: center.Code,
		Name: center.Name,
	}
}

func toAllocationResponse(allocation *domain.CostAllocation) domain.AllocationResponse {
	return domain.AllocationResponse{
		ID:         allocation.ID.String(),
		CenterID:   allocation.CenterID.String(),
		SourceType: allocation.SourceType,
		SourceID:   allocation.SourceID,
		Amount:     allocation.Amount,
		Date:       allocation.Date.Format(dateLayout),
	}
}

func toPlanResponse(plan *domain.CostPlan) domain.PlanResponse {
	return domain.PlanResponse{
		ID:            plan.ID.String(),
		Name:          plan.Name,
		StartDate:     plan.StartDate.Format(dateLayout),
		EndDate:       plan.EndDate.Format(dateLayout),
		RevenueTarget: plan.RevenueTarget,
		CostTarget:    plan.CostTarget,
		ProfitTarget:  plan.ProfitTarget,
	}
}
