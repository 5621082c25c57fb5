package production

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/catalog"
	"github.com/prodtrack/backend/internal/domain/plant"
	"github.com/prodtrack/backend/internal/domain/production"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/prodtrack/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
)

// PlanService handles production plan operations and the compliance report
type PlanService struct {
	planRepo       production.PlanRepository
	materialRepo   catalog.MaterialRepository
	placeRepo      plant.PlaceRepository
	orderRepo      production.OrderRepository
	eventPublisher shared.EventPublisher
}

// NewPlanService creates a new PlanService
func NewPlanService(
	planRepo production.PlanRepository,
	materialRepo catalog.MaterialRepository,
	placeRepo plant.PlaceRepository,
	orderRepo production.OrderRepository,
	eventPublisher shared.EventPublisher,
) *PlanService {
	return &PlanService{
		planRepo:       planRepo,
		materialRepo:   materialRepo,
		placeRepo:      placeRepo,
		orderRepo:      orderRepo,
		eventPublisher: eventPublisher,
	}
}

// Create schedules a plan for a finished product or byproduct
func (s *PlanService) Create(ctx context.Context, req CreatePlanRequest) (*PlanResponse, error) {
	date, err := shared.ParseDay(req.PlannedDate)
	if err != nil {
		return nil, err
	}
	material, err := s.materialRepo.FindByID(ctx, req.MaterialID)
	if err != nil {
		return nil, referenceError(err, "INVALID_MATERIAL", "Material not found")
	}
	if err := s.checkPlace(ctx, req.PlaceID); err != nil {
		return nil, err
	}

	plan, err := production.NewProductionPlan(material, req.PlaceID, date, req.PlannedQuantity, req.Notes)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, plan)
}

// GetByID retrieves a plan
func (s *PlanService) GetByID(ctx context.Context, id uuid.UUID) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPlanResponse(plan)
	return &response, nil
}

// List retrieves plans with filtering and pagination
func (s *PlanService) List(ctx context.Context, filter PlanListFilter) ([]PlanResponse, int64, error) {
	domainFilter, err := filter.ToDomainFilter()
	if err != nil {
		return nil, 0, err
	}
	plans, err := s.planRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.planRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = ToPlanResponse(&plans[i])
	}
	return responses, total, nil
}

// Update reschedules a plan that is still PROGRAMADO
func (s *PlanService) Update(ctx context.Context, id uuid.UUID, req UpdatePlanRequest) (*PlanResponse, error) {
	date, err := shared.ParseDay(req.PlannedDate)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkPlace(ctx, req.PlaceID); err != nil {
		return nil, err
	}
	if err := plan.Update(req.PlaceID, date, req.PlannedQuantity, req.Notes); err != nil {
		return nil, err
	}
	return s.save(ctx, plan)
}

// Complete marks a plan as CUMPLIDO
func (s *PlanService) Complete(ctx context.Context, id uuid.UUID) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := plan.Complete(); err != nil {
		return nil, err
	}
	return s.save(ctx, plan)
}

// Cancel marks a plan as CANCELADO
func (s *PlanService) Cancel(ctx context.Context, id uuid.UUID) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := plan.Cancel(); err != nil {
		return nil, err
	}
	return s.save(ctx, plan)
}

// Delete removes a plan
func (s *PlanService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.planRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.planRepo.Delete(ctx, id)
}

// Compliance compares every matching plan against finalized production.
// Cancelled plans are left out unless the filter asks for them.
func (s *PlanService) Compliance(ctx context.Context, filter PlanListFilter) (*ComplianceReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "production_plan", "compliance")
	defer span.End()

	domainFilter, err := filter.ToDomainFilter()
	if err != nil {
		return nil, err
	}
	domainFilter.Page = 1
	domainFilter.PageSize = 0

	plans, err := s.planRepo.FindAll(ctx, domainFilter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if filter.Status == "" {
		plans = withoutCancelled(plans)
	}

	dates, err := shared.ParseDateRange(filter.DateFrom, filter.DateTo)
	if err != nil {
		return nil, err
	}
	dates = coverPlans(dates, plans)

	var totals []production.ProducedTotal
	if len(plans) > 0 {
		totals, err = s.orderRepo.ProducedTotals(ctx, dates)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	report := BuildComplianceReport(plans, totals)
	if dates.From != nil {
		report.DateFrom = dates.From.Format(shared.DayLayout)
	}
	if dates.To != nil {
		report.DateTo = dates.To.Format(shared.DayLayout)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrRows, len(report.Rows))
	return report, nil
}

// BuildComplianceReport matches plans to produced totals
func BuildComplianceReport(plans []production.ProductionPlan, totals []production.ProducedTotal) *ComplianceReport {
	report := &ComplianceReport{
		Rows:          make([]ComplianceRow, 0, len(plans)),
		TotalPlanned:  decimal.Zero,
		TotalProduced: decimal.Zero,
	}
	for i := range plans {
		plan := &plans[i]
		produced := production.ProducedFor(plan, totals)
		pending := plan.PlannedQuantity.Sub(produced)
		if pending.IsNegative() {
			pending = decimal.Zero
		}
		report.Rows = append(report.Rows, ComplianceRow{
			PlanResponse:     ToPlanResponse(plan),
			ProducedQuantity: produced,
			PendingQuantity:  pending,
			ProgressPercent:  production.ProgressPercent(plan.PlannedQuantity, produced),
		})
		report.TotalPlanned = report.TotalPlanned.Add(plan.PlannedQuantity)
		report.TotalProduced = report.TotalProduced.Add(produced)
	}
	report.ProgressPercent = production.ProgressPercent(report.TotalPlanned, report.TotalProduced)
	return report
}

func (s *PlanService) checkPlace(ctx context.Context, placeID *uuid.UUID) error {
	if placeID == nil {
		return nil
	}
	if _, err := s.placeRepo.FindByID(ctx, *placeID); err != nil {
		return referenceError(err, "INVALID_PLACE", "Production place not found")
	}
	return nil
}

func (s *PlanService) save(ctx context.Context, plan *production.ProductionPlan) (*PlanResponse, error) {
	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	events := plan.GetDomainEvents()
	plan.ClearDomainEvents()
	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	response := ToPlanResponse(plan)
	return &response, nil
}

func withoutCancelled(plans []production.ProductionPlan) []production.ProductionPlan {
	kept := plans[:0]
	for _, p := range plans {
		if p.Status != production.PlanStatusCancelled {
			kept = append(kept, p)
		}
	}
	return kept
}

// coverPlans fills open bounds with the earliest and latest planned days
func coverPlans(dates shared.DateRange, plans []production.ProductionPlan) shared.DateRange {
	if len(plans) == 0 || (dates.From != nil && dates.To != nil) {
		return dates
	}
	var lo, hi time.Time
	for i, p := range plans {
		if i == 0 || p.PlannedDate.Before(lo) {
			lo = p.PlannedDate
		}
		if i == 0 || p.PlannedDate.After(hi) {
			hi = p.PlannedDate
		}
	}
	if dates.From == nil {
		dates.From = &lo
	}
	if dates.To == nil {
		dates.To = &hi
	}
	return dates
}
