package production

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/catalog"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PlanStatus represents the status of a production plan
type PlanStatus string

const (
	PlanStatusScheduled PlanStatus = "PROGRAMADO"
	PlanStatusCompleted PlanStatus = "CUMPLIDO"
	PlanStatusCancelled PlanStatus = "CANCELADO"
)

// IsValid checks if the status is valid
func (s PlanStatus) IsValid() bool {
	switch s {
	case PlanStatusScheduled, PlanStatusCompleted, PlanStatusCancelled:
		return true
	}
	return false
}

// ProductionPlan is the quantity of a material scheduled for a given day
type ProductionPlan struct {
	shared.BaseAggregateRoot
	catalog.MaterialRef
	PlaceID         *uuid.UUID      `gorm:"type:uuid;index"`
	PlannedDate     time.Time       `gorm:"type:date;not null;index"`
	PlannedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status          PlanStatus      `gorm:"type:varchar(20);not null;default:'PROGRAMADO'"`
	Notes           string          `gorm:"type:varchar(500)"`
	CompletedAt     *time.Time
	CancelledAt     *time.Time
}

// TableName returns the table name for GORM
func (ProductionPlan) TableName() string {
	return "production_plans"
}

// NewProductionPlan schedules a finished product or byproduct
func NewProductionPlan(material *catalog.Material, placeID *uuid.UUID, date time.Time, quantity decimal.Decimal, notes string) (*ProductionPlan, error) {
	if err := validatePlanMaterial(material); err != nil {
		return nil, err
	}
	if err := validatePlanValues(date, quantity); err != nil {
		return nil, err
	}

	p := &ProductionPlan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		MaterialRef:       material.Ref(),
		PlaceID:           placeID,
		PlannedDate:       shared.TruncateDay(date),
		PlannedQuantity:   quantity,
		Status:            PlanStatusScheduled,
		Notes:             notes,
	}
	p.AddDomainEvent(NewProductionPlanEvent(EventTypeProductionPlanCreated, p))
	return p, nil
}

func validatePlanMaterial(material *catalog.Material) error {
	if material == nil {
		return shared.NewDomainError("INVALID_MATERIAL", "Material is required")
	}
	if material.Type != catalog.MaterialTypeFinished && material.Type != catalog.MaterialTypeByproduct {
		return shared.NewDomainError("INVALID_MATERIAL_TYPE", "Only finished products and byproducts can be planned")
	}
	if !material.IsActive() {
		return shared.NewDomainError("MATERIAL_INACTIVE", "Material "+material.Code+" is inactive")
	}
	return nil
}

func validatePlanValues(date time.Time, quantity decimal.Decimal) error {
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Planned date is required")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Planned quantity must be positive")
	}
	return nil
}

// Update changes the schedule while the plan is PROGRAMADO
func (p *ProductionPlan) Update(placeID *uuid.UUID, date time.Time, quantity decimal.Decimal, notes string) error {
	if p.Status != PlanStatusScheduled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Plan in %s status cannot be modified", p.Status))
	}
	if err := validatePlanValues(date, quantity); err != nil {
		return err
	}
	p.PlaceID = placeID
	p.PlannedDate = shared.TruncateDay(date)
	p.PlannedQuantity = quantity
	p.Notes = notes
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Complete marks the plan as fulfilled
func (p *ProductionPlan) Complete() error {
	return p.close(PlanStatusCompleted)
}

// Cancel drops the plan
func (p *ProductionPlan) Cancel() error {
	return p.close(PlanStatusCancelled)
}

func (p *ProductionPlan) close(target PlanStatus) error {
	if p.Status != PlanStatusScheduled {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot transition from %s to %s", p.Status, target))
	}
	now := time.Now()
	p.Status = target
	if target == PlanStatusCompleted {
		p.CompletedAt = &now
	} else {
		p.CancelledAt = &now
	}
	p.UpdatedAt = now
	p.IncrementVersion()
	p.AddDomainEvent(NewProductionPlanEvent(EventTypeProductionPlanClosed, p))
	return nil
}

// ProgressPercent returns produced/planned as a percentage rounded to 2 decimals
func ProgressPercent(planned, produced decimal.Decimal) decimal.Decimal {
	if !planned.IsPositive() {
		return decimal.Zero
	}
	return produced.Div(planned).Mul(decimal.NewFromInt(100)).Round(2)
}

// ProducedTotal is the quantity produced of a material on one day at one place,
// counting produced and byproduct lines of finalized orders.
type ProducedTotal struct {
	MaterialID uuid.UUID
	PlaceID    uuid.UUID
	Date       time.Time
	Quantity   decimal.Decimal
}

// ProducedFor sums the totals that match a plan's material, day and optional place
func ProducedFor(plan *ProductionPlan, totals []ProducedTotal) decimal.Decimal {
	sum := decimal.Zero
	day := shared.TruncateDay(plan.PlannedDate)
	for _, t := range totals {
		if t.MaterialID != plan.MaterialID || !shared.TruncateDay(t.Date).Equal(day) {
			continue
		}
		if plan.PlaceID != nil && *plan.PlaceID != t.PlaceID {
			continue
		}
		sum = sum.Add(t.Quantity)
	}
	return sum
}
