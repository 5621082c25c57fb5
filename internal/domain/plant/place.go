package plant

import (
	"strings"

	"github.com/prodtrack/backend/internal/domain/shared"
)

// ProductionPlace is a line, room or station where production orders run
type ProductionPlace struct {
	shared.BaseAggregateRoot
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex:idx_production_place_code"`
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductionPlace) TableName() string {
	return "production_places"
}

// NewProductionPlace creates a new active production place
func NewProductionPlace(code, name string) (*ProductionPlace, error) {
	if err := validateCode("Place", code); err != nil {
		return nil, err
	}
	if err := validateName("Place", name, 100); err != nil {
		return nil, err
	}

	p := &ProductionPlace{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
		Active:            true,
	}
	p.AddDomainEvent(NewPlantRecordEvent(EventTypePlaceCreated, AggregateTypePlace, p.ID, p.Code))
	return p, nil
}

// Update updates name and description
func (p *ProductionPlace) Update(name, description string) error {
	if err := validateName("Place", name, 100); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Activate enables the place for new orders
func (p *ProductionPlace) Activate() error {
	if p.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Production place is already active")
	}
	p.Active = true
	p.touch()
	return nil
}

// Deactivate disables the place for new orders
func (p *ProductionPlace) Deactivate() error {
	if !p.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Production place is already inactive")
	}
	p.Active = false
	p.touch()
	return nil
}

// RequireActive returns an error when the place cannot take new orders
func (p *ProductionPlace) RequireActive() error {
	if !p.Active {
		return shared.NewDomainError("PLACE_INACTIVE", "Production place "+p.Code+" is inactive")
	}
	return nil
}

func (p *ProductionPlace) touch() {
	p.Touch()
	p.IncrementVersion()
}

func validateCode(entity, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", entity+" code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", entity+" code cannot exceed 50 characters")
	}
	if strings.ContainsAny(code, " \t\n") {
		return shared.NewDomainError("INVALID_CODE", entity+" code cannot contain whitespace")
	}
	return nil
}

func validateName(entity, name string, max int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", entity+" name cannot be empty")
	}
	if len(name) > max {
		return shared.NewDomainError("INVALID_NAME", entity+" name is too long")
	}
	return nil
}
