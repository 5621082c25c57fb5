package plant

import (
	"strings"

	"github.com/prodtrack/backend/internal/domain/shared"
)

// Labeler is an employee identity used to attribute who requested,
// received, forwarded or finalized a transfer, and who labeled an order.
type Labeler struct {
	shared.BaseAggregateRoot
	Code   string `gorm:"type:varchar(50);not null;uniqueIndex:idx_labeler_code"`
	Name   string `gorm:"type:varchar(150);not null"`
	Role   string `gorm:"type:varchar(50)"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Labeler) TableName() string {
	return "labelers"
}

// NewLabeler creates a new active labeler
func NewLabeler(code, name, role string) (*Labeler, error) {
	if err := validateCode("Labeler", code); err != nil {
		return nil, err
	}
	if err := validateName("Labeler", name, 150); err != nil {
		return nil, err
	}

	l := &Labeler{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
		Role:              strings.ToUpper(strings.TrimSpace(role)),
		Active:            true,
	}
	l.AddDomainEvent(NewPlantRecordEvent(EventTypeLabelerCreated, AggregateTypeLabeler, l.ID, l.Code))
	return l, nil
}

// Update updates name and role
func (l *Labeler) Update(name, role string) error {
	if err := validateName("Labeler", name, 150); err != nil {
		return err
	}
	l.Name = strings.TrimSpace(name)
	l.Role = strings.ToUpper(strings.TrimSpace(role))
	l.Touch()
	l.IncrementVersion()
	return nil
}

// Activate enables the labeler
func (l *Labeler) Activate() error {
	if l.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Labeler is already active")
	}
	l.Active = true
	l.Touch()
	l.IncrementVersion()
	return nil
}

// Deactivate disables the labeler for new actions
func (l *Labeler) Deactivate() error {
	if !l.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Labeler is already inactive")
	}
	l.Active = false
	l.Touch()
	l.IncrementVersion()
	return nil
}

// RequireActive returns an error when the labeler cannot be named on new actions
func (l *Labeler) RequireActive() error {
	if !l.Active {
		return shared.NewDomainError("LABELER_INACTIVE", "Labeler "+l.Code+" is inactive")
	}
	return nil
}
