package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/shared"
)

// MaterialType classifies a material by the stage of the plant it belongs to
type MaterialType string

const (
	MaterialTypeRaw       MaterialType = "MATERIA_PRIMA"
	MaterialTypeFinished  MaterialType = "PRODUCTO_TERMINADO"
	MaterialTypeByproduct MaterialType = "SUBPRODUCTO"
	MaterialTypePackaging MaterialType = "EMPAQUE"
)

// IsValid checks if the material type is known
func (t MaterialType) IsValid() bool {
	switch t {
	case MaterialTypeRaw, MaterialTypeFinished, MaterialTypeByproduct, MaterialTypePackaging:
		return true
	}
	return false
}

// String returns the string representation
func (t MaterialType) String() string {
	return string(t)
}

// MaterialStatus represents the status of a material
type MaterialStatus string

const (
	MaterialStatusActive   MaterialStatus = "ACTIVO"
	MaterialStatusInactive MaterialStatus = "INACTIVO"
)

// Material is an item of the plant catalog: a raw material, a finished
// product, a byproduct or a packaging supply.
type Material struct {
	shared.BaseAggregateRoot
	Code      string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_material_code"`
	Name      string         `gorm:"type:varchar(200);not null"`
	Unit      string         `gorm:"type:varchar(20);not null"`
	Type      MaterialType   `gorm:"type:varchar(30);not null;index"`
	Recipe    string         `gorm:"type:text"`
	Status    MaterialStatus `gorm:"type:varchar(20);not null;default:'ACTIVO'"`
	SearchKey string         `gorm:"type:varchar(300);index"`
}

// TableName returns the table name for GORM
func (Material) TableName() string {
	return "materials"
}

// NewMaterial creates a new active material
func NewMaterial(code, name, unit string, materialType MaterialType) (*Material, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}
	if !materialType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Invalid material type: "+string(materialType))
	}

	m := &Material{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
		Unit:              strings.ToUpper(strings.TrimSpace(unit)),
		Type:              materialType,
		Status:            MaterialStatusActive,
	}
	m.refreshSearchKey()

	m.AddDomainEvent(NewMaterialCreatedEvent(m))

	return m, nil
}

// Update changes the descriptive fields. The code is immutable.
func (m *Material) Update(name, unit string, materialType MaterialType, recipe string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateUnit(unit); err != nil {
		return err
	}
	if !materialType.IsValid() {
		return shared.NewDomainError("INVALID_TYPE", "Invalid material type: "+string(materialType))
	}

	m.Name = strings.TrimSpace(name)
	m.Unit = strings.ToUpper(strings.TrimSpace(unit))
	m.Type = materialType
	m.Recipe = recipe
	m.refreshSearchKey()
	m.Touch()
	m.IncrementVersion()

	m.AddDomainEvent(NewMaterialUpdatedEvent(m))

	return nil
}

// Activate makes the material usable again
func (m *Material) Activate() error {
	if m.Status == MaterialStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Material is already active")
	}
	return m.changeStatus(MaterialStatusActive)
}

// Deactivate hides the material from new orders, transfers and plans
func (m *Material) Deactivate() error {
	if m.Status == MaterialStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Material is already inactive")
	}
	return m.changeStatus(MaterialStatusInactive)
}

func (m *Material) changeStatus(status MaterialStatus) error {
	old := m.Status
	m.Status = status
	m.Touch()
	m.IncrementVersion()

	m.AddDomainEvent(NewMaterialStatusChangedEvent(m, old, status))
	return nil
}

// IsActive returns true if the material can be used on new records
func (m *Material) IsActive() bool {
	return m.Status == MaterialStatusActive
}

// RequireType returns an error unless the material is active and of the given type
func (m *Material) RequireType(want MaterialType) error {
	if !m.IsActive() {
		return shared.NewDomainError("MATERIAL_INACTIVE", "Material "+m.Code+" is inactive")
	}
	if m.Type != want {
		return shared.NewDomainError("INVALID_MATERIAL_TYPE",
			"Material "+m.Code+" is "+string(m.Type)+", expected "+string(want))
	}
	return nil
}

func (m *Material) refreshSearchKey() {
	m.SearchKey = shared.SearchKey(m.Code, m.Name)
}

// MaterialRef is the denormalized copy of a material kept on line items and transfers
type MaterialRef struct {
	MaterialID   uuid.UUID `gorm:"type:uuid;not null;index"`
	MaterialCode string    `gorm:"type:varchar(50);not null"`
	MaterialName string    `gorm:"type:varchar(200);not null"`
	Unit         string    `gorm:"type:varchar(20);not null"`
}

// Ref returns the denormalized reference to this material
func (m *Material) Ref() MaterialRef {
	return MaterialRef{
		MaterialID:   m.ID,
		MaterialCode: m.Code,
		MaterialName: m.Name,
		Unit:         m.Unit,
	}
}

func validateCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Material code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Material code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.') {
			return shared.NewDomainError("INVALID_CODE", "Material code can only contain letters, numbers, dots, underscores, and hyphens")
		}
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Material name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Material name cannot exceed 200 characters")
	}
	return nil
}

func validateUnit(unit string) error {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	return nil
}
