package catalog

import (
	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeMaterial = "Material"

// Event type constants
const (
	EventTypeMaterialCreated       = "MaterialCreated"
	EventTypeMaterialUpdated       = "MaterialUpdated"
	EventTypeMaterialStatusChanged = "MaterialStatusChanged"
)

// MaterialCreatedEvent is published when a new material is created
type MaterialCreatedEvent struct {
	shared.BaseDomainEvent
	MaterialID uuid.UUID    `json:"material_id"`
	Code       string       `json:"code"`
	Name       string       `json:"name"`
	Type       MaterialType `json:"type"`
}

// NewMaterialCreatedEvent creates a new MaterialCreatedEvent
func NewMaterialCreatedEvent(m *Material) *MaterialCreatedEvent {
	return &MaterialCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMaterialCreated, AggregateTypeMaterial, m.ID),
		MaterialID:      m.ID,
		Code:            m.Code,
		Name:            m.Name,
		Type:            m.Type,
	}
}

// MaterialUpdatedEvent is published when a material is updated
type MaterialUpdatedEvent struct {
	shared.BaseDomainEvent
	MaterialID uuid.UUID    `json:"material_id"`
	Code       string       `json:"code"`
	Name       string       `json:"name"`
	Type       MaterialType `json:"type"`
}

// NewMaterialUpdatedEvent creates a new MaterialUpdatedEvent
func NewMaterialUpdatedEvent(m *Material) *MaterialUpdatedEvent {
	return &MaterialUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMaterialUpdated, AggregateTypeMaterial, m.ID),
		MaterialID:      m.ID,
		Code:            m.Code,
		Name:            m.Name,
		Type:            m.Type,
	}
}

// MaterialStatusChangedEvent is published when a material is activated or deactivated
type MaterialStatusChangedEvent struct {
	shared.BaseDomainEvent
	MaterialID uuid.UUID      `json:"material_id"`
	Code       string         `json:"code"`
	OldStatus  MaterialStatus `json:"old_status"`
	NewStatus  MaterialStatus `json:"new_status"`
}

// NewMaterialStatusChangedEvent creates a new MaterialStatusChangedEvent
func NewMaterialStatusChangedEvent(m *Material, oldStatus, newStatus MaterialStatus) *MaterialStatusChangedEvent {
	return &MaterialStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMaterialStatusChanged, AggregateTypeMaterial, m.ID),
		MaterialID:      m.ID,
		Code:            m.Code,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
