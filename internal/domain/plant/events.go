package plant

import (
	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypePlace   = "ProductionPlace"
	AggregateTypeLabeler = "Labeler"
)

// Event type constants
const (
	EventTypePlaceCreated   = "ProductionPlaceCreated"
	EventTypeLabelerCreated = "LabelerCreated"
)

// PlantRecordEvent is published when a place or labeler is registered
type PlantRecordEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewPlantRecordEvent creates a new PlantRecordEvent
func NewPlantRecordEvent(eventType, aggType string, id uuid.UUID, code string) *PlantRecordEvent {
	return &PlantRecordEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, aggType, id),
		Code:            code,
	}
}
