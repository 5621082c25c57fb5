package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is a record with an identity whose modifications are stamped
type Entity interface {
	GetID() uuid.UUID
	Touch()
}

// BaseEntity holds the identity and audit timestamps shared by every record.
// Timestamps are kept in UTC, the same clock the database layer uses.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}

// NewBaseEntity creates a base entity with a fresh ID, created and updated now
func NewBaseEntity() BaseEntity {
	now := Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// Touch marks the entity as modified now
func (e *BaseEntity) Touch() {
	e.UpdatedAt = Now()
}
