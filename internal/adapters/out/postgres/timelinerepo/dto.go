// Package timelinerepo persists order audit events in timeline_events.
package timelinerepo

import (
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/timeline"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EventDTO is a timeline_events row. Seq is assigned by the database and
// gives the append order.
type EventDTO struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Seq       int64             `gorm:"type:bigserial;not null;<-:false"`
	OrderID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	Action    string            `gorm:"type:varchar(32);not null"`
	Status    string            `gorm:"type:varchar(32);not null"`
	Actor     string            `gorm:"type:varchar(128);not null"`
	Notes     string            `gorm:"type:text"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"not null;autoCreateTime:false"`
}

func (EventDTO) TableName() string {
	return "timeline_events"
}

func fromDomain(e *timeline.Event) EventDTO {
	var meta datatypes.JSONMap
	if m := e.Metadata(); len(m) > 0 {
		meta = make(datatypes.JSONMap, len(m))
		for k, v := range m {
			meta[k] = v
		}
	}

	return EventDTO{
		ID:        e.ID().Bytes(),
		OrderID:   e.OrderID().Bytes(),
		Action:    string(e.Action()),
		Status:    e.Status(),
		Actor:     e.Actor(),
		Notes:     e.Notes(),
		Metadata:  meta,
		CreatedAt: e.CreatedAt(),
	}
}

// ToDomain rehydrates a timeline_events row. Exported for the query side.
func ToDomain(dto EventDTO) (*timeline.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var meta map[string]string
	if len(dto.Metadata) > 0 {
		meta = make(map[string]string, len(dto.Metadata))
		for k, v := range dto.Metadata {
			if s, ok := v.(string); ok {
				meta[k] = s
			}
		}
	}

	return timeline.RestoreEvent(id, orderID, timeline.Action(dto.Action), dto.Status, dto.Actor, dto.Notes, meta, dto.CreatedAt)
}
