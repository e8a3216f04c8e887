package ports

import (
	"context"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/timeline"
)

// TimelineRepository is the append-only store of order audit events.
type TimelineRepository interface {
	Append(ctx context.Context, event *timeline.Event) error

	// ListByOrder returns the events of an order in the order they were appended.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*timeline.Event, error)
}
