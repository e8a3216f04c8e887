// Package ports defines the persistence contracts the application layer
// depends on. Adapters under internal/adapters/out implement them.
package ports

import (
	"context"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order. A duplicate order number within the tenant is
	// reported as a ConflictError.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists a changed order if nobody else saved it since it was
	// loaded (compared on PersistedVersion). A lost race is a ConflictError.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns the order or an ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListCompletedWithoutContribution returns up to limit Completed orders
	// that have no insurance fund contribution linked to them yet, oldest first.
	ListCompletedWithoutContribution(ctx context.Context, limit int) ([]*order.Order, error)

	// ListSLADue returns up to limit orders that entered status at or before
	// enteredBefore and still have the breach or one of the given number of
	// escalations to report, longest waiting first.
	ListSLADue(ctx context.Context, status order.Status, enteredBefore time.Time, escalations, limit int) ([]*order.Order, error)
}
