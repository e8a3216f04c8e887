package ports

import (
	"context"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/refund"
)

type RefundSagaRepository interface {
	// Get returns the saga of a refund request or an ObjectNotFoundError.
	Get(ctx context.Context, refundRequestID kernel.UUID) (*refund.Saga, error)

	// Save inserts or overwrites the saga.
	Save(ctx context.Context, saga *refund.Saga) error

	// ListStale returns up to limit sagas in one of states that were last
	// updated before the given time, oldest first.
	ListStale(ctx context.Context, states []refund.State, before time.Time, limit int) ([]*refund.Saga, error)
}
