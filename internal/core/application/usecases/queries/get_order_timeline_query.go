package queries

import (
	"errors"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/timeline"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrGetOrderTimelineQueryIsNotConstructed = errors.New(
	"GetOrderTimelineQuery must be created via NewGetOrderTimelineQuery constructor",
)

// GetOrderTimelineQuery returns the audit trail of an order in append order.
type GetOrderTimelineQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderTimelineQuery(orderID kernel.UUID) (GetOrderTimelineQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderTimelineQuery{}, errs.NewValidationErrorWithCause("order_id", "is required", err)
	}
	return GetOrderTimelineQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderTimelineQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTimelineQueryIsNotConstructed)
}

func (q GetOrderTimelineQuery) OrderID() kernel.UUID { return q.orderID }

type GetOrderTimelineQueryResponse struct {
	OrderID kernel.UUID
	Events  []*timeline.Event
}
