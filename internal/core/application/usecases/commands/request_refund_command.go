package commands

import (
	"errors"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrRequestRefundCommandIsNotConstructed = errors.New(
	"RequestRefundCommand must be created via NewRequestRefundCommand constructor",
)

// RequestRefundCommand executes an approved refund: the fund is debited and
// the order is moved to Refunded, or neither effect survives.
//
// The refund request id is the idempotency key. Repeating a request that
// already refunded the order is a no-op; repeating one that failed or was
// compensated starts a new attempt.
type RequestRefundCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	refundRequestID kernel.UUID
	amount          kernel.Money
	actor           string
	notes           string

	guard guard.ConstructorGuard
}

func NewRequestRefundCommand(orderID, refundRequestID kernel.UUID, amount kernel.Money, actor, notes string) (RequestRefundCommand, error) {
	var problems []error
	if err := orderID.Validate(); err != nil {
		problems = append(problems, errs.NewValidationErrorWithCause("order_id", "is required", err))
	}
	if err := refundRequestID.Validate(); err != nil {
		problems = append(problems, errs.NewValidationErrorWithCause("refund_request_id", "is required", err))
	}
	if amount.IsZero() {
		problems = append(problems, errs.NewValidationError("amount", "must be greater than 0"))
	}
	if err := errors.Join(problems...); err != nil {
		return RequestRefundCommand{}, err
	}

	return RequestRefundCommand{
		orderID:         orderID,
		refundRequestID: refundRequestID,
		amount:          amount,
		actor:           actor,
		notes:           notes,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c RequestRefundCommand) Validate() error {
	return c.guard.Validate(ErrRequestRefundCommandIsNotConstructed)
}

func (c RequestRefundCommand) OrderID() kernel.UUID         { return c.orderID }
func (c RequestRefundCommand) RefundRequestID() kernel.UUID { return c.refundRequestID }
func (c RequestRefundCommand) Amount() kernel.Money         { return c.amount }
func (c RequestRefundCommand) Actor() string                { return c.actor }
func (c RequestRefundCommand) Notes() string                { return c.notes }
