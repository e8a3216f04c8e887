package commands

import (
	"errors"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrSetPaymentStatusCommandIsNotConstructed = errors.New(
	"SetPaymentStatusCommand must be created via NewSetPaymentStatusCommand constructor",
)

// SetPaymentStatusCommand records a payment gateway callback.
type SetPaymentStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	status  order.PaymentStatus
	notes   string
	actor   string

	guard guard.ConstructorGuard
}

func NewSetPaymentStatusCommand(orderID kernel.UUID, status, notes, actor string) (SetPaymentStatusCommand, error) {
	cmd := SetPaymentStatusCommand{
		notes: notes,
		actor: actor,
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return SetPaymentStatusCommand{}, errs.NewValidationErrorWithCause("order_id", "is required", err)
	}
	cmd.orderID = orderID

	parsed, err := order.ParsePaymentStatus(status)
	if err != nil {
		return SetPaymentStatusCommand{}, err
	}
	cmd.status = parsed

	return cmd, nil
}

func (c SetPaymentStatusCommand) Validate() error {
	return c.guard.Validate(ErrSetPaymentStatusCommandIsNotConstructed)
}

func (c SetPaymentStatusCommand) OrderID() kernel.UUID        { return c.orderID }
func (c SetPaymentStatusCommand) Status() order.PaymentStatus { return c.status }
func (c SetPaymentStatusCommand) Notes() string               { return c.notes }
func (c SetPaymentStatusCommand) Actor() string               { return c.actor }
