package commands

import (
	"errors"
	"strings"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand asks the state machine to move an order to a new
// status. The action is the wire name of the target status. A cancellation
// without an explicit reason takes its reason from the notes.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	notes   string
	actor   string
	input   order.TransitionInput

	guard guard.ConstructorGuard
}

func NewTransitionOrderCommand(
	orderID kernel.UUID,
	action, notes, actor string,
	input order.TransitionInput,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		notes: notes,
		actor: actor,
		input: input,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(action),
	); err != nil {
		return TransitionOrderCommand{}, err
	}
	if cmd.target == order.Cancelled && strings.TrimSpace(cmd.input.Reason) == "" {
		cmd.input.Reason = notes
	}

	return cmd, nil
}

func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c TransitionOrderCommand) Target() order.Status { return c.target }
func (c TransitionOrderCommand) Notes() string        { return c.notes }
func (c TransitionOrderCommand) Actor() string        { return c.actor }

func (c TransitionOrderCommand) Input() order.TransitionInput { return c.input }

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValidationErrorWithCause("order_id", "is required", err)
	}
	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setTarget(action string) error {
	target, err := order.ParseStatus(action)
	if err != nil {
		return err
	}
	c.target = target
	return nil
}
