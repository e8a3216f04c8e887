package commands

import (
	"errors"
	"fmt"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// LineItemInput is the raw form of a line item as received from a caller.
type LineItemInput struct {
	SKU       string
	Name      string
	Quantity  int
	UnitPrice kernel.Money
}

// CreateOrderCommand places a new order in status New.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(tenantID, "ORD-2024-0001",
//	    []LineItemInput{{SKU: "PLATE-01", Name: "Etched plate", Quantity: 2, UnitPrice: price}},
//	    shipping, "CUST-42", "", "ops@tenant")
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	tenantID     kernel.UUID
	number       string
	items        []order.LineItem
	shippingCost kernel.Money
	customerRef  string
	shippingRef  string
	actor        string

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(
	tenantID kernel.UUID,
	number string,
	items []LineItemInput,
	shippingCost kernel.Money,
	customerRef, shippingRef, actor string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		orderID:      kernel.NewUUID(),
		number:       number,
		shippingCost: shippingCost,
		customerRef:  customerRef,
		shippingRef:  shippingRef,
		actor:        actor,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTenantID(tenantID),
		cmd.setNumber(number),
		cmd.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID       { return c.orderID }
func (c CreateOrderCommand) TenantID() kernel.UUID      { return c.tenantID }
func (c CreateOrderCommand) Number() string             { return c.number }
func (c CreateOrderCommand) Items() []order.LineItem    { return c.items }
func (c CreateOrderCommand) ShippingCost() kernel.Money { return c.shippingCost }
func (c CreateOrderCommand) CustomerRef() string        { return c.customerRef }
func (c CreateOrderCommand) ShippingRef() string        { return c.shippingRef }
func (c CreateOrderCommand) Actor() string              { return c.actor }

func (c *CreateOrderCommand) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return errs.NewValidationErrorWithCause("tenant_id", "is required", err)
	}
	c.tenantID = tenantID
	return nil
}

func (c *CreateOrderCommand) setNumber(number string) error {
	if number == "" {
		return errs.NewValidationError("order_number", "is required")
	}
	c.number = number
	return nil
}

func (c *CreateOrderCommand) setItems(inputs []LineItemInput) error {
	if len(inputs) == 0 {
		return errs.NewValidationError("items", "at least one line item is required")
	}

	items := make([]order.LineItem, 0, len(inputs))
	for i, in := range inputs {
		item, err := order.NewLineItem(in.SKU, in.Name, in.Quantity, in.UnitPrice)
		if err != nil {
			return errs.NewValidationErrorWithCause(fmt.Sprintf("items[%d]", i), "is invalid", err)
		}
		items = append(items, item)
	}

	c.items = items
	return nil
}
