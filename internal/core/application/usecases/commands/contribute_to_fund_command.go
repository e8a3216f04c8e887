package commands

import (
	"errors"
	"strings"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrContributeToFundCommandIsNotConstructed = errors.New(
	"ContributeToFundCommand must be created via NewContributeToFundCommand constructor",
)

// ContributeToFundCommand adds money to a tenant's insurance fund.
type ContributeToFundCommand struct { //nolint:recvcheck //using for validation
	tenantID    kernel.UUID
	amount      kernel.Money
	description string
	orderID     *kernel.UUID

	guard guard.ConstructorGuard
}

func NewContributeToFundCommand(tenantID kernel.UUID, amount kernel.Money, description string, orderID *kernel.UUID) (ContributeToFundCommand, error) {
	var problems []error
	if err := tenantID.Validate(); err != nil {
		problems = append(problems, errs.NewValidationErrorWithCause("tenant_id", "is required", err))
	}
	if amount.IsZero() {
		problems = append(problems, errs.NewValidationError("amount", "must be greater than 0"))
	}
	if strings.TrimSpace(description) == "" {
		problems = append(problems, errs.NewValidationError("description", "is required"))
	}
	if orderID != nil {
		if err := orderID.Validate(); err != nil {
			problems = append(problems, errs.NewValidationErrorWithCause("order_id", "is invalid", err))
		}
	}
	if err := errors.Join(problems...); err != nil {
		return ContributeToFundCommand{}, err
	}

	return ContributeToFundCommand{
		tenantID:    tenantID,
		amount:      amount,
		description: description,
		orderID:     orderID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c ContributeToFundCommand) Validate() error {
	return c.guard.Validate(ErrContributeToFundCommandIsNotConstructed)
}

func (c ContributeToFundCommand) TenantID() kernel.UUID { return c.tenantID }
func (c ContributeToFundCommand) Amount() kernel.Money  { return c.amount }
func (c ContributeToFundCommand) Description() string   { return c.description }
func (c ContributeToFundCommand) OrderID() *kernel.UUID { return c.orderID }
