package commands

import (
	"errors"
	"strings"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrWithdrawFromFundCommandIsNotConstructed = errors.New(
	"WithdrawFromFundCommand must be created via NewWithdrawFromFundCommand constructor",
)

// WithdrawFromFundCommand debits a tenant's insurance fund for a refund
// request without touching any order. Refunds of orders go through
// RequestRefundCommand instead.
type WithdrawFromFundCommand struct { //nolint:recvcheck //using for validation
	tenantID        kernel.UUID
	amount          kernel.Money
	description     string
	refundRequestID kernel.UUID

	guard guard.ConstructorGuard
}

func NewWithdrawFromFundCommand(tenantID kernel.UUID, amount kernel.Money, description string, refundRequestID kernel.UUID) (WithdrawFromFundCommand, error) {
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
	if err := refundRequestID.Validate(); err != nil {
		problems = append(problems, errs.NewValidationErrorWithCause("refund_request_id", "is required", err))
	}
	if err := errors.Join(problems...); err != nil {
		return WithdrawFromFundCommand{}, err
	}

	return WithdrawFromFundCommand{
		tenantID:        tenantID,
		amount:          amount,
		description:     description,
		refundRequestID: refundRequestID,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c WithdrawFromFundCommand) Validate() error {
	return c.guard.Validate(ErrWithdrawFromFundCommandIsNotConstructed)
}

func (c WithdrawFromFundCommand) TenantID() kernel.UUID        { return c.tenantID }
func (c WithdrawFromFundCommand) Amount() kernel.Money         { return c.amount }
func (c WithdrawFromFundCommand) Description() string          { return c.description }
func (c WithdrawFromFundCommand) RefundRequestID() kernel.UUID { return c.refundRequestID }
