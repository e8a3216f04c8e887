package commands

import (
	"errors"

	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrCheckOrderSLACommandIsNotConstructed = errors.New(
	"CheckOrderSLACommand must be created via NewCheckOrderSLACommand constructor",
)

// CheckOrderSLACommand examines up to limit orders per monitored status.
type CheckOrderSLACommand struct {
	limit int

	guard guard.ConstructorGuard
}

func NewCheckOrderSLACommand(limit int) (CheckOrderSLACommand, error) {
	if limit <= 0 {
		return CheckOrderSLACommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "∞")
	}
	return CheckOrderSLACommand{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c CheckOrderSLACommand) Validate() error {
	return c.guard.Validate(ErrCheckOrderSLACommandIsNotConstructed)
}

func (c CheckOrderSLACommand) Limit() int { return c.limit }
