package commands

import (
	"errors"

	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrAccrueOrderContributionsCommandIsNotConstructed = errors.New(
	"AccrueOrderContributionsCommand must be created via NewAccrueOrderContributionsCommand constructor",
)

// AccrueOrderContributionsCommand books the insurance fund contribution of up
// to limit completed orders that have none yet.
type AccrueOrderContributionsCommand struct {
	limit int

	guard guard.ConstructorGuard
}

func NewAccrueOrderContributionsCommand(limit int) (AccrueOrderContributionsCommand, error) {
	if limit <= 0 {
		return AccrueOrderContributionsCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "∞")
	}
	return AccrueOrderContributionsCommand{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c AccrueOrderContributionsCommand) Validate() error {
	return c.guard.Validate(ErrAccrueOrderContributionsCommandIsNotConstructed)
}

func (c AccrueOrderContributionsCommand) Limit() int { return c.limit }
