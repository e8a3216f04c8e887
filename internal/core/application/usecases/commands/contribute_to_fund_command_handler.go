package commands

import (
	"context"

	"orderledger/internal/core/domain/model/fund"
)

type ContributeToFundCommandHandler struct {
	ledger *Ledger
}

func NewContributeToFundCommandHandler(ledger *Ledger) ContributeToFundCommandHandler {
	return ContributeToFundCommandHandler{ledger: ledger}
}

func (h ContributeToFundCommandHandler) Handle(ctx context.Context, cmd ContributeToFundCommand) (*fund.Transaction, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return h.ledger.Contribute(ctx, cmd.TenantID(), cmd.Amount(), cmd.Description(), cmd.OrderID())
}
