package commands

import (
	"context"

	"orderledger/internal/core/domain/model/fund"
)

type WithdrawFromFundCommandHandler struct {
	ledger *Ledger
}

func NewWithdrawFromFundCommandHandler(ledger *Ledger) WithdrawFromFundCommandHandler {
	return WithdrawFromFundCommandHandler{ledger: ledger}
}

func (h WithdrawFromFundCommandHandler) Handle(ctx context.Context, cmd WithdrawFromFundCommand) (*fund.Transaction, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return h.ledger.Withdraw(ctx, cmd.TenantID(), cmd.Amount(), cmd.Description(), cmd.RefundRequestID(), nil)
}
