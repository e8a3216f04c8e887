package commands_test

import (
	"testing"

	"orderledger/internal/core/application/usecases/commands"
	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContributeToFundCommand(t *testing.T) {
	orderID := kernel.NewUUID()

	testCases := []struct {
		name     string
		tenantID kernel.UUID
		amount   kernel.Money
		desc     string
		orderID  *kernel.UUID
		wantErr  bool
	}{
		{name: "valid", tenantID: kernel.NewUUID(), amount: money(t, "10"), desc: "Initial capital"},
		{name: "valid with order", tenantID: kernel.NewUUID(), amount: money(t, "10"), desc: "Accrual", orderID: &orderID},
		{name: "missing tenant", amount: money(t, "10"), desc: "Initial capital", wantErr: true},
		{name: "zero amount", tenantID: kernel.NewUUID(), amount: kernel.ZeroMoney(), desc: "Initial capital", wantErr: true},
		{name: "blank description", tenantID: kernel.NewUUID(), amount: money(t, "10"), desc: "  ", wantErr: true},
		{name: "invalid order", tenantID: kernel.NewUUID(), amount: money(t, "10"), desc: "x", orderID: &kernel.UUID{}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := commands.NewContributeToFundCommand(tc.tenantID, tc.amount, tc.desc, tc.orderID)
			if tc.wantErr {
				require.ErrorIs(t, err, errs.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, cmd.Validate())
			assert.Equal(t, tc.orderID, cmd.OrderID())
		})
	}
}

func TestNewWithdrawFromFundCommand(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		rid := kernel.NewUUID()
		cmd, err := commands.NewWithdrawFromFundCommand(kernel.NewUUID(), money(t, "10"), "Refund", rid)
		require.NoError(t, err)
		assert.Equal(t, rid, cmd.RefundRequestID())
		assert.NoError(t, cmd.Validate())
	})

	t.Run("missing refund request", func(t *testing.T) {
		_, err := commands.NewWithdrawFromFundCommand(kernel.NewUUID(), money(t, "10"), "Refund", kernel.UUID{})
		require.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestFundCommandHandlers(t *testing.T) {
	// Arrange
	f := newFixture(t)
	tenantID := kernel.NewUUID()
	contribute := commands.NewContributeToFundCommandHandler(f.ledger)
	withdraw := commands.NewWithdrawFromFundCommandHandler(f.ledger)

	contributeCmd, err := commands.NewContributeToFundCommand(tenantID, money(t, "1000000"), "Initial capital", nil)
	require.NoError(t, err)
	withdrawCmd, err := commands.NewWithdrawFromFundCommand(tenantID, money(t, "300000"), "Manual refund", kernel.NewUUID())
	require.NoError(t, err)
	overdrawCmd, err := commands.NewWithdrawFromFundCommand(tenantID, money(t, "700000.01"), "Manual refund", kernel.NewUUID())
	require.NoError(t, err)

	// Act
	c, err := contribute.Handle(t.Context(), contributeCmd)
	require.NoError(t, err)
	w, err := withdraw.Handle(t.Context(), withdrawCmd)
	require.NoError(t, err)
	_, overdrawErr := withdraw.Handle(t.Context(), overdrawCmd)

	// Assert
	assert.Equal(t, fund.Contribution, c.Type())
	assert.Equal(t, fund.Withdrawal, w.Type())
	assert.Equal(t, "700000.00", w.BalanceAfter().String())
	require.ErrorIs(t, overdrawErr, errs.ErrInsufficientFunds)
	assert.Equal(t, map[string]any{
		"tenant_id": tenantID.String(),
		"requested": "700000.01",
		"available": "700000.00",
	}, errs.Details(overdrawErr))

	_, err = contribute.Handle(t.Context(), commands.ContributeToFundCommand{})
	assert.ErrorIs(t, err, commands.ErrContributeToFundCommandIsNotConstructed)
}
