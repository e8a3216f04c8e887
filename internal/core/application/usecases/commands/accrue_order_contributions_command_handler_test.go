package commands_test

import (
	"testing"

	"orderledger/internal/core/application/usecases/commands"
	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/services"
	"orderledger/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccrueOrderContributionsCommand(t *testing.T) {
	cmd, err := commands.NewAccrueOrderContributionsCommand(25)
	require.NoError(t, err)
	assert.Equal(t, 25, cmd.Limit())

	_, err = commands.NewAccrueOrderContributionsCommand(0)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestAccrueOrderContributionsCommandHandler_Handle(t *testing.T) {
	// Arrange
	f := newFixture(t)
	tenantID := kernel.NewUUID()
	completed := orderIn(t, tenantID, "ORD-1", order.Completed)
	delivered := orderIn(t, tenantID, "ORD-2", order.Delivered)
	f.store.seedOrder(completed)
	f.store.seedOrder(delivered)

	policy, err := services.NewContributionPolicy(services.DefaultContributionRate)
	require.NoError(t, err)
	handler := commands.NewAccrueOrderContributionsCommandHandler(orderFactory{f.store}, f.ledger, policy, discardLogger())
	cmd, err := commands.NewAccrueOrderContributionsCommand(10)
	require.NoError(t, err)

	// Act
	first, err := handler.Handle(t.Context(), cmd)
	require.NoError(t, err)
	second, err := handler.Handle(t.Context(), cmd)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 1, first)
	assert.Zero(t, second)

	txs := f.store.transactions(tenantID)
	require.Len(t, txs, 1)
	assert.Equal(t, fund.Contribution, txs[0].Type())
	assert.Equal(t, "25000.00", txs[0].Amount().String())
	assert.Equal(t, "Insurance fund contribution from order ORD-1", txs[0].Description())
	require.NotNil(t, txs[0].OrderID())
	assert.True(t, txs[0].OrderID().IsEqual(completed.ID()))
}

func TestAccrueOrderContributionsCommandHandler_SkipsZeroContribution(t *testing.T) {
	// Arrange
	f := newFixture(t)
	tenantID := kernel.NewUUID()
	o := newTestOrder(t, tenantID, "ORD-1", "0.10")
	f.store.seedOrder(o)
	walked := f.store.order(o.ID())
	for _, next := range []order.Status{
		order.SourcingVendor, order.WaitingPayment, order.PaymentReceived, order.InProduction,
		order.QualityCheck, order.ReadyToShip, order.Shipped, order.Delivered, order.Completed,
	} {
		require.NoError(t, walked.Transition(next, order.TransitionInput{TrackingRef: "TRK-1"}, o.CreatedAt()))
	}
	f.store.seedOrder(walked)

	policy, err := services.NewContributionPolicy(services.DefaultContributionRate)
	require.NoError(t, err)
	handler := commands.NewAccrueOrderContributionsCommandHandler(orderFactory{f.store}, f.ledger, policy, discardLogger())
	cmd, err := commands.NewAccrueOrderContributionsCommand(10)
	require.NoError(t, err)

	// Act
	accrued, err := handler.Handle(t.Context(), cmd)

	// Assert
	require.NoError(t, err)
	assert.Zero(t, accrued)
	assert.Empty(t, f.store.transactions(tenantID))
}
