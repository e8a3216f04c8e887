package commands_test

import (
	"testing"
	"time"

	"orderledger/internal/core/application/usecases/commands"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/timeline"
	"orderledger/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetPaymentStatusCommand(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cmd, err := commands.NewSetPaymentStatusCommand(kernel.NewUUID(), "partially_paid", "deposit", "gateway")
		require.NoError(t, err)
		assert.Equal(t, order.PaymentPartiallyPaid, cmd.Status())
		assert.NoError(t, cmd.Validate())
	})

	t.Run("empty status", func(t *testing.T) {
		_, err := commands.NewSetPaymentStatusCommand(kernel.NewUUID(), "", "", "")
		assert.Error(t, err)
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := commands.NewSetPaymentStatusCommand(kernel.UUID{}, "paid", "", "")
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestSetPaymentStatusCommandHandler_Handle(t *testing.T) {
	// Arrange
	store := newMemStore()
	o := orderIn(t, kernel.NewUUID(), "ORD-1", order.WaitingPayment)
	store.seedOrder(o)
	handler := commands.NewSetPaymentStatusCommandHandler(orderFactory{store}, commands.NewLanes(time.Second))

	set := func(status string) (*order.Order, error) {
		cmd, err := commands.NewSetPaymentStatusCommand(o.ID(), status, "gateway callback", "gateway")
		require.NoError(t, err)
		return handler.Handle(t.Context(), cmd)
	}

	// Act
	partial, err := set("partially_paid")
	require.NoError(t, err)
	paid, err := set("paid")
	require.NoError(t, err)
	_, backwardsErr := set("unpaid")
	_, refundedErr := set("refunded")

	// Assert
	assert.Equal(t, order.PaymentPartiallyPaid, partial.PaymentStatus())
	assert.Equal(t, order.PaymentPaid, paid.PaymentStatus())
	assert.Equal(t, order.WaitingPayment, paid.Status())
	require.ErrorIs(t, backwardsErr, errs.ErrInvalidTransition)
	require.ErrorIs(t, refundedErr, errs.ErrValidation)

	stored := store.order(o.ID())
	assert.Equal(t, order.PaymentPaid, stored.PaymentStatus())

	events := eventsOf(store.timeline(o.ID()), timeline.PaymentStatusChanged)
	require.Len(t, events, 2)
	assert.Equal(t, "unpaid", events[0].Metadata()["previous_payment_status"])
	assert.Equal(t, "partially_paid", events[0].Metadata()[timeline.MetaPaymentStatus])
	assert.Equal(t, "paid", events[1].Metadata()[timeline.MetaPaymentStatus])
	assert.Equal(t, "gateway", events[1].Actor())
}

func TestSetPaymentStatusCommandHandler_Handle_TerminalOrder(t *testing.T) {
	// Arrange
	store := newMemStore()
	o := orderIn(t, kernel.NewUUID(), "ORD-1", order.WaitingPayment)
	require.NoError(t, o.Transition(order.Cancelled, order.TransitionInput{Reason: "customer withdrew"}, time.Now()))
	store.seedOrder(o)
	handler := commands.NewSetPaymentStatusCommandHandler(orderFactory{store}, commands.NewLanes(time.Second))

	cmd, err := commands.NewSetPaymentStatusCommand(o.ID(), "paid", "late gateway callback", "gateway")
	require.NoError(t, err)

	// Act
	_, err = handler.Handle(t.Context(), cmd)

	// Assert
	require.ErrorIs(t, err, errs.ErrTerminalState)
	stored := store.order(o.ID())
	assert.Equal(t, order.Cancelled, stored.Status())
	assert.Equal(t, order.PaymentUnpaid, stored.PaymentStatus())
	assert.Equal(t, o.Version(), stored.Version())
	assert.Empty(t, eventsOf(store.timeline(o.ID()), timeline.PaymentStatusChanged))
}
