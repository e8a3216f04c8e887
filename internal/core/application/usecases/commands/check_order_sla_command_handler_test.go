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

// sourcingSince builds an order that entered SourcingVendor ago.
func sourcingSince(t *testing.T, tenantID kernel.UUID, number string, ago time.Duration) *order.Order {
	t.Helper()
	at := time.Now().Add(-ago)
	item, err := order.NewLineItem("SKU-1", "Etched plate", 1, money(t, "100"))
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), tenantID, number, []order.LineItem{item}, kernel.ZeroMoney(), "", "", at)
	require.NoError(t, err)
	require.NoError(t, o.Transition(order.SourcingVendor, order.TransitionInput{}, at))
	return o
}

func checkSLACommand(t *testing.T) commands.CheckOrderSLACommand {
	t.Helper()
	cmd, err := commands.NewCheckOrderSLACommand(50)
	require.NoError(t, err)
	return cmd
}

func TestNewCheckOrderSLACommand(t *testing.T) {
	_, err := commands.NewCheckOrderSLACommand(0)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	var zero commands.CheckOrderSLACommand
	require.ErrorIs(t, zero.Validate(), commands.ErrCheckOrderSLACommandIsNotConstructed)
}

func TestCheckOrderSLACommandHandler_Handle(t *testing.T) {
	// Arrange
	store := newMemStore()
	tenantID := kernel.NewUUID()
	overdue := sourcingSince(t, tenantID, "ORD-1", 7*time.Hour)
	fresh := sourcingSince(t, tenantID, "ORD-2", time.Hour)
	store.seedOrder(overdue)
	store.seedOrder(fresh)
	store.seedOrder(newTestOrder(t, tenantID, "ORD-3", "100"))
	logger, logs := bufferLogger()
	handler := commands.NewCheckOrderSLACommandHandler(orderFactory{store}, commands.NewLanes(time.Second), logger)

	// Act
	recorded, err := handler.Handle(t.Context(), checkSLACommand(t))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, recorded)

	stored := store.order(overdue.ID())
	assert.False(t, stored.SLABreachedAt().IsZero())
	assert.Equal(t, 2, stored.SLAEscalations())
	assert.Equal(t, order.SourcingVendor, stored.Status())

	events := store.timeline(overdue.ID())
	breaches := eventsOf(events, timeline.SLABreached)
	require.Len(t, breaches, 1)
	assert.Equal(t, "240", breaches[0].Metadata()["threshold_minutes"])
	assert.Equal(t, timeline.SystemActor, breaches[0].Actor())
	escalations := eventsOf(events, timeline.SLAEscalated)
	require.Len(t, escalations, 2)
	assert.Equal(t, "procurement_lead", escalations[0].Metadata()["level"])
	assert.Equal(t, "operations_manager", escalations[1].Metadata()["level"])

	assert.Empty(t, store.timeline(fresh.ID()))
	assert.Contains(t, logs.String(), "order SLA breached")
	assert.Contains(t, logs.String(), "order SLA escalation triggered")
}

func TestCheckOrderSLACommandHandler_Handle_ReportsOnce(t *testing.T) {
	// Arrange
	store := newMemStore()
	o := sourcingSince(t, kernel.NewUUID(), "ORD-1", 5*time.Hour)
	store.seedOrder(o)
	handler := commands.NewCheckOrderSLACommandHandler(orderFactory{store}, commands.NewLanes(time.Second), discardLogger())

	// Act
	first, err := handler.Handle(t.Context(), checkSLACommand(t))
	require.NoError(t, err)
	second, err := handler.Handle(t.Context(), checkSLACommand(t))
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 1, first)
	assert.Zero(t, second)
	assert.Len(t, eventsOf(store.timeline(o.ID()), timeline.SLABreached), 1)
	assert.Len(t, eventsOf(store.timeline(o.ID()), timeline.SLAEscalated), 1)
}

func TestCheckOrderSLACommandHandler_Handle_ConflictIsDeferred(t *testing.T) {
	// Arrange
	store := newMemStore()
	o := sourcingSince(t, kernel.NewUUID(), "ORD-1", 5*time.Hour)
	store.seedOrder(o)
	store.orderUpdateErr = func(o *order.Order) error {
		return errs.NewConflictError("order", o.ID().String(), "order was modified concurrently")
	}
	handler := commands.NewCheckOrderSLACommandHandler(orderFactory{store}, commands.NewLanes(time.Second), discardLogger())

	// Act
	recorded, err := handler.Handle(t.Context(), checkSLACommand(t))

	// Assert
	require.NoError(t, err)
	assert.Zero(t, recorded)
	assert.Empty(t, store.timeline(o.ID()))
	assert.True(t, store.order(o.ID()).SLABreachedAt().IsZero())
}
