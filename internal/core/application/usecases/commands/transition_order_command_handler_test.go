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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewTransitionOrderCommand(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		orderID := kernel.NewUUID()
		cmd, err := commands.NewTransitionOrderCommand(orderID, "waiting_payment", "quote accepted", "ops@tenant",
			order.TransitionInput{})
		require.NoError(t, err)
		assert.Equal(t, orderID, cmd.OrderID())
		assert.Equal(t, order.WaitingPayment, cmd.Target())
		assert.Equal(t, "quote accepted", cmd.Notes())
		assert.NoError(t, cmd.Validate())
	})

	t.Run("cancellation reason falls back to notes", func(t *testing.T) {
		cmd, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), "cancelled", "duplicate order", "",
			order.TransitionInput{})
		require.NoError(t, err)
		assert.Equal(t, "duplicate order", cmd.Input().Reason)

		cmd, err = commands.NewTransitionOrderCommand(kernel.NewUUID(), "cancelled", "duplicate order", "",
			order.TransitionInput{Reason: "vendor closed"})
		require.NoError(t, err)
		assert.Equal(t, "vendor closed", cmd.Input().Reason)
	})

	t.Run("unknown action", func(t *testing.T) {
		_, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), "teleported", "", "", order.TransitionInput{})
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := commands.NewTransitionOrderCommand(kernel.UUID{}, "shipped", "", "", order.TransitionInput{})
		assert.Error(t, err)
	})
}

func TestTransitionOrderCommandHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := t.Context()
	o := orderIn(t, kernel.NewUUID(), "ORD-1", order.SourcingVendor)
	cmd, err := commands.NewTransitionOrderCommand(o.ID(), "waiting_payment", "quote accepted", "ops@tenant",
		order.TransitionInput{})
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	events := new(MockTimelineRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("Update", ctx, o).Return(nil).Once(),
		uow.On("TimelineRepository").Return(events).Once(),
		events.On("Append", ctx, mock.MatchedBy(func(e *timeline.Event) bool {
			meta := e.Metadata()
			return e.Action() == timeline.StatusChanged &&
				e.Status() == "waiting_payment" &&
				e.Notes() == "quote accepted" &&
				meta[timeline.MetaPreviousStatus] == "sourcing_vendor" &&
				meta[timeline.MetaPaymentStatus] == "unpaid"
		})).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	// Act
	updated, err := commands.NewTransitionOrderCommandHandler(factory, commands.NewLanes(time.Second)).Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, order.WaitingPayment, updated.Status())
	assert.Equal(t, order.PaymentUnpaid, updated.PaymentStatus())
	orders.AssertExpectations(t)
	events.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_Rejected(t *testing.T) {
	testCases := []struct {
		name   string
		from   order.Status
		action string
		target error
	}{
		{name: "skips steps", from: order.New, action: "shipped", target: errs.ErrInvalidTransition},
		{name: "terminal order", from: order.Completed, action: "shipped", target: errs.ErrTerminalState},
		{name: "direct refund", from: order.Delivered, action: "refunded", target: errs.ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			ctx := t.Context()
			o := orderIn(t, kernel.NewUUID(), "ORD-1", tc.from)
			cmd, err := commands.NewTransitionOrderCommand(o.ID(), tc.action, "", "", order.TransitionInput{})
			require.NoError(t, err)

			orders := new(MockOrderRepository)
			uow := new(MockOrderUoW)
			mock.InOrder(
				uow.On("Begin", ctx).Return(nil).Once(),
				uow.On("OrderRepository").Return(orders).Once(),
				orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
				uow.On("Rollback", ctx).Return(nil).Once(),
			)
			factory := new(MockOrderUoWFactory)
			factory.On("Create").Return(uow).Once()

			// Act
			_, err = commands.NewTransitionOrderCommandHandler(factory, commands.NewLanes(time.Second)).Handle(ctx, cmd)

			// Assert
			require.ErrorIs(t, err, tc.target)
			assert.Equal(t, tc.from, o.Status())
			orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			uow.AssertNotCalled(t, "Commit", ctx)
		})
	}
}

func TestTransitionOrderCommandHandler_Handle_FullLifecycle(t *testing.T) {
	// Arrange
	store := newMemStore()
	o := newTestOrder(t, kernel.NewUUID(), "ORD-1", "100")
	store.seedOrder(o)
	handler := commands.NewTransitionOrderCommandHandler(orderFactory{store}, commands.NewLanes(time.Second))
	path := []string{
		"sourcing_vendor", "waiting_payment", "payment_received", "in_production", "quality_check",
		"ready_to_ship", "shipped", "delivered", "completed",
	}

	// Act
	for _, action := range path {
		var in order.TransitionInput
		if action == "shipped" {
			in.TrackingRef = "TRK-1"
		}
		cmd, err := commands.NewTransitionOrderCommand(o.ID(), action, "", "ops@tenant", in)
		require.NoError(t, err)
		_, err = handler.Handle(t.Context(), cmd)
		require.NoError(t, err, action)
	}
	cmd, err := commands.NewTransitionOrderCommand(o.ID(), "shipped", "", "ops@tenant", order.TransitionInput{})
	require.NoError(t, err)
	_, err = handler.Handle(t.Context(), cmd)

	// Assert
	require.ErrorIs(t, err, errs.ErrTerminalState)
	stored := store.order(o.ID())
	assert.Equal(t, order.Completed, stored.Status())
	assert.Equal(t, order.PaymentPaid, stored.PaymentStatus())
	assert.Equal(t, len(path)+1, stored.Version())
	assert.Len(t, eventsOf(store.timeline(o.ID()), timeline.StatusChanged), len(path))
}

func TestTransitionOrderCommandHandler_Handle_StaleVersion(t *testing.T) {
	// Arrange
	store := newMemStore()
	o := newTestOrder(t, kernel.NewUUID(), "ORD-1", "100")
	store.seedOrder(o)

	handler := commands.NewTransitionOrderCommandHandler(orderFactory{store}, commands.NewLanes(time.Second))
	store.orderUpdateErr = func(*order.Order) error {
		// another process saves the order between Get and Update
		snap := store.orders[o.ID()]
		snap.Version++
		store.orders[o.ID()] = snap
		return nil
	}
	cmd, err := commands.NewTransitionOrderCommand(o.ID(), "cancelled", "customer withdrew", "", order.TransitionInput{})
	require.NoError(t, err)

	// Act
	_, err = handler.Handle(t.Context(), cmd)

	// Assert
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, order.New, store.order(o.ID()).Status())
	assert.Empty(t, store.timeline(o.ID()))
}

func TestTransitionOrderCommandHandler_Handle_MissingInput(t *testing.T) {
	testCases := []struct {
		name  string
		from  order.Status
		input order.TransitionInput
		param string
	}{
		{name: "cancel without reason", from: order.New, param: "cancellation_reason"},
		{name: "negotiate without vendor", from: order.SourcingVendor, param: "vendor_ref"},
		{name: "quote without amount", from: order.VendorNegotiation, param: "quotation_amount"},
		{name: "ship without tracking", from: order.ReadyToShip, param: "tracking_ref"},
	}
	targets := map[order.Status]string{
		order.New:               "cancelled",
		order.SourcingVendor:    "vendor_negotiation",
		order.VendorNegotiation: "customer_quotation",
		order.ReadyToShip:       "shipped",
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			store := newMemStore()
			o := newTestOrder(t, kernel.NewUUID(), "ORD-1", "100")
			store.seedOrder(o)
			handler := commands.NewTransitionOrderCommandHandler(orderFactory{store}, commands.NewLanes(time.Second))
			for _, step := range pathTo(tc.from) {
				cmd, err := commands.NewTransitionOrderCommand(o.ID(), step.String(), "", "", stepInput(t, step))
				require.NoError(t, err)
				_, err = handler.Handle(t.Context(), cmd)
				require.NoError(t, err, step)
			}
			before := len(store.timeline(o.ID()))

			cmd, err := commands.NewTransitionOrderCommand(o.ID(), targets[tc.from], "", "", tc.input)
			require.NoError(t, err)

			// Act
			_, err = handler.Handle(t.Context(), cmd)

			// Assert
			require.ErrorIs(t, err, errs.ErrValidation)
			var validation *errs.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tc.param, validation.ParamName)
			assert.Equal(t, tc.from, store.order(o.ID()).Status())
			assert.Len(t, store.timeline(o.ID()), before)
		})
	}
}

func TestTransitionOrderCommandHandler_Handle_RecordsInputInTimeline(t *testing.T) {
	// Arrange
	store := newMemStore()
	o := newTestOrder(t, kernel.NewUUID(), "ORD-1", "100")
	store.seedOrder(o)
	handler := commands.NewTransitionOrderCommandHandler(orderFactory{store}, commands.NewLanes(time.Second))
	quotation := money(t, "820000")

	// Act
	for _, step := range []struct {
		action string
		input  order.TransitionInput
	}{
		{action: "sourcing_vendor"},
		{action: "vendor_negotiation", input: order.TransitionInput{VendorRef: "VND-7"}},
		{action: "customer_quotation", input: order.TransitionInput{Quotation: quotation}},
	} {
		cmd, err := commands.NewTransitionOrderCommand(o.ID(), step.action, "", "ops@tenant", step.input)
		require.NoError(t, err)
		_, err = handler.Handle(t.Context(), cmd)
		require.NoError(t, err, step.action)
	}

	// Assert
	stored := store.order(o.ID())
	assert.Equal(t, "VND-7", stored.VendorRef())
	assert.True(t, quotation.IsEqual(stored.Quotation()))

	changes := eventsOf(store.timeline(o.ID()), timeline.StatusChanged)
	require.Len(t, changes, 3)
	assert.Equal(t, "VND-7", changes[1].Metadata()["vendor_ref"])
	assert.Equal(t, quotation.String(), changes[2].Metadata()["quotation_amount"])
}

// pathTo lists the forward steps from New up to and including target.
func pathTo(target order.Status) []order.Status {
	forward := []order.Status{
		order.SourcingVendor, order.VendorNegotiation, order.CustomerQuotation, order.WaitingPayment,
		order.PaymentReceived, order.InProduction, order.QualityCheck, order.ReadyToShip,
	}
	if target == order.New {
		return nil
	}
	for i, s := range forward {
		if s == target {
			return forward[:i+1]
		}
	}
	return forward
}

func stepInput(t *testing.T, s order.Status) order.TransitionInput {
	t.Helper()
	switch s { //nolint:exhaustive // only these statuses take input
	case order.VendorNegotiation:
		return order.TransitionInput{VendorRef: "VND-7"}
	case order.CustomerQuotation:
		return order.TransitionInput{Quotation: money(t, "820000")}
	}
	return order.TransitionInput{}
}
