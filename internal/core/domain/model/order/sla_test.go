package order_test

import (
	"testing"
	"time"

	"orderledger/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSLAMonitoredStatuses(t *testing.T) {
	assert.Equal(t, []order.Status{
		order.SourcingVendor, order.VendorNegotiation, order.CustomerQuotation, order.WaitingPayment,
		order.InProduction, order.QualityCheck, order.Shipped,
	}, order.SLAMonitoredStatuses())

	_, ok := order.SLAPolicyFor(order.New)
	assert.False(t, ok)
}

func TestOrder_CheckSLA(t *testing.T) {
	t.Run("nothing is due before the threshold", func(t *testing.T) {
		o := newOrder(t)
		moveTo(t, o, order.SourcingVendor)
		version := o.Version()

		outcome := o.CheckSLA(now.Add(3 * time.Hour))

		assert.True(t, outcome.IsEmpty())
		assert.True(t, o.SLABreachedAt().IsZero())
		assert.Equal(t, version, o.Version())
	})

	t.Run("breach and escalations are reported once", func(t *testing.T) {
		o := newOrder(t)
		moveTo(t, o, order.SourcingVendor)

		first := o.CheckSLA(now.Add(5 * time.Hour))

		assert.True(t, first.Breached)
		assert.Equal(t, order.SourcingVendor, first.Status)
		assert.Equal(t, 4*time.Hour, first.Threshold)
		assert.Equal(t, 5*time.Hour, first.Elapsed)
		require.Len(t, first.Escalations, 1)
		assert.Equal(t, "procurement_lead", first.Escalations[0].Level)
		assert.Equal(t, now.Add(5*time.Hour), o.SLABreachedAt())

		again := o.CheckSLA(now.Add(5*time.Hour + time.Minute))
		assert.True(t, again.IsEmpty())

		later := o.CheckSLA(now.Add(7 * time.Hour))
		assert.False(t, later.Breached)
		require.Len(t, later.Escalations, 1)
		assert.Equal(t, "operations_manager", later.Escalations[0].Level)
		assert.Equal(t, "email", later.Escalations[0].Channel)
		assert.Equal(t, 2, o.SLAEscalations())
	})

	t.Run("entering the next status restarts the clock", func(t *testing.T) {
		o := newOrder(t)
		moveTo(t, o, order.SourcingVendor)
		require.False(t, o.CheckSLA(now.Add(10*time.Hour)).IsEmpty())

		later := now.Add(11 * time.Hour)
		require.NoError(t, o.Transition(order.WaitingPayment, order.TransitionInput{}, later))

		assert.Equal(t, later, o.StatusEnteredAt())
		assert.True(t, o.SLABreachedAt().IsZero())
		assert.Zero(t, o.SLAEscalations())
		assert.True(t, o.CheckSLA(later.Add(71*time.Hour)).IsEmpty())
	})

	t.Run("unmonitored and terminal statuses are ignored", func(t *testing.T) {
		o := newOrder(t)
		assert.True(t, o.CheckSLA(now.Add(1000*time.Hour)).IsEmpty())

		moveTo(t, o, order.Cancelled)
		assert.True(t, o.CheckSLA(now.Add(1000*time.Hour)).IsEmpty())
	})
}
