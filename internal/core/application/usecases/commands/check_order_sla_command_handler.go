package commands

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/timeline"
	"orderledger/internal/pkg/errs"
)

// CheckOrderSLACommandHandler records SLA breaches and escalations of orders
// that stay too long in a monitored status. Each order is rechecked inside its
// lane, so an order moved on since it was listed is left alone, and one busy
// with another operation is picked up by the next pass.
type CheckOrderSLACommandHandler struct {
	uowFactory OrderUoWFactory
	lanes      *Lanes
	logger     *slog.Logger
}

func NewCheckOrderSLACommandHandler(uowFactory OrderUoWFactory, lanes *Lanes, logger *slog.Logger) CheckOrderSLACommandHandler {
	return CheckOrderSLACommandHandler{
		uowFactory: uowFactory,
		lanes:      lanes,
		logger:     logger.With("component", "order_sla_monitor"),
	}
}

// Handle returns the number of orders that got new SLA events.
func (h CheckOrderSLACommandHandler) Handle(ctx context.Context, cmd CheckOrderSLACommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	now := time.Now()
	recorded := 0
	for _, status := range order.SLAMonitoredStatuses() {
		policy, _ := order.SLAPolicyFor(status)
		due, err := h.uowFactory.Create().OrderRepository().
			ListSLADue(ctx, status, now.Add(-policy.Threshold), len(policy.Escalations), cmd.Limit())
		if err != nil {
			return recorded, err
		}

		for _, o := range due {
			ok, err := h.check(ctx, o.ID(), now)
			if err != nil {
				if errors.Is(err, errs.ErrConflict) {
					h.logger.DebugContext(ctx, "order busy, SLA check deferred", "order_id", o.ID().String())
					continue
				}
				h.logger.ErrorContext(ctx, "failed to record SLA events", "order_id", o.ID().String(), "error", err)
				if ctx.Err() != nil {
					return recorded, ctx.Err()
				}
				continue
			}
			if ok {
				recorded++
			}
		}
	}

	if recorded > 0 {
		h.logger.InfoContext(ctx, "order SLA pass finished", "orders", recorded)
	}
	return recorded, nil
}

func (h CheckOrderSLACommandHandler) check(ctx context.Context, orderID kernel.UUID, now time.Time) (bool, error) {
	release, err := h.lanes.lockOrder(orderID)
	if err != nil {
		return false, err
	}
	defer release()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return false, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return false, err
	}
	outcome := o.CheckSLA(now)
	if outcome.IsEmpty() {
		return false, nil
	}

	events, err := slaEvents(o, outcome, now)
	if err != nil {
		return false, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return false, err
	}
	for _, event := range events {
		if err = uow.TimelineRepository().Append(ctx, event); err != nil {
			return false, err
		}
	}
	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	attrs := []any{
		"order_id", o.ID().String(),
		"order_number", o.Number(),
		"tenant_id", o.TenantID().String(),
		"status", outcome.Status.String(),
		"duration_seconds", int64(outcome.Elapsed.Seconds()),
		"threshold_minutes", int64(outcome.Threshold.Minutes()),
	}
	if outcome.Breached {
		h.logger.WarnContext(ctx, "order SLA breached", attrs...)
	}
	for _, e := range outcome.Escalations {
		h.logger.WarnContext(ctx, "order SLA escalation triggered", append(attrs, "level", e.Level, "channel", e.Channel)...)
	}
	return true, nil
}

func slaEvents(o *order.Order, outcome order.SLAOutcome, now time.Time) ([]*timeline.Event, error) {
	elapsed := strconv.FormatInt(int64(outcome.Elapsed.Seconds()), 10)
	threshold := strconv.FormatInt(int64(outcome.Threshold.Minutes()), 10)

	var events []*timeline.Event
	if outcome.Breached {
		event, err := timeline.NewEvent(o.ID(), timeline.SLABreached, o.Status().String(), timeline.SystemActor,
			"Order stayed in "+outcome.Status.String()+" beyond its SLA",
			map[string]string{"duration_seconds": elapsed, "threshold_minutes": threshold}, now)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	for _, e := range outcome.Escalations {
		event, err := timeline.NewEvent(o.ID(), timeline.SLAEscalated, o.Status().String(), timeline.SystemActor,
			"Escalated to "+e.Level,
			map[string]string{
				"level":            e.Level,
				"channel":          e.Channel,
				"after_minutes":    strconv.FormatInt(int64(e.After.Minutes()), 10),
				"duration_seconds": elapsed,
			}, now)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
