package timeline

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent")

// Action names what happened to the order.
type Action string

const (
	OrderCreated         Action = "order_created"
	StatusChanged        Action = "status_changed"
	PaymentStatusChanged Action = "payment_status_changed"
	RefundFailed         Action = "refund_failed"
	RefundCompleted      Action = "refund_completed"
	RefundCompensated    Action = "refund_compensated"
	SLABreached          Action = "sla_breached"
	SLAEscalated         Action = "sla_escalated"
)

// SystemActor is recorded when no caller identity is available, e.g. for jobs.
const SystemActor = "system"

// Metadata keys shared by the writers of refund events.
const (
	MetaTransactionID   = "transaction_id"
	MetaRefundRequestID = "refund_request_id"
	MetaAmount          = "amount"
	MetaErrorKind       = "error_kind"
	MetaPreviousStatus  = "previous_status"
	MetaPaymentStatus   = "payment_status"
)

func (a Action) Validate() error {
	switch a {
	case OrderCreated, StatusChanged, PaymentStatusChanged, RefundFailed, RefundCompleted, RefundCompensated,
		SLABreached, SLAEscalated:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a timeline action", string(a)))
	}
}

// Event is an immutable timeline entry. Status is the order status after the
// operation, or the unchanged status for failed attempts.
type Event struct {
	id        kernel.UUID
	orderID   kernel.UUID
	action    Action
	status    string
	actor     string
	notes     string
	metadata  map[string]string
	createdAt time.Time
	guard     guard.ConstructorGuard
}

func NewEvent(orderID kernel.UUID, action Action, status, actor, notes string, metadata map[string]string, now time.Time) (*Event, error) {
	return RestoreEvent(kernel.NewUUID(), orderID, action, status, actor, notes, metadata, now)
}

func RestoreEvent(
	id kernel.UUID,
	orderID kernel.UUID,
	action Action,
	status, actor, notes string,
	metadata map[string]string,
	createdAt time.Time,
) (*Event, error) {
	var problems []error
	if err := id.Validate(); err != nil {
		problems = append(problems, err)
	}
	if err := orderID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("order_id", err))
	}
	if err := action.Validate(); err != nil {
		problems = append(problems, err)
	}
	if strings.TrimSpace(status) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("status"))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	actor = strings.TrimSpace(actor)
	if actor == "" {
		actor = SystemActor
	}

	return &Event{
		id:        id,
		orderID:   orderID,
		action:    action,
		status:    status,
		actor:     actor,
		notes:     notes,
		metadata:  maps.Clone(metadata),
		createdAt: createdAt.UTC(),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (e *Event) Validate() error {
	if e == nil {
		return ErrEventIsNotConstructed
	}
	return e.guard.Validate(ErrEventIsNotConstructed)
}

func (e *Event) ID() kernel.UUID      { return e.id }
func (e *Event) OrderID() kernel.UUID { return e.orderID }
func (e *Event) Action() Action       { return e.action }
func (e *Event) Status() string       { return e.status }
func (e *Event) Actor() string        { return e.actor }
func (e *Event) Notes() string        { return e.notes }
func (e *Event) CreatedAt() time.Time { return e.createdAt }

// Metadata returns a copy of the event metadata.
func (e *Event) Metadata() map[string]string {
	return maps.Clone(e.metadata)
}
