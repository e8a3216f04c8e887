package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrRefundRequiresOrchestrator rejects a plain transition into Refunded.
	ErrRefundRequiresOrchestrator = errors.New("refunded is reachable only through a refund request")
)

// Order is the aggregate root of the fulfillment lifecycle.
//
// Order follows these invariants:
//   - Must have a valid identifier, tenant and order number
//   - Must have at least one line item
//   - Total equals subtotal plus shipping cost
//   - Status and payment status are jointly consistent
//   - Terminal orders never change again
//   - Entering VendorNegotiation, CustomerQuotation, Shipped or Cancelled
//     requires the matching TransitionInput field
//
// version is the optimistic concurrency token. It is bumped at most once
// between loading and saving, so persistedVersion is what the repository
// compares against.
type Order struct {
	id               kernel.UUID
	tenantID         kernel.UUID
	number           string
	items            []LineItem
	subtotal         kernel.Money
	shippingCost     kernel.Money
	total            kernel.Money
	status           Status
	paymentStatus    PaymentStatus
	customerRef      string
	shippingRef      string
	vendorRef        string
	quotation        kernel.Money
	statusEnteredAt  time.Time
	slaBreachedAt    time.Time
	slaEscalations   int
	createdAt        time.Time
	updatedAt        time.Time
	version          int
	persistedVersion int
	guard            guard.ConstructorGuard
}

// NewOrder places a new order in status New with no payment reported yet.
//
// Example:
//
//	item, _ := order.NewLineItem("SKU-1", "Etched plate", 2, price)
//	o, err := order.NewOrder(kernel.NewUUID(), tenantID, "ORD-2024-0001",
//	    []order.LineItem{item}, shipping, "CUST-42", "", time.Now())
func NewOrder(
	id kernel.UUID,
	tenantID kernel.UUID,
	number string,
	items []LineItem,
	shippingCost kernel.Money,
	customerRef string,
	shippingRef string,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        New,
		paymentStatus: PaymentUnset,
		shippingCost:  shippingCost,
		customerRef:   strings.TrimSpace(customerRef),
		shippingRef:   strings.TrimSpace(shippingRef),
		quotation:     kernel.ZeroMoney(),
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		version:       1,
		guard:         guard.NewConstructorGuard(),
	}
	o.statusEnteredAt = o.createdAt

	if err := errors.Join(
		o.setID(id),
		o.setTenantID(tenantID),
		o.setNumber(number),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	o.subtotal = kernel.ZeroMoney()
	for _, item := range o.items {
		o.subtotal = o.subtotal.Add(item.LineTotal())
	}
	o.total = o.subtotal.Add(o.shippingCost)

	return o, nil
}

// Snapshot carries every persisted field of an order.
type Snapshot struct {
	ID            kernel.UUID
	TenantID      kernel.UUID
	Number        string
	Items         []LineItem
	Subtotal      kernel.Money
	ShippingCost  kernel.Money
	Total         kernel.Money
	Status        Status
	PaymentStatus PaymentStatus
	CustomerRef   string
	ShippingRef   string
	VendorRef     string
	Quotation     kernel.Money
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int

	// StatusEnteredAt falls back to UpdatedAt when zero. SLABreachedAt is
	// zero while the SLA of the current status holds.
	StatusEnteredAt time.Time
	SLABreachedAt   time.Time
	SLAEscalations  int
}

// RestoreOrder rehydrates an order from storage. Stored totals are trusted but
// the status pair is checked, so a corrupted row never becomes a live aggregate.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		subtotal:         s.Subtotal,
		shippingCost:     s.ShippingCost,
		total:            s.Total,
		customerRef:      s.CustomerRef,
		shippingRef:      s.ShippingRef,
		vendorRef:        s.VendorRef,
		quotation:        s.Quotation,
		statusEnteredAt:  s.StatusEnteredAt,
		slaBreachedAt:    s.SLABreachedAt,
		slaEscalations:   s.SLAEscalations,
		createdAt:        s.CreatedAt,
		updatedAt:        s.UpdatedAt,
		version:          s.Version,
		persistedVersion: s.Version,
		guard:            guard.NewConstructorGuard(),
	}
	if o.statusEnteredAt.IsZero() {
		o.statusEnteredAt = s.UpdatedAt
	}
	if s.SLAEscalations < 0 {
		return nil, errs.NewValueIsOutOfRangeError("sla_escalations", s.SLAEscalations, 0, "∞")
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setTenantID(s.TenantID),
		o.setNumber(s.Number),
		o.setItems(s.Items),
		s.Status.Validate(),
		s.PaymentStatus.Validate(),
	); err != nil {
		return nil, err
	}

	if !s.Status.AllowsPayment(s.PaymentStatus) {
		return nil, errs.NewValueIsInvalidErrorWithCause("payment_status",
			fmt.Errorf("%q is not consistent with status %s", s.PaymentStatus, s.Status))
	}

	o.status = s.Status
	o.paymentStatus = s.PaymentStatus
	return o, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID              { return o.id }
func (o *Order) TenantID() kernel.UUID        { return o.tenantID }
func (o *Order) Number() string               { return o.number }
func (o *Order) Subtotal() kernel.Money       { return o.subtotal }
func (o *Order) ShippingCost() kernel.Money   { return o.shippingCost }
func (o *Order) Total() kernel.Money          { return o.total }
func (o *Order) Status() Status               { return o.status }
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }
func (o *Order) CustomerRef() string          { return o.customerRef }
func (o *Order) ShippingRef() string          { return o.shippingRef }
func (o *Order) VendorRef() string            { return o.vendorRef }
func (o *Order) Quotation() kernel.Money      { return o.quotation }
func (o *Order) StatusEnteredAt() time.Time   { return o.statusEnteredAt }
func (o *Order) SLABreachedAt() time.Time     { return o.slaBreachedAt }
func (o *Order) SLAEscalations() int          { return o.slaEscalations }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }
func (o *Order) Version() int                 { return o.version }

// PersistedVersion is the version the order had when it was loaded.
func (o *Order) PersistedVersion() int { return o.persistedVersion }

// Items returns a copy of the line items in order.
func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.items))
	copy(items, o.items)
	return items
}

func (o *Order) IsTerminal() bool {
	return o.status.IsTerminal()
}

// TransitionInput carries the data some targets ask for. Fields a target does
// not use are ignored.
type TransitionInput struct {
	// Reason is required to enter Cancelled.
	Reason string
	// VendorRef names the vendor of VendorNegotiation. It may be omitted when
	// the order already has one.
	VendorRef string
	// Quotation is the amount quoted in CustomerQuotation. Zero keeps the
	// stored quotation, which then must be positive.
	Quotation kernel.Money
	// TrackingRef is the carrier reference for Shipped and replaces the
	// shipping reference. It may be omitted when the order already has one.
	TrackingRef string
}

// Transition moves the order to target and applies the payment consistency
// rule. Refunded is rejected here; use Refund.
//
// On error the order is left untouched.
func (o *Order) Transition(target Status, in TransitionInput, now time.Time) error {
	if err := target.Validate(); err != nil {
		return errs.NewValidationErrorWithCause("status", "unknown target status", err)
	}
	if o.status.IsTerminal() {
		return errs.NewTerminalStateError(o.id.String(), o.status.String(), target.String())
	}
	if target == Refunded {
		return errs.NewValidationErrorWithCause("status", "use a refund request", ErrRefundRequiresOrchestrator)
	}
	if !o.status.CanTransitionTo(target) {
		return errs.NewInvalidTransitionError(o.id.String(), o.status.String(), target.String())
	}
	in, err := o.resolveInput(target, in)
	if err != nil {
		return err
	}

	payment := o.paymentStatus
	switch target {
	case WaitingPayment:
		if payment == PaymentUnset {
			payment = PaymentUnpaid
		}
	case PaymentReceived:
		payment = PaymentPaid
	case Cancelled:
		if payment == PaymentUnset || payment == PaymentUnpaid {
			payment = PaymentCancelled
		}
	default:
	}

	if !target.AllowsPayment(payment) {
		return errs.NewValidationError("payment_status",
			fmt.Sprintf("payment status %q does not allow %s", payment, target))
	}

	switch target {
	case VendorNegotiation:
		o.vendorRef = in.VendorRef
	case CustomerQuotation:
		o.quotation = in.Quotation
	case Shipped:
		o.shippingRef = in.TrackingRef
	default:
	}

	o.status = target
	o.paymentStatus = payment
	o.enterStatus(now)
	o.touch(now)
	return nil
}

// resolveInput fills omitted fields from the order and checks that target
// has what it needs.
func (o *Order) resolveInput(target Status, in TransitionInput) (TransitionInput, error) {
	resolved := TransitionInput{
		Reason:      strings.TrimSpace(in.Reason),
		VendorRef:   strings.TrimSpace(in.VendorRef),
		Quotation:   in.Quotation,
		TrackingRef: strings.TrimSpace(in.TrackingRef),
	}
	if resolved.VendorRef == "" {
		resolved.VendorRef = o.vendorRef
	}
	if resolved.Quotation.IsZero() {
		resolved.Quotation = o.quotation
	}
	if resolved.TrackingRef == "" {
		resolved.TrackingRef = o.shippingRef
	}

	switch target {
	case VendorNegotiation:
		if resolved.VendorRef == "" {
			return resolved, errs.NewValidationError("vendor_ref", "a vendor is required to negotiate")
		}
	case CustomerQuotation:
		if resolved.Quotation.IsZero() {
			return resolved, errs.NewValidationError("quotation_amount", "must be greater than 0")
		}
	case Shipped:
		if resolved.TrackingRef == "" {
			return resolved, errs.NewValidationError("tracking_ref", "is required to ship")
		}
	case Cancelled:
		if resolved.Reason == "" {
			return resolved, errs.NewValidationError("cancellation_reason", "is required")
		}
	default:
	}
	return resolved, nil
}

// Refund terminalizes a paid order. It is the only way into Refunded and is
// driven by the refund orchestrator once the fund has been debited.
func (o *Order) Refund(now time.Time) error {
	if o.status.IsTerminal() {
		return errs.NewTerminalStateError(o.id.String(), o.status.String(), Refunded.String())
	}
	if o.paymentStatus != PaymentPaid {
		return errs.NewValidationError("payment_status",
			fmt.Sprintf("order must be paid to be refunded, got %q", o.paymentStatus))
	}

	o.status = Refunded
	o.paymentStatus = PaymentRefunded
	o.enterStatus(now)
	o.touch(now)
	return nil
}

// CheckRefundable reports whether Refund would succeed, without mutating.
func (o *Order) CheckRefundable() error {
	if o.status.IsTerminal() {
		return errs.NewValidationErrorWithCause("order", "order is not refundable",
			errs.NewTerminalStateError(o.id.String(), o.status.String(), Refunded.String()))
	}
	if o.paymentStatus != PaymentPaid {
		return errs.NewValidationError("order",
			fmt.Sprintf("order must be paid to be refunded, got %q", o.paymentStatus))
	}
	return nil
}

// SetPaymentStatus records a gateway-reported payment status. Terminal orders
// reject it like any other change.
func (o *Order) SetPaymentStatus(next PaymentStatus, now time.Time) error {
	if err := next.Validate(); err != nil || next == PaymentUnset {
		return errs.NewValidationError("payment_status", "a concrete payment status is required")
	}
	if o.status.IsTerminal() {
		return errs.NewTerminalStateError(o.id.String(), o.status.String(), "payment:"+next.String())
	}
	if !o.paymentStatus.CanTransitionTo(next) {
		return errs.NewInvalidTransitionError(o.id.String(), "payment:"+o.paymentStatus.String(), "payment:"+next.String())
	}
	if !o.status.AllowsPayment(next) {
		return errs.NewValidationError("payment_status",
			fmt.Sprintf("payment status %q is not consistent with order status %s", next, o.status))
	}

	o.paymentStatus = next
	o.touch(now)
	return nil
}

// AvailableTransitions lists the statuses a caller may move the order to.
// Refunded is listed only for paid orders.
func (o *Order) AvailableTransitions() []Status {
	targets := o.status.Targets()
	available := make([]Status, 0, len(targets))
	for _, t := range targets {
		if t == Refunded && o.paymentStatus != PaymentPaid {
			continue
		}
		available = append(available, t)
	}
	return available
}

// enterStatus restarts the SLA clock for the status just entered.
func (o *Order) enterStatus(now time.Time) {
	o.statusEnteredAt = now.UTC()
	o.slaBreachedAt = time.Time{}
	o.slaEscalations = 0
}

func (o *Order) touch(now time.Time) {
	o.updatedAt = now.UTC()
	o.version = o.persistedVersion + 1
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setTenantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("tenant_id", err)
	}
	o.tenantID = id
	return nil
}

func (o *Order) setNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return errs.NewValueIsRequiredError("order_number")
	}
	o.number = number
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d]", i), err)
		}
	}
	o.items = make([]LineItem, len(items))
	copy(o.items, items)
	return nil
}
