package order

import (
	"fmt"
	"strings"

	"orderledger/internal/pkg/errs"
)

// Status is the fulfillment lifecycle state of an order.
//
// Forward path (VendorNegotiation and CustomerQuotation are optional):
//
//	New ─> SourcingVendor ─┬─> VendorNegotiation ─┬─> CustomerQuotation ─┐
//	                       │                      └───────────────────────┤
//	                       └──────────────────────────────────────────────┴─> WaitingPayment
//	WaitingPayment ─> PaymentReceived ─> InProduction ─> QualityCheck ─> ReadyToShip
//	ReadyToShip ─> Shipped ─> Delivered ─> Completed
//
// Cancelled and Refunded are absorbing exits reachable from any non-terminal status.
type Status int

const (
	// Unknown is the zero value and never valid.
	Unknown Status = iota
	New
	SourcingVendor
	VendorNegotiation
	CustomerQuotation
	WaitingPayment
	PaymentReceived
	InProduction
	QualityCheck
	ReadyToShip
	Shipped
	Delivered
	Completed
	Cancelled
	Refunded
)

var statusNames = map[Status]string{
	New:               "new",
	SourcingVendor:    "sourcing_vendor",
	VendorNegotiation: "vendor_negotiation",
	CustomerQuotation: "customer_quotation",
	WaitingPayment:    "waiting_payment",
	PaymentReceived:   "payment_received",
	InProduction:      "in_production",
	QualityCheck:      "quality_check",
	ReadyToShip:       "ready_to_ship",
	Shipped:           "shipped",
	Delivered:         "delivered",
	Completed:         "completed",
	Cancelled:         "cancelled",
	Refunded:          "refunded",
}

// forwardTransitions lists the non-exit targets of every non-terminal status.
//
//nolint:exhaustive // terminal statuses have no forward targets
var forwardTransitions = map[Status][]Status{
	New:               {SourcingVendor},
	SourcingVendor:    {VendorNegotiation, CustomerQuotation, WaitingPayment},
	VendorNegotiation: {CustomerQuotation, WaitingPayment},
	CustomerQuotation: {WaitingPayment},
	WaitingPayment:    {PaymentReceived},
	PaymentReceived:   {InProduction},
	InProduction:      {QualityCheck},
	QualityCheck:      {ReadyToShip},
	ReadyToShip:       {Shipped},
	Shipped:           {Delivered},
	Delivered:         {Completed},
}

// AllStatuses returns every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		New, SourcingVendor, VendorNegotiation, CustomerQuotation, WaitingPayment,
		PaymentReceived, InProduction, QualityCheck, ReadyToShip, Shipped,
		Delivered, Completed, Cancelled, Refunded,
	}
}

// ParseStatus accepts the snake_case wire name, case-insensitively.
func ParseStatus(s string) (Status, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for status, name := range statusNames {
		if name == needle {
			return status, nil
		}
	}
	return Unknown, errs.NewValidationError("status", fmt.Sprintf("%q is not a valid order status", s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled || s == Refunded
}

// CanTransitionTo reports whether next is reachable from s in one step,
// including the two universal exits.
func (s Status) CanTransitionTo(next Status) bool {
	if s.Validate() != nil || s.IsTerminal() {
		return false
	}
	if next == Cancelled || next == Refunded {
		return true
	}
	for _, candidate := range forwardTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Targets returns every status reachable from s in one step, exits last.
func (s Status) Targets() []Status {
	if s.Validate() != nil || s.IsTerminal() {
		return nil
	}
	targets := make([]Status, 0, len(forwardTransitions[s])+2)
	targets = append(targets, forwardTransitions[s]...)
	return append(targets, Cancelled, Refunded)
}

// AllowsPayment reports whether the pair (s, p) is jointly consistent.
func (s Status) AllowsPayment(p PaymentStatus) bool {
	switch s {
	case New, SourcingVendor, VendorNegotiation, CustomerQuotation:
		return p == PaymentUnset || p == PaymentUnpaid || p == PaymentPartiallyPaid
	case WaitingPayment:
		return p == PaymentUnpaid || p == PaymentPartiallyPaid || p == PaymentPaid
	case PaymentReceived, InProduction, QualityCheck, ReadyToShip, Shipped, Delivered, Completed:
		return p == PaymentPaid
	case Cancelled:
		return p == PaymentCancelled || p == PaymentPartiallyPaid || p == PaymentPaid
	case Refunded:
		return p == PaymentRefunded
	default:
		return false
	}
}
