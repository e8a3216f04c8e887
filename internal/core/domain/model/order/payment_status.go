package order

import (
	"fmt"
	"strings"

	"orderledger/internal/pkg/errs"
)

// PaymentStatus tracks the money side of an order. The zero value means the
// gateway has not reported anything yet.
//
//	Unset ─┬─> Unpaid ─┬─> PartiallyPaid ─┬─> Paid ─> Refunded
//	       │           │        ↺          │
//	       └───────────┴──────────────────┴─> Cancelled
type PaymentStatus int

const (
	PaymentUnset PaymentStatus = iota
	PaymentUnpaid
	PaymentPartiallyPaid
	PaymentPaid
	PaymentRefunded
	PaymentCancelled
)

var paymentStatusNames = map[PaymentStatus]string{
	PaymentUnset:         "",
	PaymentUnpaid:        "unpaid",
	PaymentPartiallyPaid: "partially_paid",
	PaymentPaid:          "paid",
	PaymentRefunded:      "refunded",
	PaymentCancelled:     "cancelled",
}

//nolint:exhaustive // Refunded and Cancelled are terminal
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentUnset:         {PaymentUnpaid, PaymentPartiallyPaid, PaymentPaid, PaymentCancelled},
	PaymentUnpaid:        {PaymentPartiallyPaid, PaymentPaid, PaymentCancelled},
	PaymentPartiallyPaid: {PaymentPartiallyPaid, PaymentPaid, PaymentCancelled},
	PaymentPaid:          {PaymentRefunded},
}

// ParsePaymentStatus accepts the snake_case wire name. The empty string is
// not accepted: callers may report a status but never clear it.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	if needle != "" {
		for status, name := range paymentStatusNames {
			if name == needle {
				return status, nil
			}
		}
	}
	return PaymentUnset, errs.NewValidationError("payment_status", fmt.Sprintf("%q is not a valid payment status", s))
}

func (p PaymentStatus) Validate() error {
	if _, ok := paymentStatusNames[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("payment_status", fmt.Errorf("%d is not a valid payment status", p))
	}
	return nil
}

func (p PaymentStatus) String() string {
	return paymentStatusNames[p]
}

func (p PaymentStatus) IsTerminal() bool {
	return p == PaymentRefunded || p == PaymentCancelled
}

// CanTransitionTo follows the tracker graph only; joint consistency with the
// order status is checked by Order.SetPaymentStatus.
func (p PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, candidate := range paymentTransitions[p] {
		if candidate == next {
			return true
		}
	}
	return false
}
