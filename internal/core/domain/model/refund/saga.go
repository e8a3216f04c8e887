package refund

import (
	"errors"
	"fmt"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrSagaIsNotConstructed = errors.New("Saga must be created via NewSaga")

type State int

const (
	UnknownState State = iota
	Pending
	LedgerDebited
	OrderRefunded
	Compensated
	Failed
)

var stateNames = map[State]string{
	Pending:       "pending",
	LedgerDebited: "ledger_debited",
	OrderRefunded: "order_refunded",
	Compensated:   "compensated",
	Failed:        "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseState accepts the stored snake_case name.
func ParseState(name string) (State, error) {
	for state, n := range stateNames {
		if n == name {
			return state, nil
		}
	}
	return UnknownState, errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%q is not a valid saga state", name))
}

func (s State) Validate() error {
	if _, ok := stateNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%d is not a valid saga state", s))
	}
	return nil
}

// InFlight reports whether a saga in this state still needs a decision.
func (s State) InFlight() bool {
	return s == Pending || s == LedgerDebited
}

// Saga is the persisted progress record of one refund request.
type Saga struct {
	refundRequestID  kernel.UUID
	tenantID         kernel.UUID
	orderID          kernel.UUID
	amount           kernel.Money
	state            State
	attempts         int
	withdrawalTxID   *kernel.UUID
	compensationTxID *kernel.UUID
	lastError        string
	actor            string
	notes            string
	createdAt        time.Time
	updatedAt        time.Time
	guard            guard.ConstructorGuard
}

func NewSaga(refundRequestID, tenantID, orderID kernel.UUID, amount kernel.Money, actor, notes string, now time.Time) (*Saga, error) {
	var problems []error
	for name, id := range map[string]kernel.UUID{
		"refund_request_id": refundRequestID,
		"tenant_id":         tenantID,
		"order_id":          orderID,
	} {
		if err := id.Validate(); err != nil {
			problems = append(problems, errs.NewValueIsRequiredErrorWithCause(name, err))
		}
	}
	if amount.IsZero() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("amount", errors.New("must be greater than 0")))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &Saga{
		refundRequestID: refundRequestID,
		tenantID:        tenantID,
		orderID:         orderID,
		amount:          amount,
		state:           Pending,
		attempts:        1,
		actor:           actor,
		notes:           notes,
		createdAt:       now.UTC(),
		updatedAt:       now.UTC(),
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Snapshot carries every persisted field of a saga.
type Snapshot struct {
	RefundRequestID  kernel.UUID
	TenantID         kernel.UUID
	OrderID          kernel.UUID
	Amount           kernel.Money
	State            State
	Attempts         int
	WithdrawalTxID   *kernel.UUID
	CompensationTxID *kernel.UUID
	LastError        string
	Actor            string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func RestoreSaga(s Snapshot) (*Saga, error) {
	saga, err := NewSaga(s.RefundRequestID, s.TenantID, s.OrderID, s.Amount, s.Actor, s.Notes, s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := s.State.Validate(); err != nil {
		return nil, err
	}
	saga.state = s.State
	saga.attempts = s.Attempts
	saga.withdrawalTxID = s.WithdrawalTxID
	saga.compensationTxID = s.CompensationTxID
	saga.lastError = s.LastError
	saga.createdAt = s.CreatedAt
	saga.updatedAt = s.UpdatedAt
	return saga, nil
}

func (s *Saga) Validate() error {
	if s == nil {
		return ErrSagaIsNotConstructed
	}
	return s.guard.Validate(ErrSagaIsNotConstructed)
}

func (s *Saga) RefundRequestID() kernel.UUID   { return s.refundRequestID }
func (s *Saga) TenantID() kernel.UUID          { return s.tenantID }
func (s *Saga) OrderID() kernel.UUID           { return s.orderID }
func (s *Saga) Amount() kernel.Money           { return s.amount }
func (s *Saga) State() State                   { return s.state }
func (s *Saga) Attempts() int                  { return s.attempts }
func (s *Saga) WithdrawalTxID() *kernel.UUID   { return s.withdrawalTxID }
func (s *Saga) CompensationTxID() *kernel.UUID { return s.compensationTxID }
func (s *Saga) LastError() string              { return s.lastError }
func (s *Saga) Actor() string                  { return s.actor }
func (s *Saga) Notes() string                  { return s.notes }
func (s *Saga) CreatedAt() time.Time           { return s.createdAt }
func (s *Saga) UpdatedAt() time.Time           { return s.updatedAt }

// Matches reports whether a repeated request describes the same refund.
func (s *Saga) Matches(orderID kernel.UUID, amount kernel.Money) error {
	if !s.orderID.IsEqual(orderID) {
		return errs.NewConflictError("refund_request", s.refundRequestID.String(),
			fmt.Sprintf("already recorded for order %s", s.orderID))
	}
	if !s.amount.IsEqual(amount) {
		return errs.NewConflictError("refund_request", s.refundRequestID.String(),
			fmt.Sprintf("already recorded with amount %s", s.amount))
	}
	return nil
}

// Retry starts a new attempt of a saga that ended without refunding the order.
func (s *Saga) Retry(actor, notes string, now time.Time) error {
	if s.state != Compensated && s.state != Failed {
		return s.invalid(Pending)
	}
	s.state = Pending
	s.attempts++
	s.withdrawalTxID = nil
	s.compensationTxID = nil
	s.lastError = ""
	s.actor = actor
	s.notes = notes
	s.updatedAt = now.UTC()
	return nil
}

func (s *Saga) MarkLedgerDebited(withdrawalTxID kernel.UUID, now time.Time) error {
	if s.state != Pending {
		return s.invalid(LedgerDebited)
	}
	s.state = LedgerDebited
	s.withdrawalTxID = &withdrawalTxID
	s.updatedAt = now.UTC()
	return nil
}

func (s *Saga) MarkOrderRefunded(now time.Time) error {
	if s.state != LedgerDebited && s.state != Pending {
		return s.invalid(OrderRefunded)
	}
	s.state = OrderRefunded
	s.lastError = ""
	s.updatedAt = now.UTC()
	return nil
}

// MarkCompensated closes a debited saga whose order could not be refunded.
// compensationTxID is nil when there was nothing left to restore.
func (s *Saga) MarkCompensated(compensationTxID *kernel.UUID, cause string, now time.Time) error {
	if s.state != LedgerDebited && s.state != Pending {
		return s.invalid(Compensated)
	}
	s.state = Compensated
	s.compensationTxID = compensationTxID
	s.lastError = cause
	s.updatedAt = now.UTC()
	return nil
}

func (s *Saga) MarkFailed(cause string, now time.Time) error {
	if s.state != Pending {
		return s.invalid(Failed)
	}
	s.state = Failed
	s.lastError = cause
	s.updatedAt = now.UTC()
	return nil
}

// RecordError keeps the saga in its state and notes why it could not advance.
func (s *Saga) RecordError(cause string, now time.Time) {
	s.lastError = cause
	s.updatedAt = now.UTC()
}

func (s *Saga) invalid(to State) error {
	return errs.NewInvalidTransitionError(s.refundRequestID.String(), "saga:"+s.state.String(), "saga:"+to.String())
}
