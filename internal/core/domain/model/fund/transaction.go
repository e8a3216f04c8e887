package fund

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrTransactionIsNotConstructed = errors.New("Transaction must be created via NewContribution or NewWithdrawal")

// Entry is the caller-supplied part of a new transaction.
type Entry struct {
	TenantID        kernel.UUID
	Amount          kernel.Money
	Description     string
	OrderID         *kernel.UUID
	RefundRequestID *kernel.UUID
}

// Transaction is one immutable link of a tenant's fund chain.
type Transaction struct {
	id              kernel.UUID
	tenantID        kernel.UUID
	sequence        int64
	txType          TransactionType
	amount          kernel.Money
	balanceBefore   kernel.Money
	balanceAfter    kernel.Money
	description     string
	orderID         *kernel.UUID
	refundRequestID *kernel.UUID
	createdAt       time.Time
	guard           guard.ConstructorGuard
}

// NewContribution appends amount to the chain ending at previous. A nil
// previous starts a new chain at a zero balance.
func NewContribution(previous *Transaction, e Entry, now time.Time) (*Transaction, error) {
	tx, err := newLink(previous, Contribution, e, now)
	if err != nil {
		return nil, err
	}
	tx.balanceAfter = tx.balanceBefore.Add(tx.amount)
	return tx, nil
}

// NewWithdrawal debits amount from the chain ending at previous. It fails with
// an InsufficientFundsError when amount exceeds the current balance.
func NewWithdrawal(previous *Transaction, e Entry, now time.Time) (*Transaction, error) {
	if e.RefundRequestID == nil {
		return nil, errs.NewValueIsRequiredError("refund_request_id")
	}

	tx, err := newLink(previous, Withdrawal, e, now)
	if err != nil {
		return nil, err
	}

	after, err := tx.balanceBefore.Sub(tx.amount)
	if err != nil {
		return nil, errs.NewInsufficientFundsError(tx.tenantID.String(), tx.amount, tx.balanceBefore)
	}
	tx.balanceAfter = after
	return tx, nil
}

func newLink(previous *Transaction, txType TransactionType, e Entry, now time.Time) (*Transaction, error) {
	var problems []error
	if err := e.TenantID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("tenant_id", err))
	}
	if e.Amount.IsZero() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("amount", errors.New("must be greater than 0")))
	}
	if strings.TrimSpace(e.Description) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("description"))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	tx := &Transaction{
		id:              kernel.NewUUID(),
		tenantID:        e.TenantID,
		sequence:        1,
		txType:          txType,
		amount:          e.Amount,
		balanceBefore:   kernel.ZeroMoney(),
		description:     strings.TrimSpace(e.Description),
		orderID:         e.OrderID,
		refundRequestID: e.RefundRequestID,
		createdAt:       now.UTC(),
		guard:           guard.NewConstructorGuard(),
	}

	if previous != nil {
		if err := previous.Validate(); err != nil {
			return nil, err
		}
		if !previous.tenantID.IsEqual(e.TenantID) {
			return nil, errs.NewValueIsInvalidErrorWithCause("previous",
				fmt.Errorf("belongs to tenant %s, not %s", previous.tenantID, e.TenantID))
		}
		tx.sequence = previous.sequence + 1
		tx.balanceBefore = previous.balanceAfter
	}

	return tx, nil
}

// Snapshot carries every persisted field of a transaction.
type Snapshot struct {
	ID              kernel.UUID
	TenantID        kernel.UUID
	Sequence        int64
	Type            TransactionType
	Amount          kernel.Money
	BalanceBefore   kernel.Money
	BalanceAfter    kernel.Money
	Description     string
	OrderID         *kernel.UUID
	RefundRequestID *kernel.UUID
	CreatedAt       time.Time
}

// RestoreTransaction rehydrates a stored record. Only field validity is
// checked here; arithmetic across records is VerifyChain's job.
func RestoreTransaction(s Snapshot) (*Transaction, error) {
	var problems []error
	if err := s.ID.Validate(); err != nil {
		problems = append(problems, err)
	}
	if err := s.TenantID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("tenant_id", err))
	}
	if s.Sequence < 1 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("sequence", s.Sequence, 1, "∞"))
	}
	if err := s.Type.Validate(); err != nil {
		problems = append(problems, err)
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &Transaction{
		id:              s.ID,
		tenantID:        s.TenantID,
		sequence:        s.Sequence,
		txType:          s.Type,
		amount:          s.Amount,
		balanceBefore:   s.BalanceBefore,
		balanceAfter:    s.BalanceAfter,
		description:     s.Description,
		orderID:         s.OrderID,
		refundRequestID: s.RefundRequestID,
		createdAt:       s.CreatedAt,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (t *Transaction) Validate() error {
	if t == nil {
		return ErrTransactionIsNotConstructed
	}
	return t.guard.Validate(ErrTransactionIsNotConstructed)
}

func (t *Transaction) ID() kernel.UUID               { return t.id }
func (t *Transaction) TenantID() kernel.UUID         { return t.tenantID }
func (t *Transaction) Sequence() int64               { return t.sequence }
func (t *Transaction) Type() TransactionType         { return t.txType }
func (t *Transaction) Amount() kernel.Money          { return t.amount }
func (t *Transaction) BalanceBefore() kernel.Money   { return t.balanceBefore }
func (t *Transaction) BalanceAfter() kernel.Money    { return t.balanceAfter }
func (t *Transaction) Description() string           { return t.description }
func (t *Transaction) OrderID() *kernel.UUID         { return t.orderID }
func (t *Transaction) RefundRequestID() *kernel.UUID { return t.refundRequestID }
func (t *Transaction) CreatedAt() time.Time          { return t.createdAt }

// Balance returns the balance after last, or zero for an empty chain.
func Balance(last *Transaction) kernel.Money {
	if last == nil {
		return kernel.ZeroMoney()
	}
	return last.balanceAfter
}
