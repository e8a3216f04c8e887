package errs

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrTerminalState     = errors.New("terminal state")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrConflict          = errors.New("conflict")
	ErrLockTimeout       = errors.New("lock timeout")
)

// ValidationError rejects a malformed or ineligible request.
type ValidationError struct {
	ParamName string
	Reason    string
	Cause     error
}

func NewValidationError(paramName, reason string) *ValidationError {
	return &ValidationError{ParamName: paramName, Reason: reason}
}

func NewValidationErrorWithCause(paramName, reason string, cause error) *ValidationError {
	return &ValidationError{ParamName: paramName, Reason: reason, Cause: cause}
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", ErrValidation, e.ParamName, e.Reason)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func (e *ValidationError) Details() map[string]any {
	return map[string]any{"param": e.ParamName, "reason": e.Reason}
}

// InvalidTransitionError is returned when the requested status is not reachable
// from the current one.
type InvalidTransitionError struct {
	OrderID string
	From    string
	To      string
}

func NewInvalidTransitionError(orderID, from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{OrderID: orderID, From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: order %s cannot move from %s to %s", ErrInvalidTransition, e.OrderID, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

func (e *InvalidTransitionError) Details() map[string]any {
	return map[string]any{"order_id": e.OrderID, "current_status": e.From, "attempted_status": e.To}
}

// TerminalStateError is returned for any mutation attempted on a terminal order.
type TerminalStateError struct {
	OrderID   string
	Status    string
	Attempted string
}

func NewTerminalStateError(orderID, status, attempted string) *TerminalStateError {
	return &TerminalStateError{OrderID: orderID, Status: status, Attempted: attempted}
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("%s: order %s is %s, cannot apply %s", ErrTerminalState, e.OrderID, e.Status, e.Attempted)
}

func (e *TerminalStateError) Unwrap() error {
	return ErrTerminalState
}

func (e *TerminalStateError) Details() map[string]any {
	return map[string]any{"order_id": e.OrderID, "current_status": e.Status, "attempted_status": e.Attempted}
}

// InsufficientFundsError is returned when a withdrawal exceeds the fund balance.
// Amounts are kept in their canonical decimal string form.
type InsufficientFundsError struct {
	TenantID  string
	Requested string
	Available string
}

func NewInsufficientFundsError(tenantID string, requested, available fmt.Stringer) *InsufficientFundsError {
	return &InsufficientFundsError{TenantID: tenantID, Requested: requested.String(), Available: available.String()}
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: tenant %s requested %s, available %s",
		ErrInsufficientFunds, e.TenantID, e.Requested, e.Available)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

func (e *InsufficientFundsError) Details() map[string]any {
	return map[string]any{"tenant_id": e.TenantID, "requested": e.Requested, "available": e.Available}
}

// ConflictError is returned when another writer holds or has changed the resource.
type ConflictError struct {
	Resource string
	Key      string
	Reason   string
	Cause    error
}

func NewConflictError(resource, key, reason string) *ConflictError {
	return &ConflictError{Resource: resource, Key: key, Reason: reason}
}

func NewConflictErrorWithCause(resource, key, reason string, cause error) *ConflictError {
	return &ConflictError{Resource: resource, Key: key, Reason: reason, Cause: cause}
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("%s: %s %s: %s", ErrConflict, e.Resource, e.Key, e.Reason)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

func (e *ConflictError) Details() map[string]any {
	return map[string]any{"resource": e.Resource, "key": e.Key, "reason": e.Reason}
}

// LockTimeoutError is returned when a write lane could not be acquired in time.
type LockTimeoutError struct {
	Resource string
	Key      string
	Timeout  time.Duration
}

func NewLockTimeoutError(resource, key string, timeout time.Duration) *LockTimeoutError {
	return &LockTimeoutError{Resource: resource, Key: key, Timeout: timeout}
}

func (e *LockTimeoutError) Error() string {
	return fmt.Sprintf("%s: %s %s not acquired within %s", ErrLockTimeout, e.Resource, e.Key, e.Timeout)
}

func (e *LockTimeoutError) Unwrap() error {
	return ErrLockTimeout
}

func (e *LockTimeoutError) Details() map[string]any {
	return map[string]any{"resource": e.Resource, "key": e.Key, "timeout": e.Timeout.String()}
}
