package errs

import "errors"

// Kind is the stable classification of an error returned by the core.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindInvalidTransition Kind = "invalid_transition"
	KindTerminalState     Kind = "terminal_state"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindConflict          Kind = "conflict"
	KindLockTimeout       Kind = "lock_timeout"
	KindNotFound          Kind = "not_found"
	KindInternal          Kind = "internal"
)

// KindOf classifies err. Errors outside of the taxonomy are KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrTerminalState):
		return KindTerminalState
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrLockTimeout):
		return KindLockTimeout
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsOutOfRange),
		errors.Is(err, ErrValueIsRequired):
		return KindValidation
	default:
		return KindInternal
	}
}

// Details returns the structured fields of a taxonomy error, or nil.
func Details(err error) map[string]any {
	var d interface{ Details() map[string]any }
	if errors.As(err, &d) {
		return d.Details()
	}
	return nil
}
