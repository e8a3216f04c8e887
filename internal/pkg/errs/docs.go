// Package errs provides the error taxonomy shared by the order and ledger core.
//
// Two families of errors live here:
//   - value-level errors raised while constructing domain objects
//     (ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError) and the
//     request-level ValidationError; all of them classify as KindValidation
//   - workflow errors raised by the order state machine and the insurance fund
//     ledger (InvalidTransitionError, TerminalStateError, InsufficientFundsError,
//     ConflictError, LockTimeoutError) plus ObjectNotFoundError
//
// Each error type follows the same pattern:
//   - a sentinel error variable (e.g., ErrInsufficientFunds) for errors.Is
//   - a struct type carrying structured details about the failure
//   - constructor functions with and without cause
//   - Error() for the message, Unwrap() returning the sentinel
//   - Details() exposing the structured fields to transport adapters
//
// KindOf maps any error onto a stable Kind so adapters can render an
// actionable response without string matching.
package errs
