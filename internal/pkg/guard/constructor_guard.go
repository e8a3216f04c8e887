// Package guard detects domain objects that bypassed their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in value objects, entities and commands. Its zero
// value fails validation, so a struct literal that skipped the constructor is
// rejected the first time it reaches a repository or handler.
//
// Example:
//
//	type RefundCommand struct {
//	    amount kernel.Money
//	    guard  guard.ConstructorGuard
//	}
//
//	func (c RefundCommand) Validate() error {
//	    return c.guard.Validate(ErrRefundCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks the owning object as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is the zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
