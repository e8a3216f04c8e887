package kernel

import (
	"errors"
	"fmt"

	"orderledger/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places every amount is rounded to.
const MoneyScale = 2

// ErrMoneyWouldBeNegative is the cause reported when a subtraction underflows.
var ErrMoneyWouldBeNegative = errors.New("result would be negative")

// Money is a non-negative amount in the tenant's currency. The zero value is a
// valid zero amount.
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney returns an amount of zero.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// NewMoney rounds d to MoneyScale places and rejects negative amounts.
func NewMoney(d decimal.Decimal) (Money, error) {
	rounded := d.Round(MoneyScale)
	if rounded.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is negative", rounded))
	}
	return Money{amount: rounded}, nil
}

// NewPositiveMoney is NewMoney that also rejects zero.
func NewPositiveMoney(d decimal.Decimal) (Money, error) {
	m, err := NewMoney(d)
	if err != nil {
		return Money{}, err
	}
	if m.IsZero() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", errors.New("must be greater than 0"))
	}
	return m, nil
}

// MoneyFromInt is a convenience for whole amounts; negative input is rejected.
func MoneyFromInt(v int64) (Money, error) {
	return NewMoney(decimal.NewFromInt(v))
}

// MoneyFromString parses a decimal string such as "1500000.00".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d)
}

// Decimal exposes the amount for arithmetic outside of the value object.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String renders the amount with exactly MoneyScale decimals.
func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns m - other, failing instead of going below zero.
func (m Money) Sub(other Money) (Money, error) {
	if other.amount.GreaterThan(m.amount) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", ErrMoneyWouldBeNegative)
	}
	return Money{amount: m.amount.Sub(other.amount)}, nil
}

// MulRate multiplies by a non-negative rate and rounds to MoneyScale.
func (m Money) MulRate(rate decimal.Decimal) (Money, error) {
	return NewMoney(m.amount.Mul(rate))
}

func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}
