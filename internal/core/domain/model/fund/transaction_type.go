package fund

import (
	"fmt"
	"strings"

	"orderledger/internal/pkg/errs"
)

type TransactionType int

const (
	UnknownType TransactionType = iota
	Contribution
	Withdrawal
)

func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "contribution":
		return Contribution, nil
	case "withdrawal":
		return Withdrawal, nil
	default:
		return UnknownType, errs.NewValidationError("type", fmt.Sprintf("%q is not a valid transaction type", s))
	}
}

func (t TransactionType) Validate() error {
	if t != Contribution && t != Withdrawal {
		return errs.NewValueIsInvalidErrorWithCause("type", fmt.Errorf("%d is not a valid transaction type", t))
	}
	return nil
}

func (t TransactionType) String() string {
	switch t {
	case Contribution:
		return "contribution"
	case Withdrawal:
		return "withdrawal"
	default:
		return "unknown"
	}
}
