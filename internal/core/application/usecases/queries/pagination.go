package queries

import (
	"orderledger/internal/pkg/errs"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// Page is a validated limit/offset window. A zero limit selects DefaultPageLimit.
type Page struct {
	Limit  int
	Offset int
}

func NewPage(limit, offset int) (Page, error) {
	if limit == 0 {
		limit = DefaultPageLimit
	}
	if limit < 0 || limit > MaxPageLimit {
		return Page{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPageLimit)
	}
	if offset < 0 {
		return Page{}, errs.NewValueIsOutOfRangeError("offset", offset, 0, "∞")
	}
	return Page{Limit: limit, Offset: offset}, nil
}
