package queries

import (
	"errors"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// OrderFilter narrows ListOrdersQuery. Empty fields match everything.
type OrderFilter struct {
	TenantID      string
	Status        string
	PaymentStatus string
}

// ListOrdersQuery pages through orders, newest first.
type ListOrdersQuery struct {
	tenantID      *kernel.UUID
	status        *order.Status
	paymentStatus *order.PaymentStatus
	page          Page
	guard         guard.ConstructorGuard
}

func NewListOrdersQuery(filter OrderFilter, page Page) (ListOrdersQuery, error) {
	q := ListOrdersQuery{page: page, guard: guard.NewConstructorGuard()}

	var problems []error
	if filter.TenantID != "" {
		id, err := kernel.UUIDFromString(filter.TenantID)
		if err != nil {
			problems = append(problems, err)
		}
		q.tenantID = &id
	}
	if filter.Status != "" {
		status, err := order.ParseStatus(filter.Status)
		if err != nil {
			problems = append(problems, err)
		}
		q.status = &status
	}
	if filter.PaymentStatus != "" {
		payment, err := order.ParsePaymentStatus(filter.PaymentStatus)
		if err != nil {
			problems = append(problems, err)
		}
		q.paymentStatus = &payment
	}
	if err := errors.Join(problems...); err != nil {
		return ListOrdersQuery{}, err
	}

	return q, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) TenantID() *kernel.UUID              { return q.tenantID }
func (q ListOrdersQuery) Status() *order.Status               { return q.status }
func (q ListOrdersQuery) PaymentStatus() *order.PaymentStatus { return q.paymentStatus }
func (q ListOrdersQuery) Page() Page                          { return q.page }

type ListOrdersQueryResponse struct {
	Orders []*order.Order
	Total  int64
	Page   Page
}
