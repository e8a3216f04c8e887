package queries

import (
	"errors"
	"time"

	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrListFundTransactionsQueryIsNotConstructed = errors.New(
	"ListFundTransactionsQuery must be created via NewListFundTransactionsQuery constructor",
)

// TransactionFilter narrows ListFundTransactionsQuery. Zero fields match
// everything; From and To are inclusive.
type TransactionFilter struct {
	Type string
	From time.Time
	To   time.Time
}

// ListFundTransactionsQuery pages through a tenant's fund log, newest first.
type ListFundTransactionsQuery struct {
	tenantID kernel.UUID
	txType   *fund.TransactionType
	from     *time.Time
	to       *time.Time
	page     Page
	guard    guard.ConstructorGuard
}

func NewListFundTransactionsQuery(tenantID kernel.UUID, filter TransactionFilter, page Page) (ListFundTransactionsQuery, error) {
	q := ListFundTransactionsQuery{tenantID: tenantID, page: page, guard: guard.NewConstructorGuard()}

	var problems []error
	if err := tenantID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("tenant_id", err))
	}
	if filter.Type != "" {
		txType, err := fund.ParseTransactionType(filter.Type)
		if err != nil {
			problems = append(problems, err)
		}
		q.txType = &txType
	}
	if !filter.From.IsZero() {
		from := filter.From.UTC()
		q.from = &from
	}
	if !filter.To.IsZero() {
		to := filter.To.UTC()
		q.to = &to
	}
	if q.from != nil && q.to != nil && q.to.Before(*q.from) {
		problems = append(problems, errs.NewValidationError("to", "is before from"))
	}
	if err := errors.Join(problems...); err != nil {
		return ListFundTransactionsQuery{}, err
	}

	return q, nil
}

func (q ListFundTransactionsQuery) Validate() error {
	return q.guard.Validate(ErrListFundTransactionsQueryIsNotConstructed)
}

func (q ListFundTransactionsQuery) TenantID() kernel.UUID       { return q.tenantID }
func (q ListFundTransactionsQuery) Type() *fund.TransactionType { return q.txType }
func (q ListFundTransactionsQuery) From() *time.Time            { return q.from }
func (q ListFundTransactionsQuery) To() *time.Time              { return q.to }
func (q ListFundTransactionsQuery) Page() Page                  { return q.page }

type ListFundTransactionsQueryResponse struct {
	Transactions []*fund.Transaction
	Total        int64
	Page         Page
}
