package queries

import (
	"time"

	"orderledger/internal/adapters/out/postgres/fundrepo"
	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fundTail struct {
	BalanceAfter decimal.Decimal
	Sequence     int64
	CreatedAt    time.Time
}

// loadTail returns the newest record of a tenant's fund, or nil for an empty
// fund. Sequence doubles as the transaction count.
func loadTail(db *gorm.DB, tenantID kernel.UUID) (*fundTail, error) {
	var tail fundTail
	result := db.Raw(`
		SELECT balance_after, sequence, created_at
		FROM insurance_fund_transactions
		WHERE tenant_id = ?
		ORDER BY sequence DESC
		LIMIT 1
	`, tenantID.Bytes()).Scan(&tail)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil //nolint:nilnil // empty fund
	}
	return &tail, nil
}

func (t *fundTail) balance() (kernel.Money, error) {
	if t == nil {
		return kernel.ZeroMoney(), nil
	}
	return kernel.NewMoney(t.BalanceAfter)
}

// loadTransactions reads a tenant's records in sequence order, limited to
// period when it is not nil.
func loadTransactions(db *gorm.DB, tenantID kernel.UUID, period *fund.Period) ([]*fund.Transaction, error) {
	scope := db.Model(&fundrepo.TransactionDTO{}).Where("tenant_id = ?", tenantID.Bytes())
	if period != nil {
		scope = scope.Where("created_at BETWEEN ? AND ?", period.From, period.To)
	}

	var dtos []fundrepo.TransactionDTO
	if err := scope.Order("sequence").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toTransactions(dtos)
}

func toTransactions(dtos []fundrepo.TransactionDTO) ([]*fund.Transaction, error) {
	txs := make([]*fund.Transaction, 0, len(dtos))
	for _, dto := range dtos {
		tx, err := fundrepo.ToDomain(dto)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
