package fundrepo

import (
	"context"
	"errors"
	"strconv"

	"orderledger/internal/adapters/out/postgres/pgerr"
	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerRepository implements ports.LedgerRepository. Records are only
// ever inserted.
type GormLedgerRepository struct {
	db *gorm.DB
}

func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Append inserts tx. Losing the (tenant_id, sequence) race to another process
// is a ConflictError.
func (r *GormLedgerRepository) Append(ctx context.Context, tx *fund.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	dto := fromDomain(tx)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err, uniqueSequenceIndex) {
			return errs.NewConflictErrorWithCause("insurance_fund", tx.TenantID().String(),
				"sequence "+strconv.FormatInt(tx.Sequence(), 10)+" already taken", err)
		}
		return err
	}

	return nil
}

func (r *GormLedgerRepository) Last(ctx context.Context, tenantID kernel.UUID) (*fund.Transaction, error) {
	if err := tenantID.Validate(); err != nil {
		return nil, err
	}

	var dto TransactionDTO
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID.Bytes()).
		Order("sequence DESC").
		Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil // empty fund
	}
	if err != nil {
		return nil, err
	}

	return ToDomain(dto)
}

func (r *GormLedgerRepository) RefundRequestTotals(ctx context.Context, tenantID, refundRequestID kernel.UUID) (kernel.Money, kernel.Money, error) {
	var totals struct {
		Withdrawn decimal.Decimal
		Restored  decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = ?), 0) AS withdrawn,
			COALESCE(SUM(amount) FILTER (WHERE type = ?), 0) AS restored
		FROM insurance_fund_transactions
		WHERE tenant_id = ? AND refund_request_id = ?`,
		fund.Withdrawal.String(), fund.Contribution.String(), tenantID.Bytes(), refundRequestID.Bytes(),
	).Scan(&totals).Error
	if err != nil {
		return kernel.Money{}, kernel.Money{}, err
	}

	withdrawn, err := kernel.NewMoney(totals.Withdrawn)
	if err != nil {
		return kernel.Money{}, kernel.Money{}, err
	}
	restored, err := kernel.NewMoney(totals.Restored)
	if err != nil {
		return kernel.Money{}, kernel.Money{}, err
	}
	return withdrawn, restored, nil
}

func (r *GormLedgerRepository) HasOrderContribution(ctx context.Context, orderID kernel.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&TransactionDTO{}).
		Where("order_id = ? AND type = ? AND refund_request_id IS NULL", orderID.Bytes(), fund.Contribution.String()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
