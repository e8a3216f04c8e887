package commands_test

import (
	"errors"
	"testing"
	"time"

	"orderledger/internal/core/application/usecases/commands"
	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestLedger_ContributeAndWithdraw(t *testing.T) {
	// Arrange
	f := newFixture(t)
	tenantID := kernel.NewUUID()

	// Act
	contribution, err := f.ledger.Contribute(t.Context(), tenantID, money(t, "1000000"), "Initial capital", nil)
	require.NoError(t, err)
	withdrawal, err := f.ledger.Withdraw(t.Context(), tenantID, money(t, "300000"), "Refund", kernel.NewUUID(), nil)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, int64(1), contribution.Sequence())
	assert.Equal(t, "1000000.00", contribution.BalanceAfter().String())
	assert.Equal(t, int64(2), withdrawal.Sequence())
	assert.Equal(t, "1000000.00", withdrawal.BalanceBefore().String())
	assert.Equal(t, "700000.00", withdrawal.BalanceAfter().String())
	assert.Equal(t, "700000.00", f.store.balance(tenantID).String())

	report := fund.VerifyChain(f.store.transactions(tenantID))
	assert.True(t, report.Valid)

	analytics := fund.Summarize(f.store.transactions(tenantID), f.store.balance(tenantID),
		fund.LastMonths(time.Now(), 6))
	assert.Equal(t, "30", analytics.UtilizationRate.String())
}

func TestLedger_Withdraw_InsufficientFunds(t *testing.T) {
	// Arrange
	f := newFixture(t)
	tenantID := kernel.NewUUID()
	f.fund(t, tenantID, "200000")

	// Act
	tx, err := f.ledger.Withdraw(t.Context(), tenantID, money(t, "500000"), "Refund", kernel.NewUUID(), nil)

	// Assert
	require.Error(t, err)
	assert.Nil(t, tx)
	assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
	assert.Len(t, f.store.transactions(tenantID), 1)
	assert.Equal(t, "200000.00", f.store.balance(tenantID).String())
}

func TestLedger_Withdraw_ExactBalanceReachesZero(t *testing.T) {
	f := newFixture(t)
	tenantID := kernel.NewUUID()
	f.fund(t, tenantID, "500")

	tx, err := f.ledger.Withdraw(t.Context(), tenantID, money(t, "500"), "Refund", kernel.NewUUID(), nil)

	require.NoError(t, err)
	assert.True(t, tx.BalanceAfter().IsZero())
}

func TestLedger_ConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	// Arrange
	f := newFixture(t)
	tenantID := kernel.NewUUID()
	f.fund(t, tenantID, "1000")

	// Act
	const writers = 20
	var g errgroup.Group
	results := make([]error, writers)
	for i := range writers {
		g.Go(func() error {
			_, results[i] = f.ledger.Withdraw(t.Context(), tenantID, money(t, "100"), "Refund", kernel.NewUUID(), nil)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// Assert
	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
	}
	assert.Equal(t, 10, succeeded)
	assert.True(t, f.store.balance(tenantID).IsZero())

	txs := f.store.transactions(tenantID)
	assert.Len(t, txs, 11)
	assert.True(t, fund.VerifyChain(txs).Valid)
}

func TestLedger_Restore_IsIdempotent(t *testing.T) {
	// Arrange
	f := newFixture(t)
	tenantID := kernel.NewUUID()
	rid := kernel.NewUUID()
	f.fund(t, tenantID, "1000")
	_, err := f.ledger.Withdraw(t.Context(), tenantID, money(t, "400"), "Refund", rid, nil)
	require.NoError(t, err)

	// Act
	first, err := f.ledger.Restore(t.Context(), tenantID, rid, nil)
	require.NoError(t, err)
	second, err := f.ledger.Restore(t.Context(), tenantID, rid, nil)
	require.NoError(t, err)

	// Assert
	require.NotNil(t, first)
	assert.Equal(t, fund.Contribution, first.Type())
	assert.Equal(t, "400.00", first.Amount().String())
	assert.Equal(t, "Refund rollback for "+rid.String(), first.Description())
	assert.Nil(t, second)
	assert.Equal(t, "1000.00", f.store.balance(tenantID).String())
}

func TestLedger_Restore_NothingWithdrawn(t *testing.T) {
	f := newFixture(t)
	tenantID := kernel.NewUUID()

	tx, err := f.ledger.Restore(t.Context(), tenantID, kernel.NewUUID(), nil)

	require.NoError(t, err)
	assert.Nil(t, tx)
	assert.Empty(t, f.store.transactions(tenantID))
}

func TestLedger_LowBalanceWarning(t *testing.T) {
	// Arrange
	store := newMemStore()
	lanes := commands.NewLanes(time.Second)
	logger, buf := bufferLogger()
	ledger := commands.NewLedger(ledgerFactory{store}, lanes, money(t, "1000"), logger)
	tenantID := kernel.NewUUID()

	// Act
	_, err := ledger.Contribute(t.Context(), tenantID, money(t, "999"), "Seed", nil)
	require.NoError(t, err)

	// Assert
	out := buf.String()
	assert.Contains(t, out, "insurance fund balance below threshold")
	assert.Contains(t, out, `"current_balance":"999.00"`)
	assert.Contains(t, out, `"threshold":"1000.00"`)
}

func TestLedger_LockTimeout(t *testing.T) {
	// Arrange
	store := newMemStore()
	lanes := commands.NewLanes(20 * time.Millisecond)
	ledger := commands.NewLedger(ledgerFactory{store}, lanes, commands.DefaultMinimumBalance, discardLogger())
	tenantID := kernel.NewUUID()

	entered := make(chan struct{})
	unblock := make(chan struct{})
	store.ledgerAppendErr = func(*fund.Transaction) error {
		close(entered)
		<-unblock
		return nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := ledger.Contribute(t.Context(), tenantID, money(t, "10"), "Slow", nil)
		done <- err
	}()
	<-entered

	// Act
	_, err := ledger.Contribute(t.Context(), tenantID, money(t, "10"), "Fast", nil)
	close(unblock)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrLockTimeout)
	require.NoError(t, <-done)
}

func TestLedger_AppendConflictPropagates(t *testing.T) {
	f := newFixture(t)
	tenantID := kernel.NewUUID()
	f.store.ledgerAppendErr = func(*fund.Transaction) error {
		return errs.NewConflictError("insurance_fund", tenantID.String(), "sequence already taken")
	}

	_, err := f.ledger.Contribute(t.Context(), tenantID, money(t, "10"), "Seed", nil)

	require.Error(t, err)
	var conflict *errs.ConflictError
	assert.True(t, errors.As(err, &conflict))
	assert.Empty(t, f.store.transactions(tenantID))
}

func TestLedger_RejectsInvalidTenant(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.Contribute(t.Context(), kernel.UUID{}, money(t, "10"), "Seed", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
