package fund

import (
	"fmt"

	"orderledger/internal/core/domain/model/kernel"
)

// ChainReport is the outcome of re-verifying a tenant's transaction log.
type ChainReport struct {
	Checked  int
	Valid    bool
	BrokenAt int64
	Reason   string
	Balance  kernel.Money
}

// VerifyChain walks txs in sequence order and checks that each record continues
// the previous one: consecutive sequence numbers, balanceBefore equal to the
// previous balanceAfter, and balanceAfter equal to balanceBefore plus or minus
// the amount. Balance is the recomputed sum of contributions minus withdrawals
// over the records checked so far.
func VerifyChain(txs []*Transaction) ChainReport {
	report := ChainReport{Valid: true, Balance: kernel.ZeroMoney()}

	var previous *Transaction
	for _, tx := range txs {
		if reason := brokenLink(previous, tx); reason != "" {
			report.Valid = false
			report.BrokenAt = tx.sequence
			report.Reason = reason
			return report
		}

		if tx.txType == Contribution {
			report.Balance = report.Balance.Add(tx.amount)
		} else {
			report.Balance, _ = report.Balance.Sub(tx.amount)
		}
		report.Checked++
		previous = tx
	}

	return report
}

func brokenLink(previous, tx *Transaction) string {
	wantSequence := int64(1)
	wantBefore := kernel.ZeroMoney()
	if previous != nil {
		if !previous.tenantID.IsEqual(tx.tenantID) {
			return fmt.Sprintf("tenant changed from %s to %s", previous.tenantID, tx.tenantID)
		}
		wantSequence = previous.sequence + 1
		wantBefore = previous.balanceAfter
	}

	if tx.sequence != wantSequence {
		return fmt.Sprintf("sequence %d follows %d", tx.sequence, wantSequence-1)
	}
	if !tx.balanceBefore.IsEqual(wantBefore) {
		return fmt.Sprintf("balance before %s does not match previous balance after %s", tx.balanceBefore, wantBefore)
	}
	if tx.amount.IsZero() {
		return "amount is zero"
	}

	var wantAfter kernel.Money
	switch tx.txType {
	case Contribution:
		wantAfter = tx.balanceBefore.Add(tx.amount)
	case Withdrawal:
		after, err := tx.balanceBefore.Sub(tx.amount)
		if err != nil {
			return fmt.Sprintf("withdrawal of %s exceeds balance %s", tx.amount, tx.balanceBefore)
		}
		wantAfter = after
	default:
		return fmt.Sprintf("unknown transaction type %d", tx.txType)
	}
	if !tx.balanceAfter.IsEqual(wantAfter) {
		return fmt.Sprintf("balance after %s, expected %s", tx.balanceAfter, wantAfter)
	}
	return ""
}
