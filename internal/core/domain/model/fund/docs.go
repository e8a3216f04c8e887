// Package fund models the per-tenant insurance fund as an append-only chain of
// transactions.
//
// Every Transaction records the balance before and after itself and a
// per-tenant sequence number, so the current balance is the BalanceAfter of
// the last record and the whole log can be re-verified with VerifyChain.
// New transactions are only ever built on top of the previous one via
// NewContribution and NewWithdrawal; a withdrawal that would take the balance
// below zero fails with an InsufficientFundsError.
//
// Read models (Summarize, AssessHealth, Project) are pure functions over
// transactions loaded by the caller.
package fund
