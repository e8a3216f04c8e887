// Package refund tracks the progress of a refund request across the two
// stores it touches: the insurance fund and the order.
//
// A Saga moves through
//
//	Pending ─> LedgerDebited ─┬─> OrderRefunded
//	   │                      └─> Compensated
//	   └─> Failed
//
// Compensated and Failed sagas may be retried with the same refund request id,
// which starts a new attempt at Pending. OrderRefunded is final.
package refund
