// Package timeline holds the append-only audit trail of an order: one Event
// per state-affecting operation, including failed refund attempts.
package timeline
