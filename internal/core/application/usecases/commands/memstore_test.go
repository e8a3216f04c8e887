package commands_test

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"orderledger/internal/core/application/usecases/commands"
	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/refund"
	"orderledger/internal/core/domain/model/timeline"
	"orderledger/internal/core/ports"
	"orderledger/internal/pkg/errs"
)

// memStore is an in-memory stand-in for the postgres adapters. Writes made
// inside Begin/Commit are staged and applied on Commit only. Reads see
// committed state.
type memStore struct {
	mu     sync.Mutex
	orders map[kernel.UUID]order.Snapshot
	ledger map[kernel.UUID][]*fund.Transaction
	events []*timeline.Event
	sagas  map[kernel.UUID]refund.Snapshot

	// failures injected per operation; nil means succeed
	orderUpdateErr  func(o *order.Order) error
	ledgerAppendErr func(tx *fund.Transaction) error
	sagaSaveErr     func(s *refund.Saga) error
}

func newMemStore() *memStore {
	return &memStore{
		orders: make(map[kernel.UUID]order.Snapshot),
		ledger: make(map[kernel.UUID][]*fund.Transaction),
		sagas:  make(map[kernel.UUID]refund.Snapshot),
	}
}

func (s *memStore) Create() commands.UoW { return &memUoW{store: s} }

type orderFactory struct{ store *memStore }

func (f orderFactory) Create() commands.OrderUoW { return &memUoW{store: f.store} }

type ledgerFactory struct{ store *memStore }

func (f ledgerFactory) Create() commands.LedgerUoW { return &memUoW{store: f.store} }

func (s *memStore) seedOrder(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID()] = snapshotOrder(o)
}

func (s *memStore) order(id kernel.UUID) *order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := order.RestoreOrder(s.orders[id])
	if err != nil {
		panic(err)
	}
	return o
}

func (s *memStore) transactions(tenantID kernel.UUID) []*fund.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.ledger[tenantID])
}

func (s *memStore) balance(tenantID kernel.UUID) kernel.Money {
	txs := s.transactions(tenantID)
	if len(txs) == 0 {
		return kernel.ZeroMoney()
	}
	return txs[len(txs)-1].BalanceAfter()
}

func (s *memStore) timeline(orderID kernel.UUID) []*timeline.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*timeline.Event
	for _, e := range s.events {
		if e.OrderID().IsEqual(orderID) {
			out = append(out, e)
		}
	}
	return out
}

func (s *memStore) saga(id kernel.UUID) *refund.Saga {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.sagas[id]
	if !ok {
		return nil
	}
	saga, err := refund.RestoreSaga(snap)
	if err != nil {
		panic(err)
	}
	return saga
}

func (s *memStore) seedSaga(saga *refund.Saga) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sagas[saga.RefundRequestID()] = snapshotSaga(saga)
}

func snapshotOrder(o *order.Order) order.Snapshot {
	return order.Snapshot{
		ID:            o.ID(),
		TenantID:      o.TenantID(),
		Number:        o.Number(),
		Items:         o.Items(),
		Subtotal:      o.Subtotal(),
		ShippingCost:  o.ShippingCost(),
		Total:         o.Total(),
		Status:        o.Status(),
		PaymentStatus: o.PaymentStatus(),
		CustomerRef:   o.CustomerRef(),
		ShippingRef:   o.ShippingRef(),
		VendorRef:     o.VendorRef(),
		Quotation:     o.Quotation(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
		Version:       o.Version(),

		StatusEnteredAt: o.StatusEnteredAt(),
		SLABreachedAt:   o.SLABreachedAt(),
		SLAEscalations:  o.SLAEscalations(),
	}
}

func snapshotSaga(s *refund.Saga) refund.Snapshot {
	return refund.Snapshot{
		RefundRequestID:  s.RefundRequestID(),
		TenantID:         s.TenantID(),
		OrderID:          s.OrderID(),
		Amount:           s.Amount(),
		State:            s.State(),
		Attempts:         s.Attempts(),
		WithdrawalTxID:   s.WithdrawalTxID(),
		CompensationTxID: s.CompensationTxID(),
		LastError:        s.LastError(),
		Actor:            s.Actor(),
		Notes:            s.Notes(),
		CreatedAt:        s.CreatedAt(),
		UpdatedAt:        s.UpdatedAt(),
	}
}

// memUoW implements commands.UoW and every narrower UoW interface.
type memUoW struct {
	store  *memStore
	active bool
	staged []func()
}

func (u *memUoW) Begin(_ context.Context) error {
	u.active = true
	u.staged = nil
	return nil
}

func (u *memUoW) Commit(_ context.Context) error {
	if !u.active {
		return errors.New("transaction is not started")
	}
	u.store.mu.Lock()
	for _, apply := range u.staged {
		apply()
	}
	u.store.mu.Unlock()
	u.active = false
	u.staged = nil
	return nil
}

func (u *memUoW) Rollback(_ context.Context) error {
	u.active = false
	u.staged = nil
	return nil
}

// write applies fn now or on Commit. The store lock is held while fn runs.
func (u *memUoW) write(fn func()) {
	if u.active {
		u.staged = append(u.staged, fn)
		return
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	fn()
}

func (u *memUoW) OrderRepository() ports.OrderRepository           { return memOrders{u} }
func (u *memUoW) LedgerRepository() ports.LedgerRepository         { return memLedger{u} }
func (u *memUoW) TimelineRepository() ports.TimelineRepository     { return memTimeline{u} }
func (u *memUoW) RefundSagaRepository() ports.RefundSagaRepository { return memSagas{u} }

type memOrders struct{ uow *memUoW }

func (r memOrders) Add(_ context.Context, o *order.Order) error {
	s := r.uow.store
	s.mu.Lock()
	for _, existing := range s.orders {
		if existing.TenantID.IsEqual(o.TenantID()) && existing.Number == o.Number() {
			s.mu.Unlock()
			return errs.NewConflictError("order", o.Number(), "order number already exists for tenant")
		}
	}
	s.mu.Unlock()

	snap := snapshotOrder(o)
	r.uow.write(func() { s.orders[snap.ID] = snap })
	return nil
}

func (r memOrders) Update(_ context.Context, o *order.Order) error {
	s := r.uow.store
	s.mu.Lock()
	if s.orderUpdateErr != nil {
		if err := s.orderUpdateErr(o); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	current, ok := s.orders[o.ID()]
	s.mu.Unlock()
	if !ok {
		return errs.NewObjectNotFoundError("order", o.ID())
	}
	if current.Version != o.PersistedVersion() {
		return errs.NewConflictError("order", o.ID().String(), "order was modified concurrently")
	}

	snap := snapshotOrder(o)
	r.uow.write(func() { s.orders[snap.ID] = snap })
	return nil
}

func (r memOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	s := r.uow.store
	s.mu.Lock()
	snap, ok := s.orders[id]
	s.mu.Unlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return order.RestoreOrder(snap)
}

func (r memOrders) ListCompletedWithoutContribution(_ context.Context, limit int) ([]*order.Order, error) {
	s := r.uow.store
	s.mu.Lock()
	var snaps []order.Snapshot
	for _, snap := range s.orders {
		if snap.Status != order.Completed || s.hasOrderContribution(snap.ID) {
			continue
		}
		snaps = append(snaps, snap)
	}
	s.mu.Unlock()

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].CreatedAt.Before(snaps[j].CreatedAt) })
	if len(snaps) > limit {
		snaps = snaps[:limit]
	}
	out := make([]*order.Order, 0, len(snaps))
	for _, snap := range snaps {
		o, err := order.RestoreOrder(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r memOrders) ListSLADue(
	_ context.Context,
	status order.Status,
	enteredBefore time.Time,
	escalations, limit int,
) ([]*order.Order, error) {
	s := r.uow.store
	s.mu.Lock()
	var snaps []order.Snapshot
	for _, snap := range s.orders {
		if snap.Status != status || snap.StatusEnteredAt.After(enteredBefore) {
			continue
		}
		if !snap.SLABreachedAt.IsZero() && snap.SLAEscalations >= escalations {
			continue
		}
		snaps = append(snaps, snap)
	}
	s.mu.Unlock()

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].StatusEnteredAt.Before(snaps[j].StatusEnteredAt) })
	if len(snaps) > limit {
		snaps = snaps[:limit]
	}
	out := make([]*order.Order, 0, len(snaps))
	for _, snap := range snaps {
		o, err := order.RestoreOrder(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// hasOrderContribution expects s.mu to be held.
func (s *memStore) hasOrderContribution(orderID kernel.UUID) bool {
	for _, txs := range s.ledger {
		for _, tx := range txs {
			if tx.Type() == fund.Contribution && tx.RefundRequestID() == nil &&
				tx.OrderID() != nil && tx.OrderID().IsEqual(orderID) {
				return true
			}
		}
	}
	return false
}

type memLedger struct{ uow *memUoW }

func (r memLedger) Append(_ context.Context, tx *fund.Transaction) error {
	s := r.uow.store
	s.mu.Lock()
	if s.ledgerAppendErr != nil {
		if err := s.ledgerAppendErr(tx); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	for _, existing := range s.ledger[tx.TenantID()] {
		if existing.Sequence() == tx.Sequence() {
			s.mu.Unlock()
			return errs.NewConflictError("insurance_fund", tx.TenantID().String(), "sequence already taken")
		}
	}
	s.mu.Unlock()

	r.uow.write(func() { s.ledger[tx.TenantID()] = append(s.ledger[tx.TenantID()], tx) })
	return nil
}

func (r memLedger) Last(_ context.Context, tenantID kernel.UUID) (*fund.Transaction, error) {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	txs := s.ledger[tenantID]
	if len(txs) == 0 {
		return nil, nil //nolint:nilnil // empty fund
	}
	return txs[len(txs)-1], nil
}

func (r memLedger) RefundRequestTotals(_ context.Context, tenantID, refundRequestID kernel.UUID) (kernel.Money, kernel.Money, error) {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	withdrawn, restored := kernel.ZeroMoney(), kernel.ZeroMoney()
	for _, tx := range s.ledger[tenantID] {
		if tx.RefundRequestID() == nil || !tx.RefundRequestID().IsEqual(refundRequestID) {
			continue
		}
		if tx.Type() == fund.Withdrawal {
			withdrawn = withdrawn.Add(tx.Amount())
		} else {
			restored = restored.Add(tx.Amount())
		}
	}
	return withdrawn, restored, nil
}

func (r memLedger) HasOrderContribution(_ context.Context, orderID kernel.UUID) (bool, error) {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasOrderContribution(orderID), nil
}

type memTimeline struct{ uow *memUoW }

func (r memTimeline) Append(_ context.Context, event *timeline.Event) error {
	s := r.uow.store
	r.uow.write(func() { s.events = append(s.events, event) })
	return nil
}

func (r memTimeline) ListByOrder(_ context.Context, orderID kernel.UUID) ([]*timeline.Event, error) {
	return r.uow.store.timeline(orderID), nil
}

type memSagas struct{ uow *memUoW }

func (r memSagas) Get(_ context.Context, id kernel.UUID) (*refund.Saga, error) {
	saga := r.uow.store.saga(id)
	if saga == nil {
		return nil, errs.NewObjectNotFoundError("refund_request", id)
	}
	return saga, nil
}

func (r memSagas) Save(_ context.Context, saga *refund.Saga) error {
	s := r.uow.store
	s.mu.Lock()
	if s.sagaSaveErr != nil {
		if err := s.sagaSaveErr(saga); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.mu.Unlock()

	snap := snapshotSaga(saga)
	r.uow.write(func() { s.sagas[snap.RefundRequestID] = snap })
	return nil
}

func (r memSagas) ListStale(_ context.Context, states []refund.State, before time.Time, limit int) ([]*refund.Saga, error) {
	s := r.uow.store
	s.mu.Lock()
	var snaps []refund.Snapshot
	for _, snap := range s.sagas {
		if slices.Contains(states, snap.State) && snap.UpdatedAt.Before(before) {
			snaps = append(snaps, snap)
		}
	}
	s.mu.Unlock()

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].UpdatedAt.Before(snaps[j].UpdatedAt) })
	if len(snaps) > limit {
		snaps = snaps[:limit]
	}
	out := make([]*refund.Saga, 0, len(snaps))
	for _, snap := range snaps {
		saga, err := refund.RestoreSaga(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, saga)
	}
	return out, nil
}
