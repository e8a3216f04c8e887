package commands_test

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"orderledger/internal/core/application/usecases/commands"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

func money(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// syncBuffer lets handlers log from several goroutines while a test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func bufferLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewJSONHandler(buf, nil)), buf
}

func newTestOrder(t *testing.T, tenantID kernel.UUID, number string, unitPrice string) *order.Order {
	t.Helper()
	item, err := order.NewLineItem("SKU-1", "Etched plate", 1, money(t, unitPrice))
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), tenantID, number, []order.LineItem{item}, kernel.ZeroMoney(), "CUST-1", "", time.Now())
	require.NoError(t, err)
	return o
}

// orderIn builds an order and walks it forward to status.
func orderIn(t *testing.T, tenantID kernel.UUID, number string, status order.Status) *order.Order {
	t.Helper()
	o := newTestOrder(t, tenantID, number, "1000000.00")
	path := []order.Status{
		order.SourcingVendor, order.WaitingPayment, order.PaymentReceived, order.InProduction,
		order.QualityCheck, order.ReadyToShip, order.Shipped, order.Delivered, order.Completed,
	}
	for _, next := range path {
		if o.Status() == status {
			break
		}
		require.NoError(t, o.Transition(next, order.TransitionInput{TrackingRef: "TRK-" + number}, time.Now()))
	}
	require.Equal(t, status, o.Status())
	return o
}

type fixture struct {
	store  *memStore
	lanes  *commands.Lanes
	ledger *commands.Ledger
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := newMemStore()
	lanes := commands.NewLanes(time.Second)
	return fixture{
		store:  store,
		lanes:  lanes,
		ledger: commands.NewLedger(ledgerFactory{store}, lanes, commands.DefaultMinimumBalance, discardLogger()),
	}
}

func (f fixture) fund(t *testing.T, tenantID kernel.UUID, amount string) {
	t.Helper()
	_, err := f.ledger.Contribute(t.Context(), tenantID, money(t, amount), "Initial capital", nil)
	require.NoError(t, err)
}

func (f fixture) refundHandler() commands.RequestRefundCommandHandler {
	return commands.NewRequestRefundCommandHandler(f.store, f.ledger, f.lanes, discardLogger())
}
