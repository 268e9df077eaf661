package convo

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/catalog"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/ledger"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/metrics"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/order"
)

type fakeLedger struct {
	rows         []*order.Order
	failNext     int
	sawDeadlines []bool
}

func (f *fakeLedger) AppendOrder(ctx context.Context, o *order.Order) (ledger.RowRef, error) {
	_, hasDeadline := ctx.Deadline()
	f.sawDeadlines = append(f.sawDeadlines, hasDeadline)
	if f.failNext > 0 {
		f.failNext--
		return 0, &ledger.PersistError{Backend: "fake", Err: errors.New("boom")}
	}
	f.rows = append(f.rows, o)
	return ledger.RowRef(len(f.rows)), nil
}

// stuckLedger blocks until the append context expires.
type stuckLedger struct{}

func (stuckLedger) AppendOrder(ctx context.Context, _ *order.Order) (ledger.RowRef, error) {
	<-ctx.Done()
	return 0, &ledger.PersistError{Backend: "stuck", Err: ctx.Err()}
}

func (stuckLedger) Ping(context.Context) error { return nil }

func (f *fakeLedger) Ping(context.Context) error { return nil }

func newTestEngine(led ledger.Ledger) *Engine {
	return New(Config{
		Logger:  slog.New(slog.DiscardHandler),
		Metrics: metrics.New("convo_test"),
		Catalog: catalog.Default(),
		Ledger:  led,
	})
}

func TestOrderFlowParseConfirm(t *testing.T) {
	led := &fakeLedger{}
	e := newTestEngine(led)
	ctx := context.Background()

	resp := e.HandleMessage(ctx, 1, "maria", "2 cheese pouches and 1 bbq tub for Maria Santos, gcash")
	require.Equal(t, KindPreview, resp.Kind)
	assert.Contains(t, resp.Summary, "Maria Santos")
	assert.Contains(t, resp.Summary, "GCash")
	require.Len(t, resp.Buttons, 3)

	resp = e.HandleAction(ctx, 1, ActionConfirm)
	require.Equal(t, KindCommitted, resp.Kind)
	assert.Contains(t, resp.Summary, "Order Saved")
	assert.Contains(t, resp.Summary, "Total - ₱590")

	require.Len(t, led.rows, 1)
	assert.True(t, strings.HasPrefix(led.rows[0].Ref, "ORD-"))
	assert.Equal(t, "Maria Santos", led.rows[0].Meta.CustomerName)

	// Nothing pending anymore.
	resp = e.HandleAction(ctx, 1, ActionConfirm)
	assert.Equal(t, KindInfo, resp.Kind)
}

func TestParseErrorKeepsPendingOrder(t *testing.T) {
	led := &fakeLedger{}
	e := newTestEngine(led)
	ctx := context.Background()

	resp := e.HandleMessage(ctx, 1, "u", "2 cheese pouches")
	require.Equal(t, KindPreview, resp.Kind)

	resp = e.HandleMessage(ctx, 1, "u", "hello po, open pa ba kayo?")
	require.Equal(t, KindError, resp.Kind)
	assert.Contains(t, resp.Summary, "could not find any products")
	assert.Contains(t, resp.Summary, "hello po, open pa ba kayo?")

	// The earlier pending order survived the failed parse.
	resp = e.HandleAction(ctx, 1, ActionConfirm)
	assert.Equal(t, KindCommitted, resp.Kind)
	assert.Len(t, led.rows, 1)
}

func TestCancelDiscardsPending(t *testing.T) {
	led := &fakeLedger{}
	e := newTestEngine(led)
	ctx := context.Background()

	e.HandleMessage(ctx, 1, "u", "1 bbq tub")
	resp := e.HandleAction(ctx, 1, ActionCancel)
	assert.Equal(t, KindCancelled, resp.Kind)

	resp = e.HandleAction(ctx, 1, ActionConfirm)
	assert.Equal(t, KindInfo, resp.Kind)
	assert.Empty(t, led.rows)
}

func TestPersistFailureKeepsPendingForRetry(t *testing.T) {
	led := &fakeLedger{failNext: 2} // both the attempt and its retry fail
	e := newTestEngine(led)
	ctx := context.Background()

	e.HandleMessage(ctx, 1, "u", "2 cheese pouches for Maria, gcash")
	resp := e.HandleAction(ctx, 1, ActionConfirm)
	require.Equal(t, KindError, resp.Kind)
	assert.Contains(t, resp.Summary, "Nothing was lost")
	require.Len(t, resp.Buttons, 3)
	assert.Empty(t, led.rows)

	// The backend recovered; the same pending order commits.
	resp = e.HandleAction(ctx, 1, ActionConfirm)
	assert.Equal(t, KindCommitted, resp.Kind)
	assert.Len(t, led.rows, 1)
}

func TestConfirmBoundsEachPersistAttempt(t *testing.T) {
	led := &fakeLedger{}
	e := newTestEngine(led)
	ctx := context.Background()

	e.HandleMessage(ctx, 1, "u", "2 cheese pouches")
	resp := e.HandleAction(ctx, 1, ActionConfirm)
	require.Equal(t, KindCommitted, resp.Kind)

	require.Len(t, led.sawDeadlines, 1)
	assert.True(t, led.sawDeadlines[0])
}

func TestConfirmTimesOutOnStuckBackend(t *testing.T) {
	e := New(Config{
		Logger:         slog.New(slog.DiscardHandler),
		Metrics:        metrics.New("convo_test"),
		Catalog:        catalog.Default(),
		Ledger:         stuckLedger{},
		PersistTimeout: 20 * time.Millisecond,
	})
	ctx := context.Background()

	e.HandleMessage(ctx, 1, "u", "2 cheese pouches")

	start := time.Now()
	resp := e.HandleAction(ctx, 1, ActionConfirm)
	require.Equal(t, KindError, resp.Kind)
	assert.Contains(t, resp.Summary, "Nothing was lost")
	assert.Less(t, time.Since(start), 2*time.Second)

	// The pending order survived both timed-out attempts.
	resp = e.HandleAction(ctx, 1, ActionDetails)
	require.Equal(t, KindInfo, resp.Kind)
	assert.Contains(t, resp.Summary, "Product Breakdown")
}

func TestModificationAfterCommit(t *testing.T) {
	led := &fakeLedger{}
	e := newTestEngine(led)
	ctx := context.Background()

	e.HandleMessage(ctx, 1, "u", "2 cheese pouches, gcash")
	e.HandleAction(ctx, 1, ActionConfirm)

	resp := e.HandleMessage(ctx, 1, "u", "pa-add 1 bbq pouch")
	require.Equal(t, KindPreview, resp.Kind)
	assert.Contains(t, resp.Summary, "Pouch Cheese - 2")
	assert.Contains(t, resp.Summary, "Pouch BBQ - 1")

	resp = e.HandleAction(ctx, 1, ActionConfirm)
	require.Equal(t, KindCommitted, resp.Kind)
	require.Len(t, led.rows, 2)
	assert.Equal(t, 450, led.rows[1].Subtotal)
}

func TestRemovalEmptyingOrderIsRejected(t *testing.T) {
	led := &fakeLedger{}
	e := newTestEngine(led)
	ctx := context.Background()

	e.HandleMessage(ctx, 1, "u", "2 cheese pouches")
	e.HandleAction(ctx, 1, ActionConfirm)

	resp := e.HandleMessage(ctx, 1, "u", "patanggal na yung cheese pouch")
	require.Equal(t, KindError, resp.Kind)
	assert.Contains(t, resp.Summary, "leave the order empty")
}

func TestDetailsAction(t *testing.T) {
	led := &fakeLedger{}
	e := newTestEngine(led)
	ctx := context.Background()

	e.HandleMessage(ctx, 1, "u", "2 cheese pouches for Maria")
	resp := e.HandleAction(ctx, 1, ActionDetails)
	require.Equal(t, KindInfo, resp.Kind)
	assert.Contains(t, resp.Summary, "Product Breakdown")
	// Details on a pending order keeps the confirmation buttons available.
	assert.Len(t, resp.Buttons, 3)
}

func TestConversationsDoNotShareState(t *testing.T) {
	led := &fakeLedger{}
	e := newTestEngine(led)
	ctx := context.Background()

	e.HandleMessage(ctx, 1, "a", "2 cheese pouches")
	resp := e.HandleAction(ctx, 2, ActionConfirm)
	assert.Equal(t, KindInfo, resp.Kind)
	assert.Empty(t, led.rows)
}
