// Package ledger persists confirmed orders to the business's ledger of
// record. The primary backend is a Google Sheets worksheet; a local SQLite
// file serves when no spreadsheet is configured.
package ledger

import (
	"context"
	"fmt"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/order"
)

// RowRef identifies where in the ledger an order landed (spreadsheet row
// number or local rowid).
type RowRef int64

// Ledger appends confirmed orders to durable storage.
type Ledger interface {
	AppendOrder(ctx context.Context, o *order.Order) (RowRef, error)
	Ping(ctx context.Context) error
}

// RowProber is implemented by backends that can report the next free row,
// used by the status command.
type RowProber interface {
	NextRow(ctx context.Context) (int64, error)
}

// PersistError wraps a write failure. The conversation engine keeps the
// pending order when it sees one so the customer can retry confirmation.
type PersistError struct {
	Backend string
	Err     error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("ledger %s: persist failed: %v", e.Backend, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
