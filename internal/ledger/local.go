package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/order"
)

const localSchema = `
CREATE TABLE IF NOT EXISTS orders (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	ref         TEXT NOT NULL UNIQUE,
	created_at  TEXT NOT NULL,
	customer    TEXT NOT NULL,
	assignee    TEXT NOT NULL,
	payment     TEXT NOT NULL,
	location    TEXT NOT NULL,
	status      TEXT NOT NULL,
	subtotal    INTEGER NOT NULL,
	discount    INTEGER NOT NULL,
	shipping    INTEGER NOT NULL,
	total       INTEGER NOT NULL,
	items       TEXT NOT NULL,
	raw_message TEXT NOT NULL
);`

// LocalLedger keeps confirmed orders in a SQLite file. It stands in for the
// spreadsheet when no Google credentials are configured, so the bot is still
// usable in development or offline.
type LocalLedger struct {
	logger *slog.Logger
	db     *sql.DB
}

// NewLocal opens (creating if needed) the ledger database at path.
func NewLocal(ctx context.Context, logger *slog.Logger, path string) (*LocalLedger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, localSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &LocalLedger{
		logger: logger.With("component", "ledger", "backend", "sqlite"),
		db:     db,
	}, nil
}

// AppendOrder inserts the order and returns its rowid.
func (l *LocalLedger) AppendOrder(ctx context.Context, o *order.Order) (RowRef, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return 0, &PersistError{Backend: "sqlite", Err: err}
	}
	res, err := l.db.ExecContext(ctx, `
		INSERT INTO orders (ref, created_at, customer, assignee, payment, location, status,
		                    subtotal, discount, shipping, total, items, raw_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.Ref,
		time.Now().In(manila).Format(time.RFC3339),
		o.Meta.CustomerName,
		o.Meta.Assignee,
		string(o.Meta.Payment),
		string(o.Meta.Location),
		o.Status,
		o.Subtotal,
		o.DiscountAmount,
		o.Meta.ShippingFee,
		o.GrandTotal,
		string(items),
		o.RawMessage,
	)
	if err != nil {
		return 0, &PersistError{Backend: "sqlite", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &PersistError{Backend: "sqlite", Err: err}
	}

	l.logger.Info("order written", "ref", o.Ref, "rowid", id)
	return RowRef(id), nil
}

// Ping checks the database connection.
func (l *LocalLedger) Ping(ctx context.Context) error {
	return l.db.PingContext(ctx)
}

// Close releases the underlying database handle.
func (l *LocalLedger) Close() error {
	return l.db.Close()
}
