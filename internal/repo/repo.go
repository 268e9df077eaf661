// Package repo archives raw traffic and committed orders in Postgres for
// later analysis. The archive is best effort: a nil *Repo is a valid no-op,
// and insert failures never block the conversation.
package repo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/order"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id              BIGSERIAL PRIMARY KEY,
	conversation_id BIGINT NOT NULL,
	sender          TEXT NOT NULL,
	body            TEXT NOT NULL,
	received_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS orders (
	id              BIGSERIAL PRIMARY KEY,
	ref             TEXT NOT NULL,
	conversation_id BIGINT NOT NULL,
	customer        TEXT NOT NULL,
	payment         TEXT NOT NULL,
	location        TEXT NOT NULL,
	total           BIGINT NOT NULL,
	ledger_row      BIGINT NOT NULL,
	committed_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Repo wraps a pgx pool. All methods are safe on a nil receiver.
type Repo struct {
	logger *slog.Logger
	pool   *pgxpool.Pool
}

// New connects to Postgres and ensures the archive tables exist.
func New(ctx context.Context, logger *slog.Logger, databaseURL string) (*Repo, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgx pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgx ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Repo{logger: logger.With("component", "repo"), pool: pool}, nil
}

// InsertMessage records an incoming message. Failures are logged, not
// returned.
func (r *Repo) InsertMessage(ctx context.Context, convID int64, sender, body string) {
	if r == nil {
		return
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO messages (conversation_id, sender, body) VALUES ($1, $2, $3)`,
		convID, sender, body)
	if err != nil {
		r.logger.Warn("insert message failed", "error", err)
	}
}

// InsertOrder records a committed order. Failures are logged, not returned.
func (r *Repo) InsertOrder(ctx context.Context, convID int64, o *order.Order, row int64) {
	if r == nil {
		return
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO orders (ref, conversation_id, customer, payment, location, total, ledger_row)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.Ref, convID, o.Meta.CustomerName, string(o.Meta.Payment), string(o.Meta.Location), o.GrandTotal, row)
	if err != nil {
		r.logger.Warn("insert order failed", "error", err)
	}
}

// Close releases the pool.
func (r *Repo) Close() {
	if r == nil {
		return
	}
	r.pool.Close()
}
