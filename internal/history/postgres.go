// Package history persists per-item delivery attempts to Postgres. The log
// is an audit trail: writes are best-effort and never gate delivery.
package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/notification-gateway/internal/dispatch"
)

const insertAttempt = `
INSERT INTO delivery_log (
id,
channel,
provider,
status,
detail,
payload_json,
created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7)
`

type PostgresRecorder struct {
	pool *pgxpool.Pool
}

func NewPostgresRecorder(pool *pgxpool.Pool) *PostgresRecorder {
	return &PostgresRecorder{pool: pool}
}

func (r *PostgresRecorder) RecordAttempt(ctx context.Context, a dispatch.Attempt) error {
	_, err := r.pool.Exec(ctx, insertAttempt,
		a.MessageID,
		string(a.Channel),
		string(a.Provider),
		a.Status,
		a.Detail,
		[]byte(a.Payload),
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery attempt: %w", err)
	}
	return nil
}

var ErrNotConfigured = errors.New("postgres recorder requires a non-nil pool")

func MustRecorder(pool *pgxpool.Pool) (*PostgresRecorder, error) {
	if pool == nil {
		return nil, ErrNotConfigured
	}
	return NewPostgresRecorder(pool), nil
}
