package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ctxKey int

const pinnedConnKey ctxKey = iota

// WithConn pins a dedicated pool connection in the context. Repositories route
// statements through the pinned connection instead of the shared pool, keeping
// a multi-statement write sequence on one session.
func WithConn(ctx context.Context, conn *pgxpool.Conn) context.Context {
	return context.WithValue(ctx, pinnedConnKey, conn)
}

// ConnFromContext returns the pinned connection, or nil when the context
// carries none.
func ConnFromContext(ctx context.Context) *pgxpool.Conn {
	conn, _ := ctx.Value(pinnedConnKey).(*pgxpool.Conn)
	return conn
}
