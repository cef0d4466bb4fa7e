package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL container for testing and applies the
// schema. Returns a cleanup function that must be called after tests complete.
func setupTestDB(t *testing.T) (*Pool, func()) {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err, "failed to create pool")

	// The schema lives in embedded migrations, but importing the
	// migrations package here would create an import cycle, so the test
	// schema is applied directly.
	_, err = pool.Exec(ctx, testSchema)
	require.NoError(t, err, "failed to apply schema")

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

// testSchema mirrors internal/storage/migrations/postgres/001_wallet_lists.sql.
const testSchema = `
CREATE TABLE IF NOT EXISTS wallet_lists (
    list_id    TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS wallet_list_entries (
    list_id     TEXT NOT NULL REFERENCES wallet_lists(list_id) ON DELETE CASCADE,
    address     TEXT NOT NULL,
    note        TEXT NOT NULL DEFAULT '',
    added_at    BIGINT NOT NULL,
    pnl         DOUBLE PRECISION NOT NULL DEFAULT 0,
    risk_score  INTEGER NOT NULL DEFAULT 0,
    buy_amount  DOUBLE PRECISION NOT NULL DEFAULT 0,
    sell_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
    PRIMARY KEY (list_id, address)
);

CREATE INDEX IF NOT EXISTS idx_wallet_list_entries_added_at
    ON wallet_list_entries (list_id, added_at);
`
