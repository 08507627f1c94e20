package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
    id               TEXT PRIMARY KEY,
    owner_id         TEXT NOT NULL UNIQUE,
    name             TEXT NOT NULL,
    financial_target BIGINT NOT NULL CHECK (financial_target > 0),
    balance          BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
    status           TEXT NOT NULL,
    bump             SMALLINT NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS donations (
    project_id    TEXT NOT NULL REFERENCES projects (id),
    sequence      BIGINT NOT NULL,
    donor_id      TEXT NOT NULL,
    amount        BIGINT NOT NULL CHECK (amount > 0),
    donor_country TEXT NOT NULL DEFAULT '',
    settled       BOOLEAN NOT NULL DEFAULT FALSE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (project_id, sequence)
);

CREATE INDEX IF NOT EXISTS donations_created_at_idx ON donations (created_at);

CREATE TABLE IF NOT EXISTS accounts (
    id         TEXT PRIMARY KEY,
    balance    BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// EnsureSchema creates the service tables when they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
