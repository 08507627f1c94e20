package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"fundingme/internal/domain"
)

// AccountStorePG implements domain.AccountStore using PostgreSQL.
type AccountStorePG struct {
	pool *pgxpool.Pool
}

// NewAccountStore creates a new account store.
func NewAccountStore(pool *pgxpool.Pool) *AccountStorePG {
	return &AccountStorePG{pool: pool}
}

// Deposit credits an account, creating it when absent, and returns the new balance.
func (r *AccountStorePG) Deposit(ctx context.Context, accountID string, amount uint64) (uint64, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO accounts (id, balance) VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET balance = accounts.balance + EXCLUDED.balance, updated_at = NOW()
RETURNING balance;
`, accountID, int64(amount))
	var balance int64
	if err := row.Scan(&balance); err != nil {
		return 0, err
	}
	return uint64(balance), nil
}

// Balance returns the account's current balance. An account that was never
// credited reads as zero.
func (r *AccountStorePG) Balance(ctx context.Context, accountID string) (uint64, error) {
	row := r.pool.QueryRow(ctx, `SELECT COALESCE(
(SELECT balance FROM accounts WHERE id = $1), 0);`, accountID)
	var balance int64
	if err := row.Scan(&balance); err != nil {
		return 0, err
	}
	return uint64(balance), nil
}

var _ domain.AccountStore = (*AccountStorePG)(nil)
