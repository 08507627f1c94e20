package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"fundingme/internal/domain"
)

// StatsStorePG computes funding aggregates using PostgreSQL.
type StatsStorePG struct {
	pool *pgxpool.Pool
}

// NewStatsStore creates a new stats store.
func NewStatsStore(pool *pgxpool.Pool) *StatsStorePG {
	return &StatsStorePG{pool: pool}
}

// FundingSummary returns service-wide counters for the stats endpoint.
func (r *StatsStorePG) FundingSummary(ctx context.Context) (*domain.FundingSummary, error) {
	row := r.pool.QueryRow(ctx, `
SELECT
    (SELECT COUNT(*) FROM projects),
    (SELECT COUNT(*) FROM projects WHERE status IN ('active', 'target_reached')),
    (SELECT COUNT(*) FROM projects WHERE status = 'success'),
    (SELECT COUNT(*) FROM projects WHERE status = 'failed'),
    (SELECT COALESCE(SUM(balance), 0) FROM projects),
    (SELECT COUNT(*) FROM donations),
    (SELECT COUNT(*) FROM donations WHERE created_at >= NOW() - INTERVAL '24 hours');
`)

	var (
		summary domain.FundingSummary
		custody int64
	)
	if err := row.Scan(
		&summary.ProjectsTotal,
		&summary.ProjectsActive,
		&summary.ProjectsSuccess,
		&summary.ProjectsFailed,
		&custody,
		&summary.DonationsTotal,
		&summary.Donations24h,
	); err != nil {
		return nil, err
	}
	summary.CustodyTotal = uint64(custody)
	return &summary, nil
}

var _ domain.StatsStore = (*StatsStorePG)(nil)
