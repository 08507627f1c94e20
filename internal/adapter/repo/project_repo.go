package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fundingme/internal/domain"
)

// ProjectStorePG implements domain.ProjectStore using PostgreSQL. Update locks
// the project row for the duration of the transaction, so concurrent donates
// and resolves against the same project serialize on the database.
type ProjectStorePG struct {
	pool *pgxpool.Pool
}

// NewProjectStore creates a new project store.
func NewProjectStore(pool *pgxpool.Pool) *ProjectStorePG {
	return &ProjectStorePG{pool: pool}
}

const projectColumns = `id, owner_id, name, financial_target, balance, status, bump, created_at, updated_at`

const selectDonations = `
SELECT project_id, sequence, donor_id, amount, donor_country, settled, created_at
FROM donations
WHERE project_id = $1
ORDER BY sequence;
`

// CreateProject inserts a new project record.
func (r *ProjectStorePG) CreateProject(ctx context.Context, project *domain.Project) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO projects (id, owner_id, name, financial_target, balance, status, bump)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`, project.ID, project.OwnerID, project.Name, int64(project.FinancialTarget), int64(project.Balance), string(project.Status), int16(project.Bump))
	if isUniqueViolation(err) {
		return domain.ErrDuplicateProject
	}
	return err
}

// GetProject fetches a project by its derived address.
func (r *ProjectStorePG) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, projectID)
	return scanProject(row)
}

// ListDonations returns the project's donations in sequence order.
func (r *ProjectStorePG) ListDonations(ctx context.Context, projectID string) ([]domain.Donation, error) {
	rows, err := r.pool.Query(ctx, selectDonations, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDonations(rows)
}

// Update runs fn against a row-locked view of one project inside a single
// transaction. All mutations made through the ProjectTx commit together.
func (r *ProjectStorePG) Update(ctx context.Context, projectID string, fn func(tx domain.ProjectTx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1 FOR UPDATE`, projectID)
	project, err := scanProject(row)
	if err != nil {
		return err
	}

	if err := fn(&projectTxPG{ctx: ctx, tx: tx, project: project}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type projectTxPG struct {
	ctx     context.Context
	tx      pgx.Tx
	project *domain.Project
}

func (p *projectTxPG) Project() *domain.Project {
	clone := *p.project
	return &clone
}

func (p *projectTxPG) Donations() ([]domain.Donation, error) {
	rows, err := p.tx.Query(p.ctx, selectDonations, p.project.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDonations(rows)
}

func (p *projectTxPG) AppendDonation(donation *domain.Donation) error {
	_, err := p.tx.Exec(p.ctx, `
INSERT INTO donations (project_id, sequence, donor_id, amount, donor_country, settled)
VALUES ($1, $2, $3, $4, $5, FALSE);
`, donation.ProjectID, int64(donation.Sequence), donation.DonorID, int64(donation.Amount), donation.DonorCountry)
	return err
}

func (p *projectTxPG) MarkSettled(sequence uint64) error {
	tag, err := p.tx.Exec(p.ctx, `
UPDATE donations SET settled = TRUE WHERE project_id = $1 AND sequence = $2;
`, p.project.ID, int64(sequence))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (p *projectTxPG) SetBalance(balance uint64) error {
	_, err := p.tx.Exec(p.ctx, `
UPDATE projects SET balance = $2, updated_at = NOW() WHERE id = $1;
`, p.project.ID, int64(balance))
	if err != nil {
		return err
	}
	p.project.Balance = balance
	return nil
}

func (p *projectTxPG) SetStatus(status domain.ProjectStatus) error {
	_, err := p.tx.Exec(p.ctx, `
UPDATE projects SET status = $2, updated_at = NOW() WHERE id = $1;
`, p.project.ID, string(status))
	if err != nil {
		return err
	}
	p.project.Status = status
	return nil
}

// Transfer debits the source account and credits the destination inside the
// surrounding transaction. The debit requires sufficient funds; a missing or
// underfunded source fails with domain.ErrTransferFailed and nothing moves.
func (p *projectTxPG) Transfer(from, to string, amount uint64) error {
	tag, err := p.tx.Exec(p.ctx, `
UPDATE accounts SET balance = balance - $2, updated_at = NOW()
WHERE id = $1 AND balance >= $2;
`, from, int64(amount))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s missing or underfunded", domain.ErrTransferFailed, from)
	}
	_, err = p.tx.Exec(p.ctx, `
INSERT INTO accounts (id, balance) VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET balance = accounts.balance + EXCLUDED.balance, updated_at = NOW();
`, to, int64(amount))
	return err
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var (
		p      domain.Project
		target int64
		bal    int64
		status string
		bump   int16
	)
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &target, &bal, &status, &bump, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	parsed, err := domain.ParseProjectStatus(status)
	if err != nil {
		return nil, err
	}
	p.FinancialTarget = uint64(target)
	p.Balance = uint64(bal)
	p.Status = parsed
	p.Bump = uint8(bump)
	return &p, nil
}

func collectDonations(rows pgx.Rows) ([]domain.Donation, error) {
	var items []domain.Donation
	for rows.Next() {
		var (
			d        domain.Donation
			sequence int64
			amount   int64
		)
		if err := rows.Scan(&d.ProjectID, &sequence, &d.DonorID, &amount, &d.DonorCountry, &d.Settled, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Sequence = uint64(sequence)
		d.Amount = uint64(amount)
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ domain.ProjectStore = (*ProjectStorePG)(nil)
