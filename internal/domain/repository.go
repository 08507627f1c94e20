package domain

import "context"

// ProjectStore persists projects and their donation lists.
type ProjectStore interface {
	// CreateProject inserts a new project record, failing with
	// ErrDuplicateProject when the owner's derived address is already taken.
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, projectID string) (*Project, error)
	// ListDonations returns the project's donations in sequence order.
	ListDonations(ctx context.Context, projectID string) ([]Donation, error)
	// Update runs fn against a transaction-consistent, exclusively locked view
	// of one project. Every mutation made through the ProjectTx commits
	// together or not at all.
	Update(ctx context.Context, projectID string, fn func(tx ProjectTx) error) error
}

// ProjectTx is the mutable view of a single project inside one Update call.
type ProjectTx interface {
	// Project returns the locked project record. Mutations go through the
	// setters below, never through the returned struct.
	Project() *Project
	// Donations returns the project's donations in sequence order, consistent
	// with the transaction.
	Donations() ([]Donation, error)
	AppendDonation(donation *Donation) error
	MarkSettled(sequence uint64) error
	SetBalance(balance uint64) error
	SetStatus(status ProjectStatus) error
	// Transfer moves amount between value accounts as one atomic step of the
	// surrounding transaction. It fails with ErrTransferFailed when the source
	// account is missing or underfunded.
	Transfer(from, to string, amount uint64) error
}

// AccountStore exposes the treasury accounts that back the transfer primitive.
type AccountStore interface {
	Deposit(ctx context.Context, accountID string, amount uint64) (uint64, error)
	Balance(ctx context.Context, accountID string) (uint64, error)
}

// FundingSummary aggregates service-wide counters for the stats endpoint.
type FundingSummary struct {
	ProjectsTotal   int64
	ProjectsActive  int64
	ProjectsSuccess int64
	ProjectsFailed  int64
	CustodyTotal    uint64
	DonationsTotal  int64
	Donations24h    int64
}

// StatsStore computes funding aggregates.
type StatsStore interface {
	FundingSummary(ctx context.Context) (*FundingSummary, error)
}
