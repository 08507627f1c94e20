package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fundingme/internal/domain"
)

// MemStore is an in-memory implementation of the storage interfaces with the
// same transactional contract as the Postgres adapter: Update serializes per
// store and commits all staged mutations or none. Accounts marked closed
// reject incoming transfers, which lets tests simulate partial refund
// failures.
type MemStore struct {
	mu        sync.Mutex
	projects  map[string]*domain.Project
	donations map[string][]domain.Donation
	accounts  map[string]uint64
	closed    map[string]bool
}

// NewMemStore creates an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		projects:  make(map[string]*domain.Project),
		donations: make(map[string][]domain.Donation),
		accounts:  make(map[string]uint64),
		closed:    make(map[string]bool),
	}
}

// Deposit credits an account and returns the new balance.
func (s *MemStore) Deposit(_ context.Context, accountID string, amount uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[accountID] += amount
	return s.accounts[accountID], nil
}

// Balance returns the account's current balance; absent accounts read as zero.
func (s *MemStore) Balance(_ context.Context, accountID string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[accountID], nil
}

// Fund credits an account without the AccountStore ceremony.
func (s *MemStore) Fund(accountID string, amount uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[accountID] += amount
}

// AccountBalance reads an account balance without the AccountStore ceremony.
func (s *MemStore) AccountBalance(accountID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[accountID]
}

// CloseAccount makes subsequent transfers into the account fail.
func (s *MemStore) CloseAccount(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed[accountID] = true
}

// ReopenAccount lifts a previous CloseAccount.
func (s *MemStore) ReopenAccount(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.closed, accountID)
}

func (s *MemStore) CreateProject(_ context.Context, project *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[project.ID]; ok {
		return domain.ErrDuplicateProject
	}
	now := time.Now().UTC()
	stored := *project
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.projects[project.ID] = &stored
	return nil
}

func (s *MemStore) GetProject(_ context.Context, projectID string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.projects[projectID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *stored
	return &clone, nil
}

func (s *MemStore) ListDonations(_ context.Context, projectID string) ([]domain.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Donation(nil), s.donations[projectID]...), nil
}

func (s *MemStore) Update(_ context.Context, projectID string, fn func(tx domain.ProjectTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.projects[projectID]
	if !ok {
		return domain.ErrNotFound
	}

	clone := *stored
	tx := &memTx{
		store:     s,
		project:   &clone,
		donations: append([]domain.Donation(nil), s.donations[projectID]...),
		accounts:  make(map[string]uint64, len(s.accounts)),
	}
	for id, bal := range s.accounts {
		tx.accounts[id] = bal
	}

	if err := fn(tx); err != nil {
		return err
	}

	tx.project.UpdatedAt = time.Now().UTC()
	s.projects[projectID] = tx.project
	s.donations[projectID] = tx.donations
	s.accounts = tx.accounts
	return nil
}

// FundingSummary computes the same aggregates as the Postgres stats store.
func (s *MemStore) FundingSummary(_ context.Context) (*domain.FundingSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := &domain.FundingSummary{}
	for _, p := range s.projects {
		summary.ProjectsTotal++
		switch p.Status {
		case domain.StatusSuccess:
			summary.ProjectsSuccess++
		case domain.StatusFailed:
			summary.ProjectsFailed++
		default:
			summary.ProjectsActive++
		}
		summary.CustodyTotal += p.Balance
	}
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, list := range s.donations {
		summary.DonationsTotal += int64(len(list))
		for _, d := range list {
			if d.CreatedAt.After(cutoff) {
				summary.Donations24h++
			}
		}
	}
	return summary, nil
}

type memTx struct {
	store     *MemStore
	project   *domain.Project
	donations []domain.Donation
	accounts  map[string]uint64
}

func (tx *memTx) Project() *domain.Project {
	clone := *tx.project
	return &clone
}

func (tx *memTx) Donations() ([]domain.Donation, error) {
	return append([]domain.Donation(nil), tx.donations...), nil
}

func (tx *memTx) AppendDonation(donation *domain.Donation) error {
	stored := *donation
	stored.CreatedAt = time.Now().UTC()
	tx.donations = append(tx.donations, stored)
	return nil
}

func (tx *memTx) MarkSettled(sequence uint64) error {
	for i := range tx.donations {
		if tx.donations[i].Sequence == sequence {
			tx.donations[i].Settled = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (tx *memTx) SetBalance(balance uint64) error {
	tx.project.Balance = balance
	return nil
}

func (tx *memTx) SetStatus(status domain.ProjectStatus) error {
	tx.project.Status = status
	return nil
}

func (tx *memTx) Transfer(from, to string, amount uint64) error {
	if tx.store.closed[to] {
		return fmt.Errorf("%w: account %s is closed", domain.ErrTransferFailed, to)
	}
	if tx.accounts[from] < amount {
		return fmt.Errorf("%w: account %s holds %d, needs %d",
			domain.ErrTransferFailed, from, tx.accounts[from], amount)
	}
	tx.accounts[from] -= amount
	tx.accounts[to] += amount
	return nil
}

var (
	_ domain.ProjectStore = (*MemStore)(nil)
	_ domain.AccountStore = (*MemStore)(nil)
	_ domain.StatsStore   = (*MemStore)(nil)
)
