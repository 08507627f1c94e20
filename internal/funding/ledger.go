package funding

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"fundingme/internal/domain"
)

// DefaultDonationCapacity bounds the donation list when no explicit capacity is
// configured. Records are allocated at a fixed maximum size, so the list cannot
// grow without bound.
const DefaultDonationCapacity = 128

// RecordDonationInput carries one contribution request into the ledger.
type RecordDonationInput struct {
	ProjectID    string
	DonorID      string
	Amount       uint64
	DonorCountry string
}

// Ledger records accepted contributions and maintains the running custody
// balance, flipping the project to TargetReached when the target is met.
type Ledger struct {
	store    domain.ProjectStore
	capacity int
	logger   zerolog.Logger
}

// NewLedger constructs a Ledger. A non-positive capacity falls back to
// DefaultDonationCapacity.
func NewLedger(store domain.ProjectStore, capacity int, logger zerolog.Logger) *Ledger {
	if capacity <= 0 {
		capacity = DefaultDonationCapacity
	}
	return &Ledger{store: store, capacity: capacity, logger: logger}
}

// Record accepts one donation as a single atomic unit: the value transfer into
// custody, the appended donation, the balance increment and the target-crossing
// transition all commit together or not at all. The returned project reflects
// the post-donation balance and status.
func (l *Ledger) Record(ctx context.Context, input RecordDonationInput) (*domain.Donation, *domain.Project, error) {
	if strings.TrimSpace(input.DonorID) == "" {
		return nil, nil, domain.ErrInvalidIdentity
	}
	if input.Amount == 0 {
		return nil, nil, domain.ErrInvalidAmount
	}

	var (
		donation *domain.Donation
		snapshot *domain.Project
	)
	err := l.store.Update(ctx, input.ProjectID, func(tx domain.ProjectTx) error {
		project := tx.Project()
		if project.Status != domain.StatusActive {
			return fmt.Errorf("%w: donations require an active project, status is %s",
				domain.ErrInvalidProjectStatus, project.Status)
		}

		donations, err := tx.Donations()
		if err != nil {
			return err
		}
		// A settled donation on an active project means a refund fan-out is
		// underway; the project is resolving and accepts no new funds.
		for i := range donations {
			if donations[i].Settled {
				return fmt.Errorf("%w: refund in progress", domain.ErrInvalidProjectStatus)
			}
		}
		if len(donations) >= l.capacity {
			return domain.ErrCapacityExceeded
		}
		if input.Amount > math.MaxUint64-project.Balance {
			return domain.ErrArithmeticOverflow
		}

		if err := tx.Transfer(input.DonorID, project.CustodyAccountID(), input.Amount); err != nil {
			return err
		}

		next := &domain.Donation{
			ProjectID:    project.ID,
			Sequence:     uint64(len(donations)) + 1,
			DonorID:      input.DonorID,
			Amount:       input.Amount,
			DonorCountry: input.DonorCountry,
		}
		if err := tx.AppendDonation(next); err != nil {
			return err
		}

		newBalance := project.Balance + input.Amount
		if err := tx.SetBalance(newBalance); err != nil {
			return err
		}
		if newBalance >= project.FinancialTarget {
			if err := project.Transition(domain.StatusTargetReached); err != nil {
				return err
			}
			if err := tx.SetStatus(domain.StatusTargetReached); err != nil {
				return err
			}
		}

		donation = next
		after := *project
		after.Balance = newBalance
		snapshot = &after
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	l.logger.Info().
		Str("project_id", snapshot.ID).
		Str("donor_id", donation.DonorID).
		Uint64("amount", donation.Amount).
		Uint64("balance", snapshot.Balance).
		Str("status", string(snapshot.Status)).
		Msg("donation recorded")
	return donation, snapshot, nil
}

// Donations returns the project's donation list in sequence order.
func (l *Ledger) Donations(ctx context.Context, projectID string) ([]domain.Donation, error) {
	if _, err := l.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return l.store.ListDonations(ctx, projectID)
}
