package funding

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"fundingme/internal/domain"
)

// Resolution closes a project exactly once: refunding every recorded donor when
// the target was never met, or paying the full custody balance to the owner
// when it was. Anyone may trigger the refund path; only the owner may trigger
// the payout path.
type Resolution struct {
	store  domain.ProjectStore
	logger zerolog.Logger
}

// NewResolution constructs a Resolution engine on top of a project store.
func NewResolution(store domain.ProjectStore, logger zerolog.Logger) *Resolution {
	return &Resolution{store: store, logger: logger}
}

// Resolve performs the terminal action for a project and returns the terminal
// status it reached. Resolving an already-terminal project fails with
// domain.ErrInvalidProjectStatus. A refund run interrupted by a transfer
// failure surfaces domain.ErrRefundFailed and may be retried; donations already
// refunded stay settled and are skipped.
func (e *Resolution) Resolve(ctx context.Context, callerID, projectID string) (domain.ProjectStatus, error) {
	project, err := e.store.GetProject(ctx, projectID)
	if err != nil {
		return "", err
	}

	switch project.Status {
	case domain.StatusActive:
		return e.refund(ctx, callerID, projectID)
	case domain.StatusTargetReached:
		return e.payout(ctx, callerID, projectID)
	default:
		return "", fmt.Errorf("%w: project already resolved (%s)",
			domain.ErrInvalidProjectStatus, project.Status)
	}
}

// refund walks the donation list in sequence order, moving each unsettled
// donation back to its donor. Every step is its own atomic unit (transfer plus
// settled mark), so a partial failure never loses or duplicates funds: the
// retry resumes at the first unsettled donation. The step that finds nothing
// left to refund zeroes the balance and marks the project Failed.
func (e *Resolution) refund(ctx context.Context, callerID, projectID string) (domain.ProjectStatus, error) {
	for {
		var (
			done     bool
			refunded domain.Donation
		)
		err := e.store.Update(ctx, projectID, func(tx domain.ProjectTx) error {
			project := tx.Project()
			if project.Status != domain.StatusActive {
				return fmt.Errorf("%w: refund requires an active project, status is %s",
					domain.ErrInvalidProjectStatus, project.Status)
			}

			donations, err := tx.Donations()
			if err != nil {
				return err
			}
			var next *domain.Donation
			for i := range donations {
				if !donations[i].Settled {
					next = &donations[i]
					break
				}
			}

			if next == nil {
				if err := tx.SetBalance(0); err != nil {
					return err
				}
				if err := tx.SetStatus(domain.StatusFailed); err != nil {
					return err
				}
				done = true
				return nil
			}

			if err := tx.Transfer(project.CustodyAccountID(), next.DonorID, next.Amount); err != nil {
				return fmt.Errorf("%w: donor %s sequence %d: %w",
					domain.ErrRefundFailed, next.DonorID, next.Sequence, err)
			}
			if err := tx.MarkSettled(next.Sequence); err != nil {
				return err
			}
			refunded = *next
			return nil
		})
		if err != nil {
			return "", err
		}
		if done {
			e.logger.Info().
				Str("project_id", projectID).
				Str("caller_id", callerID).
				Msg("project resolved: failed, donors refunded")
			return domain.StatusFailed, nil
		}
		e.logger.Debug().
			Str("project_id", projectID).
			Str("donor_id", refunded.DonorID).
			Uint64("sequence", refunded.Sequence).
			Uint64("amount", refunded.Amount).
			Msg("donation refunded")
	}
}

// payout moves the entire custody balance to the owner in one transfer and
// marks the project Success. The transfer, the settled marks, the balance reset
// and the status flip commit together or not at all.
func (e *Resolution) payout(ctx context.Context, callerID, projectID string) (domain.ProjectStatus, error) {
	var paid uint64
	err := e.store.Update(ctx, projectID, func(tx domain.ProjectTx) error {
		project := tx.Project()
		if project.Status != domain.StatusTargetReached {
			return fmt.Errorf("%w: payout requires a target-reached project, status is %s",
				domain.ErrInvalidProjectStatus, project.Status)
		}
		if callerID != project.OwnerID {
			return fmt.Errorf("%w: only the owner may trigger the payout", domain.ErrUnauthorized)
		}

		if err := tx.Transfer(project.CustodyAccountID(), project.OwnerID, project.Balance); err != nil {
			return fmt.Errorf("%w: owner %s: %w", domain.ErrPayoutFailed, project.OwnerID, err)
		}

		donations, err := tx.Donations()
		if err != nil {
			return err
		}
		for _, donation := range donations {
			if donation.Settled {
				continue
			}
			if err := tx.MarkSettled(donation.Sequence); err != nil {
				return err
			}
		}

		if err := tx.SetBalance(0); err != nil {
			return err
		}
		if err := tx.SetStatus(domain.StatusSuccess); err != nil {
			return err
		}
		paid = project.Balance
		return nil
	})
	if err != nil {
		return "", err
	}

	e.logger.Info().
		Str("project_id", projectID).
		Str("caller_id", callerID).
		Uint64("paid", paid).
		Msg("project resolved: success, owner paid")
	return domain.StatusSuccess, nil
}
