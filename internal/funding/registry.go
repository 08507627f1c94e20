package funding

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"fundingme/internal/domain"
)

// Registry creates and addresses project records. The deterministic address
// scheme admits exactly one project record per owner, and the registry enforces
// that uniqueness explicitly at create time.
type Registry struct {
	store  domain.ProjectStore
	logger zerolog.Logger
}

// NewRegistry constructs a Registry on top of a project store.
func NewRegistry(store domain.ProjectStore, logger zerolog.Logger) *Registry {
	return &Registry{store: store, logger: logger}
}

// Create registers a new Active project with a zero balance. It fails with
// domain.ErrDuplicateProject when the owner's derived address is already taken.
func (r *Registry) Create(ctx context.Context, ownerID, name string, financialTarget uint64) (*domain.Project, error) {
	project, err := domain.NewProject(ownerID, name, financialTarget)
	if err != nil {
		return nil, err
	}

	// Explicit uniqueness check; the store's constraint is the backstop for
	// two concurrent creates racing past this read.
	switch _, err := r.store.GetProject(ctx, project.ID); {
	case err == nil:
		return nil, domain.ErrDuplicateProject
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	if err := r.store.CreateProject(ctx, project); err != nil {
		return nil, err
	}

	r.logger.Info().
		Str("project_id", project.ID).
		Str("owner_id", project.OwnerID).
		Uint64("financial_target", project.FinancialTarget).
		Msg("project created")
	return project, nil
}

// Lookup fetches a project by its derived address. It returns
// domain.ErrNotFound when no record exists.
func (r *Registry) Lookup(ctx context.Context, projectID string) (*domain.Project, error) {
	return r.store.GetProject(ctx, projectID)
}
