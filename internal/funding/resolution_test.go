package funding

import (
	"context"
	"errors"
	"testing"

	"fundingme/internal/domain"
	"fundingme/internal/testutil"
)

func donate(t *testing.T, ledger *Ledger, projectID, donorID string, amount uint64) {
	t.Helper()
	if _, _, err := ledger.Record(context.Background(), RecordDonationInput{
		ProjectID: projectID,
		DonorID:   donorID,
		Amount:    amount,
	}); err != nil {
		t.Fatalf("Record(%s, %d) returned error: %v", donorID, amount, err)
	}
}

func TestResolveRefundsSingleDonor(t *testing.T) {
	store := testutil.NewMemStore()
	project := setupProject(t, store, 1000)
	ledger := NewLedger(store, 0, testLogger())
	resolution := NewResolution(store, testLogger())
	ctx := context.Background()

	store.Fund("donor-a", 300)
	donate(t, ledger, project.ID, "donor-a", 300)

	// Any caller may unstick a stalled campaign.
	status, err := resolution.Resolve(ctx, "bystander", project.ID)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if status != domain.StatusFailed {
		t.Fatalf("expected failed, got %s", status)
	}

	if got := store.AccountBalance("donor-a"); got != 300 {
		t.Fatalf("donor refunded %d, want 300", got)
	}
	if got := store.AccountBalance(project.CustodyAccountID()); got != 0 {
		t.Fatalf("custody still holds %d", got)
	}

	stored, _ := store.GetProject(ctx, project.ID)
	if stored.Balance != 0 || stored.Status != domain.StatusFailed {
		t.Fatalf("unexpected terminal state: balance=%d status=%s", stored.Balance, stored.Status)
	}
	donations, _ := store.ListDonations(ctx, project.ID)
	for _, d := range donations {
		if !d.Settled {
			t.Fatalf("donation %d not settled after resolution", d.Sequence)
		}
	}
}

func TestResolvePaysOutOwner(t *testing.T) {
	store := testutil.NewMemStore()
	project := setupProject(t, store, 1000)
	ledger := NewLedger(store, 0, testLogger())
	resolution := NewResolution(store, testLogger())
	ctx := context.Background()

	store.Fund("donor-a", 400)
	store.Fund("donor-b", 700)
	donate(t, ledger, project.ID, "donor-a", 400)
	donate(t, ledger, project.ID, "donor-b", 700)

	status, err := resolution.Resolve(ctx, "owner-1", project.ID)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if status != domain.StatusSuccess {
		t.Fatalf("expected success, got %s", status)
	}

	if got := store.AccountBalance("owner-1"); got != 1100 {
		t.Fatalf("owner received %d, want 1100", got)
	}
	if got := store.AccountBalance(project.CustodyAccountID()); got != 0 {
		t.Fatalf("custody still holds %d", got)
	}

	stored, _ := store.GetProject(ctx, project.ID)
	if stored.Balance != 0 || stored.Status != domain.StatusSuccess {
		t.Fatalf("unexpected terminal state: balance=%d status=%s", stored.Balance, stored.Status)
	}
	donations, _ := store.ListDonations(ctx, project.ID)
	for _, d := range donations {
		if !d.Settled {
			t.Fatalf("donation %d not settled after payout", d.Sequence)
		}
	}
}

func TestResolvePayoutRequiresOwner(t *testing.T) {
	store := testutil.NewMemStore()
	project := setupProject(t, store, 1000)
	ledger := NewLedger(store, 0, testLogger())
	resolution := NewResolution(store, testLogger())
	ctx := context.Background()

	store.Fund("donor-a", 1100)
	donate(t, ledger, project.ID, "donor-a", 1100)

	if _, err := resolution.Resolve(ctx, "bystander", project.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	stored, _ := store.GetProject(ctx, project.ID)
	if stored.Status != domain.StatusTargetReached || stored.Balance != 1100 {
		t.Fatalf("state changed by unauthorized resolve: balance=%d status=%s", stored.Balance, stored.Status)
	}
}

func TestResolveTerminalRejected(t *testing.T) {
	store := testutil.NewMemStore()
	project := setupProject(t, store, 1000)
	resolution := NewResolution(store, testLogger())
	ctx := context.Background()

	if _, err := resolution.Resolve(ctx, "anyone", project.ID); err != nil {
		t.Fatalf("first Resolve returned error: %v", err)
	}
	if _, err := resolution.Resolve(ctx, "anyone", project.ID); !errors.Is(err, domain.ErrInvalidProjectStatus) {
		t.Fatalf("expected ErrInvalidProjectStatus, got %v", err)
	}

	stored, _ := store.GetProject(ctx, project.ID)
	if stored.Status != domain.StatusFailed {
		t.Fatalf("terminal status revisited: %s", stored.Status)
	}
}

func TestResolveRefundPartialFailureRetry(t *testing.T) {
	store := testutil.NewMemStore()
	project := setupProject(t, store, 1000)
	ledger := NewLedger(store, 0, testLogger())
	resolution := NewResolution(store, testLogger())
	ctx := context.Background()

	store.Fund("donor-a", 200)
	store.Fund("donor-b", 300)
	donate(t, ledger, project.ID, "donor-a", 200)
	donate(t, ledger, project.ID, "donor-b", 300)

	store.CloseAccount("donor-b")

	if _, err := resolution.Resolve(ctx, "anyone", project.ID); !errors.Is(err, domain.ErrRefundFailed) {
		t.Fatalf("expected ErrRefundFailed, got %v", err)
	}

	// The first donor's refund stays settled; the project is not stuck terminal.
	stored, _ := store.GetProject(ctx, project.ID)
	if stored.Status != domain.StatusActive {
		t.Fatalf("status flipped despite failed refund: %s", stored.Status)
	}
	donations, _ := store.ListDonations(ctx, project.ID)
	if !donations[0].Settled || donations[1].Settled {
		t.Fatalf("unexpected settled flags: %v %v", donations[0].Settled, donations[1].Settled)
	}
	if got := store.AccountBalance("donor-a"); got != 200 {
		t.Fatalf("donor-a refunded %d, want 200", got)
	}

	store.ReopenAccount("donor-b")

	status, err := resolution.Resolve(ctx, "anyone", project.ID)
	if err != nil {
		t.Fatalf("retry Resolve returned error: %v", err)
	}
	if status != domain.StatusFailed {
		t.Fatalf("expected failed, got %s", status)
	}
	if got := store.AccountBalance("donor-b"); got != 300 {
		t.Fatalf("donor-b refunded %d, want 300", got)
	}
	// Conservation: everything that entered custody left it exactly once.
	if got := store.AccountBalance(project.CustodyAccountID()); got != 0 {
		t.Fatalf("custody still holds %d", got)
	}
	if got := store.AccountBalance("donor-a"); got != 200 {
		t.Fatalf("donor-a double refunded: %d", got)
	}
}

func TestResolveRefundLocksOutNewDonations(t *testing.T) {
	store := testutil.NewMemStore()
	project := setupProject(t, store, 1000)
	ledger := NewLedger(store, 0, testLogger())
	resolution := NewResolution(store, testLogger())
	ctx := context.Background()

	store.Fund("donor-a", 300)
	store.Fund("donor-b", 300)
	donate(t, ledger, project.ID, "donor-a", 300)
	donate(t, ledger, project.ID, "donor-b", 300)

	// Interrupt the refund fan-out after donor-a is settled.
	store.CloseAccount("donor-b")
	if _, err := resolution.Resolve(ctx, "anyone", project.ID); !errors.Is(err, domain.ErrRefundFailed) {
		t.Fatalf("expected ErrRefundFailed, got %v", err)
	}

	// A donation landing mid-refund must be rejected even though the project
	// still reads Active; accepting it could cross the target with custody
	// already short of the recorded balance.
	store.Fund("donor-c", 1000)
	_, _, err := ledger.Record(ctx, RecordDonationInput{ProjectID: project.ID, DonorID: "donor-c", Amount: 1000})
	if !errors.Is(err, domain.ErrInvalidProjectStatus) {
		t.Fatalf("expected ErrInvalidProjectStatus, got %v", err)
	}
	if got := store.AccountBalance("donor-c"); got != 1000 {
		t.Fatalf("donor-c debited by rejected donation: %d", got)
	}
	stored, _ := store.GetProject(ctx, project.ID)
	if stored.Status != domain.StatusActive || stored.Balance != 600 {
		t.Fatalf("state changed by rejected donation: balance=%d status=%s", stored.Balance, stored.Status)
	}

	// The retry still completes and conservation holds.
	store.ReopenAccount("donor-b")
	status, err := resolution.Resolve(ctx, "anyone", project.ID)
	if err != nil {
		t.Fatalf("retry Resolve returned error: %v", err)
	}
	if status != domain.StatusFailed {
		t.Fatalf("expected failed, got %s", status)
	}
	if store.AccountBalance("donor-a") != 300 || store.AccountBalance("donor-b") != 300 {
		t.Fatalf("refunds incomplete: a=%d b=%d",
			store.AccountBalance("donor-a"), store.AccountBalance("donor-b"))
	}
	if got := store.AccountBalance(project.CustodyAccountID()); got != 0 {
		t.Fatalf("custody still holds %d", got)
	}
}

func TestResolveRefundConservation(t *testing.T) {
	store := testutil.NewMemStore()
	project := setupProject(t, store, 100000)
	ledger := NewLedger(store, 0, testLogger())
	resolution := NewResolution(store, testLogger())
	ctx := context.Background()

	amounts := []uint64{17, 250, 3, 980, 41}
	var total uint64
	for i, amount := range amounts {
		donor := string(rune('a'+i)) + "-donor"
		store.Fund(donor, amount)
		donate(t, ledger, project.ID, donor, amount)
		total += amount
	}

	before, _ := store.GetProject(ctx, project.ID)
	if before.Balance != total {
		t.Fatalf("pre-resolution balance %d, want %d", before.Balance, total)
	}

	if _, err := resolution.Resolve(ctx, "anyone", project.ID); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	var refunded uint64
	for i, amount := range amounts {
		donor := string(rune('a'+i)) + "-donor"
		refunded += store.AccountBalance(donor)
		if store.AccountBalance(donor) != amount {
			t.Fatalf("donor %s refunded %d, want %d", donor, store.AccountBalance(donor), amount)
		}
	}
	if refunded != total {
		t.Fatalf("refunded %d, custody held %d", refunded, total)
	}
}

func TestResolveMissingProject(t *testing.T) {
	resolution := NewResolution(testutil.NewMemStore(), testLogger())
	if _, err := resolution.Resolve(context.Background(), "anyone", "no-such"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
