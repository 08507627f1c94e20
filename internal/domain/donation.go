package domain

import "time"

// Donation is a single contributor's recorded transfer into a project's custody.
// Once written it is immutable except for the Settled flag set at resolution;
// donations are never deleted so the list doubles as the audit trail.
type Donation struct {
	ProjectID    string
	Sequence     uint64
	DonorID      string
	Amount       uint64
	DonorCountry string
	Settled      bool
	CreatedAt    time.Time
}
