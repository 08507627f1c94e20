package domain

import (
	"fmt"
	"strings"
	"time"
)

// ProjectStatus enumerates the campaign lifecycle states.
type ProjectStatus string

const (
	StatusActive        ProjectStatus = "active"
	StatusTargetReached ProjectStatus = "target_reached"
	StatusSuccess       ProjectStatus = "success"
	StatusFailed        ProjectStatus = "failed"
)

// transitions is the complete set of legal status edges. Anything absent is illegal.
var transitions = map[ProjectStatus][]ProjectStatus{
	StatusActive:        {StatusTargetReached, StatusFailed},
	StatusTargetReached: {StatusSuccess},
}

// CanTransition reports whether moving from s to next is a legal edge.
func (s ProjectStatus) CanTransition(next ProjectStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s ProjectStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// Valid reports whether s is one of the enumerated states.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusActive, StatusTargetReached, StatusSuccess, StatusFailed:
		return true
	}
	return false
}

// ParseProjectStatus converts a stored status tag back into a ProjectStatus.
func ParseProjectStatus(raw string) (ProjectStatus, error) {
	s := ProjectStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown project status %q", raw)
	}
	return s, nil
}

// MaxProjectNameLen bounds the stored project name, matching the fixed record
// space reserved for it.
const MaxProjectNameLen = 200

// Project is a fundraising campaign with a target, an owner and a custody balance.
type Project struct {
	ID              string
	OwnerID         string
	Name            string
	FinancialTarget uint64
	Balance         uint64
	Status          ProjectStatus
	Bump            uint8
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewProject validates the creation input and returns an Active project with a
// deterministically derived ID and a zero balance.
func NewProject(ownerID, name string, financialTarget uint64) (*Project, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrInvalidIdentity
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxProjectNameLen {
		return nil, ErrInvalidName
	}
	if financialTarget == 0 {
		return nil, ErrInvalidTarget
	}
	id, bump := DeriveProjectID(ownerID)
	return &Project{
		ID:              id,
		OwnerID:         ownerID,
		Name:            name,
		FinancialTarget: financialTarget,
		Balance:         0,
		Status:          StatusActive,
		Bump:            bump,
	}, nil
}

// Transition moves the project to the next status, failing when the edge is not
// in the transition table.
func (p *Project) Transition(next ProjectStatus) error {
	if !p.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidProjectStatus, p.Status, next)
	}
	p.Status = next
	return nil
}

// CustodyAccountID returns the account that physically holds the project's
// contributed funds until resolution.
func (p *Project) CustodyAccountID() string {
	return CustodyAccountID(p.ID)
}

// CustodyAccountID derives the custody-holder account for a project.
func CustodyAccountID(projectID string) string {
	return "custody:" + projectID
}
