package mission

import (
	"time"

	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// Type enumerates the nine mission kinds
type Type string

const (
	TypeDelivery      Type = "delivery"
	TypeSmuggling     Type = "smuggling"
	TypeRaid          Type = "raid"
	TypeSeizure       Type = "seizure"
	TypeSabotage      Type = "sabotage"
	TypeAssassination Type = "assassination"
	TypeCorruption    Type = "corruption"
	TypeIntimidation  Type = "intimidation"
	TypeHeist         Type = "heist"
)

// AllTypes lists every mission type in catalog order
var AllTypes = []Type{
	TypeDelivery, TypeSmuggling, TypeRaid, TypeSeizure, TypeSabotage,
	TypeAssassination, TypeCorruption, TypeIntimidation, TypeHeist,
}

// Status is the mission lifecycle state. active → resolving is the
// exactly-once claim taken by the sweep; resolving → completed/failed is
// the outcome. cancelled is terminal and reserved (no command produces
// it yet).
type Status string

const (
	StatusActive    Status = "active"
	StatusResolving Status = "resolving"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status permits no further transition
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Mission is one asynchronous operation. The NPC set is snapshotted and
// exclusively reserved for the mission's lifetime. Resources debited at
// creation (product, bribes) are never refunded on failure.
type Mission struct {
	ID       string
	CartelID int
	Type     Type
	NPCIDs   []int

	// type-specific parameters, set at creation
	TargetTerritory string
	SourceTerritory string // smuggling origin region crossing
	TargetCartelID  *int
	DrugID          string
	Quantity        int
	Bribe           int64

	StartedAt   time.Time
	CompletesAt time.Time
	Status      Status
	Outcome     *Outcome
}

// Due reports whether the mission should be picked up by the sweep
func (m *Mission) Due(now time.Time) bool {
	return m.Status == StatusActive && !m.CompletesAt.After(now)
}

// BeginResolution claims the mission for resolution (active → resolving).
// The repository performs the same transition as a conditional update;
// this guards the in-memory copy.
func (m *Mission) BeginResolution() error {
	if m.Status != StatusActive {
		return shared.NewPreconditionError("mission %s is %s, not active", m.ID, m.Status)
	}
	m.Status = StatusResolving
	return nil
}

// Complete records the outcome and moves to a terminal state,
// completed on success and failed otherwise
func (m *Mission) Complete(outcome *Outcome) error {
	if m.Status != StatusResolving {
		return shared.NewPreconditionError("mission %s is %s, not resolving", m.ID, m.Status)
	}
	m.Outcome = outcome
	if outcome.Success {
		m.Status = StatusCompleted
	} else {
		m.Status = StatusFailed
	}
	return nil
}

// Cancel moves an active mission to cancelled. Kept reachable for future
// flows even though no current command triggers it.
func (m *Mission) Cancel() error {
	if m.Status != StatusActive {
		return shared.NewPreconditionError("mission %s is %s, not active", m.ID, m.Status)
	}
	m.Status = StatusCancelled
	return nil
}
