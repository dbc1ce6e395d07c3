package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/mission"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// ListMissionsQuery returns a cartel's in-flight missions plus the most
// recent resolved ones
type ListMissionsQuery struct {
	CartelID     int
	HistoryLimit int // 0 means no history
}

// MissionEntry is one mission with live countdown fields
type MissionEntry struct {
	ID              string
	Type            string
	Status          string
	CrewSize        int
	TargetTerritory string
	CompletesAt     time.Time
	TimeRemaining   time.Duration // 0 once due or terminal
	Outcome         *mission.Outcome
}

// ListMissionsResponse holds active and historical missions
type ListMissionsResponse struct {
	Active  []MissionEntry
	History []MissionEntry
}

// ListMissionsHandler handles mission listing
type ListMissionsHandler struct {
	missionRepo mission.Repository
	clock       shared.Clock
}

// NewListMissionsHandler creates a new mission listing handler
func NewListMissionsHandler(missionRepo mission.Repository, clock shared.Clock) *ListMissionsHandler {
	return &ListMissionsHandler{missionRepo: missionRepo, clock: clock}
}

// Handle processes the ListMissionsQuery
func (h *ListMissionsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListMissionsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	active, err := h.missionRepo.ListActiveByCartel(ctx, query.CartelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active missions: %w", err)
	}

	now := h.clock.Now()
	resp := &ListMissionsResponse{}
	for _, m := range active {
		resp.Active = append(resp.Active, h.entry(m, now))
	}

	if query.HistoryLimit > 0 {
		history, err := h.missionRepo.ListHistoryByCartel(ctx, query.CartelID, query.HistoryLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to list mission history: %w", err)
		}
		for _, m := range history {
			resp.History = append(resp.History, h.entry(m, now))
		}
	}
	return resp, nil
}

func (h *ListMissionsHandler) entry(m *mission.Mission, now time.Time) MissionEntry {
	e := MissionEntry{
		ID:              m.ID,
		Type:            string(m.Type),
		Status:          string(m.Status),
		CrewSize:        len(m.NPCIDs),
		TargetTerritory: m.TargetTerritory,
		CompletesAt:     m.CompletesAt,
		Outcome:         m.Outcome,
	}
	if !m.Status.Terminal() && m.CompletesAt.After(now) {
		e.TimeRemaining = m.CompletesAt.Sub(now)
	}
	return e
}
