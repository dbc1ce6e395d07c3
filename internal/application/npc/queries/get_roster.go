package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/npc"
)

// GetRosterQuery fetches a cartel's mercenaries with computed payroll
// and progression figures
type GetRosterQuery struct {
	CartelID int
}

// RosterEntry is one mercenary with its derived numbers
type RosterEntry struct {
	NPC      *npc.NPC
	Salary   int64
	XPToNext int
}

// GetRosterResponse carries the roster
type GetRosterResponse struct {
	Entries []RosterEntry
}

// GetRosterHandler handles the roster query
type GetRosterHandler struct {
	npcRepo npc.Repository
	catalog *catalog.Catalog
}

// NewGetRosterHandler creates a new roster handler
func NewGetRosterHandler(npcRepo npc.Repository, cat *catalog.Catalog) *GetRosterHandler {
	return &GetRosterHandler{npcRepo: npcRepo, catalog: cat}
}

// Handle executes the roster query
func (h *GetRosterHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetRosterQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	npcs, err := h.npcRepo.ListByCartel(ctx, query.CartelID)
	if err != nil {
		return nil, err
	}

	entries := make([]RosterEntry, 0, len(npcs))
	for _, n := range npcs {
		var salary int64
		if role, ok := h.catalog.Role(n.Role); ok {
			salary = npc.Salary(role, n.Level)
		}
		entries = append(entries, RosterEntry{
			NPC:      n,
			Salary:   salary,
			XPToNext: n.XPToNext(h.catalog.Constants.XPPerLevel, h.catalog.Constants.MaxNPCLevel),
		})
	}
	return &GetRosterResponse{Entries: entries}, nil
}
