package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/npc"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// AssignNPCCommand posts an idle mercenary to a territory (or clears the
// posting with an empty territory id). The label drives production/sales
// and mission targeting.
type AssignNPCCommand struct {
	CartelID    int
	NPCID       int
	TerritoryID string
}

// AssignNPCResponse carries the updated NPC
type AssignNPCResponse struct {
	NPC *npc.NPC
}

// AssignNPCHandler handles territory assignments
type AssignNPCHandler struct {
	npcRepo npc.Repository
	catalog *catalog.Catalog
}

// NewAssignNPCHandler creates a new assign handler
func NewAssignNPCHandler(npcRepo npc.Repository, cat *catalog.Catalog) *AssignNPCHandler {
	return &AssignNPCHandler{npcRepo: npcRepo, catalog: cat}
}

// Handle executes the assign command
func (h *AssignNPCHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*AssignNPCCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if cmd.TerritoryID != "" {
		if _, ok := h.catalog.Territory(cmd.TerritoryID); !ok {
			return nil, shared.NewValidationError("territoryId", fmt.Sprintf("unknown territory %q", cmd.TerritoryID))
		}
	}

	n, err := h.npcRepo.FindByID(ctx, cmd.NPCID)
	if err != nil {
		return nil, err
	}
	if n.CartelID != cmd.CartelID {
		return nil, shared.NewValidationError("npcId", "npc belongs to another cartel")
	}
	if n.Status != npc.StatusIdle {
		return nil, shared.NewPreconditionError("npc %d is %s; only idle mercenaries can be reassigned", n.ID, n.Status)
	}

	n.AssignedTo = cmd.TerritoryID
	if err := h.npcRepo.Save(ctx, n); err != nil {
		return nil, err
	}
	return &AssignNPCResponse{NPC: n}, nil
}
