package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/npc"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// FireNPCCommand dismisses a mercenary. Hard delete; no severance.
type FireNPCCommand struct {
	CartelID int
	NPCID    int
}

// FireNPCResponse acknowledges the dismissal
type FireNPCResponse struct {
	Fired bool
}

// FireNPCHandler handles dismissals
type FireNPCHandler struct {
	npcRepo npc.Repository
}

// NewFireNPCHandler creates a new fire handler
func NewFireNPCHandler(npcRepo npc.Repository) *FireNPCHandler {
	return &FireNPCHandler{npcRepo: npcRepo}
}

// Handle executes the fire command
func (h *FireNPCHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*FireNPCCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	n, err := h.npcRepo.FindByID(ctx, cmd.NPCID)
	if err != nil {
		return nil, err
	}
	if n.CartelID != cmd.CartelID {
		return nil, shared.NewValidationError("npcId", "npc belongs to another cartel")
	}
	if n.Status == npc.StatusOnMission {
		return nil, shared.NewPreconditionError("npc %d is on a mission and cannot be fired", n.ID)
	}

	if err := h.npcRepo.Delete(ctx, n.ID); err != nil {
		return nil, err
	}
	return &FireNPCResponse{Fired: true}, nil
}
