package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/npc"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// HealNPCCommand pays a doctor to clear an injury immediately
type HealNPCCommand struct {
	CartelID int
	NPCID    int
}

// BailOutNPCCommand pays bail for an arrested mercenary. The stretch
// inside costs loyalty.
type BailOutNPCCommand struct {
	CartelID int
	NPCID    int
}

// RecoverNPCResponse carries the recovered NPC and what was paid
type RecoverNPCResponse struct {
	NPC  *npc.NPC
	Cost int64
}

// RecoverNPCHandler handles heal and bail-out. Both cost a fixed
// fraction of the mercenary's hire cost.
type RecoverNPCHandler struct {
	cartelRepo cartel.Repository
	npcRepo    npc.Repository
	catalog    *catalog.Catalog
	clock      shared.Clock
}

// NewRecoverNPCHandler creates a new recover handler
func NewRecoverNPCHandler(
	cartelRepo cartel.Repository,
	npcRepo npc.Repository,
	cat *catalog.Catalog,
	clock shared.Clock,
) *RecoverNPCHandler {
	return &RecoverNPCHandler{cartelRepo: cartelRepo, npcRepo: npcRepo, catalog: cat, clock: clock}
}

// Handle executes a heal or bail-out command
func (h *RecoverNPCHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	switch cmd := request.(type) {
	case *HealNPCCommand:
		return h.recover(ctx, cmd.CartelID, cmd.NPCID, npc.StatusInjured, h.catalog.Constants.HealCostFraction, 0)
	case *BailOutNPCCommand:
		return h.recover(ctx, cmd.CartelID, cmd.NPCID, npc.StatusArrested, h.catalog.Constants.BailCostFraction, h.catalog.Constants.BailLoyaltyPenalty)
	default:
		return nil, fmt.Errorf("invalid request type")
	}
}

func (h *RecoverNPCHandler) recover(ctx context.Context, cartelID, npcID int, from npc.Status, costFraction float64, loyaltyPenalty int) (common.Response, error) {
	n, err := h.npcRepo.FindByID(ctx, npcID)
	if err != nil {
		return nil, err
	}
	if n.CartelID != cartelID {
		return nil, shared.NewValidationError("npcId", "npc belongs to another cartel")
	}
	if n.Status != from {
		return nil, shared.NewPreconditionError("npc %d is %s, not %s", n.ID, n.Status, from)
	}

	c, err := h.cartelRepo.FindByID(ctx, cartelID)
	if err != nil {
		return nil, err
	}
	if err := c.RejectIfFrozen(h.clock.Now()); err != nil {
		return nil, err
	}

	role, ok := h.catalog.Role(n.Role)
	if !ok {
		return nil, shared.NewValidationError("role", fmt.Sprintf("unknown role %q", n.Role))
	}
	rarity, _ := h.catalog.Rarity(n.Rarity)
	cost := int64(float64(npc.HireCost(role, rarity)) * costFraction)

	if err := c.Debit(cost); err != nil {
		return nil, err
	}

	n.Status = npc.StatusIdle
	n.RecoversAt = nil
	if loyaltyPenalty > 0 {
		n.AdjustLoyalty(-loyaltyPenalty)
	}

	if err := h.npcRepo.Save(ctx, n); err != nil {
		return nil, err
	}
	if err := h.cartelRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return &RecoverNPCResponse{NPC: n, Cost: cost}, nil
}
