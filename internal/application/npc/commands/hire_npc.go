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

// HireNPCCommand recruits a mercenary of the given role. Rarity and
// stats are rolled; the hire cost scales with the rolled rarity.
type HireNPCCommand struct {
	CartelID int
	Role     string
}

// HireNPCResponse carries the new recruit and what was paid
type HireNPCResponse struct {
	NPC  *npc.NPC
	Cost int64
}

// HireNPCHandler handles recruitment
type HireNPCHandler struct {
	cartelRepo cartel.Repository
	npcRepo    npc.Repository
	catalog    *catalog.Catalog
	clock      shared.Clock
	rng        shared.Rand
}

// NewHireNPCHandler creates a new hire handler
func NewHireNPCHandler(
	cartelRepo cartel.Repository,
	npcRepo npc.Repository,
	cat *catalog.Catalog,
	clock shared.Clock,
	rng shared.Rand,
) *HireNPCHandler {
	return &HireNPCHandler{cartelRepo: cartelRepo, npcRepo: npcRepo, catalog: cat, clock: clock, rng: rng}
}

// Handle executes the hire command
func (h *HireNPCHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*HireNPCCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	role, ok := h.catalog.Role(cmd.Role)
	if !ok {
		return nil, shared.NewValidationError("role", fmt.Sprintf("unknown role %q", cmd.Role))
	}

	c, err := h.cartelRepo.FindByID(ctx, cmd.CartelID)
	if err != nil {
		return nil, err
	}
	if err := c.RejectIfFrozen(h.clock.Now()); err != nil {
		return nil, err
	}

	alive, err := h.npcRepo.CountAlive(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	cap := h.catalog.RepLevelFor(c.Reputation).NPCCap
	if alive >= cap {
		return nil, shared.NewPreconditionError("roster full: %d of %d mercenaries", alive, cap)
	}

	recruit := npc.Generate(role, h.catalog.Rarities, h.rng)
	rarity, _ := h.catalog.Rarity(recruit.Rarity)
	cost := npc.HireCost(role, rarity)

	if err := c.Debit(cost); err != nil {
		return nil, err
	}

	recruit.CartelID = c.ID
	recruit.HiredAt = h.clock.Now()
	if err := h.npcRepo.Add(ctx, recruit); err != nil {
		return nil, err
	}
	if err := h.cartelRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	return &HireNPCResponse{NPC: recruit, Cost: cost}, nil
}
