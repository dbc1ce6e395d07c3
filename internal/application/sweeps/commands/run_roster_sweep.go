package commands

import (
	"context"
	"fmt"
	"math"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/npc"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// RunRosterSweepCommand handles the hourly NPC lifecycle pass: injured
// members whose recovery has elapsed return to idle, and disloyal
// members, idle or on a mission, are tried for betrayal.
type RunRosterSweepCommand struct{}

// RunRosterSweepResponse summarizes one roster pass
type RunRosterSweepResponse struct {
	Recovered int
	Betrayals int
}

// RunRosterSweepHandler handles the hourly roster sweep
type RunRosterSweepHandler struct {
	cartelRepo cartel.Repository
	npcRepo    npc.Repository
	catalog    *catalog.Catalog
	clock      shared.Clock
	rng        shared.Rand
}

// NewRunRosterSweepHandler creates a new roster sweep handler
func NewRunRosterSweepHandler(
	cartelRepo cartel.Repository,
	npcRepo npc.Repository,
	cat *catalog.Catalog,
	clock shared.Clock,
	rng shared.Rand,
) *RunRosterSweepHandler {
	return &RunRosterSweepHandler{
		cartelRepo: cartelRepo,
		npcRepo:    npcRepo,
		catalog:    cat,
		clock:      clock,
		rng:        rng,
	}
}

// Handle processes the RunRosterSweepCommand
func (h *RunRosterSweepHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	_, ok := request.(*RunRosterSweepCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	log := common.LoggerFromContext(ctx)
	cons := h.catalog.Constants
	now := h.clock.Now()

	npcs, err := h.npcRepo.ListAllAlive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list npcs: %w", err)
	}

	resp := &RunRosterSweepResponse{}
	for _, n := range npcs {
		if n.Status == npc.StatusInjured && n.RecoversAt != nil && !n.RecoversAt.After(now) {
			n.Status = npc.StatusIdle
			n.RecoversAt = nil
			resp.Recovered++
			if err := h.npcRepo.Save(ctx, n); err != nil {
				log.Log("ERROR", "failed to save recovered npc", map[string]interface{}{
					"npc_id": n.ID, "error": err.Error(),
				})
			}
			continue
		}

		// betrayal trial: members out working, idle or reserved on a
		// mission, with loyalty below the threshold. A traitor killed
		// mid-mission is simply dead when the resolver settles the crew.
		if n.Status != npc.StatusIdle && n.Status != npc.StatusOnMission {
			continue
		}
		if n.Loyalty >= cons.BetrayThreshold {
			continue
		}
		chance := float64(cons.BetrayThreshold-n.Loyalty) / 100
		if h.rng.Float64() >= chance {
			continue
		}
		if err := h.betray(ctx, n); err != nil {
			log.Log("ERROR", "failed to apply betrayal", map[string]interface{}{
				"npc_id": n.ID, "cartel_id": n.CartelID, "error": err.Error(),
			})
			continue
		}
		resp.Betrayals++
		log.Log("WARN", "npc betrayed cartel", map[string]interface{}{
			"npc_id": n.ID, "name": n.Name, "cartel_id": n.CartelID,
		})
	}
	return resp, nil
}

// betray flips a coin between robbing the stash and snitching to the
// police, then removes the traitor from the roster for good.
func (h *RunRosterSweepHandler) betray(ctx context.Context, n *npc.NPC) error {
	c, err := h.cartelRepo.FindByID(ctx, n.CartelID)
	if err != nil {
		return err
	}
	cons := h.catalog.Constants
	if h.rng.Float64() < 0.5 {
		stolen := int64(math.Floor(float64(c.Treasury) * cons.BetrayStealFraction))
		_ = c.Debit(stolen)
	} else {
		c.RaiseHeat(cons.BetrayHeatGain)
	}
	if err := h.cartelRepo.Save(ctx, c); err != nil {
		return err
	}
	n.Kill()
	return h.npcRepo.Save(ctx, n)
}
