package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/npc"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
	"github.com/andrescamacho/cartel-go/internal/domain/territory"
)

// RunHeatSweepCommand runs the hourly heat pass over every cartel: heat
// decay, passive reputation accrual and bust rolls above the threshold.
type RunHeatSweepCommand struct{}

// RunHeatSweepResponse summarizes one heat pass
type RunHeatSweepResponse struct {
	Cartels int
	Busts   int
	Arrests int
}

// RunHeatSweepHandler handles the hourly heat sweep
type RunHeatSweepHandler struct {
	cartelRepo    cartel.Repository
	npcRepo       npc.Repository
	territoryRepo territory.Repository
	catalog       *catalog.Catalog
	clock         shared.Clock
	rng           shared.Rand
}

// NewRunHeatSweepHandler creates a new heat sweep handler
func NewRunHeatSweepHandler(
	cartelRepo cartel.Repository,
	npcRepo npc.Repository,
	territoryRepo territory.Repository,
	cat *catalog.Catalog,
	clock shared.Clock,
	rng shared.Rand,
) *RunHeatSweepHandler {
	return &RunHeatSweepHandler{
		cartelRepo:    cartelRepo,
		npcRepo:       npcRepo,
		territoryRepo: territoryRepo,
		catalog:       cat,
		clock:         clock,
		rng:           rng,
	}
}

// Handle processes the RunHeatSweepCommand
func (h *RunHeatSweepHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	_, ok := request.(*RunHeatSweepCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	log := common.LoggerFromContext(ctx)
	cons := h.catalog.Constants

	cartels, err := h.cartelRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cartels: %w", err)
	}

	resp := &RunHeatSweepResponse{Cartels: len(cartels)}
	now := h.clock.Now()
	for _, c := range cartels {
		c.DecayHeat(cons.HeatDecayPerHour)

		rep, err := h.passiveReputation(ctx, c)
		if err != nil {
			log.Log("ERROR", "failed to compute passive reputation", map[string]interface{}{
				"cartel_id": c.ID, "error": err.Error(),
			})
			continue
		}
		c.GainReputation(rep, h.catalog)

		// bust roll: only above the threshold, never while already frozen
		if !c.Frozen(now) && c.Heat > cons.BustThreshold {
			chance := (c.Heat - cons.BustThreshold) * cons.BustPerPointChance
			if h.rng.Float64() < chance {
				arrests, err := h.bust(ctx, c)
				if err != nil {
					log.Log("ERROR", "failed to apply bust", map[string]interface{}{
						"cartel_id": c.ID, "error": err.Error(),
					})
					continue
				}
				resp.Busts++
				resp.Arrests += arrests
			}
		}

		if err := h.cartelRepo.Save(ctx, c); err != nil {
			log.Log("ERROR", "failed to save cartel after heat pass", map[string]interface{}{
				"cartel_id": c.ID, "error": err.Error(),
			})
		}
	}

	if resp.Busts > 0 {
		log.Log("INFO", "heat sweep complete", map[string]interface{}{
			"cartels": resp.Cartels, "busts": resp.Busts, "arrests": resp.Arrests,
		})
	}
	return resp, nil
}

// passiveReputation is the hourly trickle for a standing operation:
// a base amount plus per-lab, per-territory and per-member increments
func (h *RunHeatSweepHandler) passiveReputation(ctx context.Context, c *cartel.Cartel) (int64, error) {
	cons := h.catalog.Constants
	territories, err := h.territoryRepo.ListControlledBy(ctx, c.ID)
	if err != nil {
		return 0, err
	}
	alive, err := h.npcRepo.CountAlive(ctx, c.ID)
	if err != nil {
		return 0, err
	}
	return cons.RepBase +
		cons.RepPerLab*int64(len(c.Labs)) +
		cons.RepPerTerritory*int64(len(territories)) +
		cons.RepPerNPC*int64(alive), nil
}

// bust seizes a fraction of the cartel's cash and product, freezes all
// operations for the cooldown, halves heat, and independently rolls an
// arrest for every member not already dead or in custody. Members
// grabbed off a running mission are simply missing when the resolver
// settles the crew.
func (h *RunHeatSweepHandler) bust(ctx context.Context, c *cartel.Cartel) (int, error) {
	cons := h.catalog.Constants
	seized := c.SeizeFraction(cons.BustSeizeFraction)
	until := h.clock.Now().Add(cons.BustCooldown)
	c.BustedUntil = &until
	c.Heat = c.Heat / 2

	arrests := 0
	npcs, err := h.npcRepo.ListByCartel(ctx, c.ID)
	if err != nil {
		return 0, err
	}
	for _, n := range npcs {
		if n.Status == npc.StatusDead || n.Status == npc.StatusArrested {
			continue
		}
		if h.rng.Float64() < cons.BustArrestChance {
			n.Arrest()
			if err := h.npcRepo.Save(ctx, n); err != nil {
				return arrests, err
			}
			arrests++
		}
	}

	log := common.LoggerFromContext(ctx)
	log.Log("WARN", "cartel busted", map[string]interface{}{
		"cartel_id": c.ID, "seized": seized, "arrests": arrests,
		"frozen_until": until.Format("2006-01-02 15:04"),
	})
	return arrests, nil
}
