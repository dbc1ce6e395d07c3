package commands

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/application/mission/services"
	"github.com/andrescamacho/cartel-go/internal/domain/mission"
	"github.com/andrescamacho/cartel-go/internal/domain/npc"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// RunMissionSweepCommand resolves every mission whose completion time has
// passed. Safe to run from multiple workers: the per-mission claim loses
// cleanly when another sweep got there first.
type RunMissionSweepCommand struct{}

// RunMissionSweepResponse summarizes one sweep pass
type RunMissionSweepResponse struct {
	Due      int
	Resolved int
	Skipped  int // lost the resolution claim to another worker
	Errored  int
}

// RunMissionSweepHandler drives the resolver over all due missions
type RunMissionSweepHandler struct {
	missionRepo mission.Repository
	npcRepo     npc.Repository
	resolver    *services.Resolver
	clock       shared.Clock
	limiter     *rate.Limiter
}

// NewRunMissionSweepHandler creates a new mission sweep handler. The
// limiter paces resolution so a large backlog cannot saturate the
// database after daemon downtime.
func NewRunMissionSweepHandler(
	missionRepo mission.Repository,
	npcRepo npc.Repository,
	resolver *services.Resolver,
	clock shared.Clock,
	limiter *rate.Limiter,
) *RunMissionSweepHandler {
	return &RunMissionSweepHandler{
		missionRepo: missionRepo,
		npcRepo:     npcRepo,
		resolver:    resolver,
		clock:       clock,
		limiter:     limiter,
	}
}

// Handle processes the RunMissionSweepCommand
func (h *RunMissionSweepHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	_, ok := request.(*RunMissionSweepCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	log := common.LoggerFromContext(ctx)

	due, err := h.missionRepo.ListDue(ctx, h.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list due missions: %w", err)
	}

	resp := &RunMissionSweepResponse{Due: len(due)}
	for _, m := range due {
		if h.limiter != nil {
			if err := h.limiter.Wait(ctx); err != nil {
				return resp, err
			}
		}

		claimed, err := h.missionRepo.ClaimForResolution(ctx, m.ID)
		if err != nil {
			resp.Errored++
			log.Log("ERROR", "failed to claim mission", map[string]interface{}{
				"mission_id": m.ID, "error": err.Error(),
			})
			continue
		}
		if !claimed {
			resp.Skipped++
			continue
		}
		if err := m.BeginResolution(); err != nil {
			resp.Errored++
			continue
		}

		if err := h.resolveOne(ctx, m); err != nil {
			resp.Errored++
			log.Log("ERROR", "mission resolution failed", map[string]interface{}{
				"mission_id": m.ID, "type": string(m.Type), "error": err.Error(),
			})
			h.failMission(ctx, m, err)
			continue
		}
		resp.Resolved++
		log.Log("INFO", "mission resolved", map[string]interface{}{
			"mission_id": m.ID,
			"type":       string(m.Type),
			"cartel_id":  m.CartelID,
			"success":    m.Outcome.Success,
		})
	}
	return resp, nil
}

// resolveOne runs the resolver for a single mission, converting a
// panic into an ordinary error so one bad mission cannot take down
// the whole sweep.
func (h *RunMissionSweepHandler) resolveOne(ctx context.Context, m *mission.Mission) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during resolution: %v", r)
		}
	}()
	return h.resolver.Resolve(ctx, m)
}

// failMission parks a mission that errored mid-resolution in the failed
// state so the sweep never re-picks it, then releases whatever crew the
// resolver never settled so nobody stays reserved against a terminal
// mission.
func (h *RunMissionSweepHandler) failMission(ctx context.Context, m *mission.Mission, cause error) {
	if !m.Status.Terminal() {
		o := &mission.Outcome{Success: false}
		o.Logf("resolution aborted: %v", cause)
		if err := m.Complete(o); err != nil {
			return
		}
		_ = h.missionRepo.Save(ctx, m)
	}
	h.releaseCrew(ctx, m)
}

// releaseCrew is best-effort: members the resolver already settled (or
// that another sweep killed or arrested meanwhile) keep their status.
func (h *RunMissionSweepHandler) releaseCrew(ctx context.Context, m *mission.Mission) {
	for _, id := range m.NPCIDs {
		n, err := h.npcRepo.FindByID(ctx, id)
		if err != nil {
			continue
		}
		if n.Status != npc.StatusOnMission || n.MissionID != m.ID {
			continue
		}
		n.Release()
		_ = h.npcRepo.Save(ctx, n)
	}
}
