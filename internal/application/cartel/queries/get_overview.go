package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/mission"
	"github.com/andrescamacho/cartel-go/internal/domain/npc"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
	"github.com/andrescamacho/cartel-go/internal/domain/territory"
)

// GetOverviewQuery fetches one cartel's headline state
type GetOverviewQuery struct {
	CartelID int
}

// GetOverviewResponse summarizes the cartel
type GetOverviewResponse struct {
	Cartel         *cartel.Cartel
	AliveNPCs      int
	NPCCap         int
	LabCap         int
	Territories    []*territory.Territory
	ActiveMissions []*mission.Mission
	Frozen         bool
	FrozenUntil    *time.Time
}

// GetOverviewHandler handles the overview query
type GetOverviewHandler struct {
	cartelRepo    cartel.Repository
	npcRepo       npc.Repository
	territoryRepo territory.Repository
	missionRepo   mission.Repository
	catalog       *catalog.Catalog
	clock         shared.Clock
}

// NewGetOverviewHandler creates a new overview handler
func NewGetOverviewHandler(
	cartelRepo cartel.Repository,
	npcRepo npc.Repository,
	territoryRepo territory.Repository,
	missionRepo mission.Repository,
	cat *catalog.Catalog,
	clock shared.Clock,
) *GetOverviewHandler {
	return &GetOverviewHandler{
		cartelRepo:    cartelRepo,
		npcRepo:       npcRepo,
		territoryRepo: territoryRepo,
		missionRepo:   missionRepo,
		catalog:       cat,
		clock:         clock,
	}
}

// Handle executes the overview query
func (h *GetOverviewHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetOverviewQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	c, err := h.cartelRepo.FindByID(ctx, query.CartelID)
	if err != nil {
		return nil, err
	}
	alive, err := h.npcRepo.CountAlive(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	territories, err := h.territoryRepo.ListControlledBy(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	missions, err := h.missionRepo.ListActiveByCartel(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	tier := h.catalog.RepLevelFor(c.Reputation)
	return &GetOverviewResponse{
		Cartel:         c,
		AliveNPCs:      alive,
		NPCCap:         tier.NPCCap,
		LabCap:         tier.LabCap,
		Territories:    territories,
		ActiveMissions: missions,
		Frozen:         c.Frozen(h.clock.Now()),
		FrozenUntil:    c.BustedUntil,
	}, nil
}
