package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/territory"
)

// RunMarketSweepCommand mean-reverts every territory's demand toward 1.0
// and decays the local heat modifier.
type RunMarketSweepCommand struct{}

// RunMarketSweepResponse summarizes one market pass
type RunMarketSweepResponse struct {
	Territories int
}

// RunMarketSweepHandler handles the hourly market sweep
type RunMarketSweepHandler struct {
	territoryRepo territory.Repository
	catalog       *catalog.Catalog
}

// NewRunMarketSweepHandler creates a new market sweep handler
func NewRunMarketSweepHandler(territoryRepo territory.Repository, cat *catalog.Catalog) *RunMarketSweepHandler {
	return &RunMarketSweepHandler{territoryRepo: territoryRepo, catalog: cat}
}

// Handle processes the RunMarketSweepCommand
func (h *RunMarketSweepHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	_, ok := request.(*RunMarketSweepCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	cons := h.catalog.Constants

	territories, err := h.territoryRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list territories: %w", err)
	}
	for _, t := range territories {
		t.RecoverDemand(cons.DemandRecoveryUp, cons.DemandRecoveryDown)
		t.DecayHeatMod(cons.HeatModDecay)
		if err := h.territoryRepo.Save(ctx, t); err != nil {
			return nil, fmt.Errorf("failed to save territory %s: %w", t.ID, err)
		}
	}
	return &RunMarketSweepResponse{Territories: len(territories)}, nil
}
