package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
	"github.com/andrescamacho/cartel-go/internal/domain/territory"
)

// ClaimTerritoryCommand takes an unclaimed territory. Claiming is free
// but only ever succeeds against a null controller.
type ClaimTerritoryCommand struct {
	CartelID    int
	TerritoryID string
}

// ClaimTerritoryResponse carries the claimed territory
type ClaimTerritoryResponse struct {
	Territory *territory.Territory
}

// ClaimTerritoryHandler handles territory claims
type ClaimTerritoryHandler struct {
	cartelRepo    cartel.Repository
	territoryRepo territory.Repository
	catalog       *catalog.Catalog
	clock         shared.Clock
}

// NewClaimTerritoryHandler creates a new claim handler
func NewClaimTerritoryHandler(
	cartelRepo cartel.Repository,
	territoryRepo territory.Repository,
	cat *catalog.Catalog,
	clock shared.Clock,
) *ClaimTerritoryHandler {
	return &ClaimTerritoryHandler{cartelRepo: cartelRepo, territoryRepo: territoryRepo, catalog: cat, clock: clock}
}

// Handle executes the claim command
func (h *ClaimTerritoryHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ClaimTerritoryCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if _, ok := h.catalog.Territory(cmd.TerritoryID); !ok {
		return nil, shared.NewValidationError("territoryId", fmt.Sprintf("unknown territory %q", cmd.TerritoryID))
	}

	c, err := h.cartelRepo.FindByID(ctx, cmd.CartelID)
	if err != nil {
		return nil, err
	}
	if err := c.RejectIfFrozen(h.clock.Now()); err != nil {
		return nil, err
	}

	// atomic check-and-set; of two racing claims exactly one wins
	basePower := h.catalog.Constants.ClaimControlPower
	if err := h.territoryRepo.ClaimIfUnclaimed(ctx, cmd.TerritoryID, c.ID, basePower); err != nil {
		return nil, err
	}

	c.GainReputation(h.catalog.Constants.ClaimRepGain, h.catalog)
	if err := h.cartelRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	t, err := h.territoryRepo.FindByID(ctx, cmd.TerritoryID)
	if err != nil {
		return nil, err
	}
	return &ClaimTerritoryResponse{Territory: t}, nil
}
