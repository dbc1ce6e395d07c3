package commands

import (
	"context"
	"fmt"
	"math"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
	"github.com/andrescamacho/cartel-go/internal/domain/territory"
)

// BuyUpgradeCommand raises one upgrade track on a controlled territory
type BuyUpgradeCommand struct {
	CartelID    int
	TerritoryID string
	UpgradeID   string
}

// BuyUpgradeResponse carries the new level and the price paid
type BuyUpgradeResponse struct {
	UpgradeID string
	Level     int
	Cost      int64
}

// BuyUpgradeHandler handles territory upgrades
type BuyUpgradeHandler struct {
	cartelRepo    cartel.Repository
	territoryRepo territory.Repository
	catalog       *catalog.Catalog
	clock         shared.Clock
}

// NewBuyUpgradeHandler creates a new buy upgrade handler
func NewBuyUpgradeHandler(
	cartelRepo cartel.Repository,
	territoryRepo territory.Repository,
	cat *catalog.Catalog,
	clock shared.Clock,
) *BuyUpgradeHandler {
	return &BuyUpgradeHandler{cartelRepo: cartelRepo, territoryRepo: territoryRepo, catalog: cat, clock: clock}
}

// UpgradeCost is baseCost × costMult^level for the next level
func UpgradeCost(def catalog.UpgradeDef, currentLevel int) int64 {
	return int64(math.Floor(float64(def.BaseCost) * math.Pow(def.CostMult, float64(currentLevel))))
}

// Handle executes the buy upgrade command
func (h *BuyUpgradeHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*BuyUpgradeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	def, ok := h.catalog.Upgrade(cmd.UpgradeID)
	if !ok {
		return nil, shared.NewValidationError("upgradeId", fmt.Sprintf("unknown upgrade %q", cmd.UpgradeID))
	}

	c, err := h.cartelRepo.FindByID(ctx, cmd.CartelID)
	if err != nil {
		return nil, err
	}
	if err := c.RejectIfFrozen(h.clock.Now()); err != nil {
		return nil, err
	}

	t, err := h.territoryRepo.FindByID(ctx, cmd.TerritoryID)
	if err != nil {
		return nil, err
	}
	if !t.ControlledByCartel(c.ID) {
		return nil, shared.NewPreconditionError("territory %s is not controlled by cartel %d", t.ID, c.ID)
	}

	level := t.UpgradeLevel(def.ID)
	if level >= def.MaxLevel {
		return nil, shared.NewPreconditionError("%s is already at max level %d", def.ID, def.MaxLevel)
	}

	cost := UpgradeCost(def, level)
	if err := c.Debit(cost); err != nil {
		return nil, err
	}
	t.RaiseUpgrade(def.ID)

	if err := h.territoryRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	if err := h.cartelRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return &BuyUpgradeResponse{UpgradeID: def.ID, Level: level + 1, Cost: cost}, nil
}
