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
	"github.com/andrescamacho/cartel-go/internal/domain/territory"
)

// SellDrugsCommand moves product through dealers posted in a controlled
// territory. Selling raises heat with volume and depresses local demand.
type SellDrugsCommand struct {
	CartelID    int
	TerritoryID string
	DrugID      string
	Quantity    int
}

// SellDrugsResponse reports the take
type SellDrugsResponse struct {
	Revenue   int64
	UnitPrice int64
	Dealers   int
	HeatGain  float64
}

// SellDrugsHandler handles street sales
type SellDrugsHandler struct {
	cartelRepo    cartel.Repository
	npcRepo       npc.Repository
	territoryRepo territory.Repository
	catalog       *catalog.Catalog
	clock         shared.Clock
}

// NewSellDrugsHandler creates a new sell drugs handler
func NewSellDrugsHandler(
	cartelRepo cartel.Repository,
	npcRepo npc.Repository,
	territoryRepo territory.Repository,
	cat *catalog.Catalog,
	clock shared.Clock,
) *SellDrugsHandler {
	return &SellDrugsHandler{
		cartelRepo:    cartelRepo,
		npcRepo:       npcRepo,
		territoryRepo: territoryRepo,
		catalog:       cat,
		clock:         clock,
	}
}

// Handle executes the sell drugs command
func (h *SellDrugsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SellDrugsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.Quantity <= 0 {
		return nil, shared.NewValidationError("quantity", "quantity must be positive")
	}

	drug, ok := h.catalog.Drug(cmd.DrugID)
	if !ok {
		return nil, shared.NewValidationError("drugId", fmt.Sprintf("unknown drug %q", cmd.DrugID))
	}
	terrDef, ok := h.catalog.Territory(cmd.TerritoryID)
	if !ok {
		return nil, shared.NewValidationError("territoryId", fmt.Sprintf("unknown territory %q", cmd.TerritoryID))
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

	dealers, err := h.countDealers(ctx, c.ID, t.ID)
	if err != nil {
		return nil, err
	}
	if dealers == 0 {
		return nil, shared.NewPreconditionError("no idle dealer assigned to %s", t.ID)
	}

	stack := c.StackOf(drug.ID)
	if stack == nil || stack.Quantity < cmd.Quantity {
		have := 0
		if stack != nil {
			have = stack.Quantity
		}
		return nil, shared.NewPreconditionError("insufficient product: need %d %s, have %d", cmd.Quantity, drug.ID, have)
	}

	qualityFactor := 0.5 + stack.Quality/100 // 0.5 at quality 0, 1.5 at 100
	dealerBonus := 1 + 0.1*float64(dealers-1)
	distBonus := 1 + float64(t.UpgradeLevel("distribution"))*h.upgradeEffect("distribution")
	unitPrice := int64(math.Floor(float64(drug.BasePrice) * terrDef.Demand * t.DemandMult * qualityFactor * dealerBonus * distBonus))
	revenue := unitPrice * int64(cmd.Quantity)

	if err := c.RemoveProduct(drug.ID, cmd.Quantity); err != nil {
		return nil, err
	}
	if err := c.Credit(revenue); err != nil {
		return nil, err
	}

	heatGain := float64(int(math.Ceil(float64(cmd.Quantity) / 10)))
	heatGain -= float64(t.UpgradeLevel("corruption")) * h.upgradeEffect("corruption")
	if heatGain < 0 {
		heatGain = 0
	}
	c.RaiseHeat(heatGain)
	t.HeatMod += int(math.Ceil(float64(cmd.Quantity) / 10))
	t.DepressDemand(float64(cmd.Quantity)*h.catalog.Constants.DemandSalePressure, h.catalog.Constants.DemandFloor)

	if err := h.territoryRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	if err := h.cartelRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	return &SellDrugsResponse{Revenue: revenue, UnitPrice: unitPrice, Dealers: dealers, HeatGain: heatGain}, nil
}

func (h *SellDrugsHandler) countDealers(ctx context.Context, cartelID int, territoryID string) (int, error) {
	idle, err := h.npcRepo.ListIdleByRole(ctx, cartelID, "dealer")
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range idle {
		if n.AssignedTo == territoryID {
			count++
		}
	}
	return count, nil
}

func (h *SellDrugsHandler) upgradeEffect(upgradeID string) float64 {
	if def, ok := h.catalog.Upgrade(upgradeID); ok {
		return def.Effect
	}
	return 0
}
