package commands

import (
	"context"
	"fmt"
	"math"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// UpgradeLabCommand raises a lab one level, speeding production and
// improving batch quality
type UpgradeLabCommand struct {
	CartelID int
	LabID    int
}

// UpgradeLabResponse carries the upgraded lab and the price paid
type UpgradeLabResponse struct {
	Lab  *cartel.Lab
	Cost int64
}

// DestroyLabCommand demolishes a lab, freeing the roster slot.
// Nothing is refunded; an in-flight batch is lost.
type DestroyLabCommand struct {
	CartelID int
	LabID    int
}

// DestroyLabResponse acknowledges the demolition
type DestroyLabResponse struct {
	Destroyed bool
}

// LabRosterHandler handles upgrade and destroy on the embedded lab list
type LabRosterHandler struct {
	cartelRepo cartel.Repository
	catalog    *catalog.Catalog
	clock      shared.Clock
}

// NewLabRosterHandler creates a new lab roster handler
func NewLabRosterHandler(cartelRepo cartel.Repository, cat *catalog.Catalog, clock shared.Clock) *LabRosterHandler {
	return &LabRosterHandler{cartelRepo: cartelRepo, catalog: cat, clock: clock}
}

// UpgradeCost is buildCost × upgradeMult^level for the next level
func UpgradeCost(def catalog.LabTypeDef, currentLevel int) int64 {
	return int64(math.Floor(float64(def.BuildCost) * math.Pow(def.UpgradeMult, float64(currentLevel))))
}

// Handle executes an upgrade or destroy command
func (h *LabRosterHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	switch cmd := request.(type) {
	case *UpgradeLabCommand:
		return h.upgrade(ctx, cmd)
	case *DestroyLabCommand:
		return h.destroy(ctx, cmd)
	default:
		return nil, fmt.Errorf("invalid request type")
	}
}

func (h *LabRosterHandler) upgrade(ctx context.Context, cmd *UpgradeLabCommand) (common.Response, error) {
	c, err := h.cartelRepo.FindByID(ctx, cmd.CartelID)
	if err != nil {
		return nil, err
	}
	if err := c.RejectIfFrozen(h.clock.Now()); err != nil {
		return nil, err
	}

	lab := c.LabByID(cmd.LabID)
	if lab == nil {
		return nil, shared.NewNotFoundError("lab", cmd.LabID)
	}
	def, ok := h.catalog.LabType(lab.LabType)
	if !ok {
		return nil, shared.NewValidationError("labType", fmt.Sprintf("unknown lab type %q", lab.LabType))
	}
	if lab.Level >= def.MaxLevel {
		return nil, shared.NewPreconditionError("lab %d is already at max level %d", lab.ID, def.MaxLevel)
	}

	cost := UpgradeCost(def, lab.Level)
	if err := c.Debit(cost); err != nil {
		return nil, err
	}
	lab.Level++

	if err := h.cartelRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return &UpgradeLabResponse{Lab: lab, Cost: cost}, nil
}

func (h *LabRosterHandler) destroy(ctx context.Context, cmd *DestroyLabCommand) (common.Response, error) {
	c, err := h.cartelRepo.FindByID(ctx, cmd.CartelID)
	if err != nil {
		return nil, err
	}
	if err := c.RejectIfFrozen(h.clock.Now()); err != nil {
		return nil, err
	}
	if err := c.RemoveLab(cmd.LabID); err != nil {
		return nil, err
	}
	if err := h.cartelRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return &DestroyLabResponse{Destroyed: true}, nil
}
