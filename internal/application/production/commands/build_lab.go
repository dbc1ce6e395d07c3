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

// BuildLabCommand erects a lab in a territory the cartel controls
type BuildLabCommand struct {
	CartelID    int
	LabType     string
	TerritoryID string
}

// BuildLabResponse carries the new lab
type BuildLabResponse struct {
	Lab *cartel.Lab
}

// BuildLabHandler handles lab construction
type BuildLabHandler struct {
	cartelRepo    cartel.Repository
	territoryRepo territory.Repository
	catalog       *catalog.Catalog
	clock         shared.Clock
}

// NewBuildLabHandler creates a new build lab handler
func NewBuildLabHandler(
	cartelRepo cartel.Repository,
	territoryRepo territory.Repository,
	cat *catalog.Catalog,
	clock shared.Clock,
) *BuildLabHandler {
	return &BuildLabHandler{cartelRepo: cartelRepo, territoryRepo: territoryRepo, catalog: cat, clock: clock}
}

// Handle executes the build lab command
func (h *BuildLabHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*BuildLabCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	labDef, ok := h.catalog.LabType(cmd.LabType)
	if !ok {
		return nil, shared.NewValidationError("labType", fmt.Sprintf("unknown lab type %q", cmd.LabType))
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

	labCap := h.catalog.RepLevelFor(c.Reputation).LabCap
	if len(c.Labs) >= labCap {
		return nil, shared.NewPreconditionError("lab roster full: %d of %d labs", len(c.Labs), labCap)
	}

	if err := c.Debit(labDef.BuildCost); err != nil {
		return nil, err
	}
	lab := c.AddLab(labDef.ID, t.ID)

	if err := h.cartelRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return &BuildLabResponse{Lab: lab}, nil
}
