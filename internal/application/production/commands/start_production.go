package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// StartProductionCommand begins cooking one batch in a lab. Raw material
// cost is debited up front and never refunded.
type StartProductionCommand struct {
	CartelID int
	LabID    int
	DrugID   string
}

// StartProductionResponse reports when the batch will be ready
type StartProductionResponse struct {
	Lab     *cartel.Lab
	ReadyAt time.Time
}

// StartProductionHandler handles batch starts
type StartProductionHandler struct {
	cartelRepo cartel.Repository
	catalog    *catalog.Catalog
	clock      shared.Clock
}

// NewStartProductionHandler creates a new start production handler
func NewStartProductionHandler(cartelRepo cartel.Repository, cat *catalog.Catalog, clock shared.Clock) *StartProductionHandler {
	return &StartProductionHandler{cartelRepo: cartelRepo, catalog: cat, clock: clock}
}

// ProductionTime is the cook duration at a lab level: base time scaled
// by the level speed bonus with a hard floor at 20% of base.
func ProductionTime(drug catalog.DrugDef, labDef catalog.LabTypeDef, level int) time.Duration {
	factor := 1 - float64(level-1)*labDef.SpeedBonus
	if factor < 0.2 {
		factor = 0.2
	}
	return time.Duration(float64(drug.BaseTime) * factor)
}

// BatchQuality is the output quality at a lab level, capped at 100
func BatchQuality(drug catalog.DrugDef, labDef catalog.LabTypeDef, level int) int {
	q := drug.BaseQuality + (level-1)*labDef.QualityBonus
	if q > 100 {
		q = 100
	}
	return q
}

// Handle executes the start production command
func (h *StartProductionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*StartProductionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	drug, ok := h.catalog.Drug(cmd.DrugID)
	if !ok {
		return nil, shared.NewValidationError("drugId", fmt.Sprintf("unknown drug %q", cmd.DrugID))
	}

	c, err := h.cartelRepo.FindByID(ctx, cmd.CartelID)
	if err != nil {
		return nil, err
	}
	now := h.clock.Now()
	if err := c.RejectIfFrozen(now); err != nil {
		return nil, err
	}

	lab := c.LabByID(cmd.LabID)
	if lab == nil {
		return nil, shared.NewNotFoundError("lab", cmd.LabID)
	}
	if lab.Producing() {
		return nil, shared.NewPreconditionError("lab %d is already cooking %s", lab.ID, lab.ProducingDrug)
	}
	if drug.RequiredLab != lab.LabType {
		return nil, shared.NewPreconditionError("%s requires a %s, lab %d is a %s", drug.ID, drug.RequiredLab, lab.ID, lab.LabType)
	}

	if err := c.Debit(drug.ProductionCost); err != nil {
		return nil, err
	}
	started := now
	lab.ProducingDrug = drug.ID
	lab.BatchStartedAt = &started

	if err := h.cartelRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	labDef, _ := h.catalog.LabType(lab.LabType)
	return &StartProductionResponse{
		Lab:     lab,
		ReadyAt: started.Add(ProductionTime(drug, labDef, lab.Level)),
	}, nil
}
