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

// CollectBatchCommand harvests a finished batch into the inventory.
// Collection is pull-based: a batch sits ready until collected, and time
// past ready is simply clamped.
type CollectBatchCommand struct {
	CartelID int
	LabID    int
}

// CollectBatchResponse reports what landed in the inventory
type CollectBatchResponse struct {
	DrugID   string
	Quantity int
	Quality  int
}

// CollectBatchHandler handles batch collection
type CollectBatchHandler struct {
	cartelRepo cartel.Repository
	catalog    *catalog.Catalog
	clock      shared.Clock
}

// NewCollectBatchHandler creates a new collect batch handler
func NewCollectBatchHandler(cartelRepo cartel.Repository, cat *catalog.Catalog, clock shared.Clock) *CollectBatchHandler {
	return &CollectBatchHandler{cartelRepo: cartelRepo, catalog: cat, clock: clock}
}

// Handle executes the collect batch command
func (h *CollectBatchHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CollectBatchCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
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
	if !lab.Producing() {
		return nil, shared.NewPreconditionError("lab %d is not producing", lab.ID)
	}

	drug, ok := h.catalog.Drug(lab.ProducingDrug)
	if !ok {
		return nil, shared.NewValidationError("drugId", fmt.Sprintf("unknown drug %q", lab.ProducingDrug))
	}
	labDef, _ := h.catalog.LabType(lab.LabType)

	needed := ProductionTime(drug, labDef, lab.Level)
	elapsed := now.Sub(*lab.BatchStartedAt)
	if elapsed < needed {
		remaining := int64(math.Ceil((needed - elapsed).Seconds()))
		return nil, shared.NewPreconditionError("batch not ready: %d seconds remaining", remaining)
	}

	quality := BatchQuality(drug, labDef, lab.Level)
	c.AddProduct(drug.ID, drug.BatchSize, float64(quality))
	lab.ProducingDrug = ""
	lab.BatchStartedAt = nil
	c.RaiseHeat(h.catalog.Constants.CollectHeatGain)
	c.GainReputation(h.catalog.Constants.CollectRepGain, h.catalog)

	if err := h.cartelRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return &CollectBatchResponse{DrugID: drug.ID, Quantity: drug.BatchSize, Quality: quality}, nil
}
