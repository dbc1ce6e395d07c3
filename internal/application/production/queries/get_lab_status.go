package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	prodCommands "github.com/andrescamacho/cartel-go/internal/application/production/commands"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// GetLabStatusQuery fetches a cartel's labs with live batch timers
type GetLabStatusQuery struct {
	CartelID int
}

// LabStatus is one lab with its derived production state
type LabStatus struct {
	Lab           cartel.Lab
	Producing     bool
	DrugID        string
	TimeRemaining time.Duration // zero when ready or idle
	ReadyAt       *time.Time
}

// GetLabStatusResponse carries the lab roster
type GetLabStatusResponse struct {
	Labs []LabStatus
}

// GetLabStatusHandler handles the lab status query
type GetLabStatusHandler struct {
	cartelRepo cartel.Repository
	catalog    *catalog.Catalog
	clock      shared.Clock
}

// NewGetLabStatusHandler creates a new lab status handler
func NewGetLabStatusHandler(cartelRepo cartel.Repository, cat *catalog.Catalog, clock shared.Clock) *GetLabStatusHandler {
	return &GetLabStatusHandler{cartelRepo: cartelRepo, catalog: cat, clock: clock}
}

// Handle executes the lab status query
func (h *GetLabStatusHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetLabStatusQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	c, err := h.cartelRepo.FindByID(ctx, query.CartelID)
	if err != nil {
		return nil, err
	}

	now := h.clock.Now()
	statuses := make([]LabStatus, 0, len(c.Labs))
	for _, lab := range c.Labs {
		status := LabStatus{Lab: lab}
		if lab.Producing() {
			drug, ok := h.catalog.Drug(lab.ProducingDrug)
			if ok {
				labDef, _ := h.catalog.LabType(lab.LabType)
				ready := lab.BatchStartedAt.Add(prodCommands.ProductionTime(drug, labDef, lab.Level))
				status.Producing = true
				status.DrugID = drug.ID
				status.ReadyAt = &ready
				if remaining := ready.Sub(now); remaining > 0 {
					status.TimeRemaining = remaining
				}
			}
		}
		statuses = append(statuses, status)
	}
	return &GetLabStatusResponse{Labs: statuses}, nil
}
