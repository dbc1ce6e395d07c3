package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// RenameCartelCommand changes the cartel's display name
type RenameCartelCommand struct {
	CartelID int
	NewName  string
}

// RenameCartelResponse carries the renamed cartel
type RenameCartelResponse struct {
	Cartel *cartel.Cartel
}

// RenameCartelHandler handles cartel renames
type RenameCartelHandler struct {
	cartelRepo cartel.Repository
	clock      shared.Clock
}

// NewRenameCartelHandler creates a new rename handler
func NewRenameCartelHandler(cartelRepo cartel.Repository, clock shared.Clock) *RenameCartelHandler {
	return &RenameCartelHandler{cartelRepo: cartelRepo, clock: clock}
}

// Handle executes the rename command
func (h *RenameCartelHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RenameCartelCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.NewName == "" {
		return nil, shared.NewValidationError("newName", "cartel name cannot be empty")
	}

	c, err := h.cartelRepo.FindByID(ctx, cmd.CartelID)
	if err != nil {
		return nil, err
	}
	if err := c.RejectIfFrozen(h.clock.Now()); err != nil {
		return nil, err
	}

	c.Name = cmd.NewName
	if err := h.cartelRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return &RenameCartelResponse{Cartel: c}, nil
}
