package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	domainPorts "github.com/andrescamacho/cartel-go/internal/domain/ports"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// CreateCartelCommand founds a new cartel for a player. The founding
// cost is debited from the player's personal account, not the treasury.
type CreateCartelCommand struct {
	PlayerID int
	Name     string
}

// CreateCartelResponse carries the new cartel
type CreateCartelResponse struct {
	Cartel *cartel.Cartel
}

// CreateCartelHandler handles cartel creation
type CreateCartelHandler struct {
	cartelRepo cartel.Repository
	ledger     domainPorts.PlayerLedger
	catalog    *catalog.Catalog
	clock      shared.Clock
}

// NewCreateCartelHandler creates a new create cartel handler
func NewCreateCartelHandler(
	cartelRepo cartel.Repository,
	ledger domainPorts.PlayerLedger,
	cat *catalog.Catalog,
	clock shared.Clock,
) *CreateCartelHandler {
	return &CreateCartelHandler{cartelRepo: cartelRepo, ledger: ledger, catalog: cat, clock: clock}
}

// Handle executes the create cartel command
func (h *CreateCartelHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CreateCartelCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if existing, err := h.cartelRepo.FindByPlayerID(ctx, cmd.PlayerID); err == nil && existing != nil {
		return nil, shared.NewPreconditionError("player %d already runs cartel %q", cmd.PlayerID, existing.Name)
	}

	c, err := cartel.New(cmd.PlayerID, cmd.Name, h.clock.Now())
	if err != nil {
		return nil, err
	}

	cost := h.catalog.Constants.CartelCost
	if err := h.ledger.Debit(ctx, cmd.PlayerID, cost, "cartel founding"); err != nil {
		return nil, err
	}

	if err := h.cartelRepo.Add(ctx, c); err != nil {
		// refund the founding cost; the cartel was never persisted
		_ = h.ledger.Credit(ctx, cmd.PlayerID, cost, "cartel founding refund")
		return nil, err
	}

	return &CreateCartelResponse{Cartel: c}, nil
}
