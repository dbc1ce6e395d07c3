package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	domainPorts "github.com/andrescamacho/cartel-go/internal/domain/ports"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// DepositCommand moves cash from the player account into the treasury
type DepositCommand struct {
	CartelID int
	Amount   int64
}

// WithdrawCommand moves cash from the treasury back to the player account
type WithdrawCommand struct {
	CartelID int
	Amount   int64
}

// TransferFundsResponse carries the updated treasury balance
type TransferFundsResponse struct {
	Treasury int64
}

// TransferFundsHandler handles deposits and withdrawals between the
// player's personal account and the cartel treasury
type TransferFundsHandler struct {
	cartelRepo cartel.Repository
	ledger     domainPorts.PlayerLedger
	clock      shared.Clock
}

// NewTransferFundsHandler creates a new transfer funds handler
func NewTransferFundsHandler(
	cartelRepo cartel.Repository,
	ledger domainPorts.PlayerLedger,
	clock shared.Clock,
) *TransferFundsHandler {
	return &TransferFundsHandler{cartelRepo: cartelRepo, ledger: ledger, clock: clock}
}

// Handle executes a deposit or withdraw command
func (h *TransferFundsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	switch cmd := request.(type) {
	case *DepositCommand:
		return h.deposit(ctx, cmd)
	case *WithdrawCommand:
		return h.withdraw(ctx, cmd)
	default:
		return nil, fmt.Errorf("invalid request type")
	}
}

func (h *TransferFundsHandler) deposit(ctx context.Context, cmd *DepositCommand) (common.Response, error) {
	if cmd.Amount <= 0 {
		return nil, shared.NewValidationError("amount", "deposit amount must be positive")
	}
	c, err := h.cartelRepo.FindByID(ctx, cmd.CartelID)
	if err != nil {
		return nil, err
	}
	if err := c.RejectIfFrozen(h.clock.Now()); err != nil {
		return nil, err
	}
	if err := h.ledger.Debit(ctx, c.PlayerID, cmd.Amount, "cartel deposit"); err != nil {
		return nil, err
	}
	if err := c.Credit(cmd.Amount); err != nil {
		return nil, err
	}
	if err := h.cartelRepo.Save(ctx, c); err != nil {
		_ = h.ledger.Credit(ctx, c.PlayerID, cmd.Amount, "cartel deposit refund")
		return nil, err
	}
	return &TransferFundsResponse{Treasury: c.Treasury}, nil
}

func (h *TransferFundsHandler) withdraw(ctx context.Context, cmd *WithdrawCommand) (common.Response, error) {
	if cmd.Amount <= 0 {
		return nil, shared.NewValidationError("amount", "withdraw amount must be positive")
	}
	c, err := h.cartelRepo.FindByID(ctx, cmd.CartelID)
	if err != nil {
		return nil, err
	}
	if err := c.RejectIfFrozen(h.clock.Now()); err != nil {
		return nil, err
	}
	if err := c.Debit(cmd.Amount); err != nil {
		return nil, err
	}
	if err := h.cartelRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	if err := h.ledger.Credit(ctx, c.PlayerID, cmd.Amount, "cartel withdrawal"); err != nil {
		return nil, err
	}
	return &TransferFundsResponse{Treasury: c.Treasury}, nil
}
