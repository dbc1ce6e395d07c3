package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"gorm.io/gorm"

	"github.com/andrescamacho/cartel-go/internal/adapters/persistence"
	"github.com/andrescamacho/cartel-go/internal/application/cartel/commands"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
	"github.com/andrescamacho/cartel-go/internal/infrastructure/database"
)

type treasuryContext struct {
	db      *gorm.DB
	repo    *persistence.GormCartelRepository
	ledger  *persistence.GormPlayerLedger
	clock   *shared.MockClock
	handler *commands.TransferFundsHandler
	cartel  *cartel.Cartel
	err     error
}

func (tc *treasuryContext) reset() error {
	if tc.db != nil {
		_ = database.Close(tc.db)
	}
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to open test database: %w", err)
	}
	tc.db = db
	tc.repo = persistence.NewGormCartelRepository(db)
	tc.ledger = persistence.NewGormPlayerLedger(db)
	tc.clock = shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	tc.handler = commands.NewTransferFundsHandler(tc.repo, tc.ledger, tc.clock)
	tc.cartel = nil
	tc.err = nil
	return nil
}

// Setup steps

func (tc *treasuryContext) aCartelRunByPlayer(name string, playerID int) error {
	c, err := cartel.New(playerID, name, tc.clock.Now())
	if err != nil {
		return err
	}
	if err := tc.repo.Add(context.Background(), c); err != nil {
		return err
	}
	tc.cartel = c
	return nil
}

func (tc *treasuryContext) playerHasAPersonalBalanceOf(playerID int, amount int64) error {
	return tc.ledger.Credit(context.Background(), playerID, amount, "seed balance")
}

func (tc *treasuryContext) theTreasuryHolds(amount int64) error {
	if err := tc.cartel.Credit(amount); err != nil {
		return err
	}
	return tc.repo.Save(context.Background(), tc.cartel)
}

func (tc *treasuryContext) theCartelWasBustedAndFrozenForHours(hours int) error {
	until := tc.clock.Now().Add(time.Duration(hours) * time.Hour)
	tc.cartel.BustedUntil = &until
	return tc.repo.Save(context.Background(), tc.cartel)
}

func (tc *treasuryContext) hoursPass(hours int) error {
	tc.clock.Advance(time.Duration(hours) * time.Hour)
	return nil
}

// Action steps

func (tc *treasuryContext) playerDepositsIntoTheTreasury(playerID int, amount int64) error {
	_, tc.err = tc.handler.Handle(context.Background(), &commands.DepositCommand{
		CartelID: tc.cartel.ID,
		Amount:   amount,
	})
	return nil
}

func (tc *treasuryContext) playerWithdrawsFromTheTreasury(playerID int, amount int64) error {
	_, tc.err = tc.handler.Handle(context.Background(), &commands.WithdrawCommand{
		CartelID: tc.cartel.ID,
		Amount:   amount,
	})
	return nil
}

// Assertion steps

func (tc *treasuryContext) theTransferShouldSucceed() error {
	if tc.err != nil {
		return fmt.Errorf("expected transfer to succeed, got: %v", tc.err)
	}
	return nil
}

func (tc *treasuryContext) theTransferShouldFailForInsufficientFunds() error {
	var fundsErr *shared.InsufficientFundsError
	if !errors.As(tc.err, &fundsErr) {
		return fmt.Errorf("expected insufficient funds error, got: %v", tc.err)
	}
	return nil
}

func (tc *treasuryContext) theTransferShouldBeRejectedWhileTheBustFreezeHolds() error {
	var frozenErr *shared.BustFrozenError
	if !errors.As(tc.err, &frozenErr) {
		return fmt.Errorf("expected bust freeze rejection, got: %v", tc.err)
	}
	return nil
}

func (tc *treasuryContext) theTreasuryShouldHold(amount int64) error {
	c, err := tc.repo.FindByID(context.Background(), tc.cartel.ID)
	if err != nil {
		return err
	}
	if c.Treasury != amount {
		return fmt.Errorf("expected treasury %d, got %d", amount, c.Treasury)
	}
	return nil
}

func (tc *treasuryContext) playerShouldHaveAPersonalBalanceOf(playerID int, amount int64) error {
	balance, err := tc.ledger.Balance(context.Background(), playerID)
	if err != nil {
		return err
	}
	if balance != amount {
		return fmt.Errorf("expected player %d balance %d, got %d", playerID, amount, balance)
	}
	return nil
}

// InitializeTreasuryScenario registers treasury and bust freeze steps
func InitializeTreasuryScenario(sc *godog.ScenarioContext) {
	tc := &treasuryContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})

	sc.Step(`^a cartel "([^"]*)" run by player (\d+)$`, tc.aCartelRunByPlayer)
	sc.Step(`^player (\d+) has a personal balance of (\d+)$`, tc.playerHasAPersonalBalanceOf)
	sc.Step(`^the treasury holds (\d+)$`, tc.theTreasuryHolds)
	sc.Step(`^the cartel was busted and is frozen for the next (\d+) hours$`, tc.theCartelWasBustedAndFrozenForHours)
	sc.Step(`^(\d+) hours pass$`, tc.hoursPass)

	sc.Step(`^player (\d+) deposits (\d+) into the treasury$`, tc.playerDepositsIntoTheTreasury)
	sc.Step(`^player (\d+) withdraws (\d+) from the treasury$`, tc.playerWithdrawsFromTheTreasury)

	sc.Step(`^the transfer should succeed$`, tc.theTransferShouldSucceed)
	sc.Step(`^the transfer should fail for insufficient funds$`, tc.theTransferShouldFailForInsufficientFunds)
	sc.Step(`^the transfer should be rejected while the bust freeze holds$`, tc.theTransferShouldBeRejectedWhileTheBustFreezeHolds)
	sc.Step(`^the treasury should hold (\d+)$`, tc.theTreasuryShouldHold)
	sc.Step(`^player (\d+) should have a personal balance of (\d+)$`, tc.playerShouldHaveAPersonalBalanceOf)
}
