package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/andrescamacho/cartel-go/internal/adapters/persistence"
	"github.com/andrescamacho/cartel-go/internal/application/mission/commands"
	"github.com/andrescamacho/cartel-go/internal/application/mission/services"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/mission"
	"github.com/andrescamacho/cartel-go/internal/domain/npc"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
	"github.com/andrescamacho/cartel-go/internal/infrastructure/database"
)

type missionContext struct {
	db            *gorm.DB
	cartelRepo    *persistence.GormCartelRepository
	npcRepo       *persistence.GormNPCRepository
	territoryRepo *persistence.GormTerritoryRepository
	missionRepo   *persistence.GormMissionRepository
	cat           *catalog.Catalog
	clock         *shared.MockClock
	rng           *shared.SequenceRand
	startHandler  *commands.StartMissionHandler
	cartel        *cartel.Cartel
	driver        *npc.NPC
	mission       *mission.Mission
	sweepResp     *commands.RunMissionSweepResponse
	err           error
}

func (mc *missionContext) reset() error {
	if mc.db != nil {
		_ = database.Close(mc.db)
	}
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to open test database: %w", err)
	}
	mc.db = db
	mc.cat = catalog.Default()
	if err := database.SeedTerritories(db, mc.cat); err != nil {
		return fmt.Errorf("failed to seed territories: %w", err)
	}
	mc.cartelRepo = persistence.NewGormCartelRepository(db)
	mc.npcRepo = persistence.NewGormNPCRepository(db)
	mc.territoryRepo = persistence.NewGormTerritoryRepository(db)
	mc.missionRepo = persistence.NewGormMissionRepository(db)
	mc.clock = shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	mc.rng = &shared.SequenceRand{}
	mc.startHandler = commands.NewStartMissionHandler(
		mc.cartelRepo, mc.npcRepo, mc.territoryRepo, mc.missionRepo, mc.cat, mc.clock)
	mc.cartel = nil
	mc.driver = nil
	mc.mission = nil
	mc.sweepResp = nil
	mc.err = nil
	return nil
}

// Setup steps

func (mc *missionContext) aCartelRunByPlayerWithTreasury(name string, playerID int, treasury int64) error {
	c, err := cartel.New(playerID, name, mc.clock.Now())
	if err != nil {
		return err
	}
	if err := c.Credit(treasury); err != nil {
		return err
	}
	if err := mc.cartelRepo.Add(context.Background(), c); err != nil {
		return err
	}
	mc.cartel = c
	return nil
}

func (mc *missionContext) theCartelHoldsUnitsOfAtQuality(quantity int, drugID string, quality float64) error {
	mc.cartel.AddProduct(drugID, quantity, quality)
	return mc.cartelRepo.Save(context.Background(), mc.cartel)
}

func (mc *missionContext) anIdleDriverOnTheRoster() error {
	n := &npc.NPC{
		CartelID: mc.cartel.ID,
		Name:     "Tommy Young",
		Role:     "driver",
		Rarity:   "common",
		Stats:    npc.Stats{Combat: 40, Stealth: 50, Intelligence: 30, Charisma: 30, Speed: 50},
		Level:    1,
		Loyalty:  50,
		Status:   npc.StatusIdle,
		HiredAt:  mc.clock.Now(),
	}
	if err := mc.npcRepo.Add(context.Background(), n); err != nil {
		return err
	}
	mc.driver = n
	return nil
}

func (mc *missionContext) everyStreetRollWillComeUpSafe() error {
	mc.rng.Floats = []float64{0.99}
	return nil
}

// Action steps

func (mc *missionContext) theCrewStartsADelivery(quantity int, drugID, territoryID string) error {
	resp, err := mc.startHandler.Handle(context.Background(), &commands.StartDeliveryCommand{
		CartelID:        mc.cartel.ID,
		NPCIDs:          []int{mc.driver.ID},
		TargetTerritory: territoryID,
		DrugID:          drugID,
		Quantity:        quantity,
	})
	mc.err = err
	if err == nil {
		mc.mission = resp.(*commands.StartMissionResponse).Mission
	}
	return nil
}

func (mc *missionContext) hourPasses(hours int) error {
	mc.clock.Advance(time.Duration(hours) * time.Hour)
	return nil
}

func (mc *missionContext) theMissionSweepRuns() error {
	resolver := services.NewResolver(
		mc.cartelRepo, mc.npcRepo, mc.territoryRepo, mc.missionRepo, mc.cat, mc.clock, mc.rng)
	handler := commands.NewRunMissionSweepHandler(
		mc.missionRepo, mc.npcRepo, resolver, mc.clock, rate.NewLimiter(rate.Inf, 1))
	resp, err := handler.Handle(context.Background(), &commands.RunMissionSweepCommand{})
	if err != nil {
		return err
	}
	mc.sweepResp = resp.(*commands.RunMissionSweepResponse)
	return nil
}

// Assertion steps

func (mc *missionContext) theMissionShouldBeActiveAndCompleteInMinutes(minutes int) error {
	if mc.err != nil {
		return fmt.Errorf("expected mission to start, got: %v", mc.err)
	}
	if mc.mission.Status != mission.StatusActive {
		return fmt.Errorf("expected status active, got %s", mc.mission.Status)
	}
	want := mc.clock.Now().Add(time.Duration(minutes) * time.Minute)
	if !mc.mission.CompletesAt.Equal(want) {
		return fmt.Errorf("expected completion at %s, got %s", want, mc.mission.CompletesAt)
	}
	return nil
}

func (mc *missionContext) theStartShouldBeRejectedAsAPreconditionFailure() error {
	var precondErr *shared.PreconditionError
	if !errors.As(mc.err, &precondErr) {
		return fmt.Errorf("expected precondition failure, got: %v", mc.err)
	}
	return nil
}

func (mc *missionContext) theSweepShouldResolveMissions(count int) error {
	if mc.sweepResp == nil {
		return fmt.Errorf("mission sweep never ran")
	}
	if mc.sweepResp.Resolved != count {
		return fmt.Errorf("expected %d resolved, got %d", count, mc.sweepResp.Resolved)
	}
	return nil
}

func (mc *missionContext) theMissionShouldBeCompleted() error {
	m, err := mc.missionRepo.FindByID(context.Background(), mc.mission.ID)
	if err != nil {
		return err
	}
	if m.Status != mission.StatusCompleted {
		return fmt.Errorf("expected status completed, got %s", m.Status)
	}
	return nil
}

func (mc *missionContext) theTreasuryBalanceShouldBe(amount int64) error {
	c, err := mc.cartelRepo.FindByID(context.Background(), mc.cartel.ID)
	if err != nil {
		return err
	}
	if c.Treasury != amount {
		return fmt.Errorf("expected treasury %d, got %d", amount, c.Treasury)
	}
	return nil
}

func (mc *missionContext) theCartelHeatShouldBe(heat float64) error {
	c, err := mc.cartelRepo.FindByID(context.Background(), mc.cartel.ID)
	if err != nil {
		return err
	}
	if c.Heat != heat {
		return fmt.Errorf("expected heat %v, got %v", heat, c.Heat)
	}
	return nil
}

func (mc *missionContext) theCartelReputationShouldBe(rep int64) error {
	c, err := mc.cartelRepo.FindByID(context.Background(), mc.cartel.ID)
	if err != nil {
		return err
	}
	if c.Reputation != rep {
		return fmt.Errorf("expected reputation %d, got %d", rep, c.Reputation)
	}
	return nil
}

func (mc *missionContext) theCartelShouldHoldUnitsOf(quantity int, drugID string) error {
	c, err := mc.cartelRepo.FindByID(context.Background(), mc.cartel.ID)
	if err != nil {
		return err
	}
	stack := c.StackOf(drugID)
	held := 0
	if stack != nil {
		held = stack.Quantity
	}
	if held != quantity {
		return fmt.Errorf("expected %d units of %s, got %d", quantity, drugID, held)
	}
	return nil
}

func (mc *missionContext) theDriverShouldBeOnTheMission() error {
	n, err := mc.npcRepo.FindByID(context.Background(), mc.driver.ID)
	if err != nil {
		return err
	}
	if n.Status != npc.StatusOnMission {
		return fmt.Errorf("expected driver on_mission, got %s", n.Status)
	}
	return nil
}

func (mc *missionContext) theDriverShouldBeIdle() error {
	n, err := mc.npcRepo.FindByID(context.Background(), mc.driver.ID)
	if err != nil {
		return err
	}
	if n.Status != npc.StatusIdle {
		return fmt.Errorf("expected driver idle, got %s", n.Status)
	}
	return nil
}

// InitializeMissionScenario registers mission lifecycle steps
func InitializeMissionScenario(sc *godog.ScenarioContext) {
	mc := &missionContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		return ctx, mc.reset()
	})

	sc.Step(`^a cartel "([^"]*)" run by player (\d+) with (\d+) in the treasury$`, mc.aCartelRunByPlayerWithTreasury)
	sc.Step(`^the cartel holds (\d+) units of "([^"]*)" at quality (\d+)$`, mc.theCartelHoldsUnitsOfAtQuality)
	sc.Step(`^an idle driver on the roster$`, mc.anIdleDriverOnTheRoster)
	sc.Step(`^every street roll will come up safe$`, mc.everyStreetRollWillComeUpSafe)

	sc.Step(`^the crew starts a delivery of (\d+) units of "([^"]*)" to "([^"]*)"$`, mc.theCrewStartsADelivery)
	sc.Step(`^(\d+) hour passes$`, mc.hourPasses)
	sc.Step(`^the mission sweep runs$`, mc.theMissionSweepRuns)

	sc.Step(`^the mission should be active and complete in (\d+) minutes$`, mc.theMissionShouldBeActiveAndCompleteInMinutes)
	sc.Step(`^the start should be rejected as a precondition failure$`, mc.theStartShouldBeRejectedAsAPreconditionFailure)
	sc.Step(`^the sweep should resolve (\d+) missions?$`, mc.theSweepShouldResolveMissions)
	sc.Step(`^the mission should be completed$`, mc.theMissionShouldBeCompleted)
	sc.Step(`^the treasury balance should be (\d+)$`, mc.theTreasuryBalanceShouldBe)
	sc.Step(`^the cartel heat should be (\d+)$`, mc.theCartelHeatShouldBe)
	sc.Step(`^the cartel reputation should be (\d+)$`, mc.theCartelReputationShouldBe)
	sc.Step(`^the cartel should hold (\d+) units of "([^"]*)"$`, mc.theCartelShouldHoldUnitsOf)
	sc.Step(`^the driver should be on the mission$`, mc.theDriverShouldBeOnTheMission)
	sc.Step(`^the driver should be idle$`, mc.theDriverShouldBeIdle)
}
