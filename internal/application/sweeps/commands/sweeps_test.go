package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/cartel-go/internal/adapters/persistence"
	"github.com/andrescamacho/cartel-go/internal/application/sweeps/commands"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/npc"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
	"github.com/andrescamacho/cartel-go/internal/infrastructure/database"
	"github.com/andrescamacho/cartel-go/test/helpers"
)

type sweepFixture struct {
	db            *gorm.DB
	cartelRepo    *persistence.GormCartelRepository
	npcRepo       *persistence.GormNPCRepository
	territoryRepo *persistence.GormTerritoryRepository
	cat           *catalog.Catalog
	clock         *shared.MockClock
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()
	db := helpers.NewTestDB(t)
	cat := catalog.Default()
	require.NoError(t, database.SeedTerritories(db, cat))
	return &sweepFixture{
		db:            db,
		cartelRepo:    persistence.NewGormCartelRepository(db),
		npcRepo:       persistence.NewGormNPCRepository(db),
		territoryRepo: persistence.NewGormTerritoryRepository(db),
		cat:           cat,
		clock:         shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
}

func (f *sweepFixture) addCartel(t *testing.T, playerID int, name string, treasury int64, heat float64) *cartel.Cartel {
	t.Helper()
	c, err := cartel.New(playerID, name, f.clock.Now())
	require.NoError(t, err)
	c.Treasury = treasury
	c.Heat = heat
	require.NoError(t, f.cartelRepo.Add(context.Background(), c))
	return c
}

func (f *sweepFixture) addNPC(t *testing.T, cartelID int, role string, status npc.Status, loyalty int) *npc.NPC {
	t.Helper()
	n := &npc.NPC{
		CartelID: cartelID,
		Name:     "Eddie Petrov",
		Role:     role,
		Rarity:   "common",
		Stats:    npc.Stats{Combat: 40, Stealth: 30, Intelligence: 30, Charisma: 25, Speed: 35},
		Level:    1,
		Loyalty:  loyalty,
		Status:   status,
		HiredAt:  f.clock.Now(),
	}
	require.NoError(t, f.npcRepo.Add(context.Background(), n))
	return n
}

func TestHeatSweep_DecaysHeatAndTricklesReputation(t *testing.T) {
	// Arrange
	f := newSweepFixture(t)
	c := f.addCartel(t, 1, "Harbor Kings", 10000, 30)
	c.AddLab("grow_house", "docklands")
	require.NoError(t, f.cartelRepo.Save(context.Background(), c))
	f.addNPC(t, c.ID, "dealer", npc.StatusIdle, 50)
	require.NoError(t, f.territoryRepo.ClaimIfUnclaimed(context.Background(), "docklands", c.ID, 10))

	handler := commands.NewRunHeatSweepHandler(
		f.cartelRepo, f.npcRepo, f.territoryRepo, f.cat, f.clock, &shared.SequenceRand{Floats: []float64{0.99}})

	// Act
	result, err := handler.Handle(context.Background(), &commands.RunHeatSweepCommand{})

	// Assert
	require.NoError(t, err)
	resp := result.(*commands.RunHeatSweepResponse)
	assert.Equal(t, 1, resp.Cartels)
	assert.Equal(t, 0, resp.Busts)

	saved, _ := f.cartelRepo.FindByID(context.Background(), c.ID)
	assert.Equal(t, 28.0, saved.Heat)
	// base 2 + lab 3 + territory 5 + member 1
	assert.Equal(t, int64(11), saved.Reputation)
}

func TestHeatSweep_BustAboveThreshold(t *testing.T) {
	// Arrange: heat 100 gives a (100-80) × 0.005 = 10% bust chance
	f := newSweepFixture(t)
	c := f.addCartel(t, 1, "Harbor Kings", 100000, 100)
	c.AddProduct("cocaine", 40, 55)
	require.NoError(t, f.cartelRepo.Save(context.Background(), c))
	street := f.addNPC(t, c.ID, "dealer", npc.StatusIdle, 50)
	locked := f.addNPC(t, c.ID, "dealer", npc.StatusArrested, 50)

	// bust roll hits, then the street member's arrest roll hits
	rng := &shared.SequenceRand{Floats: []float64{0.01, 0.01}}
	handler := commands.NewRunHeatSweepHandler(f.cartelRepo, f.npcRepo, f.territoryRepo, f.cat, f.clock, rng)

	// Act
	result, err := handler.Handle(context.Background(), &commands.RunHeatSweepCommand{})

	// Assert
	require.NoError(t, err)
	resp := result.(*commands.RunHeatSweepResponse)
	assert.Equal(t, 1, resp.Busts)
	assert.Equal(t, 1, resp.Arrests)

	saved, _ := f.cartelRepo.FindByID(context.Background(), c.ID)
	// quarter of the cash and product seized, heat halved after decay
	assert.Equal(t, int64(75000), saved.Treasury)
	assert.Equal(t, 30, saved.StackOf("cocaine").Quantity)
	assert.Equal(t, 49.0, saved.Heat)
	require.NotNil(t, saved.BustedUntil)
	assert.Equal(t, f.clock.Now().Add(24*time.Hour), saved.BustedUntil.UTC())

	n, _ := f.npcRepo.FindByID(context.Background(), street.ID)
	assert.Equal(t, npc.StatusArrested, n.Status)
	// already-arrested members are not rolled again
	n2, _ := f.npcRepo.FindByID(context.Background(), locked.ID)
	assert.Equal(t, npc.StatusArrested, n2.Status)
}

func TestHeatSweep_NoBustWhileFrozen(t *testing.T) {
	f := newSweepFixture(t)
	c := f.addCartel(t, 1, "Harbor Kings", 100000, 200)
	until := f.clock.Now().Add(12 * time.Hour)
	c.BustedUntil = &until
	require.NoError(t, f.cartelRepo.Save(context.Background(), c))

	// roll would hit if a bust were attempted
	handler := commands.NewRunHeatSweepHandler(
		f.cartelRepo, f.npcRepo, f.territoryRepo, f.cat, f.clock, &shared.SequenceRand{Floats: []float64{0.0}})

	result, err := handler.Handle(context.Background(), &commands.RunHeatSweepCommand{})

	require.NoError(t, err)
	assert.Equal(t, 0, result.(*commands.RunHeatSweepResponse).Busts)
}

func TestPayrollSweep_PaysAndAccruesArrears(t *testing.T) {
	// Arrange: dealer wage is 400; the second cartel can't cover its man
	f := newSweepFixture(t)
	rich := f.addCartel(t, 1, "Harbor Kings", 10000, 0)
	broke := f.addCartel(t, 2, "Old Town Mob", 100, 0)
	paid := f.addNPC(t, rich.ID, "dealer", npc.StatusIdle, 50)
	stiffed := f.addNPC(t, broke.ID, "dealer", npc.StatusIdle, 50)

	handler := commands.NewRunPayrollSweepHandler(f.cartelRepo, f.npcRepo, f.cat)

	// Act
	result, err := handler.Handle(context.Background(), &commands.RunPayrollSweepCommand{})

	// Assert
	require.NoError(t, err)
	resp := result.(*commands.RunPayrollSweepResponse)
	assert.Equal(t, int64(400), resp.Paid)
	assert.Equal(t, 1, resp.Unpaid)

	happyCartel, _ := f.cartelRepo.FindByID(context.Background(), rich.ID)
	assert.Equal(t, int64(9600), happyCartel.Treasury)
	happy, _ := f.npcRepo.FindByID(context.Background(), paid.ID)
	assert.Equal(t, int64(0), happy.SalaryOwed)
	assert.Equal(t, 50, happy.Loyalty)

	angry, _ := f.npcRepo.FindByID(context.Background(), stiffed.ID)
	assert.Equal(t, int64(400), angry.SalaryOwed)
	assert.Equal(t, 45, angry.Loyalty)

	// Act - next hour the arrears stack and morale keeps dropping
	_, err = handler.Handle(context.Background(), &commands.RunPayrollSweepCommand{})
	require.NoError(t, err)

	angry, _ = f.npcRepo.FindByID(context.Background(), stiffed.ID)
	assert.Equal(t, int64(800), angry.SalaryOwed)
	assert.Equal(t, 40, angry.Loyalty)
}

func TestRosterSweep_RecoversInjured(t *testing.T) {
	f := newSweepFixture(t)
	c := f.addCartel(t, 1, "Harbor Kings", 0, 0)

	healed := f.addNPC(t, c.ID, "enforcer", npc.StatusIdle, 50)
	past := f.clock.Now().Add(-time.Minute)
	healed.Injure(past)
	require.NoError(t, f.npcRepo.Save(context.Background(), healed))

	stillHurt := f.addNPC(t, c.ID, "enforcer", npc.StatusIdle, 50)
	future := f.clock.Now().Add(time.Hour)
	stillHurt.Injure(future)
	require.NoError(t, f.npcRepo.Save(context.Background(), stillHurt))

	handler := commands.NewRunRosterSweepHandler(
		f.cartelRepo, f.npcRepo, f.cat, f.clock, &shared.SequenceRand{Floats: []float64{0.99}})

	result, err := handler.Handle(context.Background(), &commands.RunRosterSweepCommand{})

	require.NoError(t, err)
	assert.Equal(t, 1, result.(*commands.RunRosterSweepResponse).Recovered)

	up, _ := f.npcRepo.FindByID(context.Background(), healed.ID)
	assert.Equal(t, npc.StatusIdle, up.Status)
	assert.Nil(t, up.RecoversAt)

	down, _ := f.npcRepo.FindByID(context.Background(), stillHurt.ID)
	assert.Equal(t, npc.StatusInjured, down.Status)
}

func TestRosterSweep_BetrayalStealsFromTreasury(t *testing.T) {
	// Arrange: loyalty 5 gives a (20-5)/100 = 15% betrayal chance
	f := newSweepFixture(t)
	c := f.addCartel(t, 1, "Harbor Kings", 50000, 0)
	traitor := f.addNPC(t, c.ID, "smuggler", npc.StatusIdle, 5)

	// trial roll hits, then the coin flip lands on theft
	rng := &shared.SequenceRand{Floats: []float64{0.01, 0.1}}
	handler := commands.NewRunRosterSweepHandler(f.cartelRepo, f.npcRepo, f.cat, f.clock, rng)

	// Act
	result, err := handler.Handle(context.Background(), &commands.RunRosterSweepCommand{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.(*commands.RunRosterSweepResponse).Betrayals)

	robbed, _ := f.cartelRepo.FindByID(context.Background(), c.ID)
	assert.Equal(t, int64(45000), robbed.Treasury)

	gone, _ := f.npcRepo.FindByID(context.Background(), traitor.ID)
	assert.Equal(t, npc.StatusDead, gone.Status)
}

func TestRosterSweep_BetrayalSnitchRaisesHeat(t *testing.T) {
	f := newSweepFixture(t)
	c := f.addCartel(t, 1, "Harbor Kings", 50000, 10)
	f.addNPC(t, c.ID, "smuggler", npc.StatusIdle, 0)

	// trial roll hits, coin flip lands on snitching
	rng := &shared.SequenceRand{Floats: []float64{0.01, 0.9}}
	handler := commands.NewRunRosterSweepHandler(f.cartelRepo, f.npcRepo, f.cat, f.clock, rng)

	_, err := handler.Handle(context.Background(), &commands.RunRosterSweepCommand{})
	require.NoError(t, err)

	snitched, _ := f.cartelRepo.FindByID(context.Background(), c.ID)
	assert.Equal(t, int64(50000), snitched.Treasury)
	assert.Equal(t, 25.0, snitched.Heat)
}

func TestRosterSweep_LoyalMembersStay(t *testing.T) {
	f := newSweepFixture(t)
	c := f.addCartel(t, 1, "Harbor Kings", 50000, 0)
	loyal := f.addNPC(t, c.ID, "smuggler", npc.StatusIdle, 80)

	// a roll of zero would betray anyone below the threshold
	handler := commands.NewRunRosterSweepHandler(
		f.cartelRepo, f.npcRepo, f.cat, f.clock, &shared.SequenceRand{Floats: []float64{0.0}})

	result, err := handler.Handle(context.Background(), &commands.RunRosterSweepCommand{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.(*commands.RunRosterSweepResponse).Betrayals)

	still, _ := f.npcRepo.FindByID(context.Background(), loyal.ID)
	assert.Equal(t, npc.StatusIdle, still.Status)
}

func TestMarketSweep_DemandMeanRevertsAndHeatModDecays(t *testing.T) {
	// Arrange
	f := newSweepFixture(t)
	depressed, err := f.territoryRepo.FindByID(context.Background(), "docklands")
	require.NoError(t, err)
	depressed.DemandMult = 0.90
	depressed.HeatMod = 2
	require.NoError(t, f.territoryRepo.Save(context.Background(), depressed))

	hot, err := f.territoryRepo.FindByID(context.Background(), "uptown")
	require.NoError(t, err)
	hot.DemandMult = 1.05
	require.NoError(t, f.territoryRepo.Save(context.Background(), hot))

	handler := commands.NewRunMarketSweepHandler(f.territoryRepo, f.cat)

	// Act
	result, err := handler.Handle(context.Background(), &commands.RunMarketSweepCommand{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, len(f.cat.Territories), result.(*commands.RunMarketSweepResponse).Territories)

	recovered, _ := f.territoryRepo.FindByID(context.Background(), "docklands")
	assert.InDelta(t, 0.92, recovered.DemandMult, 0.0001)
	assert.Equal(t, 1, recovered.HeatMod)

	cooled, _ := f.territoryRepo.FindByID(context.Background(), "uptown")
	assert.InDelta(t, 1.04, cooled.DemandMult, 0.0001)
}

func TestRosterSweep_BetrayalReachesReservedCrew(t *testing.T) {
	// Arrange: a disloyal member already reserved on a mission
	f := newSweepFixture(t)
	c := f.addCartel(t, 1, "Harbor Kings", 50000, 0)
	traitor := f.addNPC(t, c.ID, "smuggler", npc.StatusOnMission, 5)
	traitor.MissionID = "m-1"
	require.NoError(t, f.npcRepo.Save(context.Background(), traitor))

	// trial roll hits, then the coin flip lands on theft
	rng := &shared.SequenceRand{Floats: []float64{0.01, 0.1}}
	handler := commands.NewRunRosterSweepHandler(f.cartelRepo, f.npcRepo, f.cat, f.clock, rng)

	// Act
	result, err := handler.Handle(context.Background(), &commands.RunRosterSweepCommand{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.(*commands.RunRosterSweepResponse).Betrayals)

	robbed, _ := f.cartelRepo.FindByID(context.Background(), c.ID)
	assert.Equal(t, int64(45000), robbed.Treasury)

	gone, _ := f.npcRepo.FindByID(context.Background(), traitor.ID)
	assert.Equal(t, npc.StatusDead, gone.Status)
	assert.Empty(t, gone.MissionID)
}

func TestHeatSweep_BustArrestsReservedCrew(t *testing.T) {
	// Arrange: heat 100, the only live member is out on a mission
	f := newSweepFixture(t)
	c := f.addCartel(t, 1, "Harbor Kings", 100000, 100)
	out := f.addNPC(t, c.ID, "driver", npc.StatusOnMission, 50)
	out.MissionID = "m-1"
	require.NoError(t, f.npcRepo.Save(context.Background(), out))

	// bust roll hits, then the reserved member's arrest roll hits
	rng := &shared.SequenceRand{Floats: []float64{0.01, 0.01}}
	handler := commands.NewRunHeatSweepHandler(f.cartelRepo, f.npcRepo, f.territoryRepo, f.cat, f.clock, rng)

	// Act
	result, err := handler.Handle(context.Background(), &commands.RunHeatSweepCommand{})

	// Assert
	require.NoError(t, err)
	resp := result.(*commands.RunHeatSweepResponse)
	assert.Equal(t, 1, resp.Busts)
	assert.Equal(t, 1, resp.Arrests)

	grabbed, _ := f.npcRepo.FindByID(context.Background(), out.ID)
	assert.Equal(t, npc.StatusArrested, grabbed.Status)
	assert.Empty(t, grabbed.MissionID)
}

func TestPayrollSweep_ShortfallStiffsTheWholeRoster(t *testing.T) {
	// Arrange: two dealer wages batch to 800 against a 500 treasury
	f := newSweepFixture(t)
	c := f.addCartel(t, 1, "Harbor Kings", 500, 0)
	first := f.addNPC(t, c.ID, "dealer", npc.StatusIdle, 50)
	second := f.addNPC(t, c.ID, "dealer", npc.StatusIdle, 50)

	handler := commands.NewRunPayrollSweepHandler(f.cartelRepo, f.npcRepo, f.cat)

	// Act
	result, err := handler.Handle(context.Background(), &commands.RunPayrollSweepCommand{})

	// Assert: nobody gets a partial payday
	require.NoError(t, err)
	resp := result.(*commands.RunPayrollSweepResponse)
	assert.Equal(t, int64(0), resp.Paid)
	assert.Equal(t, 2, resp.Unpaid)

	untouched, _ := f.cartelRepo.FindByID(context.Background(), c.ID)
	assert.Equal(t, int64(500), untouched.Treasury)

	for _, id := range []int{first.ID, second.ID} {
		n, _ := f.npcRepo.FindByID(context.Background(), id)
		assert.Equal(t, int64(400), n.SalaryOwed)
		assert.Equal(t, 45, n.Loyalty)
	}
}
