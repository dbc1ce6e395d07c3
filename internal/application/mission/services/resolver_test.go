package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/cartel-go/internal/adapters/persistence"
	"github.com/andrescamacho/cartel-go/internal/application/mission/services"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/mission"
	"github.com/andrescamacho/cartel-go/internal/domain/npc"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
	"github.com/andrescamacho/cartel-go/internal/infrastructure/database"
	"github.com/andrescamacho/cartel-go/test/helpers"
)

type resolverFixture struct {
	db            *gorm.DB
	cartelRepo    *persistence.GormCartelRepository
	npcRepo       *persistence.GormNPCRepository
	territoryRepo *persistence.GormTerritoryRepository
	missionRepo   *persistence.GormMissionRepository
	cat           *catalog.Catalog
	clock         *shared.MockClock
}

func newResolverFixture(t *testing.T) *resolverFixture {
	t.Helper()
	db := helpers.NewTestDB(t)
	cat := catalog.Default()
	require.NoError(t, database.SeedTerritories(db, cat))
	return &resolverFixture{
		db:            db,
		cartelRepo:    persistence.NewGormCartelRepository(db),
		npcRepo:       persistence.NewGormNPCRepository(db),
		territoryRepo: persistence.NewGormTerritoryRepository(db),
		missionRepo:   persistence.NewGormMissionRepository(db),
		cat:           cat,
		clock:         shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
}

func (f *resolverFixture) resolver(rng shared.Rand) *services.Resolver {
	return services.NewResolver(f.cartelRepo, f.npcRepo, f.territoryRepo, f.missionRepo, f.cat, f.clock, rng)
}

func (f *resolverFixture) addCartel(t *testing.T, playerID int, name string, treasury int64) *cartel.Cartel {
	t.Helper()
	c, err := cartel.New(playerID, name, f.clock.Now())
	require.NoError(t, err)
	c.Treasury = treasury
	require.NoError(t, f.cartelRepo.Add(context.Background(), c))
	return c
}

func (f *resolverFixture) addNPC(t *testing.T, cartelID int, role string, status npc.Status, stats npc.Stats) *npc.NPC {
	t.Helper()
	n := &npc.NPC{
		CartelID: cartelID,
		Name:     "Lena Volkov",
		Role:     role,
		Rarity:   "common",
		Stats:    stats,
		Level:    1,
		Loyalty:  50,
		Status:   status,
		HiredAt:  f.clock.Now(),
	}
	require.NoError(t, f.npcRepo.Add(context.Background(), n))
	return n
}

func (f *resolverFixture) addResolvingMission(t *testing.T, m *mission.Mission) *mission.Mission {
	t.Helper()
	m.ID = uuid.New().String()
	m.StartedAt = f.clock.Now().Add(-time.Hour)
	m.CompletesAt = f.clock.Now()
	m.Status = mission.StatusActive
	require.NoError(t, f.missionRepo.Add(context.Background(), m))
	require.NoError(t, m.BeginResolution())
	return m
}

func TestResolveDelivery_Success(t *testing.T) {
	// Arrange
	f := newResolverFixture(t)
	c := f.addCartel(t, 1, "Harbor Kings", 0)
	driver := f.addNPC(t, c.ID, "driver", npc.StatusOnMission,
		npc.Stats{Combat: 30, Stealth: 50, Intelligence: 30, Charisma: 20, Speed: 60})

	m := f.addResolvingMission(t, &mission.Mission{
		CartelID:        c.ID,
		Type:            mission.TypeDelivery,
		NPCIDs:          []int{driver.ID},
		TargetTerritory: "docklands",
		DrugID:          "weed",
		Quantity:        20,
	})

	// a high roll dodges the intercept check
	rng := &shared.SequenceRand{Floats: []float64{0.99}}

	// Act
	err := f.resolver(rng).Resolve(context.Background(), m)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, mission.StatusCompleted, m.Status)
	require.NotNil(t, m.Outcome)
	assert.True(t, m.Outcome.Success)
	// floor(80 × 20 × 1.1 demand × 1.0 local) = 1760
	assert.Equal(t, int64(1760), m.Outcome.MoneyDelta)

	saved, _ := f.cartelRepo.FindByID(context.Background(), c.ID)
	assert.Equal(t, int64(1760), saved.Treasury)
	assert.Equal(t, 2.0, saved.Heat)
	assert.Equal(t, int64(10), saved.Reputation)

	freed, _ := f.npcRepo.FindByID(context.Background(), driver.ID)
	assert.Equal(t, npc.StatusIdle, freed.Status)
	assert.Equal(t, 25, freed.XP)
	assert.Equal(t, 55, freed.Loyalty)
}

func TestResolveDelivery_Intercepted(t *testing.T) {
	// Arrange
	f := newResolverFixture(t)
	c := f.addCartel(t, 1, "Harbor Kings", 0)
	driver := f.addNPC(t, c.ID, "driver", npc.StatusOnMission,
		npc.Stats{Combat: 30, Stealth: 50, Intelligence: 30, Charisma: 20, Speed: 60})

	m := f.addResolvingMission(t, &mission.Mission{
		CartelID:        c.ID,
		Type:            mission.TypeDelivery,
		NPCIDs:          []int{driver.ID},
		TargetTerritory: "uptown",
		DrugID:          "weed",
		Quantity:        20,
	})

	// intercept roll hits, then the arrest roll hits too
	rng := &shared.SequenceRand{Floats: []float64{0.0, 0.0}}

	// Act
	err := f.resolver(rng).Resolve(context.Background(), m)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, mission.StatusFailed, m.Status)
	assert.False(t, m.Outcome.Success)
	assert.Equal(t, int64(0), m.Outcome.MoneyDelta)
	require.Len(t, m.Outcome.Casualties, 1)
	assert.Equal(t, "arrested", m.Outcome.Casualties[0].Fate)

	saved, _ := f.cartelRepo.FindByID(context.Background(), c.ID)
	assert.Equal(t, 10.0, saved.Heat)
	// product debited at creation stays gone
	assert.Equal(t, int64(0), saved.Treasury)

	jailed, _ := f.npcRepo.FindByID(context.Background(), driver.ID)
	assert.Equal(t, npc.StatusArrested, jailed.Status)
	assert.Equal(t, 47, jailed.Loyalty)
}

func TestResolveRaid_StealsRivalTreasury(t *testing.T) {
	// Arrange
	f := newResolverFixture(t)
	attacker := f.addCartel(t, 1, "Harbor Kings", 0)
	rival := f.addCartel(t, 2, "Old Town Mob", 100000)

	heavy := npc.Stats{Combat: 80, Stealth: 30, Intelligence: 20, Charisma: 10, Speed: 40}
	e1 := f.addNPC(t, attacker.ID, "enforcer", npc.StatusOnMission, heavy)
	e2 := f.addNPC(t, attacker.ID, "enforcer", npc.StatusOnMission, heavy)

	m := f.addResolvingMission(t, &mission.Mission{
		CartelID:       attacker.ID,
		Type:           mission.TypeRaid,
		NPCIDs:         []int{e1.ID, e2.ID},
		TargetCartelID: &rival.ID,
	})

	// high rolls keep the crew unharmed
	rng := &shared.SequenceRand{Floats: []float64{0.9}}

	// Act
	err := f.resolver(rng).Resolve(context.Background(), m)

	// Assert
	require.NoError(t, err)
	assert.True(t, m.Outcome.Success)
	// rival fields no idle defenders, so defense floors at 50 × 1.15
	assert.Equal(t, 57.0, m.Outcome.DefensePower)
	assert.Equal(t, int64(15000), m.Outcome.MoneyDelta)

	robbed, _ := f.cartelRepo.FindByID(context.Background(), rival.ID)
	assert.Equal(t, int64(85000), robbed.Treasury)

	winner, _ := f.cartelRepo.FindByID(context.Background(), attacker.ID)
	assert.Equal(t, int64(15000), winner.Treasury)
	assert.Equal(t, 8.0, winner.Heat)
}

func TestResolveSeizure_TransfersTerritory(t *testing.T) {
	// Arrange
	f := newResolverFixture(t)
	attacker := f.addCartel(t, 1, "Harbor Kings", 0)
	defender := f.addCartel(t, 2, "Old Town Mob", 0)
	require.NoError(t, f.territoryRepo.ClaimIfUnclaimed(context.Background(), "old_town", defender.ID, 10))

	heavy := npc.Stats{Combat: 60, Stealth: 30, Intelligence: 20, Charisma: 10, Speed: 40}
	crew := []int{
		f.addNPC(t, attacker.ID, "enforcer", npc.StatusOnMission, heavy).ID,
		f.addNPC(t, attacker.ID, "enforcer", npc.StatusOnMission, heavy).ID,
		f.addNPC(t, attacker.ID, "enforcer", npc.StatusOnMission, heavy).ID,
	}

	m := f.addResolvingMission(t, &mission.Mission{
		CartelID:        attacker.ID,
		Type:            mission.TypeSeizure,
		NPCIDs:          crew,
		TargetTerritory: "old_town",
		TargetCartelID:  &defender.ID,
	})

	rng := &shared.SequenceRand{Floats: []float64{0.9}}

	// Act
	err := f.resolver(rng).Resolve(context.Background(), m)

	// Assert
	require.NoError(t, err)
	assert.True(t, m.Outcome.Success)

	tr, _ := f.territoryRepo.FindByID(context.Background(), "old_town")
	assert.True(t, tr.ControlledByCartel(attacker.ID))
	assert.Equal(t, f.cat.Constants.ClaimControlPower, tr.ControlPower)
	assert.Nil(t, tr.ContestedBy)

	winner, _ := f.cartelRepo.FindByID(context.Background(), attacker.ID)
	assert.Equal(t, int64(100), winner.Reputation)
}

func TestResolveSeizure_FizzlesWhenControlChanged(t *testing.T) {
	// the defender lost the territory to someone else mid-flight; here it
	// went back to unclaimed, and the takeover aborts without a fight
	f := newResolverFixture(t)
	attacker := f.addCartel(t, 1, "Harbor Kings", 0)
	defender := f.addCartel(t, 2, "Old Town Mob", 0)

	heavy := npc.Stats{Combat: 60, Stealth: 30, Intelligence: 20, Charisma: 10, Speed: 40}
	crew := []int{
		f.addNPC(t, attacker.ID, "enforcer", npc.StatusOnMission, heavy).ID,
		f.addNPC(t, attacker.ID, "enforcer", npc.StatusOnMission, heavy).ID,
		f.addNPC(t, attacker.ID, "enforcer", npc.StatusOnMission, heavy).ID,
	}

	m := f.addResolvingMission(t, &mission.Mission{
		CartelID:        attacker.ID,
		Type:            mission.TypeSeizure,
		NPCIDs:          crew,
		TargetTerritory: "old_town",
		TargetCartelID:  &defender.ID,
	})

	err := f.resolver(&shared.SequenceRand{Floats: []float64{0.9}}).Resolve(context.Background(), m)

	require.NoError(t, err)
	assert.Equal(t, mission.StatusFailed, m.Status)
	assert.False(t, m.Outcome.Success)

	// crew walks away clean
	for _, id := range crew {
		n, _ := f.npcRepo.FindByID(context.Background(), id)
		assert.Equal(t, npc.StatusIdle, n.Status)
	}
}

func TestResolveCorruption_SuccessTipsOffRival(t *testing.T) {
	// Arrange
	f := newResolverFixture(t)
	c := f.addCartel(t, 1, "Harbor Kings", 0)
	c.Heat = 30
	require.NoError(t, f.cartelRepo.Save(context.Background(), c))
	rival := f.addCartel(t, 2, "Old Town Mob", 0)

	dealer := f.addNPC(t, c.ID, "dealer", npc.StatusOnMission,
		npc.Stats{Combat: 10, Stealth: 20, Intelligence: 40, Charisma: 60, Speed: 30})

	m := f.addResolvingMission(t, &mission.Mission{
		CartelID:       c.ID,
		Type:           mission.TypeCorruption,
		NPCIDs:         []int{dealer.ID},
		TargetCartelID: &rival.ID,
		Bribe:          50000,
	})

	// bribe at cap and social 100 average gives 0.75; roll under it
	rng := &shared.SequenceRand{Floats: []float64{0.1}}

	// Act
	err := f.resolver(rng).Resolve(context.Background(), m)

	// Assert
	require.NoError(t, err)
	assert.True(t, m.Outcome.Success)

	cooled, _ := f.cartelRepo.FindByID(context.Background(), c.ID)
	assert.Equal(t, 10.0, cooled.Heat)

	framed, _ := f.cartelRepo.FindByID(context.Background(), rival.ID)
	assert.Equal(t, 10.0, framed.Heat)
}

func TestResolveHeist_FailureArrestsCrew(t *testing.T) {
	// Arrange
	f := newResolverFixture(t)
	c := f.addCartel(t, 1, "Harbor Kings", 0)
	sneaky := npc.Stats{Combat: 20, Stealth: 40, Intelligence: 40, Charisma: 20, Speed: 40}
	crew := []int{
		f.addNPC(t, c.ID, "smuggler", npc.StatusOnMission, sneaky).ID,
		f.addNPC(t, c.ID, "smuggler", npc.StatusOnMission, sneaky).ID,
		f.addNPC(t, c.ID, "smuggler", npc.StatusOnMission, sneaky).ID,
	}

	m := f.addResolvingMission(t, &mission.Mission{
		CartelID:        c.ID,
		Type:            mission.TypeHeist,
		NPCIDs:          crew,
		TargetTerritory: "uptown",
	})

	// the job roll fails, then one of three arrest rolls hits
	rng := &shared.SequenceRand{Floats: []float64{0.99, 0.1, 0.9, 0.9}}

	// Act
	err := f.resolver(rng).Resolve(context.Background(), m)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, mission.StatusFailed, m.Status)
	assert.Equal(t, 15.0, m.Outcome.HeatDelta)
	require.Len(t, m.Outcome.Casualties, 1)
	assert.Equal(t, "arrested", m.Outcome.Casualties[0].Fate)
	assert.Equal(t, crew[0], m.Outcome.Casualties[0].NPCID)
}
