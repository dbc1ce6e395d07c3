package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/cartel-go/internal/adapters/persistence"
	"github.com/andrescamacho/cartel-go/internal/application/territory/commands"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/npc"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
	"github.com/andrescamacho/cartel-go/internal/infrastructure/database"
	"github.com/andrescamacho/cartel-go/test/helpers"
)

type territoryFixture struct {
	db            *gorm.DB
	cartelRepo    *persistence.GormCartelRepository
	npcRepo       *persistence.GormNPCRepository
	territoryRepo *persistence.GormTerritoryRepository
	cat           *catalog.Catalog
	clock         *shared.MockClock
}

func newTerritoryFixture(t *testing.T) *territoryFixture {
	t.Helper()
	db := helpers.NewTestDB(t)
	cat := catalog.Default()
	require.NoError(t, database.SeedTerritories(db, cat))
	return &territoryFixture{
		db:            db,
		cartelRepo:    persistence.NewGormCartelRepository(db),
		npcRepo:       persistence.NewGormNPCRepository(db),
		territoryRepo: persistence.NewGormTerritoryRepository(db),
		cat:           cat,
		clock:         shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
}

func (f *territoryFixture) addCartel(t *testing.T, playerID int, name string) *cartel.Cartel {
	t.Helper()
	c, err := cartel.New(playerID, name, f.clock.Now())
	require.NoError(t, err)
	require.NoError(t, f.cartelRepo.Add(context.Background(), c))
	return c
}

func TestClaimTerritory_FirstClaimWinsAndGrantsRep(t *testing.T) {
	// Arrange
	f := newTerritoryFixture(t)
	first := f.addCartel(t, 1, "Harbor Kings")
	second := f.addCartel(t, 2, "Old Town Mob")
	handler := commands.NewClaimTerritoryHandler(f.cartelRepo, f.territoryRepo, f.cat, f.clock)

	// Act
	result, err := handler.Handle(context.Background(), &commands.ClaimTerritoryCommand{
		CartelID: first.ID, TerritoryID: "docklands",
	})

	// Assert
	require.NoError(t, err)
	resp := result.(*commands.ClaimTerritoryResponse)
	assert.True(t, resp.Territory.ControlledByCartel(first.ID))
	assert.Equal(t, f.cat.Constants.ClaimControlPower, resp.Territory.ControlPower)

	claimed, _ := f.cartelRepo.FindByID(context.Background(), first.ID)
	assert.Equal(t, f.cat.Constants.ClaimRepGain, claimed.Reputation)

	// Act - losing claim
	_, err = handler.Handle(context.Background(), &commands.ClaimTerritoryCommand{
		CartelID: second.ID, TerritoryID: "docklands",
	})

	// Assert
	require.Error(t, err)
	var cerr *shared.ContentionError
	assert.ErrorAs(t, err, &cerr)
	loser, _ := f.cartelRepo.FindByID(context.Background(), second.ID)
	assert.Equal(t, int64(0), loser.Reputation)
}

func TestSellDrugs_PriceCompoundsAndDemandDepresses(t *testing.T) {
	// Arrange
	f := newTerritoryFixture(t)
	c := f.addCartel(t, 1, "Harbor Kings")
	c.AddProduct("weed", 100, 50)
	require.NoError(t, f.cartelRepo.Save(context.Background(), c))
	require.NoError(t, f.territoryRepo.ClaimIfUnclaimed(context.Background(), "southside", c.ID, 10))

	for i := 0; i < 2; i++ {
		n := &npc.NPC{
			CartelID:   c.ID,
			Name:       "Carmen Silva",
			Role:       "dealer",
			Rarity:     "common",
			Stats:      npc.Stats{Charisma: 40},
			Level:      1,
			Loyalty:    50,
			Status:     npc.StatusIdle,
			AssignedTo: "southside",
			HiredAt:    f.clock.Now(),
		}
		require.NoError(t, f.npcRepo.Add(context.Background(), n))
	}

	handler := commands.NewSellDrugsHandler(f.cartelRepo, f.npcRepo, f.territoryRepo, f.cat, f.clock)

	// Act
	result, err := handler.Handle(context.Background(), &commands.SellDrugsCommand{
		CartelID: c.ID, TerritoryID: "southside", DrugID: "weed", Quantity: 40,
	})

	// Assert
	require.NoError(t, err)
	resp := result.(*commands.SellDrugsResponse)
	// 80 base × 1.0 demand × 1.0 local × 1.0 quality × 1.1 two dealers
	assert.Equal(t, int64(88), resp.UnitPrice)
	assert.Equal(t, int64(3520), resp.Revenue)
	assert.Equal(t, 2, resp.Dealers)
	assert.Equal(t, 4.0, resp.HeatGain)

	saved, _ := f.cartelRepo.FindByID(context.Background(), c.ID)
	assert.Equal(t, int64(3520), saved.Treasury)
	assert.Equal(t, 60, saved.StackOf("weed").Quantity)
	assert.Equal(t, 4.0, saved.Heat)

	tr, _ := f.territoryRepo.FindByID(context.Background(), "southside")
	assert.InDelta(t, 0.8, tr.DemandMult, 0.0001)
	assert.Equal(t, 4, tr.HeatMod)
}

func TestSellDrugs_RequiresControlAndDealers(t *testing.T) {
	f := newTerritoryFixture(t)
	c := f.addCartel(t, 1, "Harbor Kings")
	c.AddProduct("weed", 100, 50)
	require.NoError(t, f.cartelRepo.Save(context.Background(), c))

	handler := commands.NewSellDrugsHandler(f.cartelRepo, f.npcRepo, f.territoryRepo, f.cat, f.clock)

	// not controlled
	_, err := handler.Handle(context.Background(), &commands.SellDrugsCommand{
		CartelID: c.ID, TerritoryID: "southside", DrugID: "weed", Quantity: 10,
	})
	require.Error(t, err)

	// controlled but no dealer posted
	require.NoError(t, f.territoryRepo.ClaimIfUnclaimed(context.Background(), "southside", c.ID, 10))
	_, err = handler.Handle(context.Background(), &commands.SellDrugsCommand{
		CartelID: c.ID, TerritoryID: "southside", DrugID: "weed", Quantity: 10,
	})
	require.Error(t, err)
	var perr *shared.PreconditionError
	assert.ErrorAs(t, err, &perr)
}
