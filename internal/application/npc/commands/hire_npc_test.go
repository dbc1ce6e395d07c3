package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/cartel-go/internal/adapters/persistence"
	"github.com/andrescamacho/cartel-go/internal/application/npc/commands"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/npc"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
	"github.com/andrescamacho/cartel-go/test/helpers"
)

type hireFixture struct {
	db         *gorm.DB
	cartelRepo *persistence.GormCartelRepository
	npcRepo    *persistence.GormNPCRepository
	cat        *catalog.Catalog
	clock      *shared.MockClock
}

func newHireFixture(t *testing.T) *hireFixture {
	t.Helper()
	db := helpers.NewTestDB(t)
	return &hireFixture{
		db:         db,
		cartelRepo: persistence.NewGormCartelRepository(db),
		npcRepo:    persistence.NewGormNPCRepository(db),
		cat:        catalog.Default(),
		clock:      shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
}

func (f *hireFixture) addCartel(t *testing.T, treasury int64) *cartel.Cartel {
	t.Helper()
	c, err := cartel.New(1, "Harbor Kings", f.clock.Now())
	require.NoError(t, err)
	c.Treasury = treasury
	require.NoError(t, f.cartelRepo.Add(context.Background(), c))
	return c
}

func (f *hireFixture) fillRoster(t *testing.T, cartelID, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		member := &npc.NPC{
			CartelID: cartelID,
			Name:     "Eddie Petrov",
			Role:     "dealer",
			Rarity:   "common",
			Stats:    npc.Stats{Combat: 40, Stealth: 30, Intelligence: 30, Charisma: 25, Speed: 35},
			Level:    1,
			Loyalty:  50,
			Status:   npc.StatusIdle,
			HiredAt:  f.clock.Now(),
		}
		require.NoError(t, f.npcRepo.Add(context.Background(), member))
	}
}

func TestHireNPC_LastSlotBeforeCapSucceeds(t *testing.T) {
	// Arrange: four alive mercenaries against a cap of five
	f := newHireFixture(t)
	c := f.addCartel(t, 10000)
	f.fillRoster(t, c.ID, 4)

	// an empty sequence rolls the lowest bucket on every draw
	rng := &shared.SequenceRand{}
	handler := commands.NewHireNPCHandler(f.cartelRepo, f.npcRepo, f.cat, f.clock, rng)

	// Act
	result, err := handler.Handle(context.Background(), &commands.HireNPCCommand{
		CartelID: c.ID,
		Role:     "dealer",
	})

	// Assert: the fifth slot fills and the treasury pays the common rate
	require.NoError(t, err)
	resp := result.(*commands.HireNPCResponse)
	assert.Equal(t, "common", resp.NPC.Rarity)
	assert.Equal(t, int64(4000), resp.Cost)

	paid, _ := f.cartelRepo.FindByID(context.Background(), c.ID)
	assert.Equal(t, int64(6000), paid.Treasury)

	alive, _ := f.npcRepo.CountAlive(context.Background(), c.ID)
	assert.Equal(t, 5, alive)
}

func TestHireNPC_RejectsFullRoster(t *testing.T) {
	// Arrange: the roster already sits at the level-one cap
	f := newHireFixture(t)
	c := f.addCartel(t, 10000)
	f.fillRoster(t, c.ID, 5)

	handler := commands.NewHireNPCHandler(f.cartelRepo, f.npcRepo, f.cat, f.clock, &shared.SequenceRand{})

	// Act
	_, err := handler.Handle(context.Background(), &commands.HireNPCCommand{
		CartelID: c.ID,
		Role:     "dealer",
	})

	// Assert: rejected, nothing hired, nothing spent
	var precondErr *shared.PreconditionError
	assert.ErrorAs(t, err, &precondErr)

	untouched, _ := f.cartelRepo.FindByID(context.Background(), c.ID)
	assert.Equal(t, int64(10000), untouched.Treasury)

	alive, _ := f.npcRepo.CountAlive(context.Background(), c.ID)
	assert.Equal(t, 5, alive)
}
