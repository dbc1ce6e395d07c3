package npc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/npc"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

func testNPC() *npc.NPC {
	return &npc.NPC{
		ID:      7,
		Name:    "Rico Marquez",
		Role:    "enforcer",
		Rarity:  "common",
		Stats:   npc.Stats{Combat: 40, Stealth: 30, Intelligence: 25, Charisma: 20, Speed: 35},
		Level:   1,
		Loyalty: 50,
		Status:  npc.StatusIdle,
	}
}

func TestReserve_OnlyFromIdle(t *testing.T) {
	n := testNPC()

	require.NoError(t, n.Reserve("m-1"))
	assert.Equal(t, npc.StatusOnMission, n.Status)
	assert.Equal(t, "m-1", n.MissionID)

	// double reservation is a contention error
	err := n.Reserve("m-2")
	require.Error(t, err)
	assert.Equal(t, "m-1", n.MissionID)
}

func TestRelease_OnlyFromOnMission(t *testing.T) {
	n := testNPC()
	require.NoError(t, n.Reserve("m-1"))

	n.Release()

	assert.Equal(t, npc.StatusIdle, n.Status)
	assert.Empty(t, n.MissionID)

	// releasing an injured NPC clears the mission id but keeps the status
	n.Injure(time.Now().Add(time.Hour))
	n.Release()
	assert.Equal(t, npc.StatusInjured, n.Status)
}

func TestLifecycle_InjureArrestKill(t *testing.T) {
	n := testNPC()

	recovers := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	n.Injure(recovers)
	require.NotNil(t, n.RecoversAt)
	assert.Equal(t, recovers, *n.RecoversAt)
	assert.True(t, n.Alive())

	n.Arrest()
	assert.Equal(t, npc.StatusArrested, n.Status)
	assert.True(t, n.Alive())

	n.AssignedTo = "docklands"
	n.Kill()
	assert.Equal(t, npc.StatusDead, n.Status)
	assert.Empty(t, n.AssignedTo)
	assert.False(t, n.Alive())
}

func TestGrantXP_LevelsUpAndBumpsStats(t *testing.T) {
	// Arrange
	n := testNPC()
	rng := &shared.SequenceRand{Ints: []int{1, 0, 1, 0}} // bumps +2 combat, twice

	// Act - level 1 → 2 needs floor(100 * 1^1.5) = 100 xp
	levels := n.GrantXP(100, 100, 10, rng)

	// Assert
	assert.Equal(t, 1, levels)
	assert.Equal(t, 2, n.Level)
	assert.Equal(t, 0, n.XP)
	assert.Equal(t, 44, n.Stats.Combat)
}

func TestGrantXP_MultiLevelJumpAndCap(t *testing.T) {
	n := testNPC()
	rng := shared.NewSeededRand(1)

	// enough xp for several levels at once
	levels := n.GrantXP(500, 100, 3, rng)

	assert.Equal(t, 2, levels)
	assert.Equal(t, 3, n.Level)

	// no further levels past the cap
	assert.Equal(t, 0, n.GrantXP(1000, 100, 3, rng))
	assert.Equal(t, 3, n.Level)
}

func TestGrantXP_IgnoredWhenDead(t *testing.T) {
	n := testNPC()
	n.Kill()

	assert.Equal(t, 0, n.GrantXP(500, 100, 10, shared.NewSeededRand(1)))
	assert.Equal(t, 1, n.Level)
}

func TestAdjustLoyalty_Clamped(t *testing.T) {
	n := testNPC()

	n.AdjustLoyalty(60)
	assert.Equal(t, 100, n.Loyalty)

	n.AdjustLoyalty(-150)
	assert.Equal(t, 0, n.Loyalty)
}

func TestGenerate_StatsInsideRarityBand(t *testing.T) {
	// Arrange
	cat := catalog.Default()
	role := cat.Roles["enforcer"]
	// scripted rarity roll: 0 falls in the common band (weight 70)
	rng := &shared.SequenceRand{Ints: []int{0, 10, 10, 10, 10, 10, 0, 0}}

	// Act
	n := npc.Generate(role, cat.Rarities, rng)

	// Assert
	assert.Equal(t, "common", n.Rarity)
	assert.Equal(t, "enforcer", n.Role)
	assert.Equal(t, npc.StatusIdle, n.Status)
	assert.Equal(t, 1, n.Level)
	assert.Equal(t, 50, n.Loyalty)
	// common band is 20-50; combat gets the +10 primary-stat boost
	assert.Equal(t, 40, n.Stats.Combat)
	assert.Equal(t, 30, n.Stats.Stealth)
	assert.NotEmpty(t, n.Name)
}

func TestGenerate_RandomRollsStayInBounds(t *testing.T) {
	cat := catalog.Default()
	rng := shared.NewSeededRand(42)

	for i := 0; i < 200; i++ {
		n := npc.Generate(cat.Roles["smuggler"], cat.Rarities, rng)
		r, ok := cat.Rarity(n.Rarity)
		require.True(t, ok)

		for _, v := range []int{n.Stats.Combat, n.Stats.Stealth, n.Stats.Intelligence, n.Stats.Charisma, n.Stats.Speed} {
			assert.GreaterOrEqual(t, v, r.StatMin)
			// +10 primary boost can exceed StatMax but never 100
			assert.LessOrEqual(t, v, 100)
		}
	}
}

func TestHireCostAndSalary(t *testing.T) {
	cat := catalog.Default()
	role := cat.Roles["chemist"]
	elite, _ := cat.Rarity("elite")

	assert.Equal(t, int64(32000), npc.HireCost(role, elite))
	assert.Equal(t, int64(700), npc.Salary(role, 1))
	assert.Equal(t, int64(1300), npc.Salary(role, 4))
}
