package mission_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cartel-go/internal/domain/mission"
	"github.com/andrescamacho/cartel-go/internal/domain/npc"
)

func activeMission(completesAt time.Time) *mission.Mission {
	return &mission.Mission{
		ID:          "m-1",
		CartelID:    1,
		Type:        mission.TypeDelivery,
		NPCIDs:      []int{3, 4},
		StartedAt:   completesAt.Add(-30 * time.Minute),
		CompletesAt: completesAt,
		Status:      mission.StatusActive,
	}
}

func TestDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := activeMission(now)

	assert.False(t, m.Due(now.Add(-time.Second)))
	assert.True(t, m.Due(now))
	assert.True(t, m.Due(now.Add(time.Hour)))

	m.Status = mission.StatusCompleted
	assert.False(t, m.Due(now.Add(time.Hour)))
}

func TestLifecycle_ActiveToCompleted(t *testing.T) {
	m := activeMission(time.Now())

	require.NoError(t, m.BeginResolution())
	assert.Equal(t, mission.StatusResolving, m.Status)

	// a second claim on the same copy fails
	assert.Error(t, m.BeginResolution())

	require.NoError(t, m.Complete(&mission.Outcome{Success: true}))
	assert.Equal(t, mission.StatusCompleted, m.Status)
	assert.True(t, m.Status.Terminal())
}

func TestLifecycle_FailureOutcome(t *testing.T) {
	m := activeMission(time.Now())
	require.NoError(t, m.BeginResolution())

	require.NoError(t, m.Complete(&mission.Outcome{Success: false}))

	assert.Equal(t, mission.StatusFailed, m.Status)
}

func TestComplete_RequiresResolving(t *testing.T) {
	m := activeMission(time.Now())

	err := m.Complete(&mission.Outcome{Success: true})

	require.Error(t, err)
	assert.Equal(t, mission.StatusActive, m.Status)
}

func TestCancel_OnlyWhileActive(t *testing.T) {
	m := activeMission(time.Now())

	require.NoError(t, m.Cancel())
	assert.Equal(t, mission.StatusCancelled, m.Status)
	assert.True(t, m.Status.Terminal())

	assert.Error(t, m.Cancel())
}

func TestCrewPower(t *testing.T) {
	crew := []*npc.NPC{
		{Stats: npc.Stats{Combat: 50, Stealth: 30, Intelligence: 20, Speed: 40}, Level: 1},
		{Stats: npc.Stats{Combat: 50, Stealth: 30, Intelligence: 20, Speed: 40}, Level: 3},
	}

	// base per member: 50 + 9 + 4 + 16 = 79; level 3 scales by 1.10
	power := mission.CrewPower(crew)

	assert.Equal(t, 165.0, power)
}

func TestDurationModifier_Clamped(t *testing.T) {
	slow := []*npc.NPC{{Stats: npc.Stats{Speed: 0, Stealth: 0}}}
	fast := []*npc.NPC{{Stats: npc.Stats{Speed: 100, Stealth: 100}}}
	mid := []*npc.NPC{{Stats: npc.Stats{Speed: 50, Stealth: 50}}}

	assert.Equal(t, 1.5, mission.DurationModifier(slow))
	assert.Equal(t, 0.5, mission.DurationModifier(fast))
	assert.Equal(t, 1.0, mission.DurationModifier(mid))
	assert.Equal(t, 1.0, mission.DurationModifier(nil))
}

func TestOutcome_LogfAndDeaths(t *testing.T) {
	o := &mission.Outcome{}

	o.Logf("crew of %d moved out", 3)
	o.Casualties = []mission.Casualty{
		{NPCID: 1, Fate: "killed"},
		{NPCID: 2, Fate: "injured"},
		{NPCID: 3, Fate: "killed"},
	}

	assert.Equal(t, []string{"crew of 3 moved out"}, o.Log)
	assert.Equal(t, 2, o.Deaths())
}
