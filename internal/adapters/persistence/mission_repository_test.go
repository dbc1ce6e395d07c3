package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cartel-go/internal/adapters/persistence"
	"github.com/andrescamacho/cartel-go/internal/domain/mission"
	"github.com/andrescamacho/cartel-go/test/helpers"
	"gorm.io/gorm"
)

func seedMission(t *testing.T, db *gorm.DB, cartelID int, status mission.Status, completesAt time.Time) *mission.Mission {
	t.Helper()
	m := &mission.Mission{
		ID:          uuid.New().String(),
		CartelID:    cartelID,
		Type:        mission.TypeDelivery,
		NPCIDs:      []int{1, 2},
		DrugID:      "weed",
		Quantity:    20,
		StartedAt:   completesAt.Add(-30 * time.Minute),
		CompletesAt: completesAt,
		Status:      status,
	}
	require.NoError(t, persistence.NewGormMissionRepository(db).Add(context.Background(), m))
	return m
}

func TestMissionRepository_AddAndFind(t *testing.T) {
	db := helpers.NewTestDB(t)
	c := seedCartel(t, db, 1, "Harbor Kings")
	repo := persistence.NewGormMissionRepository(db)

	m := seedMission(t, db, c.ID, mission.StatusActive, time.Now().UTC().Add(time.Hour))

	found, err := repo.FindByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, mission.TypeDelivery, found.Type)
	assert.Equal(t, []int{1, 2}, found.NPCIDs)
	assert.Equal(t, 20, found.Quantity)
}

func TestMissionRepository_ListDue(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	c := seedCartel(t, db, 1, "Harbor Kings")
	repo := persistence.NewGormMissionRepository(db)
	now := time.Now().UTC()

	due := seedMission(t, db, c.ID, mission.StatusActive, now.Add(-time.Minute))
	seedMission(t, db, c.ID, mission.StatusActive, now.Add(time.Hour))
	seedMission(t, db, c.ID, mission.StatusCompleted, now.Add(-time.Hour))

	// Act
	missions, err := repo.ListDue(context.Background(), now)

	// Assert
	require.NoError(t, err)
	require.Len(t, missions, 1)
	assert.Equal(t, due.ID, missions[0].ID)
}

func TestMissionRepository_ClaimForResolution_ExactlyOnce(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	c := seedCartel(t, db, 1, "Harbor Kings")
	repo := persistence.NewGormMissionRepository(db)
	m := seedMission(t, db, c.ID, mission.StatusActive, time.Now().UTC())

	// Act - first claim wins
	won, err := repo.ClaimForResolution(context.Background(), m.ID)
	require.NoError(t, err)
	assert.True(t, won)

	// Act - second claim loses
	won, err = repo.ClaimForResolution(context.Background(), m.ID)
	require.NoError(t, err)
	assert.False(t, won)

	found, err := repo.FindByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, mission.StatusResolving, found.Status)
}

func TestMissionRepository_SaveRoundTripsOutcome(t *testing.T) {
	db := helpers.NewTestDB(t)
	c := seedCartel(t, db, 1, "Harbor Kings")
	repo := persistence.NewGormMissionRepository(db)
	m := seedMission(t, db, c.ID, mission.StatusActive, time.Now().UTC())

	require.NoError(t, m.BeginResolution())
	outcome := &mission.Outcome{
		Success:    true,
		MoneyDelta: 4200,
		HeatDelta:  2,
		RepDelta:   10,
		Casualties: []mission.Casualty{{NPCID: 1, Fate: "injured"}},
	}
	outcome.Logf("delivery paid out $%d", 4200)
	require.NoError(t, m.Complete(outcome))
	require.NoError(t, repo.Save(context.Background(), m))

	found, err := repo.FindByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, mission.StatusCompleted, found.Status)
	require.NotNil(t, found.Outcome)
	assert.Equal(t, int64(4200), found.Outcome.MoneyDelta)
	require.Len(t, found.Outcome.Casualties, 1)
	assert.Equal(t, "injured", found.Outcome.Casualties[0].Fate)
	assert.Equal(t, []string{"delivery paid out $4200"}, found.Outcome.Log)
}

func TestMissionRepository_HistoryNewestFirst(t *testing.T) {
	db := helpers.NewTestDB(t)
	c := seedCartel(t, db, 1, "Harbor Kings")
	repo := persistence.NewGormMissionRepository(db)
	now := time.Now().UTC()

	older := seedMission(t, db, c.ID, mission.StatusCompleted, now.Add(-2*time.Hour))
	newer := seedMission(t, db, c.ID, mission.StatusFailed, now.Add(-time.Hour))
	seedMission(t, db, c.ID, mission.StatusActive, now.Add(time.Hour))

	history, err := repo.ListHistoryByCartel(context.Background(), c.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, newer.ID, history[0].ID)
	assert.Equal(t, older.ID, history[1].ID)
}
