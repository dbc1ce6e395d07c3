package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cartel-go/internal/adapters/persistence"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
	"github.com/andrescamacho/cartel-go/test/helpers"
)

func TestCartelRepository_AddAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormCartelRepository(db)

	c, err := cartel.New(42, "Harbor Kings", time.Now().UTC())
	require.NoError(t, err)
	c.Treasury = 250000
	c.AddProduct("cocaine", 10, 55)
	c.AddLab("grow_house", "docklands")

	// Act
	err = repo.Add(context.Background(), c)

	// Assert
	require.NoError(t, err)
	assert.NotZero(t, c.ID)

	found, err := repo.FindByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Harbor Kings", found.Name)
	assert.Equal(t, int64(250000), found.Treasury)
	require.Len(t, found.Inventory, 1)
	assert.Equal(t, 10, found.Inventory[0].Quantity)
	require.Len(t, found.Labs, 1)
	assert.Equal(t, "grow_house", found.Labs[0].LabType)
}

func TestCartelRepository_FindByPlayerID(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormCartelRepository(db)

	c, _ := cartel.New(7, "Riverside Syndicate", time.Now().UTC())
	require.NoError(t, repo.Add(context.Background(), c))

	found, err := repo.FindByPlayerID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)

	_, err = repo.FindByPlayerID(context.Background(), 999)
	require.Error(t, err)
	var nfe *shared.NotFoundError
	assert.ErrorAs(t, err, &nfe)
}

func TestCartelRepository_SaveRoundTripsBustState(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormCartelRepository(db)

	c, _ := cartel.New(1, "Old Town Mob", time.Now().UTC())
	require.NoError(t, repo.Add(context.Background(), c))

	until := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	c.BustedUntil = &until
	c.Heat = 41.5
	require.NoError(t, repo.Save(context.Background(), c))

	found, err := repo.FindByID(context.Background(), c.ID)
	require.NoError(t, err)
	require.NotNil(t, found.BustedUntil)
	assert.True(t, found.BustedUntil.Equal(until))
	assert.Equal(t, 41.5, found.Heat)
}

func TestCartelRepository_ListByReputation(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormCartelRepository(db)

	names := []string{"Docklands Crew", "Uptown Syndicate", "Badlands Mob"}
	for i, rep := range []int64{500, 9000, 2000} {
		c, _ := cartel.New(i+1, names[i], time.Now().UTC())
		c.Reputation = rep
		require.NoError(t, repo.Add(context.Background(), c))
	}

	top, err := repo.ListByReputation(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, int64(9000), top[0].Reputation)
	assert.Equal(t, int64(2000), top[1].Reputation)
}
