package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cartel-go/internal/adapters/persistence"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
	"github.com/andrescamacho/cartel-go/internal/infrastructure/database"
	"github.com/andrescamacho/cartel-go/test/helpers"
)

func TestTerritoryRepository_SeedAndList(t *testing.T) {
	db := helpers.NewTestDB(t)
	cat := catalog.Default()
	require.NoError(t, database.SeedTerritories(db, cat))
	repo := persistence.NewGormTerritoryRepository(db)

	territories, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, territories, len(cat.Territories))

	// seeding is idempotent
	require.NoError(t, database.SeedTerritories(db, cat))
	territories, err = repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, territories, len(cat.Territories))
}

func TestTerritoryRepository_ClaimIfUnclaimed_ExactlyOnce(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	require.NoError(t, database.SeedTerritories(db, catalog.Default()))
	repo := persistence.NewGormTerritoryRepository(db)

	// Act - first claim wins the conditional update
	err := repo.ClaimIfUnclaimed(context.Background(), "docklands", 1, 10)
	require.NoError(t, err)

	// Act - second claim loses
	err = repo.ClaimIfUnclaimed(context.Background(), "docklands", 2, 10)

	// Assert
	require.Error(t, err)
	var cerr *shared.ContentionError
	assert.ErrorAs(t, err, &cerr)

	found, err := repo.FindByID(context.Background(), "docklands")
	require.NoError(t, err)
	require.NotNil(t, found.ControlledBy)
	assert.Equal(t, 1, *found.ControlledBy)
	assert.Equal(t, 10, found.ControlPower)
}

func TestTerritoryRepository_SaveRoundTripsUpgrades(t *testing.T) {
	db := helpers.NewTestDB(t)
	require.NoError(t, database.SeedTerritories(db, catalog.Default()))
	repo := persistence.NewGormTerritoryRepository(db)

	tr, err := repo.FindByID(context.Background(), "old_town")
	require.NoError(t, err)
	require.NoError(t, tr.Claim(1, 10))
	tr.RaiseUpgrade("fortification")
	tr.RaiseUpgrade("fortification")
	tr.DemandMult = 0.85
	tr.HeatMod = 2
	require.NoError(t, repo.Save(context.Background(), tr))

	found, err := repo.FindByID(context.Background(), "old_town")
	require.NoError(t, err)
	assert.Equal(t, 2, found.UpgradeLevel("fortification"))
	assert.Equal(t, 0.85, found.DemandMult)
	assert.Equal(t, 2, found.HeatMod)
	assert.True(t, found.ControlledByCartel(1))
}

func TestTerritoryRepository_ListControlledBy(t *testing.T) {
	db := helpers.NewTestDB(t)
	require.NoError(t, database.SeedTerritories(db, catalog.Default()))
	repo := persistence.NewGormTerritoryRepository(db)

	require.NoError(t, repo.ClaimIfUnclaimed(context.Background(), "docklands", 1, 10))
	require.NoError(t, repo.ClaimIfUnclaimed(context.Background(), "southside", 1, 10))
	require.NoError(t, repo.ClaimIfUnclaimed(context.Background(), "uptown", 2, 10))

	mine, err := repo.ListControlledBy(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
