package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cartel-go/internal/adapters/persistence"
	"github.com/andrescamacho/cartel-go/internal/application/cartel/commands"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
	"github.com/andrescamacho/cartel-go/test/helpers"
)

func TestCreateCartel_ExactFoundingCostSucceeds(t *testing.T) {
	// Arrange: the player holds exactly the founding cost
	db := helpers.NewTestDB(t)
	cartelRepo := persistence.NewGormCartelRepository(db)
	ledger := persistence.NewGormPlayerLedger(db)
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, ledger.Credit(context.Background(), 1, 250000, "seed"))

	handler := commands.NewCreateCartelHandler(cartelRepo, ledger, catalog.Default(), clock)

	// Act
	result, err := handler.Handle(context.Background(), &commands.CreateCartelCommand{
		PlayerID: 1,
		Name:     "Harbor Kings",
	})

	// Assert: founded, account drained to zero
	require.NoError(t, err)
	founded := result.(*commands.CreateCartelResponse).Cartel
	assert.Equal(t, "Harbor Kings", founded.Name)
	assert.Equal(t, 1, founded.RepLevel)

	balance, err := ledger.Balance(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	saved, err := cartelRepo.FindByPlayerID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, founded.ID, saved.ID)
}

func TestCreateCartel_RejectsShortAccount(t *testing.T) {
	// Arrange: one dollar short of the founding cost
	db := helpers.NewTestDB(t)
	cartelRepo := persistence.NewGormCartelRepository(db)
	ledger := persistence.NewGormPlayerLedger(db)
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, ledger.Credit(context.Background(), 1, 249999, "seed"))

	handler := commands.NewCreateCartelHandler(cartelRepo, ledger, catalog.Default(), clock)

	// Act
	_, err := handler.Handle(context.Background(), &commands.CreateCartelCommand{
		PlayerID: 1,
		Name:     "Harbor Kings",
	})

	// Assert: rejected, account untouched, nothing persisted
	var fundsErr *shared.InsufficientFundsError
	assert.ErrorAs(t, err, &fundsErr)

	balance, _ := ledger.Balance(context.Background(), 1)
	assert.Equal(t, int64(249999), balance)

	var notFound *shared.NotFoundError
	_, err = cartelRepo.FindByPlayerID(context.Background(), 1)
	assert.ErrorAs(t, err, &notFound)
}
