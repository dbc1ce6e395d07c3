package territory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cartel-go/internal/domain/territory"
)

func TestClaim_OnlyWhenUnclaimed(t *testing.T) {
	tr := territory.New("docklands")

	require.NoError(t, tr.Claim(1, 10))
	assert.True(t, tr.ControlledByCartel(1))
	assert.Equal(t, 10, tr.ControlPower)

	err := tr.Claim(2, 10)
	require.Error(t, err)
	assert.True(t, tr.ControlledByCartel(1))
}

func TestSeize_TransfersControlAndWipesUpgrades(t *testing.T) {
	tr := territory.New("old_town")
	require.NoError(t, tr.Claim(1, 10))
	tr.RaiseUpgrade("fortification")
	tr.RaiseUpgrade("fortification")
	tr.Contest(2, "m-9")

	tr.Seize(2, 10)

	assert.True(t, tr.ControlledByCartel(2))
	assert.Equal(t, 10, tr.ControlPower)
	assert.Equal(t, 0, tr.UpgradeLevel("fortification"))
	assert.Nil(t, tr.ContestedBy)
	assert.Empty(t, tr.ContestMission)
}

func TestRaiseUpgrade_Levels(t *testing.T) {
	tr := territory.New("southside")

	assert.Equal(t, 0, tr.UpgradeLevel("distribution"))

	tr.RaiseUpgrade("distribution")
	tr.RaiseUpgrade("distribution")
	tr.RaiseUpgrade("corruption")

	assert.Equal(t, 2, tr.UpgradeLevel("distribution"))
	assert.Equal(t, 1, tr.UpgradeLevel("corruption"))
}

func TestDemand_DepressFloorsAndRecovers(t *testing.T) {
	tr := territory.New("the_strip")

	tr.DepressDemand(0.9, 0.3)
	assert.InDelta(t, 0.3, tr.DemandMult, 0.001)

	// recovery moves toward 1.0 and never overshoots
	tr.RecoverDemand(0.5, 0.25)
	assert.InDelta(t, 0.8, tr.DemandMult, 0.001)
	tr.RecoverDemand(0.5, 0.25)
	assert.InDelta(t, 1.0, tr.DemandMult, 0.001)

	// above par, cooling is slower than recovery
	tr.DemandMult = 1.4
	tr.RecoverDemand(0.5, 0.25)
	assert.InDelta(t, 1.15, tr.DemandMult, 0.001)
	tr.RecoverDemand(0.5, 0.25)
	assert.InDelta(t, 1.0, tr.DemandMult, 0.001)
}

func TestDecayHeatMod_FloorsAtZero(t *testing.T) {
	tr := territory.New("badlands")
	tr.HeatMod = 3

	tr.DecayHeatMod(1)
	assert.Equal(t, 2, tr.HeatMod)

	tr.DecayHeatMod(5)
	assert.Equal(t, 0, tr.HeatMod)
}
