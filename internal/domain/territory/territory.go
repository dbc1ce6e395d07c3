package territory

import (
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// Upgrade is one leveled territory improvement owned by the controller
type Upgrade struct {
	UpgradeID string
	Level     int
}

// Territory is the globally shared control state for one map location.
// Exactly one cartel controls it at a time; transitions only via claim
// (unclaimed → owned) or seizure (owned-by-X → owned-by-Y).
type Territory struct {
	ID             string
	ControlledBy   *int // cartel id; nil while unclaimed
	ControlPower   int
	ContestedBy    *int   // cartel id of the attacker while a seizure is in flight
	ContestMission string // mission id of the pending seizure
	DemandMult     float64
	HeatMod        int
	Upgrades       []Upgrade
}

// New returns the initial global record for a location
func New(id string) *Territory {
	return &Territory{ID: id, DemandMult: 1.0}
}

// ControlledByCartel reports whether the given cartel holds the territory
func (t *Territory) ControlledByCartel(cartelID int) bool {
	return t.ControlledBy != nil && *t.ControlledBy == cartelID
}

// Claim takes an unclaimed territory. The repository enforces the
// check-and-set; this guards the in-memory copy.
func (t *Territory) Claim(cartelID, basePower int) error {
	if t.ControlledBy != nil {
		return shared.NewContentionError("territory %s is already controlled", t.ID)
	}
	id := cartelID
	t.ControlledBy = &id
	t.ControlPower = basePower
	return nil
}

// Contest marks a pending seizure so overviews can show the attacker
func (t *Territory) Contest(cartelID int, missionID string) {
	id := cartelID
	t.ContestedBy = &id
	t.ContestMission = missionID
}

// ClearContest drops the pending-seizure markers
func (t *Territory) ClearContest() {
	t.ContestedBy = nil
	t.ContestMission = ""
}

// Seize hands control to the attacker, resetting power and wiping the
// previous controller's upgrades
func (t *Territory) Seize(attackerID, basePower int) {
	id := attackerID
	t.ControlledBy = &id
	t.ControlPower = basePower
	t.Upgrades = nil
	t.ClearContest()
}

// UpgradeLevel returns the current level of an upgrade track (0 if unbuilt)
func (t *Territory) UpgradeLevel(upgradeID string) int {
	for _, u := range t.Upgrades {
		if u.UpgradeID == upgradeID {
			return u.Level
		}
	}
	return 0
}

// RaiseUpgrade increments an upgrade track, creating it at level 1
func (t *Territory) RaiseUpgrade(upgradeID string) {
	for i := range t.Upgrades {
		if t.Upgrades[i].UpgradeID == upgradeID {
			t.Upgrades[i].Level++
			return
		}
	}
	t.Upgrades = append(t.Upgrades, Upgrade{UpgradeID: upgradeID, Level: 1})
}

// DepressDemand lowers the local demand multiplier after a sale,
// floored so a territory never becomes worthless
func (t *Territory) DepressDemand(amount, floor float64) {
	t.DemandMult -= amount
	if t.DemandMult < floor {
		t.DemandMult = floor
	}
}

// RecoverDemand mean-reverts demand toward 1.0. The step is asymmetric:
// recovery upward is twice as fast as cooling downward.
func (t *Territory) RecoverDemand(up, down float64) {
	switch {
	case t.DemandMult < 1.0:
		t.DemandMult += up
		if t.DemandMult > 1.0 {
			t.DemandMult = 1.0
		}
	case t.DemandMult > 1.0:
		t.DemandMult -= down
		if t.DemandMult < 1.0 {
			t.DemandMult = 1.0
		}
	}
}

// DecayHeatMod lowers the local heat modifier, floored at zero
func (t *Territory) DecayHeatMod(amount int) {
	t.HeatMod -= amount
	if t.HeatMod < 0 {
		t.HeatMod = 0
	}
}
