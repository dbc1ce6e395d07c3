package commands

import (
	"time"

	"github.com/andrescamacho/cartel-go/internal/domain/mission"
)

// One start command per mission type. Each carries the crew to reserve
// plus the type's own target parameters. Resources debited at creation
// (product, bribes) are never refunded if the mission later fails.

// StartDeliveryCommand runs product to a buyer in a territory
type StartDeliveryCommand struct {
	CartelID        int
	NPCIDs          []int
	TargetTerritory string
	DrugID          string
	Quantity        int
}

// StartSmugglingCommand moves product across regions for a cross-border
// premium
type StartSmugglingCommand struct {
	CartelID        int
	NPCIDs          []int
	SourceTerritory string
	TargetTerritory string
	DrugID          string
	Quantity        int
}

// StartRaidCommand hits a rival stash (TargetCartelID) or, against an
// own-controlled territory, runs a safer show-of-force patrol
type StartRaidCommand struct {
	CartelID        int
	NPCIDs          []int
	TargetCartelID  *int
	TargetTerritory string
}

// StartSeizureCommand attempts a takeover of a rival-held territory
type StartSeizureCommand struct {
	CartelID        int
	NPCIDs          []int
	TargetTerritory string
}

// StartSabotageCommand wrecks rival infrastructure in their territory,
// or covers tracks in an own-controlled one
type StartSabotageCommand struct {
	CartelID        int
	NPCIDs          []int
	TargetTerritory string
}

// StartAssassinationCommand takes out a rival lieutenant
// (TargetCartelID) or silences an informant in an own-controlled
// territory
type StartAssassinationCommand struct {
	CartelID        int
	NPCIDs          []int
	TargetCartelID  *int
	TargetTerritory string
}

// StartCorruptionCommand bribes officials; the bribe leaves the treasury
// immediately. TargetCartelID optionally aims an anonymous tip.
type StartCorruptionCommand struct {
	CartelID       int
	NPCIDs         []int
	Bribe          int64
	TargetCartelID *int
}

// StartIntimidationCommand shakes down businesses in a territory
type StartIntimidationCommand struct {
	CartelID        int
	NPCIDs          []int
	TargetTerritory string
}

// StartHeistCommand robs a cash target in a territory
type StartHeistCommand struct {
	CartelID        int
	NPCIDs          []int
	TargetTerritory string
}

// StartMissionResponse reports the persisted mission; the outcome
// becomes visible only through later polling
type StartMissionResponse struct {
	Mission     *mission.Mission
	CompletesAt time.Time
}
