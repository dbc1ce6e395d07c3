package mission

import (
	"math"

	"github.com/andrescamacho/cartel-go/internal/domain/npc"
)

// DefenderMultiplier is the flat edge defenders get in any power contest
const DefenderMultiplier = 1.15

// ControlPowerWeight scales territory control power into seizure defense
const ControlPowerWeight = 5

// CrewPower computes the combat power of a set of NPCs:
// per member, combat×1.0 + stealth×0.3 + intelligence×0.2 + speed×0.4,
// scaled by 1 + 0.05 per level above 1, summed and floored.
func CrewPower(crew []*npc.NPC) float64 {
	var total float64
	for _, n := range crew {
		base := float64(n.Stats.Combat)*1.0 +
			float64(n.Stats.Stealth)*0.3 +
			float64(n.Stats.Intelligence)*0.2 +
			float64(n.Stats.Speed)*0.4
		total += base * (1 + 0.05*float64(n.Level-1))
	}
	return math.Floor(total)
}

// DurationModifier scales a mission's base duration by crew speed and
// stealth: faster, sneakier crews finish sooner. Clamped to [0.5, 1.5].
func DurationModifier(crew []*npc.NPC) float64 {
	if len(crew) == 0 {
		return 1.0
	}
	var sum float64
	for _, n := range crew {
		sum += float64(n.Stats.Speed+n.Stats.Stealth) / 2
	}
	avg := sum / float64(len(crew))
	mod := 1.5 - avg/100
	if mod < 0.5 {
		mod = 0.5
	}
	if mod > 1.5 {
		mod = 1.5
	}
	return mod
}

// AvgStat averages a single stat across the crew
func AvgStat(crew []*npc.NPC, pick func(npc.Stats) int) float64 {
	if len(crew) == 0 {
		return 0
	}
	sum := 0
	for _, n := range crew {
		sum += pick(n.Stats)
	}
	return float64(sum) / float64(len(crew))
}
