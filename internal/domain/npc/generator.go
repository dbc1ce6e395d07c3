package npc

import (
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

var firstNames = []string{
	"Vito", "Rico", "Sal", "Marta", "Lena", "Iris", "Dmitri", "Yuri",
	"Carmen", "Rosa", "Eddie", "Frank", "Nadia", "Oksana", "Tommy", "Ray",
}

var lastNames = []string{
	"Marquez", "Volkov", "Ferraro", "Okafor", "Duarte", "Kovacs",
	"Laurent", "Moreno", "Petrov", "Silva", "Young", "Castellano",
}

// Generate rolls a new recruit for the given role: rarity from the
// weighted table, each of the five stats uniform in the rarity band, and
// the role's primary stat boosted by ten points. Deterministic for a
// given Rand sequence.
func Generate(role catalog.RoleDef, rarities []catalog.RarityDef, rng shared.Rand) *NPC {
	rarity := rollRarity(rarities, rng)
	roll := func() int {
		return rarity.StatMin + rng.Intn(rarity.StatMax-rarity.StatMin+1)
	}
	stats := Stats{
		Combat:       roll(),
		Stealth:      roll(),
		Intelligence: roll(),
		Charisma:     roll(),
		Speed:        roll(),
	}
	switch role.PrimaryStat {
	case "combat":
		stats.Combat += 10
	case "stealth":
		stats.Stealth += 10
	case "intelligence":
		stats.Intelligence += 10
	case "charisma":
		stats.Charisma += 10
	case "speed":
		stats.Speed += 10
	}
	stats.Clamp()

	name := firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]

	return &NPC{
		Name:    name,
		Role:    role.ID,
		Rarity:  rarity.ID,
		Stats:   stats,
		Level:   1,
		Loyalty: 50,
		Status:  StatusIdle,
	}
}

// HireCost is base role cost scaled by the rolled rarity
func HireCost(role catalog.RoleDef, rarity catalog.RarityDef) int64 {
	return int64(float64(role.BaseCost) * rarity.CostMult)
}

// Salary is the hourly wage: base plus a per-level increment
func Salary(role catalog.RoleDef, level int) int64 {
	return role.BaseSalary + int64(level-1)*role.PerLevelSalary
}

func rollRarity(rarities []catalog.RarityDef, rng shared.Rand) catalog.RarityDef {
	total := 0
	for _, r := range rarities {
		total += r.Weight
	}
	pick := rng.Intn(total)
	for _, r := range rarities {
		pick -= r.Weight
		if pick < 0 {
			return r
		}
	}
	return rarities[len(rarities)-1]
}
