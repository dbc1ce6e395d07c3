package npc

import (
	"math"
	"time"

	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// Status is the NPC lifecycle state. Dead is terminal.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusOnMission Status = "on_mission"
	StatusInjured   Status = "injured"
	StatusArrested  Status = "arrested"
	StatusDead      Status = "dead"
)

// Stats are the five independent 0-100 attributes rolled at hire
type Stats struct {
	Combat       int
	Stealth      int
	Intelligence int
	Charisma     int
	Speed        int
}

// Clamp caps every stat into [0, 100]
func (s *Stats) Clamp() {
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > 100 {
			return 100
		}
		return v
	}
	s.Combat = clamp(s.Combat)
	s.Stealth = clamp(s.Stealth)
	s.Intelligence = clamp(s.Intelligence)
	s.Charisma = clamp(s.Charisma)
	s.Speed = clamp(s.Speed)
}

// NPC is one hired mercenary. Role and rarity are fixed at hire.
type NPC struct {
	ID         int
	CartelID   int
	Name       string
	Role       string
	Rarity     string
	Stats      Stats
	Level      int
	XP         int
	Loyalty    int
	Status     Status
	AssignedTo string // territory label, meaningful only while idle
	MissionID  string // set while on_mission
	SalaryOwed int64
	RecoversAt *time.Time
	HiredAt    time.Time
}

// XPToNext returns the xp still needed for the next level, 0 at cap
func (n *NPC) XPToNext(xpPerLevel, maxLevel int) int {
	if n.Level >= maxLevel {
		return 0
	}
	need := xpThreshold(xpPerLevel, n.Level)
	if n.XP >= need {
		return 0
	}
	return need - n.XP
}

func xpThreshold(xpPerLevel, level int) int {
	return int(math.Floor(float64(xpPerLevel) * math.Pow(float64(level), 1.5)))
}

// GrantXP accumulates xp and levels up while the threshold is met,
// allowing multi-level jumps. Each level-up rolls a small bump on two
// random stats. Level is capped at maxLevel.
func (n *NPC) GrantXP(amount, xpPerLevel, maxLevel int, rng shared.Rand) int {
	if amount <= 0 || n.Status == StatusDead {
		return 0
	}
	n.XP += amount
	levels := 0
	for n.Level < maxLevel && n.XP >= xpThreshold(xpPerLevel, n.Level) {
		n.XP -= xpThreshold(xpPerLevel, n.Level)
		n.Level++
		levels++
		n.bumpStats(rng)
	}
	if n.Level >= maxLevel {
		n.Level = maxLevel
	}
	return levels
}

func (n *NPC) bumpStats(rng shared.Rand) {
	for i := 0; i < 2; i++ {
		bump := 1 + rng.Intn(3)
		switch rng.Intn(5) {
		case 0:
			n.Stats.Combat += bump
		case 1:
			n.Stats.Stealth += bump
		case 2:
			n.Stats.Intelligence += bump
		case 3:
			n.Stats.Charisma += bump
		case 4:
			n.Stats.Speed += bump
		}
	}
	n.Stats.Clamp()
}

// AdjustLoyalty moves loyalty by delta, clamped into [0, 100]
func (n *NPC) AdjustLoyalty(delta int) {
	n.Loyalty += delta
	if n.Loyalty < 0 {
		n.Loyalty = 0
	}
	if n.Loyalty > 100 {
		n.Loyalty = 100
	}
}

// Reserve flips idle → on_mission, stamping the mission id
func (n *NPC) Reserve(missionID string) error {
	if n.Status != StatusIdle {
		return shared.NewContentionError("npc %d is %s, not idle", n.ID, n.Status)
	}
	n.Status = StatusOnMission
	n.MissionID = missionID
	return nil
}

// Release returns the NPC to idle after mission resolution
func (n *NPC) Release() {
	if n.Status == StatusOnMission {
		n.Status = StatusIdle
	}
	n.MissionID = ""
}

// Injure marks the NPC injured until recoversAt
func (n *NPC) Injure(recoversAt time.Time) {
	n.Status = StatusInjured
	n.MissionID = ""
	t := recoversAt
	n.RecoversAt = &t
}

// Arrest marks the NPC arrested; only bail returns them
func (n *NPC) Arrest() {
	n.Status = StatusArrested
	n.MissionID = ""
}

// Kill marks the NPC permanently dead
func (n *NPC) Kill() {
	n.Status = StatusDead
	n.MissionID = ""
	n.AssignedTo = ""
}

// Alive reports whether the NPC still counts against the roster cap
func (n *NPC) Alive() bool {
	return n.Status != StatusDead
}
