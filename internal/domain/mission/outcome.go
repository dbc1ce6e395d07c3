package mission

import "fmt"

// Casualty records what happened to one participant at resolution
type Casualty struct {
	NPCID int
	Fate  string // "killed", "injured", "arrested"
}

// Outcome is the common envelope populated exactly once at resolution.
// Per-type figures share the same shape; unused fields stay zero.
type Outcome struct {
	Success      bool
	AttackPower  float64
	DefensePower float64
	MoneyDelta   int64 // treasury delta applied to the owning cartel
	ProductDelta int   // units gained (positive) or lost (negative)
	HeatDelta    float64
	RepDelta     int64
	Casualties   []Casualty
	Log          []string
}

// Logf appends one formatted narrative line
func (o *Outcome) Logf(format string, args ...interface{}) {
	o.Log = append(o.Log, fmt.Sprintf(format, args...))
}

// Deaths counts killed participants
func (o *Outcome) Deaths() int {
	n := 0
	for _, c := range o.Casualties {
		if c.Fate == "killed" {
			n++
		}
	}
	return n
}
