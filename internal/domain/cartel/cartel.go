package cartel

import (
	"math"
	"time"

	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// Stack is one drug holding in the cartel inventory. Quality is the
// weighted average across every batch merged into the stack.
type Stack struct {
	DrugID   string
	Quantity int
	Quality  float64
}

// Lab is a production facility embedded in the cartel. At most one batch
// is in flight; ProducingDrug and BatchStartedAt are set together.
type Lab struct {
	ID             int
	LabType        string
	TerritoryID    string
	Level          int
	ProducingDrug  string
	BatchStartedAt *time.Time
}

// Producing reports whether a batch is currently cooking
func (l *Lab) Producing() bool {
	return l.ProducingDrug != "" && l.BatchStartedAt != nil
}

// Cartel is the criminal-organization aggregate: treasury, heat,
// reputation, drug inventory and the embedded lab roster.
//
// Invariants:
// - Treasury never negative
// - Heat never negative, unbounded above
// - Reputation never decreases
// - While BustedUntil is in the future, every mutating operation is rejected
type Cartel struct {
	ID          int
	PlayerID    int
	Name        string
	Treasury    int64
	Heat        float64
	Reputation  int64
	RepLevel    int
	BustedUntil *time.Time
	Inventory   []Stack
	Labs        []Lab
	CreatedAt   time.Time
}

// New creates a cartel at rep level 1 with an empty treasury
func New(playerID int, name string, now time.Time) (*Cartel, error) {
	if name == "" {
		return nil, shared.NewValidationError("name", "cartel name cannot be empty")
	}
	return &Cartel{
		PlayerID:  playerID,
		Name:      name,
		RepLevel:  1,
		CreatedAt: now,
	}, nil
}

// Frozen reports whether a bust cooldown is still in effect
func (c *Cartel) Frozen(now time.Time) bool {
	return c.BustedUntil != nil && c.BustedUntil.After(now)
}

// RejectIfFrozen returns a BustFrozenError while the bust cooldown holds
func (c *Cartel) RejectIfFrozen(now time.Time) error {
	if c.Frozen(now) {
		return shared.NewBustFrozenError(c.BustedUntil.Format(time.RFC3339))
	}
	return nil
}

// Debit removes funds from the treasury, rejecting overdrafts
func (c *Cartel) Debit(amount int64) error {
	if amount < 0 {
		return shared.NewValidationError("amount", "debit amount cannot be negative")
	}
	if c.Treasury < amount {
		return shared.NewInsufficientFundsError(amount, c.Treasury)
	}
	c.Treasury -= amount
	return nil
}

// Credit adds funds to the treasury
func (c *Cartel) Credit(amount int64) error {
	if amount < 0 {
		return shared.NewValidationError("amount", "credit amount cannot be negative")
	}
	c.Treasury += amount
	return nil
}

// RaiseHeat increases heat; negative deltas are clamped at zero heat
func (c *Cartel) RaiseHeat(delta float64) {
	c.Heat += delta
	if c.Heat < 0 {
		c.Heat = 0
	}
}

// DecayHeat lowers heat by amount, flooring at zero
func (c *Cartel) DecayHeat(amount float64) {
	c.Heat -= amount
	if c.Heat < 0 {
		c.Heat = 0
	}
}

// GainReputation adds reputation and recomputes the rep level.
// Reputation is monotonic: non-positive gains are ignored.
func (c *Cartel) GainReputation(amount int64, cat *catalog.Catalog) {
	if amount <= 0 {
		return
	}
	c.Reputation += amount
	c.RepLevel = cat.RepLevelFor(c.Reputation).Level
}

// StackOf returns the inventory stack for a drug, or nil
func (c *Cartel) StackOf(drugID string) *Stack {
	for i := range c.Inventory {
		if c.Inventory[i].DrugID == drugID {
			return &c.Inventory[i]
		}
	}
	return nil
}

// AddProduct merges units into the inventory, weight-averaging quality
func (c *Cartel) AddProduct(drugID string, quantity int, quality float64) {
	if quantity <= 0 {
		return
	}
	stack := c.StackOf(drugID)
	if stack == nil {
		c.Inventory = append(c.Inventory, Stack{DrugID: drugID, Quantity: quantity, Quality: quality})
		return
	}
	total := stack.Quantity + quantity
	stack.Quality = (stack.Quality*float64(stack.Quantity) + quality*float64(quantity)) / float64(total)
	stack.Quantity = total
}

// RemoveProduct debits units from a stack, dropping the stack when empty
func (c *Cartel) RemoveProduct(drugID string, quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("quantity", "quantity must be positive")
	}
	stack := c.StackOf(drugID)
	if stack == nil || stack.Quantity < quantity {
		have := 0
		if stack != nil {
			have = stack.Quantity
		}
		return shared.NewPreconditionError("insufficient product: need %d %s, have %d", quantity, drugID, have)
	}
	stack.Quantity -= quantity
	if stack.Quantity == 0 {
		for i := range c.Inventory {
			if c.Inventory[i].DrugID == drugID {
				c.Inventory = append(c.Inventory[:i], c.Inventory[i+1:]...)
				break
			}
		}
	}
	return nil
}

// LabByID returns the embedded lab with the given id, or nil
func (c *Cartel) LabByID(labID int) *Lab {
	for i := range c.Labs {
		if c.Labs[i].ID == labID {
			return &c.Labs[i]
		}
	}
	return nil
}

// AddLab appends a level-1 lab and returns it
func (c *Cartel) AddLab(labType, territoryID string) *Lab {
	next := 1
	for _, l := range c.Labs {
		if l.ID >= next {
			next = l.ID + 1
		}
	}
	c.Labs = append(c.Labs, Lab{ID: next, LabType: labType, TerritoryID: territoryID, Level: 1})
	return &c.Labs[len(c.Labs)-1]
}

// RemoveLab drops the lab with the given id
func (c *Cartel) RemoveLab(labID int) error {
	for i := range c.Labs {
		if c.Labs[i].ID == labID {
			c.Labs = append(c.Labs[:i], c.Labs[i+1:]...)
			return nil
		}
	}
	return shared.NewNotFoundError("lab", labID)
}

// SeizeFraction removes the given fraction of the treasury and of every
// inventory stack, returning the cash taken. Used by the bust engine.
func (c *Cartel) SeizeFraction(fraction float64) int64 {
	seized := int64(math.Floor(float64(c.Treasury) * fraction))
	c.Treasury -= seized
	for i := range c.Inventory {
		c.Inventory[i].Quantity -= int(math.Floor(float64(c.Inventory[i].Quantity) * fraction))
	}
	kept := c.Inventory[:0]
	for _, s := range c.Inventory {
		if s.Quantity > 0 {
			kept = append(kept, s)
		}
	}
	c.Inventory = kept
	return seized
}
