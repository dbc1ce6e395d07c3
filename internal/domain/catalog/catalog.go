package catalog

import "time"

// Catalog is the immutable set of static game tables. It is built once at
// startup and injected wherever balance data is needed, so tests can
// substitute their own tables.
type Catalog struct {
	Drugs         map[string]DrugDef
	LabTypes      map[string]LabTypeDef
	Territories   map[string]TerritoryDef
	Roles         map[string]RoleDef
	Rarities      []RarityDef
	Missions      map[string]MissionDef
	RepLevels     []RepLevelDef
	Upgrades      map[string]UpgradeDef
	Constants     Constants
}

// DrugDef describes one producible/sellable drug
type DrugDef struct {
	ID             string
	Name           string
	BasePrice      int64 // street price per unit at demand 1.0
	ProductionCost int64 // raw materials per batch
	RequiredLab    string
	BatchSize      int
	BaseQuality    int
	BaseTime       time.Duration // cook time at lab level 1
}

// LabTypeDef describes one buildable lab type
type LabTypeDef struct {
	ID           string
	Name         string
	BuildCost    int64
	MaxLevel     int
	UpgradeMult  float64 // upgrade cost = BuildCost × UpgradeMult^level
	SpeedBonus   float64 // production time reduction per level above 1
	QualityBonus int     // quality points per level above 1
}

// TerritoryDef describes one location on the shared map
type TerritoryDef struct {
	ID       string
	Name     string
	Region   string
	LawLevel int     // 1 (lawless) .. 10 (locked down)
	Demand   float64 // structural demand multiplier for the location
}

// RoleDef describes one hireable NPC role
type RoleDef struct {
	ID            string
	Name          string
	PrimaryStat   string
	BaseCost      int64
	BaseSalary    int64
	PerLevelSalary int64
}

// RarityDef describes one rarity tier; Weight drives the hire roll
type RarityDef struct {
	ID       string
	Weight   int
	StatMin  int
	StatMax  int
	CostMult float64
}

// MissionDef describes the static shape of one mission type
type MissionDef struct {
	Type         string
	BaseDuration time.Duration
	CrewRole     string // role whose idle members are required
	MinCrew      int
	MaxCrew      int
}

// RepLevelDef maps cumulative reputation to a tier and its caps
type RepLevelDef struct {
	Level  int
	MinRep int64
	NPCCap int
	LabCap int
}

// UpgradeDef describes one territory upgrade track (controller-only)
type UpgradeDef struct {
	ID       string
	Name     string
	BaseCost int64
	CostMult float64
	MaxLevel int
	// Effect is per level: fortification adds defense power, distribution
	// adds a sale price bonus, corruption shaves sale heat.
	Effect float64
}

// Constants holds the scalar balance knobs
type Constants struct {
	CartelCost int64

	// heat & bust
	HeatDecayPerHour   float64
	BustThreshold      float64
	BustPerPointChance float64
	BustCooldown       time.Duration
	BustSeizeFraction  float64
	BustArrestChance   float64

	// passive reputation per hourly tick
	RepBase         int64
	RepPerLab       int64
	RepPerTerritory int64
	RepPerNPC       int64

	// npc lifecycle
	BetrayThreshold      int
	BetrayStealFraction  float64
	BetrayHeatGain       float64
	SalaryLoyaltyDecay   int
	HealCostFraction     float64
	BailCostFraction     float64
	BailLoyaltyPenalty   int
	InjuryRecovery       time.Duration
	XPPerLevel           int
	MaxNPCLevel          int

	// production & market
	CollectHeatGain     float64
	CollectRepGain      int64
	ClaimRepGain        int64
	ClaimControlPower   int
	DemandRecoveryUp    float64
	DemandRecoveryDown  float64
	DemandFloor         float64
	DemandSalePressure  float64
	HeatModDecay        int
}

// Drug returns the drug definition or false
func (c *Catalog) Drug(id string) (DrugDef, bool) {
	d, ok := c.Drugs[id]
	return d, ok
}

// LabType returns the lab type definition or false
func (c *Catalog) LabType(id string) (LabTypeDef, bool) {
	l, ok := c.LabTypes[id]
	return l, ok
}

// Territory returns the territory definition or false
func (c *Catalog) Territory(id string) (TerritoryDef, bool) {
	t, ok := c.Territories[id]
	return t, ok
}

// Role returns the role definition or false
func (c *Catalog) Role(id string) (RoleDef, bool) {
	r, ok := c.Roles[id]
	return r, ok
}

// Rarity returns the rarity definition by id or false
func (c *Catalog) Rarity(id string) (RarityDef, bool) {
	for _, r := range c.Rarities {
		if r.ID == id {
			return r, true
		}
	}
	return RarityDef{}, false
}

// Mission returns the mission definition or false
func (c *Catalog) Mission(missionType string) (MissionDef, bool) {
	m, ok := c.Missions[missionType]
	return m, ok
}

// Upgrade returns the territory upgrade definition or false
func (c *Catalog) Upgrade(id string) (UpgradeDef, bool) {
	u, ok := c.Upgrades[id]
	return u, ok
}

// RepLevelFor returns the tier a cumulative reputation falls into
func (c *Catalog) RepLevelFor(reputation int64) RepLevelDef {
	level := c.RepLevels[0]
	for _, def := range c.RepLevels {
		if reputation >= def.MinRep {
			level = def
		}
	}
	return level
}
