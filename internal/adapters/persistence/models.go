package persistence

import (
	"time"
)

// CartelModel represents the cartels table. Inventory and labs are
// embedded aggregates stored as JSON text so the whole cartel saves in
// one atomic row write.
type CartelModel struct {
	ID          int        `gorm:"column:id;primaryKey;autoIncrement"`
	PlayerID    int        `gorm:"column:player_id;unique;not null"`
	Name        string     `gorm:"column:name;unique;not null"`
	Treasury    int64      `gorm:"column:treasury;not null;default:0"`
	Heat        float64    `gorm:"column:heat;not null;default:0"`
	Reputation  int64      `gorm:"column:reputation;not null;default:0"`
	RepLevel    int        `gorm:"column:rep_level;not null;default:1"`
	BustedUntil *time.Time `gorm:"column:busted_until"`
	Inventory   string     `gorm:"column:inventory;type:text"` // JSON array as text
	Labs        string     `gorm:"column:labs;type:text"`      // JSON array as text
	CreatedAt   time.Time  `gorm:"column:created_at;not null"`
}

func (CartelModel) TableName() string {
	return "cartels"
}

// NPCModel represents the cartel_npcs table
type NPCModel struct {
	ID           int          `gorm:"column:id;primaryKey;autoIncrement"`
	CartelID     int          `gorm:"column:cartel_id;not null;index"`
	Cartel       *CartelModel `gorm:"foreignKey:CartelID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name         string       `gorm:"column:name;not null"`
	Role         string       `gorm:"column:role;not null"`
	Rarity       string       `gorm:"column:rarity;not null"`
	Combat       int          `gorm:"column:combat;not null"`
	Stealth      int          `gorm:"column:stealth;not null"`
	Intelligence int          `gorm:"column:intelligence;not null"`
	Charisma     int          `gorm:"column:charisma;not null"`
	Speed        int          `gorm:"column:speed;not null"`
	Level        int          `gorm:"column:level;not null;default:1"`
	XP           int          `gorm:"column:xp;not null;default:0"`
	Loyalty      int          `gorm:"column:loyalty;not null;default:50"`
	Status       string       `gorm:"column:status;not null;default:'idle';index"`
	AssignedTo   string       `gorm:"column:assigned_to"`
	MissionID    string       `gorm:"column:mission_id"`
	SalaryOwed   int64        `gorm:"column:salary_owed;not null;default:0"`
	RecoversAt   *time.Time   `gorm:"column:recovers_at"`
	HiredAt      time.Time    `gorm:"column:hired_at;not null"`
}

func (NPCModel) TableName() string {
	return "cartel_npcs"
}

// TerritoryModel represents the territories table: one global row per
// map location, shared and contested across cartels.
type TerritoryModel struct {
	ID             string  `gorm:"column:id;primaryKey"`
	ControlledBy   *int    `gorm:"column:controlled_by;index"`
	ControlPower   int     `gorm:"column:control_power;not null;default:0"`
	ContestedBy    *int    `gorm:"column:contested_by"`
	ContestMission string  `gorm:"column:contest_mission"`
	DemandMult     float64 `gorm:"column:demand_mult;not null;default:1"`
	HeatMod        int     `gorm:"column:heat_mod;not null;default:0"`
	Upgrades       string  `gorm:"column:upgrades;type:text"` // JSON array as text
}

func (TerritoryModel) TableName() string {
	return "territories"
}

// MissionModel represents the cartel_missions table
type MissionModel struct {
	ID              string       `gorm:"column:id;primaryKey"`
	CartelID        int          `gorm:"column:cartel_id;not null;index"`
	Cartel          *CartelModel `gorm:"foreignKey:CartelID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Type            string       `gorm:"column:type;not null"`
	NPCIDs          string       `gorm:"column:npc_ids;type:text;not null"` // JSON array as text
	TargetTerritory string       `gorm:"column:target_territory"`
	SourceTerritory string       `gorm:"column:source_territory"`
	TargetCartelID  *int         `gorm:"column:target_cartel_id"`
	DrugID          string       `gorm:"column:drug_id"`
	Quantity        int          `gorm:"column:quantity;not null;default:0"`
	Bribe           int64        `gorm:"column:bribe;not null;default:0"`
	StartedAt       time.Time    `gorm:"column:started_at;not null"`
	CompletesAt     time.Time    `gorm:"column:completes_at;not null;index"`
	Status          string       `gorm:"column:status;not null;default:'active';index"`
	Outcome         string       `gorm:"column:outcome;type:text"` // JSON as text, empty until resolved
}

func (MissionModel) TableName() string {
	return "cartel_missions"
}
