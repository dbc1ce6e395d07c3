package catalog

import "time"

// Default builds the stock balance tables. Loaded once at startup; the
// returned catalog must be treated as read-only.
func Default() *Catalog {
	return &Catalog{
		Drugs: map[string]DrugDef{
			"weed": {
				ID: "weed", Name: "Weed", BasePrice: 80, ProductionCost: 200,
				RequiredLab: "grow_house", BatchSize: 20, BaseQuality: 45,
				BaseTime: 2 * time.Hour,
			},
			"meth": {
				ID: "meth", Name: "Meth", BasePrice: 180, ProductionCost: 350,
				RequiredLab: "meth_lab", BatchSize: 15, BaseQuality: 40,
				BaseTime: 4 * time.Hour,
			},
			"cocaine": {
				ID: "cocaine", Name: "Cocaine", BasePrice: 350, ProductionCost: 500,
				RequiredLab: "coke_kitchen", BatchSize: 10, BaseQuality: 50,
				BaseTime: 6 * time.Hour,
			},
			"heroin": {
				ID: "heroin", Name: "Heroin", BasePrice: 500, ProductionCost: 800,
				RequiredLab: "heroin_refinery", BatchSize: 8, BaseQuality: 55,
				BaseTime: 8 * time.Hour,
			},
		},
		LabTypes: map[string]LabTypeDef{
			"grow_house": {
				ID: "grow_house", Name: "Grow House", BuildCost: 15000,
				MaxLevel: 5, UpgradeMult: 1.8, SpeedBonus: 0.10, QualityBonus: 5,
			},
			"meth_lab": {
				ID: "meth_lab", Name: "Meth Lab", BuildCost: 35000,
				MaxLevel: 5, UpgradeMult: 1.8, SpeedBonus: 0.10, QualityBonus: 5,
			},
			"coke_kitchen": {
				ID: "coke_kitchen", Name: "Coke Kitchen", BuildCost: 60000,
				MaxLevel: 4, UpgradeMult: 2.0, SpeedBonus: 0.12, QualityBonus: 6,
			},
			"heroin_refinery": {
				ID: "heroin_refinery", Name: "Heroin Refinery", BuildCost: 100000,
				MaxLevel: 3, UpgradeMult: 2.2, SpeedBonus: 0.15, QualityBonus: 8,
			},
		},
		Territories: map[string]TerritoryDef{
			"docklands":    {ID: "docklands", Name: "The Docklands", Region: "harbor", LawLevel: 3, Demand: 1.1},
			"old_town":     {ID: "old_town", Name: "Old Town", Region: "center", LawLevel: 6, Demand: 1.3},
			"iron_heights": {ID: "iron_heights", Name: "Iron Heights", Region: "north", LawLevel: 2, Demand: 0.9},
			"the_strip":    {ID: "the_strip", Name: "The Strip", Region: "center", LawLevel: 7, Demand: 1.6},
			"southside":    {ID: "southside", Name: "Southside", Region: "south", LawLevel: 4, Demand: 1.0},
			"riverside":    {ID: "riverside", Name: "Riverside", Region: "harbor", LawLevel: 5, Demand: 1.2},
			"badlands":     {ID: "badlands", Name: "The Badlands", Region: "north", LawLevel: 1, Demand: 0.7},
			"uptown":       {ID: "uptown", Name: "Uptown", Region: "center", LawLevel: 8, Demand: 1.8},
		},
		Roles: map[string]RoleDef{
			"enforcer": {ID: "enforcer", Name: "Enforcer", PrimaryStat: "combat", BaseCost: 5000, BaseSalary: 500, PerLevelSalary: 150},
			"smuggler": {ID: "smuggler", Name: "Smuggler", PrimaryStat: "stealth", BaseCost: 6000, BaseSalary: 550, PerLevelSalary: 150},
			"dealer":   {ID: "dealer", Name: "Dealer", PrimaryStat: "charisma", BaseCost: 4000, BaseSalary: 400, PerLevelSalary: 120},
			"chemist":  {ID: "chemist", Name: "Chemist", PrimaryStat: "intelligence", BaseCost: 8000, BaseSalary: 700, PerLevelSalary: 200},
			"driver":   {ID: "driver", Name: "Driver", PrimaryStat: "speed", BaseCost: 4500, BaseSalary: 450, PerLevelSalary: 130},
		},
		Rarities: []RarityDef{
			{ID: "common", Weight: 70, StatMin: 20, StatMax: 50, CostMult: 1.0},
			{ID: "seasoned", Weight: 20, StatMin: 40, StatMax: 70, CostMult: 2.0},
			{ID: "elite", Weight: 8, StatMin: 60, StatMax: 85, CostMult: 4.0},
			{ID: "legendary", Weight: 2, StatMin: 75, StatMax: 95, CostMult: 8.0},
		},
		Missions: map[string]MissionDef{
			"delivery":      {Type: "delivery", BaseDuration: 30 * time.Minute, CrewRole: "driver", MinCrew: 1, MaxCrew: 3},
			"smuggling":     {Type: "smuggling", BaseDuration: 90 * time.Minute, CrewRole: "smuggler", MinCrew: 2, MaxCrew: 4},
			"raid":          {Type: "raid", BaseDuration: 45 * time.Minute, CrewRole: "enforcer", MinCrew: 2, MaxCrew: 6},
			"seizure":       {Type: "seizure", BaseDuration: 2 * time.Hour, CrewRole: "enforcer", MinCrew: 3, MaxCrew: 8},
			"sabotage":      {Type: "sabotage", BaseDuration: 1 * time.Hour, CrewRole: "smuggler", MinCrew: 1, MaxCrew: 3},
			"assassination": {Type: "assassination", BaseDuration: 3 * time.Hour, CrewRole: "enforcer", MinCrew: 1, MaxCrew: 2},
			"corruption":    {Type: "corruption", BaseDuration: 2 * time.Hour, CrewRole: "dealer", MinCrew: 1, MaxCrew: 2},
			"intimidation":  {Type: "intimidation", BaseDuration: 40 * time.Minute, CrewRole: "enforcer", MinCrew: 2, MaxCrew: 4},
			"heist":         {Type: "heist", BaseDuration: 90 * time.Minute, CrewRole: "smuggler", MinCrew: 3, MaxCrew: 5},
		},
		RepLevels: []RepLevelDef{
			{Level: 1, MinRep: 0, NPCCap: 5, LabCap: 1},
			{Level: 2, MinRep: 1000, NPCCap: 8, LabCap: 2},
			{Level: 3, MinRep: 5000, NPCCap: 12, LabCap: 3},
			{Level: 4, MinRep: 20000, NPCCap: 16, LabCap: 4},
			{Level: 5, MinRep: 50000, NPCCap: 20, LabCap: 6},
		},
		Upgrades: map[string]UpgradeDef{
			"fortification": {ID: "fortification", Name: "Fortification", BaseCost: 20000, CostMult: 2.0, MaxLevel: 5, Effect: 10},
			"distribution":  {ID: "distribution", Name: "Distribution Network", BaseCost: 30000, CostMult: 2.0, MaxLevel: 3, Effect: 0.05},
			"corruption":    {ID: "corruption", Name: "Police Contacts", BaseCost: 40000, CostMult: 2.5, MaxLevel: 3, Effect: 1},
		},
		Constants: Constants{
			CartelCost: 250000,

			HeatDecayPerHour:   2,
			BustThreshold:      80,
			BustPerPointChance: 0.005,
			BustCooldown:       24 * time.Hour,
			BustSeizeFraction:  0.25,
			BustArrestChance:   0.30,

			RepBase:         2,
			RepPerLab:       3,
			RepPerTerritory: 5,
			RepPerNPC:       1,

			BetrayThreshold:     20,
			BetrayStealFraction: 0.10,
			BetrayHeatGain:      15,
			SalaryLoyaltyDecay:  5,
			HealCostFraction:    0.25,
			BailCostFraction:    0.25,
			BailLoyaltyPenalty:  10,
			InjuryRecovery:      8 * time.Hour,
			XPPerLevel:          100,
			MaxNPCLevel:         10,

			CollectHeatGain:    2,
			CollectRepGain:     5,
			ClaimRepGain:       50,
			ClaimControlPower:  10,
			DemandRecoveryUp:   0.02,
			DemandRecoveryDown: 0.01,
			DemandFloor:        0.5,
			DemandSalePressure: 0.005,
			HeatModDecay:       1,
		},
	}
}
