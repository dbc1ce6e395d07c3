package database

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/cartel-go/internal/adapters/persistence"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
)

// SeedTerritories creates one global row per catalog territory, leaving
// existing rows untouched so control state survives restarts.
func SeedTerritories(db *gorm.DB, cat *catalog.Catalog) error {
	for id := range cat.Territories {
		model := persistence.TerritoryModel{
			ID:         id,
			DemandMult: 1.0,
			Upgrades:   "[]",
		}
		result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&model)
		if result.Error != nil {
			return fmt.Errorf("failed to seed territory %s: %w", id, result.Error)
		}
	}
	return nil
}
