package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/cartel-go/internal/domain/shared"
	"github.com/andrescamacho/cartel-go/internal/domain/territory"
)

// GormTerritoryRepository implements territory.Repository using GORM
type GormTerritoryRepository struct {
	db *gorm.DB
}

// NewGormTerritoryRepository creates a new GORM territory repository
func NewGormTerritoryRepository(db *gorm.DB) *GormTerritoryRepository {
	return &GormTerritoryRepository{db: db}
}

// FindByID retrieves one territory
func (r *GormTerritoryRepository) FindByID(ctx context.Context, id string) (*territory.Territory, error) {
	var model TerritoryModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("territory", id)
		}
		return nil, fmt.Errorf("failed to find territory: %w", result.Error)
	}
	return modelToTerritory(&model)
}

// ListAll retrieves the whole map
func (r *GormTerritoryRepository) ListAll(ctx context.Context) ([]*territory.Territory, error) {
	var models []TerritoryModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list territories: %w", err)
	}
	out := make([]*territory.Territory, 0, len(models))
	for i := range models {
		t, err := modelToTerritory(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// ListControlledBy retrieves the territories one cartel holds
func (r *GormTerritoryRepository) ListControlledBy(ctx context.Context, cartelID int) ([]*territory.Territory, error) {
	var models []TerritoryModel
	if err := r.db.WithContext(ctx).Where("controlled_by = ?", cartelID).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list controlled territories: %w", err)
	}
	out := make([]*territory.Territory, 0, len(models))
	for i := range models {
		t, err := modelToTerritory(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Save upserts a territory row
func (r *GormTerritoryRepository) Save(ctx context.Context, t *territory.Territory) error {
	model, err := territoryToModel(t)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save territory: %w", err)
	}
	return nil
}

// ClaimIfUnclaimed atomically check-and-sets controlled_by: the WHERE
// clause on NULL means of two racing claims exactly one updates a row.
func (r *GormTerritoryRepository) ClaimIfUnclaimed(ctx context.Context, id string, cartelID, basePower int) error {
	result := r.db.WithContext(ctx).Model(&TerritoryModel{}).
		Where("id = ? AND controlled_by IS NULL", id).
		Updates(map[string]interface{}{
			"controlled_by": cartelID,
			"control_power": basePower,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to claim territory: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewContentionError("territory %s is no longer unclaimed", id)
	}
	return nil
}

func modelToTerritory(model *TerritoryModel) (*territory.Territory, error) {
	var upgrades []territory.Upgrade
	if model.Upgrades != "" {
		if err := json.Unmarshal([]byte(model.Upgrades), &upgrades); err != nil {
			return nil, fmt.Errorf("invalid upgrades json for territory %s: %w", model.ID, err)
		}
	}
	return &territory.Territory{
		ID:             model.ID,
		ControlledBy:   model.ControlledBy,
		ControlPower:   model.ControlPower,
		ContestedBy:    model.ContestedBy,
		ContestMission: model.ContestMission,
		DemandMult:     model.DemandMult,
		HeatMod:        model.HeatMod,
		Upgrades:       upgrades,
	}, nil
}

func territoryToModel(t *territory.Territory) (*TerritoryModel, error) {
	upgrades, err := json.Marshal(t.Upgrades)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal upgrades: %w", err)
	}
	return &TerritoryModel{
		ID:             t.ID,
		ControlledBy:   t.ControlledBy,
		ControlPower:   t.ControlPower,
		ContestedBy:    t.ContestedBy,
		ContestMission: t.ContestMission,
		DemandMult:     t.DemandMult,
		HeatMod:        t.HeatMod,
		Upgrades:       string(upgrades),
	}, nil
}
