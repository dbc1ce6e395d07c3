package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// GormCartelRepository implements cartel.Repository using GORM
type GormCartelRepository struct {
	db *gorm.DB
}

// NewGormCartelRepository creates a new GORM cartel repository
func NewGormCartelRepository(db *gorm.DB) *GormCartelRepository {
	return &GormCartelRepository{db: db}
}

// FindByID retrieves a cartel by id
func (r *GormCartelRepository) FindByID(ctx context.Context, id int) (*cartel.Cartel, error) {
	var model CartelModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("cartel", id)
		}
		return nil, fmt.Errorf("failed to find cartel: %w", result.Error)
	}
	return modelToCartel(&model)
}

// FindByPlayerID retrieves the cartel owned by a player
func (r *GormCartelRepository) FindByPlayerID(ctx context.Context, playerID int) (*cartel.Cartel, error) {
	var model CartelModel
	result := r.db.WithContext(ctx).Where("player_id = ?", playerID).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("cartel", fmt.Sprintf("player %d", playerID))
		}
		return nil, fmt.Errorf("failed to find cartel: %w", result.Error)
	}
	return modelToCartel(&model)
}

// ListAll retrieves every cartel
func (r *GormCartelRepository) ListAll(ctx context.Context) ([]*cartel.Cartel, error) {
	var models []CartelModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list cartels: %w", err)
	}
	return modelsToCartels(models)
}

// ListByReputation retrieves the top cartels ordered by reputation
func (r *GormCartelRepository) ListByReputation(ctx context.Context, limit int) ([]*cartel.Cartel, error) {
	var models []CartelModel
	if err := r.db.WithContext(ctx).Order("reputation DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list cartels by reputation: %w", err)
	}
	return modelsToCartels(models)
}

// Add inserts a new cartel and backfills the generated id
func (r *GormCartelRepository) Add(ctx context.Context, c *cartel.Cartel) error {
	model, err := cartelToModel(c)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to add cartel: %w", err)
	}
	c.ID = model.ID
	return nil
}

// Save writes the full aggregate, inventory and labs included
func (r *GormCartelRepository) Save(ctx context.Context, c *cartel.Cartel) error {
	model, err := cartelToModel(c)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save cartel: %w", err)
	}
	return nil
}

// Delete removes a cartel row
func (r *GormCartelRepository) Delete(ctx context.Context, id int) error {
	if err := r.db.WithContext(ctx).Delete(&CartelModel{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete cartel: %w", err)
	}
	return nil
}

func modelsToCartels(models []CartelModel) ([]*cartel.Cartel, error) {
	out := make([]*cartel.Cartel, 0, len(models))
	for i := range models {
		c, err := modelToCartel(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func modelToCartel(model *CartelModel) (*cartel.Cartel, error) {
	var inventory []cartel.Stack
	if model.Inventory != "" {
		if err := json.Unmarshal([]byte(model.Inventory), &inventory); err != nil {
			return nil, fmt.Errorf("invalid inventory json for cartel %d: %w", model.ID, err)
		}
	}
	var labs []cartel.Lab
	if model.Labs != "" {
		if err := json.Unmarshal([]byte(model.Labs), &labs); err != nil {
			return nil, fmt.Errorf("invalid labs json for cartel %d: %w", model.ID, err)
		}
	}
	return &cartel.Cartel{
		ID:          model.ID,
		PlayerID:    model.PlayerID,
		Name:        model.Name,
		Treasury:    model.Treasury,
		Heat:        model.Heat,
		Reputation:  model.Reputation,
		RepLevel:    model.RepLevel,
		BustedUntil: model.BustedUntil,
		Inventory:   inventory,
		Labs:        labs,
		CreatedAt:   model.CreatedAt,
	}, nil
}

func cartelToModel(c *cartel.Cartel) (*CartelModel, error) {
	inventory, err := json.Marshal(c.Inventory)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inventory: %w", err)
	}
	labs, err := json.Marshal(c.Labs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal labs: %w", err)
	}
	return &CartelModel{
		ID:          c.ID,
		PlayerID:    c.PlayerID,
		Name:        c.Name,
		Treasury:    c.Treasury,
		Heat:        c.Heat,
		Reputation:  c.Reputation,
		RepLevel:    c.RepLevel,
		BustedUntil: c.BustedUntil,
		Inventory:   string(inventory),
		Labs:        string(labs),
		CreatedAt:   c.CreatedAt,
	}, nil
}
