package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/cartel-go/internal/domain/npc"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// GormNPCRepository implements npc.Repository using GORM
type GormNPCRepository struct {
	db *gorm.DB
}

// NewGormNPCRepository creates a new GORM NPC repository
func NewGormNPCRepository(db *gorm.DB) *GormNPCRepository {
	return &GormNPCRepository{db: db}
}

// FindByID retrieves an NPC by id
func (r *GormNPCRepository) FindByID(ctx context.Context, id int) (*npc.NPC, error) {
	var model NPCModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("npc", id)
		}
		return nil, fmt.Errorf("failed to find npc: %w", result.Error)
	}
	return modelToNPC(&model), nil
}

// ListByCartel retrieves every NPC belonging to a cartel
func (r *GormNPCRepository) ListByCartel(ctx context.Context, cartelID int) ([]*npc.NPC, error) {
	var models []NPCModel
	if err := r.db.WithContext(ctx).Where("cartel_id = ?", cartelID).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list npcs: %w", err)
	}
	return modelsToNPCs(models), nil
}

// ListIdleByRole retrieves a cartel's idle NPCs of one role
func (r *GormNPCRepository) ListIdleByRole(ctx context.Context, cartelID int, role string) ([]*npc.NPC, error) {
	var models []NPCModel
	err := r.db.WithContext(ctx).
		Where("cartel_id = ? AND role = ? AND status = ?", cartelID, role, string(npc.StatusIdle)).
		Order("id").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list idle npcs: %w", err)
	}
	return modelsToNPCs(models), nil
}

// ListAllAlive retrieves every non-dead NPC across all cartels,
// for the hourly payroll/recovery/betrayal sweeps
func (r *GormNPCRepository) ListAllAlive(ctx context.Context) ([]*npc.NPC, error) {
	var models []NPCModel
	err := r.db.WithContext(ctx).
		Where("status <> ?", string(npc.StatusDead)).
		Order("cartel_id, id").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list alive npcs: %w", err)
	}
	return modelsToNPCs(models), nil
}

// CountAlive counts a cartel's non-dead NPCs against the roster cap
func (r *GormNPCRepository) CountAlive(ctx context.Context, cartelID int) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&NPCModel{}).
		Where("cartel_id = ? AND status <> ?", cartelID, string(npc.StatusDead)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count npcs: %w", err)
	}
	return int(count), nil
}

// Add inserts a new NPC and backfills the generated id
func (r *GormNPCRepository) Add(ctx context.Context, n *npc.NPC) error {
	model := npcToModel(n)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to add npc: %w", err)
	}
	n.ID = model.ID
	return nil
}

// Save writes the NPC row
func (r *GormNPCRepository) Save(ctx context.Context, n *npc.NPC) error {
	if err := r.db.WithContext(ctx).Save(npcToModel(n)).Error; err != nil {
		return fmt.Errorf("failed to save npc: %w", err)
	}
	return nil
}

// Delete removes an NPC row (fire)
func (r *GormNPCRepository) Delete(ctx context.Context, id int) error {
	if err := r.db.WithContext(ctx).Delete(&NPCModel{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete npc: %w", err)
	}
	return nil
}

// Reserve flips status idle → on_mission in a single conditional update.
// The WHERE clause on status makes the flip atomic: of two concurrent
// mission creations, exactly one sees RowsAffected == 1.
func (r *GormNPCRepository) Reserve(ctx context.Context, id int, missionID string) error {
	result := r.db.WithContext(ctx).Model(&NPCModel{}).
		Where("id = ? AND status = ?", id, string(npc.StatusIdle)).
		Updates(map[string]interface{}{
			"status":     string(npc.StatusOnMission),
			"mission_id": missionID,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to reserve npc: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewContentionError("npc %d is no longer idle", id)
	}
	return nil
}

func modelsToNPCs(models []NPCModel) []*npc.NPC {
	out := make([]*npc.NPC, 0, len(models))
	for i := range models {
		out = append(out, modelToNPC(&models[i]))
	}
	return out
}

func modelToNPC(model *NPCModel) *npc.NPC {
	return &npc.NPC{
		ID:       model.ID,
		CartelID: model.CartelID,
		Name:     model.Name,
		Role:     model.Role,
		Rarity:   model.Rarity,
		Stats: npc.Stats{
			Combat:       model.Combat,
			Stealth:      model.Stealth,
			Intelligence: model.Intelligence,
			Charisma:     model.Charisma,
			Speed:        model.Speed,
		},
		Level:      model.Level,
		XP:         model.XP,
		Loyalty:    model.Loyalty,
		Status:     npc.Status(model.Status),
		AssignedTo: model.AssignedTo,
		MissionID:  model.MissionID,
		SalaryOwed: model.SalaryOwed,
		RecoversAt: model.RecoversAt,
		HiredAt:    model.HiredAt,
	}
}

func npcToModel(n *npc.NPC) *NPCModel {
	return &NPCModel{
		ID:           n.ID,
		CartelID:     n.CartelID,
		Name:         n.Name,
		Role:         n.Role,
		Rarity:       n.Rarity,
		Combat:       n.Stats.Combat,
		Stealth:      n.Stats.Stealth,
		Intelligence: n.Stats.Intelligence,
		Charisma:     n.Stats.Charisma,
		Speed:        n.Stats.Speed,
		Level:        n.Level,
		XP:           n.XP,
		Loyalty:      n.Loyalty,
		Status:       string(n.Status),
		AssignedTo:   n.AssignedTo,
		MissionID:    n.MissionID,
		SalaryOwed:   n.SalaryOwed,
		RecoversAt:   n.RecoversAt,
		HiredAt:      n.HiredAt,
	}
}
