package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/cartel-go/internal/domain/mission"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// GormMissionRepository implements mission.Repository using GORM
type GormMissionRepository struct {
	db *gorm.DB
}

// NewGormMissionRepository creates a new GORM mission repository
func NewGormMissionRepository(db *gorm.DB) *GormMissionRepository {
	return &GormMissionRepository{db: db}
}

// FindByID retrieves a mission by id
func (r *GormMissionRepository) FindByID(ctx context.Context, id string) (*mission.Mission, error) {
	var model MissionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("mission", id)
		}
		return nil, fmt.Errorf("failed to find mission: %w", result.Error)
	}
	return modelToMission(&model)
}

// ListActiveByCartel retrieves a cartel's in-flight missions
func (r *GormMissionRepository) ListActiveByCartel(ctx context.Context, cartelID int) ([]*mission.Mission, error) {
	var models []MissionModel
	err := r.db.WithContext(ctx).
		Where("cartel_id = ? AND status IN ?", cartelID, []string{string(mission.StatusActive), string(mission.StatusResolving)}).
		Order("completes_at").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active missions: %w", err)
	}
	return modelsToMissions(models)
}

// ListHistoryByCartel retrieves resolved missions, newest first
func (r *GormMissionRepository) ListHistoryByCartel(ctx context.Context, cartelID, limit int) ([]*mission.Mission, error) {
	var models []MissionModel
	err := r.db.WithContext(ctx).
		Where("cartel_id = ? AND status IN ?", cartelID,
			[]string{string(mission.StatusCompleted), string(mission.StatusFailed), string(mission.StatusCancelled)}).
		Order("completes_at DESC").Limit(limit).Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list mission history: %w", err)
	}
	return modelsToMissions(models)
}

// ListDue retrieves every still-active mission whose completion time has
// passed as of the sweep start
func (r *GormMissionRepository) ListDue(ctx context.Context, asOf time.Time) ([]*mission.Mission, error) {
	var models []MissionModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND completes_at <= ?", string(mission.StatusActive), asOf).
		Order("completes_at").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list due missions: %w", err)
	}
	return modelsToMissions(models)
}

// Add inserts a new mission row
func (r *GormMissionRepository) Add(ctx context.Context, m *mission.Mission) error {
	model, err := missionToModel(m)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to add mission: %w", err)
	}
	return nil
}

// Save writes the mission row, outcome included
func (r *GormMissionRepository) Save(ctx context.Context, m *mission.Mission) error {
	model, err := missionToModel(m)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save mission: %w", err)
	}
	return nil
}

// ClaimForResolution is the exactly-once guard: a conditional update
// active → resolving that at most one worker wins per mission.
func (r *GormMissionRepository) ClaimForResolution(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&MissionModel{}).
		Where("id = ? AND status = ?", id, string(mission.StatusActive)).
		Update("status", string(mission.StatusResolving))
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim mission for resolution: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func modelsToMissions(models []MissionModel) ([]*mission.Mission, error) {
	out := make([]*mission.Mission, 0, len(models))
	for i := range models {
		m, err := modelToMission(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func modelToMission(model *MissionModel) (*mission.Mission, error) {
	var npcIDs []int
	if model.NPCIDs != "" {
		if err := json.Unmarshal([]byte(model.NPCIDs), &npcIDs); err != nil {
			return nil, fmt.Errorf("invalid npc_ids json for mission %s: %w", model.ID, err)
		}
	}
	var outcome *mission.Outcome
	if model.Outcome != "" {
		outcome = &mission.Outcome{}
		if err := json.Unmarshal([]byte(model.Outcome), outcome); err != nil {
			return nil, fmt.Errorf("invalid outcome json for mission %s: %w", model.ID, err)
		}
	}
	return &mission.Mission{
		ID:              model.ID,
		CartelID:        model.CartelID,
		Type:            mission.Type(model.Type),
		NPCIDs:          npcIDs,
		TargetTerritory: model.TargetTerritory,
		SourceTerritory: model.SourceTerritory,
		TargetCartelID:  model.TargetCartelID,
		DrugID:          model.DrugID,
		Quantity:        model.Quantity,
		Bribe:           model.Bribe,
		StartedAt:       model.StartedAt,
		CompletesAt:     model.CompletesAt,
		Status:          mission.Status(model.Status),
		Outcome:         outcome,
	}, nil
}

func missionToModel(m *mission.Mission) (*MissionModel, error) {
	npcIDs, err := json.Marshal(m.NPCIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal npc ids: %w", err)
	}
	outcomeJSON := ""
	if m.Outcome != nil {
		raw, err := json.Marshal(m.Outcome)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal outcome: %w", err)
		}
		outcomeJSON = string(raw)
	}
	return &MissionModel{
		ID:              m.ID,
		CartelID:        m.CartelID,
		Type:            string(m.Type),
		NPCIDs:          string(npcIDs),
		TargetTerritory: m.TargetTerritory,
		SourceTerritory: m.SourceTerritory,
		TargetCartelID:  m.TargetCartelID,
		DrugID:          m.DrugID,
		Quantity:        m.Quantity,
		Bribe:           m.Bribe,
		StartedAt:       m.StartedAt,
		CompletesAt:     m.CompletesAt,
		Status:          string(m.Status),
		Outcome:         outcomeJSON,
	}, nil
}
