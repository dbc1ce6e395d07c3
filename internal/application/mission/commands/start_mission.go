package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/mission"
	"github.com/andrescamacho/cartel-go/internal/domain/npc"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
	"github.com/andrescamacho/cartel-go/internal/domain/territory"
)

// StartMissionHandler validates type-specific preconditions, debits
// creation resources, reserves the crew and persists the mission in
// active state. One handler serves all nine types; each type keeps its
// own validation path.
type StartMissionHandler struct {
	cartelRepo    cartel.Repository
	npcRepo       npc.Repository
	territoryRepo territory.Repository
	missionRepo   mission.Repository
	catalog       *catalog.Catalog
	clock         shared.Clock
}

// NewStartMissionHandler creates a new start mission handler
func NewStartMissionHandler(
	cartelRepo cartel.Repository,
	npcRepo npc.Repository,
	territoryRepo territory.Repository,
	missionRepo mission.Repository,
	cat *catalog.Catalog,
	clock shared.Clock,
) *StartMissionHandler {
	return &StartMissionHandler{
		cartelRepo:    cartelRepo,
		npcRepo:       npcRepo,
		territoryRepo: territoryRepo,
		missionRepo:   missionRepo,
		catalog:       cat,
		clock:         clock,
	}
}

// creation carries the validated, type-specific parts of a new mission
type creation struct {
	missionType mission.Type
	cartelID    int
	npcIDs      []int
	target      string
	source      string
	targetCartel *int
	drugID      string
	quantity    int
	bribe       int64
	// debit mutates the cartel aggregate with the non-refundable
	// creation costs; nil when the type debits nothing
	debit func(c *cartel.Cartel) error
}

// Handle executes one of the nine start commands
func (h *StartMissionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	var cr creation
	var err error
	switch cmd := request.(type) {
	case *StartDeliveryCommand:
		cr, err = h.prepareDelivery(cmd)
	case *StartSmugglingCommand:
		cr, err = h.prepareSmuggling(cmd)
	case *StartRaidCommand:
		cr, err = h.prepareRaid(ctx, cmd)
	case *StartSeizureCommand:
		cr, err = h.prepareSeizure(ctx, cmd)
	case *StartSabotageCommand:
		cr, err = h.prepareSabotage(ctx, cmd)
	case *StartAssassinationCommand:
		cr, err = h.prepareAssassination(ctx, cmd)
	case *StartCorruptionCommand:
		cr, err = h.prepareCorruption(cmd)
	case *StartIntimidationCommand:
		cr, err = h.prepareIntimidation(cmd)
	case *StartHeistCommand:
		cr, err = h.prepareHeist(cmd)
	default:
		return nil, fmt.Errorf("invalid request type")
	}
	if err != nil {
		return nil, err
	}
	return h.create(ctx, cr)
}

func (h *StartMissionHandler) prepareDelivery(cmd *StartDeliveryCommand) (creation, error) {
	if _, ok := h.catalog.Territory(cmd.TargetTerritory); !ok {
		return creation{}, shared.NewValidationError("targetTerritory", fmt.Sprintf("unknown territory %q", cmd.TargetTerritory))
	}
	drug, ok := h.catalog.Drug(cmd.DrugID)
	if !ok {
		return creation{}, shared.NewValidationError("drugId", fmt.Sprintf("unknown drug %q", cmd.DrugID))
	}
	if cmd.Quantity <= 0 {
		return creation{}, shared.NewValidationError("quantity", "quantity must be positive")
	}
	return creation{
		missionType: mission.TypeDelivery,
		cartelID:    cmd.CartelID,
		npcIDs:      cmd.NPCIDs,
		target:      cmd.TargetTerritory,
		drugID:      drug.ID,
		quantity:    cmd.Quantity,
		debit: func(c *cartel.Cartel) error {
			return c.RemoveProduct(drug.ID, cmd.Quantity)
		},
	}, nil
}

func (h *StartMissionHandler) prepareSmuggling(cmd *StartSmugglingCommand) (creation, error) {
	source, ok := h.catalog.Territory(cmd.SourceTerritory)
	if !ok {
		return creation{}, shared.NewValidationError("sourceTerritory", fmt.Sprintf("unknown territory %q", cmd.SourceTerritory))
	}
	target, ok := h.catalog.Territory(cmd.TargetTerritory)
	if !ok {
		return creation{}, shared.NewValidationError("targetTerritory", fmt.Sprintf("unknown territory %q", cmd.TargetTerritory))
	}
	if source.Region == target.Region {
		return creation{}, shared.NewPreconditionError("smuggling must cross regions; %s and %s are both in %s", source.ID, target.ID, source.Region)
	}
	drug, ok := h.catalog.Drug(cmd.DrugID)
	if !ok {
		return creation{}, shared.NewValidationError("drugId", fmt.Sprintf("unknown drug %q", cmd.DrugID))
	}
	if cmd.Quantity <= 0 {
		return creation{}, shared.NewValidationError("quantity", "quantity must be positive")
	}
	return creation{
		missionType: mission.TypeSmuggling,
		cartelID:    cmd.CartelID,
		npcIDs:      cmd.NPCIDs,
		target:      target.ID,
		source:      source.ID,
		drugID:      drug.ID,
		quantity:    cmd.Quantity,
		debit: func(c *cartel.Cartel) error {
			return c.RemoveProduct(drug.ID, cmd.Quantity)
		},
	}, nil
}

func (h *StartMissionHandler) prepareRaid(ctx context.Context, cmd *StartRaidCommand) (creation, error) {
	if cmd.TargetCartelID == nil && cmd.TargetTerritory == "" {
		return creation{}, shared.NewValidationError("target", "raid needs a rival cartel or an own territory")
	}
	if cmd.TargetCartelID != nil {
		if *cmd.TargetCartelID == cmd.CartelID {
			return creation{}, shared.NewValidationError("targetCartelId", "cannot raid yourself")
		}
		if _, err := h.cartelRepo.FindByID(ctx, *cmd.TargetCartelID); err != nil {
			return creation{}, err
		}
		return creation{
			missionType:  mission.TypeRaid,
			cartelID:     cmd.CartelID,
			npcIDs:       cmd.NPCIDs,
			targetCartel: cmd.TargetCartelID,
		}, nil
	}
	// own-territory variant: a show of force to cool things down
	if err := h.requireControlled(ctx, cmd.CartelID, cmd.TargetTerritory); err != nil {
		return creation{}, err
	}
	return creation{
		missionType: mission.TypeRaid,
		cartelID:    cmd.CartelID,
		npcIDs:      cmd.NPCIDs,
		target:      cmd.TargetTerritory,
	}, nil
}

func (h *StartMissionHandler) prepareSeizure(ctx context.Context, cmd *StartSeizureCommand) (creation, error) {
	t, err := h.territoryRepo.FindByID(ctx, cmd.TargetTerritory)
	if err != nil {
		return creation{}, err
	}
	if t.ControlledBy == nil {
		return creation{}, shared.NewPreconditionError("territory %s is unclaimed; claim it instead", t.ID)
	}
	if *t.ControlledBy == cmd.CartelID {
		return creation{}, shared.NewPreconditionError("cartel %d already controls %s", cmd.CartelID, t.ID)
	}
	if t.ContestedBy != nil {
		return creation{}, shared.NewPreconditionError("territory %s is already contested", t.ID)
	}
	rival := *t.ControlledBy
	return creation{
		missionType:  mission.TypeSeizure,
		cartelID:     cmd.CartelID,
		npcIDs:       cmd.NPCIDs,
		target:       t.ID,
		targetCartel: &rival,
	}, nil
}

func (h *StartMissionHandler) prepareSabotage(ctx context.Context, cmd *StartSabotageCommand) (creation, error) {
	t, err := h.territoryRepo.FindByID(ctx, cmd.TargetTerritory)
	if err != nil {
		return creation{}, err
	}
	if t.ControlledBy == nil {
		return creation{}, shared.NewPreconditionError("territory %s is unclaimed; nothing to sabotage", t.ID)
	}
	cr := creation{
		missionType: mission.TypeSabotage,
		cartelID:    cmd.CartelID,
		npcIDs:      cmd.NPCIDs,
		target:      t.ID,
	}
	if *t.ControlledBy != cmd.CartelID {
		rival := *t.ControlledBy
		cr.targetCartel = &rival
	}
	return cr, nil
}

func (h *StartMissionHandler) prepareAssassination(ctx context.Context, cmd *StartAssassinationCommand) (creation, error) {
	if cmd.TargetCartelID == nil && cmd.TargetTerritory == "" {
		return creation{}, shared.NewValidationError("target", "assassination needs a rival cartel or an own territory")
	}
	if cmd.TargetCartelID != nil {
		if *cmd.TargetCartelID == cmd.CartelID {
			return creation{}, shared.NewValidationError("targetCartelId", "cannot target your own cartel")
		}
		if _, err := h.cartelRepo.FindByID(ctx, *cmd.TargetCartelID); err != nil {
			return creation{}, err
		}
		return creation{
			missionType:  mission.TypeAssassination,
			cartelID:     cmd.CartelID,
			npcIDs:       cmd.NPCIDs,
			targetCartel: cmd.TargetCartelID,
		}, nil
	}
	// own-territory variant: the informant hit
	if err := h.requireControlled(ctx, cmd.CartelID, cmd.TargetTerritory); err != nil {
		return creation{}, err
	}
	return creation{
		missionType: mission.TypeAssassination,
		cartelID:    cmd.CartelID,
		npcIDs:      cmd.NPCIDs,
		target:      cmd.TargetTerritory,
	}, nil
}

func (h *StartMissionHandler) prepareCorruption(cmd *StartCorruptionCommand) (creation, error) {
	if cmd.Bribe <= 0 {
		return creation{}, shared.NewValidationError("bribe", "bribe must be positive")
	}
	if cmd.TargetCartelID != nil && *cmd.TargetCartelID == cmd.CartelID {
		return creation{}, shared.NewValidationError("targetCartelId", "cannot tip off about yourself")
	}
	return creation{
		missionType:  mission.TypeCorruption,
		cartelID:     cmd.CartelID,
		npcIDs:       cmd.NPCIDs,
		targetCartel: cmd.TargetCartelID,
		bribe:        cmd.Bribe,
		debit: func(c *cartel.Cartel) error {
			return c.Debit(cmd.Bribe)
		},
	}, nil
}

func (h *StartMissionHandler) prepareIntimidation(cmd *StartIntimidationCommand) (creation, error) {
	if _, ok := h.catalog.Territory(cmd.TargetTerritory); !ok {
		return creation{}, shared.NewValidationError("targetTerritory", fmt.Sprintf("unknown territory %q", cmd.TargetTerritory))
	}
	return creation{
		missionType: mission.TypeIntimidation,
		cartelID:    cmd.CartelID,
		npcIDs:      cmd.NPCIDs,
		target:      cmd.TargetTerritory,
	}, nil
}

func (h *StartMissionHandler) prepareHeist(cmd *StartHeistCommand) (creation, error) {
	if _, ok := h.catalog.Territory(cmd.TargetTerritory); !ok {
		return creation{}, shared.NewValidationError("targetTerritory", fmt.Sprintf("unknown territory %q", cmd.TargetTerritory))
	}
	return creation{
		missionType: mission.TypeHeist,
		cartelID:    cmd.CartelID,
		npcIDs:      cmd.NPCIDs,
		target:      cmd.TargetTerritory,
	}, nil
}

func (h *StartMissionHandler) requireControlled(ctx context.Context, cartelID int, territoryID string) error {
	t, err := h.territoryRepo.FindByID(ctx, territoryID)
	if err != nil {
		return err
	}
	if !t.ControlledByCartel(cartelID) {
		return shared.NewPreconditionError("territory %s is not controlled by cartel %d", territoryID, cartelID)
	}
	return nil
}

// create runs the shared tail of every start command: crew validation,
// resource debits, atomic NPC reservation and persistence.
func (h *StartMissionHandler) create(ctx context.Context, cr creation) (common.Response, error) {
	def, ok := h.catalog.Mission(string(cr.missionType))
	if !ok {
		return nil, shared.NewValidationError("type", fmt.Sprintf("unknown mission type %q", cr.missionType))
	}

	c, err := h.cartelRepo.FindByID(ctx, cr.cartelID)
	if err != nil {
		return nil, err
	}
	now := h.clock.Now()
	if err := c.RejectIfFrozen(now); err != nil {
		return nil, err
	}

	crew, err := h.validateCrew(ctx, cr, def)
	if err != nil {
		return nil, err
	}

	if cr.debit != nil {
		if err := cr.debit(c); err != nil {
			return nil, err
		}
	}

	missionID := uuid.New().String()
	duration := time.Duration(float64(def.BaseDuration) * mission.DurationModifier(crew))
	m := &mission.Mission{
		ID:              missionID,
		CartelID:        cr.cartelID,
		Type:            cr.missionType,
		NPCIDs:          cr.npcIDs,
		TargetTerritory: cr.target,
		SourceTerritory: cr.source,
		TargetCartelID:  cr.targetCartel,
		DrugID:          cr.drugID,
		Quantity:        cr.quantity,
		Bribe:           cr.bribe,
		StartedAt:       now,
		CompletesAt:     now.Add(duration),
		Status:          mission.StatusActive,
	}

	// reserve the crew with conditional flips; roll back on a lost race
	reserved := make([]int, 0, len(cr.npcIDs))
	for _, id := range cr.npcIDs {
		if err := h.npcRepo.Reserve(ctx, id, missionID); err != nil {
			h.releaseReserved(ctx, reserved)
			return nil, err
		}
		reserved = append(reserved, id)
	}

	if err := h.missionRepo.Add(ctx, m); err != nil {
		h.releaseReserved(ctx, reserved)
		return nil, err
	}
	if err := h.cartelRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	if cr.missionType == mission.TypeSeizure {
		if t, terr := h.territoryRepo.FindByID(ctx, cr.target); terr == nil {
			t.Contest(cr.cartelID, missionID)
			_ = h.territoryRepo.Save(ctx, t)
		}
	}

	return &StartMissionResponse{Mission: m, CompletesAt: m.CompletesAt}, nil
}

func (h *StartMissionHandler) validateCrew(ctx context.Context, cr creation, def catalog.MissionDef) ([]*npc.NPC, error) {
	if len(cr.npcIDs) < def.MinCrew || len(cr.npcIDs) > def.MaxCrew {
		return nil, shared.NewPreconditionError("%s needs %d-%d crew, got %d", def.Type, def.MinCrew, def.MaxCrew, len(cr.npcIDs))
	}
	seen := make(map[int]bool, len(cr.npcIDs))
	crew := make([]*npc.NPC, 0, len(cr.npcIDs))
	roleCount := 0
	for _, id := range cr.npcIDs {
		if seen[id] {
			return nil, shared.NewValidationError("npcIds", fmt.Sprintf("npc %d listed twice", id))
		}
		seen[id] = true
		n, err := h.npcRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if n.CartelID != cr.cartelID {
			return nil, shared.NewValidationError("npcIds", fmt.Sprintf("npc %d belongs to another cartel", id))
		}
		if n.Status != npc.StatusIdle {
			return nil, shared.NewContentionError("npc %d is %s, not idle", id, n.Status)
		}
		if n.Role == def.CrewRole {
			roleCount++
		}
		crew = append(crew, n)
	}
	if roleCount < def.MinCrew {
		return nil, shared.NewPreconditionError("%s needs at least %d idle %ss, got %d", def.Type, def.MinCrew, def.CrewRole, roleCount)
	}
	return crew, nil
}

func (h *StartMissionHandler) releaseReserved(ctx context.Context, ids []int) {
	for _, id := range ids {
		n, err := h.npcRepo.FindByID(ctx, id)
		if err != nil {
			continue
		}
		n.Release()
		_ = h.npcRepo.Save(ctx, n)
	}
}
