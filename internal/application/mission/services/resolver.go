package services

import (
	"context"
	"fmt"
	"math"

	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/mission"
	"github.com/andrescamacho/cartel-go/internal/domain/npc"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
	"github.com/andrescamacho/cartel-go/internal/domain/territory"
)

// Casualty probabilities; independent per-NPC rolls
const (
	winDeathChance    = 0.08
	winInjuryChance   = 0.20
	lossDeathChance   = 0.30
	arrestRollDelivery = 0.20
	arrestRollSmuggle  = 0.30
	arrestRollHeist    = 0.25
)

// BribeCap bounds how much of a corruption bribe counts toward success
const BribeCap int64 = 50000

// Resolver applies the bespoke per-type outcome of a due mission. It
// mutates cartel, NPC and territory state and moves the mission to a
// terminal status. The caller owns the exactly-once claim.
type Resolver struct {
	cartelRepo    cartel.Repository
	npcRepo       npc.Repository
	territoryRepo territory.Repository
	missionRepo   mission.Repository
	catalog       *catalog.Catalog
	clock         shared.Clock
	rng           shared.Rand
}

// NewResolver creates a new mission resolver
func NewResolver(
	cartelRepo cartel.Repository,
	npcRepo npc.Repository,
	territoryRepo territory.Repository,
	missionRepo mission.Repository,
	cat *catalog.Catalog,
	clock shared.Clock,
	rng shared.Rand,
) *Resolver {
	return &Resolver{
		cartelRepo:    cartelRepo,
		npcRepo:       npcRepo,
		territoryRepo: territoryRepo,
		missionRepo:   missionRepo,
		catalog:       cat,
		clock:         clock,
		rng:           rng,
	}
}

// Resolve runs one claimed mission to its terminal state. The mission
// must already be in resolving status.
func (r *Resolver) Resolve(ctx context.Context, m *mission.Mission) error {
	c, err := r.cartelRepo.FindByID(ctx, m.CartelID)
	if err != nil {
		return err
	}
	crew, err := r.loadCrew(ctx, m)
	if err != nil {
		return err
	}

	var outcome *mission.Outcome
	switch m.Type {
	case mission.TypeDelivery:
		outcome = r.resolveDelivery(ctx, m, c, crew, false)
	case mission.TypeSmuggling:
		outcome = r.resolveDelivery(ctx, m, c, crew, true)
	case mission.TypeRaid:
		outcome, err = r.resolveRaid(ctx, m, c, crew)
	case mission.TypeSeizure:
		outcome, err = r.resolveSeizure(ctx, m, c, crew)
	case mission.TypeSabotage:
		outcome, err = r.resolveSabotage(ctx, m, c, crew)
	case mission.TypeAssassination:
		outcome, err = r.resolveAssassination(ctx, m, c, crew)
	case mission.TypeCorruption:
		outcome, err = r.resolveCorruption(ctx, m, c, crew)
	case mission.TypeIntimidation:
		outcome = r.resolveIntimidation(m, c, crew)
	case mission.TypeHeist:
		outcome = r.resolveHeist(m, c, crew)
	default:
		err = shared.NewValidationError("type", fmt.Sprintf("unknown mission type %q", m.Type))
	}
	if err != nil {
		return err
	}

	r.applyEnvelope(c, outcome)
	r.settleCrew(ctx, crew, outcome)

	if err := m.Complete(outcome); err != nil {
		return err
	}
	if err := r.cartelRepo.Save(ctx, c); err != nil {
		return err
	}
	return r.missionRepo.Save(ctx, m)
}

// applyEnvelope applies the common outcome fields to the owning cartel
func (r *Resolver) applyEnvelope(c *cartel.Cartel, o *mission.Outcome) {
	if o.MoneyDelta > 0 {
		_ = c.Credit(o.MoneyDelta)
	} else if o.MoneyDelta < 0 {
		loss := -o.MoneyDelta
		if loss > c.Treasury {
			loss = c.Treasury
		}
		_ = c.Debit(loss)
	}
	c.RaiseHeat(o.HeatDelta)
	c.GainReputation(o.RepDelta, r.catalog)
}

// settleCrew applies casualties, xp and loyalty, and frees survivors
func (r *Resolver) settleCrew(ctx context.Context, crew []*npc.NPC, o *mission.Outcome) {
	fates := make(map[int]string, len(o.Casualties))
	for _, cas := range o.Casualties {
		fates[cas.NPCID] = cas.Fate
	}
	cons := r.catalog.Constants
	for _, n := range crew {
		switch fates[n.ID] {
		case "killed":
			n.Kill()
		case "injured":
			n.Injure(r.clock.Now().Add(cons.InjuryRecovery))
		case "arrested":
			n.Arrest()
		default:
			n.Release()
		}
		if n.Alive() {
			if o.Success {
				n.GrantXP(25, cons.XPPerLevel, cons.MaxNPCLevel, r.rng)
				n.AdjustLoyalty(5)
			} else {
				n.GrantXP(10, cons.XPPerLevel, cons.MaxNPCLevel, r.rng)
				n.AdjustLoyalty(-3)
			}
		}
		_ = r.npcRepo.Save(ctx, n)
	}
}

func (r *Resolver) loadCrew(ctx context.Context, m *mission.Mission) ([]*npc.NPC, error) {
	crew := make([]*npc.NPC, 0, len(m.NPCIDs))
	for _, id := range m.NPCIDs {
		n, err := r.npcRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		crew = append(crew, n)
	}
	return crew, nil
}

// rollCasualties runs independent per-NPC rolls; death wins over injury,
// injury over arrest
func (r *Resolver) rollCasualties(crew []*npc.NPC, deathP, injuryP, arrestP float64) []mission.Casualty {
	var out []mission.Casualty
	for _, n := range crew {
		switch {
		case deathP > 0 && r.rng.Float64() < deathP:
			out = append(out, mission.Casualty{NPCID: n.ID, Fate: "killed"})
		case injuryP > 0 && r.rng.Float64() < injuryP:
			out = append(out, mission.Casualty{NPCID: n.ID, Fate: "injured"})
		case arrestP > 0 && r.rng.Float64() < arrestP:
			out = append(out, mission.Casualty{NPCID: n.ID, Fate: "arrested"})
		}
	}
	return out
}

// resolveDelivery covers delivery and smuggling: an intercept roll
// against the destination's law level, discounted by crew stealth.
func (r *Resolver) resolveDelivery(ctx context.Context, m *mission.Mission, c *cartel.Cartel, crew []*npc.NPC, smuggling bool) *mission.Outcome {
	o := &mission.Outcome{}
	terrDef, _ := r.catalog.Territory(m.TargetTerritory)
	drug, _ := r.catalog.Drug(m.DrugID)

	demandMult := 1.0
	if t, err := r.territoryRepo.FindByID(ctx, m.TargetTerritory); err == nil {
		demandMult = t.DemandMult
	}

	avgStealth := mission.AvgStat(crew, func(s npc.Stats) int { return s.Stealth })
	intercept := 0.05*float64(terrDef.LawLevel) - 0.002*avgStealth
	if intercept < 0.02 {
		intercept = 0.02
	}
	if intercept > 0.9 {
		intercept = 0.9
	}

	if r.rng.Float64() < intercept {
		o.Success = false
		o.HeatDelta = 10
		arrest := arrestRollDelivery
		if smuggling {
			arrest = arrestRollSmuggle
		}
		o.Casualties = r.rollCasualties(crew, 0, 0, arrest)
		o.Logf("shipment of %d %s intercepted at %s", m.Quantity, drug.ID, terrDef.Name)
		return o
	}

	revenue := int64(math.Floor(float64(drug.BasePrice) * float64(m.Quantity) * terrDef.Demand * demandMult))
	o.HeatDelta = 2
	o.RepDelta = 10
	if smuggling {
		// cross-border premium, half the base price per unit in cash
		revenue += drug.BasePrice * int64(m.Quantity) / 2
		o.HeatDelta = 4
		o.RepDelta = 15
	}
	o.Success = true
	o.MoneyDelta = revenue
	o.ProductDelta = -m.Quantity
	o.Logf("delivered %d %s to %s for $%d", m.Quantity, drug.ID, terrDef.Name, revenue)
	return o
}

// rivalDefense sums a rival's idle roster into defense power with the
// flat defender multiplier. An empty roster still defends at a floor.
func (r *Resolver) rivalDefense(ctx context.Context, rivalID int, onlyTerritory string) (float64, error) {
	npcs, err := r.npcRepo.ListByCartel(ctx, rivalID)
	if err != nil {
		return 0, err
	}
	var defenders []*npc.NPC
	for _, n := range npcs {
		if n.Status != npc.StatusIdle {
			continue
		}
		if onlyTerritory != "" && n.AssignedTo != onlyTerritory {
			continue
		}
		defenders = append(defenders, n)
	}
	power := mission.CrewPower(defenders)
	if power < 50 {
		power = 50
	}
	return power, nil
}

func (r *Resolver) resolveRaid(ctx context.Context, m *mission.Mission, c *cartel.Cartel, crew []*npc.NPC) (*mission.Outcome, error) {
	o := &mission.Outcome{}
	if m.TargetCartelID == nil {
		// own-territory show of force: no contest, cools local heat
		o.Success = true
		o.HeatDelta = -5
		o.RepDelta = 5
		o.Logf("crew swept %s; the street stays quiet", m.TargetTerritory)
		return o, nil
	}

	rival, err := r.cartelRepo.FindByID(ctx, *m.TargetCartelID)
	if err != nil {
		return nil, err
	}
	defense, err := r.rivalDefense(ctx, rival.ID, "")
	if err != nil {
		return nil, err
	}
	o.AttackPower = mission.CrewPower(crew)
	o.DefensePower = math.Floor(defense * mission.DefenderMultiplier)

	if o.AttackPower > o.DefensePower {
		stolen := int64(math.Floor(float64(rival.Treasury) * 0.15))
		_ = rival.Debit(stolen)
		if err := r.cartelRepo.Save(ctx, rival); err != nil {
			return nil, err
		}
		o.Success = true
		o.MoneyDelta = stolen
		o.HeatDelta = 8
		o.RepDelta = 20
		o.Casualties = r.rollCasualties(crew, winDeathChance, winInjuryChance, 0)
		o.Logf("raid on %s succeeded: $%d seized (%.0f vs %.0f)", rival.Name, stolen, o.AttackPower, o.DefensePower)
	} else {
		o.Success = false
		o.HeatDelta = 5
		o.Casualties = r.rollCasualties(crew, lossDeathChance, 0, 0)
		o.Logf("raid on %s repelled (%.0f vs %.0f)", rival.Name, o.AttackPower, o.DefensePower)
	}
	return o, nil
}

func (r *Resolver) resolveSeizure(ctx context.Context, m *mission.Mission, c *cartel.Cartel, crew []*npc.NPC) (*mission.Outcome, error) {
	o := &mission.Outcome{}
	t, err := r.territoryRepo.FindByID(ctx, m.TargetTerritory)
	if err != nil {
		return nil, err
	}
	if t.ControlledBy == nil || *t.ControlledBy == c.ID {
		// controller changed since creation; the takeover fizzles
		t.ClearContest()
		_ = r.territoryRepo.Save(ctx, t)
		o.Success = false
		o.Logf("seizure of %s aborted: territory changed hands", t.ID)
		return o, nil
	}

	rivalID := *t.ControlledBy
	crewDefense, err := r.rivalDefense(ctx, rivalID, t.ID)
	if err != nil {
		return nil, err
	}
	fortBonus := 0.0
	if def, ok := r.catalog.Upgrade("fortification"); ok {
		fortBonus = float64(t.UpgradeLevel("fortification")) * def.Effect
	}
	raw := crewDefense + float64(t.ControlPower*mission.ControlPowerWeight) + fortBonus
	o.AttackPower = mission.CrewPower(crew)
	o.DefensePower = math.Floor(raw * mission.DefenderMultiplier)

	if o.AttackPower > o.DefensePower {
		t.Seize(c.ID, r.catalog.Constants.ClaimControlPower)
		o.Success = true
		o.HeatDelta = 10
		o.RepDelta = 100
		o.Casualties = r.rollCasualties(crew, winDeathChance, winInjuryChance, 0)
		o.Logf("seized %s from cartel %d (%.0f vs %.0f)", t.ID, rivalID, o.AttackPower, o.DefensePower)
	} else {
		t.ClearContest()
		o.Success = false
		o.HeatDelta = 8
		o.Casualties = r.rollCasualties(crew, lossDeathChance, 0, 0)
		o.Logf("takeover of %s failed (%.0f vs %.0f)", t.ID, o.AttackPower, o.DefensePower)
	}
	if err := r.territoryRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *Resolver) resolveSabotage(ctx context.Context, m *mission.Mission, c *cartel.Cartel, crew []*npc.NPC) (*mission.Outcome, error) {
	o := &mission.Outcome{}
	if m.TargetCartelID == nil {
		// own-territory variant: scrub the evidence
		o.Success = true
		o.HeatDelta = -8
		o.RepDelta = 3
		o.Logf("cleanup in %s complete", m.TargetTerritory)
		return o, nil
	}

	t, err := r.territoryRepo.FindByID(ctx, m.TargetTerritory)
	if err != nil {
		return nil, err
	}
	defense, err := r.rivalDefense(ctx, *m.TargetCartelID, t.ID)
	if err != nil {
		return nil, err
	}
	o.AttackPower = mission.CrewPower(crew)
	o.DefensePower = math.Floor(defense * mission.DefenderMultiplier)

	if o.AttackPower > o.DefensePower {
		t.ControlPower -= 20
		if t.ControlPower < 0 {
			t.ControlPower = 0
		}
		if err := r.territoryRepo.Save(ctx, t); err != nil {
			return nil, err
		}
		o.Success = true
		o.HeatDelta = 3
		o.RepDelta = 15
		o.Casualties = r.rollCasualties(crew, 0, winInjuryChance, 0)
		o.Logf("sabotage in %s weakened rival grip (%.0f vs %.0f)", t.ID, o.AttackPower, o.DefensePower)
	} else {
		o.Success = false
		o.HeatDelta = 10
		o.Casualties = r.rollCasualties(crew, lossDeathChance, 0, 0)
		o.Logf("sabotage in %s went loud (%.0f vs %.0f)", t.ID, o.AttackPower, o.DefensePower)
	}
	return o, nil
}

func (r *Resolver) resolveAssassination(ctx context.Context, m *mission.Mission, c *cartel.Cartel, crew []*npc.NPC) (*mission.Outcome, error) {
	o := &mission.Outcome{}
	if m.TargetCartelID == nil {
		// informant hit inside own territory: quiet, heat-reducing
		avgStealth := mission.AvgStat(crew, func(s npc.Stats) int { return s.Stealth })
		chance := 0.5 + avgStealth/200
		if chance > 0.95 {
			chance = 0.95
		}
		if r.rng.Float64() < chance {
			o.Success = true
			o.HeatDelta = -12
			o.RepDelta = 5
			o.Logf("informant in %s silenced", m.TargetTerritory)
		} else {
			o.Success = false
			o.HeatDelta = 6
			o.Logf("informant in %s slipped away", m.TargetTerritory)
		}
		return o, nil
	}

	rival, err := r.cartelRepo.FindByID(ctx, *m.TargetCartelID)
	if err != nil {
		return nil, err
	}
	defense, err := r.rivalDefense(ctx, rival.ID, "")
	if err != nil {
		return nil, err
	}
	o.AttackPower = mission.CrewPower(crew)
	o.DefensePower = math.Floor(defense * mission.DefenderMultiplier)

	if o.AttackPower > o.DefensePower {
		victim, err := r.pickVictim(ctx, rival.ID)
		if err != nil {
			return nil, err
		}
		o.Success = true
		o.HeatDelta = 10
		o.RepDelta = 25
		o.Casualties = r.rollCasualties(crew, winDeathChance, winInjuryChance, 0)
		if victim != nil {
			victim.Kill()
			if err := r.npcRepo.Save(ctx, victim); err != nil {
				return nil, err
			}
			o.Logf("hit on %s (%s of cartel %d) carried out", victim.Name, victim.Role, rival.ID)
		} else {
			o.Logf("hit squad found no target in cartel %d", rival.ID)
		}
	} else {
		o.Success = false
		o.HeatDelta = 15
		o.Casualties = r.rollCasualties(crew, lossDeathChance, 0, 0)
		o.Logf("hit on cartel %d went wrong (%.0f vs %.0f)", rival.ID, o.AttackPower, o.DefensePower)
	}
	return o, nil
}

// pickVictim chooses a random living member of the rival roster
func (r *Resolver) pickVictim(ctx context.Context, rivalID int) (*npc.NPC, error) {
	npcs, err := r.npcRepo.ListByCartel(ctx, rivalID)
	if err != nil {
		return nil, err
	}
	var alive []*npc.NPC
	for _, n := range npcs {
		if n.Alive() {
			alive = append(alive, n)
		}
	}
	if len(alive) == 0 {
		return nil, nil
	}
	return alive[r.rng.Intn(len(alive))], nil
}

func (r *Resolver) resolveCorruption(ctx context.Context, m *mission.Mission, c *cartel.Cartel, crew []*npc.NPC) (*mission.Outcome, error) {
	o := &mission.Outcome{}
	bribe := m.Bribe
	if bribe > BribeCap {
		bribe = BribeCap
	}
	avgSocial := mission.AvgStat(crew, func(s npc.Stats) int { return s.Intelligence + s.Charisma })
	chance := 0.5*float64(bribe)/float64(BribeCap) + 0.5*avgSocial/200
	if chance > 0.9 {
		chance = 0.9
	}

	if r.rng.Float64() < chance {
		o.Success = true
		o.HeatDelta = -20
		o.RepDelta = 10
		o.Logf("officials bought for $%d; the files go missing", m.Bribe)
		if m.TargetCartelID != nil {
			rival, err := r.cartelRepo.FindByID(ctx, *m.TargetCartelID)
			if err != nil {
				return nil, err
			}
			rival.RaiseHeat(10)
			if err := r.cartelRepo.Save(ctx, rival); err != nil {
				return nil, err
			}
			o.Logf("anonymous tip filed against %s", rival.Name)
		}
	} else {
		// the bribe is gone either way
		o.Success = false
		o.HeatDelta = 10
		o.Logf("bribe of $%d refused; questions are being asked", m.Bribe)
	}
	return o, nil
}

func (r *Resolver) resolveIntimidation(m *mission.Mission, c *cartel.Cartel, crew []*npc.NPC) *mission.Outcome {
	o := &mission.Outcome{}
	terrDef, _ := r.catalog.Territory(m.TargetTerritory)

	chance := 0.9 - 0.08*float64(terrDef.LawLevel)
	if chance < 0.1 {
		chance = 0.1
	}

	if r.rng.Float64() < chance {
		muscle := mission.AvgStat(crew, func(s npc.Stats) int { return s.Combat })
		presence := mission.AvgStat(crew, func(s npc.Stats) int { return s.Charisma })
		payout := int64(math.Floor((muscle*0.6 + presence*0.4) * terrDef.Demand * 40))
		o.Success = true
		o.MoneyDelta = payout
		o.HeatDelta = 4
		o.RepDelta = 10
		o.Logf("businesses in %s paid $%d for protection", terrDef.Name, payout)
	} else {
		o.Success = false
		o.HeatDelta = 6
		o.Casualties = r.rollCasualties(crew, 0, 0.10, 0)
		o.Logf("shopkeepers in %s called the police", terrDef.Name)
	}
	return o
}

func (r *Resolver) resolveHeist(m *mission.Mission, c *cartel.Cartel, crew []*npc.NPC) *mission.Outcome {
	o := &mission.Outcome{}
	terrDef, _ := r.catalog.Territory(m.TargetTerritory)

	avgStealth := mission.AvgStat(crew, func(s npc.Stats) int { return s.Stealth })
	avgInt := mission.AvgStat(crew, func(s npc.Stats) int { return s.Intelligence })
	chance := (avgStealth*0.6+avgInt*0.4)/100 - 0.05*float64(terrDef.LawLevel) + 0.1
	if chance < 0.05 {
		chance = 0.05
	}
	if chance > 0.95 {
		chance = 0.95
	}

	if r.rng.Float64() < chance {
		haul := int64(20000+r.rng.Intn(30001)) * int64(len(crew)) / 2
		o.Success = true
		o.MoneyDelta = haul
		o.HeatDelta = 12
		o.RepDelta = 20
		o.Logf("heist in %s cleared $%d", terrDef.Name, haul)
	} else {
		o.Success = false
		o.HeatDelta = 15
		o.Casualties = r.rollCasualties(crew, 0, 0, arrestRollHeist)
		o.Logf("heist in %s tripped the alarm", terrDef.Name)
	}
	return o
}
