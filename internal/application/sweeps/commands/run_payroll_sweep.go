package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/npc"
)

// RunPayrollSweepCommand pays every living roster member their hourly
// wage. Wages a cartel cannot cover accrue as back pay and cost loyalty.
type RunPayrollSweepCommand struct{}

// RunPayrollSweepResponse summarizes one payroll pass
type RunPayrollSweepResponse struct {
	Cartels int
	Paid    int64
	Unpaid  int // members who went without pay
}

// RunPayrollSweepHandler handles the hourly payroll sweep
type RunPayrollSweepHandler struct {
	cartelRepo cartel.Repository
	npcRepo    npc.Repository
	catalog    *catalog.Catalog
}

// NewRunPayrollSweepHandler creates a new payroll sweep handler
func NewRunPayrollSweepHandler(
	cartelRepo cartel.Repository,
	npcRepo npc.Repository,
	cat *catalog.Catalog,
) *RunPayrollSweepHandler {
	return &RunPayrollSweepHandler{
		cartelRepo: cartelRepo,
		npcRepo:    npcRepo,
		catalog:    cat,
	}
}

// Handle processes the RunPayrollSweepCommand
func (h *RunPayrollSweepHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	_, ok := request.(*RunPayrollSweepCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	log := common.LoggerFromContext(ctx)
	cons := h.catalog.Constants

	cartels, err := h.cartelRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cartels: %w", err)
	}

	resp := &RunPayrollSweepResponse{Cartels: len(cartels)}
	for _, c := range cartels {
		npcs, err := h.npcRepo.ListByCartel(ctx, c.ID)
		if err != nil {
			log.Log("ERROR", "failed to list payroll roster", map[string]interface{}{
				"cartel_id": c.ID, "error": err.Error(),
			})
			continue
		}

		// wages are batched: one debit covers the whole roster, or
		// nobody gets paid and every wage rolls over
		type wage struct {
			n    *npc.NPC
			owed int64
		}
		var wages []wage
		var total int64
		for _, n := range npcs {
			if !n.Alive() {
				continue
			}
			role, ok := h.catalog.Role(n.Role)
			if !ok {
				continue
			}
			owed := npc.Salary(role, n.Level) + n.SalaryOwed
			wages = append(wages, wage{n: n, owed: owed})
			total += owed
		}
		if len(wages) == 0 {
			continue
		}

		if err := c.Debit(total); err != nil {
			for _, w := range wages {
				w.n.SalaryOwed = w.owed
				w.n.AdjustLoyalty(-cons.SalaryLoyaltyDecay)
				resp.Unpaid++
			}
		} else {
			for _, w := range wages {
				w.n.SalaryOwed = 0
			}
			resp.Paid += total
		}
		for _, w := range wages {
			if err := h.npcRepo.Save(ctx, w.n); err != nil {
				log.Log("ERROR", "failed to save payroll npc", map[string]interface{}{
					"npc_id": w.n.ID, "error": err.Error(),
				})
			}
		}
		if err := h.cartelRepo.Save(ctx, c); err != nil {
			log.Log("ERROR", "failed to save cartel after payroll", map[string]interface{}{
				"cartel_id": c.ID, "error": err.Error(),
			})
		}
	}
	return resp, nil
}
