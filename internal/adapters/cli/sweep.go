package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	missionCmd "github.com/andrescamacho/cartel-go/internal/application/mission/commands"
	missionServices "github.com/andrescamacho/cartel-go/internal/application/mission/services"
	sweepCmd "github.com/andrescamacho/cartel-go/internal/application/sweeps/commands"
)

// NewSweepCommand creates the sweep command for manual tick runs.
// Normally the daemon drives these on its tickers; running them by hand
// is useful in development and in tests against a scratch database.
func NewSweepCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run scheduler sweeps by hand",
		Long: `Run one scheduler pass without the daemon.

Examples:
  cartelctl sweep missions
  cartelctl sweep hourly`,
	}

	cmd.AddCommand(newSweepMissionsCommand())
	cmd.AddCommand(newSweepHourlyCommand())

	return cmd
}

func newSweepMissionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "missions",
		Short: "Resolve every due mission",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			resolver := missionServices.NewResolver(
				e.cartelRepo, e.npcRepo, e.territoryRepo, e.missionRepo, e.cat, e.clock, e.rng)
			handler := missionCmd.NewRunMissionSweepHandler(
				e.missionRepo, e.npcRepo, resolver, e.clock, rate.NewLimiter(rate.Inf, 1))

			result, err := handler.Handle(context.Background(), &missionCmd.RunMissionSweepCommand{})
			if err != nil {
				return err
			}
			resp := result.(*missionCmd.RunMissionSweepResponse)
			fmt.Printf("Due %d, resolved %d, skipped %d, errored %d\n",
				resp.Due, resp.Resolved, resp.Skipped, resp.Errored)
			return nil
		},
	}
}

func newSweepHourlyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hourly",
		Short: "Run the hourly heat, payroll, roster and market sweeps",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := context.Background()

			heat := sweepCmd.NewRunHeatSweepHandler(e.cartelRepo, e.npcRepo, e.territoryRepo, e.cat, e.clock, e.rng)
			if result, err := heat.Handle(ctx, &sweepCmd.RunHeatSweepCommand{}); err != nil {
				return err
			} else {
				resp := result.(*sweepCmd.RunHeatSweepResponse)
				fmt.Printf("Heat sweep: %d cartels, %d busts, %d arrests\n", resp.Cartels, resp.Busts, resp.Arrests)
			}

			payroll := sweepCmd.NewRunPayrollSweepHandler(e.cartelRepo, e.npcRepo, e.cat)
			if result, err := payroll.Handle(ctx, &sweepCmd.RunPayrollSweepCommand{}); err != nil {
				return err
			} else {
				resp := result.(*sweepCmd.RunPayrollSweepResponse)
				fmt.Printf("Payroll: %s paid, %d unpaid\n", formatMoney(resp.Paid), resp.Unpaid)
			}

			roster := sweepCmd.NewRunRosterSweepHandler(e.cartelRepo, e.npcRepo, e.cat, e.clock, e.rng)
			if result, err := roster.Handle(ctx, &sweepCmd.RunRosterSweepCommand{}); err != nil {
				return err
			} else {
				resp := result.(*sweepCmd.RunRosterSweepResponse)
				fmt.Printf("Roster: %d recovered, %d betrayals\n", resp.Recovered, resp.Betrayals)
			}

			market := sweepCmd.NewRunMarketSweepHandler(e.territoryRepo, e.cat)
			if result, err := market.Handle(ctx, &sweepCmd.RunMarketSweepCommand{}); err != nil {
				return err
			} else {
				resp := result.(*sweepCmd.RunMarketSweepResponse)
				fmt.Printf("Market: %d territories adjusted\n", resp.Territories)
			}
			return nil
		},
	}
}
