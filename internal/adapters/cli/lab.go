package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/cartel-go/internal/application/production/commands"
	"github.com/andrescamacho/cartel-go/internal/application/production/queries"
)

// NewLabCommand creates the lab command with subcommands
func NewLabCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lab",
		Short: "Build labs and run production",
		Long: `Manage the cartel's production facilities.

Lab types: grow_house, meth_lab, coke_kitchen, heroin_refinery

Examples:
  cartelctl lab build --player-id 1 --type coke_kitchen --territory docklands
  cartelctl lab start --player-id 1 --lab 1 --drug cocaine
  cartelctl lab collect --player-id 1 --lab 1
  cartelctl lab status --player-id 1
  cartelctl lab upgrade --player-id 1 --lab 1
  cartelctl lab destroy --player-id 1 --lab 1`,
	}

	cmd.AddCommand(newLabBuildCommand())
	cmd.AddCommand(newLabUpgradeCommand())
	cmd.AddCommand(newLabDestroyCommand())
	cmd.AddCommand(newLabStartCommand())
	cmd.AddCommand(newLabCollectCommand())
	cmd.AddCommand(newLabStatusCommand())

	return cmd
}

func newLabBuildCommand() *cobra.Command {
	var (
		labType     string
		territoryID string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a new lab in a controlled territory",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := context.Background()
			id, err := e.cartelID(ctx)
			if err != nil {
				return err
			}
			handler := commands.NewBuildLabHandler(e.cartelRepo, e.territoryRepo, e.cat, e.clock)
			result, err := handler.Handle(ctx, &commands.BuildLabCommand{
				CartelID: id, LabType: labType, TerritoryID: territoryID,
			})
			if err != nil {
				return err
			}
			lab := result.(*commands.BuildLabResponse).Lab
			fmt.Printf("Lab %d (%s) built in %s\n", lab.ID, lab.LabType, lab.TerritoryID)
			return nil
		},
	}

	cmd.Flags().StringVar(&labType, "type", "", "Lab type [required]")
	cmd.Flags().StringVar(&territoryID, "territory", "", "Territory id [required]")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("territory")
	return cmd
}

func newLabUpgradeCommand() *cobra.Command {
	var labID int

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade a lab one level",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := context.Background()
			id, err := e.cartelID(ctx)
			if err != nil {
				return err
			}
			handler := commands.NewLabRosterHandler(e.cartelRepo, e.cat, e.clock)
			result, err := handler.Handle(ctx, &commands.UpgradeLabCommand{CartelID: id, LabID: labID})
			if err != nil {
				return err
			}
			resp := result.(*commands.UpgradeLabResponse)
			fmt.Printf("Lab %d upgraded to level %d for %s\n", resp.Lab.ID, resp.Lab.Level, formatMoney(resp.Cost))
			return nil
		},
	}

	cmd.Flags().IntVar(&labID, "lab", 0, "Lab id [required]")
	cmd.MarkFlagRequired("lab")
	return cmd
}

func newLabDestroyCommand() *cobra.Command {
	var labID int

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Demolish a lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := context.Background()
			id, err := e.cartelID(ctx)
			if err != nil {
				return err
			}
			handler := commands.NewLabRosterHandler(e.cartelRepo, e.cat, e.clock)
			if _, err := handler.Handle(ctx, &commands.DestroyLabCommand{CartelID: id, LabID: labID}); err != nil {
				return err
			}
			fmt.Printf("Lab %d demolished\n", labID)
			return nil
		},
	}

	cmd.Flags().IntVar(&labID, "lab", 0, "Lab id [required]")
	cmd.MarkFlagRequired("lab")
	return cmd
}

func newLabStartCommand() *cobra.Command {
	var (
		labID  int
		drugID string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start cooking a batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := context.Background()
			id, err := e.cartelID(ctx)
			if err != nil {
				return err
			}
			handler := commands.NewStartProductionHandler(e.cartelRepo, e.cat, e.clock)
			result, err := handler.Handle(ctx, &commands.StartProductionCommand{
				CartelID: id, LabID: labID, DrugID: drugID,
			})
			if err != nil {
				return err
			}
			resp := result.(*commands.StartProductionResponse)
			fmt.Printf("Batch of %s cooking in lab %d, ready at %s\n",
				drugID, labID, resp.ReadyAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	cmd.Flags().IntVar(&labID, "lab", 0, "Lab id [required]")
	cmd.Flags().StringVar(&drugID, "drug", "", "Drug id [required]")
	cmd.MarkFlagRequired("lab")
	cmd.MarkFlagRequired("drug")
	return cmd
}

func newLabCollectCommand() *cobra.Command {
	var labID int

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect a finished batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := context.Background()
			id, err := e.cartelID(ctx)
			if err != nil {
				return err
			}
			handler := commands.NewCollectBatchHandler(e.cartelRepo, e.cat, e.clock)
			result, err := handler.Handle(ctx, &commands.CollectBatchCommand{CartelID: id, LabID: labID})
			if err != nil {
				return err
			}
			resp := result.(*commands.CollectBatchResponse)
			fmt.Printf("Collected %d units of %s (quality %d)\n", resp.Quantity, resp.DrugID, resp.Quality)
			return nil
		},
	}

	cmd.Flags().IntVar(&labID, "lab", 0, "Lab id [required]")
	cmd.MarkFlagRequired("lab")
	return cmd
}

func newLabStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show every lab and its production state",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := context.Background()
			id, err := e.cartelID(ctx)
			if err != nil {
				return err
			}
			handler := queries.NewGetLabStatusHandler(e.cartelRepo, e.cat, e.clock)
			result, err := handler.Handle(ctx, &queries.GetLabStatusQuery{CartelID: id})
			if err != nil {
				return err
			}
			response := result.(*queries.GetLabStatusResponse)

			if len(response.Labs) == 0 {
				fmt.Println("No labs built")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tType\tTerritory\tLvl\tProducing\tRemaining")
			for _, s := range response.Labs {
				producing := "-"
				remaining := "-"
				if s.Producing {
					producing = s.DrugID
					if s.TimeRemaining > 0 {
						remaining = s.TimeRemaining.Round(time.Second).String()
					} else {
						remaining = "ready"
					}
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
					s.Lab.ID, s.Lab.LabType, s.Lab.TerritoryID, s.Lab.Level, producing, remaining)
			}
			return w.Flush()
		},
	}
}
