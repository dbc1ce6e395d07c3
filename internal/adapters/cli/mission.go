package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/application/mission/commands"
	"github.com/andrescamacho/cartel-go/internal/application/mission/queries"
)

// NewMissionCommand creates the mission command with subcommands
func NewMissionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mission",
		Short: "Send crews on missions",
		Long: `Start asynchronous missions and track them. A started mission
reserves its crew until the daemon's sweep resolves it.

Types: delivery, smuggling, raid, seizure, sabotage, assassination,
corruption, intimidation, heist

Examples:
  cartelctl mission start delivery --player-id 1 --crew 2,3 --territory uptown --drug cocaine --quantity 10
  cartelctl mission start raid --player-id 1 --crew 3,4,5 --target-cartel 2
  cartelctl mission start corruption --player-id 1 --crew 6 --bribe 25000
  cartelctl mission list --player-id 1 --history 10`,
	}

	cmd.AddCommand(newMissionStartCommand())
	cmd.AddCommand(newMissionListCommand())

	return cmd
}

func newMissionStartCommand() *cobra.Command {
	var (
		crew         string
		territoryID  string
		source       string
		drugID       string
		quantity     int
		targetCartel int
		bribe        int64
	)

	cmd := &cobra.Command{
		Use:   "start <type>",
		Short: "Start a mission",
		Args:  cobra.ExactArgs(1),
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
			npcIDs, err := parseCrew(crew)
			if err != nil {
				return err
			}

			var rival *int
			if targetCartel != 0 {
				rival = &targetCartel
			}

			var request common.Request
			switch strings.ToLower(args[0]) {
			case "delivery":
				request = &commands.StartDeliveryCommand{
					CartelID: id, NPCIDs: npcIDs, TargetTerritory: territoryID,
					DrugID: drugID, Quantity: quantity,
				}
			case "smuggling":
				request = &commands.StartSmugglingCommand{
					CartelID: id, NPCIDs: npcIDs, SourceTerritory: source,
					TargetTerritory: territoryID, DrugID: drugID, Quantity: quantity,
				}
			case "raid":
				request = &commands.StartRaidCommand{
					CartelID: id, NPCIDs: npcIDs, TargetCartelID: rival, TargetTerritory: territoryID,
				}
			case "seizure":
				request = &commands.StartSeizureCommand{
					CartelID: id, NPCIDs: npcIDs, TargetTerritory: territoryID,
				}
			case "sabotage":
				request = &commands.StartSabotageCommand{
					CartelID: id, NPCIDs: npcIDs, TargetTerritory: territoryID,
				}
			case "assassination":
				request = &commands.StartAssassinationCommand{
					CartelID: id, NPCIDs: npcIDs, TargetCartelID: rival, TargetTerritory: territoryID,
				}
			case "corruption":
				request = &commands.StartCorruptionCommand{
					CartelID: id, NPCIDs: npcIDs, Bribe: bribe, TargetCartelID: rival,
				}
			case "intimidation":
				request = &commands.StartIntimidationCommand{
					CartelID: id, NPCIDs: npcIDs, TargetTerritory: territoryID,
				}
			case "heist":
				request = &commands.StartHeistCommand{
					CartelID: id, NPCIDs: npcIDs, TargetTerritory: territoryID,
				}
			default:
				return fmt.Errorf("unknown mission type %q", args[0])
			}

			handler := commands.NewStartMissionHandler(
				e.cartelRepo, e.npcRepo, e.territoryRepo, e.missionRepo, e.cat, e.clock)
			result, err := handler.Handle(ctx, request)
			if err != nil {
				return err
			}
			resp := result.(*commands.StartMissionResponse)
			fmt.Printf("Mission %s started, completes at %s\n",
				resp.Mission.ID, resp.CompletesAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	cmd.Flags().StringVar(&crew, "crew", "", "Comma-separated NPC ids [required]")
	cmd.Flags().StringVar(&territoryID, "territory", "", "Target territory")
	cmd.Flags().StringVar(&source, "source", "", "Source territory (smuggling)")
	cmd.Flags().StringVar(&drugID, "drug", "", "Drug id (delivery/smuggling)")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "Units to move (delivery/smuggling)")
	cmd.Flags().IntVar(&targetCartel, "target-cartel", 0, "Rival cartel id (raid/assassination/corruption)")
	cmd.Flags().Int64Var(&bribe, "bribe", 0, "Bribe amount (corruption)")
	cmd.MarkFlagRequired("crew")
	return cmd
}

func newMissionListCommand() *cobra.Command {
	var history int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active missions and recent history",
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
			handler := queries.NewListMissionsHandler(e.missionRepo, e.clock)
			result, err := handler.Handle(ctx, &queries.ListMissionsQuery{
				CartelID: id, HistoryLimit: history,
			})
			if err != nil {
				return err
			}
			response := result.(*queries.ListMissionsResponse)

			if len(response.Active) == 0 {
				fmt.Println("No active missions")
			} else {
				fmt.Println("ACTIVE")
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tType\tCrew\tTarget\tRemaining")
				for _, m := range response.Active {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
						m.ID, m.Type, m.CrewSize, m.TargetTerritory, m.TimeRemaining.Round(time.Second))
				}
				w.Flush()
			}

			if len(response.History) > 0 {
				fmt.Println("\nHISTORY")
				for _, m := range response.History {
					fmt.Printf("  [%s] %s\n", m.Status, m.Type)
					if m.Outcome != nil {
						for _, line := range m.Outcome.Log {
							fmt.Printf("      %s\n", line)
						}
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&history, "history", 5, "Number of resolved missions to show")
	return cmd
}
