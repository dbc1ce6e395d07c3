package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/cartel-go/internal/application/territory/commands"
	"github.com/andrescamacho/cartel-go/internal/application/territory/queries"
)

// NewTerritoryCommand creates the territory command with subcommands
func NewTerritoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "territory",
		Short: "Territory control and street sales",
		Long: `Claim corners, sell product and buy territory upgrades.

Upgrades: fortification, distribution, corruption

Examples:
  cartelctl territory map
  cartelctl territory claim --player-id 1 --territory docklands
  cartelctl territory sell --player-id 1 --territory docklands --drug cocaine --quantity 10
  cartelctl territory upgrade --player-id 1 --territory docklands --upgrade fortification`,
	}

	cmd.AddCommand(newTerritoryMapCommand())
	cmd.AddCommand(newTerritoryClaimCommand())
	cmd.AddCommand(newTerritorySellCommand())
	cmd.AddCommand(newTerritoryUpgradeCommand())

	return cmd
}

func newTerritoryMapCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "map",
		Short: "Show the shared world map",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			handler := queries.NewGetWorldMapHandler(e.territoryRepo, e.cat)
			result, err := handler.Handle(context.Background(), &queries.GetWorldMapQuery{})
			if err != nil {
				return err
			}
			response := result.(*queries.GetWorldMapResponse)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Territory\tRegion\tLaw\tDemand\tController\tPower\tContested")
			for _, entry := range response.Entries {
				t := entry.Territory
				controller := "-"
				if t.ControlledBy != nil {
					controller = fmt.Sprintf("cartel %d", *t.ControlledBy)
				}
				contested := ""
				if t.ContestedBy != nil {
					contested = fmt.Sprintf("by cartel %d", *t.ContestedBy)
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t×%.2f\t%s\t%d\t%s\n",
					entry.Def.ID, entry.Def.Region, entry.Def.LawLevel,
					entry.Def.Demand*t.DemandMult, controller, t.ControlPower, contested)
			}
			return w.Flush()
		},
	}
}

func newTerritoryClaimCommand() *cobra.Command {
	var territoryID string

	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Claim an unclaimed territory",
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
			handler := commands.NewClaimTerritoryHandler(e.cartelRepo, e.territoryRepo, e.cat, e.clock)
			if _, err := handler.Handle(ctx, &commands.ClaimTerritoryCommand{
				CartelID: id, TerritoryID: territoryID,
			}); err != nil {
				return err
			}
			fmt.Printf("Territory %s claimed\n", territoryID)
			return nil
		},
	}

	cmd.Flags().StringVar(&territoryID, "territory", "", "Territory id [required]")
	cmd.MarkFlagRequired("territory")
	return cmd
}

func newTerritorySellCommand() *cobra.Command {
	var (
		territoryID string
		drugID      string
		quantity    int
	)

	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Sell product on a controlled corner",
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
			handler := commands.NewSellDrugsHandler(e.cartelRepo, e.npcRepo, e.territoryRepo, e.cat, e.clock)
			result, err := handler.Handle(ctx, &commands.SellDrugsCommand{
				CartelID: id, TerritoryID: territoryID, DrugID: drugID, Quantity: quantity,
			})
			if err != nil {
				return err
			}
			resp := result.(*commands.SellDrugsResponse)
			fmt.Printf("Sold %d %s for %s (%s/unit, %d dealers, +%.1f heat)\n",
				quantity, drugID, formatMoney(resp.Revenue), formatMoney(resp.UnitPrice),
				resp.Dealers, resp.HeatGain)
			return nil
		},
	}

	cmd.Flags().StringVar(&territoryID, "territory", "", "Territory id [required]")
	cmd.Flags().StringVar(&drugID, "drug", "", "Drug id [required]")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "Units to sell [required]")
	cmd.MarkFlagRequired("territory")
	cmd.MarkFlagRequired("drug")
	cmd.MarkFlagRequired("quantity")
	return cmd
}

func newTerritoryUpgradeCommand() *cobra.Command {
	var (
		territoryID string
		upgradeID   string
	)

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Buy a territory upgrade level",
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
			handler := commands.NewBuyUpgradeHandler(e.cartelRepo, e.territoryRepo, e.cat, e.clock)
			result, err := handler.Handle(ctx, &commands.BuyUpgradeCommand{
				CartelID: id, TerritoryID: territoryID, UpgradeID: upgradeID,
			})
			if err != nil {
				return err
			}
			resp := result.(*commands.BuyUpgradeResponse)
			fmt.Printf("%s raised to level %d for %s\n", resp.UpgradeID, resp.Level, formatMoney(resp.Cost))
			return nil
		},
	}

	cmd.Flags().StringVar(&territoryID, "territory", "", "Territory id [required]")
	cmd.Flags().StringVar(&upgradeID, "upgrade", "", "Upgrade id [required]")
	cmd.MarkFlagRequired("territory")
	cmd.MarkFlagRequired("upgrade")
	return cmd
}
