package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/cartel-go/internal/application/cartel/commands"
	"github.com/andrescamacho/cartel-go/internal/application/cartel/queries"
)

// NewCartelCommand creates the cartel command with subcommands
func NewCartelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cartel",
		Short: "Cartel lifecycle and finances",
		Long: `Found and manage a cartel: treasury, heat, reputation.

Examples:
  cartelctl cartel create --player-id 1 --name "Los Hermanos"
  cartelctl cartel overview --player-id 1
  cartelctl cartel deposit --player-id 1 --amount 50000
  cartelctl cartel leaderboard`,
	}

	cmd.AddCommand(newCartelCreateCommand())
	cmd.AddCommand(newCartelRenameCommand())
	cmd.AddCommand(newCartelOverviewCommand())
	cmd.AddCommand(newCartelDepositCommand())
	cmd.AddCommand(newCartelWithdrawCommand())
	cmd.AddCommand(newCartelLeaderboardCommand())

	return cmd
}

func newCartelCreateCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Found a new cartel",
		RunE: func(cmd *cobra.Command, args []string) error {
			if playerID == 0 {
				return fmt.Errorf("--player-id flag is required")
			}
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			handler := commands.NewCreateCartelHandler(e.cartelRepo, e.ledger, e.cat, e.clock)
			result, err := handler.Handle(context.Background(), &commands.CreateCartelCommand{
				PlayerID: playerID,
				Name:     name,
			})
			if err != nil {
				return err
			}
			c := result.(*commands.CreateCartelResponse).Cartel
			fmt.Printf("Cartel %q founded (id %d)\n", c.Name, c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Cartel name [required]")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newCartelRenameCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename the cartel",
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
			handler := commands.NewRenameCartelHandler(e.cartelRepo, e.clock)
			if _, err := handler.Handle(ctx, &commands.RenameCartelCommand{CartelID: id, NewName: name}); err != nil {
				return err
			}
			fmt.Printf("Cartel renamed to %q\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New cartel name [required]")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newCartelOverviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show the cartel's headline state",
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
			handler := queries.NewGetOverviewHandler(e.cartelRepo, e.npcRepo, e.territoryRepo, e.missionRepo, e.cat, e.clock)
			result, err := handler.Handle(ctx, &queries.GetOverviewQuery{CartelID: id})
			if err != nil {
				return err
			}
			displayOverview(result.(*queries.GetOverviewResponse))
			return nil
		},
	}
}

func newCartelDepositCommand() *cobra.Command {
	var amount int64

	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Move personal cash into the treasury",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(true, amount)
		},
	}

	cmd.Flags().Int64Var(&amount, "amount", 0, "Amount in dollars [required]")
	cmd.MarkFlagRequired("amount")
	return cmd
}

func newCartelWithdrawCommand() *cobra.Command {
	var amount int64

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Move treasury cash to the personal account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(false, amount)
		},
	}

	cmd.Flags().Int64Var(&amount, "amount", 0, "Amount in dollars [required]")
	cmd.MarkFlagRequired("amount")
	return cmd
}

func runTransfer(deposit bool, amount int64) error {
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
	handler := commands.NewTransferFundsHandler(e.cartelRepo, e.ledger, e.clock)

	var result interface{}
	if deposit {
		result, err = handler.Handle(ctx, &commands.DepositCommand{CartelID: id, Amount: amount})
	} else {
		result, err = handler.Handle(ctx, &commands.WithdrawCommand{CartelID: id, Amount: amount})
	}
	if err != nil {
		return err
	}
	fmt.Printf("Treasury: %s\n", formatMoney(result.(*commands.TransferFundsResponse).Treasury))
	return nil
}

func newCartelLeaderboardCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the reputation ranking",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			handler := queries.NewLeaderboardHandler(e.cartelRepo)
			result, err := handler.Handle(context.Background(), &queries.LeaderboardQuery{Limit: limit})
			if err != nil {
				return err
			}
			response := result.(*queries.LeaderboardResponse)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Rank\tCartel\tReputation\tLevel")
			for _, entry := range response.Entries {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", entry.Rank, entry.Name, entry.Reputation, entry.RepLevel)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of cartels to show")
	return cmd
}

func displayOverview(r *queries.GetOverviewResponse) {
	c := r.Cartel
	fmt.Printf("\n%s (cartel %d)\n", c.Name, c.ID)
	fmt.Println("─────────────────────────────────────────────")
	fmt.Printf("Treasury:    %s\n", formatMoney(c.Treasury))
	fmt.Printf("Heat:        %.1f\n", c.Heat)
	fmt.Printf("Reputation:  %d (level %d)\n", c.Reputation, c.RepLevel)
	fmt.Printf("Crew:        %d / %d\n", r.AliveNPCs, r.NPCCap)
	fmt.Printf("Labs:        %d / %d\n", len(c.Labs), r.LabCap)
	if r.Frozen {
		fmt.Printf("FROZEN until %s (busted)\n", r.FrozenUntil.Format("2006-01-02 15:04"))
	}

	if len(c.Inventory) > 0 {
		fmt.Println("\nINVENTORY")
		for _, s := range c.Inventory {
			fmt.Printf("  %-12s %5d units (quality %.0f)\n", s.DrugID, s.Quantity, s.Quality)
		}
	}

	if len(r.Territories) > 0 {
		fmt.Println("\nTERRITORIES")
		for _, t := range r.Territories {
			contested := ""
			if t.ContestedBy != nil {
				contested = "  [CONTESTED]"
			}
			fmt.Printf("  %-14s power %d, demand ×%.2f%s\n", t.ID, t.ControlPower, t.DemandMult, contested)
		}
	}

	if len(r.ActiveMissions) > 0 {
		fmt.Println("\nACTIVE MISSIONS")
		for _, m := range r.ActiveMissions {
			fmt.Printf("  %-14s %d crew, completes %s\n", m.Type, len(m.NPCIDs), m.CompletesAt.Format("15:04:05"))
		}
	}
	fmt.Println()
}
