package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/cartel-go/internal/application/npc/commands"
	"github.com/andrescamacho/cartel-go/internal/application/npc/queries"
)

// NewCrewCommand creates the crew command with subcommands
func NewCrewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crew",
		Short: "Hire and manage mercenaries",
		Long: `Manage the cartel's roster of mercenaries.

Roles: enforcer, smuggler, dealer, chemist, driver

Examples:
  cartelctl crew hire --player-id 1 --role enforcer
  cartelctl crew list --player-id 1
  cartelctl crew assign --player-id 1 --npc 3 --territory docklands
  cartelctl crew heal --player-id 1 --npc 3
  cartelctl crew bail --player-id 1 --npc 3
  cartelctl crew fire --player-id 1 --npc 3`,
	}

	cmd.AddCommand(newCrewHireCommand())
	cmd.AddCommand(newCrewFireCommand())
	cmd.AddCommand(newCrewAssignCommand())
	cmd.AddCommand(newCrewHealCommand())
	cmd.AddCommand(newCrewBailCommand())
	cmd.AddCommand(newCrewListCommand())

	return cmd
}

func newCrewHireCommand() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "hire",
		Short: "Hire a new mercenary",
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
			handler := commands.NewHireNPCHandler(e.cartelRepo, e.npcRepo, e.cat, e.clock, e.rng)
			result, err := handler.Handle(ctx, &commands.HireNPCCommand{CartelID: id, Role: role})
			if err != nil {
				return err
			}
			resp := result.(*commands.HireNPCResponse)
			n := resp.NPC
			fmt.Printf("Hired %s (%s %s) for %s\n", n.Name, n.Rarity, n.Role, formatMoney(resp.Cost))
			fmt.Printf("  combat %d, stealth %d, int %d, cha %d, speed %d\n",
				n.Stats.Combat, n.Stats.Stealth, n.Stats.Intelligence, n.Stats.Charisma, n.Stats.Speed)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Role to hire [required]")
	cmd.MarkFlagRequired("role")
	return cmd
}

func newCrewFireCommand() *cobra.Command {
	var npcID int

	cmd := &cobra.Command{
		Use:   "fire",
		Short: "Dismiss a mercenary",
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
			handler := commands.NewFireNPCHandler(e.npcRepo)
			if _, err := handler.Handle(ctx, &commands.FireNPCCommand{CartelID: id, NPCID: npcID}); err != nil {
				return err
			}
			fmt.Printf("NPC %d dismissed\n", npcID)
			return nil
		},
	}

	cmd.Flags().IntVar(&npcID, "npc", 0, "NPC id [required]")
	cmd.MarkFlagRequired("npc")
	return cmd
}

func newCrewAssignCommand() *cobra.Command {
	var (
		npcID       int
		territoryID string
	)

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Station an idle mercenary in a territory",
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
			handler := commands.NewAssignNPCHandler(e.npcRepo, e.cat)
			if _, err := handler.Handle(ctx, &commands.AssignNPCCommand{
				CartelID: id, NPCID: npcID, TerritoryID: territoryID,
			}); err != nil {
				return err
			}
			fmt.Printf("NPC %d stationed in %s\n", npcID, territoryID)
			return nil
		},
	}

	cmd.Flags().IntVar(&npcID, "npc", 0, "NPC id [required]")
	cmd.Flags().StringVar(&territoryID, "territory", "", "Territory id [required]")
	cmd.MarkFlagRequired("npc")
	cmd.MarkFlagRequired("territory")
	return cmd
}

func newCrewHealCommand() *cobra.Command {
	var npcID int

	cmd := &cobra.Command{
		Use:   "heal",
		Short: "Pay for an injured mercenary's treatment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecover(npcID, true)
		},
	}

	cmd.Flags().IntVar(&npcID, "npc", 0, "NPC id [required]")
	cmd.MarkFlagRequired("npc")
	return cmd
}

func newCrewBailCommand() *cobra.Command {
	var npcID int

	cmd := &cobra.Command{
		Use:   "bail",
		Short: "Bail an arrested mercenary out of jail",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecover(npcID, false)
		},
	}

	cmd.Flags().IntVar(&npcID, "npc", 0, "NPC id [required]")
	cmd.MarkFlagRequired("npc")
	return cmd
}

func runRecover(npcID int, heal bool) error {
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
	handler := commands.NewRecoverNPCHandler(e.cartelRepo, e.npcRepo, e.cat, e.clock)

	var result interface{}
	if heal {
		result, err = handler.Handle(ctx, &commands.HealNPCCommand{CartelID: id, NPCID: npcID})
	} else {
		result, err = handler.Handle(ctx, &commands.BailOutNPCCommand{CartelID: id, NPCID: npcID})
	}
	if err != nil {
		return err
	}
	resp := result.(*commands.RecoverNPCResponse)
	fmt.Printf("%s back on the street for %s\n", resp.NPC.Name, formatMoney(resp.Cost))
	return nil
}

func newCrewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the roster",
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
			handler := queries.NewGetRosterHandler(e.npcRepo, e.cat)
			result, err := handler.Handle(ctx, &queries.GetRosterQuery{CartelID: id})
			if err != nil {
				return err
			}
			response := result.(*queries.GetRosterResponse)

			if len(response.Entries) == 0 {
				fmt.Println("No mercenaries on the roster")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tName\tRole\tRarity\tLvl\tLoyalty\tStatus\tSalary\tStation")
			for _, entry := range response.Entries {
				n := entry.NPC
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
					n.ID, n.Name, n.Role, n.Rarity, n.Level, n.Loyalty,
					n.Status, formatMoney(entry.Salary), n.AssignedTo)
			}
			return w.Flush()
		},
	}
}
