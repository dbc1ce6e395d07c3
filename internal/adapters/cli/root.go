package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	playerID   int
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cartelctl",
		Short: "Cartel CLI - Manage your criminal enterprise",
		Long: `Cartel CLI provides commands to run your cartel: hire crew, cook
product, claim corners and send crews out on missions. It talks to the
same database the daemon resolves against.

Examples:
  cartelctl cartel create --player-id 1 --name "Los Hermanos"
  cartelctl cartel overview --player-id 1
  cartelctl crew hire --player-id 1 --role enforcer
  cartelctl lab build --player-id 1 --type coke_kitchen --territory docklands
  cartelctl territory claim --player-id 1 --territory docklands
  cartelctl mission start raid --player-id 1 --crew 3,4,5 --target-cartel 2
  cartelctl mission list --player-id 1`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().IntVar(&playerID, "player-id", 0, "Player ID owning the cartel")

	rootCmd.AddCommand(NewCartelCommand())
	rootCmd.AddCommand(NewCrewCommand())
	rootCmd.AddCommand(NewLabCommand())
	rootCmd.AddCommand(NewTerritoryCommand())
	rootCmd.AddCommand(NewMissionCommand())
	rootCmd.AddCommand(NewSweepCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
