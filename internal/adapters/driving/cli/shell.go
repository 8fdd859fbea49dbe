package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/capsql/internal/adapters/driving/tui"
	"github.com/custodia-labs/capsql/internal/core/ports/driving"
)

var shellSave bool

var shellCmd = &cobra.Command{
	Use:   "shell [database]",
	Short: "Open an interactive SQL console",
	Long: `Opens an interactive console on a database. Read statements print their
rows; other statements run as raw SQL.

Changes are kept in memory until saved with .save or ctrl+s. Use --save to
save once more when the console exits.`,
	Args: cobra.ExactArgs(1),
	RunE: runShell,
}

func init() {
	shellCmd.Flags().BoolVar(&shellSave, "save", false, "save the database when the console exits")
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	database := args[0]
	return withDatabase(cmd.Context(), database, shellSave, func(db driving.DatabaseService) error {
		return tui.Run(cmd.Context(), &tui.Ports{Database: db}, database)
	})
}
