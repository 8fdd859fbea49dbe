package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/capsql/internal/core/domain"
	"github.com/custodia-labs/capsql/internal/core/ports/driving"
)

var queryJSON bool

var execCmd = &cobra.Command{
	Use:   "exec [database] [sql...]",
	Short: "Run raw SQL statements",
	Long: `Runs each SQL argument in order, stopping at the first failure, then saves
the database. Each argument may hold several statements separated by ';'.

The reported change count is that of the last statement.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runExec,
}

var runCmd = &cobra.Command{
	Use:   "run [database] [sql] [values...]",
	Short: "Run one statement with bound values",
	Long: `Runs a single statement with values bound to its ? placeholders, then saves
the database. Values are read as JSON (42, 1.5, true, null, "text"); anything
that is not valid JSON is bound as text.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRun,
}

var queryCmd = &cobra.Command{
	Use:   "query [database] [sql] [values...]",
	Short: "Print the rows returned by a statement",
	Long: `Runs a statement and prints every row it returns. The database is not saved.
Values are bound the same way as for run.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runQuery,
}

var hasTableCmd = &cobra.Command{
	Use:   "has-table [database] [table]",
	Short: "Report whether a table exists",
	Args:  cobra.ExactArgs(2),
	RunE:  runHasTable,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved databases",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output rows as JSON")
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(hasTableCmd)
	rootCmd.AddCommand(listCmd)
}

// withDatabase opens database for the duration of fn. When save is set and
// fn succeeds the database is saved before it is closed.
func withDatabase(
	ctx context.Context,
	database string,
	save bool,
	fn func(driving.DatabaseService) error,
) (err error) {
	if databaseService == nil {
		return errors.New("database service not configured")
	}
	if err := databaseService.CreateConnection(ctx, database); err != nil {
		return fmt.Errorf("opening %q: %w", database, err)
	}
	defer func() {
		if closeErr := databaseService.CloseConnection(ctx, database); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	if err := fn(databaseService); err != nil {
		return err
	}
	if save {
		return databaseService.SaveToStore(ctx, database)
	}
	return nil
}

func runExec(cmd *cobra.Command, args []string) error {
	database := args[0]
	return withDatabase(cmd.Context(), database, true, func(db driving.DatabaseService) error {
		changes, err := db.Execute(cmd.Context(), database, args[1:])
		if err != nil {
			return err
		}
		printChanges(cmd, changes)
		return nil
	})
}

func runRun(cmd *cobra.Command, args []string) error {
	database := args[0]
	return withDatabase(cmd.Context(), database, true, func(db driving.DatabaseService) error {
		changes, err := db.Run(cmd.Context(), database, args[1], parseValues(args[2:]))
		if err != nil {
			return err
		}
		printChanges(cmd, changes)
		return nil
	})
}

func runQuery(cmd *cobra.Command, args []string) error {
	database := args[0]
	return withDatabase(cmd.Context(), database, false, func(db driving.DatabaseService) error {
		rows, err := db.Query(cmd.Context(), database, args[1], parseValues(args[2:]))
		if err != nil {
			return err
		}
		if queryJSON {
			return outputRowsJSON(cmd, rows)
		}
		outputRowsTable(cmd, rows)
		return nil
	})
}

func runHasTable(cmd *cobra.Command, args []string) error {
	database, table := args[0], args[1]
	return withDatabase(cmd.Context(), database, false, func(db driving.DatabaseService) error {
		exists, err := db.IsTableExists(cmd.Context(), database, table)
		if err != nil {
			return err
		}
		cmd.Println(exists)
		return nil
	})
}

func runList(cmd *cobra.Command, _ []string) error {
	if catalog == nil {
		return errors.New("snapshot catalog not configured")
	}

	names, err := catalog.Databases(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing databases: %w", err)
	}

	if len(names) == 0 {
		cmd.Println("No databases saved.")
		return nil
	}
	for _, name := range names {
		cmd.Println(name)
	}
	return nil
}

func printChanges(cmd *cobra.Command, changes domain.Changes) {
	cmd.Printf("%d change(s), last insert id %d\n", changes.Changes, changes.LastID)
}
