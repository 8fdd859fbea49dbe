package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/capsql/internal/adapters/driving/tui/components/results"
	"github.com/custodia-labs/capsql/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/capsql/internal/core/domain"
)

func outputRowsJSON(cmd *cobra.Command, rows []domain.Row) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rows: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputRowsTable(cmd *cobra.Command, rows []domain.Row) {
	if len(rows) == 0 {
		cmd.Println("No rows.")
		return
	}

	cmd.Println(results.Render(rows, terminalWidth(), styles.DefaultStyles()))
	cmd.Printf("(%d row(s))\n", len(rows))
}

// terminalWidth returns the width of stdout, or 0 when it is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}
