// Package results renders query rows as tables.
package results

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/custodia-labs/capsql/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/capsql/internal/core/domain"
)

// NullText is shown for NULL values.
const NullText = "NULL"

// Render draws rows as a bordered table with the columns of the first row.
// A positive width caps the table. Empty input renders as "".
func Render(rows []domain.Row, width int, s *styles.Styles) string {
	if len(rows) == 0 {
		return ""
	}
	if s == nil {
		s = styles.DefaultStyles()
	}

	columns := rows[0].Columns()
	cells := make([][]string, len(rows))
	kinds := make([][]lipgloss.Style, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, len(columns))
		kinds[i] = make([]lipgloss.Style, len(columns))
		for j, column := range columns {
			v, _ := row.Get(column)
			cells[i][j] = FormatCell(v)
			kinds[i][j] = cellStyle(v, s)
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.TableBorder).
		Headers(columns...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.TableHeader
			case row >= 0 && row < len(kinds) && col < len(kinds[row]):
				return kinds[row][col]
			default:
				return s.TableCell
			}
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render()
}

// cellStyle picks the table style for a value by its kind.
func cellStyle(v domain.Value, s *styles.Styles) lipgloss.Style {
	switch v.(type) {
	case nil:
		return s.TableNull
	case int64, float64:
		return s.TableNumber
	case []byte:
		return s.TableBlob
	default:
		return s.TableCell
	}
}

// FormatCell renders a result value for display.
func FormatCell(v domain.Value) string {
	switch x := v.(type) {
	case nil:
		return NullText
	case []byte:
		return "x'" + strings.ToUpper(hex.EncodeToString(x)) + "'"
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
