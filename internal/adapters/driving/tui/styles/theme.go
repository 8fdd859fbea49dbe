// Package styles provides colours and lipgloss styles for the console and
// for query results printed by the CLI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette. Result cells are coloured by value kind.
type Theme struct {
	Accent  lipgloss.Color
	Prompt  lipgloss.Color
	Text    lipgloss.Color
	Dim     lipgloss.Color
	Grid    lipgloss.Color
	Panel   lipgloss.Color
	Saved   lipgloss.Color
	Unsaved lipgloss.Color
	Failure lipgloss.Color

	// Number and Blob colour INTEGER/REAL and BLOB cells.
	Number lipgloss.Color
	Blob   lipgloss.Color
}

// DefaultTheme returns the default palette, tuned for dark terminals.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:  lipgloss.Color("#4FA3E0"),
		Prompt:  lipgloss.Color("#8BD5CA"),
		Text:    lipgloss.Color("#D8DEE9"),
		Dim:     lipgloss.Color("#7A8290"),
		Grid:    lipgloss.Color("#3B4252"),
		Panel:   lipgloss.Color("#1E222A"),
		Saved:   lipgloss.Color("#A3BE8C"),
		Unsaved: lipgloss.Color("#EBCB8B"),
		Failure: lipgloss.Color("#E06C75"),
		Number:  lipgloss.Color("#D19A66"),
		Blob:    lipgloss.Color("#C678DD"),
	}
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	theme *Theme

	Title     lipgloss.Style
	Prompt    lipgloss.Style
	Normal    lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	StatusBar lipgloss.Style

	// Result table styles. Cells share horizontal padding; numbers are
	// right-aligned.
	TableHeader lipgloss.Style
	TableCell   lipgloss.Style
	TableNumber lipgloss.Style
	TableBlob   lipgloss.Style
	TableNull   lipgloss.Style
	TableBorder lipgloss.Style
}

// NewStyles derives styles from theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	text := lipgloss.NewStyle().Foreground(theme.Text)
	cell := text.Padding(0, 1)

	return &Styles{
		theme: theme,

		Title:   lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Prompt:  lipgloss.NewStyle().Bold(true).Foreground(theme.Prompt),
		Normal:  text,
		Muted:   lipgloss.NewStyle().Foreground(theme.Dim),
		Error:   lipgloss.NewStyle().Foreground(theme.Failure),
		Success: lipgloss.NewStyle().Foreground(theme.Saved),
		Warning: lipgloss.NewStyle().Foreground(theme.Unsaved),
		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Dim).
			Background(theme.Panel).
			Padding(0, 1),

		TableHeader: cell.Bold(true).Foreground(theme.Accent),
		TableCell:   cell,
		TableNumber: cell.Foreground(theme.Number).Align(lipgloss.Right),
		TableBlob:   cell.Foreground(theme.Blob),
		TableNull:   cell.Foreground(theme.Dim).Italic(true),
		TableBorder: lipgloss.NewStyle().Foreground(theme.Grid),
	}
}

// DefaultStyles returns styles for DefaultTheme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}
