// Package input provides the statement input for the console.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/capsql/internal/adapters/driving/tui/styles"
)

// StatementInput wraps a bubbles textinput with a statement history.
type StatementInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int

	history []string
	// cursor indexes history while browsing; len(history) means the draft.
	cursor int
	draft  string
}

// NewStatementInput creates a focused statement input.
func NewStatementInput(s *styles.Styles) *StatementInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Prompt = "sql> "
	ti.PromptStyle = s.Prompt
	ti.Placeholder = "SELECT ... ; .save ; .quit"
	ti.Focus()
	ti.CharLimit = 0
	ti.Width = 60

	return &StatementInput{
		textinput: ti,
		styles:    s,
		width:     60,
	}
}

// Init initialises the input.
func (s *StatementInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (s *StatementInput) Update(msg tea.Msg) (*StatementInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the input.
func (s *StatementInput) View() string {
	return s.textinput.View()
}

// Value returns the current input value.
func (s *StatementInput) Value() string {
	return s.textinput.Value()
}

// SetValue sets the input value and moves the cursor to the end.
func (s *StatementInput) SetValue(value string) {
	s.textinput.SetValue(value)
	s.textinput.CursorEnd()
}

// Focused returns whether the input is focused.
func (s *StatementInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sets the width of the input.
func (s *StatementInput) SetWidth(width int) {
	s.width = width
	// Account for the prompt
	inputWidth := width - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.textinput.Width = inputWidth
}

// Width returns the current width.
func (s *StatementInput) Width() int {
	return s.width
}

// Commit records the current value in the history and clears the input.
// Blank values and repeats of the last entry are not recorded.
func (s *StatementInput) Commit() string {
	value := s.Value()
	if value != "" && (len(s.history) == 0 || s.history[len(s.history)-1] != value) {
		s.history = append(s.history, value)
	}
	s.cursor = len(s.history)
	s.draft = ""
	s.textinput.Reset()
	return value
}

// Previous recalls the previous history entry.
func (s *StatementInput) Previous() {
	if s.cursor == 0 {
		return
	}
	if s.cursor == len(s.history) {
		s.draft = s.Value()
	}
	s.cursor--
	s.SetValue(s.history[s.cursor])
}

// Next recalls the next history entry, ending at the unsent draft.
func (s *StatementInput) Next() {
	if s.cursor >= len(s.history) {
		return
	}
	s.cursor++
	if s.cursor == len(s.history) {
		s.SetValue(s.draft)
		return
	}
	s.SetValue(s.history[s.cursor])
}

// History returns the recorded statements, oldest first.
func (s *StatementInput) History() []string {
	return s.history
}
