// Package status provides the console status bar.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/capsql/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/capsql/internal/adapters/driving/tui/styles"
)

// State represents the console state for display.
type State string

const (
	StateReady   State = "ready"
	StateRunning State = "running"
	StateError   State = "error"
	StateSaved   State = "saved"
)

// Bar displays the database, its save state and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	database string
	state    State
	message  string
	dirty    bool
	width    int
}

// NewBar creates a status bar for database.
func NewBar(s *styles.Styles, km *keymap.KeyMap, database string) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:   s,
		keymap:   km,
		database: database,
		state:    StateReady,
		width:    80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	name := s.styles.Title.Render(s.database)
	if s.dirty {
		name += s.styles.Warning.Render(" (unsaved)")
	}

	var detail string
	switch s.state {
	case StateRunning:
		detail = s.styles.Muted.Render("Running...")
	case StateError:
		detail = s.styles.Error.Render("Error")
		if s.message != "" {
			detail = s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
	case StateSaved:
		detail = s.styles.Success.Render("Saved")
	default:
		detail = s.styles.Muted.Render("Ready")
		if s.message != "" {
			detail = s.styles.Normal.Render(s.message)
		}
	}
	return name + "  " + detail
}

func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state and message.
func (s *Bar) SetState(state State, message string) {
	s.state = state
	s.message = message
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetDirty marks whether the database has unsaved changes.
func (s *Bar) SetDirty(dirty bool) {
	s.dirty = dirty
}

// Dirty reports whether unsaved changes are flagged.
func (s *Bar) Dirty() bool {
	return s.dirty
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
