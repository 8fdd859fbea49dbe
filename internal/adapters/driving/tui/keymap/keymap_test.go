package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap_Matches(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		msg     tea.KeyMsg
		binding key.Binding
	}{
		{"enter submits", tea.KeyMsg{Type: tea.KeyEnter}, km.Submit},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, km.Quit},
		{"ctrl+d quits", tea.KeyMsg{Type: tea.KeyCtrlD}, km.Quit},
		{"ctrl+s saves", tea.KeyMsg{Type: tea.KeyCtrlS}, km.Save},
		{"up recalls", tea.KeyMsg{Type: tea.KeyUp}, km.Previous},
		{"down recalls", tea.KeyMsg{Type: tea.KeyDown}, km.Next},
		{"ctrl+l clears", tea.KeyMsg{Type: tea.KeyCtrlL}, km.Clear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, key.Matches(tt.msg, tt.binding))
		})
	}
}

func TestKeyMap_Help(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ShortHelp(), 3)
	assert.Len(t, km.FullHelp(), 2)
	for _, b := range km.ShortHelp() {
		assert.NotEmpty(t, b.Help().Key)
		assert.NotEmpty(t, b.Help().Desc)
	}
}
