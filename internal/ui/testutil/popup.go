package testutil

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/lyricsync/internal/ui/popup"
)

// PopupHarness wraps a popup for testing, providing helpers to simulate
// user interactions and inspect state.
type PopupHarness struct {
	popup popup.Popup
	cmds  []tea.Cmd
}

// NewPopupHarness creates a test harness for any popup.Popup implementation.
// It initializes the popup and captures any init commands.
func NewPopupHarness(p popup.Popup) *PopupHarness {
	h := &PopupHarness{popup: p}
	if cmd := p.Init(); cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return h
}

// Popup returns the underlying popup for type assertion when needed.
func (h *PopupHarness) Popup() popup.Popup {
	return h.popup
}

// View returns the popup's rendered content without styling.
func (h *PopupHarness) View() string {
	return StripANSI(h.popup.View())
}

// SendMsg sends any message to the popup and returns the resulting command.
func (h *PopupHarness) SendMsg(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.popup, cmd = h.popup.Update(msg)
	if cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return cmd
}

// SendKey simulates a key press by creating a tea.KeyMsg.
func (h *PopupHarness) SendKey(key string) tea.Cmd {
	return h.SendMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

// SendSpecialKey sends a special key (escape, arrows, etc.).
func (h *PopupHarness) SendSpecialKey(keyType tea.KeyType) tea.Cmd {
	return h.SendMsg(tea.KeyMsg{Type: keyType})
}

// SendEscape sends the escape key.
func (h *PopupHarness) SendEscape() tea.Cmd {
	return h.SendSpecialKey(tea.KeyEscape)
}

// SendUp sends the up arrow key.
func (h *PopupHarness) SendUp() tea.Cmd {
	return h.SendSpecialKey(tea.KeyUp)
}

// SendDown sends the down arrow key.
func (h *PopupHarness) SendDown() tea.Cmd {
	return h.SendSpecialKey(tea.KeyDown)
}

// LastCommand returns the most recent command, or nil if none.
func (h *PopupHarness) LastCommand() tea.Cmd {
	if len(h.cmds) == 0 {
		return nil
	}
	return h.cmds[len(h.cmds)-1]
}

// ClearCommands clears the collected commands.
func (h *PopupHarness) ClearCommands() {
	h.cmds = nil
}

// ExecuteCmd runs a command and returns the resulting message.
func ExecuteCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// ViewContains checks if the popup's view contains the given substring.
func (h *PopupHarness) ViewContains(substr string) bool {
	return ContainsLine(h.View(), substr)
}
