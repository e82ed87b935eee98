// Package popup defines the framed component contract and the helpers that
// place a component on screen.
package popup

import tea "github.com/charmbracelet/bubbletea"

// Popup is a component hosted inside the app frame. The lyrics view is the
// one implementation; it talks back to the app through action messages.
type Popup interface {
	// Init returns the first command, such as a pending fetch.
	Init() tea.Cmd

	// Update handles a message and returns the popup with a follow-up command.
	Update(msg tea.Msg) (Popup, tea.Cmd)

	// View renders the content only; RenderFramed adds the border.
	View() string

	// SetSize sets the content area, as computed by ContentSize.
	SetSize(width, height int)
}
