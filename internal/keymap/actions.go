// Package keymap defines key bindings and action dispatch for the lyrics view.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Playback clock
	ActionPlayPause   Action = "play_pause"
	ActionSeekForward Action = "seek_forward"
	ActionSeekBack    Action = "seek_back"
	ActionRestart     Action = "restart"

	// Sync offset
	ActionOffsetUp    Action = "offset_up"
	ActionOffsetDown  Action = "offset_down"
	ActionOffsetReset Action = "offset_reset"

	// Scrolling
	ActionScrollUp   Action = "scroll_up"
	ActionScrollDown Action = "scroll_down"
	ActionJumpStart  Action = "jump_start"
	ActionJumpEnd    Action = "jump_end"
	ActionRecenter   Action = "recenter" // re-enable follow mode

	// Display toggles
	ActionToggleAnimation   Action = "toggle_animation"
	ActionToggleTranslation Action = "toggle_translation"
	ActionCycleAlignment    Action = "cycle_alignment"
)
