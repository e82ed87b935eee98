package keymap

// Binding maps keys to an action within a context.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "sync", "scroll", "display"
}

// Bindings contains all key bindings of the lyrics view.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "esc", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Toggle help", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionSeekBack, []string{"left", "h"}, "Seek -5s", "playback"},
	{ActionSeekForward, []string{"right", "l"}, "Seek +5s", "playback"},
	{ActionRestart, []string{"0"}, "Restart", "playback"},

	// Sync offset
	{ActionOffsetUp, []string{"+", "="}, "Lyrics earlier (+100ms)", "sync"},
	{ActionOffsetDown, []string{"-", "_"}, "Lyrics later (-100ms)", "sync"},
	{ActionOffsetReset, []string{"o"}, "Reset offset", "sync"},

	// Scroll
	{ActionScrollUp, []string{"k", "up"}, "Scroll up", "scroll"},
	{ActionScrollDown, []string{"j", "down"}, "Scroll down", "scroll"},
	{ActionJumpStart, []string{"g", "home"}, "First line", "scroll"},
	{ActionJumpEnd, []string{"G", "end"}, "Last line", "scroll"},
	{ActionRecenter, []string{"c"}, "Follow current line", "scroll"},

	// Display
	{ActionToggleAnimation, []string{"a"}, "Toggle character animation", "display"},
	{ActionToggleTranslation, []string{"t"}, "Toggle translation", "display"},
	{ActionCycleAlignment, []string{"A"}, "Cycle alignment", "display"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
