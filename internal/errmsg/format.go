// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Startup
	OpConfigLoad Op = "load config"
	OpCacheOpen  Op = "open lyrics cache"

	// Lyrics loading
	OpLyricsRead   Op = "read lyrics"
	OpLyricsParse  Op = "parse lyrics"
	OpLyricsFetch  Op = "fetch lyrics"
	OpEmbeddedRead Op = "read embedded lyrics"

	// Cache maintenance
	OpCacheSave  Op = "save lyrics to cache"
	OpCachePurge Op = "purge lyrics cache"

	// Preview
	OpPreviewStart Op = "start preview"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
