// Package testutil provides common testing utilities for UI components.
package testutil

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes ANSI escape sequences so rendered output can be
// compared without style interference.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// ContainsLine checks if any line in the output contains the given substring.
func ContainsLine(output, substr string) bool {
	for line := range strings.SplitSeq(output, "\n") {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// FindLine returns the first line containing the given substring, or empty string.
func FindLine(output, substr string) string {
	for line := range strings.SplitSeq(output, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}

// SplitLines splits output into lines, removing trailing empty lines.
func SplitLines(output string) []string {
	lines := strings.Split(output, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
