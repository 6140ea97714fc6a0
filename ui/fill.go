package ui

import "strings"

// FitHeight pads s with blank lines, or cuts it, to exactly height lines so
// the alt-screen renderer never leaves stale rows below the view.
func FitHeight(s string, height int) string {
	if height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
