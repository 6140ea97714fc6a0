package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// GradientText colors each rune of s along a horizontal gradient from start to
// end. Multi-line input restarts the gradient on every line. Invalid hex
// colors leave the text unstyled.
func GradientText(s, start, end string) string {
	from, err := colorful.Hex(start)
	if err != nil {
		return s
	}
	to, err := colorful.Hex(end)
	if err != nil {
		return s
	}

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		runes := []rune(line)
		if len(runes) == 0 {
			continue
		}
		var b strings.Builder
		for j, r := range runes {
			t := 0.0
			if len(runes) > 1 {
				t = float64(j) / float64(len(runes)-1)
			}
			c := from.BlendLuv(to, t).Clamped()
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}
