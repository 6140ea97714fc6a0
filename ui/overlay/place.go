package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// PlaceOverlay draws fg over bg with its top-left corner at column x, row y.
// With center set, x and y are ignored and fg is centered on bg. Cells of bg
// outside fg keep their styling; fg is clipped at the edges of bg.
func PlaceOverlay(x, y int, fg, bg string, center bool) string {
	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")
	bgWidth := maxWidth(bgLines)
	fgWidth := maxWidth(fgLines)

	if center {
		x = (bgWidth - fgWidth) / 2
		y = (len(bgLines) - len(fgLines)) / 2
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	for i, line := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		target := padRight(bgLines[row], bgWidth)
		left := ansi.Truncate(target, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}

		avail := bgWidth - x
		if avail <= 0 {
			continue
		}
		line = padRight(line, fgWidth)
		if ansi.StringWidth(line) > avail {
			line = ansi.Truncate(line, avail, "")
		}
		right := ansi.TruncateLeft(target, x+ansi.StringWidth(line), "")
		bgLines[row] = left + line + right
	}
	return strings.Join(bgLines, "\n")
}

func maxWidth(lines []string) int {
	w := 0
	for _, line := range lines {
		if lw := ansi.StringWidth(line); lw > w {
			w = lw
		}
	}
	return w
}

func padRight(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
