package app

import (
	"github.com/kastheco/tabtray/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorFoam)
	keyStyle    = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorGold)
	descStyle   = lipgloss.NewStyle().Foreground(ui.ColorText)
	hintStyle   = lipgloss.NewStyle().Foreground(ui.ColorMuted)

	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.ColorIris).
			Padding(0, 2)
)

func helpLine(key, desc string) string {
	return keyStyle.Render(key) + descStyle.Render(" - "+desc)
}

// helpContent returns the help screen body.
func helpContent() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		ui.GradientText("tabtray", ui.GradientStart, ui.GradientEnd),
		"",
		headerStyle.Render("tabs:"),
		helpLine("↑↓/jk     ", "move the selection"),
		helpLine("↵/o       ", "switch to tab (or toggle the inactive header)"),
		helpLine("n         ", "new tab"),
		helpLine("x         ", "close tab"),
		helpLine("y         ", "copy url"),
		helpLine("v         ", "show tab details"),
		"",
		headerStyle.Render("reorder:"),
		helpLine("⇧↑/K ⇧↓/J ", "move tab up or down"),
		helpLine("m         ", "grab the tab, move it, press m again to drop"),
		helpLine("esc       ", "cancel a grab"),
		"",
		headerStyle.Render("inactive tabs:"),
		helpLine("space     ", "expand or collapse the section"),
		helpLine("X         ", "close all inactive tabs"),
		"",
		headerStyle.Render("other:"),
		helpLine("/         ", "search titles and urls"),
		helpLine("p         ", "toggle private browsing"),
		helpLine("r         ", "refresh inactivity"),
		helpLine("q         ", "quit"),
	)
}

func renderHelp() string {
	return helpBoxStyle.Render(helpContent() + "\n\n" + hintStyle.Render("press any key to close"))
}

// showHelpScreen displays the help overlay.
func (m *home) showHelpScreen() (tea.Model, tea.Cmd) {
	m.state = stateHelp
	return m, nil
}

// handleHelpState handles key events when in help state. Any key closes it.
func (m *home) handleHelpState(tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.state = stateDefault
	m.syncMenu()
	return m, nil
}
