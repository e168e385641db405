package cli

import "github.com/charmbracelet/lipgloss"

var (
	colorCoach  = lipgloss.Color("#83a598")
	colorDanger = lipgloss.Color("#fb4934")
	colorDim    = lipgloss.Color("#928374")
	colorHeader = lipgloss.Color("#fe8019")

	styleCoach  = lipgloss.NewStyle().Foreground(colorCoach)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleHeader = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	styleCrisis = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDanger).
			Padding(0, 1)
)

const crisisURL = "https://en.wikipedia.org/wiki/List_of_suicide_crisis_lines"

func crisisBanner() string {
	return styleCrisis.Render("A list of crisis resources is available at " + crisisURL)
}
