package ui

import "github.com/charmbracelet/lipgloss"

// Styles.
var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tickerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	priceUpStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	priceDownStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	gainStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	neutralStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	colHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	tagStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	toggleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	errStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	provisionStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
	sparkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// scoreStyle picks the tone style for a sentiment score.
func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score > 0:
		return gainStyle
	case score < 0:
		return lossStyle
	default:
		return neutralStyle
	}
}
