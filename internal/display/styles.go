package display

import "github.com/charmbracelet/lipgloss"

// Palette. Soft tones that read on both dark and light terminals.
const (
	colorText   = lipgloss.Color("#e4e4e7")
	colorDim    = lipgloss.Color("#7c7f8a")
	colorFaint  = lipgloss.Color("#4b4f5c")
	colorSky    = lipgloss.Color("#a5d8ff")
	colorMint   = lipgloss.Color("#b2f2bb")
	colorButter = lipgloss.Color("#ffec99")
	colorCoral  = lipgloss.Color("#ffa8a8")
	colorBar    = lipgloss.Color("#25262b")
)

var (
	bannerStyle = lipgloss.NewStyle().Foreground(colorDim)
	promptStyle = lipgloss.NewStyle().Foreground(colorDim)

	// console output
	replyStyle = lipgloss.NewStyle().Foreground(colorSky)
	stepStyle  = lipgloss.NewStyle().Foreground(colorMint)
	plainStyle = lipgloss.NewStyle().Foreground(colorText)
	dimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	alertStyle = lipgloss.NewStyle().Foreground(colorCoral)
	echoStyle  = lipgloss.NewStyle().Foreground(colorDim).Italic(true)

	// status bar
	barStyle         = lipgloss.NewStyle().Background(colorBar).Foreground(colorDim)
	crumbActiveStyle = lipgloss.NewStyle().Foreground(colorButter).Bold(true)
	crumbStyle       = lipgloss.NewStyle().Foreground(colorFaint)
	sepStyle         = lipgloss.NewStyle().Foreground(colorFaint)

	// player
	headerStyle    = lipgloss.NewStyle().Foreground(colorMint).Bold(true)
	timerBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFaint).Padding(0, 2)
	timerRunStyle  = lipgloss.NewStyle().Foreground(colorButter).Bold(true)
	timerIdleStyle = lipgloss.NewStyle().Foreground(colorDim)
	timerDoneStyle = lipgloss.NewStyle().Foreground(colorCoral).Bold(true)
)
