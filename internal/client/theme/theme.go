// Package theme holds the terminal palette, styles and icon glyphs shared by
// the gallery and the feed.
package theme

import "github.com/charmbracelet/lipgloss"

// Palette.
const (
	ColorPrimary    = lipgloss.Color("#FF3CAC")
	ColorGradientA  = lipgloss.Color("#784BA0")
	ColorGradientB  = lipgloss.Color("#2B86C5")
	ColorBackground = lipgloss.Color("#1A1B1F")
	ColorMuted      = lipgloss.Color("244")
	ColorSuccess    = lipgloss.Color("42")
	ColorError      = lipgloss.Color("203")
)

// Icons.
const (
	IconEdit   = "✎"
	IconDelete = "✖"
	IconPlay   = "▶"
	IconPause  = "⏸"
	IconClock  = "◷"
	IconUp     = "▲"
	IconDown   = "▼"
)

var (
	TitleStyle   = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	HeaderStyle  = lipgloss.NewStyle().Foreground(ColorGradientB).Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	InfoStyle    = lipgloss.NewStyle().Foreground(ColorGradientA)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGradientA).
			Padding(0, 1)

	ActiveCardStyle = CardStyle.BorderForeground(ColorPrimary)

	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ColorGradientA).
			Bold(true).
			Padding(0, 1)
)
