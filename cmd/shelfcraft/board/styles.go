package board

import "github.com/charmbracelet/lipgloss"

// Color palette. Semantic colors are shared between themes.
var (
	colorSuccess = lipgloss.Color("#8BC34A")
	colorError   = lipgloss.Color("#e53935")
	colorAccent  = lipgloss.Color("#2196F3")

	darkForeground = lipgloss.Color("#f2f2f2")
	darkMuted      = lipgloss.Color("#5c6773")
	darkBorder     = lipgloss.Color("#2a3850")
	darkHighlight  = lipgloss.Color("#FFC107")

	lightForeground = lipgloss.Color("#101F38")
	lightMuted      = lipgloss.Color("#8a919a")
	lightBorder     = lipgloss.Color("#dce0e5")
	lightHighlight  = lipgloss.Color("#b8860b")
)

// Styles holds every style the board renders with.
type Styles struct {
	Title      lipgloss.Style
	Muted      lipgloss.Style
	Panel      lipgloss.Style
	PanelFocus lipgloss.Style
	PanelTitle lipgloss.Style

	Slot         lipgloss.Style
	SlotEmpty    lipgloss.Style
	SlotSelected lipgloss.Style
	SlotHover    lipgloss.Style
	SlotCarried  lipgloss.Style

	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	MetricLabel lipgloss.Style
	MetricValue lipgloss.Style

	ToastInfo  lipgloss.Style
	ToastError lipgloss.Style

	Help lipgloss.Style
}

// NewStyles builds the style set for the requested theme name.
func NewStyles(theme string) Styles {
	fg, muted, border, highlight := darkForeground, darkMuted, darkBorder, darkHighlight
	if theme == "light" {
		fg, muted, border, highlight = lightForeground, lightMuted, lightBorder, lightHighlight
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)

	slot := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(border).
		Width(14).
		Align(lipgloss.Center)

	return Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(fg),
		Muted:      lipgloss.NewStyle().Foreground(muted),
		Panel:      panel,
		PanelFocus: panel.BorderForeground(colorAccent),
		PanelTitle: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),

		Slot:         slot.Foreground(fg),
		SlotEmpty:    slot.Foreground(muted),
		SlotSelected: slot.BorderForeground(highlight).Foreground(fg),
		SlotHover:    slot.BorderForeground(colorSuccess).Foreground(fg),
		SlotCarried:  slot.Foreground(highlight).Bold(true),

		ListItem:     lipgloss.NewStyle().Foreground(fg),
		ListSelected: lipgloss.NewStyle().Foreground(highlight).Bold(true),

		MetricLabel: lipgloss.NewStyle().Foreground(muted),
		MetricValue: lipgloss.NewStyle().Bold(true).Foreground(fg),

		ToastInfo:  lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
		ToastError: lipgloss.NewStyle().Foreground(colorError).Bold(true),

		Help: lipgloss.NewStyle().Foreground(muted),
	}
}
