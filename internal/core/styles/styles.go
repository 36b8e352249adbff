// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/storefront/internal/core/notify"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	// CLI styles.
	HeaderStyle  lipgloss.Style
	MutedStyle   lipgloss.Style
	PriceStyle   lipgloss.Style
	RatingStyle  lipgloss.Style
	DividerStyle lipgloss.Style

	// Toast styles, keyed by level in ToastStyle.
	ToastSuccessStyle lipgloss.Style
	ToastInfoStyle    lipgloss.Style
	ToastWarningStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style

	// TUI shared styles.
	TitleStyle        lipgloss.Style
	TabStyle          lipgloss.Style
	TabActiveStyle    lipgloss.Style
	BadgeStyle        lipgloss.Style
	PanelStyle        lipgloss.Style
	SelectedStyle     lipgloss.Style
	HelpStyle         lipgloss.Style
	ErrorStyle        lipgloss.Style
	EmptyStateStyle   lipgloss.Style
	StatusBarStyle    lipgloss.Style
	OrderHeaderStyle  lipgloss.Style
	TotalLabelStyle   lipgloss.Style
	TotalValueStyle   lipgloss.Style
	CategoryNameStyle lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	HeaderStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	MutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	PriceStyle = lipgloss.NewStyle().
		Foreground(p.Success).
		Bold(true)
	RatingStyle = lipgloss.NewStyle().
		Foreground(p.Warning)
	DividerStyle = lipgloss.NewStyle().
		Foreground(p.Muted)

	toast := lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Foreground(p.Background)
	ToastSuccessStyle = toast.Background(p.Success)
	ToastInfoStyle = toast.Background(p.Primary)
	ToastWarningStyle = toast.Background(p.Warning)
	ToastErrorStyle = toast.Background(p.Error)

	TitleStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true).
		MarginBottom(1)
	TabStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(p.Muted)
	TabActiveStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(p.Background).
		Background(p.Primary).
		Bold(true)
	BadgeStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(p.Foreground).
		Background(p.Surface)
	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Surface).
		Padding(0, 1)
	SelectedStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	HelpStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(p.Error)
	EmptyStateStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true).
		Padding(1, 2)
	StatusBarStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		Background(p.Surface).
		Padding(0, 1)
	OrderHeaderStyle = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Bold(true)
	TotalLabelStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	TotalValueStyle = lipgloss.NewStyle().
		Foreground(p.Success).
		Bold(true)
	CategoryNameStyle = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Bold(true)
}

// ToastStyle returns the style for a toast level.
func ToastStyle(level notify.Level) lipgloss.Style {
	switch level {
	case notify.LevelSuccess:
		return ToastSuccessStyle
	case notify.LevelWarning:
		return ToastWarningStyle
	case notify.LevelError:
		return ToastErrorStyle
	default:
		return ToastInfoStyle
	}
}

// ToastIcon returns the icon for a toast level.
func ToastIcon(level notify.Level) string {
	switch level {
	case notify.LevelSuccess:
		return IconSuccess
	case notify.LevelWarning:
		return IconWarning
	case notify.LevelError:
		return IconError
	default:
		return IconInfo
	}
}

// RenderToast renders t as a one-line badge. A nil toast renders empty.
func RenderToast(t *notify.Toast) string {
	if t == nil {
		return ""
	}
	return ToastStyle(t.Level).Render(ToastIcon(t.Level) + " " + t.Message)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
