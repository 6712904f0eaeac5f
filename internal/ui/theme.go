package ui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the color palette and the derived lipgloss styles used by every
// view. It is computed once and shared.
type Theme struct {
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Selected  lipgloss.AdaptiveColor

	Title         lipgloss.Style
	Text          lipgloss.Style
	MutedText     lipgloss.Style
	Key           lipgloss.Style
	SelectedRow   lipgloss.Style
	SuccessText   lipgloss.Style
	WarningText   lipgloss.Style
	ErrorText     lipgloss.Style
	Box           lipgloss.Style
	ErrorBox      lipgloss.Style
	WarningBox    lipgloss.Style
	DiffAdded     lipgloss.Style
	DiffRemoved   lipgloss.Style
	DiffUnchanged lipgloss.Style
}

var themeOnce = sync.OnceValue(func() Theme {
	t := Theme{
		Primary:   lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#60A5FA"},
		Secondary: lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#06B6D4"},
		Success:   lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"},
		Warning:   lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"},
		Error:     lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"},
		Muted:     lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"},
		Border:    lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"},
		Selected:  lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E3A8A"},
	}

	t.Title = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	t.Text = lipgloss.NewStyle()
	t.MutedText = lipgloss.NewStyle().Foreground(t.Muted)
	t.Key = lipgloss.NewStyle().Foreground(t.Secondary).Bold(true)
	t.SelectedRow = lipgloss.NewStyle().Background(t.Selected).Foreground(t.Primary).Bold(true)
	t.SuccessText = lipgloss.NewStyle().Foreground(t.Success)
	t.WarningText = lipgloss.NewStyle().Foreground(t.Warning)
	t.ErrorText = lipgloss.NewStyle().Foreground(t.Error)
	t.Box = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.ErrorBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Error).Padding(1, 2)
	t.WarningBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Warning).Padding(1, 2)
	t.DiffAdded = lipgloss.NewStyle().Foreground(t.Success)
	t.DiffRemoved = lipgloss.NewStyle().Foreground(t.Error)
	t.DiffUnchanged = lipgloss.NewStyle().Foreground(t.Muted)
	return t
})

// CurrentTheme returns the shared theme.
func CurrentTheme() Theme {
	return themeOnce()
}
