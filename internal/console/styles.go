package console

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#1F4E79")
	colorAccent  = lipgloss.Color("#2E86C1")
	colorMuted   = lipgloss.Color("#7F8C8D")
	colorDanger  = lipgloss.Color("#E53935")
	colorWarning = lipgloss.Color("#FFC107")
)

// Styles holds the lipgloss styles of the console.
type Styles struct {
	Title     lipgloss.Style
	Badge     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Row       lipgloss.Style
	Selected  lipgloss.Style
	Modal     lipgloss.Style
	Label     lipgloss.Style
	Help      lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
}

// DefaultStyles returns the console theme.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Badge:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(colorWarning).Padding(0, 1),
		Tab:       lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(colorAccent).Padding(0, 1),
		Row:       lipgloss.NewStyle().PaddingLeft(2),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Modal:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1),
		Label:     lipgloss.NewStyle().Foreground(colorMuted).Width(18),
		Help:      lipgloss.NewStyle().Foreground(colorMuted),
		Status:    lipgloss.NewStyle().Foreground(colorAccent),
		Error:     lipgloss.NewStyle().Foreground(colorDanger),
		User:      lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		Assistant: lipgloss.NewStyle().Foreground(colorPrimary),
	}
}
