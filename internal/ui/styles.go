package ui

import "github.com/charmbracelet/lipgloss"

// Styles used by the task list view.
type Styles struct {
	Title     lipgloss.Style
	Open      lipgloss.Style
	Done      lipgloss.Style
	Cursor    lipgloss.Style
	Empty     lipgloss.Style
	Counters  lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Confirm   lipgloss.Style
	Help      lipgloss.Style
	CheckOpen string
	CheckDone string
}

// DefaultStyles returns the default palette.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#4263EB")).
			Padding(0, 1),
		Open:      lipgloss.NewStyle(),
		Done:      lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("#868E96")),
		Cursor:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4263EB")),
		Empty:     lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#ADB5BD")),
		Counters:  lipgloss.NewStyle().Foreground(lipgloss.Color("#495057")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F59F00")),
		Error:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E03131")),
		Confirm:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E03131")),
		Help:      lipgloss.NewStyle().Faint(true),
		CheckOpen: "○",
		CheckDone: lipgloss.NewStyle().Foreground(lipgloss.Color("#2FB344")).Render("✓"),
	}
}
