package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the full-screen client at route and blocks until the user quits.
func Run(api API, start Route, server string) error {
	p := tea.NewProgram(NewAppModel(api, start, server), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
