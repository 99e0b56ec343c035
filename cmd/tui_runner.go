package cmd

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fchimpan/leetboard/internal/stats"
	"github.com/fchimpan/leetboard/internal/tui"
)

func defaultRunTUI(users []stats.User, opts tui.Options) error {
	p := tea.NewProgram(
		tui.NewModel(users, opts),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
