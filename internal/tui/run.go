package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/allnighter/allnighter/internal/logging"
	"github.com/allnighter/allnighter/internal/session"
)

// Run opens the viewer over sess and blocks until the user quits. Saved
// preferences are loaded first and written back on exit.
func Run(sess *session.Aggregator, opts Options) error {
	if opts.Prefs.ContextLines == 0 {
		opts.Prefs = LoadPrefs()
	}
	m := NewModel(sess, opts)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("error running viewer: %w", err)
	}
	if fm, ok := final.(Model); ok {
		if err := SavePrefs(fm.Prefs()); err != nil {
			logging.Warn("could not save viewer preferences", zap.Error(err))
		}
	}
	return nil
}
