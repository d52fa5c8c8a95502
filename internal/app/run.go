package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, deps Deps, opts ...tea.ProgramOption) error {
	m := New(ctx, deps)
	defer m.Close()

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
