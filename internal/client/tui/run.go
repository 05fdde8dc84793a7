package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmitrijs2005/vidgallery/internal/client/feed"
)

// Result is what the caller learns when the feed closes.
type Result struct {
	Index       int
	LastVideoID string
}

// Run shows m until the user closes it, then tears the navigator down.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) (Result, error) {
	opts = append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	}, opts...)

	_, err := tea.NewProgram(m, opts...).Run()
	res := resultOf(m.nav)
	if cerr := m.nav.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return res, fmt.Errorf("feed: %w", err)
	}
	return res, nil
}

func resultOf(nav *feed.Navigator) Result {
	s := nav.State()
	res := Result{Index: s.Index}
	if v, ok := s.Current(); ok {
		res.LastVideoID = v.ID
	}
	return res
}
