package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vidgallery/internal/client/theme"
)

// Stats prints the client counters collected during this run.
func (a *App) Stats(ctx context.Context) error {
	samples, err := a.metrics.Snapshot()
	if err != nil {
		a.log.Error(ctx, "failed to gather metrics", "err", err)
		return err
	}

	a.println(theme.HeaderStyle.Render("Statistics"))
	if len(samples) == 0 {
		a.println(theme.MutedStyle.Render("nothing recorded yet"))
		return nil
	}
	for _, s := range samples {
		name := s.Name
		if s.Labels != "" {
			name += "{" + s.Labels + "}"
		}
		a.println(fmt.Sprintf("  %-60s %g", name, s.Value))
	}
	return nil
}
