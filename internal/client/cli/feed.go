package cli

import (
	"context"
	"io"

	"github.com/dmitrijs2005/vidgallery/internal/client/feed"
	"github.com/dmitrijs2005/vidgallery/internal/client/services"
	"github.com/dmitrijs2005/vidgallery/internal/client/theme"
	"github.com/dmitrijs2005/vidgallery/internal/client/tui"
)

// Feed loads a fresh snapshot and shows it full screen. With resume the feed
// opens on the last viewed video, otherwise on the first one. A failed load
// still opens the feed, empty.
func (a *App) Feed(ctx context.Context, resume bool) error {
	a.println(theme.MutedStyle.Render("Loading videos..."))
	items, err := a.gallery.Refresh(ctx)
	if err != nil {
		a.log.Warn(ctx, "feed opened without catalog", "err", err)
	}

	start := 0
	if resume {
		if start, err = a.session.ResumeIndex(ctx, items); err != nil {
			a.log.Warn(ctx, "failed to read last position", "err", err)
			start = 0
		}
	}

	nav := feed.New(items, start, feed.Options{
		Factory:   a.factory,
		Resolver:  a.resolver,
		Preloader: a.preload,
		Logger:    a.log,
		Metrics:   a.metrics,
	})
	m := tui.NewModel(nav, a.notifier, a.config.PixelsPerRow)

	a.notifier.SetOutput(io.Discard)
	res, err := a.runFeed(ctx, m)
	a.notifier.SetOutput(a.out)
	if err != nil {
		a.log.Error(ctx, "feed failed", "err", err)
		return err
	}

	if res.LastVideoID != "" {
		if err := a.session.Save(ctx, services.Session{LastVideoID: res.LastVideoID}); err != nil {
			a.log.Warn(ctx, "failed to save session", "err", err)
		}
	}
	return nil
}
