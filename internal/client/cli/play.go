package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vidgallery/internal/client/theme"
)

const msgUnplayable = "This video has no playable media"

// Play opens a single video unmuted until the user presses Enter.
func (a *App) Play(ctx context.Context, ref string) error {
	v, err := a.pick(ctx, ref, "Video to play (number or id)")
	if err != nil {
		return err
	}

	url := a.resolver.Resolve(v)
	if url == "" {
		a.notifier.Error(msgUnplayable)
		return nil
	}

	h, err := a.factory.Attach(url)
	if err != nil {
		a.log.Error(ctx, "failed to attach player", "url", url, "err", err)
		a.notifier.Error("Playback failed")
		return err
	}
	defer func() {
		if derr := h.Detach(); derr != nil {
			a.log.Warn(ctx, "failed to detach player", "url", url, "err", derr)
		}
	}()

	if err := h.SetMuted(false); err != nil {
		a.log.Warn(ctx, "failed to unmute", "err", err)
	}
	if err := h.Play(); err != nil {
		a.log.Error(ctx, "failed to play", "url", url, "err", err)
		a.notifier.Error("Playback failed")
		return err
	}

	prompt := fmt.Sprintf("%s %s\n%s", theme.IconPlay, theme.TitleStyle.Render(v.Title),
		theme.MutedStyle.Render(url+"\nPress Enter to stop"))
	_, err = GetSimpleText(a.reader, prompt, a.out)
	if perr := h.Pause(); perr != nil {
		a.log.Warn(ctx, "failed to pause", "err", perr)
	}
	return err
}
