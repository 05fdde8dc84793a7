package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/vidgallery/internal/client/media"
	"github.com/dmitrijs2005/vidgallery/internal/client/models"
	"github.com/dmitrijs2005/vidgallery/internal/client/services"
	"github.com/dmitrijs2005/vidgallery/internal/client/theme"
)

const (
	cardWidth    = 30
	progressSize = 40
	emptyGallery = "No videos yet. Use `add` to upload the first one."
)

var errUnknownVideo = errors.New("no such video")

// List refreshes the catalog and prints it as a grid of cards.
func (a *App) List(ctx context.Context) error {
	a.println(theme.MutedStyle.Render("Loading videos..."))
	items, err := a.gallery.Refresh(ctx)
	if err != nil {
		return err
	}
	a.println(a.renderGrid(items))
	return nil
}

func (a *App) renderGrid(items []models.Video) string {
	if len(items) == 0 {
		return theme.MutedStyle.Render(emptyGallery)
	}

	cols := a.width() / (cardWidth + 2)
	if cols < 1 {
		cols = 1
	}

	var rows []string
	for start := 0; start < len(items); start += cols {
		end := min(start+cols, len(items))
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, a.renderCard(i, items[i]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) renderCard(i int, v models.Video) string {
	size := "size unknown"
	if v.Size != nil {
		size = humanize.IBytes(uint64(max(*v.Size, 0)))
	}

	file := theme.IconPlay + " " + v.Filename
	if a.resolver.Resolve(v) == "" {
		file = "unplayable"
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		theme.TitleStyle.Render(fmt.Sprintf("%d. %s", i+1, v.Title)),
		theme.MutedStyle.Render(theme.IconClock+" "+media.FormatTimestamp(v.CreatedAt)),
		theme.MutedStyle.Render(size),
		file,
		theme.InfoStyle.Render(theme.IconEdit+" edit "+strconv.Itoa(i+1)+"  "+theme.IconDelete+" delete "+strconv.Itoa(i+1)),
	)
	return theme.CardStyle.Width(cardWidth).Render(body)
}

// Add asks for a title and a file and uploads it with a progress bar. The
// directory of the uploaded file becomes the default for the next upload.
func (a *App) Add(ctx context.Context) error {
	if a.gallery.Uploading() {
		a.notifier.Error(services.MsgUploadBlocked)
		return services.ErrUploadInProgress
	}

	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}

	sess, err := a.session.Load(ctx)
	if err != nil {
		a.log.Warn(ctx, "failed to load session", "err", err)
	}
	path, err := GetTextWithDefault(a.reader, "Video file", sess.LastUploadDir, a.out)
	if err != nil {
		return err
	}
	path = a.uploadPath(path, sess.LastUploadDir)

	bar := progress.New(
		progress.WithGradient(string(theme.ColorGradientA), string(theme.ColorGradientB)),
		progress.WithWidth(progressSize),
	)
	shown := false
	_, err = a.gallery.Upload(ctx, title, path, func(p int) {
		shown = true
		_, _ = fmt.Fprintf(a.out, "\r%s", bar.ViewAs(float64(p)/100))
	})
	if shown {
		a.println()
	}
	if err != nil {
		return err
	}

	if abs, aerr := filepath.Abs(path); aerr == nil {
		if serr := a.session.Save(ctx, services.Session{LastUploadDir: filepath.Dir(abs)}); serr != nil {
			a.log.Warn(ctx, "failed to save session", "err", serr)
		}
	}
	return nil
}

// uploadPath joins a relative answer onto dir. An answer equal to dir means
// no file was chosen.
func (a *App) uploadPath(answer, dir string) string {
	switch {
	case answer == "" || answer == dir:
		return ""
	case dir != "" && !filepath.IsAbs(answer):
		return filepath.Join(dir, answer)
	default:
		return answer
	}
}

// Edit changes the title of the video ref points at.
func (a *App) Edit(ctx context.Context, ref string) error {
	v, err := a.pick(ctx, ref, "Video to edit (number or id)")
	if err != nil {
		return err
	}

	a.println(theme.MutedStyle.Render("Current title: " + v.Title))
	title, err := GetSimpleText(a.reader, "New title", a.out)
	if err != nil {
		return err
	}
	if strings.TrimSpace(title) == strings.TrimSpace(v.Title) {
		a.notifier.Info("Title unchanged")
		return nil
	}
	return a.gallery.Rename(ctx, v.ID, title)
}

// Delete removes the video ref points at after a confirmation.
func (a *App) Delete(ctx context.Context, ref string) error {
	v, err := a.pick(ctx, ref, "Video to delete (number or id)")
	if err != nil {
		return err
	}

	ok, err := Confirm(a.reader, fmt.Sprintf("Delete %q?", v.Title), a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.notifier.Info("Delete cancelled")
		return nil
	}
	return a.gallery.Remove(ctx, v.ID)
}

// pick resolves ref to a video, asking for it when ref is empty. ref is a
// 1-based position in the last listing or a video id.
func (a *App) pick(ctx context.Context, ref, prompt string) (models.Video, error) {
	var err error
	if ref == "" {
		if ref, err = GetSimpleText(a.reader, prompt, a.out); err != nil {
			return models.Video{}, err
		}
	}

	items := a.gallery.Videos()
	if len(items) == 0 {
		if items, err = a.gallery.Refresh(ctx); err != nil {
			return models.Video{}, err
		}
	}

	if v, ok := findVideo(items, ref); ok {
		return v, nil
	}
	a.notifier.Error("No such video: " + ref)
	return models.Video{}, fmt.Errorf("%s: %w", ref, errUnknownVideo)
}

func findVideo(items []models.Video, ref string) (models.Video, bool) {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(items) {
		return items[n-1], true
	}
	for _, v := range items {
		if v.ID == ref {
			return v, true
		}
	}
	return models.Video{}, false
}
