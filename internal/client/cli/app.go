package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/vidgallery/internal/client/client"
	"github.com/dmitrijs2005/vidgallery/internal/client/config"
	"github.com/dmitrijs2005/vidgallery/internal/client/feed"
	"github.com/dmitrijs2005/vidgallery/internal/client/media"
	"github.com/dmitrijs2005/vidgallery/internal/client/metrics"
	"github.com/dmitrijs2005/vidgallery/internal/client/notify"
	"github.com/dmitrijs2005/vidgallery/internal/client/player"
	"github.com/dmitrijs2005/vidgallery/internal/client/preload"
	"github.com/dmitrijs2005/vidgallery/internal/client/services"
	"github.com/dmitrijs2005/vidgallery/internal/client/tui"
	"github.com/dmitrijs2005/vidgallery/internal/logging"
)

// feedRunner shows the feed and returns where the user left it.
type feedRunner func(ctx context.Context, m tui.Model) (tui.Result, error)

type App struct {
	config   *config.Config
	gallery  services.GalleryService
	session  services.SessionService
	notifier *notify.Service
	resolver media.Resolver
	factory  player.Factory
	preload  feed.Preloader
	metrics  *metrics.Metrics
	log      logging.Logger

	reader  *bufio.Reader
	out     io.Writer
	runFeed feedRunner
	width   func() int

	closers []func() error
}

// NewApp wires every dependency from c. The caller must Close the app.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Discard()
	}

	db, err := client.OpenStore(ctx, c.StorePath())
	if err != nil {
		log.Error(ctx, "error initializing database", "err", err)
		return nil, err
	}

	m := metrics.New()
	out := io.Writer(os.Stdout)
	n := notify.New(out, notify.DefaultCapacity)

	api := client.NewHTTPClient(c.APIBaseURL, client.Options{
		RequestTimeout: c.RequestTimeout,
		UploadTimeout:  c.UploadTimeout,
		Logger:         log,
		Metrics:        m,
	})

	var factory player.Factory = player.NewVirtualFactory()
	if c.PlayerCommand != "" {
		ef, err := player.NewExecFactory(c.PlayerCommand, log)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		factory = ef
	}

	hinter := preload.NewHinter(preload.Options{
		Bytes:   c.PreloadBytes,
		Timeout: c.RequestTimeout,
		Logger:  log,
		Metrics: m,
	})

	a := &App{
		config:   c,
		gallery:  services.NewGalleryService(api, n, log),
		session:  services.NewSessionService(db),
		notifier: n,
		resolver: media.NewResolver(c.MediaBaseURL),
		factory:  factory,
		preload:  hinter,
		metrics:  m,
		log:      log.With("component", "cli"),
		reader:   bufio.NewReader(os.Stdin),
		out:      out,
		runFeed:  runFeedProgram,
		width:    terminalWidth,
	}
	a.closers = append(a.closers,
		func() error { hinter.Close(); return nil },
		func() error { return closeDB(db) },
	)
	return a, nil
}

func closeDB(db *sql.DB) error {
	if err := db.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// Close releases the store and stops background preloads.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// Run blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to vidgallery (type 'help' for commands)")
	runREPL(ctx, a, a.reader)
}

func runFeedProgram(ctx context.Context, m tui.Model) (tui.Result, error) {
	return tui.Run(ctx, m)
}

func (a *App) println(args ...any) {
	_, _ = fmt.Fprintln(a.out, args...)
}
