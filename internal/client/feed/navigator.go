package feed

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/vidgallery/internal/client/metrics"
	"github.com/dmitrijs2005/vidgallery/internal/client/models"
	"github.com/dmitrijs2005/vidgallery/internal/client/player"
	"github.com/dmitrijs2005/vidgallery/internal/logging"
)

// Window is how far from the active index a handle stays attached.
const Window = 1

// Resolver maps a record to its media URL; "" means unplayable.
type Resolver interface {
	Resolve(v models.Video) string
}

// Preloader receives best-effort warm-up hints.
type Preloader interface {
	Hint(url string)
}

type Options struct {
	Factory   player.Factory
	Resolver  Resolver
	Preloader Preloader
	Logger    logging.Logger
	Metrics   *metrics.Metrics
}

// Navigator owns the feed state and the arena of media handles. It must be
// driven from a single goroutine.
type Navigator struct {
	state State
	urls  []string
	arena []player.Handle

	factory  player.Factory
	resolver Resolver
	preload  Preloader
	log      logging.Logger
	metrics  *metrics.Metrics
	closed   bool
}

// New opens a navigator on items, positioned on start.
func New(items []models.Video, start int, opts Options) *Navigator {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	n := &Navigator{
		factory:  opts.Factory,
		resolver: opts.Resolver,
		preload:  opts.Preloader,
		log:      opts.Logger.With("component", "feed"),
		metrics:  opts.Metrics,
	}
	n.Open(items, start)
	return n
}

// Open replaces the snapshot. Every handle of the previous list is
// detached first.
func (n *Navigator) Open(items []models.Video, start int) {
	n.detachAll()
	n.closed = false
	n.state = NewStateAt(items, start)
	n.urls = make([]string, len(n.state.Items))
	n.arena = make([]player.Handle, len(n.state.Items))
	if n.resolver != nil {
		for i, v := range n.state.Items {
			n.urls[i] = n.resolver.Resolve(v)
		}
	}
	if len(n.state.Items) == 0 {
		return
	}
	n.activate()
}

func (n *Navigator) State() State { return n.state }

// URL returns the resolved media URL of item i.
func (n *Navigator) URL(i int) string {
	if i < 0 || i >= len(n.urls) {
		return ""
	}
	return n.urls[i]
}

// Handle returns the attached handle of item i, if any.
func (n *Navigator) Handle(i int) (player.Handle, bool) {
	if i < 0 || i >= len(n.arena) || n.arena[i] == nil {
		return nil, false
	}
	return n.arena[i], true
}

// Dispatch applies ev and performs its media effects.
func (n *Navigator) Dispatch(ev Event) State {
	prev := n.state
	n.state = Transition(prev, ev)
	if n.closed {
		return n.state
	}

	switch {
	case n.state.Index != prev.Index:
		dir := Forward
		if n.state.Index < prev.Index {
			dir = Backward
		}
		n.metrics.Navigated(dir.String())
		n.log.Debug(context.Background(), "navigated", "from", prev.Index, "to", n.state.Index)
		n.activate()

	case n.state.Playing != prev.Playing:
		h, ok := n.Handle(n.state.Index)
		if !ok {
			return n.state
		}
		if n.state.Playing {
			n.check("play", h.Play())
		} else {
			n.check("pause", h.Pause())
		}
	}
	return n.state
}

// Close detaches every handle. Dispatch keeps working on the state but no
// longer touches media.
func (n *Navigator) Close() error {
	err := n.detachAll()
	n.closed = true
	return err
}

// activate reconciles the arena with the active index: detach outside the
// window, attach inside it, mute everyone but the active item before
// unmuting it, play it iff playing (pausing it otherwise) and hint the
// next item.
func (n *Navigator) activate() {
	idx := n.state.Index

	for i, h := range n.arena {
		if h != nil && !inWindow(i, idx) {
			n.check("detach", h.Detach())
			n.arena[i] = nil
		}
	}

	for i := max(0, idx-Window); i <= min(len(n.arena)-1, idx+Window); i++ {
		if n.arena[i] != nil || n.urls[i] == "" || n.factory == nil {
			continue
		}
		h, err := n.factory.Attach(n.urls[i])
		if err != nil {
			n.check("attach", err)
			continue
		}
		n.arena[i] = h
	}

	for i, h := range n.arena {
		if h != nil && i != idx && !h.State().Muted {
			n.check("mute", h.SetMuted(true))
		}
	}

	if h := n.arena[idx]; h != nil {
		// A neighbour may still be running muted from an earlier visit.
		if !n.state.Playing && h.State().Playing {
			n.check("pause", h.Pause())
		}
		n.check("unmute", h.SetMuted(false))
		if n.state.Playing {
			n.check("play", h.Play())
		}
	}

	if next := idx + 1; next < len(n.urls) && n.urls[next] != "" && n.preload != nil {
		n.preload.Hint(n.urls[next])
	}
}

func (n *Navigator) detachAll() error {
	var errs []error
	for i, h := range n.arena {
		if h == nil {
			continue
		}
		if err := h.Detach(); err != nil && !errors.Is(err, player.ErrDetached) {
			errs = append(errs, err)
		}
		n.arena[i] = nil
	}
	return errors.Join(errs...)
}

// check logs a media failure; media errors never stop navigation.
func (n *Navigator) check(op string, err error) {
	if err != nil {
		n.log.Warn(context.Background(), "media handle", "op", op, "err", err)
	}
}

func inWindow(i, idx int) bool {
	return i >= idx-Window && i <= idx+Window
}
