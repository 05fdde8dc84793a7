// Package preload issues best-effort hints that warm the next feed item.
package preload

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/vidgallery/internal/client/metrics"
	"github.com/dmitrijs2005/vidgallery/internal/logging"
	"github.com/dmitrijs2005/vidgallery/internal/netx"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultBytes   = 1 << 20
	DefaultTTL     = 5 * time.Minute
	DefaultTimeout = 15 * time.Second
	cacheSize      = 128
)

type Options struct {
	// Bytes is how much of each URL to fetch; zero or less disables warming
	// but hints are still de-duplicated and counted.
	Bytes   int64
	TTL     time.Duration
	Timeout time.Duration
	Client  *http.Client
	Logger  logging.Logger
	Metrics *metrics.Metrics
}

// Hinter warms URLs in the background. A URL hinted again within the TTL is
// skipped. Hint never blocks and never reports failure to the caller.
type Hinter struct {
	bytes   int64
	timeout time.Duration
	client  *http.Client
	seen    *expirable.LRU[string, struct{}]
	log     logging.Logger
	metrics *metrics.Metrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewHinter(opts Options) *Hinter {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hinter{
		bytes:   opts.Bytes,
		timeout: opts.Timeout,
		client:  opts.Client,
		seen:    expirable.NewLRU[string, struct{}](cacheSize, nil, opts.TTL),
		log:     opts.Logger.With("component", "preload"),
		metrics: opts.Metrics,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (h *Hinter) Hint(url string) {
	if url == "" {
		return
	}
	if h.seen.Contains(url) {
		h.metrics.Preload(metrics.OutcomeSkipped)
		return
	}
	h.seen.Add(url, struct{}{})

	if h.bytes <= 0 {
		h.metrics.Preload(metrics.OutcomeSkipped)
		return
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ctx, cancel := context.WithTimeout(h.ctx, h.timeout)
		defer cancel()

		n, err := netx.WarmRange(ctx, h.client, url, h.bytes)
		if err != nil {
			// Let a later hint retry.
			h.seen.Remove(url)
			h.metrics.Preload(metrics.OutcomeFailed)
			h.log.Debug(ctx, "preload failed", "url", url, "err", err)
			return
		}
		h.metrics.Preload(metrics.OutcomeOK)
		h.log.Debug(ctx, "preloaded", "url", url, "bytes", n)
	}()
}

// Wait blocks until every hint in flight has finished.
func (h *Hinter) Wait() {
	h.wg.Wait()
}

// Close cancels hints in flight and waits for them.
func (h *Hinter) Close() {
	h.cancel()
	h.wg.Wait()
}
