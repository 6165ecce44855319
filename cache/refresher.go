package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"quizhub-backend/models"
)

// FetchFunc pulls the authoritative category list, from the store or from
// the question service.
type FetchFunc func(ctx context.Context) ([]models.Category, error)

// Refresher keeps a FileCache in sync with a FetchFunc. It refreshes once
// at start, on every interval tick (if an interval is set), and whenever
// Trigger is called after a category mutation. A failed fetch leaves the
// existing snapshot untouched.
type Refresher struct {
	cache    *FileCache
	fetch    FetchFunc
	interval time.Duration
	log      *slog.Logger

	kick chan struct{}
	done chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
}

func NewRefresher(cache *FileCache, fetch FetchFunc, interval time.Duration, log *slog.Logger) *Refresher {
	return &Refresher{
		cache:    cache,
		fetch:    fetch,
		interval: interval,
		log:      log,
		kick:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start launches the refresh goroutine. With interval <= 0 only the startup
// refresh and Trigger kicks run. Subsequent calls are no-ops.
func (r *Refresher) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		go r.run(ctx)
	})
}

func (r *Refresher) run(ctx context.Context) {
	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	if err := r.Refresh(ctx); err != nil {
		r.log.Error("initial category refresh failed", "error", err)
	}

	for {
		select {
		case <-tick:
		case <-r.kick:
		case <-ctx.Done():
			return
		case <-r.done:
			return
		}
		if err := r.Refresh(ctx); err != nil {
			r.log.Error("category refresh failed", "error", err)
		}
	}
}

// Trigger requests an asynchronous refresh. It never blocks; a refresh
// already pending is enough.
func (r *Refresher) Trigger() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Refresh fetches the category list and replaces the snapshot. On fetch
// failure the old snapshot stays in place and readers keep working.
func (r *Refresher) Refresh(ctx context.Context) error {
	categories, err := r.fetch(ctx)
	if err != nil {
		return err
	}
	if err := r.cache.Write(categories); err != nil {
		return err
	}
	r.log.Info("category snapshot refreshed", "categories", len(categories))
	return nil
}

// Stop halts the refresh goroutine. Safe to call more than once and
// concurrently with a running refresh loop.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
	})
}
