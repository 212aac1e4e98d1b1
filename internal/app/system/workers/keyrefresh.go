// internal/app/system/workers/keyrefresh.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Refresher is anything that can reload remote state on demand.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// KeyRefresh is a background worker that keeps the identity verifier's
// signing keys warm so login requests do not pay for a cold fetch.
type KeyRefresh struct {
	src      Refresher
	log      *zap.Logger
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewKeyRefresh creates a refresh worker.
//
// Parameters:
//   - src: the key source to refresh
//   - logger: zap logger for logging
//   - interval: how often to refresh (e.g., 30 minutes)
func NewKeyRefresh(src Refresher, logger *zap.Logger, interval time.Duration) *KeyRefresh {
	return &KeyRefresh{
		src:      src,
		log:      logger,
		interval: interval,
		timeout:  15 * time.Second,
		stopCh:   make(chan struct{}),
	}
}

// Start performs an initial refresh and begins the background loop. A
// failed initial refresh is logged; the verifier fetches lazily on demand.
func (w *KeyRefresh) Start() {
	w.refresh()
	w.wg.Add(1)
	go w.run()
	w.log.Info("signing key refresh worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish. Safe to call
// more than once.
func (w *KeyRefresh) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("signing key refresh worker stopped")
	})
}

func (w *KeyRefresh) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.refresh()
		}
	}
}

func (w *KeyRefresh) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.src.Refresh(ctx); err != nil {
		w.log.Warn("signing key refresh failed", zap.Error(err))
	}
}
