// Package timeouts provides the deadlines applied to store and blob
// operations.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks
//   - Short: single-document reads and lookups (identity resolution)
//   - Medium: list queries and single-collection writes
//   - Long: transactions touching several collections (cascading deletes)
//   - Upload: receiving and persisting a file artifact
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
	DefaultUpload = 60 * time.Second
)

var (
	mu     sync.RWMutex
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
	long   = DefaultLong
	upload = DefaultUpload
)

func get(v *time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return *v
}

// Ping returns the timeout for health checks.
func Ping() time.Duration { return get(&ping) }

// Short returns the timeout for single-document reads.
func Short() time.Duration { return get(&short) }

// Medium returns the timeout for lists and simple writes.
func Medium() time.Duration { return get(&medium) }

// Long returns the timeout for multi-collection transactions.
func Long() time.Duration { return get(&long) }

// Upload returns the timeout for storing a file artifact and recording it.
func Upload() time.Duration { return get(&upload) }

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Upload time.Duration
}

// Configure sets custom timeout values. Zero values in cfg keep the current
// value. Call during startup, before handlers are built.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	set := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	set(&ping, cfg.Ping)
	set(&short, cfg.Short)
	set(&medium, cfg.Medium)
	set(&long, cfg.Long)
	set(&upload, cfg.Upload)
}

// Reset restores all timeouts to their default values.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping, short, medium, long, upload = DefaultPing, DefaultShort, DefaultMedium, DefaultLong, DefaultUpload
}

// Current returns the active configuration, for startup logging.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Short: short, Medium: medium, Long: long, Upload: upload}
}

// WithTimeout creates a context with timeout and returns a cancel function that
// logs a warning if the context was canceled due to deadline exceeded.
//
//	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), s.log, "delete internship")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
