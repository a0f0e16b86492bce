// Package expiry runs the background sweep that reclaims expired keys a
// client never happened to touch. Lazy reclamation on access (internal/store)
// is what keeps expired keys from ever being *observed*; this sweeper only
// bounds how long an unvisited expired key can sit in memory.
package expiry

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store is the subset of *store.Store the sweeper needs. Defined here,
// rather than imported, so internal/expiry does not depend on internal/store.
type Store interface {
	CleanupPass() int
	DBSize() int64
}

// Sweeper periodically runs a cleanup pass over a Store, adapting its own
// cadence to the observed store-wide reclaim ratio: a store full of expired
// keys gets swept more often, a quiet store gets swept less often. Interval is always
// kept within [min, max] (spec.md §4.3).
type Sweeper struct {
	store    Store
	logger   *zap.Logger
	interval time.Duration
	min      time.Duration
	max      time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// speedUpRatio and slowDownRatio are the reclaim-ratio thresholds that
// trigger an interval adjustment: reclaiming more than 10% of the
// pre-sweep key count halves the interval, reclaiming less than 1%
// doubles it.
const (
	speedUpRatio  = 0.10
	slowDownRatio = 0.01
)

// New creates a Sweeper with the given base interval, clamped between min
// and max. base is typically 100ms, min 10ms, max 1s (spec.md §4.3 defaults).
func New(store Store, base, min, max time.Duration, logger *zap.Logger) *Sweeper {
	interval := base
	if interval < min {
		interval = min
	}
	if interval > max {
		interval = max
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		store:    store,
		logger:   logger,
		interval: interval,
		min:      min,
		max:      max,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Run blocks until ctx (or the Sweeper's own Stop) is canceled, performing
// one cleanup pass every interval and adjusting interval after each pass.
// Callers run it as `go sweeper.Run(ctx)`.
func (sw *Sweeper) Run(ctx context.Context) {
	sw.wg.Add(1)
	defer sw.wg.Done()

	if ctx == nil {
		ctx = sw.ctx
	}

	sw.logger.Info("expiry sweeper started",
		zap.Duration("interval", sw.interval),
		zap.Duration("min", sw.min),
		zap.Duration("max", sw.max))

	timer := time.NewTimer(sw.interval)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			sw.sweepOnce()
			timer.Reset(sw.interval)
		case <-ctx.Done():
			sw.logger.Info("expiry sweeper stopping due to context cancellation")
			return
		case <-sw.ctx.Done():
			sw.logger.Info("expiry sweeper stopping")
			return
		}
	}
}

// Stop cancels the sweeper and waits for Run to return.
func (sw *Sweeper) Stop() {
	sw.cancel()
	sw.wg.Wait()
}

// Interval reports the sweeper's current cadence, mostly for tests and
// diagnostics (INFO could surface it).
func (sw *Sweeper) Interval() time.Duration { return sw.interval }

func (sw *Sweeper) sweepOnce() {
	before := sw.store.DBSize()
	reclaimed := sw.store.CleanupPass()
	sw.adjust(before, reclaimed)
	if reclaimed > 0 {
		sw.logger.Debug("expiry sweep reclaimed keys",
			zap.Int("reclaimed", reclaimed),
			zap.Int64("keys_before", before),
			zap.Duration("interval", sw.interval))
	}
}

func (sw *Sweeper) adjust(before int64, reclaimed int) {
	if before <= 0 {
		return
	}
	ratio := float64(reclaimed) / float64(before)
	switch {
	case ratio > speedUpRatio:
		next := sw.interval / 2
		if next < sw.min {
			next = sw.min
		}
		sw.interval = next
	case ratio < slowDownRatio:
		next := sw.interval * 2
		if next > sw.max {
			next = sw.max
		}
		sw.interval = next
	}
}
