// Package scheduler periodically refreshes registered currency prices from
// the external feed. Each run walks the full currency set in fixed-size
// batches: tasks inside a batch run in parallel, batches run sequentially,
// and a single currency's failure never touches its siblings.
package scheduler

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"cryptowallet/internal/feed"
	"cryptowallet/internal/logger"
	"cryptowallet/internal/models"
	"cryptowallet/internal/services"
)

// RunResult contains the outcome of a single refresh run.
type RunResult struct {
	Total    int           `json:"total"`
	Updated  int           `json:"updated"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"-"`
}

// Scheduler drives the periodic price refresh.
type Scheduler struct {
	feed       feed.PriceFeed
	currencies services.CurrencyServicer
	interval   time.Duration
	batchSize  int

	// runMu serializes refresh runs; the ticker loop and the manual
	// refresh endpoint share the same currency set.
	runMu sync.Mutex

	stop chan struct{}
	done chan struct{}
}

// New creates a Scheduler. batchSize bounds the number of in-flight fetch
// tasks at any instant.
func New(priceFeed feed.PriceFeed, currencies services.CurrencyServicer, interval time.Duration, batchSize int) *Scheduler {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Scheduler{
		feed:       priceFeed,
		currencies: currencies,
		interval:   interval,
		batchSize:  batchSize,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start launches the refresh loop in its own goroutine. Runs execute
// synchronously inside that goroutine, so a slow run makes ticks coalesce;
// two runs can never overlap on the same currency set.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		logger.Get().Infow("price refresh scheduler started",
			"interval", s.interval.String(),
			"batch_size", s.batchSize,
		)
		for {
			select {
			case <-ticker.C:
				s.RunOnce(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop terminates the refresh loop and waits for it to exit. An in-flight
// external call is allowed to run to its transport timeout; there is no
// early abort.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

// RunOnce executes a single refresh pass over all registered currencies.
// Runs are serialized: a call made while another run is in flight blocks
// until that run finishes, so at most batchSize fetch tasks exist at any
// instant no matter how many callers trigger a refresh.
func (s *Scheduler) RunOnce(ctx context.Context) RunResult {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	log := logger.Get()
	start := time.Now()

	currencies, err := s.currencies.All()
	if err != nil {
		log.Errorw("price refresh: failed to read currency set", "error", err.Error())
		return RunResult{Duration: time.Since(start)}
	}
	if len(currencies) == 0 {
		log.Infow("price refresh: no currencies registered")
		return RunResult{Duration: time.Since(start)}
	}

	result := RunResult{Total: len(currencies)}
	for batchStart := 0; batchStart < len(currencies); batchStart += s.batchSize {
		batchEnd := min(batchStart+s.batchSize, len(currencies))
		updated := s.refreshBatch(ctx, currencies[batchStart:batchEnd])
		result.Updated += updated
	}
	result.Failed = result.Total - result.Updated
	result.Duration = time.Since(start)

	log.Infow("price refresh run completed",
		"total", result.Total,
		"updated", result.Updated,
		"failed", result.Failed,
		"duration", result.Duration.String(),
	)
	return result
}

// refreshBatch refreshes one batch with full internal parallelism and waits
// for every task to finish before returning. Task failures are logged and
// swallowed so sibling tasks and later batches proceed; the failing
// currency keeps its old price until the next run.
func (s *Scheduler) refreshBatch(ctx context.Context, batch []models.Currency) int {
	log := logger.Get()

	var g errgroup.Group
	results := make([]bool, len(batch))
	for i := range batch {
		currency := batch[i]
		idx := i
		g.Go(func() error {
			price, err := s.feed.SpotPrice(ctx, currency.Name)
			if err != nil {
				log.Errorw("price refresh: fetch failed",
					"symbol", currency.Symbol,
					"error", err.Error(),
				)
				return nil
			}
			if err := s.currencies.UpdatePrice(currency.ID, price, time.Now()); err != nil {
				log.Errorw("price refresh: update failed",
					"symbol", currency.Symbol,
					"error", err.Error(),
				)
				return nil
			}
			results[idx] = true
			log.Debugw("price refresh: updated", "symbol", currency.Symbol, "price", price.String())
			return nil
		})
	}
	// Tasks report failures as nil so one bad currency cannot cancel the
	// group; Wait here is purely a join.
	_ = g.Wait()

	updated := 0
	for _, ok := range results {
		if ok {
			updated++
		}
	}
	return updated
}
