/*
scheduler.go - Periodic exchange-rate refresh

PURPOSE:
  Keeps pay_parameters.exchange_rate in line with the official rate by
  calling exchange.Refresher on an interval.

DESIGN:
  - Runs a background goroutine with configurable interval
  - Refreshes once immediately on start
  - A failed refresh is logged and the stored rate stays in effect;
    the next tick tries again

USAGE:
  scheduler := NewRateScheduler(refresher, 6*time.Hour, log)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - payroll.go: RefreshRate endpoint (manual refresh)
  - exchange/refresher.go: Refresh semantics
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/bradycnk/Nominaft/exchange"
	"github.com/bradycnk/Nominaft/logger"
)

// RateScheduler refreshes the exchange rate periodically.
type RateScheduler struct {
	Refresher *exchange.Refresher
	Interval  time.Duration
	Timeout   time.Duration
	Enabled   bool

	log    *logger.Logger
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRateScheduler creates an enabled scheduler.
func NewRateScheduler(refresher *exchange.Refresher, interval time.Duration, log *logger.Logger) *RateScheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &RateScheduler{
		Refresher: refresher,
		Interval:  interval,
		Timeout:   30 * time.Second,
		Enabled:   true,
		log:       log.WithComponent("rate-scheduler"),
	}
}

// Start begins the scheduler. It is a no-op when disabled.
func (rs *RateScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled || rs.Refresher == nil || rs.Interval <= 0 {
		rs.log.Info().Msg("rate scheduler disabled, not starting")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.Interval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)
	go rs.run()

	rs.log.Info().Dur("interval", rs.Interval).Msg("rate scheduler started")
}

// Stop stops the scheduler and waits for an in-flight refresh.
func (rs *RateScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		rs.log.Info().Msg("rate scheduler stopped")
	}
}

func (rs *RateScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.refresh()

	for {
		select {
		case <-rs.ticker.C:
			rs.refresh()
		case <-rs.stop:
			return
		}
	}
}

func (rs *RateScheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), rs.Timeout)
	defer cancel()

	res, err := rs.Refresher.Refresh(ctx)
	if err != nil {
		rs.log.Error().Err(err).
			Bool("fallback", res.Fallback).
			Str("rate", res.Rate.String()).
			Msg("scheduled rate refresh failed")
		return
	}
	if res.Updated {
		rs.log.Info().Str("rate", res.Rate.String()).Msg("scheduled rate refresh applied")
	}
}
