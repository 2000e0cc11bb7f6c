// Package pipeline orchestrates the periodic fetch-classify-publish loop
// and holds the latest report for the HTTP adapter.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/levantkite/windforecast/internal/domain"
	"github.com/levantkite/windforecast/internal/observability"
	"github.com/levantkite/windforecast/internal/report"
)

// Fetcher retrieves every spot's raw forecast series plus model-run
// metadata for one refresh.
type Fetcher interface {
	FetchForecasts(ctx context.Context) (domain.Bundle, error)
}

// Publisher pushes a finished report downstream. Optional.
type Publisher interface {
	PublishSnapshot(ctx context.Context, doc *report.Document) error
}

// Pipeline runs the refresh loop and serves the latest document.
type Pipeline struct {
	fetcher   Fetcher
	publisher Publisher
	cond      domain.Conditions
	window    domain.TimeWindow
	interval  time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics

	latest atomic.Pointer[report.Document]
	ready  atomic.Bool
}

// New creates a Pipeline. publisher may be nil when snapshot publishing is
// disabled.
func New(fetcher Fetcher, publisher Publisher, cond domain.Conditions, window domain.TimeWindow, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		publisher: publisher,
		cond:      cond,
		window:    window,
		interval:  interval,
		logger:    logger,
		metrics:   metrics,
	}
}

// Latest returns the most recent document, or nil before the first
// successful refresh.
func (p *Pipeline) Latest() *report.Document {
	return p.latest.Load()
}

// CheckReadiness returns nil once at least one refresh has succeeded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no forecast refresh has succeeded yet")
	}
	return nil
}

// Run executes the refresh loop until the context is cancelled. Failed
// refreshes retry with exponential backoff instead of waiting the full
// interval; successful ones sleep until the next scheduled refresh.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if err := p.RefreshOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Error("refresh failed", "error", err)
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}

		backoff = 200 * time.Millisecond
		if !sleepWithContext(ctx, p.interval) {
			return nil
		}
	}
}

// RefreshOnce performs one fetch-build-publish cycle and swaps in the new
// document on success.
func (p *Pipeline) RefreshOnce(ctx context.Context) error {
	p.metrics.RefreshTotal.Inc()

	fetchStart := time.Now()
	bundle, err := p.fetcher.FetchForecasts(ctx)
	if err != nil {
		p.metrics.RefreshErrors.Inc()
		return err
	}
	p.metrics.FetchDuration.Observe(time.Since(fetchStart).Seconds())

	buildStart := time.Now()
	doc, stats, err := Build(bundle, p.cond, p.window)
	if err != nil {
		p.metrics.RefreshErrors.Inc()
		return err
	}
	p.metrics.BuildDuration.Observe(time.Since(buildStart).Seconds())
	p.metrics.SamplesDropped.Add(float64(stats.SamplesDropped))
	for spot, hours := range stats.KiteableHours {
		p.metrics.KiteableHours.WithLabelValues(spot).Set(float64(hours))
	}

	p.latest.Store(&doc)
	p.ready.Store(true)
	p.metrics.LastRefreshUnix.Set(float64(time.Now().Unix()))
	p.logger.Info("refresh complete",
		"spots", len(doc.Spots),
		"kiteable_hours", len(doc.Views.KiteableHours),
		"samples_dropped", stats.SamplesDropped,
	)

	if p.publisher != nil {
		if err := p.publisher.PublishSnapshot(ctx, &doc); err != nil {
			// The report is already live; a publish failure only loses
			// the downstream copy.
			p.metrics.PublishErrors.Inc()
			p.logger.Warn("snapshot publish failed", "error", err)
		} else {
			p.metrics.SnapshotsPublished.Add(float64(len(doc.Spots)))
		}
	}
	return nil
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
