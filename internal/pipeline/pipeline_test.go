package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levantkite/windforecast/internal/domain"
	"github.com/levantkite/windforecast/internal/observability"
	"github.com/levantkite/windforecast/internal/report"
)

type mockFetcher struct {
	mu     sync.Mutex
	bundle domain.Bundle
	err    error
	calls  int
}

func (m *mockFetcher) FetchForecasts(context.Context) (domain.Bundle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.bundle, m.err
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockPublisher struct {
	mu    sync.Mutex
	err   error
	docs  []*report.Document
	calls int
}

func (m *mockPublisher) PublishSnapshot(_ context.Context, doc *report.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.docs = append(m.docs, doc)
	return m.err
}

func newTestPipeline(f Fetcher, p Publisher) *Pipeline {
	return New(f, p, testConditions(), testWindow(), time.Hour,
		slog.New(slog.DiscardHandler), observability.NewMetricsForTesting())
}

func TestRefreshOnce(t *testing.T) {
	fetcher := &mockFetcher{bundle: testBundle()}
	publisher := &mockPublisher{}
	p := newTestPipeline(fetcher, publisher)

	require.Nil(t, p.Latest())
	require.Error(t, p.CheckReadiness(context.Background()))

	require.NoError(t, p.RefreshOnce(context.Background()))

	doc := p.Latest()
	require.NotNil(t, doc)
	assert.Equal(t, []string{"Levante Point"}, doc.Views.KiteableSpots)
	assert.NoError(t, p.CheckReadiness(context.Background()))

	require.Equal(t, 1, publisher.calls)
	assert.Same(t, doc, publisher.docs[0])

	assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.RefreshTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(p.metrics.RefreshErrors))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.metrics.KiteableHours.WithLabelValues("Levante Point")))
}

func TestRefreshOnceFetchError(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("upstream down")}
	p := newTestPipeline(fetcher, nil)

	err := p.RefreshOnce(context.Background())
	require.Error(t, err)

	assert.Nil(t, p.Latest())
	assert.Error(t, p.CheckReadiness(context.Background()))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.RefreshErrors))
}

func TestRefreshOncePublishFailureIsNonFatal(t *testing.T) {
	fetcher := &mockFetcher{bundle: testBundle()}
	publisher := &mockPublisher{err: errors.New("broker unreachable")}
	p := newTestPipeline(fetcher, publisher)

	require.NoError(t, p.RefreshOnce(context.Background()))

	// the report still went live
	assert.NotNil(t, p.Latest())
	assert.NoError(t, p.CheckReadiness(context.Background()))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.PublishErrors))
	assert.Equal(t, 0.0, testutil.ToFloat64(p.metrics.SnapshotsPublished))
}

func TestRefreshOnceKeepsPreviousDocumentOnFailure(t *testing.T) {
	fetcher := &mockFetcher{bundle: testBundle()}
	p := newTestPipeline(fetcher, nil)

	require.NoError(t, p.RefreshOnce(context.Background()))
	previous := p.Latest()

	fetcher.mu.Lock()
	fetcher.err = errors.New("upstream down")
	fetcher.mu.Unlock()

	require.Error(t, p.RefreshOnce(context.Background()))
	assert.Same(t, previous, p.Latest())
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestRunStopsOnContextCancel(t *testing.T) {
	fetcher := &mockFetcher{bundle: testBundle()}
	p := newTestPipeline(fetcher, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return fetcher.callCount() >= 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline did not stop after cancellation")
	}
	assert.Equal(t, 0.0, testutil.ToFloat64(p.metrics.PipelineRunning))
}

func TestRunRetriesWithBackoff(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("upstream down")}
	p := newTestPipeline(fetcher, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// failed refreshes retry on the backoff schedule, not the hour interval
	require.Eventually(t, func() bool { return fetcher.callCount() >= 3 }, 5*time.Second, 10*time.Millisecond)
	cancel()
	<-done
}
