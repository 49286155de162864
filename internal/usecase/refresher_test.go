package usecase

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"Mercado/internal/domain/models"
	"Mercado/pkg/logger"
)

type fakeMarket struct {
	calls atomic.Int64
	fn    func(ctx context.Context, assetID string) ([]models.Bar, error)
}

func (f *fakeMarket) FetchBars(ctx context.Context, assetID string, _ time.Duration) ([]models.Bar, error) {
	f.calls.Add(1)
	return f.fn(ctx, assetID)
}

type fakeClassifier struct {
	byName map[string]models.Classification
	err    error
}

func (f *fakeClassifier) Classify(_ context.Context, name string) (models.Classification, error) {
	if f.err != nil {
		return models.Classification{}, f.err
	}
	return f.byName[name], nil
}

type nopMetrics struct{}

func (nopMetrics) RecordRefresh(string, string)       {}
func (nopMetrics) RecordClassification(string)        {}
func (nopMetrics) RecordFetchLatency(string, float64) {}
func (nopMetrics) RecordBrickCount(string, int)       {}
func (nopMetrics) RecordError(string)                 {}

func testBars() []models.Bar {
	return []models.Bar{
		{Time: 0, Open: 100, High: 105, Low: 95, Close: 100},
		{Time: 1, Open: 100, High: 110, Low: 100, Close: 110},
	}
}

func newTestRefresher(t *testing.T, market *fakeMarket, cls *fakeClassifier) *Refresher {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	// Hour-long interval: only the immediate fetch on Select fires during
	// a test; later cycles are driven explicitly through RefreshNow.
	return NewRefresher(market, cls, nopMetrics{}, log, time.Hour, 7*24*time.Hour)
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting: %s", msg)
}

func TestSelectPublishesChart(t *testing.T) {
	market := &fakeMarket{fn: func(context.Context, string) ([]models.Bar, error) {
		return testBars(), nil
	}}
	cls := &fakeClassifier{byName: map[string]models.Classification{
		"Bitcoin": {Sentiment: models.SentimentPositive, AssetID: "bitcoin"},
	}}
	r := newTestRefresher(t, market, cls)
	defer r.Stop()

	got, err := r.Select(context.Background(), "Bitcoin")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got.AssetID != "bitcoin" {
		t.Fatalf("unexpected classification %+v", got)
	}

	waitFor(t, func() bool {
		return r.Snapshot().State == models.StateReady
	}, "chart ready")

	snap := r.Snapshot()
	if snap.Asset != "bitcoin" || snap.Name != "Bitcoin" {
		t.Fatalf("unexpected snapshot identity %+v", snap)
	}
	if len(snap.Bricks) != 1 {
		t.Fatalf("expected 1 brick, got %d", len(snap.Bricks))
	}
	if snap.HighMarker == nil || snap.HighMarker.Price != 110 {
		t.Fatalf("unexpected high marker %+v", snap.HighMarker)
	}
	if snap.LastRefreshedAt == nil {
		t.Fatalf("expected LastRefreshedAt to be set")
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	market := &fakeMarket{fn: func(ctx context.Context, assetID string) ([]models.Bar, error) {
		if assetID == "slowcoin" {
			select {
			case <-release:
			case <-ctx.Done():
			}
			// Answer even after cancellation: the generation guard,
			// not the context, must keep this out of the snapshot.
			return []models.Bar{
				{Time: 0, Open: 1, High: 2, Low: 0, Close: 1},
				{Time: 1, Open: 1, High: 3, Low: 1, Close: 3},
			}, nil
		}
		return testBars(), nil
	}}
	cls := &fakeClassifier{byName: map[string]models.Classification{
		"Slow": {Sentiment: models.SentimentNeutral, AssetID: "slowcoin"},
		"Fast": {Sentiment: models.SentimentPositive, AssetID: "fastcoin"},
	}}
	r := newTestRefresher(t, market, cls)
	defer r.Stop()

	if _, err := r.Select(context.Background(), "Slow"); err != nil {
		t.Fatalf("Select slow: %v", err)
	}
	waitFor(t, func() bool { return market.calls.Load() == 1 }, "slow fetch in flight")

	if _, err := r.Select(context.Background(), "Fast"); err != nil {
		t.Fatalf("Select fast: %v", err)
	}
	waitFor(t, func() bool {
		return r.Snapshot().State == models.StateReady
	}, "fast chart ready")

	close(release)

	// Give the stale result a chance to land, then verify it did not.
	time.Sleep(50 * time.Millisecond)
	snap := r.Snapshot()
	if snap.Asset != "fastcoin" {
		t.Fatalf("stale response overwrote snapshot: %+v", snap)
	}
	if snap.HighMarker == nil || snap.HighMarker.Price != 110 {
		t.Fatalf("stale data leaked into snapshot: %+v", snap.HighMarker)
	}
}

func TestFetchFailureClearsChart(t *testing.T) {
	var fail atomic.Bool
	market := &fakeMarket{fn: func(context.Context, string) ([]models.Bar, error) {
		if fail.Load() {
			return nil, models.ErrUpstreamUnavailable
		}
		return testBars(), nil
	}}
	cls := &fakeClassifier{byName: map[string]models.Classification{
		"Bitcoin": {AssetID: "bitcoin"},
	}}
	r := newTestRefresher(t, market, cls)
	defer r.Stop()

	if _, err := r.Select(context.Background(), "Bitcoin"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	waitFor(t, func() bool { return r.Snapshot().State == models.StateReady }, "first chart ready")

	fail.Store(true)
	if err := r.RefreshNow(context.Background()); err != nil {
		t.Fatalf("RefreshNow: %v", err)
	}

	snap := r.Snapshot()
	if snap.State != models.StateFailed {
		t.Fatalf("expected failed state, got %q", snap.State)
	}
	if len(snap.Bricks) != 0 || snap.HighMarker != nil || snap.LowMarker != nil {
		t.Fatalf("failed refresh must clear the chart: %+v", snap)
	}
	if !strings.Contains(snap.Error, "Bitcoin") {
		t.Fatalf("error message must name the requested asset: %q", snap.Error)
	}

	// The loop keeps going: the next successful cycle restores the chart.
	fail.Store(false)
	if err := r.RefreshNow(context.Background()); err != nil {
		t.Fatalf("RefreshNow: %v", err)
	}
	if snap := r.Snapshot(); snap.State != models.StateReady || len(snap.Bricks) == 0 {
		t.Fatalf("expected recovery, got %+v", snap)
	}
}

func TestNoMarketKeySkipsPolling(t *testing.T) {
	market := &fakeMarket{fn: func(context.Context, string) ([]models.Bar, error) {
		return testBars(), nil
	}}
	cls := &fakeClassifier{byName: map[string]models.Classification{
		"The Weather": {Sentiment: models.SentimentNeutral, Summary: "not tradable"},
	}}
	r := newTestRefresher(t, market, cls)
	defer r.Stop()

	got, err := r.Select(context.Background(), "The Weather")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got.AssetID != "" {
		t.Fatalf("unexpected asset id %q", got.AssetID)
	}

	snap := r.Snapshot()
	if snap.State != models.StateReady {
		t.Fatalf("classification-only snapshot should be ready, got %q", snap.State)
	}
	if snap.Classification == nil || snap.Classification.Summary != "not tradable" {
		t.Fatalf("classification missing from snapshot: %+v", snap)
	}
	if len(snap.Bricks) != 0 {
		t.Fatalf("expected no bricks, got %d", len(snap.Bricks))
	}

	time.Sleep(50 * time.Millisecond)
	if n := market.calls.Load(); n != 0 {
		t.Fatalf("market must not be polled without a key, got %d calls", n)
	}

	if err := r.RefreshNow(context.Background()); !errors.Is(err, models.ErrNoMarketKey) {
		t.Fatalf("expected ErrNoMarketKey, got %v", err)
	}
}

func TestStopDiscardsPendingResult(t *testing.T) {
	release := make(chan struct{})
	market := &fakeMarket{fn: func(ctx context.Context, _ string) ([]models.Bar, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return testBars(), nil
	}}
	cls := &fakeClassifier{byName: map[string]models.Classification{
		"Bitcoin": {AssetID: "bitcoin"},
	}}
	r := newTestRefresher(t, market, cls)

	if _, err := r.Select(context.Background(), "Bitcoin"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	waitFor(t, func() bool { return market.calls.Load() == 1 }, "fetch in flight")

	r.Stop()
	close(release)

	time.Sleep(50 * time.Millisecond)
	snap := r.Snapshot()
	if snap.State != models.StateIdle {
		t.Fatalf("expected idle after stop, got %q", snap.State)
	}
	if len(snap.Bricks) != 0 {
		t.Fatalf("pending result leaked into snapshot")
	}
}

func TestClassifyFailureLeavesSnapshotUntouched(t *testing.T) {
	market := &fakeMarket{fn: func(context.Context, string) ([]models.Bar, error) {
		return testBars(), nil
	}}
	cls := &fakeClassifier{byName: map[string]models.Classification{
		"Bitcoin": {AssetID: "bitcoin"},
	}}
	r := newTestRefresher(t, market, cls)
	defer r.Stop()

	if _, err := r.Select(context.Background(), "Bitcoin"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	waitFor(t, func() bool { return r.Snapshot().State == models.StateReady }, "chart ready")

	cls.err = models.ErrUpstreamUnavailable
	if _, err := r.Select(context.Background(), "Ethereum"); !errors.Is(err, models.ErrUpstreamUnavailable) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	if snap := r.Snapshot(); snap.Asset != "bitcoin" {
		t.Fatalf("failed select must not disturb current snapshot: %+v", snap)
	}
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	market := &fakeMarket{fn: func(context.Context, string) ([]models.Bar, error) {
		return testBars(), nil
	}}
	cls := &fakeClassifier{byName: map[string]models.Classification{
		"Bitcoin": {AssetID: "bitcoin"},
	}}
	r := newTestRefresher(t, market, cls)
	defer r.Stop()

	ch, cancel := r.Subscribe()
	defer cancel()

	if _, err := r.Select(context.Background(), "Bitcoin"); err != nil {
		t.Fatalf("Select: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-ch:
			if snap.State == models.StateReady && len(snap.Bricks) == 1 {
				return
			}
		case <-deadline:
			t.Fatalf("no ready snapshot received")
		}
	}
}
