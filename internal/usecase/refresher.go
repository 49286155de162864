package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"Mercado/internal/domain/models"
	"Mercado/internal/domain/repository"
	"Mercado/pkg/logger"
)

// Refresher owns the single published chart slot. It classifies the
// selected asset name, then polls market data on a fixed cadence and
// rebuilds the Renko chart.
//
// Every select or stop bumps a generation counter; each in-flight fetch
// carries the generation it was started under and its result is applied
// only if the generation still matches. A response from a previous
// selection can therefore never overwrite the current chart, no matter
// how late it lands.
type Refresher struct {
	market  repository.MarketData
	cls     repository.Classifier
	metrics repository.Metrics
	logger  *logger.Logger

	interval time.Duration
	lookback time.Duration

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	snap   models.ChartSnapshot
	subs   map[chan models.ChartSnapshot]struct{}
	pub    repository.SnapshotPublisher
}

// NewRefresher creates a refresh controller. No asset is selected and
// nothing is polled until Select is called.
func NewRefresher(
	market repository.MarketData,
	cls repository.Classifier,
	metrics repository.Metrics,
	log *logger.Logger,
	interval time.Duration,
	lookback time.Duration,
) *Refresher {
	return &Refresher{
		market:   market,
		cls:      cls,
		metrics:  metrics,
		logger:   log,
		interval: interval,
		lookback: lookback,
		snap:     models.ChartSnapshot{State: models.StateIdle, Bricks: []models.Brick{}},
		subs:     make(map[chan models.ChartSnapshot]struct{}),
	}
}

// SetPublisher attaches an optional snapshot fan-out sink.
func (r *Refresher) SetPublisher(pub repository.SnapshotPublisher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pub = pub
}

// Select classifies the given name and, when the classification carries a
// market-data key, starts the polling loop for it. The previous selection
// is retired immediately: its generation is invalidated before the first
// fetch for the new asset goes out.
//
// A classification without a market-data key still publishes a snapshot
// (sentiment, summary, icon) but never polls.
func (r *Refresher) Select(ctx context.Context, name string) (models.Classification, error) {
	cls, err := r.cls.Classify(ctx, name)
	if err != nil {
		r.metrics.RecordError("classify")
		return models.Classification{}, fmt.Errorf("classify %q: %w", name, err)
	}
	r.metrics.RecordClassification(string(cls.Sentiment))

	r.mu.Lock()
	r.gen++
	gen := r.gen
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}

	snap := models.ChartSnapshot{
		Asset:          cls.AssetID,
		Name:           name,
		Classification: &cls,
		Bricks:         []models.Brick{},
	}

	if cls.AssetID == "" {
		snap.State = models.StateReady
		r.snap = snap
		r.mu.Unlock()
		r.logger.Info("selected name has no market key, chart disabled",
			logger.String("name", name))
		r.broadcast(snap)
		return cls, nil
	}

	snap.State = models.StateFetching
	r.snap = snap

	loopCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.mu.Unlock()

	r.logger.Info("asset selected",
		logger.String("name", name),
		logger.String("asset", cls.AssetID),
		logger.Duration("interval", r.interval))

	r.broadcast(snap)
	go r.run(loopCtx, gen, cls.AssetID, name)

	return cls, nil
}

// run fetches once immediately, then on every tick until cancelled.
func (r *Refresher) run(ctx context.Context, gen uint64, asset, name string) {
	r.refresh(ctx, gen, asset, name)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx, gen, asset, name)
		}
	}
}

// RefreshNow forces an immediate refresh of the current selection,
// outside the regular cadence. No-op when nothing is selected or the
// selection has no market key.
func (r *Refresher) RefreshNow(ctx context.Context) error {
	r.mu.Lock()
	gen := r.gen
	asset := r.snap.Asset
	name := r.snap.Name
	r.mu.Unlock()

	if asset == "" {
		return models.ErrNoMarketKey
	}

	r.refresh(ctx, gen, asset, name)
	return nil
}

// refresh performs one fetch-convert-apply cycle for the given generation.
func (r *Refresher) refresh(ctx context.Context, gen uint64, asset, name string) {
	start := time.Now()
	bars, err := r.market.FetchBars(ctx, asset, r.lookback)
	r.metrics.RecordFetchLatency(asset, time.Since(start).Seconds())

	var chart models.RenkoChart
	if err == nil {
		chart, err = BuildChart(bars)
	}

	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		r.metrics.RecordRefresh(asset, "stale")
		r.logger.Debug("discarding stale refresh result",
			logger.String("asset", asset))
		return
	}

	now := time.Now()
	snap := r.snap
	snap.LastRefreshedAt = &now

	if err != nil {
		snap.State = models.StateFailed
		snap.Bricks = []models.Brick{}
		snap.HighMarker = nil
		snap.LowMarker = nil
		snap.Error = fmt.Sprintf("chart for %q is unavailable: %v", name, err)
		r.snap = snap
		r.mu.Unlock()

		r.metrics.RecordRefresh(asset, "error")
		r.metrics.RecordError("fetch")
		r.logger.Error("chart refresh failed",
			logger.String("asset", asset),
			logger.Error(err))
		r.broadcast(snap)
		return
	}

	snap.State = models.StateReady
	snap.Bricks = chart.Bricks
	if snap.Bricks == nil {
		snap.Bricks = []models.Brick{}
	}
	snap.HighMarker = chart.High
	snap.LowMarker = chart.Low
	snap.Error = ""
	r.snap = snap
	r.mu.Unlock()

	r.metrics.RecordRefresh(asset, "ok")
	r.metrics.RecordBrickCount(asset, len(snap.Bricks))
	r.logger.Debug("chart refreshed",
		logger.String("asset", asset),
		logger.Int("bricks", len(snap.Bricks)))
	r.broadcast(snap)
}

// Stop retires the current selection. Any in-flight fetch is cancelled
// and its result, should it still arrive, is discarded by the generation
// guard.
func (r *Refresher) Stop() {
	r.mu.Lock()
	r.gen++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	snap := models.ChartSnapshot{State: models.StateIdle, Bricks: []models.Brick{}}
	r.snap = snap
	r.mu.Unlock()

	r.logger.Info("selection cleared")
	r.broadcast(snap)
}

// Snapshot returns a copy of the current published chart slot.
func (r *Refresher) Snapshot() models.ChartSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// Subscribe registers a snapshot listener. The returned cancel function
// must be called when the listener goes away. Slow listeners miss
// intermediate snapshots rather than blocking the refresher.
func (r *Refresher) Subscribe() (<-chan models.ChartSnapshot, func()) {
	ch := make(chan models.ChartSnapshot, 4)

	r.mu.Lock()
	r.subs[ch] = struct{}{}
	r.mu.Unlock()

	return ch, func() {
		r.mu.Lock()
		delete(r.subs, ch)
		r.mu.Unlock()
	}
}

func (r *Refresher) broadcast(snap models.ChartSnapshot) {
	r.mu.Lock()
	pub := r.pub
	for ch := range r.subs {
		select {
		case ch <- snap:
		default:
		}
	}
	r.mu.Unlock()

	if pub != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := pub.Publish(ctx, snap); err != nil {
			r.metrics.RecordError("publish")
			r.logger.Warn("snapshot publish failed", logger.Error(err))
		}
	}
}
