package repository

import (
	"context"
	"time"

	"Mercado/internal/domain/models"
)

// MarketData fetches raw OHLC bars for an asset key over a lookback window.
type MarketData interface {
	FetchBars(ctx context.Context, assetID string, lookback time.Duration) ([]models.Bar, error)
}

// Classifier resolves a free-text asset name to a classification result.
// An empty AssetID in the result means no market-data key is available.
type Classifier interface {
	Classify(ctx context.Context, name string) (models.Classification, error)
}

// SnapshotPublisher fans out applied chart snapshots to external consumers.
type SnapshotPublisher interface {
	Publish(ctx context.Context, snap models.ChartSnapshot) error
	Close() error
}

type Metrics interface {
	RecordRefresh(asset, result string)
	RecordClassification(sentiment string)
	RecordFetchLatency(asset string, seconds float64)
	RecordBrickCount(asset string, n int)
	RecordError(kind string)
}
