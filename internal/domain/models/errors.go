package models

import "errors"

var (
	// ErrInsufficientData means fewer than two bars were supplied to the
	// volatility estimator. Contract violation; callers must guard.
	ErrInsufficientData = errors.New("insufficient data: need at least 2 bars")

	// ErrInvalidBrickSize means a non-positive brick size reached the
	// converter. Contract violation; callers must guard.
	ErrInvalidBrickSize = errors.New("invalid brick size: must be positive")

	// ErrUpstreamUnavailable means the market-data fetch failed or
	// returned a non-success status. Recovered at the refresher boundary.
	ErrUpstreamUnavailable = errors.New("market data unavailable")

	// ErrNoMarketKey means classification returned no market-data key.
	// Fetching is suppressed; the classification result is still surfaced.
	ErrNoMarketKey = errors.New("no market data key for asset")
)
