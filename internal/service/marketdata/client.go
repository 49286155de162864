package marketdata

import (
	"context"
	"fmt"
	"math"
	"time"

	"Mercado/internal/domain/models"
	httpclient "Mercado/pkg/http"
	"Mercado/pkg/logger"
)

// Client fetches OHLC candles from a CoinGecko-compatible market data API.
type Client struct {
	http       *httpclient.Client
	baseURL    string
	vsCurrency string
	logger     *logger.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithVsCurrency sets the quote currency for OHLC requests.
func WithVsCurrency(cur string) Option {
	return func(c *Client) {
		c.vsCurrency = cur
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http = httpclient.NewClient(httpclient.WithTimeout(timeout))
	}
}

// NewClient creates a market data client.
func NewClient(baseURL string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		http:       httpclient.NewClient(),
		baseURL:    baseURL,
		vsCurrency: "usd",
		logger:     log,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchBars fetches OHLC candles for the asset covering the lookback window.
// The upstream returns rows of [timestamp_ms, open, high, low, close].
func (c *Client) FetchBars(ctx context.Context, assetID string, lookback time.Duration) ([]models.Bar, error) {
	if assetID == "" {
		return nil, models.ErrNoMarketKey
	}

	days := int(math.Ceil(lookback.Hours() / 24))
	if days < 1 {
		days = 1
	}

	var rows [][]float64
	err := c.http.SendAndParse(ctx, &httpclient.RequestOptions{
		Method: httpclient.MethodGet,
		URL:    fmt.Sprintf("%s/coins/%s/ohlc", c.baseURL, assetID),
		QueryParams: map[string][]string{
			"vs_currency": {c.vsCurrency},
			"days":        {fmt.Sprintf("%d", days)},
		},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrUpstreamUnavailable, err)
	}

	bars := make([]models.Bar, 0, len(rows))
	for i, row := range rows {
		if len(row) < 5 {
			return nil, fmt.Errorf("%w: malformed candle at index %d", models.ErrUpstreamUnavailable, i)
		}
		bars = append(bars, models.Bar{
			Time:  int64(row[0]) / 1000,
			Open:  row[1],
			High:  row[2],
			Low:   row[3],
			Close: row[4],
		})
	}

	c.logger.Debug("fetched market bars",
		logger.String("asset", assetID),
		logger.Int("bars", len(bars)),
		logger.Int("days", days),
	)

	return bars, nil
}
