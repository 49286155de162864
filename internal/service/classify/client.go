package classify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"Mercado/internal/domain/models"
	httpclient "Mercado/pkg/http"
	"Mercado/pkg/logger"
)

// noKeySentinel is what the classifier returns in assetId when the
// name has no market-data key.
const noKeySentinel = "n/a"

// Client resolves asset names against the classification service.
type Client struct {
	http       *httpclient.Client
	serviceURL string
	logger     *logger.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http = httpclient.NewClient(httpclient.WithTimeout(timeout))
	}
}

// NewClient creates a classification client.
func NewClient(serviceURL string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		http:       httpclient.NewClient(),
		serviceURL: serviceURL,
		logger:     log,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type classifyRequest struct {
	Name string `json:"name"`
}

type classifyResponse struct {
	Sentiment string `json:"sentiment"`
	Summary   string `json:"summary"`
	Icon      string `json:"icon"`
	AssetID   string `json:"assetId"`
}

// Classify asks the classification service about a free-text asset name.
// A sentinel assetId from the service is normalized to an empty AssetID.
func (c *Client) Classify(ctx context.Context, name string) (models.Classification, error) {
	var resp classifyResponse
	err := c.http.SendAndParse(ctx, &httpclient.RequestOptions{
		Method: httpclient.MethodPost,
		URL:    c.serviceURL + "/classify",
		Body:   classifyRequest{Name: name},
	}, &resp)
	if err != nil {
		return models.Classification{}, fmt.Errorf("%w: %s", models.ErrUpstreamUnavailable, err)
	}

	assetID := strings.TrimSpace(resp.AssetID)
	if strings.EqualFold(assetID, noKeySentinel) {
		assetID = ""
	}

	result := models.Classification{
		Sentiment: normalizeSentiment(resp.Sentiment),
		Summary:   resp.Summary,
		Icon:      resp.Icon,
		AssetID:   assetID,
	}

	c.logger.Debug("classified asset name",
		logger.String("name", name),
		logger.String("sentiment", string(result.Sentiment)),
		logger.Bool("has_market_key", result.AssetID != ""),
	)

	return result, nil
}

func normalizeSentiment(s string) models.Sentiment {
	switch models.Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case models.SentimentPositive:
		return models.SentimentPositive
	case models.SentimentNegative:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}
