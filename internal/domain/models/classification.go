package models

// Sentiment is the classification verdict for an asset name.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Classification is the result of resolving a free-text asset name.
// AssetID keys the market-data fetch; an empty AssetID means the
// classifier found no market-data key for the name.
type Classification struct {
	Sentiment Sentiment `json:"sentiment"`
	Summary   string    `json:"summary"`
	Icon      string    `json:"icon"`
	AssetID   string    `json:"assetId"`
}
