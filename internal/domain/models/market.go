package models

// Bar is one OHLC sample from the market-data provider.
// Time is unix seconds. The provider returns bars in strictly increasing
// time order and the core never re-sorts them.
type Bar struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}
