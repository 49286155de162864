package models

import "time"

// Brick is a synthetic Renko unit. High/Low always equal
// max/min(Open, Close); bricks carry no intrabar wick information.
// Multiple bricks produced by one bar share that bar's Time.
type Brick struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Up reports brick direction.
func (b Brick) Up() bool { return b.Close > b.Open }

// MarkerRole tags an extremum marker as the series high or low.
type MarkerRole string

const (
	RoleHigh MarkerRole = "high"
	RoleLow  MarkerRole = "low"
)

// ExtremumMarker annotates the single highest high or lowest low of the
// raw bar series with the time of the bar that set the record.
type ExtremumMarker struct {
	Time  int64      `json:"time"`
	Price float64    `json:"price"`
	Role  MarkerRole `json:"role"`
}

// RenkoChart is the output of one converter run.
type RenkoChart struct {
	Bricks []Brick
	High   *ExtremumMarker
	Low    *ExtremumMarker
}

// ChartState is the refresh controller state exposed on snapshots.
type ChartState string

const (
	StateIdle     ChartState = "idle"
	StateFetching ChartState = "fetching"
	StateReady    ChartState = "ready"
	StateFailed   ChartState = "failed"
)

// ChartSnapshot is the single published chart slot. It is replaced
// wholesale on every applied refresh and read-only to consumers.
type ChartSnapshot struct {
	Asset           string          `json:"asset"`
	Name            string          `json:"name"`
	State           ChartState      `json:"state"`
	Classification  *Classification `json:"classification,omitempty"`
	Bricks          []Brick         `json:"bricks"`
	HighMarker      *ExtremumMarker `json:"highMarker,omitempty"`
	LowMarker       *ExtremumMarker `json:"lowMarker,omitempty"`
	LastRefreshedAt *time.Time      `json:"lastRefreshedAt,omitempty"`
	Error           string          `json:"error,omitempty"`
}
