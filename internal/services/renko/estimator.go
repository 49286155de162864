package renko

import (
	"math"

	"Mercado/internal/domain/models"
)

// sizeFloorPct floors the brick size at 0.5% of the last close so a flat
// price stretch never yields zero-size bricks.
const sizeFloorPct = 0.005

// MeanTrueRange returns the arithmetic mean of the true ranges over all
// consecutive bar pairs. The average runs over the whole series, not a
// trailing window; with the one-week feeds this service consumes the two
// are close enough, and the whole-series mean stays stable for short series.
func MeanTrueRange(bars []models.Bar) (float64, error) {
	if len(bars) < 2 {
		return 0, models.ErrInsufficientData
	}
	var sum float64
	for i := 1; i < len(bars); i++ {
		sum += trueRange(bars[i-1], bars[i])
	}
	return sum / float64(len(bars)-1), nil
}

func trueRange(prev, cur models.Bar) float64 {
	tr := cur.High - cur.Low
	if d := math.Abs(cur.High - prev.Close); d > tr {
		tr = d
	}
	if d := math.Abs(cur.Low - prev.Close); d > tr {
		tr = d
	}
	return tr
}

// BrickSize derives the adaptive brick size for a bar series: the mean
// true range, floored at 0.5% of the last close.
func BrickSize(bars []models.Bar) (float64, error) {
	mtr, err := MeanTrueRange(bars)
	if err != nil {
		return 0, err
	}
	floor := bars[len(bars)-1].Close * sizeFloorPct
	if mtr < floor {
		return floor, nil
	}
	return mtr, nil
}
