package renko

import (
	"math"

	"Mercado/internal/domain/models"
)

// Convert walks the bar series once and emits fixed-size bricks plus the
// global high/low extremum markers.
//
// The running reference price starts at the first bar's open; each bar's
// close drives the conversion. A bar only emits bricks once the close has
// moved at least one full brick away from the reference, and then emits
// floor(|move|/size) of them, each advancing the reference by exactly one
// brick. All bricks from one bar carry that bar's time: the Renko time
// axis is brick index, not wall clock, so duplicate timestamps are normal.
//
// Extrema are tracked over the raw bars, strict record breaks only, so the
// first bar to reach a price keeps the marker on ties.
func Convert(bars []models.Bar, size float64) (models.RenkoChart, error) {
	if size <= 0 {
		return models.RenkoChart{}, models.ErrInvalidBrickSize
	}
	var chart models.RenkoChart
	if len(bars) == 0 {
		return chart, nil
	}

	ref := bars[0].Open
	high := models.ExtremumMarker{Time: bars[0].Time, Price: bars[0].High, Role: models.RoleHigh}
	low := models.ExtremumMarker{Time: bars[0].Time, Price: bars[0].Low, Role: models.RoleLow}

	for _, b := range bars {
		if b.High > high.Price {
			high.Price = b.High
			high.Time = b.Time
		}
		if b.Low < low.Price {
			low.Price = b.Low
			low.Time = b.Time
		}

		move := b.Close - ref
		if math.Abs(move) < size {
			continue
		}
		step := size
		if move < 0 {
			step = -size
		}
		count := int(math.Floor(math.Abs(move) / size))
		for i := 0; i < count; i++ {
			brick := models.Brick{
				Time:  b.Time,
				Open:  ref,
				Close: ref + step,
				High:  math.Max(ref, ref+step),
				Low:   math.Min(ref, ref+step),
			}
			chart.Bricks = append(chart.Bricks, brick)
			ref = brick.Close
		}
	}

	chart.High = &high
	chart.Low = &low
	return chart, nil
}
