package usecase

import (
	"Mercado/internal/domain/models"
	"Mercado/internal/services/renko"
)

// BuildChart turns a raw bar series into a Renko chart. Fewer than two
// bars cannot seed a brick size, so the result is an empty chart rather
// than an error: a thin feed is a presentation concern, not a failure.
func BuildChart(bars []models.Bar) (models.RenkoChart, error) {
	if len(bars) < 2 {
		return models.RenkoChart{Bricks: []models.Brick{}}, nil
	}

	size, err := renko.BrickSize(bars)
	if err != nil {
		return models.RenkoChart{}, err
	}

	return renko.Convert(bars, size)
}
