package renko

import (
	"errors"
	"math"
	"testing"

	"Mercado/internal/domain/models"
)

func TestMeanTrueRangeInsufficientData(t *testing.T) {
	if _, err := MeanTrueRange(nil); !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	one := []models.Bar{{Time: 0, Open: 1, High: 1, Low: 1, Close: 1}}
	if _, err := MeanTrueRange(one); !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestMeanTrueRangeConstantPrice(t *testing.T) {
	bars := constantBars(100, 10)
	mtr, err := MeanTrueRange(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mtr != 0 {
		t.Fatalf("expected 0 for constant price, got %v", mtr)
	}
}

func TestMeanTrueRangeKnownValues(t *testing.T) {
	bars := []models.Bar{
		{Time: 0, Open: 100, High: 105, Low: 95, Close: 100},
		{Time: 1, Open: 100, High: 110, Low: 100, Close: 108},
		{Time: 2, Open: 108, High: 109, Low: 99, Close: 101},
	}
	// pair 1: max(110-100, |110-100|, |100-100|) = 10
	// pair 2: max(109-99, |109-108|, |99-108|) = 10
	mtr, err := MeanTrueRange(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mtr != 10 {
		t.Fatalf("expected mean true range 10, got %v", mtr)
	}
}

func TestMeanTrueRangeGapDominates(t *testing.T) {
	bars := []models.Bar{
		{Time: 0, Open: 100, High: 101, Low: 99, Close: 100},
		{Time: 1, Open: 120, High: 121, Low: 119, Close: 120},
	}
	// gap from previous close dominates the high-low spread
	mtr, err := MeanTrueRange(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mtr != 21 {
		t.Fatalf("expected 21, got %v", mtr)
	}
}

func TestBrickSizeFloor(t *testing.T) {
	bars := constantBars(200, 20)
	size, err := BrickSize(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 200 * sizeFloorPct
	if math.Abs(size-want) > 1e-12 {
		t.Fatalf("expected floored size %v, got %v", want, size)
	}
	if size <= 0 {
		t.Fatalf("brick size must stay positive")
	}
}

func TestBrickSizeUsesMeanTrueRange(t *testing.T) {
	bars := []models.Bar{
		{Time: 0, Open: 100, High: 105, Low: 95, Close: 100},
		{Time: 1, Open: 100, High: 110, Low: 100, Close: 108},
	}
	size, err := BrickSize(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size != 10 {
		t.Fatalf("expected size 10 (true range above floor), got %v", size)
	}
}

func constantBars(price float64, n int) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{Time: int64(i), Open: price, High: price, Low: price, Close: price}
	}
	return bars
}
