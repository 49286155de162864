package usecase

import (
	"testing"

	"Mercado/internal/domain/models"
)

func TestBuildChartThinSeries(t *testing.T) {
	for _, bars := range [][]models.Bar{
		nil,
		{},
		{{Time: 0, Open: 100, High: 101, Low: 99, Close: 100}},
	} {
		chart, err := BuildChart(bars)
		if err != nil {
			t.Fatalf("thin series must not error: %v", err)
		}
		if len(chart.Bricks) != 0 {
			t.Fatalf("expected empty chart, got %d bricks", len(chart.Bricks))
		}
		if chart.High != nil || chart.Low != nil {
			t.Fatalf("expected no markers for thin series")
		}
	}
}

func TestBuildChart(t *testing.T) {
	// True ranges: 10 and 10, mean 10; floor is 120*0.005=0.6, so size=10.
	bars := []models.Bar{
		{Time: 0, Open: 100, High: 105, Low: 95, Close: 100},
		{Time: 1, Open: 100, High: 110, Low: 100, Close: 110},
		{Time: 2, Open: 110, High: 120, Low: 110, Close: 120},
	}

	chart, err := BuildChart(bars)
	if err != nil {
		t.Fatalf("BuildChart: %v", err)
	}
	if len(chart.Bricks) != 2 {
		t.Fatalf("expected 2 bricks, got %d", len(chart.Bricks))
	}
	if chart.Bricks[0].Open != 100 || chart.Bricks[0].Close != 110 {
		t.Fatalf("unexpected first brick %+v", chart.Bricks[0])
	}
	if chart.Bricks[1].Open != 110 || chart.Bricks[1].Close != 120 {
		t.Fatalf("unexpected second brick %+v", chart.Bricks[1])
	}
	if chart.High == nil || chart.High.Price != 120 || chart.High.Time != 2 {
		t.Fatalf("unexpected high marker %+v", chart.High)
	}
	if chart.Low == nil || chart.Low.Price != 95 || chart.Low.Time != 0 {
		t.Fatalf("unexpected low marker %+v", chart.Low)
	}
}
