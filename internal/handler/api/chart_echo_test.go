package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"Mercado/internal/domain/models"
	"Mercado/internal/usecase"
	"Mercado/pkg/logger"
)

type stubMarket struct{}

func (stubMarket) FetchBars(context.Context, string, time.Duration) ([]models.Bar, error) {
	return []models.Bar{
		{Time: 0, Open: 100, High: 105, Low: 95, Close: 100},
		{Time: 1, Open: 100, High: 110, Low: 100, Close: 110},
		{Time: 2, Open: 110, High: 120, Low: 110, Close: 120},
	}, nil
}

type stubClassifier struct{}

func (stubClassifier) Classify(_ context.Context, name string) (models.Classification, error) {
	if strings.EqualFold(name, "bitcoin") {
		return models.Classification{Sentiment: models.SentimentPositive, AssetID: "bitcoin"}, nil
	}
	return models.Classification{Sentiment: models.SentimentNeutral}, nil
}

type stubMetrics struct{}

func (stubMetrics) RecordRefresh(string, string)       {}
func (stubMetrics) RecordClassification(string)        {}
func (stubMetrics) RecordFetchLatency(string, float64) {}
func (stubMetrics) RecordBrickCount(string, int)       {}
func (stubMetrics) RecordError(string)                 {}

func newTestHandler(t *testing.T) (*ChartHandler, *usecase.Refresher) {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	r := usecase.NewRefresher(stubMarket{}, stubClassifier{}, stubMetrics{}, log, time.Hour, 7*24*time.Hour)
	return NewChartHandler(r, log), r
}

func waitReady(t *testing.T, r *usecase.Refresher) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r.Snapshot().State == models.StateReady {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("chart never became ready")
}

func TestSelectAsset(t *testing.T) {
	h, r := newTestHandler(t)
	defer r.Stop()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/asset", strings.NewReader(`{"name":"Bitcoin"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.SelectAsset(e.NewContext(req, rec)); err != nil {
		t.Fatalf("SelectAsset: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"bitcoin"`) {
		t.Fatalf("response missing asset id: %s", rec.Body.String())
	}
}

func TestSelectAssetValidation(t *testing.T) {
	h, r := newTestHandler(t)
	defer r.Stop()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/asset", strings.NewReader(`{"name":""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.SelectAsset(e.NewContext(req, rec)); err != nil {
		t.Fatalf("SelectAsset: %v", err)
	}
	var resp struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 payload, got %d", resp.Status)
	}
}

func TestGetChartLimit(t *testing.T) {
	h, r := newTestHandler(t)
	defer r.Stop()

	if _, err := r.Select(context.Background(), "Bitcoin"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	waitReady(t, r)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/chart?limit=1", nil)
	rec := httptest.NewRecorder()

	if err := h.GetChart(e.NewContext(req, rec)); err != nil {
		t.Fatalf("GetChart: %v", err)
	}
	var resp struct {
		Data models.ChartSnapshot `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.State != models.StateReady {
		t.Fatalf("unexpected state %q", resp.Data.State)
	}
	if len(resp.Data.Bricks) != 1 {
		t.Fatalf("limit not applied, got %d bricks", len(resp.Data.Bricks))
	}
}

func TestRefreshChartWithoutSelection(t *testing.T) {
	h, r := newTestHandler(t)
	defer r.Stop()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/chart/refresh", nil)
	rec := httptest.NewRecorder()

	if err := h.RefreshChart(e.NewContext(req, rec)); err != nil {
		t.Fatalf("RefreshChart: %v", err)
	}
	var resp struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusConflict {
		t.Fatalf("expected 409 payload, got %d", resp.Status)
	}
}

func TestClearAsset(t *testing.T) {
	h, r := newTestHandler(t)

	if _, err := r.Select(context.Background(), "Bitcoin"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	waitReady(t, r)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/asset", nil)
	rec := httptest.NewRecorder()

	if err := h.ClearAsset(e.NewContext(req, rec)); err != nil {
		t.Fatalf("ClearAsset: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if snap := r.Snapshot(); snap.State != models.StateIdle {
		t.Fatalf("expected idle snapshot, got %q", snap.State)
	}
}
