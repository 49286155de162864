package api

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"Mercado/internal/domain/models"
	"Mercado/internal/usecase"
	httppkg "Mercado/pkg/http"
	"Mercado/pkg/logger"
)

// ChartHandler exposes the asset selection and Renko chart endpoints.
type ChartHandler struct {
	refresher *usecase.Refresher
	logger    *logger.Logger
}

// NewChartHandler creates the chart HTTP handler.
func NewChartHandler(refresher *usecase.Refresher, log *logger.Logger) *ChartHandler {
	return &ChartHandler{
		refresher: refresher,
		logger:    log,
	}
}

// RegisterRoutes wires the chart endpoints into Echo.
func (h *ChartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/asset", h.SelectAsset)
	g.DELETE("/asset", h.ClearAsset)
	g.GET("/chart", h.GetChart)
	g.POST("/chart/refresh", h.RefreshChart)
	g.GET("/chart/stream", h.StreamChart)
}

// SelectAsset classifies the submitted name and starts chart polling for
// it when a market-data key is available.
func (h *ChartHandler) SelectAsset(c echo.Context) error {
	req := new(models.SelectAssetRequest)
	if errs := httppkg.ReadAndValidateRequest(c, req); errs != nil {
		return httppkg.BadRequestResponse(c, errs)
	}

	cls, err := h.refresher.Select(c.Request().Context(), req.Name)
	if err != nil {
		h.logger.Error("asset selection failed",
			logger.String("name", req.Name),
			logger.Error(err))
		if errors.Is(err, models.ErrUpstreamUnavailable) {
			return httppkg.AppErrorResponse(c, httppkg.UpstreamError("classification service unavailable"))
		}
		return httppkg.InternalServerErrorResponse(c)
	}

	return httppkg.SuccessResponse(c, map[string]interface{}{
		"classification": cls,
		"snapshot":       h.refresher.Snapshot(),
	})
}

// ClearAsset retires the current selection and empties the chart slot.
func (h *ChartHandler) ClearAsset(c echo.Context) error {
	h.refresher.Stop()
	return httppkg.NoContentResponse(c)
}

// GetChart returns the current chart snapshot. Bricks can be limited to
// the most recent N and filtered to those at or after a since timestamp.
func (h *ChartHandler) GetChart(c echo.Context) error {
	req := new(models.ChartRequest)
	if errs := httppkg.ReadAndValidateRequest(c, req); errs != nil {
		return httppkg.BadRequestResponse(c, errs)
	}

	snap := h.refresher.Snapshot()

	since := httppkg.ParseTimeDefault(c.QueryParam("since"), time.Time{})
	if !since.IsZero() {
		cut := since.Unix()
		filtered := make([]models.Brick, 0, len(snap.Bricks))
		for _, b := range snap.Bricks {
			if b.Time >= cut {
				filtered = append(filtered, b)
			}
		}
		snap.Bricks = filtered
	}

	if len(snap.Bricks) > req.Limit {
		snap.Bricks = snap.Bricks[len(snap.Bricks)-req.Limit:]
	}

	return httppkg.SuccessResponse(c, snap)
}

// RefreshChart triggers an immediate refresh cycle outside the cadence.
func (h *ChartHandler) RefreshChart(c echo.Context) error {
	if err := h.refresher.RefreshNow(c.Request().Context()); err != nil {
		if errors.Is(err, models.ErrNoMarketKey) {
			return httppkg.AppErrorResponse(c, httppkg.ConflictError("no market-backed asset selected"))
		}
		return httppkg.InternalServerErrorResponse(c)
	}
	return httppkg.SuccessResponse(c, h.refresher.Snapshot())
}
