// Package api exposes the dashboard HTTP endpoints. Snapshot payloads are
// served unwrapped so the frontend consumes them without an envelope.
package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sudz7/n50-swing-algo/internal/domain/models"
	"github.com/sudz7/n50-swing-algo/internal/usecase"
	xhttp "github.com/sudz7/n50-swing-algo/pkg/http"
)

// Handler serves the signal and health endpoints.
type Handler struct {
	coord *usecase.Coordinator
}

// New creates the API handler.
func New(coord *usecase.Coordinator) *Handler {
	return &Handler{coord: coord}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/api/stocks", h.Stocks)
	e.GET("/api/stocks/:symbol", h.Stock)
	e.GET("/api/health", h.HealthCheck)
	e.POST("/api/refresh", h.Refresh)
}

// Root reports service identity and liveness.
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": "n50-swing-algo",
		"status":  "ok",
	})
}

// stocksQuery holds the optional snapshot filters.
type stocksQuery struct {
	Direction     string `query:"direction" validate:"omitempty,oneof=LONG SHORT NEUTRAL"`
	Sector        string `query:"sector"`
	MinConfidence int    `query:"minConfidence" validate:"omitempty,gte=0,lte=99"`
}

// Stocks serves the current market snapshot, optionally filtered by
// direction, sector, or minimum confidence. Before the first successful
// cycle there is nothing to serve, so the client gets a 503 and retries.
func (h *Handler) Stocks(c echo.Context) error {
	var q stocksQuery
	if verrs := xhttp.ReadAndValidateRequest(c, &q); verrs != nil {
		return xhttp.BadRequestResponse(c, verrs)
	}

	snap := h.coord.GetSnapshot()
	if snap == nil {
		return notReady(c)
	}

	if q.Direction != "" || q.Sector != "" || q.MinConfidence > 0 {
		snap = filterSnapshot(snap, q)
	}
	return c.JSON(http.StatusOK, snap)
}

// Stock serves one symbol's signal from the current snapshot.
func (h *Handler) Stock(c echo.Context) error {
	snap := h.coord.GetSnapshot()
	if snap == nil {
		return notReady(c)
	}

	symbol := strings.ToUpper(c.Param("symbol"))
	for i := range snap.Stocks {
		if snap.Stocks[i].Symbol == symbol {
			return c.JSON(http.StatusOK, snap.Stocks[i])
		}
	}
	return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no signal for symbol "+symbol))
}

func notReady(c echo.Context) error {
	return xhttp.ServiceUnavailableResponse(c, map[string]interface{}{
		"error":    "data not ready, refresh in progress",
		"fetching": true,
	})
}

// filterSnapshot returns a copy with only the matching signals; the
// cached snapshot itself is never mutated.
func filterSnapshot(snap *models.MarketSnapshot, q stocksQuery) *models.MarketSnapshot {
	stocks := make([]models.Signal, 0, len(snap.Stocks))
	for _, s := range snap.Stocks {
		if q.Direction != "" && s.Direction != models.Direction(q.Direction) {
			continue
		}
		if q.Sector != "" && !strings.EqualFold(s.Sector, q.Sector) {
			continue
		}
		if s.Confidence < q.MinConfidence {
			continue
		}
		stocks = append(stocks, s)
	}

	out := *snap
	out.Stocks = stocks
	out.Summary = models.Tally(stocks)
	return &out
}

// HealthCheck reports snapshot age and worker state.
func (h *Handler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, h.coord.GetHealth())
}

// Refresh requests a background refresh cycle. Always 200; "started"
// tells the caller whether a new cycle was actually queued.
func (h *Handler) Refresh(c echo.Context) error {
	started := h.coord.TriggerRefresh()
	return c.JSON(http.StatusOK, map[string]bool{"started": started})
}
