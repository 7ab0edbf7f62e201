package audit

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medchart/medchart/pkg/pagination"
)

type Handler struct {
	rec *Recorder
}

func NewHandler(rec *Recorder) *Handler {
	return &Handler{rec: rec}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/audit/:entityType/:entityId", h.ListByEntity)
}

func (h *Handler) ListByEntity(c echo.Context) error {
	entityType := c.Param("entityType")
	if !ValidEntityType(entityType) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown entity type")
	}
	logs, err := h.rec.Query(c.Request().Context(), entityType, c.Param("entityId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if logs == nil {
		logs = []*Log{}
	}
	// Trails grow without bound, so the endpoint pages.
	p := pagination.FromContext(c)
	lo, hi := p.Bounds(len(logs))
	return c.JSON(http.StatusOK, pagination.NewResponse(logs[lo:hi], len(logs), p))
}
