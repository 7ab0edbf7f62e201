package administration

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medchart/medchart/internal/domain/medicine"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/administrations", h.RecordScan)
	api.POST("/administrations/duplicate", h.ConfirmDuplicate)
	api.GET("/patients/:patientId/administrations", h.ListByPatient)
	api.GET("/patients/:patientId/administrations/progress", h.Progress)
	api.GET("/patients/:patientId/administrations/duplicate", h.DetectDuplicate)
}

type scanRequest struct {
	PatientID  string `json:"patientId"`
	MedicineID string `json:"medicineId"`
}

// RecordScan classifies a scan. All classification outcomes, including the
// error status, come back as 201 with the written record.
func (h *Handler) RecordScan(c echo.Context) error {
	var req scanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PatientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "patientId is required")
	}
	a, err := h.svc.RecordScan(c.Request().Context(), req.PatientID, req.MedicineID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if a == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) ConfirmDuplicate(c echo.Context) error {
	var req scanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.ConfirmDuplicate(c.Request().Context(), req.PatientID, req.MedicineID)
	if errors.Is(err, medicine.ErrNotFound) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown medicine")
	}
	if errors.Is(err, ErrNoPriorSuccess) {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) DetectDuplicate(c echo.Context) error {
	medicineID := c.QueryParam("medicineId")
	if medicineID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "medicineId is required")
	}
	a, err := h.svc.DetectDuplicate(c.Request().Context(), c.Param("patientId"), medicineID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"duplicate": a})
}

func (h *Handler) ListByPatient(c echo.Context) error {
	items, err := h.svc.ListByPatient(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Administration{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Progress(c echo.Context) error {
	p, err := h.svc.Progress(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}
