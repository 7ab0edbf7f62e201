package lab

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medchart/medchart/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the lab routes. Ordering needs the lab role; the
// charge role may order too.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/lab-test-types", h.TestTypes)
	api.POST("/lab-orders", h.CreateOrders, auth.RequireRole(auth.RoleLab, auth.RoleCharge))
	api.GET("/patients/:patientId/lab-results", h.ListByPatient)
}

func (h *Handler) TestTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, TestTypes())
}

type orderRequest struct {
	PatientID string   `json:"patientId"`
	Tests     []string `json:"tests"`
	OrderDate string   `json:"orderDate"`
}

func (h *Handler) CreateOrders(c echo.Context) error {
	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PatientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "patientId is required")
	}
	if len(req.Tests) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one test is required")
	}
	orderDate, err := time.Parse("2006-01-02", req.OrderDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "orderDate must be YYYY-MM-DD")
	}

	created, err := h.svc.CreateOrders(c.Request().Context(), req.PatientID, req.Tests, orderDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]int{"resultsCreated": created})
}

func (h *Handler) ListByPatient(c echo.Context) error {
	items, err := h.svc.ListByPatient(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Result{}
	}
	return c.JSON(http.StatusOK, items)
}
